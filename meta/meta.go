package meta

import (
    "context"

    . "regiondb/cluster"
    . "regiondb/region"
)

// Record is one persisted row of the metadata table: the last known
// assignment of a region to a node. The assignment engine writes rows as
// regions open, close, and split; recovery only reads them, and a row may
// be stale by the time it is read.
type Record struct {
    Region RegionInfo `json:"region"`
    Node NodeIdentity `json:"node"`
    Seq uint64 `json:"seq"`
}

// Reader is the read side of the metadata table as seen by recovery.
// WaitForMetaReady blocks until the metadata table is being served by some
// live node. RegionsOnNode returns the set of regions last persisted as
// owned by the given node, keyed by region ID.
type Reader interface {
    WaitForMetaReady(ctx context.Context) error
    RegionsOnNode(node NodeIdentity) (map[string]Record, error)
}
