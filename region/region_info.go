package region

import (
    "fmt"
)

// RegionInfo is the immutable identity of a data region: one contiguous
// key range of a table, the unit of assignment. The Offline and Split
// flags are persisted alongside the identity by whoever writes the
// metadata table; a region carrying both is the tombstone row of a
// completed split whose daughters are the live regions.
type RegionInfo struct {
    ID string
    Table string
    StartKey []byte
    EndKey []byte
    Offline bool
    Split bool
}

func (regionInfo RegionInfo) IsSplitParent() bool {
    return regionInfo.Offline && regionInfo.Split
}

func (regionInfo RegionInfo) String() string {
    return fmt.Sprintf("%s (table %s)", regionInfo.ID, regionInfo.Table)
}
