package recovery

import (
    "context"

    . "regiondb/cluster"
    . "regiondb/region"
)

// Task is one unit of work runnable on an executor pool. A task instance
// lives for a single execution attempt. A failed attempt that should be
// retried produces a new instance submitted back to a queue, never a
// resumed one.
type Task interface {
    Run(ctx context.Context) error
    Name() string
}

type TaskQueue interface {
    Submit(task Task) error
}

// LogSplitter replays the write-ahead logs of a dead node into files the
// next owners of its regions can pick up. Splitting talks to the backing
// file store and can be slow or unavailable.
type LogSplitter interface {
    SplitLogs(node NodeIdentity) error
}

// AssignmentEngine owns the in-memory transition table and actually
// places regions on live nodes. Recovery never touches the transition
// table directly. It reads through TransitionState and OwningNode and
// requests narrow mutations through ForceOffline and ClearTransition.
type AssignmentEngine interface {
    // IsFailoverCleanupDone reports whether the metadata rebuild phase of a
    // prior failover has completed.
    IsFailoverCleanupDone() bool
    // ProcessNodeShutdown removes the dead node from the assignment
    // engine's own bookkeeping and returns the regions that were mid open
    // or mid close on that node in the transition table.
    ProcessNodeShutdown(node NodeIdentity) []RegionInfo
    TransitionState(regionID string) (TransitionState, bool)
    OwningNode(regionID string) (NodeIdentity, bool)
    ForceOffline(regionInfo RegionInfo)
    ClearTransition(regionInfo RegionInfo)
    AssignBulk(regions []RegionInfo) error
}

// NodeManager accepts a dead node for generic lower priority processing.
// The deadlock guard hands metadata carrying nodes off through this
// interface instead of letting their recovery block a bounded pool.
type NodeManager interface {
    ProcessDeadNode(node NodeIdentity)
}

// Process is the hosting process. Abort is a last resort for states that
// would corrupt future assignment if recovery proceeded.
type Process interface {
    IsStopped() bool
    Abort(reason string, err error)
}
