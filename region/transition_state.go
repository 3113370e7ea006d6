package region

import (
    "fmt"

    . "regiondb/cluster"
)

// Lifecycle phases of a region that is currently mid open/close/split.
const (
    PENDING_OPEN = iota
    OPENING = iota
    OPEN = iota
    PENDING_CLOSE = iota
    CLOSING = iota
    CLOSED = iota
    SPLITTING = iota
    SPLIT = iota
    OFFLINE = iota
)

func PhaseName(p int) string {
    names := map[int]string{
        PENDING_OPEN: "PENDING_OPEN",
        OPENING: "OPENING",
        OPEN: "OPEN",
        PENDING_CLOSE: "PENDING_CLOSE",
        CLOSING: "CLOSING",
        CLOSED: "CLOSED",
        SPLITTING: "SPLITTING",
        SPLIT: "SPLIT",
        OFFLINE: "OFFLINE",
    }

    return names[p]
}

// TransitionState is one entry of the in-memory transition table: a region
// whose lifecycle is unsettled, bound to the node driving the transition.
// It is owned and mutated by the assignment engine. Recovery only reads it.
type TransitionState struct {
    RegionID string
    Node NodeIdentity
    Phase int
}

func (transitionState TransitionState) IsOnNode(node NodeIdentity) bool {
    return transitionState.Node.Equals(node)
}

func (transitionState TransitionState) IsOpened() bool {
    return transitionState.Phase == OPEN
}

func (transitionState TransitionState) IsClosed() bool {
    return transitionState.Phase == CLOSED
}

func (transitionState TransitionState) IsClosing() bool {
    return transitionState.Phase == CLOSING
}

func (transitionState TransitionState) IsPendingClose() bool {
    return transitionState.Phase == PENDING_CLOSE
}

func (transitionState TransitionState) IsSplitting() bool {
    return transitionState.Phase == SPLITTING
}

func (transitionState TransitionState) IsSplit() bool {
    return transitionState.Phase == SPLIT
}

func (transitionState TransitionState) String() string {
    return fmt.Sprintf("%s in %s on %v", transitionState.RegionID, PhaseName(transitionState.Phase), transitionState.Node)
}
