package assignment

import (
    "sync"

    . "regiondb/cluster"
    . "regiondb/region"
)

// TransitionTable is the in-memory map of regions currently mid
// lifecycle-change. A region has an entry only while its lifecycle is
// unsettled. The table belongs to the assignment engine; other components
// read it through the engine's API.
type TransitionTable struct {
    states map[string]TransitionState
    lock sync.Mutex
}

func NewTransitionTable() *TransitionTable {
    return &TransitionTable{
        states: make(map[string]TransitionState),
    }
}

func (transitionTable *TransitionTable) Set(transitionState TransitionState) {
    transitionTable.lock.Lock()
    defer transitionTable.lock.Unlock()

    transitionTable.states[transitionState.RegionID] = transitionState
}

func (transitionTable *TransitionTable) Get(regionID string) (TransitionState, bool) {
    transitionTable.lock.Lock()
    defer transitionTable.lock.Unlock()

    transitionState, ok := transitionTable.states[regionID]

    return transitionState, ok
}

func (transitionTable *TransitionTable) Remove(regionID string) {
    transitionTable.lock.Lock()
    defer transitionTable.lock.Unlock()

    delete(transitionTable.states, regionID)
}

// OnNode returns the transition states bound to a node, filtered by phase
// when phases is not empty.
func (transitionTable *TransitionTable) OnNode(node NodeIdentity, phases ...int) []TransitionState {
    transitionTable.lock.Lock()
    defer transitionTable.lock.Unlock()

    states := make([]TransitionState, 0)

    for _, transitionState := range transitionTable.states {
        if !transitionState.IsOnNode(node) {
            continue
        }

        if len(phases) == 0 {
            states = append(states, transitionState)

            continue
        }

        for _, phase := range phases {
            if transitionState.Phase == phase {
                states = append(states, transitionState)

                break
            }
        }
    }

    return states
}

func (transitionTable *TransitionTable) All() []TransitionState {
    transitionTable.lock.Lock()
    defer transitionTable.lock.Unlock()

    states := make([]TransitionState, 0, len(transitionTable.states))

    for _, transitionState := range transitionTable.states {
        states = append(states, transitionState)
    }

    return states
}
