package table

import (
    "sync"
)

// Cluster-wide lifecycle states of a table.
const (
    ENABLED = iota
    DISABLED = iota
    DISABLING = iota
    ENABLING = iota
)

func StateName(s int) string {
    names := map[int]string{
        ENABLED: "ENABLED",
        DISABLED: "DISABLED",
        DISABLING: "DISABLING",
        ENABLING: "ENABLING",
    }

    return names[s]
}

// StateOracle answers lifecycle questions about tables. A table that was
// deleted is simply not present.
type StateOracle interface {
    IsTablePresent(table string) bool
    IsDisabled(table string) bool
    IsDisabling(table string) bool
}

// StateStore is an in-memory StateOracle kept up to date by whatever
// component applies table administration commands.
type StateStore struct {
    states map[string]int
    lock sync.Mutex
}

func NewStateStore() *StateStore {
    return &StateStore{
        states: make(map[string]int),
    }
}

func (stateStore *StateStore) SetState(table string, state int) {
    stateStore.lock.Lock()
    defer stateStore.lock.Unlock()

    stateStore.states[table] = state
}

func (stateStore *StateStore) Remove(table string) {
    stateStore.lock.Lock()
    defer stateStore.lock.Unlock()

    delete(stateStore.states, table)
}

func (stateStore *StateStore) IsTablePresent(table string) bool {
    stateStore.lock.Lock()
    defer stateStore.lock.Unlock()

    _, ok := stateStore.states[table]

    return ok
}

func (stateStore *StateStore) IsDisabled(table string) bool {
    stateStore.lock.Lock()
    defer stateStore.lock.Unlock()

    return stateStore.states[table] == DISABLED
}

func (stateStore *StateStore) IsDisabling(table string) bool {
    stateStore.lock.Lock()
    defer stateStore.lock.Unlock()

    return stateStore.states[table] == DISABLING
}
