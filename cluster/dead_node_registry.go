package cluster

import (
    "sync"

    . "regiondb/logging"
)

type DeadNodeEntry struct {
    Node NodeIdentity
    RecoveryInProgress bool
}

// DeadNodeRegistry is the shared set of nodes whose recovery has not yet
// completed. Membership changes must be atomic with respect to concurrent
// recovery attempts for the same node, so every operation holds the lock.
type DeadNodeRegistry struct {
    deadNodes map[string]*DeadNodeEntry
    lock sync.Mutex
}

func NewDeadNodeRegistry() *DeadNodeRegistry {
    return &DeadNodeRegistry{
        deadNodes: make(map[string]*DeadNodeEntry),
    }
}

// Add registers a node as dead. Adding a node that is already a member
// leaves its entry untouched.
func (deadNodeRegistry *DeadNodeRegistry) Add(node NodeIdentity) {
    deadNodeRegistry.lock.Lock()
    defer deadNodeRegistry.lock.Unlock()

    if _, ok := deadNodeRegistry.deadNodes[node.String()]; ok {
        return
    }

    deadNodeRegistry.deadNodes[node.String()] = &DeadNodeEntry{ Node: node }
}

func (deadNodeRegistry *DeadNodeRegistry) IsMember(node NodeIdentity) bool {
    deadNodeRegistry.lock.Lock()
    defer deadNodeRegistry.lock.Unlock()

    _, ok := deadNodeRegistry.deadNodes[node.String()]

    return ok
}

// StartRecovery flags a member node as having an active recovery attempt.
func (deadNodeRegistry *DeadNodeRegistry) StartRecovery(node NodeIdentity) {
    deadNodeRegistry.lock.Lock()
    defer deadNodeRegistry.lock.Unlock()

    if entry, ok := deadNodeRegistry.deadNodes[node.String()]; ok {
        entry.RecoveryInProgress = true
    }
}

// Finish removes a node whose recovery has completed. Finishing a node
// that is not a member is a no-op, not an error: the same node's recovery
// may already have been finished by an earlier attempt.
func (deadNodeRegistry *DeadNodeRegistry) Finish(node NodeIdentity) {
    deadNodeRegistry.lock.Lock()
    defer deadNodeRegistry.lock.Unlock()

    if _, ok := deadNodeRegistry.deadNodes[node.String()]; !ok {
        Log.Debugf("Finish called for node %v which is not in the dead node registry. Ignoring", node)

        return
    }

    delete(deadNodeRegistry.deadNodes, node.String())
}

// Entries returns a snapshot of the registry contents.
func (deadNodeRegistry *DeadNodeRegistry) Entries() []DeadNodeEntry {
    deadNodeRegistry.lock.Lock()
    defer deadNodeRegistry.lock.Unlock()

    entries := make([]DeadNodeEntry, 0, len(deadNodeRegistry.deadNodes))

    for _, entry := range deadNodeRegistry.deadNodes {
        entries = append(entries, *entry)
    }

    return entries
}

func (deadNodeRegistry *DeadNodeRegistry) Count() int {
    deadNodeRegistry.lock.Lock()
    defer deadNodeRegistry.lock.Unlock()

    return len(deadNodeRegistry.deadNodes)
}
