package assignment

import (
    "sync"

    . "regiondb/cluster"
    . "regiondb/logging"
    . "regiondb/region"
)

// RegionPlacer picks live nodes for a batch of regions and drives their
// transition to OPEN. Placement policy is not this package's concern.
type RegionPlacer interface {
    Place(regions []RegionInfo) error
}

// Engine is an in-memory assignment engine: it owns the transition table
// and the settled region to node assignments, and exposes the narrow
// mutation surface recovery is allowed to use.
type Engine struct {
    transitionTable *TransitionTable
    regions map[string]RegionInfo
    owners map[string]NodeIdentity
    placer RegionPlacer
    pending []RegionInfo
    failoverCleanupDone bool
    lock sync.Mutex
}

func NewEngine(transitionTable *TransitionTable, placer RegionPlacer) *Engine {
    return &Engine{
        transitionTable: transitionTable,
        regions: make(map[string]RegionInfo),
        owners: make(map[string]NodeIdentity),
        placer: placer,
        pending: make([]RegionInfo, 0),
        failoverCleanupDone: true,
    }
}

// AddRegion registers a region in the engine's catalog.
func (engine *Engine) AddRegion(regionInfo RegionInfo) {
    engine.lock.Lock()
    defer engine.lock.Unlock()

    engine.regions[regionInfo.ID] = regionInfo
}

// SetOwner records a settled assignment and clears any transition entry,
// since a region only stays in the transition table while unsettled.
func (engine *Engine) SetOwner(regionInfo RegionInfo, node NodeIdentity) {
    engine.lock.Lock()
    engine.regions[regionInfo.ID] = regionInfo
    engine.owners[regionInfo.ID] = node
    engine.lock.Unlock()

    engine.transitionTable.Remove(regionInfo.ID)
}

func (engine *Engine) SetTransition(transitionState TransitionState) {
    engine.transitionTable.Set(transitionState)
}

func (engine *Engine) SetFailoverCleanupDone(done bool) {
    engine.lock.Lock()
    defer engine.lock.Unlock()

    engine.failoverCleanupDone = done
}

func (engine *Engine) IsFailoverCleanupDone() bool {
    engine.lock.Lock()
    defer engine.lock.Unlock()

    return engine.failoverCleanupDone
}

// ProcessNodeShutdown drops the dead node's settled assignments and
// returns the regions that were mid open or mid close on it. Those have
// no trustworthy persisted record and are reassigned unconditionally.
func (engine *Engine) ProcessNodeShutdown(node NodeIdentity) []RegionInfo {
    inFlightStates := engine.transitionTable.OnNode(node, PENDING_OPEN, OPENING, PENDING_CLOSE, CLOSING)

    engine.lock.Lock()
    defer engine.lock.Unlock()

    for regionID, owner := range engine.owners {
        if owner.Equals(node) {
            delete(engine.owners, regionID)
        }
    }

    inFlight := make([]RegionInfo, 0, len(inFlightStates))

    for _, transitionState := range inFlightStates {
        regionInfo, ok := engine.regions[transitionState.RegionID]

        if !ok {
            Log.Warningf("Region %s is in transition on %v but is not in the region catalog", transitionState.RegionID, node)

            continue
        }

        inFlight = append(inFlight, regionInfo)
    }

    return inFlight
}

func (engine *Engine) TransitionState(regionID string) (TransitionState, bool) {
    return engine.transitionTable.Get(regionID)
}

func (engine *Engine) OwningNode(regionID string) (NodeIdentity, bool) {
    if transitionState, ok := engine.transitionTable.Get(regionID); ok {
        return transitionState.Node, true
    }

    engine.lock.Lock()
    defer engine.lock.Unlock()

    node, ok := engine.owners[regionID]

    return node, ok
}

func (engine *Engine) ForceOffline(regionInfo RegionInfo) {
    Log.Infof("Forcing region %v offline", regionInfo)

    engine.transitionTable.Remove(regionInfo.ID)

    engine.lock.Lock()
    defer engine.lock.Unlock()

    delete(engine.owners, regionInfo.ID)
}

func (engine *Engine) ClearTransition(regionInfo RegionInfo) {
    engine.transitionTable.Remove(regionInfo.ID)
}

func (engine *Engine) AssignBulk(regions []RegionInfo) error {
    if len(regions) == 0 {
        return nil
    }

    if engine.placer == nil {
        Log.Infof("No region placer is attached. Holding %d region(s) as pending assignments", len(regions))

        engine.lock.Lock()
        defer engine.lock.Unlock()

        engine.pending = append(engine.pending, regions...)

        return nil
    }

    return engine.placer.Place(regions)
}

// PendingAssignments returns regions held back because no placer was
// attached when they were submitted.
func (engine *Engine) PendingAssignments() []RegionInfo {
    engine.lock.Lock()
    defer engine.lock.Unlock()

    pending := make([]RegionInfo, len(engine.pending))
    copy(pending, engine.pending)

    return pending
}
