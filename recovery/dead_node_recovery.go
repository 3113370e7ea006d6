package recovery

import (
    "context"
    "fmt"
    "time"

    . "regiondb/cluster"
    . "regiondb/errors"
    . "regiondb/logging"
    . "regiondb/meta"
    . "regiondb/region"
    . "regiondb/table"
    "regiondb/coordination"
    "regiondb/monitor"
    "regiondb/util"
)

const MetaReadRetrySeconds = 1

// RecoveryServices bundles the collaborators a recovery task drives.
type RecoveryServices struct {
    LogSplitter LogSplitter
    Assignment AssignmentEngine
    Meta Reader
    Tables StateOracle
    Coordination coordination.Client
    Queue TaskQueue
    NodeManager NodeManager
    Process Process
    DeadNodes *DeadNodeRegistry
    // CarryingMeta reports whether the dead node was hosting the metadata
    // region itself. Recovering such a node must never block waiting for
    // metadata availability.
    CarryingMeta func(node NodeIdentity) bool
}

// DeadNodeRecovery recovers the regions of one dead node: replay its
// write-ahead logs, decide the fate of every region it was serving from
// the metadata table and the transition table, clean up coordination
// markers, and hand the survivors to the assignment engine in one batch.
type DeadNodeRecovery struct {
    services RecoveryServices
    node NodeIdentity
    splitLogs bool
    taskID uint64
}

func NewDeadNodeRecovery(services RecoveryServices, node NodeIdentity, splitLogs bool) *DeadNodeRecovery {
    if !services.DeadNodes.IsMember(node) {
        Log.Warningf("%v is NOT in the dead node registry. It should be", node)
    }

    return &DeadNodeRecovery{
        services: services,
        node: node,
        splitLogs: splitLogs,
        taskID: util.UUID64(),
    }
}

func (deadNodeRecovery *DeadNodeRecovery) Name() string {
    return fmt.Sprintf("DeadNodeRecovery-%v-%d", deadNodeRecovery.node, deadNodeRecovery.taskID)
}

func (deadNodeRecovery *DeadNodeRecovery) String() string {
    return deadNodeRecovery.Name()
}

func (deadNodeRecovery *DeadNodeRecovery) Node() NodeIdentity {
    return deadNodeRecovery.node
}

func (deadNodeRecovery *DeadNodeRecovery) carryingMeta() bool {
    if deadNodeRecovery.services.CarryingMeta == nil {
        return false
    }

    return deadNodeRecovery.services.CarryingMeta(deadNodeRecovery.node)
}

func (deadNodeRecovery *DeadNodeRecovery) Run(ctx context.Context) error {
    node := deadNodeRecovery.node
    services := deadNodeRecovery.services

    monitor.RecordRecoveryStarted()
    services.DeadNodes.StartRecovery(node)

    if deadNodeRecovery.splitLogs {
        Log.Infof("Splitting logs for %v", node)

        if err := services.LogSplitter.SplitLogs(node); err != nil {
            Log.Errorf("Failed log splitting for %v, will retry: %v", node, err.Error())

            // No in place retry: a fresh task goes back on the queue so
            // this worker is free to recover other nodes. The node is
            // re-registered first so the new task always sees itself as a
            // member.
            services.DeadNodes.Add(node)

            if submitErr := services.Queue.Submit(NewDeadNodeRecovery(services, node, deadNodeRecovery.splitLogs)); submitErr != nil {
                Log.Criticalf("Unable to requeue recovery of %v: %v", node, submitErr.Error())
            }

            monitor.RecordRecoveryRequeued()

            return ESplitLog
        }
    } else {
        Log.Infof("Skipping log splitting for %v", node)
    }

    // A recovery task for a node that was carrying the metadata region must
    // not wait for metadata to come back online: metadata only comes back
    // once another recovery task on this same bounded pool finishes, so
    // waiting here can strand every worker. The same applies while a prior
    // failover's metadata rebuild is still running. Hand the node off for
    // generic processing instead and leave it registered.
    if deadNodeRecovery.carryingMeta() || !services.Assignment.IsFailoverCleanupDone() {
        Log.Infof("Deferring recovery of %v for generic dead node processing", node)

        services.NodeManager.ProcessDeadNode(node)
        monitor.RecordRecoveryDeferred()

        return nil
    }

    defer services.DeadNodes.Finish(node)

    err := deadNodeRecovery.recoverRegions(ctx)

    if err != nil {
        monitor.RecordRecoveryFailed()

        return err
    }

    monitor.RecordRecoveryFinished()
    Log.Infof("Finished processing of shutdown of %v", node)

    return nil
}

func (deadNodeRecovery *DeadNodeRecovery) recoverRegions(ctx context.Context) error {
    node := deadNodeRecovery.node
    services := deadNodeRecovery.services

    owned, err := deadNodeRecovery.readOwnedRegions(ctx)

    if err != nil {
        return err
    }

    inFlight := services.Assignment.ProcessNodeShutdown(node)

    Log.Infof("Reassigning %d region(s) that %v was carrying (and %d region(s) that were opening on this node)", len(owned), node, len(inFlight))

    toAssign := make([]RegionInfo, 0, len(inFlight) + len(owned))
    inFlightSet := make(map[string]bool, len(inFlight))

    // Regions mid open or mid close on the dead node have no trustworthy
    // persisted record to classify against. They go straight into the
    // reassignment batch.
    for _, regionInfo := range inFlight {
        toAssign = append(toAssign, regionInfo)
        inFlightSet[regionInfo.ID] = true
    }

    for _, record := range owned {
        regionInfo := record.Region

        if inFlightSet[regionInfo.ID] {
            continue
        }

        transitionState, inTransition := services.Assignment.TransitionState(regionInfo.ID)

        if DecideRegionFate(services.Tables, regionInfo) == FATE_ASSIGN {
            if owner, ok := services.Assignment.OwningNode(regionInfo.ID); ok && !owner.Equals(node) {
                // The metadata snapshot raced a claim by a live node. If
                // this region had been in transition on the dead node it
                // would have been in the in flight set above.
                Log.Infof("Skip assigning region %v because it has been opened on %v", regionInfo, owner)
                monitor.RecordRegionSkipped()

                continue
            }

            if inTransition {
                if !transitionState.IsOnNode(node) || transitionState.IsClosed() || transitionState.IsOpened() || transitionState.IsSplit() {
                    // In transition on another node, or already terminal.
                    Log.Infof("Skip assigning region %v", transitionState)
                    monitor.RecordRegionSkipped()

                    continue
                }

                Log.Infof("Reassigning region with transition state %v and deleting its marker if it exists", transitionState)

                if err := services.Coordination.DeleteTransitionMarker(regionInfo.ID); err != nil {
                    // A stale marker would corrupt the next assignment of
                    // this region. Nothing safe can be done past this point.
                    services.Process.Abort(fmt.Sprintf("Unexpected coordination service error deleting transition marker for region %v", regionInfo), err)

                    return EMarkerDelete
                }
            }

            toAssign = append(toAssign, regionInfo)
            monitor.RecordRegionReassigned()
        } else if inTransition {
            if transitionState.IsSplitting() || transitionState.IsSplit() {
                // The node died mid split. The daughters supersede this
                // region so it is forced offline rather than reassigned.
                services.Assignment.ForceOffline(regionInfo)
                monitor.RecordRegionOfflined()
            } else if (transitionState.IsClosing() || transitionState.IsPendingClose()) &&
                (services.Tables.IsDisabling(regionInfo.Table) || services.Tables.IsDisabled(regionInfo.Table)) {
                // A partial disable must not leave a zombie transition
                // entry behind.
                services.Assignment.ClearTransition(regionInfo)
                services.Assignment.ForceOffline(regionInfo)
                monitor.RecordRegionOfflined()
            } else {
                Log.Warningf("THIS SHOULD NOT HAPPEN: unexpected region in transition %v not handled by recovery of %v", transitionState, node)
            }
        } else {
            monitor.RecordRegionSkipped()
        }
    }

    if err := services.Assignment.AssignBulk(toAssign); err != nil {
        Log.Errorf("Caught %v during bulk assignment for %v", err, node)

        return EAssignInterrupted
    }

    return nil
}

// readOwnedRegions blocks until metadata is available and then reads the
// set of regions last persisted as owned by the dead node. The read can
// race edits from live nodes and is retried without bound while the
// process is running.
func (deadNodeRecovery *DeadNodeRecovery) readOwnedRegions(ctx context.Context) (map[string]Record, error) {
    node := deadNodeRecovery.node
    services := deadNodeRecovery.services

    for {
        if services.Process.IsStopped() {
            return nil, EStopped
        }

        if err := services.Meta.WaitForMetaReady(ctx); err != nil {
            if services.Process.IsStopped() || ctx.Err() != nil {
                return nil, EStopped
            }

            Log.Infof("Received error waiting for metadata availability during recovery of %v, retrying: %v", node, err.Error())

            continue
        }

        records, err := services.Meta.RegionsOnNode(node)

        if err == nil {
            return records, nil
        }

        Log.Infof("Received error accessing metadata during recovery of %v, retrying metadata read: %v", node, err.Error())

        select {
        case <-ctx.Done():
            return nil, EStopped
        case <-time.After(time.Second * MetaReadRetrySeconds):
        }
    }
}
