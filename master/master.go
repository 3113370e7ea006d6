package master

import (
    "fmt"
    "net/http"
    "sync"
    "time"

    "github.com/gorilla/mux"

    . "regiondb/cluster"
    . "regiondb/logging"
    "regiondb/coordination"
    "regiondb/meta"
    "regiondb/monitor"
    "regiondb/recovery"
    "regiondb/routes"
    "regiondb/storage"
    "regiondb/table"
)

type MasterConfig struct {
    Port int
    MetaStoreFile string
    CoordinationEndpoints []string
    MetaRecoveryWorkers int
    NodeRecoveryWorkers int
    RecoveryQueueDepth int
    LogSplitter recovery.LogSplitter
    Assignment recovery.AssignmentEngine
    Tables table.StateOracle
    CarryingMeta func(node NodeIdentity) bool
    // Coordination overrides the etcd backed client when set. Used by
    // integration tests.
    Coordination coordination.Client
    // DeferredRecoveryDelay overrides how long a deferred recovery waits
    // before going back on the generic pool. Zero means the default.
    DeferredRecoveryDelay time.Duration
}

const DefaultDeferredRecoveryDelay = time.Second

// Master hosts the dead node recovery machinery: the dead node registry,
// the recovery executor pools, the metadata store, the coordination
// client, and the HTTP surface for status and manual recovery.
type Master struct {
    port int
    deadNodes *DeadNodeRegistry
    metaStorage storage.StorageDriver
    metaStore *meta.MetaStore
    coordinationClient coordination.Client
    taskExecutor *recovery.TaskExecutor
    logSplitter recovery.LogSplitter
    assignment recovery.AssignmentEngine
    tables table.StateOracle
    carryingMeta func(node NodeIdentity) bool
    deferredRecoveryDelay time.Duration
    httpServer *http.Server
    isStopped bool
    lock sync.Mutex
}

// noopLogSplitter stands in when no log splitting engine is wired up,
// treating every node's logs as already split. Standalone mode only.
type noopLogSplitter struct {
}

func (noopLogSplitter) SplitLogs(node NodeIdentity) error {
    Log.Infof("No log splitting engine is attached. Treating logs of %v as already split", node)

    return nil
}

func NewMaster(masterConfig MasterConfig) (*Master, error) {
    coordinationClient := masterConfig.Coordination

    if coordinationClient == nil {
        etcdClient, err := coordination.NewEtcdCoordinationClient(masterConfig.CoordinationEndpoints)

        if err != nil {
            return nil, err
        }

        coordinationClient = etcdClient
    }

    logSplitter := masterConfig.LogSplitter

    if logSplitter == nil {
        logSplitter = noopLogSplitter{ }
    }

    deferredRecoveryDelay := masterConfig.DeferredRecoveryDelay

    if deferredRecoveryDelay == 0 {
        deferredRecoveryDelay = DefaultDeferredRecoveryDelay
    }

    taskExecutor := recovery.NewTaskExecutor()
    taskExecutor.AddPool(recovery.MetaRecoveryPool, masterConfig.MetaRecoveryWorkers, masterConfig.RecoveryQueueDepth)
    taskExecutor.AddPool(recovery.GenericRecoveryPool, masterConfig.NodeRecoveryWorkers, masterConfig.RecoveryQueueDepth)

    metaStorage := storage.NewLevelDBStorageDriver(masterConfig.MetaStoreFile, nil)

    master := &Master{
        port: masterConfig.Port,
        deadNodes: NewDeadNodeRegistry(),
        metaStorage: metaStorage,
        // The metadata table gets its own keyspace within the storage
        // file so other master state can share it later.
        metaStore: meta.NewMetaStore(storage.NewPrefixedStorageDriver([]byte("meta."), metaStorage)),
        coordinationClient: coordinationClient,
        taskExecutor: taskExecutor,
        logSplitter: logSplitter,
        assignment: masterConfig.Assignment,
        tables: masterConfig.Tables,
        carryingMeta: masterConfig.CarryingMeta,
        deferredRecoveryDelay: deferredRecoveryDelay,
    }

    return master, nil
}

func (master *Master) Start() error {
    if err := master.metaStorage.Open(); err != nil {
        Log.Criticalf("Unable to open the metadata store: %v", err.Error())

        return err
    }

    master.taskExecutor.Start()

    router := mux.NewRouter()

    recoveryEndpoint := &routes.RecoveryEndpoint{ RecoveryFacade: master }
    recoveryEndpoint.Attach(router)
    monitor.AttachMetricsEndpoint(router)

    master.httpServer = &http.Server{
        Addr: fmt.Sprintf(":%d", master.port),
        Handler: router,
    }

    Log.Infof("Master listening on port %d", master.port)

    return master.httpServer.ListenAndServe()
}

func (master *Master) Stop() {
    master.lock.Lock()

    if master.isStopped {
        master.lock.Unlock()

        return
    }

    master.isStopped = true
    master.lock.Unlock()

    if master.httpServer != nil {
        master.httpServer.Close()
    }

    master.taskExecutor.Stop()
    master.metaStorage.Close()
}

func (master *Master) IsStopped() bool {
    master.lock.Lock()
    defer master.lock.Unlock()

    return master.isStopped
}

// Abort shuts the process down because recovery reached a state where
// proceeding would corrupt future assignment. The shutdown happens off
// the calling goroutine since Abort is reached from executor workers.
func (master *Master) Abort(reason string, err error) {
    Log.Criticalf("Aborting master: %s: %v", reason, err)

    go master.Stop()
}

func (master *Master) MetaStore() *meta.MetaStore {
    return master.metaStore
}

func (master *Master) DeadNodes() []DeadNodeEntry {
    return master.deadNodes.Entries()
}

func (master *Master) RunningRecoveries() []routes.RecoveryTaskModel {
    statuses := master.taskExecutor.RunningTasks()
    tasks := make([]routes.RecoveryTaskModel, 0, len(statuses))

    for _, status := range statuses {
        tasks = append(tasks, routes.RecoveryTaskModel{ Pool: status.Pool, Name: status.Name })
    }

    return tasks
}

// RecoverDeadNode registers a node as dead and queues its recovery.
// Nodes carrying the metadata region recover on the dedicated pool so
// their recovery is never stuck behind ordinary ones.
func (master *Master) RecoverDeadNode(node NodeIdentity, splitLogs bool) error {
    master.deadNodes.Add(node)

    pool := recovery.GenericRecoveryPool

    if master.carryingMeta != nil && master.carryingMeta(node) {
        pool = recovery.MetaRecoveryPool
    }

    task := recovery.NewDeadNodeRecovery(master.recoveryServices(pool), node, splitLogs)

    return master.taskExecutor.Submit(pool, task)
}

// ProcessDeadNode accepts a node whose recovery was deferred by the
// deadlock guard. Its logs are already split, so the queued task skips
// log splitting. The generic pass must not re-check the metadata carrier
// fact: that fact never changes for a dead node, so carrying it forward
// would defer the node back here forever. The metadata region itself is
// recovered by the deferring pass's own pool; the generic pass only
// handles the node's ordinary regions.
func (master *Master) ProcessDeadNode(node NodeIdentity) {
    master.deadNodes.Add(node)

    services := master.recoveryServices(recovery.GenericRecoveryPool)
    services.CarryingMeta = nil

    task := recovery.NewDeadNodeRecovery(services, node, false)

    // The resubmission waits out a short delay so a pending failover
    // cleanup does not spin the pool with immediate defer/resubmit cycles.
    time.AfterFunc(master.deferredRecoveryDelay, func() {
        if master.IsStopped() {
            return
        }

        if err := master.taskExecutor.Submit(recovery.GenericRecoveryPool, task); err != nil {
            Log.Criticalf("Unable to queue deferred recovery of %v: %v", node, err.Error())
        }
    })
}

func (master *Master) recoveryServices(pool string) recovery.RecoveryServices {
    return recovery.RecoveryServices{
        LogSplitter: master.logSplitter,
        Assignment: master.assignment,
        Meta: master.metaStore,
        Tables: master.tables,
        Coordination: master.coordinationClient,
        Queue: master.taskExecutor.Queue(pool),
        NodeManager: master,
        Process: master,
        DeadNodes: master.deadNodes,
        CarryingMeta: master.carryingMeta,
    }
}
