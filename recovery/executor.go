package recovery

import (
    "context"
    "sync"

    . "regiondb/errors"
    . "regiondb/logging"
)

// Pool names used for dead node recovery. Metadata carrying nodes recover
// on their own small pool so generic recoveries can never starve them.
const (
    MetaRecoveryPool = "meta-node-recovery"
    GenericRecoveryPool = "node-recovery"
)

type taskPool struct {
    name string
    workers int
    tasks chan Task
}

// TaskStatus describes one task currently executing on a pool worker.
type TaskStatus struct {
    Pool string
    Name string
}

// TaskExecutor runs tasks on named bounded worker pools. Each pool has a
// fixed worker count and a fixed queue depth. A task runs on exactly one
// worker. Retry happens at the queue level by submitting a fresh task,
// never by looping inside a worker.
type TaskExecutor struct {
    pools map[string]*taskPool
    running map[uint64]TaskStatus
    nextRunningID uint64
    ctx context.Context
    cancel func()
    wg sync.WaitGroup
    isRunning bool
    lock sync.Mutex
}

func NewTaskExecutor() *TaskExecutor {
    return &TaskExecutor{
        pools: make(map[string]*taskPool),
        running: make(map[uint64]TaskStatus),
    }
}

func (taskExecutor *TaskExecutor) AddPool(name string, workers int, queueDepth int) {
    taskExecutor.lock.Lock()
    defer taskExecutor.lock.Unlock()

    if taskExecutor.isRunning {
        return
    }

    taskExecutor.pools[name] = &taskPool{
        name: name,
        workers: workers,
        tasks: make(chan Task, queueDepth),
    }
}

func (taskExecutor *TaskExecutor) Start() {
    taskExecutor.lock.Lock()
    defer taskExecutor.lock.Unlock()

    if taskExecutor.isRunning {
        return
    }

    taskExecutor.isRunning = true
    taskExecutor.ctx, taskExecutor.cancel = context.WithCancel(context.Background())

    for _, pool := range taskExecutor.pools {
        for i := 0; i < pool.workers; i += 1 {
            taskExecutor.wg.Add(1)

            go taskExecutor.runWorker(pool)
        }
    }
}

func (taskExecutor *TaskExecutor) runWorker(pool *taskPool) {
    defer taskExecutor.wg.Done()

    for {
        select {
        case <-taskExecutor.ctx.Done():
            return
        case task := <-pool.tasks:
            Log.Infof("Pool %s executing task %s", pool.name, task.Name())

            runningID := taskExecutor.markRunning(pool.name, task.Name())

            if err := task.Run(taskExecutor.ctx); err != nil {
                Log.Errorf("Task %s failed: %v", task.Name(), err.Error())
            }

            taskExecutor.markDone(runningID)
        }
    }
}

func (taskExecutor *TaskExecutor) Submit(poolName string, task Task) error {
    taskExecutor.lock.Lock()
    pool, ok := taskExecutor.pools[poolName]
    taskExecutor.lock.Unlock()

    if !ok {
        return ENoSuchPool
    }

    select {
    case pool.tasks <- task:
        return nil
    default:
        return EQueueFull
    }
}

func (taskExecutor *TaskExecutor) markRunning(poolName string, taskName string) uint64 {
    taskExecutor.lock.Lock()
    defer taskExecutor.lock.Unlock()

    taskExecutor.nextRunningID += 1
    taskExecutor.running[taskExecutor.nextRunningID] = TaskStatus{ Pool: poolName, Name: taskName }

    return taskExecutor.nextRunningID
}

func (taskExecutor *TaskExecutor) markDone(runningID uint64) {
    taskExecutor.lock.Lock()
    defer taskExecutor.lock.Unlock()

    delete(taskExecutor.running, runningID)
}

// RunningTasks returns a snapshot of the tasks currently executing across
// all pools.
func (taskExecutor *TaskExecutor) RunningTasks() []TaskStatus {
    taskExecutor.lock.Lock()
    defer taskExecutor.lock.Unlock()

    statuses := make([]TaskStatus, 0, len(taskExecutor.running))

    for _, status := range taskExecutor.running {
        statuses = append(statuses, status)
    }

    return statuses
}

// Queue returns a TaskQueue bound to one pool.
func (taskExecutor *TaskExecutor) Queue(poolName string) TaskQueue {
    return &poolQueue{
        taskExecutor: taskExecutor,
        poolName: poolName,
    }
}

func (taskExecutor *TaskExecutor) Stop() {
    taskExecutor.lock.Lock()

    if !taskExecutor.isRunning {
        taskExecutor.lock.Unlock()

        return
    }

    taskExecutor.isRunning = false
    taskExecutor.cancel()
    taskExecutor.lock.Unlock()

    taskExecutor.wg.Wait()
}

type poolQueue struct {
    taskExecutor *TaskExecutor
    poolName string
}

func (queue *poolQueue) Submit(task Task) error {
    return queue.taskExecutor.Submit(queue.poolName, task)
}
