package recovery_test

import (
    "context"
    "sync"

    . "regiondb/recovery"
    rerrors "regiondb/errors"

    . "github.com/onsi/ginkgo"
    . "github.com/onsi/gomega"
)

type testTask struct {
    name string
    run func(ctx context.Context) error
}

func (task *testTask) Run(ctx context.Context) error {
    return task.run(ctx)
}

func (task *testTask) Name() string {
    return task.name
}

var _ = Describe("TaskExecutor", func() {
    var taskExecutor *TaskExecutor

    BeforeEach(func() {
        taskExecutor = NewTaskExecutor()
    })

    AfterEach(func() {
        taskExecutor.Stop()
    })

    Describe("#Submit", func() {
        It("should reject submissions to a pool that does not exist", func() {
            err := taskExecutor.Submit("no-such-pool", &testTask{ name: "t", run: func(ctx context.Context) error { return nil } })

            Expect(err).Should(Equal(rerrors.ENoSuchPool))
        })

        It("should reject submissions once the pool queue is full", func() {
            taskExecutor.AddPool("pool", 0, 1)

            task := &testTask{ name: "t", run: func(ctx context.Context) error { return nil } }

            Expect(taskExecutor.Submit("pool", task)).Should(BeNil())
            Expect(taskExecutor.Submit("pool", task)).Should(Equal(rerrors.EQueueFull))
        })
    })

    Describe("#Start", func() {
        It("should run queued tasks on the pool's workers", func() {
            taskExecutor.AddPool("pool", 2, 8)

            var wg sync.WaitGroup

            wg.Add(3)

            for i := 0; i < 3; i += 1 {
                taskExecutor.Submit("pool", &testTask{ name: "t", run: func(ctx context.Context) error {
                    wg.Done()

                    return nil
                } })
            }

            taskExecutor.Start()

            done := make(chan int)

            go func() {
                wg.Wait()
                close(done)
            }()

            Eventually(done).Should(BeClosed())
        })

        It("should keep running tasks from one pool while another pool's queue is idle", func() {
            taskExecutor.AddPool("busy", 1, 8)
            taskExecutor.AddPool("idle", 1, 8)
            taskExecutor.Start()

            ran := make(chan int, 1)

            taskExecutor.Submit("busy", &testTask{ name: "t", run: func(ctx context.Context) error {
                ran <- 1

                return nil
            } })

            Eventually(ran).Should(Receive())
        })
    })

    Describe("#RunningTasks", func() {
        It("should report a task while it executes and forget it once it returns", func() {
            taskExecutor.AddPool("pool", 1, 8)
            taskExecutor.Start()

            started := make(chan int)
            release := make(chan int)

            taskExecutor.Submit("pool", &testTask{ name: "slow", run: func(ctx context.Context) error {
                close(started)
                <-release

                return nil
            } })

            Eventually(started).Should(BeClosed())
            Expect(taskExecutor.RunningTasks()).Should(Equal([]TaskStatus{ TaskStatus{ Pool: "pool", Name: "slow" } }))

            close(release)

            Eventually(func() int {
                return len(taskExecutor.RunningTasks())
            }).Should(Equal(0))
        })
    })

    Describe("#Queue", func() {
        It("should return a queue bound to one pool", func() {
            taskExecutor.AddPool("pool", 0, 1)

            queue := taskExecutor.Queue("pool")
            task := &testTask{ name: "t", run: func(ctx context.Context) error { return nil } }

            Expect(queue.Submit(task)).Should(BeNil())
            Expect(queue.Submit(task)).Should(Equal(rerrors.EQueueFull))
        })
    })
})
