package master_test

import (
    "io/ioutil"
    "os"
    "path/filepath"
    "sync/atomic"
    "time"

    "regiondb/assignment"
    "regiondb/table"

    . "regiondb/cluster"
    . "regiondb/master"

    . "github.com/onsi/ginkgo"
    . "github.com/onsi/gomega"
)

var _ = Describe("Master", func() {
    var storeDirectory string

    BeforeEach(func() {
        var err error

        storeDirectory, err = ioutil.TempDir("", "regiondb-master")

        Expect(err).Should(BeNil())
    })

    AfterEach(func() {
        os.RemoveAll(storeDirectory)
    })

    newMaster := func(carryingMeta func(node NodeIdentity) bool) *Master {
        engine := assignment.NewEngine(assignment.NewTransitionTable(), nil)

        masterServer, err := NewMaster(MasterConfig{
            Port: 0,
            MetaStoreFile: filepath.Join(storeDirectory, "meta"),
            Assignment: engine,
            Tables: table.NewStateStore(),
            CarryingMeta: carryingMeta,
            Coordination: NewMockCoordinationClient(),
            MetaRecoveryWorkers: 1,
            NodeRecoveryWorkers: 1,
            RecoveryQueueDepth: 8,
            DeferredRecoveryDelay: time.Millisecond * 10,
        })

        Expect(err).Should(BeNil())

        return masterServer
    }

    Describe("#RecoverDeadNode", func() {
        Context("when the dead node was carrying the metadata region", func() {
            It("should finish recovering the node's regions on the generic pool after the deferral", func() {
                var carryingMetaChecks int32

                masterServer := newMaster(func(node NodeIdentity) bool {
                    atomic.AddInt32(&carryingMetaChecks, 1)

                    return true
                })

                go masterServer.Start()
                defer masterServer.Stop()

                masterServer.MetaStore().SetReady()

                node := NodeIdentity{ Host: "meta-carrier", Port: 9090, StartTimestamp: 1 }

                Expect(masterServer.RecoverDeadNode(node, false)).Should(BeNil())

                // The first pass defers. The generic pass it hands off to
                // must actually recover the node and finish its registry
                // entry instead of deferring again.
                Eventually(func() int {
                    return len(masterServer.DeadNodes())
                }, "10s", "50ms").Should(Equal(0))

                // Once for the pool choice and once for the first pass's
                // guard. The generic pass never re-evaluates the metadata
                // carrier fact, so there is no defer/resubmit cycle.
                Expect(atomic.LoadInt32(&carryingMetaChecks)).Should(BeNumerically("<=", 2))
            })
        })

        Context("when the dead node was not carrying the metadata region", func() {
            It("should recover the node in a single pass", func() {
                masterServer := newMaster(func(node NodeIdentity) bool {
                    return false
                })

                go masterServer.Start()
                defer masterServer.Stop()

                masterServer.MetaStore().SetReady()

                node := NodeIdentity{ Host: "node1", Port: 9090, StartTimestamp: 1 }

                Expect(masterServer.RecoverDeadNode(node, false)).Should(BeNil())

                Eventually(func() int {
                    return len(masterServer.DeadNodes())
                }, "10s", "50ms").Should(Equal(0))
            })
        })
    })
})
