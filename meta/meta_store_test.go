package meta_test

import (
    "context"
    "errors"
    "time"

    . "regiondb/cluster"
    . "regiondb/meta"
    . "regiondb/region"
    rerrors "regiondb/errors"

    . "github.com/onsi/ginkgo"
    . "github.com/onsi/gomega"
)

var _ = Describe("MetaStore", func() {
    var metaStore *MetaStore
    var memoryDriver *MemoryStorageDriver
    var node1 NodeIdentity
    var node2 NodeIdentity

    BeforeEach(func() {
        memoryDriver = NewMemoryStorageDriver()
        metaStore = NewMetaStore(memoryDriver)
        node1 = NodeIdentity{ Host: "node1", Port: 9090, StartTimestamp: 1 }
        node2 = NodeIdentity{ Host: "node2", Port: 9090, StartTimestamp: 2 }
    })

    Describe("#RegionsOnNode", func() {
        It("should return only the regions last persisted as owned by the given node", func() {
            metaStore.SetRegionOwner(Record{ Region: RegionInfo{ ID: "r1", Table: "t1" }, Node: node1 })
            metaStore.SetRegionOwner(Record{ Region: RegionInfo{ ID: "r2", Table: "t1" }, Node: node2 })
            metaStore.SetRegionOwner(Record{ Region: RegionInfo{ ID: "r3", Table: "t2", Offline: true, Split: true }, Node: node1 })

            records, err := metaStore.RegionsOnNode(node1)

            Expect(err).Should(BeNil())
            Expect(len(records)).Should(Equal(2))
            Expect(records["r1"].Region.Table).Should(Equal("t1"))
            Expect(records["r3"].Region.IsSplitParent()).Should(BeTrue())
        })

        It("should reflect a row that was overwritten by a newer assignment", func() {
            regionInfo := RegionInfo{ ID: "r1", Table: "t1" }

            metaStore.SetRegionOwner(Record{ Region: regionInfo, Node: node1 })
            metaStore.SetRegionOwner(Record{ Region: regionInfo, Node: node2 })

            records, err := metaStore.RegionsOnNode(node1)

            Expect(err).Should(BeNil())
            Expect(len(records)).Should(Equal(0))
        })

        It("should not return a removed region", func() {
            metaStore.SetRegionOwner(Record{ Region: RegionInfo{ ID: "r1", Table: "t1" }, Node: node1 })
            metaStore.RemoveRegion("r1")

            records, err := metaStore.RegionsOnNode(node1)

            Expect(err).Should(BeNil())
            Expect(len(records)).Should(Equal(0))
        })

        It("should surface a failed scan as a metadata read error", func() {
            memoryDriver.nextGetMatchesError = errors.New("some storage error")

            _, err := metaStore.RegionsOnNode(node1)

            Expect(err).Should(Equal(rerrors.EMetaRead))
        })
    })

    Describe("#SetRegionOwner", func() {
        It("should surface a failed write as a storage error", func() {
            memoryDriver.nextBatchError = errors.New("some storage error")

            err := metaStore.SetRegionOwner(Record{ Region: RegionInfo{ ID: "r1", Table: "t1" }, Node: node1 })

            Expect(err).Should(Equal(rerrors.EStorage))
        })
    })

    Describe("#RemoveRegion", func() {
        It("should surface a failed delete as a storage error", func() {
            memoryDriver.nextBatchError = errors.New("some storage error")

            Expect(metaStore.RemoveRegion("r1")).Should(Equal(rerrors.EStorage))
        })
    })

    Describe("#WaitForMetaReady", func() {
        It("should return immediately when the store is ready", func() {
            metaStore.SetReady()

            ctx, cancel := context.WithTimeout(context.Background(), time.Second)
            defer cancel()

            Expect(metaStore.WaitForMetaReady(ctx)).Should(BeNil())
        })

        It("should block until the store becomes ready", func() {
            waitResult := make(chan error, 1)

            go func() {
                waitResult <- metaStore.WaitForMetaReady(context.Background())
            }()

            Consistently(waitResult).ShouldNot(Receive())

            metaStore.SetReady()

            Eventually(waitResult).Should(Receive(BeNil()))
        })

        It("should return the context error when cancelled before the store is ready", func() {
            ctx, cancel := context.WithCancel(context.Background())
            cancel()

            Expect(metaStore.WaitForMetaReady(ctx)).ShouldNot(BeNil())
        })

        It("should block again after the store is marked not ready", func() {
            metaStore.SetReady()
            metaStore.SetNotReady()

            Expect(metaStore.IsReady()).Should(BeFalse())

            ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond * 100)
            defer cancel()

            Expect(metaStore.WaitForMetaReady(ctx)).ShouldNot(BeNil())
        })
    })
})
