package recovery_test

import (
    . "regiondb/recovery"
    . "regiondb/region"
    . "regiondb/table"

    . "github.com/onsi/ginkgo"
    . "github.com/onsi/gomega"
)

var _ = Describe("DecideRegionFate", func() {
    var tables *StateStore

    BeforeEach(func() {
        tables = NewStateStore()
    })

    Context("When the owning table was deleted", func() {
        It("should skip the region even if its flags indicate a completed split", func() {
            regionInfo := RegionInfo{ ID: "r1", Table: "gone", Offline: true, Split: true }

            Expect(DecideRegionFate(tables, regionInfo)).Should(Equal(FATE_SKIP))
        })
    })

    Context("When the owning table is disabled", func() {
        It("should skip the region", func() {
            tables.SetState("t1", DISABLED)

            Expect(DecideRegionFate(tables, RegionInfo{ ID: "r1", Table: "t1" })).Should(Equal(FATE_SKIP))
        })

        It("should skip the region even when its flags indicate a completed split", func() {
            tables.SetState("t1", DISABLED)

            regionInfo := RegionInfo{ ID: "r1", Table: "t1", Offline: true, Split: true }

            Expect(DecideRegionFate(tables, regionInfo)).Should(Equal(FATE_SKIP))
        })
    })

    Context("When the region is a split parent tombstone", func() {
        It("should skip the region regardless of table state", func() {
            tables.SetState("t1", ENABLED)

            regionInfo := RegionInfo{ ID: "r1", Table: "t1", Offline: true, Split: true }

            Expect(DecideRegionFate(tables, regionInfo)).Should(Equal(FATE_SKIP))
        })

        It("should not skip a region that is only offline or only split", func() {
            tables.SetState("t1", ENABLED)

            Expect(DecideRegionFate(tables, RegionInfo{ ID: "r1", Table: "t1", Offline: true })).Should(Equal(FATE_ASSIGN))
            Expect(DecideRegionFate(tables, RegionInfo{ ID: "r2", Table: "t1", Split: true })).Should(Equal(FATE_ASSIGN))
        })
    })

    Context("When the owning table is being disabled", func() {
        It("should skip the region", func() {
            tables.SetState("t1", DISABLING)

            Expect(DecideRegionFate(tables, RegionInfo{ ID: "r1", Table: "t1" })).Should(Equal(FATE_SKIP))
        })
    })

    Context("Otherwise", func() {
        It("should assign the region", func() {
            tables.SetState("t1", ENABLED)

            Expect(DecideRegionFate(tables, RegionInfo{ ID: "r1", Table: "t1" })).Should(Equal(FATE_ASSIGN))
        })

        It("should assign regions of a table that is being enabled", func() {
            tables.SetState("t1", ENABLING)

            Expect(DecideRegionFate(tables, RegionInfo{ ID: "r1", Table: "t1" })).Should(Equal(FATE_ASSIGN))
        })
    })
})
