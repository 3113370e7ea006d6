package recovery

import (
    . "regiondb/logging"
    . "regiondb/region"
    . "regiondb/table"
)

const (
    FATE_SKIP = iota
    FATE_ASSIGN = iota
)

func FateName(f int) string {
    names := map[int]string{
        FATE_SKIP: "SKIP",
        FATE_ASSIGN: "ASSIGN",
    }

    return names[f]
}

// DecideRegionFate decides what recovery should do with a region whose
// last persisted owner is a dead node. The checks run in a fixed order:
// a deleted or disabled table short circuits before the split tombstone
// check because stale split flags on such a table mean nothing.
func DecideRegionFate(tables StateOracle, regionInfo RegionInfo) int {
    if !tables.IsTablePresent(regionInfo.Table) {
        Log.Infof("The table %s was deleted. Hence not proceeding with region %s", regionInfo.Table, regionInfo.ID)

        return FATE_SKIP
    }

    if tables.IsDisabled(regionInfo.Table) {
        Log.Infof("The table %s was disabled. Hence not proceeding with region %s", regionInfo.Table, regionInfo.ID)

        return FATE_SKIP
    }

    if regionInfo.IsSplitParent() {
        // The parent row of a completed split persists as a tombstone. Its
        // daughters are the live regions so there is nothing to do here.
        return FATE_SKIP
    }

    if tables.IsDisabling(regionInfo.Table) {
        Log.Infof("The table %s is being disabled. Hence not assigning region %s", regionInfo.Table, regionInfo.ID)

        return FATE_SKIP
    }

    return FATE_ASSIGN
}
