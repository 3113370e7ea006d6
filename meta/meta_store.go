package meta

import (
    "context"
    "encoding/json"
    "sync"

    . "regiondb/cluster"
    . "regiondb/errors"
    . "regiondb/logging"
    . "regiondb/storage"
)

var regionKeyPrefix []byte = []byte("regions/")

func regionKey(regionID string) []byte {
    return append(append([]byte{ }, regionKeyPrefix...), []byte(regionID)...)
}

// MetaStore is a metadata table backed by a storage driver. It serves
// Reader for recovery and exposes the write operations used by the
// assignment side. The ready flag models metadata availability: the store
// is not readable until the node serving the metadata region reports in.
type MetaStore struct {
    storageDriver StorageDriver
    isReady bool
    readyChan chan int
    lock sync.Mutex
}

func NewMetaStore(storageDriver StorageDriver) *MetaStore {
    return &MetaStore{
        storageDriver: storageDriver,
        readyChan: make(chan int),
    }
}

func (metaStore *MetaStore) Open() error {
    return metaStore.storageDriver.Open()
}

func (metaStore *MetaStore) Close() error {
    return metaStore.storageDriver.Close()
}

func (metaStore *MetaStore) SetReady() {
    metaStore.lock.Lock()
    defer metaStore.lock.Unlock()

    if metaStore.isReady {
        return
    }

    metaStore.isReady = true
    close(metaStore.readyChan)
}

func (metaStore *MetaStore) SetNotReady() {
    metaStore.lock.Lock()
    defer metaStore.lock.Unlock()

    if !metaStore.isReady {
        return
    }

    metaStore.isReady = false
    metaStore.readyChan = make(chan int)
}

func (metaStore *MetaStore) IsReady() bool {
    metaStore.lock.Lock()
    defer metaStore.lock.Unlock()

    return metaStore.isReady
}

func (metaStore *MetaStore) WaitForMetaReady(ctx context.Context) error {
    for {
        metaStore.lock.Lock()

        if metaStore.isReady {
            metaStore.lock.Unlock()

            return nil
        }

        ready := metaStore.readyChan
        metaStore.lock.Unlock()

        select {
        case <-ctx.Done():
            return ctx.Err()
        case <-ready:
        }
    }
}

func (metaStore *MetaStore) RegionsOnNode(node NodeIdentity) (map[string]Record, error) {
    iter, err := metaStore.storageDriver.GetMatches([][]byte{ regionKeyPrefix })

    if err != nil {
        Log.Errorf("Unable to scan metadata table: %v", err.Error())

        return nil, EMetaRead
    }

    defer iter.Release()

    records := make(map[string]Record)

    for iter.Next() {
        var record Record

        if err := json.Unmarshal(iter.Value(), &record); err != nil {
            Log.Errorf("Unable to parse metadata row %s: %v", string(iter.Key()), err.Error())

            return nil, EMetaRead
        }

        if record.Node.Equals(node) {
            records[record.Region.ID] = record
        }
    }

    if iter.Error() != nil {
        Log.Errorf("Metadata table scan failed: %v", iter.Error().Error())

        return nil, EMetaRead
    }

    return records, nil
}

// SetRegionOwner persists a region to node assignment. Called by the
// assignment side whenever a region settles on a node.
func (metaStore *MetaStore) SetRegionOwner(record Record) error {
    encodedRecord, err := json.Marshal(record)

    if err != nil {
        return err
    }

    batch := NewBatch()
    batch.Put(regionKey(record.Region.ID), encodedRecord)

    if err := metaStore.storageDriver.Batch(batch); err != nil {
        Log.Errorf("Unable to persist metadata row for region %s: %v", record.Region.ID, err.Error())

        return EStorage
    }

    return nil
}

func (metaStore *MetaStore) RemoveRegion(regionID string) error {
    batch := NewBatch()
    batch.Delete(regionKey(regionID))

    if err := metaStore.storageDriver.Batch(batch); err != nil {
        Log.Errorf("Unable to remove metadata row for region %s: %v", regionID, err.Error())

        return EStorage
    }

    return nil
}
