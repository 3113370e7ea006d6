package storage

import (
    "errors"
    "sort"
    "strings"

    . "regiondb/logging"

    "github.com/syndtr/goleveldb/leveldb"
    levelErrors "github.com/syndtr/goleveldb/leveldb/errors"
    "github.com/syndtr/goleveldb/leveldb/iterator"
    "github.com/syndtr/goleveldb/leveldb/opt"
    "github.com/syndtr/goleveldb/leveldb/util"
)

var ECorrupted = errors.New("The storage files are corrupted")
var EClosed = errors.New("Driver is closed")

type LevelDBIterator struct {
    snapshot *leveldb.Snapshot
    it iterator.Iterator
    ranges []*util.Range
    prefix []byte
    err error
}

func (levelIterator *LevelDBIterator) Next() bool {
    if levelIterator.it == nil {
        if len(levelIterator.ranges) == 0 {
            return false
        }

        levelIterator.prefix = levelIterator.ranges[0].Start
        levelIterator.it = levelIterator.snapshot.NewIterator(levelIterator.ranges[0], nil)
        levelIterator.ranges = levelIterator.ranges[1:]
    }

    if levelIterator.it.Next() {
        return true
    }

    if levelIterator.it.Error() != nil {
        levelIterator.err = levelIterator.it.Error()
        levelIterator.ranges = []*util.Range{ }

        prometheusRecordStorageError("iterator.next()", "")
    }

    levelIterator.it.Release()
    levelIterator.it = nil
    levelIterator.prefix = nil

    if levelIterator.err != nil {
        return false
    }

    return levelIterator.Next()
}

func (levelIterator *LevelDBIterator) Prefix() []byte {
    return levelIterator.prefix
}

func (levelIterator *LevelDBIterator) Key() []byte {
    if levelIterator.it == nil {
        return nil
    }

    return levelIterator.it.Key()
}

func (levelIterator *LevelDBIterator) Value() []byte {
    if levelIterator.it == nil {
        return nil
    }

    return levelIterator.it.Value()
}

func (levelIterator *LevelDBIterator) Release() {
    levelIterator.snapshot.Release()

    if levelIterator.it == nil {
        return
    }

    levelIterator.it.Release()
    levelIterator.it = nil
}

func (levelIterator *LevelDBIterator) Error() error {
    return levelIterator.err
}

type LevelDBStorageDriver struct {
    file string
    options *opt.Options
    db *leveldb.DB
}

func NewLevelDBStorageDriver(file string, options *opt.Options) *LevelDBStorageDriver {
    return &LevelDBStorageDriver{ file, options, nil }
}

func (levelDriver *LevelDBStorageDriver) Open() error {
    levelDriver.Close()

    db, err := leveldb.OpenFile(levelDriver.file, levelDriver.options)

    if err != nil {
        prometheusRecordStorageError("open()", levelDriver.file)

        if levelErrors.IsCorrupted(err) {
            Log.Criticalf("LevelDB database is corrupted: %v", err.Error())

            return ECorrupted
        }

        return err
    }

    levelDriver.db = db

    return nil
}

func (levelDriver *LevelDBStorageDriver) Close() error {
    if levelDriver.db == nil {
        return nil
    }

    err := levelDriver.db.Close()

    levelDriver.db = nil

    return err
}

func (levelDriver *LevelDBStorageDriver) Recover() error {
    levelDriver.Close()

    db, err := leveldb.RecoverFile(levelDriver.file, levelDriver.options)

    if err != nil {
        prometheusRecordStorageError("recover()", levelDriver.file)

        return err
    }

    levelDriver.db = db

    return nil
}

func (levelDriver *LevelDBStorageDriver) Get(keys [][]byte) ([][]byte, error) {
    if levelDriver.db == nil {
        return nil, EClosed
    }

    if keys == nil {
        return [][]byte{ }, nil
    }

    snapshot, err := levelDriver.db.GetSnapshot()

    defer snapshot.Release()

    if err != nil {
        prometheusRecordStorageError("get()", levelDriver.file)

        return nil, err
    }

    values := make([][]byte, len(keys))

    for i, key := range keys {
        if key == nil {
            values[i] = nil

            continue
        }

        values[i], err = snapshot.Get(key, &opt.ReadOptions{ DontFillCache: false, Strict: opt.DefaultStrict })

        if err != nil {
            if err.Error() != "leveldb: not found" {
                prometheusRecordStorageError("get()", levelDriver.file)

                return nil, err
            }

            values[i] = nil
        }
    }

    return values, nil
}

func consolidateKeys(keys [][]byte) [][]byte {
    if keys == nil {
        return [][]byte{ }
    }

    s := make([]string, 0, len(keys))

    for _, key := range keys {
        if key == nil {
            continue
        }

        s = append(s, string([]byte(key)))
    }

    sort.Strings(s)

    result := make([][]byte, 0, len(s))

    for i := 0; i < len(s); i += 1 {
        if i == 0 {
            result = append(result, []byte(s[i]))

            continue
        }

        if !strings.HasPrefix(s[i], s[i-1]) {
            result = append(result, []byte(s[i]))
        } else {
            s[i] = s[i-1]
        }
    }

    return result
}

func (levelDriver *LevelDBStorageDriver) GetMatches(keys [][]byte) (StorageIterator, error) {
    if levelDriver.db == nil {
        return nil, EClosed
    }

    keys = consolidateKeys(keys)
    snapshot, err := levelDriver.db.GetSnapshot()

    if err != nil {
        prometheusRecordStorageError("getMatches()", levelDriver.file)

        snapshot.Release()

        return nil, err
    }

    ranges := make([]*util.Range, 0, len(keys))

    for _, key := range keys {
        if key == nil {
            continue
        }

        ranges = append(ranges, util.BytesPrefix(key))
    }

    return &LevelDBIterator{ snapshot, nil, ranges, nil, nil }, nil
}

func (levelDriver *LevelDBStorageDriver) Batch(batch *Batch) error {
    if levelDriver.db == nil {
        return EClosed
    }

    if batch == nil {
        return nil
    }

    b := new(leveldb.Batch)
    ops := batch.Ops()

    for _, op := range ops {
        if op.OpType == PUT {
            b.Put(op.Key(), op.Value())
        } else if op.OpType == DEL {
            b.Delete(op.Key())
        }
    }

    err := levelDriver.db.Write(b, nil)

    if err != nil {
        prometheusRecordStorageError("batch()", levelDriver.file)
    }

    return err
}
