package pebbleclient

import (
	"errors"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/x-xyz/settlement/base/goroutine"
	"github.com/x-xyz/settlement/base/log"
)

const (
	defaultSyncInterval = 100 * time.Millisecond
	defaultCacheMB      = 32
)

var (
	// ErrNotFound is returned by Get when the key does not exist
	ErrNotFound = errors.New("key not found")
)

// Param is the journal store setting, loaded from the `journal` config section
type Param struct {
	Path         string        `mapstructure:"path"`
	CacheMB      int           `mapstructure:"cache_mb"`
	SyncInterval time.Duration `mapstructure:"sync_interval"`
}

// KeyValue is one entry of an atomic batch
type KeyValue struct {
	Key   []byte
	Value []byte
}

// Client wraps pebble.DB. Writes skip the fsync and a background loop syncs the WAL periodically.
type Client struct {
	db       *pebble.DB
	stopSync chan struct{}
	wg       sync.WaitGroup
}

// MustConnect opens the store at p.Path, or it will trigger panic
func MustConnect(p Param) *Client {
	cli, err := Connect(p)
	if err != nil {
		log.Log().WithFields(log.Fields{"path": p.Path, "err": err}).Panic("fail to open pebble")
	}
	return cli
}

// Connect opens the store at p.Path, creating it when missing
func Connect(p Param) (*Client, error) {
	if p.CacheMB <= 0 {
		p.CacheMB = defaultCacheMB
	}
	if p.SyncInterval <= 0 {
		p.SyncInterval = defaultSyncInterval
	}

	cache := pebble.NewCache(int64(p.CacheMB) << 20)
	defer cache.Unref()

	db, err := pebble.Open(p.Path, &pebble.Options{
		Cache:                       cache,
		MemTableSize:                16 << 20,
		MemTableStopWritesThreshold: 2,
	})
	if err != nil {
		log.Log().WithFields(log.Fields{"path": p.Path, "err": err}).Error("pebble.Open failed")
		return nil, err
	}

	c := &Client{
		db:       db,
		stopSync: make(chan struct{}),
	}
	c.startSyncLoop(p.SyncInterval)

	log.Log().WithField("path", p.Path).Info("pebble opened")
	return c, nil
}

// Get returns a copy of the value stored at key
func (c *Client) Get(key []byte) ([]byte, error) {
	value, closer, err := c.db.Get(key)
	if err == pebble.ErrNotFound {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	defer closer.Close()

	res := make([]byte, len(value))
	copy(res, value)
	return res, nil
}

// SetBatch writes all pairs or none
func (c *Client) SetBatch(pairs []KeyValue) error {
	batch := c.db.NewBatch()
	defer batch.Close()

	for _, kv := range pairs {
		if err := batch.Set(kv.Key, kv.Value, nil); err != nil {
			return err
		}
	}
	return batch.Commit(pebble.NoSync)
}

// IteratePrefix visits keys with the given prefix in lexicographic order until fn returns an error.
// key and value are only valid during the call.
func (c *Client) IteratePrefix(prefix []byte, fn func(key, value []byte) error) error {
	iter, err := c.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		value, err := iter.ValueAndErr()
		if err != nil {
			return err
		}
		if err := fn(iter.Key(), value); err != nil {
			return err
		}
	}
	return iter.Error()
}

// prefixUpperBound is the exclusive bound of a prefix scan, nil for an all 0xff prefix
func prefixUpperBound(prefix []byte) []byte {
	upper := make([]byte, len(prefix))
	copy(upper, prefix)

	for i := len(upper) - 1; i >= 0; i-- {
		upper[i]++
		if upper[i] != 0 {
			return upper[:i+1]
		}
	}
	return nil
}

// Close stops the sync loop, syncs once more and closes the database
func (c *Client) Close() error {
	close(c.stopSync)
	c.wg.Wait()

	if err := c.sync(); err != nil {
		return err
	}
	return c.db.Close()
}

func (c *Client) startSyncLoop(interval time.Duration) {
	c.wg.Add(1)
	goroutine.RecoverableGo(func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := c.sync(); err != nil {
					log.Log().WithField("err", err).Warn("pebble sync failed")
				}
			case <-c.stopSync:
				return
			}
		}
	}, goroutine.WithAfterEnded(c.wg.Done))
}

func (c *Client) sync() error {
	return c.db.LogData(nil, pebble.Sync)
}
