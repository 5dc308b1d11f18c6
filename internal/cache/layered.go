package cache

import (
	"errors"
	"fmt"
	"time"
)

// LayeredCache keeps verdicts in memory for the current run and on disk
// across runs. A disk hit is promoted to memory for no longer than the disk
// entry has left to live.
type LayeredCache struct {
	memory    *MemoryCache
	disk      *DiskCache
	memoryTTL time.Duration
}

// NewLayeredCache creates a new layered cache
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory:    NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:      NewDiskCache(diskDir, diskTTL),
		memoryTTL: memoryTTL,
	}
}

func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}

	entry, found := c.disk.lookup(key)
	if !found {
		return nil, false
	}

	ttl := time.Until(entry.ExpiresAt)
	if c.memoryTTL > 0 && ttl > c.memoryTTL {
		ttl = c.memoryTTL
	}
	if ttl > 0 {
		_ = c.memory.Set(key, entry.Data, ttl)
	}
	return entry.Data, true
}

// Set stores value in memory first; a failed disk write still leaves the
// memory entry in place for this run
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	memTTL := ttl
	if memTTL == 0 || (c.memoryTTL > 0 && memTTL > c.memoryTTL) {
		memTTL = c.memoryTTL
	}
	_ = c.memory.Set(key, value, memTTL)

	if err := c.disk.Set(key, value, ttl); err != nil {
		return fmt.Errorf("disk cache: %w", err)
	}
	return nil
}

func (c *LayeredCache) Delete(key string) error {
	return errors.Join(c.memory.Delete(key), c.disk.Delete(key))
}

func (c *LayeredCache) Clear() error {
	return errors.Join(c.memory.Clear(), c.disk.Clear())
}
