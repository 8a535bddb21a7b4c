package dataset

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/atomic"
)

// ErrUnavailable wraps every failed load returned by a Cache.
var ErrUnavailable = errors.New("datasets unavailable")

// Source produces the dashboard datasets.
type Source interface {
	Load() (*Data, error)
}

// Cache loads from its source at most once per process. A failed load is
// cached as well and returned to every caller.
type Cache struct {
	source Source
	once   sync.Once
	data   *Data
	err    error
	done   atomic.Bool
}

// NewCache wraps source.
func NewCache(source Source) *Cache {
	return &Cache{source: source}
}

// Load returns the cached datasets, loading them on first use.
func (c *Cache) Load() (*Data, error) {
	c.once.Do(func() {
		c.data, c.err = c.source.Load()
		if c.err != nil {
			c.err = fmt.Errorf("%w: %w", ErrUnavailable, c.err)
		}
		c.done.Store(true)
	})
	return c.data, c.err
}

// Loaded reports whether a load finished successfully. It never triggers one.
func (c *Cache) Loaded() bool {
	return c.done.Load() && c.err == nil
}
