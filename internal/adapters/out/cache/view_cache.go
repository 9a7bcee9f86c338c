// Package cache keeps per-driver read views in memory for a short time.
package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Observer is told about every lookup.
type Observer interface {
	CacheHit()
	CacheMiss()
}

type entry struct {
	value     any
	expiresAt time.Time
}

type driverViews struct {
	generation uint64
	views      map[string]entry
}

// ViewCache is a TTL cache keyed by (driver, view). Concurrent misses of the
// same key share one load. InvalidateDriver drops the driver's views and
// discards the result of loads that started before it.
type ViewCache struct {
	ttl      time.Duration
	now      func() time.Time
	observer Observer

	mu      sync.Mutex
	drivers map[string]*driverViews
	group   singleflight.Group
}

type Option func(*ViewCache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *ViewCache) { c.now = now }
}

func WithObserver(o Observer) Option {
	return func(c *ViewCache) { c.observer = o }
}

func New(ttl time.Duration, opts ...Option) *ViewCache {
	c := &ViewCache{
		ttl:     ttl,
		now:     time.Now,
		drivers: make(map[string]*driverViews),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrLoad returns the cached view or fills it with load. Errors are not cached.
func (c *ViewCache) GetOrLoad(
	ctx context.Context,
	driverID, view string,
	load func(context.Context) (any, error),
) (any, error) {
	c.mu.Lock()
	d := c.driver(driverID)
	if e, ok := d.views[view]; ok && c.now().Before(e.expiresAt) {
		c.mu.Unlock()
		c.hit()
		return e.value, nil
	}
	generation := d.generation
	c.mu.Unlock()
	c.miss()

	key := driverID + "\x00" + view + "\x00" + strconv.FormatUint(generation, 10)
	v, err, _ := c.group.Do(key, func() (any, error) {
		value, loadErr := load(ctx)
		if loadErr != nil {
			return nil, loadErr
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if d := c.driver(driverID); d.generation == generation {
			d.views[view] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
		}
		return value, nil
	})
	return v, err
}

// InvalidateDriver implements ports.ViewInvalidator.
func (c *ViewCache) InvalidateDriver(driverID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.driver(driverID)
	d.generation++
	d.views = make(map[string]entry)
}

// Sweep removes expired views and returns how many were removed.
func (c *ViewCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for _, d := range c.drivers {
		for view, e := range d.views {
			if !now.Before(e.expiresAt) {
				delete(d.views, view)
				removed++
			}
		}
	}
	return removed
}

// Len counts the stored views, expired ones included.
func (c *ViewCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.drivers {
		n += len(d.views)
	}
	return n
}

// driver must be called with mu held.
func (c *ViewCache) driver(driverID string) *driverViews {
	d, ok := c.drivers[driverID]
	if !ok {
		d = &driverViews{views: make(map[string]entry)}
		c.drivers[driverID] = d
	}
	return d
}

func (c *ViewCache) hit() {
	if c.observer != nil {
		c.observer.CacheHit()
	}
}

func (c *ViewCache) miss() {
	if c.observer != nil {
		c.observer.CacheMiss()
	}
}
