package cache

import (
	"sync"
	"time"

	"github.com/harrisonrobin/reservas/pkg/reservation"
)

// DefaultTTL is how long a fetched table is reused.
const DefaultTTL = 30 * time.Second

// Key identifies a cached read.
type Key struct {
	SpreadsheetID string
	Range         string
}

type entry struct {
	table     *reservation.Table
	fetchedAt time.Time
}

// Cache keeps fetched tables for a fixed time after the fetch. Only successful
// reads are stored.
type Cache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
	entries map[Key]entry
}

// New returns a cache with the given TTL. A non-positive TTL disables caching.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[Key]entry),
	}
}

// TTL returns the configured time to live.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the table for key if it was stored less than TTL ago.
func (c *Cache) Get(key Key) (*reservation.Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.table, true
}

// Put stores a table under key, starting its TTL now.
func (c *Cache) Put(key Key, table *reservation.Table) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{table: table, fetchedAt: c.now()}
}

// Invalidate drops every entry so the next Get misses.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]entry)
}

// Age returns how long ago the entry for key was fetched.
func (c *Cache) Age(key Key) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	return c.now().Sub(e.fetchedAt), true
}
