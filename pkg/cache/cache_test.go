package cache

import (
	"testing"
	"time"

	"github.com/harrisonrobin/reservas/pkg/reservation"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time { return f.t }

func newTestCache(ttl time.Duration) (*Cache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)}
	c := New(ttl)
	c.now = clock.Now
	return c, clock
}

func TestCacheExpires(t *testing.T) {
	c, clock := newTestCache(DefaultTTL)
	key := Key{SpreadsheetID: "abc", Range: "Tab1!A1:J"}
	table := reservation.FromRows([][]string{{"A"}, {"1"}})

	c.Put(key, table)

	clock.t = clock.t.Add(29 * time.Second)
	got, ok := c.Get(key)
	if !ok || got != table {
		t.Fatal("Expected cache hit before TTL")
	}
	if age, _ := c.Age(key); age != 29*time.Second {
		t.Errorf("Expected age 29s, got %v", age)
	}

	clock.t = clock.t.Add(time.Second)
	if _, ok := c.Get(key); ok {
		t.Error("Expected cache miss at TTL")
	}
}

func TestCacheTTLCountsFromFirstFetch(t *testing.T) {
	c, clock := newTestCache(DefaultTTL)
	key := Key{SpreadsheetID: "abc", Range: "Tab1!A1:J"}
	c.Put(key, reservation.Empty())

	for i := 0; i < 3; i++ {
		clock.t = clock.t.Add(10 * time.Second)
		c.Get(key)
	}
	if _, ok := c.Get(key); ok {
		t.Error("Expected reads not to extend the TTL")
	}
}

func TestCacheKeyedByRange(t *testing.T) {
	c, _ := newTestCache(DefaultTTL)
	a := Key{SpreadsheetID: "abc", Range: "Tab1!A1:J"}
	b := Key{SpreadsheetID: "abc", Range: "Tab2!A1:J"}

	c.Put(a, reservation.Empty())
	if _, ok := c.Get(b); ok {
		t.Error("Expected miss for a different range")
	}
}

func TestCacheInvalidate(t *testing.T) {
	c, _ := newTestCache(DefaultTTL)
	key := Key{SpreadsheetID: "abc", Range: "Tab1!A1:J"}
	c.Put(key, reservation.Empty())

	c.Invalidate()
	if _, ok := c.Get(key); ok {
		t.Error("Expected miss after Invalidate")
	}
}

func TestCacheDisabled(t *testing.T) {
	c, _ := newTestCache(0)
	key := Key{SpreadsheetID: "abc", Range: "Tab1!A1:J"}
	c.Put(key, reservation.Empty())
	if _, ok := c.Get(key); ok {
		t.Error("Expected a zero TTL to disable caching")
	}
}
