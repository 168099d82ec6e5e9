package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c := New[string](5*time.Second, 100)
	c.Set("missoula", "three meetings")

	got, ok := c.Get("missoula")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != "three meetings" {
		t.Errorf("unexpected value: %q", got)
	}
}

func TestCache_Miss(t *testing.T) {
	c := New[int](5*time.Second, 100)

	if v, ok := c.Get("nonexistent"); ok || v != 0 {
		t.Errorf("expected miss with zero value, got %d, %v", v, ok)
	}
}

func TestCache_TTLExpiration(t *testing.T) {
	c := New[string](time.Minute, 100)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	if _, ok := c.Get("k"); !ok {
		t.Fatal("expected hit before expiry")
	}

	now = now.Add(61 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after expiry")
	}
	if c.Len() != 0 {
		t.Errorf("expected expired entry to be removed, len=%d", c.Len())
	}
}

func TestCache_EvictsOldest(t *testing.T) {
	c := New[int](time.Minute, 3)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Set("d", 4)

	if _, ok := c.Get("a"); ok {
		t.Error("expected oldest entry a to be evicted")
	}
	for _, k := range []string{"b", "c", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("expected %s to survive eviction", k)
		}
	}
	if c.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", c.Len())
	}
}

func TestCache_OverwriteKeepsCapacity(t *testing.T) {
	c := New[int](time.Minute, 2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)

	if v, _ := c.Get("a"); v != 10 {
		t.Errorf("expected overwritten value 10, got %d", v)
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("overwrite must not evict other entries")
	}
}

func TestCache_MinimumCapacity(t *testing.T) {
	c := New[int](time.Minute, 0)
	c.Set("a", 1)
	c.Set("b", 2)

	if c.Len() != 1 {
		t.Errorf("expected capacity clamped to 1, len=%d", c.Len())
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[int](time.Minute, 50)
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", (n*100+j)%75)
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 50 {
		t.Errorf("cache exceeded capacity: %d", c.Len())
	}
}
