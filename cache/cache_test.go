package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemorySetGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Set(ctx, "key", "value", 0)

	got, ok := m.Get(ctx, "key")
	if !ok {
		t.Fatal("expected a hit for key")
	}
	if got != "value" {
		t.Errorf("Get() = %v, want value", got)
	}
}

func TestMemoryMiss(t *testing.T) {
	m := NewMemory()

	if _, ok := m.Get(context.Background(), "absent"); ok {
		t.Error("expected a miss for an unknown key")
	}
}

func TestMemoryZeroTTLNeverExpires(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Set(ctx, "key", 42, 0)
	time.Sleep(5 * time.Millisecond)

	if _, ok := m.Get(ctx, "key"); !ok {
		t.Error("zero TTL entry should never expire")
	}
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Set(ctx, "key", "value", time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	if _, ok := m.Get(ctx, "key"); ok {
		t.Error("expected entry to expire")
	}
}

func TestMemoryOverwrite(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Set(ctx, "key", "first", 0)
	m.Set(ctx, "key", "second", 0)

	got, _ := m.Get(ctx, "key")
	if got != "second" {
		t.Errorf("Get() = %v, want second", got)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Set(ctx, "key", "value", 0)
	m.Delete(ctx, "key")

	if _, ok := m.Get(ctx, "key"); ok {
		t.Error("expected a miss after Delete")
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", n%3)
			for j := 0; j < 100; j++ {
				m.Set(ctx, key, j, time.Minute)
				m.Get(ctx, key)
				if j%10 == 0 {
					m.Delete(ctx, key)
				}
			}
		}(i)
	}
	wg.Wait()
}
