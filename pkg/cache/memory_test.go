package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(10))
	defer mc.Close()

	ctx := context.Background()
	type quote struct {
		Price float64 `json:"price"`
	}

	if err := mc.Set(ctx, "q:BTC", quote{Price: 50000}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got quote
	if err := mc.Get(ctx, "q:BTC", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Price != 50000 {
		t.Fatalf("unexpected price %v", got.Price)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var dest string
	err := mc.Get(context.Background(), "absent", &dest)
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	ctx := context.Background()
	if err := mc.Set(ctx, "k", "v", time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	var dest string
	if err := mc.Get(ctx, "k", &dest); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected expired miss, got %v", err)
	}
}
