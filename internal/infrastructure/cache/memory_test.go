package cache

import (
	"context"
	"testing"
	"time"

	"github.com/sucrecam/backend/internal/domain"
)

func coca() *domain.ResolvedProduct {
	return &domain.ResolvedProduct{
		Name:       "Coca-Cola 33 cl",
		SugarGrams: 35,
		CubeCount:  9,
		BasisLabel: "per unit (330 ml)",
		Identifier: "5449000000996",
		Source:     "openfoodfacts",
	}
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := NewMemoryCache(1 * time.Minute)
	ctx := context.Background()

	err := cache.Set(ctx, "off:5449000000996", coca())
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := cache.Get(ctx, "off:5449000000996")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if *got != *coca() {
		t.Errorf("Get() = %+v, want %+v", got, coca())
	}
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	cache := NewMemoryCache(1 * time.Minute)
	ctx := context.Background()

	_, err := cache.Get(ctx, "non-existent-key")
	if err != domain.ErrCacheMiss {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := NewMemoryCache(1 * time.Millisecond)
	ctx := context.Background()

	if err := cache.Set(ctx, "off:5449000000996", coca()); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	_, err := cache.Get(ctx, "off:5449000000996")
	if err != domain.ErrCacheMiss {
		t.Errorf("Get() after expiration error = %v, want %v", err, domain.ErrCacheMiss)
	}

	// The expired entry is evicted on read
	if size := cache.Size(); size != 0 {
		t.Errorf("Size() = %d after expired read, want 0", size)
	}
}

func TestMemoryCache_SetOverwrites(t *testing.T) {
	cache := NewMemoryCache(1 * time.Minute)
	ctx := context.Background()

	if err := cache.Set(ctx, "k", coca()); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	updated := coca()
	updated.SugarGrams = 36
	if err := cache.Set(ctx, "k", updated); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := cache.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.SugarGrams != 36 {
		t.Errorf("SugarGrams = %v, want overwritten value 36", got.SugarGrams)
	}
}

func TestMemoryCache_GetReturnsCopy(t *testing.T) {
	cache := NewMemoryCache(1 * time.Minute)
	ctx := context.Background()

	if err := cache.Set(ctx, "k", coca()); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	first, _ := cache.Get(ctx, "k")
	first.Source = "cache"

	second, _ := cache.Get(ctx, "k")
	if second.Source != "openfoodfacts" {
		t.Errorf("stored entry mutated through a returned pointer")
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache(1 * time.Minute)
	ctx := context.Background()

	key := "delete-test"
	if err := cache.Set(ctx, key, coca()); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := cache.Delete(ctx, key); err != nil {
		t.Errorf("Delete() error = %v", err)
	}

	if _, err := cache.Get(ctx, key); err != domain.ErrCacheMiss {
		t.Errorf("Get() after delete error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	cache := NewMemoryCache(1 * time.Minute)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := cache.Set(ctx, key, coca()); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	if size := cache.Size(); size != 3 {
		t.Fatalf("Size() = %d, want 3 before clear", size)
	}

	cache.Clear()

	if size := cache.Size(); size != 0 {
		t.Errorf("Size() = %d, want 0 after clear", size)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache(1 * time.Minute)
	ctx := context.Background()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := string(rune('a' + id))
			if err := cache.Set(ctx, key, coca()); err != nil {
				t.Errorf("Concurrent Set() error = %v", err)
			}
			if _, err := cache.Get(ctx, key); err != nil {
				t.Errorf("Concurrent Get() error = %v", err)
			}
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
