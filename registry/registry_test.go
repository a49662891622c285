package registry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRegistry_GetCachesAcrossCalls(t *testing.T) {
	var calls int32
	reg := New(func(ctx context.Context, key string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "value:" + key, nil
	})

	ctx := context.Background()
	v1, err := reg.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v1 != "value:a" {
		t.Fatalf("unexpected value: %s", v1)
	}

	v2, err := reg.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v2 != v1 {
		t.Fatalf("expected cached value to match, got %s vs %s", v2, v1)
	}
	if calls != 1 {
		t.Fatalf("compute should only run once for a cache hit, ran %d times", calls)
	}
}

func TestRegistry_InvalidateForcesRecompute(t *testing.T) {
	var calls int32
	reg := New(func(ctx context.Context, key string) (string, error) {
		n := atomic.AddInt32(&calls, 1)
		return key + "-" + string(rune('0'+n)), nil
	})

	ctx := context.Background()
	if _, err := reg.Get(ctx, "k"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reg.Invalidate("k") {
		t.Fatal("Invalidate should find the cached entry")
	}
	if _, err := reg.Get(ctx, "k"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected recompute after invalidate, compute ran %d times", calls)
	}
}

func TestRegistry_ConcurrentGetDeduplicates(t *testing.T) {
	var calls int32
	start := make(chan struct{})
	reg := New(func(ctx context.Context, key string) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-start
		return "value", nil
	})

	ctx := context.Background()
	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := reg.Get(ctx, "k")
			errs[i] = err
		}(i)
	}
	close(start)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("concurrent Get for the same key should compute exactly once, computed %d times", calls)
	}
}

func TestRegistry_ErrorIsNotCachedAsSuccess(t *testing.T) {
	wantErr := errors.New("boom")
	reg := New(func(ctx context.Context, key string) (string, error) {
		return "", wantErr
	})

	_, err := reg.Get(context.Background(), "k")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped wantErr, got %v", err)
	}
}
