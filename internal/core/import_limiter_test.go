package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestImportLimiter_AcquireRelease(t *testing.T) {
	limiter := NewImportLimiter(2, time.Second)
	ctx := context.Background()

	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("initial ActiveCount = %d, want 0", got)
	}

	if err := limiter.Acquire(ctx, "a.xlsx"); err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	if err := limiter.Acquire(ctx, "b.csv"); err != nil {
		t.Fatalf("second Acquire failed: %v", err)
	}

	status := limiter.Status()
	if status.Active != 2 || status.Available != 0 || status.MaxConcurrent != 2 {
		t.Errorf("status = %+v", status)
	}
	if len(status.Files) != 2 || status.Files[0] != "a.xlsx" || status.Files[1] != "b.csv" {
		t.Errorf("files = %v", status.Files)
	}

	limiter.Release("a.xlsx")
	if got := limiter.Status(); got.Active != 1 || len(got.Files) != 1 || got.Files[0] != "b.csv" {
		t.Errorf("after Release, status = %+v", got)
	}

	limiter.Release("b.csv")
	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("after second Release, ActiveCount = %d, want 0", got)
	}
}

func TestImportLimiter_SameNameTwice(t *testing.T) {
	limiter := NewImportLimiter(2, time.Second)
	ctx := context.Background()

	_ = limiter.Acquire(ctx, "same.csv")
	_ = limiter.Acquire(ctx, "same.csv")
	limiter.Release("same.csv")

	if files := limiter.Status().Files; len(files) != 1 {
		t.Errorf("files = %v, want still tracked", files)
	}
	limiter.Release("same.csv")
	if files := limiter.Status().Files; len(files) != 0 {
		t.Errorf("files = %v, want empty", files)
	}
}

func TestImportLimiter_TimesOutWhenFull(t *testing.T) {
	limiter := NewImportLimiter(1, 100*time.Millisecond)
	ctx := context.Background()

	if err := limiter.Acquire(ctx, "a"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer limiter.Release("a")

	start := time.Now()
	err := limiter.Acquire(ctx, "b")
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTooManyImports) {
		t.Errorf("expected ErrTooManyImports, got %v", err)
	}
	if elapsed < 90*time.Millisecond {
		t.Errorf("timeout too fast: %v", elapsed)
	}
}

func TestImportLimiter_ContextCancelled(t *testing.T) {
	limiter := NewImportLimiter(1, 5*time.Second)
	_ = limiter.Acquire(context.Background(), "a")
	defer limiter.Release("a")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := limiter.Acquire(ctx, "b"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestImportLimiter_ConcurrentAccess(t *testing.T) {
	const maxConcurrent = 3
	const totalRequests = 10

	limiter := NewImportLimiter(maxConcurrent, 5*time.Second)

	var wg sync.WaitGroup
	var mu sync.Mutex
	maxObserved := 0

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := limiter.Do(context.Background(), "f", func() error {
				mu.Lock()
				if c := limiter.ActiveCount(); c > maxObserved {
					maxObserved = c
				}
				mu.Unlock()
				time.Sleep(10 * time.Millisecond)
				return nil
			})
			if err != nil {
				t.Errorf("Do failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if maxObserved > maxConcurrent {
		t.Errorf("max observed concurrent = %d, want <= %d", maxObserved, maxConcurrent)
	}
	if limiter.ActiveCount() != 0 {
		t.Errorf("final ActiveCount = %d, want 0", limiter.ActiveCount())
	}
}

func TestImportLimiter_DoReleasesOnError(t *testing.T) {
	limiter := NewImportLimiter(1, time.Second)
	boom := errors.New("boom")

	if err := limiter.Do(context.Background(), "x", func() error { return boom }); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if limiter.ActiveCount() != 0 {
		t.Error("slot not released after error")
	}
}

func TestImportLimiter_WaitForDrain(t *testing.T) {
	limiter := NewImportLimiter(1, time.Second)
	_ = limiter.Acquire(context.Background(), "a")

	go func() {
		time.Sleep(60 * time.Millisecond)
		limiter.Release("a")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := limiter.WaitForDrain(ctx); err != nil {
		t.Errorf("WaitForDrain: %v", err)
	}
}

func TestImportLimiter_Defaults(t *testing.T) {
	limiter := NewImportLimiter(0, 0)
	if got := limiter.Status().MaxConcurrent; got != DefaultMaxConcurrentImports {
		t.Errorf("MaxConcurrent = %d, want %d", got, DefaultMaxConcurrentImports)
	}
}
