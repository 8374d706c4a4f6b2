package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestFlight_Do_CollapsesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var f Flight[string]
	var counter atomic.Int32
	var sharedCount atomic.Int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			got, shared, err := f.Do("refresh", func() (string, error) {
				counter.Add(1)
				time.Sleep(20 * time.Millisecond)
				return "v1", nil
			})
			if err != nil || got != "v1" {
				t.Errorf("flight call: got=%q err=%v", got, err)
			}
			if shared {
				sharedCount.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := counter.Load(); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
	if got := sharedCount.Load(); got != workers-1 {
		t.Fatalf("expected %d shared results, got %d", workers-1, got)
	}
	if f.InFlight("refresh") {
		t.Fatalf("key must be released after the call")
	}
}

func TestFlight_Do_PropagatesErrorAndReleasesKey(t *testing.T) {
	t.Parallel()

	var f Flight[int]
	boom := errors.New("boom")

	if _, _, err := f.Do("k", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, shared, err := f.Do("k", func() (int, error) { return 7, nil })
	if err != nil || got != 7 || shared {
		t.Fatalf("second call: got=%d shared=%v err=%v", got, shared, err)
	}
}
