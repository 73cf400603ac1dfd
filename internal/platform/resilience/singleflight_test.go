package resilience

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight[string]
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err, _ := g.Do("room-1001", func() (string, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return "ok", nil
			})
			if err != nil || v != "ok" {
				t.Errorf("singleflight call failed: v=%q err=%v", v, err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestSingleFlight_DoesNotRetainResults(t *testing.T) {
	var g SingleFlight[int]
	calls := 0

	for i := 0; i < 3; i++ {
		_, _, shared := g.Do("date-20260301", func() (int, error) {
			calls++
			return calls, nil
		})
		if shared {
			t.Fatalf("sequential call %d must not be shared", i)
		}
	}
	if calls != 3 {
		t.Fatalf("expected 3 executions, got %d", calls)
	}
}

func TestSingleFlight_DoContext_CallerGivesUpWithoutCancelingOthers(t *testing.T) {
	var g SingleFlight[string]
	started := make(chan struct{})
	release := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err, _ := g.DoContext(ctx, "room-7", func() (string, error) {
			close(started)
			<-release
			return "stream", nil
		})
		leaderErr <- err
	}()
	<-started

	followerVal := make(chan string, 1)
	go func() {
		v, _, _ := g.DoContext(context.Background(), "room-7", func() (string, error) {
			return "second execution", nil
		})
		followerVal <- v
	}()

	cancel()
	if err := <-leaderErr; !crerr.Is(err, context.Canceled) {
		t.Fatalf("expected canceled caller to get context.Canceled, got %v", err)
	}

	close(release)
	if got := <-followerVal; got != "stream" {
		t.Fatalf("expected follower to receive the shared result, got %q", got)
	}
}

func TestSingleFlight_PanicBecomesError(t *testing.T) {
	var g SingleFlight[int]
	_, err, _ := g.Do("boom", func() (int, error) {
		panic("provider exploded")
	})
	if err == nil {
		t.Fatalf("expected panic to surface as an error")
	}
}
