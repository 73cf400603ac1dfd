package resilience

import (
	"context"
	"sync"

	crerr "github.com/cockroachdb/errors"
)

// SingleFlight coalesces concurrent calls sharing a key into one execution.
// Nothing is retained once the call returns.
type SingleFlight[T any] struct {
	mu    sync.Mutex
	calls map[string]*flightCall[T]
}

type flightCall[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Do returns the result of fn, and whether it was shared with another caller.
func (g *SingleFlight[T]) Do(key string, fn func() (T, error)) (T, error, bool) {
	return g.DoContext(context.Background(), key, fn)
}

// DoContext is Do for callers that may stop waiting. fn runs on its own
// goroutine; a caller whose ctx ends gets ctx.Err() while the shared call
// keeps going for the others.
func (g *SingleFlight[T]) DoContext(ctx context.Context, key string, fn func() (T, error)) (T, error, bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*flightCall[T])
	}

	c, shared := g.calls[key]
	if !shared {
		c = &flightCall[T]{done: make(chan struct{})}
		g.calls[key] = c
		go g.run(key, c, fn)
	}
	g.mu.Unlock()

	select {
	case <-c.done:
		return c.val, c.err, shared
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err(), shared
	}
}

func (g *SingleFlight[T]) run(key string, c *flightCall[T], fn func() (T, error)) {
	defer func() {
		if r := recover(); r != nil {
			c.err = crerr.Newf("singleflight key=%s panicked: %v", key, r)
		}
		g.mu.Lock()
		delete(g.calls, key)
		g.mu.Unlock()
		close(c.done)
	}()

	c.val, c.err = fn()
}
