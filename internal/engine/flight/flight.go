// Package flight coordinates computations so that at most one runs per key.
//
// A key is ABSENT until a caller starts a computation for it, PENDING while the
// computation runs and ABSENT again once it settles. Callers arriving while a key
// is PENDING attach to the running computation and receive its outcome, value or
// error. Nothing is remembered after settlement.
package flight

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Group de-duplicates concurrent computations of T by key.
// The zero value is not usable; create groups with New.
type Group[T any] struct {
	group    singleflight.Group
	mu       sync.Mutex
	pending  map[string]struct{}
	observer Observer
}

// New creates a Group.
func New[T any](opts ...Option) *Group[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Group[T]{
		pending:  make(map[string]struct{}),
		observer: o.observer,
	}
}

// Do runs fn for key unless a computation for key is already running, in which
// case it waits for that computation and returns its outcome. shared reports
// whether the outcome was handed to more than one caller.
//
// fn runs with a context that is never canceled: once started, every attached
// caller waits for the outcome.
func (g *Group[T]) Do(ctx context.Context, key string, fn func(context.Context) (T, error)) (v T, shared bool, err error) {
	leader := false
	res, err, shared := g.group.Do(key, func() (any, error) {
		leader = true
		g.start(key)
		var (
			val    T
			runErr error
		)
		defer func() { g.settle(key, runErr) }()
		val, runErr = fn(context.WithoutCancel(ctx))
		return val, runErr
	})
	if !leader {
		g.emit(EventData{Event: EventShared, Key: key})
	}
	v, _ = res.(T)
	return v, shared, err
}

// Pending reports whether a computation for key is currently running.
func (g *Group[T]) Pending(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.pending[key]
	return ok
}

func (g *Group[T]) start(key string) {
	g.mu.Lock()
	g.pending[key] = struct{}{}
	g.mu.Unlock()
	g.emit(EventData{Event: EventStart, Key: key})
}

func (g *Group[T]) settle(key string, err error) {
	g.mu.Lock()
	delete(g.pending, key)
	g.mu.Unlock()
	g.emit(EventData{Event: EventSettle, Key: key, Err: err})
}

func (g *Group[T]) emit(data EventData) {
	if g.observer == nil {
		return
	}
	g.observer.On(data)
}
