// Package loader models the load -> success/error lifecycle of a fetch so
// that callers can inspect the outcome instead of reacting to side effects.
package loader

import (
	"context"
	"sync"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

type Result[T any] struct {
	Status Status
	Data   T
	Err    error
}

func (r Result[T]) Ok() bool {
	return r.Status == StatusSuccess
}

// Run calls fetch once and reports its outcome.
func Run[T any](ctx context.Context, fetch func(context.Context) (T, error)) Result[T] {
	data, err := fetch(ctx)
	if err != nil {
		var zero T
		return Result[T]{Status: StatusError, Data: zero, Err: err}
	}
	return Result[T]{Status: StatusSuccess, Data: data}
}

// Loader keeps the latest Result of a fetch and is safe for concurrent
// readers.
type Loader[T any] struct {
	fetch func(context.Context) (T, error)

	mu     sync.RWMutex
	result Result[T]
}

func New[T any](fetch func(context.Context) (T, error)) *Loader[T] {
	return &Loader[T]{
		fetch:  fetch,
		result: Result[T]{Status: StatusIdle},
	}
}

func (l *Loader[T]) Load(ctx context.Context) Result[T] {
	l.mu.Lock()
	l.result = Result[T]{Status: StatusLoading}
	l.mu.Unlock()

	res := Run(ctx, l.fetch)

	l.mu.Lock()
	l.result = res
	l.mu.Unlock()
	return res
}

func (l *Loader[T]) Result() Result[T] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.result
}
