// FILE: lixenwraith/asynclog/active/future.go
package active

import (
	"context"
	"fmt"
)

// Future holds the eventual result of a callable run on an Executor.
// It is resolved exactly once.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved returns a future that is already complete
func Resolved[T any](val T, err error) *Future[T] {
	f := newFuture[T]()
	f.resolve(val, err)
	return f
}

// Failed returns a future that is already complete with err
func Failed[T any](err error) *Future[T] {
	var zero T
	return Resolved(zero, err)
}

func (f *Future[T]) resolve(val T, err error) {
	f.val = val
	f.err = err
	close(f.done)
}

// Get blocks until the result is available
func (f *Future[T]) Get() (T, error) {
	<-f.done
	return f.val, f.err
}

// Wait blocks until the result is available or ctx is done
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done is closed when the result is available
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Ready reports whether the result is available without blocking
func (f *Future[T]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Spawn submits fn to e and returns a future for its result.
// A panic inside fn resolves the future with an error instead of a value.
func Spawn[T any](e *Executor, fn func() (T, error)) (*Future[T], error) {
	if fn == nil {
		return nil, fmt.Errorf("active: nil callable")
	}
	f := newFuture[T]()
	err := e.Submit(func() {
		var (
			val T
			err error
		)
		defer func() {
			if r := recover(); r != nil {
				var zero T
				f.resolve(zero, fmt.Errorf("active: callable panicked: %v", r))
				return
			}
			f.resolve(val, err)
		}()
		val, err = fn()
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}
