// FILE: lixenwraith/asynclog/active/active.go
// Package active runs submitted tasks one at a time, in submission order,
// on a single background goroutine.
package active

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/asynclog/queue"
)

// ErrExecutorUnavailable is returned when work is submitted to an executor
// that is draining or stopped.
var ErrExecutorUnavailable = errors.New("active: executor unavailable")

// Task is a unit of work run on the executor goroutine
type Task func()

// Executor lifecycle states
const (
	StateRunning int32 = iota
	StateDraining
	StateStopped
)

// item is either a task or the stop sentinel
type item struct {
	task Task
	stop bool
}

// Executor owns one goroutine that drains a task queue.
// Tasks run strictly sequentially in the order they were accepted.
type Executor struct {
	queue *queue.Queue[item]
	mu    sync.Mutex // serializes Submit against the Running -> Draining transition
	state atomic.Int32

	exited chan struct{}

	idleInterval time.Duration
	idleFn       func()
	panicHandler func(error)
}

// Option customizes an Executor
type Option func(*Executor)

// WithIdle runs fn on the executor goroutine whenever no task arrives for interval
func WithIdle(interval time.Duration, fn func()) Option {
	return func(e *Executor) {
		e.idleInterval = interval
		e.idleFn = fn
	}
}

// WithPanicHandler receives panics recovered from tasks.
// The executor keeps running after a task panics.
func WithPanicHandler(fn func(error)) Option {
	return func(e *Executor) {
		e.panicHandler = fn
	}
}

// New creates an executor and starts its goroutine
func New(opts ...Option) *Executor {
	e := &Executor{
		queue:  queue.New[item](),
		exited: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state.Store(StateRunning)
	go e.run()
	return e
}

// Submit enqueues a task. It fails with ErrExecutorUnavailable once Stop was called.
func (e *Executor) Submit(task Task) error {
	if task == nil {
		return fmt.Errorf("active: nil task")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Load() != StateRunning {
		return ErrExecutorUnavailable
	}
	e.queue.Push(item{task: task})
	return nil
}

// Stop rejects further submissions, lets every accepted task finish, and waits
// for the goroutine to exit. Safe to call more than once and from many goroutines.
// Calling Stop from inside a task deadlocks.
func (e *Executor) Stop() {
	e.mu.Lock()
	if e.state.Load() == StateRunning {
		e.state.Store(StateDraining)
		e.queue.Push(item{stop: true})
	}
	e.mu.Unlock()
	<-e.exited
}

// State returns the current lifecycle state
func (e *Executor) State() int32 {
	return e.state.Load()
}

// Running reports whether the executor still accepts work
func (e *Executor) Running() bool {
	return e.state.Load() == StateRunning
}

// Pending returns the number of accepted tasks not yet started
func (e *Executor) Pending() int {
	return e.queue.Len()
}

// Done is closed once the executor goroutine has exited
func (e *Executor) Done() <-chan struct{} {
	return e.exited
}

func (e *Executor) run() {
	defer close(e.exited)
	defer e.state.Store(StateStopped)

	for {
		var (
			it item
			ok bool
		)
		if e.idleFn != nil && e.idleInterval > 0 {
			// The timed wait is armed only once the queue has run dry
			if it, ok = e.queue.TryPop(); !ok {
				it, ok = e.queue.PopTimeout(e.idleInterval)
			}
			if !ok {
				e.execute(e.idleFn)
				continue
			}
		} else {
			it, ok = e.queue.Pop()
			if !ok {
				continue
			}
		}

		if it.stop {
			return
		}
		e.execute(it.task)
	}
}

// execute runs one task, converting a panic into an error for the handler
func (e *Executor) execute(task Task) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("active: task panicked: %v\n%s", r, debug.Stack())
			if e.panicHandler != nil {
				e.panicHandler(err)
			}
		}
	}()
	task()
}
