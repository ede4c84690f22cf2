// FILE: lixenwraith/asynclog/queue/queue.go
// Package queue provides an unbounded, thread-safe FIFO with blocking,
// timed and non-blocking consumers.
package queue

import (
	"sync"
	"time"
)

// Queue is an unbounded multi-producer multi-consumer FIFO.
// The zero value is not usable, use New.
type Queue[T any] struct {
	mu    sync.Mutex
	cond  *sync.Cond
	items []T
	head  int
	epoch uint64 // bumped by ReleaseWaiters
}

// New creates an empty queue
func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends an item and wakes one waiting consumer
func (q *Queue[T]) Push(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	q.cond.Signal()
}

// Pop blocks until an item is available and removes it.
// Returns false only when ReleaseWaiters woke the caller with nothing queued.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	epoch := q.epoch
	for q.lenLocked() == 0 && q.epoch == epoch {
		q.cond.Wait()
	}
	return q.takeLocked()
}

// PopTimeout waits at most d for an item.
// A non-positive duration behaves like TryPop.
func (q *Queue[T]) PopTimeout(d time.Duration) (T, bool) {
	if d <= 0 {
		return q.TryPop()
	}

	deadline := time.Now().Add(d)
	timer := time.AfterFunc(d, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer timer.Stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	epoch := q.epoch
	for q.lenLocked() == 0 && q.epoch == epoch && time.Now().Before(deadline) {
		q.cond.Wait()
	}
	return q.takeLocked()
}

// TryPop removes the front item if one is present, never blocks
func (q *Queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.takeLocked()
}

// Len returns the number of queued items
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lenLocked()
}

// Empty reports whether the queue holds no items
func (q *Queue[T]) Empty() bool {
	return q.Len() == 0
}

// Clear discards every queued item
func (q *Queue[T]) Clear() {
	q.mu.Lock()
	var zero T
	for i := q.head; i < len(q.items); i++ {
		q.items[i] = zero
	}
	q.items = q.items[:0]
	q.head = 0
	q.mu.Unlock()
}

// ReleaseWaiters wakes every blocked consumer without handing out an item.
// Woken consumers that find the queue empty return false.
func (q *Queue[T]) ReleaseWaiters() {
	q.mu.Lock()
	q.epoch++
	q.mu.Unlock()
	q.cond.Broadcast()
}

func (q *Queue[T]) lenLocked() int {
	return len(q.items) - q.head
}

func (q *Queue[T]) takeLocked() (T, bool) {
	var zero T
	if q.lenLocked() == 0 {
		return zero, false
	}
	item := q.items[q.head]
	q.items[q.head] = zero
	q.head++

	// Reclaim the consumed prefix once it dominates the backing array
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > 64 && q.head*2 > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		for i := n; i < len(q.items); i++ {
			q.items[i] = zero
		}
		q.items = q.items[:n]
		q.head = 0
	}
	return item, true
}
