package router

import (
	"sync"
)

// Buffer is an unbounded FIFO queue between the router and a writer.
// Consumers wait on Ready and take batches with Drain.
type Buffer[T any] struct {
	mu     sync.Mutex
	items  []T
	ready  chan struct{}
	closed bool

	// Stats
	totalReceived int64
	totalSent     int64
	highWater     int
}

// NewBuffer creates a buffer with room for initialCapacity items before
// its first reallocation.
func NewBuffer[T any](initialCapacity int) *Buffer[T] {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	return &Buffer[T]{
		items: make([]T, 0, initialCapacity),
		ready: make(chan struct{}, 1),
	}
}

// Send appends an item. Returns false if the buffer is closed.
func (b *Buffer[T]) Send(item T) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false
	}

	b.items = append(b.items, item)
	b.totalReceived++
	if len(b.items) > b.highWater {
		b.highWater = len(b.items)
	}

	b.notify()
	return true
}

// Ready is signaled after a Send and on Close. One signal may cover
// several items, so consumers drain until empty.
func (b *Buffer[T]) Ready() <-chan struct{} {
	return b.ready
}

// notify signals Ready without blocking. Must be called with lock held.
func (b *Buffer[T]) notify() {
	select {
	case b.ready <- struct{}{}:
	default:
	}
}

// Drain removes and returns up to max items in arrival order, or all of
// them when max <= 0. Returns nil when empty.
func (b *Buffer[T]) Drain(max int) []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.items) == 0 {
		return nil
	}

	n := len(b.items)
	if max > 0 && max < n {
		n = max
	}

	out := make([]T, n)
	copy(out, b.items)

	// Shift the remainder down and clear the tail for GC.
	rest := copy(b.items, b.items[n:])
	var zero T
	for i := rest; i < len(b.items); i++ {
		b.items[i] = zero
	}
	b.items = b.items[:rest]
	b.totalSent += int64(n)

	return out
}

// Close closes the buffer. Items already queued can still be drained.
func (b *Buffer[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	b.notify()
}

// Closed reports whether Close has been called.
func (b *Buffer[T]) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Len returns the current number of items in the buffer.
func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Stats returns buffer statistics.
func (b *Buffer[T]) Stats() BufferStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return BufferStats{
		Count:         len(b.items),
		HighWater:     b.highWater,
		TotalReceived: b.totalReceived,
		TotalSent:     b.totalSent,
	}
}

// BufferStats contains buffer statistics.
type BufferStats struct {
	Count         int
	HighWater     int
	TotalReceived int64
	TotalSent     int64
}
