package containers

import "sync"

const defaultQueueSize = 64

// Queue is an unbounded FIFO backed by a growable ring buffer. Push never
// blocks and is safe to call from any goroutine; Drain is meant to be called
// by a single consumer.
type Queue[T any] struct {
	mu         sync.Mutex
	data       []T
	readIndex  int
	writeIndex int
	count      int
}

// NewQueue creates a queue with room for size elements before it grows.
func NewQueue[T any](size int) *Queue[T] {
	if size <= 0 {
		size = defaultQueueSize
	}
	return &Queue[T]{
		data: make([]T, size),
	}
}

// Push adds an element at the back of the queue.
func (q *Queue[T]) Push(value T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == len(q.data) {
		q.grow()
	}
	q.data[q.writeIndex] = value
	q.writeIndex = (q.writeIndex + 1) % len(q.data)
	q.count++
}

// Pop removes and returns the front element.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if q.count == 0 {
		return zero, false
	}
	value := q.data[q.readIndex]
	q.data[q.readIndex] = zero
	q.readIndex = (q.readIndex + 1) % len(q.data)
	q.count--
	return value, true
}

// Drain removes every queued element and appends them, in push order, to dst.
func (q *Queue[T]) Drain(dst []T) []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	for q.count > 0 {
		dst = append(dst, q.data[q.readIndex])
		q.data[q.readIndex] = zero
		q.readIndex = (q.readIndex + 1) % len(q.data)
		q.count--
	}
	q.readIndex = 0
	q.writeIndex = 0
	return dst
}

// Len returns the number of queued elements.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// IsEmpty checks if the queue is empty
func (q *Queue[T]) IsEmpty() bool {
	return q.Len() == 0
}

// grow doubles the backing buffer, unrolling the ring so readIndex is 0.
func (q *Queue[T]) grow() {
	data := make([]T, len(q.data)*2)
	n := copy(data, q.data[q.readIndex:])
	copy(data[n:], q.data[:q.readIndex])
	q.data = data
	q.readIndex = 0
	q.writeIndex = q.count
}
