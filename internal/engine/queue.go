package engine

import "sync"

// write is one unit of work for the persister: either a snapshot to store or
// a flush barrier to release once everything before it has been attempted.
type write struct {
	Seq     int64
	Key     string
	Value   []byte
	Barrier chan struct{}
}

// writeQueue is a thread-safe FIFO queue feeding the persister.
//
// The queue is unbounded so that mutations never block on persistence.
// The signal channel (buffered, size 1) coalesces wakeups and is closed by
// Close so a waiting persister drains and exits.
type writeQueue struct {
	mu     sync.Mutex
	writes []write
	closed bool
	signal chan struct{}
}

func newWriteQueue() *writeQueue {
	return &writeQueue{
		writes: make([]write, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds a write to the back of the queue.
// Returns false if the queue is closed.
func (q *writeQueue) Enqueue(w write) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.writes = append(q.writes, w)

	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue removes the front write without blocking.
// The second result is false if the queue is empty; the third reports
// whether the queue has been closed.
func (q *writeQueue) TryDequeue() (write, bool, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.writes) == 0 {
		return write{}, false, q.closed
	}

	w := q.writes[0]
	// Release the snapshot bytes held by the backing array.
	q.writes[0] = write{}

	if len(q.writes) == 1 {
		q.writes = q.writes[:0]
	} else {
		q.writes = q.writes[1:]
	}

	return w, true, q.closed
}

// Wait returns a channel that signals when writes may be available.
func (q *writeQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *writeQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.writes)
}

// Close signals that no more writes will be enqueued.
func (q *writeQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
