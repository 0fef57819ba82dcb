// ABOUTME: Unbounded thread-safe FIFO of audio fragments
// ABOUTME: Non-blocking enqueue, single-consumer dequeue with timeout
package speaker

import (
	"sync"
	"time"
)

// fragmentQueue is an unbounded FIFO of audio fragments. Enqueue never
// blocks, trading memory growth for never stalling the network receive loop;
// nothing is dropped until reset. Multiple goroutines may enqueue; exactly
// one consumer dequeues.
type fragmentQueue struct {
	mu     sync.Mutex
	items  [][]byte
	notify chan struct{}
}

func newFragmentQueue() *fragmentQueue {
	return &fragmentQueue{
		notify: make(chan struct{}, 1),
	}
}

// enqueue appends a fragment and wakes the consumer.
func (q *fragmentQueue) enqueue(fragment []byte) {
	q.mu.Lock()
	q.items = append(q.items, fragment)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// dequeue removes and returns the oldest fragment, waiting up to timeout for
// one to arrive. Returns false on timeout.
func (q *fragmentQueue) dequeue(timeout time.Duration) ([]byte, bool) {
	deadline := time.Now().Add(timeout)

	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			fragment := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return fragment, true
		}
		q.mu.Unlock()

		wait := time.Until(deadline)
		if wait <= 0 {
			return nil, false
		}

		timer := time.NewTimer(wait)
		select {
		case <-q.notify:
			timer.Stop()
			// Re-check: the notification may predate a dequeue.
		case <-timer.C:
			return nil, false
		}
	}
}

// reset discards all pending fragments.
func (q *fragmentQueue) reset() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
}

func (q *fragmentQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
