// ABOUTME: Tests for the unbounded fragment FIFO
// ABOUTME: Ordering, timeout semantics, reset, concurrent producers
package speaker

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueOrder(t *testing.T) {
	q := newFragmentQueue()
	q.enqueue([]byte{1})
	q.enqueue([]byte{2})
	q.enqueue([]byte{3})

	for want := byte(1); want <= 3; want++ {
		got, ok := q.dequeue(time.Second)
		require.True(t, ok)
		assert.Equal(t, []byte{want}, got)
	}
}

func TestQueueDequeueTimeout(t *testing.T) {
	q := newFragmentQueue()

	start := time.Now()
	_, ok := q.dequeue(30 * time.Millisecond)
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
	assert.Less(t, elapsed, time.Second, "timeout must be bounded")
}

func TestQueueWakesBlockedConsumer(t *testing.T) {
	q := newFragmentQueue()

	done := make(chan []byte, 1)
	go func() {
		got, ok := q.dequeue(2 * time.Second)
		if ok {
			done <- got
		}
	}()

	time.Sleep(20 * time.Millisecond)
	q.enqueue([]byte("wake"))

	select {
	case got := <-done:
		assert.Equal(t, []byte("wake"), got)
	case <-time.After(time.Second):
		t.Fatal("consumer was not woken by enqueue")
	}
}

func TestQueueReset(t *testing.T) {
	q := newFragmentQueue()
	q.enqueue([]byte{1})
	q.enqueue([]byte{2})
	q.reset()

	assert.Zero(t, q.len())
	_, ok := q.dequeue(10 * time.Millisecond)
	assert.False(t, ok)
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := newFragmentQueue()

	const producers = 8
	const perProducer = 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(seed byte) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.enqueue([]byte{seed})
			}
		}(byte(p))
	}
	wg.Wait()

	count := 0
	for {
		_, ok := q.dequeue(10 * time.Millisecond)
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, producers*perProducer, count, "no fragment may be dropped")
}
