// Package queue holds accepted settlements until the worker picks them up.
package queue

import (
	"sync"
	"time"

	"github.com/chris/marketplace-settlements/pkg/models"
)

// Item is a queued settlement reference. The worker loads the full record from
// the store when it dequeues.
type Item struct {
	SettlementID string
	Priority     models.SettlementPriority
	EnqueuedAt   time.Time
}

// Queue is a priority-insertion FIFO. Placement depends on the declared
// priority: high inserts at the front, low at the back, medium at the current
// midpoint. Dequeue is strict front-to-back, so the result is approximate
// priority ordering rather than a strict three-tier guarantee.
type Queue struct {
	mu    sync.Mutex
	items []Item
	wake  chan struct{}
}

// New creates an empty Queue.
func New() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Enqueue places an item according to its priority and signals the worker.
func (q *Queue) Enqueue(item Item) {
	if item.EnqueuedAt.IsZero() {
		item.EnqueuedAt = time.Now()
	}

	q.mu.Lock()
	switch item.Priority {
	case models.PriorityHigh:
		q.items = append([]Item{item}, q.items...)
	case models.PriorityMedium:
		mid := len(q.items) / 2
		q.items = append(q.items[:mid], append([]Item{item}, q.items[mid:]...)...)
	default:
		q.items = append(q.items, item)
	}
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Dequeue removes and returns the front item. The second return value is false
// when the queue is empty.
func (q *Queue) Dequeue() (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Item{}, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

// Remove deletes a queued settlement by id, for cancellation. It reports whether
// the settlement was still waiting in the queue.
func (q *Queue) Remove(settlementID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, item := range q.items {
		if item.SettlementID == settlementID {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// Depth returns the number of waiting settlements.
func (q *Queue) Depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Wake returns a channel that receives a signal after each enqueue. The worker
// selects on it instead of busy-polling an empty queue.
func (q *Queue) Wake() <-chan struct{} {
	return q.wake
}
