package fulfillment

import "sync"

// Feed is an in-memory Notifier that queues notifications per user until a
// client polls for them. Each queue is bounded; when full, the oldest entry
// is dropped so a silent client cannot grow memory without limit.
type Feed struct {
	mu    sync.Mutex
	limit int
	queue map[string][]Notification
}

// NewFeed returns a Feed keeping at most limit pending notifications per
// user. limit values <= 0 default to 50.
func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = 50
	}
	return &Feed{limit: limit, queue: make(map[string][]Notification)}
}

// Notify appends n to the user's pending queue.
func (f *Feed) Notify(userID string, n Notification) {
	f.mu.Lock()
	q := append(f.queue[userID], n)
	if len(q) > f.limit {
		q = q[len(q)-f.limit:]
	}
	f.queue[userID] = q
	f.mu.Unlock()
}

// Drain returns and clears the user's pending notifications, oldest first.
func (f *Feed) Drain(userID string) []Notification {
	f.mu.Lock()
	q := f.queue[userID]
	delete(f.queue, userID)
	f.mu.Unlock()
	return q
}
