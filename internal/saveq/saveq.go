// Package saveq provides the debounced background persistence used by the
// feature stores. Every store mutation enqueues a save; rapid successive
// edits within the debounce window collapse into a single remote write.
// Failures are logged and swallowed; the next mutation is the retry.
//
// Unlike a bare timer, the queue owns a Flush operation so shutdown (or
// any teardown path) can force pending writes out instead of losing the
// last edit inside the debounce window.
package saveq

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultDelay is the idle interval after the last mutation before the
// save fires.
const DefaultDelay = 1 * time.Second

// saveTimeout bounds each background write so a slow remote call cannot
// pin a flush forever.
const saveTimeout = 10 * time.Second

// SaveFunc performs one persistence write.
type SaveFunc func(ctx context.Context) error

type pendingSave struct {
	fn    SaveFunc
	timer *time.Timer
}

// Queue is a per-key trailing-debounce save queue. Keys are typically
// "<feature>:<userID>"; a new save for a key cancels and replaces the
// pending one, so only the latest state is written (last-write-wins).
type Queue struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*pendingSave
	closed  bool
}

// New creates a queue with the given debounce delay; zero or negative
// falls back to DefaultDelay.
func New(delay time.Duration) *Queue {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Queue{
		delay:   delay,
		pending: make(map[string]*pendingSave),
	}
}

// Enqueue schedules fn to run after the debounce delay. A pending save
// for the same key is cancelled and rescheduled.
func (q *Queue) Enqueue(key string, fn SaveFunc) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		// Late enqueue after shutdown: write immediately rather than drop.
		go runSave(key, fn)
		return
	}

	if prev, ok := q.pending[key]; ok {
		prev.timer.Stop()
	}
	p := &pendingSave{fn: fn}
	p.timer = time.AfterFunc(q.delay, func() { q.fire(key, p) })
	q.pending[key] = p
}

// fire runs a save whose timer elapsed. The pending entry may already be
// gone if Flush got there first.
func (q *Queue) fire(key string, p *pendingSave) {
	q.mu.Lock()
	current, ok := q.pending[key]
	if !ok || current != p {
		q.mu.Unlock()
		return
	}
	delete(q.pending, key)
	q.mu.Unlock()

	runSave(key, p.fn)
}

// Flush synchronously runs every pending save. Used on shutdown to close
// the window where the last edit would otherwise be lost.
func (q *Queue) Flush() {
	q.mu.Lock()
	drained := make(map[string]SaveFunc, len(q.pending))
	for key, p := range q.pending {
		p.timer.Stop()
		drained[key] = p.fn
	}
	q.pending = make(map[string]*pendingSave)
	q.mu.Unlock()

	for key, fn := range drained {
		runSave(key, fn)
	}
}

// Close flushes pending saves and marks the queue closed; later enqueues
// write through immediately.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.Flush()
}

// Len reports the number of pending saves.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func runSave(key string, fn SaveFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		// Background saves never surface to the user; the next mutation
		// schedules another attempt.
		log.Printf("ERROR: background save %q failed: %v", key, err)
	}
}
