// Package notifications fans out board snapshots to live subscribers.
package notifications

import (
	"context"
	"sync"

	"github.com/wan8ting/mystery-meet/internal/models"
	"github.com/wan8ting/mystery-meet/internal/observability"
)

// Stream names for the two watchable views of the board.
const (
	StreamFeed  = "feed"
	StreamQueue = "queue"
)

// subscriber holds a 1-buffered snapshot channel. The buffer plus the
// drain-before-send in Broadcast gives latest-wins delivery: a slow
// reader skips intermediate snapshots instead of blocking the hub.
type subscriber struct {
	ch   chan []*models.Post
	once sync.Once
}

// FeedHub delivers full post snapshots to watchers of a stream. Every
// broadcast replaces whatever a subscriber has not yet consumed, so a
// reader always sees the most recent state next.
type FeedHub struct {
	mu      sync.Mutex
	streams map[string]map[*subscriber]struct{}
	closed  bool
}

// NewFeedHub creates an empty hub.
func NewFeedHub() *FeedHub {
	return &FeedHub{
		streams: make(map[string]map[*subscriber]struct{}),
	}
}

// Subscribe registers a watcher on the given stream and immediately queues
// the initial snapshot. The returned cancel func is idempotent and safe to
// call concurrently; the subscription also ends when ctx is cancelled.
// The snapshot channel is closed once the subscription ends.
func (h *FeedHub) Subscribe(ctx context.Context, stream string, initial []*models.Post) (<-chan []*models.Post, func()) {
	sub := &subscriber{ch: make(chan []*models.Post, 1)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	subs, ok := h.streams[stream]
	if !ok {
		subs = make(map[*subscriber]struct{})
		h.streams[stream] = subs
	}
	subs[sub] = struct{}{}
	sub.ch <- initial
	h.mu.Unlock()

	observability.WatchSubscribers.WithLabelValues(stream).Inc()

	cancel := func() { h.unsubscribe(stream, sub) }

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return sub.ch, cancel
}

// Broadcast pushes a fresh snapshot to every subscriber of the stream,
// replacing any snapshot they have not read yet.
func (h *FeedHub) Broadcast(stream string, snapshot []*models.Post) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for sub := range h.streams[stream] {
		// Drain the stale snapshot, if any, then queue the new one.
		select {
		case <-sub.ch:
		default:
		}
		sub.ch <- snapshot
	}
}

// SubscriberCount returns the number of live subscribers on a stream.
func (h *FeedHub) SubscriberCount(stream string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.streams[stream])
}

// Shutdown closes every subscriber channel. Further broadcasts are dropped
// and further subscriptions get an already-closed channel. Safe to call
// more than once.
func (h *FeedHub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for stream, subs := range h.streams {
		for sub := range subs {
			sub.once.Do(func() { close(sub.ch) })
			observability.WatchSubscribers.WithLabelValues(stream).Dec()
		}
		delete(h.streams, stream)
	}
}

func (h *FeedHub) unsubscribe(stream string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.streams[stream]
	if !ok {
		return
	}
	if _, present := subs[sub]; !present {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.streams, stream)
	}
	sub.once.Do(func() { close(sub.ch) })
	observability.WatchSubscribers.WithLabelValues(stream).Dec()
}
