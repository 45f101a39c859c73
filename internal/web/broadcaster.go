package web

import (
	"fmt"
	"sync"

	"github.com/locus/locus/pkg/window"
)

const subscriberBuffer = 16

// Broadcaster fans window changes out to SSE subscribers and remembers the
// latest one. It never blocks the polling loop: a full subscriber misses the
// event.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[chan window.WindowInfo]struct{}
	latest      window.WindowInfo
	hasLatest   bool
}

// NewBroadcaster creates a broadcaster with no subscribers
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[chan window.WindowInfo]struct{}),
	}
}

// Publish stores info as the latest value and offers it to every subscriber
func (b *Broadcaster) Publish(event string, info window.WindowInfo) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.latest = info
	b.hasLatest = true

	dropped := 0
	for ch := range b.subscribers {
		select {
		case ch <- info:
		default:
			dropped++
		}
	}

	if dropped > 0 {
		return fmt.Errorf("dropped %s for %d slow subscriber(s)", event, dropped)
	}
	return nil
}

// Subscription is a registered subscriber. Current holds the latest value
// at the moment of subscribing; Updates carries only values published after it.
type Subscription struct {
	Updates    <-chan window.WindowInfo
	Current    window.WindowInfo
	HasCurrent bool

	close func()
}

// Close unsubscribes and closes Updates. It is safe to call more than once.
func (s *Subscription) Close() {
	s.close()
}

// Subscribe registers a subscriber and snapshots the latest value under the
// same lock, so a concurrent Publish lands in exactly one of the two
func (b *Broadcaster) Subscribe() *Subscription {
	ch := make(chan window.WindowInfo, subscriberBuffer)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	current, hasCurrent := b.latest, b.hasLatest
	b.mu.Unlock()

	var once sync.Once
	return &Subscription{
		Updates:    ch,
		Current:    current,
		HasCurrent: hasCurrent,
		close: func() {
			once.Do(func() {
				b.mu.Lock()
				delete(b.subscribers, ch)
				b.mu.Unlock()
				close(ch)
			})
		},
	}
}

// Latest returns the last published value
func (b *Broadcaster) Latest() (window.WindowInfo, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest, b.hasLatest
}

// Subscribers returns the number of connected subscribers
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
