package tracker

import "sync"

// Token is a cancellation flag shared between the Stop command and one
// running loop. The lock is held only to read or write the flag.
type Token struct {
	mu        sync.Mutex
	cancelled bool
}

// NewToken returns an uncancelled token
func NewToken() *Token {
	return &Token{}
}

// Cancel sets the flag. The loop notices it at the top of its next iteration.
func (t *Token) Cancel() {
	t.mu.Lock()
	t.cancelled = true
	t.mu.Unlock()
}

// Cancelled reports whether Cancel has been called
func (t *Token) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}
