package window

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// DefaultMaxLoggedFailures bounds how many consecutive total failures are logged
const DefaultMaxLoggedFailures = 5

// Strategy is one self-contained way of resolving the focused window.
// Accept decides whether a successful result is good enough; a nil Accept takes
// every result.
type Strategy struct {
	Name   string
	Probe  func(ctx context.Context) (WindowInfo, error)
	Accept func(WindowInfo) bool
}

// FirstAcceptable evaluates strategies in order and returns the first result that
// both succeeds and passes its strategy's Accept predicate, along with the name of
// the strategy that produced it.
func FirstAcceptable(ctx context.Context, strategies []Strategy) (WindowInfo, string, error) {
	var errs []error

	for _, s := range strategies {
		info, err := s.Probe(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
			continue
		}
		if s.Accept != nil && !s.Accept(info) {
			errs = append(errs, fmt.Errorf("%s: rejected result %q", s.Name, info.String()))
			continue
		}
		return info, s.Name, nil
	}

	if len(errs) == 0 {
		return WindowInfo{}, "", ErrNoActiveWindow
	}
	return WindowInfo{}, "", fmt.Errorf("all %d strategies failed: %w", len(strategies), errors.Join(errs...))
}

// Chain is an ordered fallback of strategies implementing Detector
type Chain struct {
	displayServer     string
	strategies        []Strategy
	maxLoggedFailures int
	closer            func() error

	mu         sync.Mutex
	failures   int
	lastMethod string
}

// NewChain creates a chain evaluating strategies in the given order
func NewChain(displayServer string, strategies ...Strategy) *Chain {
	return &Chain{
		displayServer:     displayServer,
		strategies:        strategies,
		maxLoggedFailures: DefaultMaxLoggedFailures,
	}
}

// WithCloser registers a function run by Close
func (c *Chain) WithCloser(fn func() error) *Chain {
	c.closer = fn
	return c
}

// SetMaxLoggedFailures changes how many consecutive failures get logged
func (c *Chain) SetMaxLoggedFailures(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxLoggedFailures = n
}

// Probe runs the fallback chain. Exhaustion yields None().
func (c *Chain) Probe(ctx context.Context) WindowInfo {
	info, method, err := FirstAcceptable(ctx, c.strategies)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil || info.IsNone() {
		if err == nil {
			err = fmt.Errorf("%s: %w", method, ErrNoActiveWindow)
		}
		c.failures++
		if c.failures <= c.maxLoggedFailures {
			log.Printf("Window probe failed (attempt %d): %v", c.failures, err)
		}
		c.lastMethod = ""
		return None()
	}

	c.failures = 0
	c.lastMethod = method
	return info
}

// Failures returns the current count of consecutive total failures
func (c *Chain) Failures() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failures
}

// LastMethod returns the strategy that produced the last successful result
func (c *Chain) LastMethod() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastMethod
}

// Strategies returns the chain's strategies in evaluation order
func (c *Chain) Strategies() []Strategy {
	out := make([]Strategy, len(c.strategies))
	copy(out, c.strategies)
	return out
}

func (c *Chain) DisplayServer() string {
	return c.displayServer
}

func (c *Chain) Close() error {
	if c.closer != nil {
		return c.closer()
	}
	return nil
}
