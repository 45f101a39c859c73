package tracker

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/locus/locus/pkg/window"
)

// State of a streaming session
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCancelled State = "cancelled"
)

// Session owns the Start and Stop commands. Each Start gets a fresh token and
// cancels the previous one, so only the most recent loop keeps emitting.
type Session struct {
	prober   window.Prober
	sink     EventSink
	interval time.Duration
	recorder ErrorRecorder

	mu         sync.Mutex
	token      *Token
	loop       *Loop
	state      State
	startedAt  time.Time
	generation int
	wg         sync.WaitGroup
}

// NewSession creates an idle session
func NewSession(prober window.Prober, sink EventSink, interval time.Duration) *Session {
	return &Session{
		prober:   prober,
		sink:     sink,
		interval: interval,
		state:    StateIdle,
	}
}

// SetErrorRecorder registers where publish failures are recorded. It applies
// to loops started afterwards.
func (s *Session) SetErrorRecorder(r ErrorRecorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = r
}

// Start spawns a polling loop and returns immediately
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.token != nil {
		s.token.Cancel()
	}

	token := NewToken()
	loop := NewLoop(s.prober, s.sink, s.interval, token)
	if s.recorder != nil {
		loop.SetErrorRecorder(s.recorder)
	}

	s.token = token
	s.loop = loop
	s.state = StateRunning
	s.startedAt = time.Now()
	s.generation++
	generation := s.generation
	s.wg.Add(1)
	s.mu.Unlock()

	log.Printf("Starting window stream with %v poll interval", s.interval)

	go func() {
		defer s.wg.Done()
		err := loop.Run(ctx)
		s.finish(generation, err)
	}()
}

func (s *Session) finish(generation int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return
	}

	s.state = StateCancelled
	switch {
	case err == nil:
		log.Println("Window stream stopped")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Println("Window stream stopped by context")
	default:
		log.Printf("Window stream ended: %v", err)
	}
}

// Stop cancels the current loop and returns immediately. The loop exits
// within one poll interval plus any probe already running.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != nil {
		s.token.Cancel()
	}
	if s.state == StateRunning {
		s.state = StateCancelled
	}
}

// Wait blocks until every loop started by this session has returned
func (s *Session) Wait() {
	s.wg.Wait()
}

// State returns the session state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsRunning reports whether a loop is active
func (s *Session) IsRunning() bool {
	return s.State() == StateRunning
}

// Status is a point-in-time view of the session. StartedAt is zero until
// the first Start; models.StreamStatus is its wire form.
type Status struct {
	State        State
	PollInterval time.Duration
	StartedAt    time.Time
	Published    int64
}

// Status returns the current state and the latest loop's counters
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := Status{
		State:        s.state,
		PollInterval: s.interval,
		StartedAt:    s.startedAt,
	}
	if s.loop != nil {
		status.Published = s.loop.Published()
	}
	return status
}
