package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/locus/locus/pkg/window"
)

// EventSink receives window change notifications
type EventSink interface {
	Publish(event string, info window.WindowInfo) error
}

// ErrorRecorder keeps publish failures somewhere other than the log
type ErrorRecorder interface {
	RecordError(err error)
}

// SinkFunc adapts a function to EventSink
type SinkFunc func(event string, info window.WindowInfo) error

// Publish calls f
func (f SinkFunc) Publish(event string, info window.WindowInfo) error {
	return f(event, info)
}

// MultiSink publishes to every sink, even when an earlier one fails
type MultiSink []EventSink

// Publish returns the joined errors of all failing sinks
func (m MultiSink) Publish(event string, info window.WindowInfo) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Publish(event, info); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Message is one line written by JSONSink
type Message struct {
	Event     string            `json:"event"`
	Payload   window.WindowInfo `json:"payload"`
	Timestamp time.Time         `json:"timestamp"`
}

// JSONSink writes each event as one JSON line
type JSONSink struct {
	mu  sync.Mutex
	enc *json.Encoder
	now func() time.Time
}

// NewJSONSink creates a sink writing to w
func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{
		enc: json.NewEncoder(w),
		now: time.Now,
	}
}

// Publish writes the event
func (s *JSONSink) Publish(event string, info window.WindowInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := Message{Event: event, Payload: info, Timestamp: s.now()}
	if err := s.enc.Encode(msg); err != nil {
		return fmt.Errorf("failed to write %s event: %w", event, err)
	}
	return nil
}
