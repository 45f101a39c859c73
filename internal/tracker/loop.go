package tracker

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/locus/locus/pkg/window"
)

// Loop probes the focused window every interval and publishes changes.
// It ends when its token is cancelled or ctx is done.
type Loop struct {
	prober   window.Prober
	sink     EventSink
	interval time.Duration
	token    *Token
	recorder ErrorRecorder

	last      window.WindowInfo
	published atomic.Int64
}

// NewLoop creates a loop. The last emitted value starts as window.None(), so
// an initial "no window" is not announced.
func NewLoop(prober window.Prober, sink EventSink, interval time.Duration, token *Token) *Loop {
	return &Loop{
		prober:   prober,
		sink:     sink,
		interval: interval,
		token:    token,
		last:     window.None(),
	}
}

// SetErrorRecorder registers where publish failures are recorded besides the log
func (l *Loop) SetErrorRecorder(r ErrorRecorder) {
	l.recorder = r
}

// Run blocks until the token is cancelled (returns nil) or ctx is done
// (returns ctx.Err()). Probe and publish failures never end it.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if l.token.Cancelled() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		l.tick(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.interval):
		}
	}
}

func (l *Loop) tick(ctx context.Context) {
	info := l.prober.Probe(ctx)
	if info == l.last {
		return
	}
	l.last = info

	if err := l.sink.Publish(window.EventActiveWindowTitle, info); err != nil {
		log.Printf("Failed to publish %s: %v", window.EventActiveWindowTitle, err)
		if l.recorder != nil {
			l.recorder.RecordError(err)
		}
		return
	}
	l.published.Add(1)
}

// Last returns the most recently emitted value. Only call it after Run returns.
func (l *Loop) Last() window.WindowInfo {
	return l.last
}

// Published returns how many events were delivered without error
func (l *Loop) Published() int64 {
	return l.published.Load()
}
