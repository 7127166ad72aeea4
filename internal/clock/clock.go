// Package clock abstracts periodic scheduling so the session loop can run
// on wall-clock tickers in production and on a deterministic manual clock
// in tests.
package clock

import (
	"sync"
	"time"
)

// Ticker delivers ticks on C until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// Real returns a Clock backed by time.Ticker.
func Real() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (r *realTicker) C() <-chan time.Time { return r.t.C }
func (r *realTicker) Stop()               { r.t.Stop() }

// Manual is a test clock whose tickers fire only when Advance is called.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
}

// NewManual creates a Manual clock.
func NewManual() *Manual {
	return &Manual{now: time.Unix(0, 0)}
}

// NewTicker registers a ticker with the manual clock.
func (m *Manual) NewTicker(d time.Duration) Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &manualTicker{
		clock:    m,
		interval: d,
		next:     m.now.Add(d),
		ch:       make(chan time.Time, 64),
	}
	m.tickers = append(m.tickers, t)
	return t
}

// Advance moves the clock forward, firing every due ticker once per elapsed
// interval in order.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now = m.now.Add(d)
	for _, t := range m.tickers {
		if t.stopped {
			continue
		}
		for !t.next.After(m.now) {
			select {
			case t.ch <- t.next:
			default:
			}
			t.next = t.next.Add(t.interval)
		}
	}
}

type manualTicker struct {
	clock    *Manual
	interval time.Duration
	next     time.Time
	ch       chan time.Time
	stopped  bool
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }

func (t *manualTicker) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.stopped = true
}
