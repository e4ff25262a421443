package engine

import "time"

// Ticker abstracts the periodic firing source so tests can drive cycles
// manually instead of waiting on wall-clock time.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory builds the cycle ticker for a period.
type TickerFactory func(period time.Duration) Ticker

type realTicker struct {
	ticker *time.Ticker
}

// NewRealTicker wraps a time.Ticker.
func NewRealTicker(period time.Duration) Ticker {
	return &realTicker{ticker: time.NewTicker(period)}
}

func (r *realTicker) C() <-chan time.Time {
	return r.ticker.C
}

func (r *realTicker) Stop() {
	r.ticker.Stop()
}

var _ Ticker = (*realTicker)(nil)
