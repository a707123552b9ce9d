package feed

import (
	"time"

	"github.com/evdnx/barstrat/types"
)

// Aggregator folds base candles into buckets of a larger timeframe aligned
// to the Unix epoch. A bucket is complete once a candle from a later bucket
// arrives; Flush hands out the last partial bucket.
type Aggregator struct {
	tf      time.Duration
	cur     types.Candle
	started bool
}

// NewAggregator with tf <= 0 passes candles through unchanged.
func NewAggregator(tf time.Duration) *Aggregator {
	return &Aggregator{tf: tf}
}

// Add returns the completed bucket, if any.
func (a *Aggregator) Add(c types.Candle) (types.Candle, bool) {
	if a.tf <= 0 {
		return c, true
	}
	bucket := c.Time.Truncate(a.tf)
	if !a.started {
		a.open(c, bucket)
		return types.Candle{}, false
	}
	if bucket.After(a.cur.Time) {
		done := a.cur
		a.open(c, bucket)
		return done, true
	}
	if c.High > a.cur.High {
		a.cur.High = c.High
	}
	if c.Low < a.cur.Low {
		a.cur.Low = c.Low
	}
	a.cur.Close = c.Close
	a.cur.Volume += c.Volume
	return types.Candle{}, false
}

func (a *Aggregator) open(c types.Candle, bucket time.Time) {
	a.cur = c
	a.cur.Time = bucket
	a.started = true
}

// Flush returns the pending partial bucket.
func (a *Aggregator) Flush() (types.Candle, bool) {
	if a.tf <= 0 || !a.started {
		return types.Candle{}, false
	}
	a.started = false
	return a.cur, true
}
