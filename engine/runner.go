// Package engine drives strategies with candles. It is a single goroutine
// dispatch loop: for every base candle the broker first triggers pending
// stops and marks prices, then each subscription receives its (possibly
// resampled) candle in subscription order.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/evdnx/barstrat/feed"
	"github.com/evdnx/barstrat/logger"
	"github.com/evdnx/barstrat/metrics"
	"github.com/evdnx/barstrat/types"
)

// Strategy is what the runner needs from a strategy.
type Strategy interface {
	Name() string
	Symbol() string
	ProcessCandle(c types.Candle)
	Reset()
}

// Broker is the part of the paper account the runner drives.
type Broker interface {
	OnCandle(c types.Candle)
	Equity() float64
}

type subscription struct {
	strat Strategy
	tf    time.Duration
	agg   *feed.Aggregator
}

// Stats summarises a run.
type Stats struct {
	Candles    int // base candles read from the feed
	Dispatched int // candles delivered to strategies
}

type Runner struct {
	broker Broker
	log    logger.Logger
	subs   []*subscription
}

func New(b Broker, log logger.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{broker: b, log: log}
}

// Subscribe binds s to candles of timeframe tf (0 = the feed's own bars).
func (r *Runner) Subscribe(s Strategy, tf time.Duration) error {
	if s == nil {
		return errors.New("nil strategy")
	}
	if tf < 0 {
		return fmt.Errorf("negative timeframe %v", tf)
	}
	for _, sub := range r.subs {
		if sub.strat.Name() == s.Name() && sub.strat.Symbol() == s.Symbol() && sub.tf == tf {
			return fmt.Errorf("strategy %s already subscribed to %s/%v", s.Name(), s.Symbol(), tf)
		}
	}
	r.subs = append(r.subs, &subscription{strat: s, tf: tf, agg: feed.NewAggregator(tf)})
	r.log.Info("strategy_subscribed",
		logger.String("strategy", s.Name()),
		logger.String("symbol", s.Symbol()),
		logger.String("timeframe", tf.String()),
	)
	return nil
}

// Reset calls Reset on every subscribed strategy and drops partial buckets.
func (r *Runner) Reset() {
	for _, sub := range r.subs {
		sub.strat.Reset()
		sub.agg = feed.NewAggregator(sub.tf)
	}
}

// Run consumes f until io.EOF, a feed error or ctx cancellation.
func (r *Runner) Run(ctx context.Context, f feed.Feed) (Stats, error) {
	var st Stats
	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		default:
		}
		c, err := f.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return st, fmt.Errorf("read candle: %w", err)
		}
		st.Candles++
		if r.broker != nil {
			r.broker.OnCandle(c)
		}
		for _, sub := range r.subs {
			if c.Symbol != "" && sub.strat.Symbol() != c.Symbol {
				continue
			}
			if out, ok := sub.agg.Add(c); ok {
				r.dispatch(sub, out)
				st.Dispatched++
			}
		}
		if r.broker != nil {
			metrics.EquityGauge.Set(r.broker.Equity())
		}
	}
	for _, sub := range r.subs {
		if out, ok := sub.agg.Flush(); ok {
			r.dispatch(sub, out)
			st.Dispatched++
		}
	}
	r.log.Info("run_finished",
		logger.Int("candles", st.Candles),
		logger.Int("dispatched", st.Dispatched),
		logger.Since("elapsed", start),
	)
	return st, nil
}

func (r *Runner) dispatch(sub *subscription, c types.Candle) {
	sub.strat.ProcessCandle(c)
	metrics.CandlesProcessed.WithLabelValues(sub.strat.Name()).Inc()
}
