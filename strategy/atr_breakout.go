package strategy

import (
	"errors"

	"github.com/evdnx/barstrat/config"
	"github.com/evdnx/barstrat/executor"
	"github.com/evdnx/barstrat/indicator"
	"github.com/evdnx/barstrat/logger"
	"github.com/evdnx/barstrat/types"
)

const NameATRBreakout = "atr_breakout"

type ATRBreakoutParams struct {
	Lookback      int     `mapstructure:"lookback"`
	ATRPeriod     int     `mapstructure:"atr_period"`
	ATRMultiplier float64 `mapstructure:"atr_multiplier"`
}

func DefaultATRBreakoutParams() ATRBreakoutParams {
	return ATRBreakoutParams{Lookback: 20, ATRPeriod: 14, ATRMultiplier: 2}
}

// ATRBreakout follows closes beyond the previous Lookback bar range. The
// stop sits ATRMultiplier ATRs from the entry and also sizes the position;
// break-even and trailing come from the shared config.
type ATRBreakout struct {
	*BaseStrategy
	p ATRBreakoutParams
}

func NewATRBreakout(symbol string, cfg config.StrategyConfig, p ATRBreakoutParams,
	exec executor.Executor, log logger.Logger) (*ATRBreakout, error) {

	if p.Lookback < 1 || p.ATRPeriod < 1 {
		return nil, errors.New("lookback and ATR period must be positive")
	}
	if p.ATRMultiplier <= 0 {
		return nil, errors.New("ATR multiplier must be positive")
	}
	base, err := NewBaseStrategy(NameATRBreakout, symbol, cfg, exec, log)
	if err != nil {
		return nil, err
	}
	return &ATRBreakout{BaseStrategy: base, p: p}, nil
}

func (s *ATRBreakout) ProcessCandle(c types.Candle) {
	if !s.accept(c) {
		return
	}
	s.manageProtection(c)

	hh, ok1 := indicator.Highest(s.Series.Highs(), s.p.Lookback, 1)
	ll, ok2 := indicator.Lowest(s.Series.Lows(), s.p.Lookback, 1)
	atr, ok3 := indicator.ATR(s.Series.Highs(), s.Series.Lows(), s.Series.Closes(), s.p.ATRPeriod)
	if !ok1 || !ok2 || !ok3 || atr <= 0 {
		return
	}
	dist := atr * s.p.ATRMultiplier
	pos := s.position()
	switch {
	case c.Close > hh && pos <= 0:
		if pos < 0 {
			s.closePosition(c.Close, "atrb_close_short")
		}
		s.enterWithStop(types.Buy, c.Close, dist, "atrb_long")
	case c.Close < ll && pos >= 0:
		if pos > 0 {
			s.closePosition(c.Close, "atrb_close_long")
		}
		s.enterWithStop(types.Sell, c.Close, dist, "atrb_short")
	}
}
