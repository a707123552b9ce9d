package strategy

import (
	"errors"

	"github.com/evdnx/barstrat/config"
	"github.com/evdnx/barstrat/executor"
	"github.com/evdnx/barstrat/indicator"
	"github.com/evdnx/barstrat/logger"
	"github.com/evdnx/barstrat/types"
)

const NameMACross = "ma_cross"

type MACrossParams struct {
	FastPeriod int    `mapstructure:"fast_period"`
	SlowPeriod int    `mapstructure:"slow_period"`
	MAType     string `mapstructure:"ma_type"` // sma, ema or wma
	// Momentum must be at least MomentumThreshold (price units) for a
	// long entry and at most -MomentumThreshold for a short one.
	MomentumPeriod    int     `mapstructure:"momentum_period"`
	MomentumThreshold float64 `mapstructure:"momentum_threshold"`
}

func DefaultMACrossParams() MACrossParams {
	return MACrossParams{
		FastPeriod:     10,
		SlowPeriod:     30,
		MAType:         string(indicator.KindSMA),
		MomentumPeriod: 14,
	}
}

// MACrossMomentum trades fast/slow moving average crosses confirmed by
// momentum. An opposite cross always closes the position; it reverses it
// when momentum agrees.
type MACrossMomentum struct {
	*BaseStrategy
	p    MACrossParams
	kind indicator.MAKind
}

func NewMACrossMomentum(symbol string, cfg config.StrategyConfig, p MACrossParams,
	exec executor.Executor, log logger.Logger) (*MACrossMomentum, error) {

	kind, err := indicator.ParseMAKind(p.MAType)
	if err != nil {
		return nil, err
	}
	if p.FastPeriod < 1 || p.FastPeriod >= p.SlowPeriod {
		return nil, errors.New("fast period must be positive and below slow period")
	}
	if p.MomentumPeriod < 1 {
		return nil, errors.New("momentum period must be positive")
	}
	if p.MomentumThreshold < 0 {
		return nil, errors.New("momentum threshold cannot be negative")
	}
	base, err := NewBaseStrategy(NameMACross, symbol, cfg, exec, log)
	if err != nil {
		return nil, err
	}
	return &MACrossMomentum{BaseStrategy: base, p: p, kind: kind}, nil
}

func (s *MACrossMomentum) ProcessCandle(c types.Candle) {
	if !s.accept(c) {
		return
	}
	s.manageProtection(c)

	closes := s.Series.Closes()
	fast, ok1 := indicator.MA(closes, s.p.FastPeriod, s.kind)
	slow, ok2 := indicator.MA(closes, s.p.SlowPeriod, s.kind)
	mom, ok3 := indicator.Momentum(closes, s.p.MomentumPeriod)
	if !ok1 || !ok2 || !ok3 {
		return
	}

	pos := s.position()
	switch {
	case indicator.CrossedAbove(fast, slow):
		if mom >= s.p.MomentumThreshold {
			s.follow(types.Buy, c.Close, "mac")
		} else if pos < 0 {
			s.closePosition(c.Close, "mac_close_short")
		}
	case indicator.CrossedBelow(fast, slow):
		if mom <= -s.p.MomentumThreshold {
			s.follow(types.Sell, c.Close, "mac")
		} else if pos > 0 {
			s.closePosition(c.Close, "mac_close_long")
		}
	}
}
