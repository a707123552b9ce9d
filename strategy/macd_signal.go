package strategy

import (
	"errors"

	"github.com/evdnx/barstrat/config"
	"github.com/evdnx/barstrat/executor"
	"github.com/evdnx/barstrat/indicator"
	"github.com/evdnx/barstrat/logger"
	"github.com/evdnx/barstrat/types"
)

const NameMACDSignal = "macd_signal"

type MACDSignalParams struct {
	FastPeriod   int `mapstructure:"fast_period"`
	SlowPeriod   int `mapstructure:"slow_period"`
	SignalPeriod int `mapstructure:"signal_period"`
	// ZeroFilter only buys below the zero line and only sells above it.
	ZeroFilter bool `mapstructure:"zero_filter"`
}

func DefaultMACDSignalParams() MACDSignalParams {
	return MACDSignalParams{FastPeriod: 12, SlowPeriod: 26, SignalPeriod: 9}
}

// MACDSignal trades MACD crossing its signal line.
type MACDSignal struct {
	*BaseStrategy
	p MACDSignalParams
}

func NewMACDSignal(symbol string, cfg config.StrategyConfig, p MACDSignalParams,
	exec executor.Executor, log logger.Logger) (*MACDSignal, error) {

	if p.FastPeriod < 1 || p.FastPeriod >= p.SlowPeriod {
		return nil, errors.New("MACD fast period must be positive and below slow period")
	}
	if p.SignalPeriod < 1 {
		return nil, errors.New("MACD signal period must be positive")
	}
	base, err := NewBaseStrategy(NameMACDSignal, symbol, cfg, exec, log)
	if err != nil {
		return nil, err
	}
	return &MACDSignal{BaseStrategy: base, p: p}, nil
}

func (s *MACDSignal) ProcessCandle(c types.Candle) {
	if !s.accept(c) {
		return
	}
	s.manageProtection(c)

	macd, sig, ok := indicator.MACD(s.Series.Closes(), s.p.FastPeriod, s.p.SlowPeriod, s.p.SignalPeriod)
	if !ok {
		return
	}
	pos := s.position()
	switch {
	case indicator.CrossedAbove(macd, sig):
		if !s.p.ZeroFilter || macd.Cur < 0 {
			s.follow(types.Buy, c.Close, "macd")
		} else if pos < 0 {
			s.closePosition(c.Close, "macd_close_short")
		}
	case indicator.CrossedBelow(macd, sig):
		if !s.p.ZeroFilter || macd.Cur > 0 {
			s.follow(types.Sell, c.Close, "macd")
		} else if pos > 0 {
			s.closePosition(c.Close, "macd_close_long")
		}
	}
}
