package strategy

import (
	"errors"

	"github.com/evdnx/barstrat/config"
	"github.com/evdnx/barstrat/executor"
	"github.com/evdnx/barstrat/indicator"
	"github.com/evdnx/barstrat/logger"
	"github.com/evdnx/barstrat/types"
)

const NameADXTrend = "adx_trend"

type ADXTrendParams struct {
	Period    int     `mapstructure:"period"`
	Threshold float64 `mapstructure:"threshold"`
	ExitLevel float64 `mapstructure:"exit_level"`
}

func DefaultADXTrendParams() ADXTrendParams {
	return ADXTrendParams{Period: 14, Threshold: 25, ExitLevel: 20}
}

// ADXTrend trades +DI/-DI crosses while ADX shows a trend and leaves when
// the trend fades below ExitLevel.
type ADXTrend struct {
	*BaseStrategy
	p ADXTrendParams
}

func NewADXTrend(symbol string, cfg config.StrategyConfig, p ADXTrendParams,
	exec executor.Executor, log logger.Logger) (*ADXTrend, error) {

	if p.Period < 2 {
		return nil, errors.New("ADX period must be at least 2")
	}
	if p.ExitLevel < 0 || p.ExitLevel > p.Threshold {
		return nil, errors.New("ADX exit level must be within 0..threshold")
	}
	base, err := NewBaseStrategy(NameADXTrend, symbol, cfg, exec, log)
	if err != nil {
		return nil, err
	}
	return &ADXTrend{BaseStrategy: base, p: p}, nil
}

func (s *ADXTrend) ProcessCandle(c types.Candle) {
	if !s.accept(c) {
		return
	}
	s.manageProtection(c)

	adx, plus, minus, ok := indicator.ADX(s.Series.Highs(), s.Series.Lows(), s.Series.Closes(), s.p.Period)
	if !ok {
		return
	}
	pos := s.position()
	if pos != 0 && adx < s.p.ExitLevel {
		held := types.Buy
		if pos < 0 {
			held = types.Sell
		}
		s.closePosition(c.Close, "adx_exit_"+label(held))
		return
	}
	if adx < s.p.Threshold {
		return
	}
	switch {
	case indicator.CrossedAbove(plus, minus):
		s.follow(types.Buy, c.Close, "adx")
	case indicator.CrossedBelow(plus, minus):
		s.follow(types.Sell, c.Close, "adx")
	}
}
