package strategy

import (
	"errors"

	"github.com/evdnx/barstrat/config"
	"github.com/evdnx/barstrat/executor"
	"github.com/evdnx/barstrat/indicator"
	"github.com/evdnx/barstrat/logger"
	"github.com/evdnx/barstrat/types"
)

const NameBollinger = "bollinger"

type BollingerParams struct {
	Period    int     `mapstructure:"period"`
	Deviation float64 `mapstructure:"deviation"`
}

func DefaultBollingerParams() BollingerParams {
	return BollingerParams{Period: 20, Deviation: 2}
}

// BollingerReversion fades closes outside the bands and takes profit when
// price returns to the middle band.
type BollingerReversion struct {
	*BaseStrategy
	p BollingerParams
}

func NewBollingerReversion(symbol string, cfg config.StrategyConfig, p BollingerParams,
	exec executor.Executor, log logger.Logger) (*BollingerReversion, error) {

	if p.Period < 2 {
		return nil, errors.New("bollinger period must be at least 2")
	}
	if p.Deviation <= 0 {
		return nil, errors.New("bollinger deviation must be positive")
	}
	base, err := NewBaseStrategy(NameBollinger, symbol, cfg, exec, log)
	if err != nil {
		return nil, err
	}
	return &BollingerReversion{BaseStrategy: base, p: p}, nil
}

func (s *BollingerReversion) ProcessCandle(c types.Candle) {
	if !s.accept(c) {
		return
	}
	s.manageProtection(c)

	upper, middle, lower, ok := indicator.Bollinger(s.Series.Closes(), s.p.Period, s.p.Deviation)
	if !ok {
		return
	}
	pos := s.position()
	switch {
	case c.Close < lower:
		s.follow(types.Buy, c.Close, "bb")
	case c.Close > upper:
		s.follow(types.Sell, c.Close, "bb")
	case pos > 0 && c.Close >= middle:
		s.closePosition(c.Close, "bb_exit_long")
	case pos < 0 && c.Close <= middle:
		s.closePosition(c.Close, "bb_exit_short")
	}
}
