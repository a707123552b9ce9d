package strategy

import (
	"errors"

	"github.com/evdnx/barstrat/config"
	"github.com/evdnx/barstrat/executor"
	"github.com/evdnx/barstrat/indicator"
	"github.com/evdnx/barstrat/logger"
	"github.com/evdnx/barstrat/types"
)

const NameHeikenAshiAMA = "heiken_ashi_ama"

type HeikenAshiAMAParams struct {
	Period int     `mapstructure:"period"`
	Fast   int     `mapstructure:"fast"`
	Slow   int     `mapstructure:"slow"`
	Power  float64 `mapstructure:"power"`
	// K scales the standard deviation of the AMA steps into the filter.
	K float64 `mapstructure:"k"`
}

func DefaultHeikenAshiAMAParams() HeikenAshiAMAParams {
	return HeikenAshiAMAParams{Period: 10, Fast: 2, Slow: 30, Power: 2, K: 1}
}

// HeikenAshiAMA runs Kaufman's AMA over Heiken-Ashi closes and trades AMA
// moves larger than K standard deviations of its recent moves.
type HeikenAshiAMA struct {
	*BaseStrategy
	p   HeikenAshiAMAParams
	ind *indicator.HeikenAshiAMA
}

func NewHeikenAshiAMA(symbol string, cfg config.StrategyConfig, p HeikenAshiAMAParams,
	exec executor.Executor, log logger.Logger) (*HeikenAshiAMA, error) {

	if p.K < 0 {
		return nil, errors.New("AMA filter k cannot be negative")
	}
	ind, err := indicator.NewHeikenAshiAMA(p.Period, p.Fast, p.Slow, p.Power)
	if err != nil {
		return nil, err
	}
	base, err := NewBaseStrategy(NameHeikenAshiAMA, symbol, cfg, exec, log)
	if err != nil {
		return nil, err
	}
	return &HeikenAshiAMA{BaseStrategy: base, p: p, ind: ind}, nil
}

func (s *HeikenAshiAMA) Reset() {
	s.BaseStrategy.Reset()
	s.ind.Reset()
}

func (s *HeikenAshiAMA) ProcessCandle(c types.Candle) {
	if !s.accept(c) {
		return
	}
	s.manageProtection(c)

	if _, ok := s.ind.Update(c); !ok {
		return
	}
	step := s.ind.AMA.Step()
	filter := s.ind.AMA.Threshold(s.p.K)
	switch {
	case step > 0 && step > filter:
		s.follow(types.Buy, c.Close, "haama")
	case step < 0 && -step > filter:
		s.follow(types.Sell, c.Close, "haama")
	}
}
