package strategy

import (
	"errors"

	"github.com/evdnx/barstrat/config"
	"github.com/evdnx/barstrat/executor"
	"github.com/evdnx/barstrat/indicator"
	"github.com/evdnx/barstrat/logger"
	"github.com/evdnx/barstrat/types"
)

const NameStochastic = "stochastic"

type StochasticParams struct {
	KPeriod    int     `mapstructure:"k_period"`
	Slowing    int     `mapstructure:"slowing"`
	DPeriod    int     `mapstructure:"d_period"`
	Oversold   float64 `mapstructure:"oversold"`
	Overbought float64 `mapstructure:"overbought"`
}

func DefaultStochasticParams() StochasticParams {
	return StochasticParams{KPeriod: 5, Slowing: 3, DPeriod: 3, Oversold: 20, Overbought: 80}
}

// StochasticCross buys %K crossing above %D inside the oversold zone and
// sells the mirror inside the overbought zone.
type StochasticCross struct {
	*BaseStrategy
	p StochasticParams
}

func NewStochasticCross(symbol string, cfg config.StrategyConfig, p StochasticParams,
	exec executor.Executor, log logger.Logger) (*StochasticCross, error) {

	if p.KPeriod < 1 || p.Slowing < 1 || p.DPeriod < 1 {
		return nil, errors.New("stochastic periods must be positive")
	}
	if p.Oversold < 0 || p.Overbought > 100 || p.Oversold >= p.Overbought {
		return nil, errors.New("stochastic oversold must be below overbought within 0..100")
	}
	base, err := NewBaseStrategy(NameStochastic, symbol, cfg, exec, log)
	if err != nil {
		return nil, err
	}
	return &StochasticCross{BaseStrategy: base, p: p}, nil
}

func (s *StochasticCross) ProcessCandle(c types.Candle) {
	if !s.accept(c) {
		return
	}
	s.manageProtection(c)

	k, d, ok := indicator.Stochastic(s.Series.Highs(), s.Series.Lows(), s.Series.Closes(),
		s.p.KPeriod, s.p.Slowing, s.p.DPeriod)
	if !ok {
		return
	}
	switch {
	case indicator.CrossedAbove(k, d) && d.Cur <= s.p.Oversold:
		s.follow(types.Buy, c.Close, "stoch")
	case indicator.CrossedBelow(k, d) && d.Cur >= s.p.Overbought:
		s.follow(types.Sell, c.Close, "stoch")
	}
}
