package strategy

import (
	"errors"

	"github.com/evdnx/barstrat/config"
	"github.com/evdnx/barstrat/executor"
	"github.com/evdnx/barstrat/indicator"
	"github.com/evdnx/barstrat/logger"
	"github.com/evdnx/barstrat/types"
)

const NameParabolicSAR = "parabolic_sar"

type ParabolicSARParams struct {
	Step    float64 `mapstructure:"step"`
	Maximum float64 `mapstructure:"maximum"`
}

func DefaultParabolicSARParams() ParabolicSARParams {
	return ParabolicSARParams{Step: 0.02, Maximum: 0.2}
}

// ParabolicSAR is always in the market once the first flip happened: the
// close moving to the other side of the SAR reverses the position, and
// while a position is open the SAR trails its stop.
type ParabolicSAR struct {
	*BaseStrategy
	p ParabolicSARParams
}

func NewParabolicSAR(symbol string, cfg config.StrategyConfig, p ParabolicSARParams,
	exec executor.Executor, log logger.Logger) (*ParabolicSAR, error) {

	if p.Step <= 0 || p.Maximum < p.Step {
		return nil, errors.New("SAR step must be positive and not above maximum")
	}
	base, err := NewBaseStrategy(NameParabolicSAR, symbol, cfg, exec, log)
	if err != nil {
		return nil, err
	}
	return &ParabolicSAR{BaseStrategy: base, p: p}, nil
}

func (s *ParabolicSAR) ProcessCandle(c types.Candle) {
	if !s.accept(c) {
		return
	}
	s.manageProtection(c)

	sar, ok := indicator.SAR(s.Series.Highs(), s.Series.Lows(), s.p.Step, s.p.Maximum)
	if !ok {
		return
	}
	prevClose := s.Series.Prev()
	switch {
	case sar.Prev >= prevClose && sar.Cur < c.Close:
		s.follow(types.Buy, c.Close, "sar")
	case sar.Prev <= prevClose && sar.Cur > c.Close:
		s.follow(types.Sell, c.Close, "sar")
	}

	if prot := s.Protection(); prot != nil {
		if (prot.Side == types.Buy && sar.Cur < c.Close) || (prot.Side == types.Sell && sar.Cur > c.Close) {
			prot.SetStop(sar.Cur)
		}
	}
}
