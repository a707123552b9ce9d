package strategy

import (
	"errors"

	"github.com/evdnx/barstrat/config"
	"github.com/evdnx/barstrat/executor"
	"github.com/evdnx/barstrat/indicator"
	"github.com/evdnx/barstrat/logger"
	"github.com/evdnx/barstrat/types"
)

const NameCCIReversal = "cci_reversal"

type CCIReversalParams struct {
	Period int     `mapstructure:"period"`
	Level  float64 `mapstructure:"level"`
}

func DefaultCCIReversalParams() CCIReversalParams {
	return CCIReversalParams{Period: 14, Level: 100}
}

// CCIReversal buys when CCI comes back above -Level and sells when it
// comes back below +Level.
type CCIReversal struct {
	*BaseStrategy
	p CCIReversalParams
}

func NewCCIReversal(symbol string, cfg config.StrategyConfig, p CCIReversalParams,
	exec executor.Executor, log logger.Logger) (*CCIReversal, error) {

	if p.Period < 2 {
		return nil, errors.New("CCI period must be at least 2")
	}
	if p.Level <= 0 {
		return nil, errors.New("CCI level must be positive")
	}
	base, err := NewBaseStrategy(NameCCIReversal, symbol, cfg, exec, log)
	if err != nil {
		return nil, err
	}
	return &CCIReversal{BaseStrategy: base, p: p}, nil
}

func (s *CCIReversal) ProcessCandle(c types.Candle) {
	if !s.accept(c) {
		return
	}
	s.manageProtection(c)

	cci, ok := indicator.CCI(s.Series.Highs(), s.Series.Lows(), s.Series.Closes(), s.p.Period)
	if !ok {
		return
	}
	switch {
	case indicator.CrossedAbove(cci, indicator.Level(-s.p.Level)):
		s.follow(types.Buy, c.Close, "cci")
	case indicator.CrossedBelow(cci, indicator.Level(s.p.Level)):
		s.follow(types.Sell, c.Close, "cci")
	}
}
