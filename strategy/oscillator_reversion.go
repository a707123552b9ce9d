package strategy

import (
	"errors"

	"github.com/evdnx/goti"

	"github.com/evdnx/barstrat/config"
	"github.com/evdnx/barstrat/executor"
	"github.com/evdnx/barstrat/logger"
	"github.com/evdnx/barstrat/types"
)

const NameOscillatorReversion = "oscillator_reversion"

type OscillatorReversionParams struct {
	RSIOversold   float64 `mapstructure:"rsi_oversold"`
	RSIOverbought float64 `mapstructure:"rsi_overbought"`
	MFIOversold   float64 `mapstructure:"mfi_oversold"`
	MFIOverbought float64 `mapstructure:"mfi_overbought"`
	// Warmup is the number of candles fed to the suite before trading.
	Warmup int `mapstructure:"warmup"`
}

func DefaultOscillatorReversionParams() OscillatorReversionParams {
	return OscillatorReversionParams{
		RSIOversold:   30,
		RSIOverbought: 70,
		MFIOversold:   20,
		MFIOverbought: 80,
		Warmup:        15,
	}
}

// OscillatorReversion buys when both RSI and MFI are oversold and the HMA
// turns up, and sells the mirror. Indicators come from the goti suite.
type OscillatorReversion struct {
	*BaseStrategy
	p        OscillatorReversionParams
	newSuite func() (*goti.IndicatorSuite, error)
	suite    *goti.IndicatorSuite
}

func NewOscillatorReversion(symbol string, cfg config.StrategyConfig, p OscillatorReversionParams,
	exec executor.Executor, log logger.Logger) (*OscillatorReversion, error) {

	if p.RSIOversold >= p.RSIOverbought || p.MFIOversold >= p.MFIOverbought {
		return nil, errors.New("oversold thresholds must be below overbought")
	}
	if p.Warmup < 1 {
		return nil, errors.New("warmup must be positive")
	}
	suiteFactory := func() (*goti.IndicatorSuite, error) {
		ic := goti.DefaultConfig()
		ic.RSIOverbought = p.RSIOverbought
		ic.RSIOversold = p.RSIOversold
		ic.MFIOverbought = p.MFIOverbought
		ic.MFIOversold = p.MFIOversold
		return goti.NewIndicatorSuiteWithConfig(ic)
	}
	suite, err := suiteFactory()
	if err != nil {
		return nil, err
	}
	base, err := NewBaseStrategy(NameOscillatorReversion, symbol, cfg, exec, log)
	if err != nil {
		return nil, err
	}
	return &OscillatorReversion{BaseStrategy: base, p: p, newSuite: suiteFactory, suite: suite}, nil
}

func (s *OscillatorReversion) Reset() {
	s.BaseStrategy.Reset()
	suite, err := s.newSuite()
	if err != nil {
		s.Log.Error("suite_reset_error", logger.String("strategy", s.Name()), logger.Err(err))
		return
	}
	s.suite = suite
}

func (s *OscillatorReversion) ProcessCandle(c types.Candle) {
	if !s.accept(c) {
		return
	}
	if err := s.suite.Add(c.High, c.Low, c.Close, c.Volume); err != nil {
		s.Log.Warn("suite_add_error", logger.String("strategy", s.Name()), logger.Err(err))
		return
	}
	s.manageProtection(c)
	if s.Series.Len() < s.p.Warmup {
		return
	}

	rsi, err := s.suite.GetRSI().Calculate()
	if err != nil {
		return
	}
	mfi, err := s.suite.GetMFI().Calculate()
	if err != nil {
		return
	}
	hBull, _ := s.suite.GetHMA().IsBullishCrossover()
	hBear, _ := s.suite.GetHMA().IsBearishCrossover()

	if side, ok := oscillatorSignal(s.p, rsi, mfi, hBull, hBear); ok {
		s.follow(side, c.Close, "osc")
	}
}

func oscillatorSignal(p OscillatorReversionParams, rsi, mfi float64, hmaBull, hmaBear bool) (types.Side, bool) {
	switch {
	case hmaBull && rsi <= p.RSIOversold && mfi <= p.MFIOversold:
		return types.Buy, true
	case hmaBear && rsi >= p.RSIOverbought && mfi >= p.MFIOverbought:
		return types.Sell, true
	}
	return "", false
}
