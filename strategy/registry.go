package strategy

import (
	"fmt"
	"sort"

	"github.com/evdnx/barstrat/config"
	"github.com/evdnx/barstrat/executor"
	"github.com/evdnx/barstrat/logger"
)

// Constructor builds a strategy from a raw parameter block as found in the
// run config. Missing keys keep the strategy's defaults.
type Constructor func(symbol string, cfg config.StrategyConfig, raw map[string]interface{},
	exec executor.Executor, log logger.Logger) (Strategy, error)

var registry = map[string]Constructor{}

func register[P any, S Strategy](name string, defaults func() P,
	ctor func(string, config.StrategyConfig, P, executor.Executor, logger.Logger) (S, error)) {

	registry[name] = func(symbol string, cfg config.StrategyConfig, raw map[string]interface{},
		exec executor.Executor, log logger.Logger) (Strategy, error) {

		p := defaults()
		if err := config.DecodeParams(raw, &p); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		s, err := ctor(symbol, cfg, p, exec, log)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return s, nil
	}
}

func init() {
	register(NameMACross, DefaultMACrossParams, NewMACrossMomentum)
	register(NameMACDSignal, DefaultMACDSignalParams, NewMACDSignal)
	register(NameStochastic, DefaultStochasticParams, NewStochasticCross)
	register(NameParabolicSAR, DefaultParabolicSARParams, NewParabolicSAR)
	register(NameBollinger, DefaultBollingerParams, NewBollingerReversion)
	register(NameATRBreakout, DefaultATRBreakoutParams, NewATRBreakout)
	register(NameHeikenAshiAMA, DefaultHeikenAshiAMAParams, NewHeikenAshiAMA)
	register(NameZadChannel, DefaultZadChannelParams, NewZadChannelBreakout)
	register(NameFractalBreakout, DefaultFractalBreakoutParams, NewFractalBreakout)
	register(NameMartingaleMA, DefaultMartingaleMAParams, NewMartingaleMA)
	register(NameSessionBreakout, DefaultSessionBreakoutParams, NewSessionBreakout)
	register(NameOscillatorReversion, DefaultOscillatorReversionParams, NewOscillatorReversion)
	register(NameADXTrend, DefaultADXTrendParams, NewADXTrend)
	register(NameCCIReversal, DefaultCCIReversalParams, NewCCIReversal)
}

// New looks the strategy up by name and builds it.
func New(name, symbol string, cfg config.StrategyConfig, raw map[string]interface{},
	exec executor.Executor, log logger.Logger) (Strategy, error) {

	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (known: %v)", name, Names())
	}
	return ctor(symbol, cfg, raw, exec, log)
}

// Names lists the registered strategies in alphabetical order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
