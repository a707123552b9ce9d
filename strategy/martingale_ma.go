package strategy

import (
	"errors"

	"github.com/evdnx/barstrat/config"
	"github.com/evdnx/barstrat/executor"
	"github.com/evdnx/barstrat/indicator"
	"github.com/evdnx/barstrat/logger"
	"github.com/evdnx/barstrat/risk"
	"github.com/evdnx/barstrat/types"
)

const NameMartingaleMA = "martingale_ma"

type MartingaleMAParams struct {
	EMAPeriod  int     `mapstructure:"ema_period"`
	BaseVolume float64 `mapstructure:"base_volume"`
	Multiplier float64 `mapstructure:"multiplier"`
	MaxSteps   int     `mapstructure:"max_steps"`
}

func DefaultMartingaleMAParams() MartingaleMAParams {
	return MartingaleMAParams{EMAPeriod: 20, BaseVolume: 1, Multiplier: 2, MaxSteps: 4}
}

// MartingaleMA enters in the direction of the EMA slope whenever it is flat
// and leaves only through the configured stop and target. After a losing
// trade the next entry is Multiplier times larger, after a win it returns
// to BaseVolume.
type MartingaleMA struct {
	*BaseStrategy
	p    MartingaleMAParams
	mart *risk.Martingale

	inTrade      bool
	realizedMark float64
}

func NewMartingaleMA(symbol string, cfg config.StrategyConfig, p MartingaleMAParams,
	exec executor.Executor, log logger.Logger) (*MartingaleMA, error) {

	if p.EMAPeriod < 1 {
		return nil, errors.New("EMA period must be positive")
	}
	if cfg.StopLossPct == 0 && cfg.StopLossPoints == 0 {
		return nil, errors.New("martingale needs a stop loss")
	}
	if cfg.TakeProfitPct == 0 && cfg.TakeProfitPoints == 0 {
		return nil, errors.New("martingale needs a take profit")
	}
	mart, err := risk.NewMartingale(p.BaseVolume, p.Multiplier, p.MaxSteps)
	if err != nil {
		return nil, err
	}
	base, err := NewBaseStrategy(NameMartingaleMA, symbol, cfg, exec, log)
	if err != nil {
		return nil, err
	}
	return &MartingaleMA{BaseStrategy: base, p: p, mart: mart}, nil
}

func (s *MartingaleMA) Reset() {
	s.BaseStrategy.Reset()
	s.mart.Reset()
	s.inTrade, s.realizedMark = false, 0
}

// Step exposes the current martingale step.
func (s *MartingaleMA) Step() int { return s.mart.Step() }

func (s *MartingaleMA) ProcessCandle(c types.Candle) {
	if !s.accept(c) {
		return
	}
	s.manageProtection(c)

	if s.inTrade && s.position() == 0 {
		pnl := s.Exec.Realized(s.Symbol()) - s.realizedMark
		s.mart.Record(pnl)
		s.inTrade = false
		s.Log.Info("martingale_trade_closed",
			logger.String("strategy", s.Name()),
			logger.Float64("pnl", pnl),
			logger.Int("step", s.mart.Step()),
		)
	}
	if s.position() != 0 {
		return
	}

	ema, ok := indicator.EMA(s.Series.Closes(), s.p.EMAPeriod)
	if !ok || ema.Cur == ema.Prev {
		return
	}
	side := types.Sell
	if ema.Rising() {
		side = types.Buy
	}
	qty := risk.RoundQty(s.mart.Volume(), s.Cfg)
	s.realizedMark = s.Exec.Realized(s.Symbol())
	if s.enterQty(side, qty, c.Close, "mart_"+label(side)) {
		s.inTrade = true
	}
}
