package strategy

import (
	"github.com/evdnx/barstrat/config"
	"github.com/evdnx/barstrat/executor"
	"github.com/evdnx/barstrat/indicator"
	"github.com/evdnx/barstrat/logger"
	"github.com/evdnx/barstrat/types"
)

const NameZadChannel = "xang_zad_c"

type ZadChannelParams struct {
	Ki     float64 `mapstructure:"ki"`
	Length int     `mapstructure:"length"`
}

func DefaultZadChannelParams() ZadChannelParams {
	return ZadChannelParams{Ki: 4, Length: 5}
}

// ZadChannelBreakout goes long when the close crosses above the smoothed Up
// line and short when it crosses below the smoothed Dn line. The opposite
// line trails the stop.
type ZadChannelBreakout struct {
	*BaseStrategy
	p   ZadChannelParams
	zad *indicator.ZadChannel
}

func NewZadChannelBreakout(symbol string, cfg config.StrategyConfig, p ZadChannelParams,
	exec executor.Executor, log logger.Logger) (*ZadChannelBreakout, error) {

	zad, err := indicator.NewZadChannel(p.Ki, p.Length)
	if err != nil {
		return nil, err
	}
	base, err := NewBaseStrategy(NameZadChannel, symbol, cfg, exec, log)
	if err != nil {
		return nil, err
	}
	return &ZadChannelBreakout{BaseStrategy: base, p: p, zad: zad}, nil
}

func (s *ZadChannelBreakout) Reset() {
	s.BaseStrategy.Reset()
	s.zad.Reset()
}

func (s *ZadChannelBreakout) ProcessCandle(c types.Candle) {
	if !s.accept(c) {
		return
	}
	s.manageProtection(c)

	up, dn, ok := s.zad.Update(c.Close)
	if !ok {
		return
	}
	prevClose := s.Series.Prev()
	switch {
	case prevClose <= up.Prev && c.Close > up.Cur:
		s.follow(types.Buy, c.Close, "zad")
	case prevClose >= dn.Prev && c.Close < dn.Cur:
		s.follow(types.Sell, c.Close, "zad")
	}

	if prot := s.Protection(); prot != nil {
		if prot.Side == types.Buy {
			prot.SetStop(dn.Cur)
		} else {
			prot.SetStop(up.Cur)
		}
	}
}
