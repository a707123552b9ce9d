package strategy

import (
	"errors"

	"github.com/evdnx/barstrat/config"
	"github.com/evdnx/barstrat/executor"
	"github.com/evdnx/barstrat/indicator"
	"github.com/evdnx/barstrat/logger"
	"github.com/evdnx/barstrat/types"
)

const NameFractalBreakout = "fractal_breakout"

type FractalBreakoutParams struct {
	// IndentPoints offsets the stop orders beyond the fractal, in price steps.
	IndentPoints float64 `mapstructure:"indent_points"`
}

func DefaultFractalBreakoutParams() FractalBreakoutParams {
	return FractalBreakoutParams{IndentPoints: 10}
}

// bracket tracks a pair of opposite stop entries. When one side fills the
// other is cancelled. Both legs carry the same quantity so a bar that
// triggers both of them nets out flat.
type bracket struct {
	buyID, sellID       string
	buyLevel, sellLevel float64
	qty                 float64
}

// size returns the quantity shared by both legs. It is fixed by the first
// leg placed and kept while any leg is live.
func (b *bracket) size(s *BaseStrategy, level float64) float64 {
	if b.qty > 0 && (b.buyID != "" || b.sellID != "") {
		return b.qty
	}
	b.qty = s.orderQty(level, 0)
	return b.qty
}

// onFill cancels the stop that is left over once a position exists.
func (b *bracket) onFill(s *BaseStrategy, pos float64) {
	switch {
	case pos > 0:
		_ = s.cancelOrder(b.sellID)
		*b = bracket{}
	case pos < 0:
		_ = s.cancelOrder(b.buyID)
		*b = bracket{}
	}
}

// prune forgets legs that are no longer pending. Called while flat it
// catches a bar that filled both legs. Levels are kept so an unchanged
// level is not placed again.
func (b *bracket) prune(s *BaseStrategy) {
	if b.buyID == "" && b.sellID == "" {
		return
	}
	live := make(map[string]bool)
	for _, o := range s.Exec.Pending(s.symbol) {
		live[o.ID] = true
	}
	if b.buyID != "" && !live[b.buyID] && b.sellID != "" && !live[b.sellID] {
		s.Log.Info("bracket_both_filled", logger.String("strategy", s.name))
	}
	if !live[b.buyID] {
		b.buyID = ""
	}
	if !live[b.sellID] {
		b.sellID = ""
	}
}

func (b *bracket) cancel(s *BaseStrategy) {
	_ = s.cancelOrder(b.buyID)
	_ = s.cancelOrder(b.sellID)
	*b = bracket{}
}

// FractalBreakout keeps a buy stop above the latest up fractal and a sell
// stop below the latest down fractal while flat.
type FractalBreakout struct {
	*BaseStrategy
	p   FractalBreakoutParams
	brk bracket
}

func NewFractalBreakout(symbol string, cfg config.StrategyConfig, p FractalBreakoutParams,
	exec executor.Executor, log logger.Logger) (*FractalBreakout, error) {

	if p.IndentPoints < 0 {
		return nil, errors.New("indent cannot be negative")
	}
	base, err := NewBaseStrategy(NameFractalBreakout, symbol, cfg, exec, log)
	if err != nil {
		return nil, err
	}
	return &FractalBreakout{BaseStrategy: base, p: p}, nil
}

func (s *FractalBreakout) Reset() {
	s.BaseStrategy.Reset()
	s.brk = bracket{}
}

func (s *FractalBreakout) ProcessCandle(c types.Candle) {
	if !s.accept(c) {
		return
	}
	if pos := s.position(); pos != 0 {
		s.brk.onFill(s.BaseStrategy, pos)
		s.manageProtection(c)
		return
	}
	s.syncPosition()
	s.brk.prune(s.BaseStrategy)

	up, down, upOK, downOK := indicator.LastFractals(s.Series.Highs(), s.Series.Lows())
	indent := s.Cfg.Points(s.p.IndentPoints)

	if upOK {
		level := up + indent
		if level != s.brk.buyLevel && level > c.Close {
			_ = s.cancelOrder(s.brk.buyID)
			s.brk.buyID, s.brk.buyLevel = "", 0
			if qty := s.brk.size(s.BaseStrategy, level); qty > 0 {
				if id, err := s.buyStop(qty, level, "frac_buy_stop"); err == nil {
					s.brk.buyID, s.brk.buyLevel = id, level
				}
			}
		}
	}
	if downOK {
		level := down - indent
		if level != s.brk.sellLevel && level < c.Close && level > 0 {
			_ = s.cancelOrder(s.brk.sellID)
			s.brk.sellID, s.brk.sellLevel = "", 0
			if qty := s.brk.size(s.BaseStrategy, level); qty > 0 {
				if id, err := s.sellStop(qty, level, "frac_sell_stop"); err == nil {
					s.brk.sellID, s.brk.sellLevel = id, level
				}
			}
		}
	}
}
