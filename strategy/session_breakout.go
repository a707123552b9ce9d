package strategy

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/multierr"

	"github.com/evdnx/barstrat/config"
	"github.com/evdnx/barstrat/executor"
	"github.com/evdnx/barstrat/logger"
	"github.com/evdnx/barstrat/types"
)

const NameSessionBreakout = "session_breakout"

// SessionBreakoutParams use UTC hours of the candle open time.
type SessionBreakoutParams struct {
	StartHour    int     `mapstructure:"start_hour"`
	EndHour      int     `mapstructure:"end_hour"`
	CloseHour    int     `mapstructure:"close_hour"`
	IndentPoints float64 `mapstructure:"indent_points"`
}

func DefaultSessionBreakoutParams() SessionBreakoutParams {
	return SessionBreakoutParams{StartHour: 0, EndHour: 8, CloseHour: 22, IndentPoints: 10}
}

func (p SessionBreakoutParams) Validate() error {
	var err error
	for _, h := range []struct {
		name string
		v    int
	}{{"start_hour", p.StartHour}, {"end_hour", p.EndHour}, {"close_hour", p.CloseHour}} {
		if h.v < 0 || h.v > 23 {
			err = multierr.Append(err, fmt.Errorf("%s (%d) must be within 0..23", h.name, h.v))
		}
	}
	if p.StartHour >= p.EndHour {
		err = multierr.Append(err, fmt.Errorf("start_hour (%d) must be before end_hour (%d)", p.StartHour, p.EndHour))
	}
	if p.CloseHour <= p.EndHour {
		err = multierr.Append(err, fmt.Errorf("close_hour (%d) must be after end_hour (%d)", p.CloseHour, p.EndHour))
	}
	if p.IndentPoints < 0 {
		err = multierr.Append(err, fmt.Errorf("indent_points (%f) cannot be negative", p.IndentPoints))
	}
	return err
}

// SessionBreakout records the high and low of the [StartHour, EndHour)
// window, then brackets that range with stop entries once per day. Anything
// still open or pending at CloseHour is flattened.
type SessionBreakout struct {
	*BaseStrategy
	p SessionBreakoutParams

	day       time.Time
	high, low float64
	placed    bool
	brk       bracket
}

func NewSessionBreakout(symbol string, cfg config.StrategyConfig, p SessionBreakoutParams,
	exec executor.Executor, log logger.Logger) (*SessionBreakout, error) {

	if err := p.Validate(); err != nil {
		return nil, err
	}
	base, err := NewBaseStrategy(NameSessionBreakout, symbol, cfg, exec, log)
	if err != nil {
		return nil, err
	}
	return &SessionBreakout{BaseStrategy: base, p: p}, nil
}

func (s *SessionBreakout) Reset() {
	s.BaseStrategy.Reset()
	s.newDay(time.Time{})
	s.brk = bracket{}
}

func (s *SessionBreakout) newDay(day time.Time) {
	s.day = day
	s.high, s.low = 0, math.Inf(1)
	s.placed = false
}

// Range returns the session high and low collected so far today.
func (s *SessionBreakout) Range() (high, low float64, ok bool) {
	return s.high, s.low, s.high > 0 && !math.IsInf(s.low, 1)
}

func (s *SessionBreakout) ProcessCandle(c types.Candle) {
	if !s.accept(c) {
		return
	}
	t := c.Time.UTC()
	if day := t.Truncate(24 * time.Hour); !day.Equal(s.day) {
		// stops left from a day that never reached CloseHour
		s.brk.cancel(s.BaseStrategy)
		s.cancelPending()
		s.newDay(day)
	}
	hour := t.Hour()

	if pos := s.position(); pos != 0 {
		s.brk.onFill(s.BaseStrategy, pos)
	} else {
		s.brk.prune(s.BaseStrategy)
	}
	if hour >= s.p.CloseHour {
		s.brk.cancel(s.BaseStrategy)
		s.cancelPending()
		s.closePosition(c.Close, "sess_close")
		s.syncPosition()
		return
	}
	s.manageProtection(c)

	if hour >= s.p.StartHour && hour < s.p.EndHour {
		s.high = math.Max(s.high, c.High)
		s.low = math.Min(s.low, c.Low)
		return
	}
	high, low, ok := s.Range()
	if hour < s.p.EndHour || s.placed || !ok || s.position() != 0 {
		return
	}
	s.placed = true
	indent := s.Cfg.Points(s.p.IndentPoints)
	buyLevel, sellLevel := high+indent, low-indent
	if qty := s.brk.size(s.BaseStrategy, buyLevel); qty > 0 {
		if id, err := s.buyStop(qty, buyLevel, "sess_buy_stop"); err == nil {
			s.brk.buyID, s.brk.buyLevel = id, buyLevel
		}
	}
	if sellLevel > 0 {
		if qty := s.brk.size(s.BaseStrategy, sellLevel); qty > 0 {
			if id, err := s.sellStop(qty, sellLevel, "sess_sell_stop"); err == nil {
				s.brk.sellID, s.brk.sellLevel = id, sellLevel
			}
		}
	}
	s.Log.Info("session_range",
		logger.String("strategy", s.Name()),
		logger.Float64("high", high),
		logger.Float64("low", low),
	)
}
