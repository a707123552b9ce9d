package risk

import (
	"github.com/evdnx/barstrat/config"
	"github.com/evdnx/barstrat/types"
)

// Exit reasons reported by Protection.
const (
	ReasonStopLoss   = "stop_loss"
	ReasonTakeProfit = "take_profit"
	ReasonTrailing   = "trailing_stop"
	ReasonBreakEven  = "break_even"
	ReasonIndicator  = "indicator_stop"
)

// Exit describes a protective level that was hit.
type Exit struct {
	Price  float64
	Reason string
}

// Protection tracks the stop / take-profit / trailing state of one open
// position. The zero value protects nothing.
type Protection struct {
	Side  types.Side
	Entry float64
	Stop  float64 // 0 = none
	Take  float64 // 0 = none

	dist       Distances
	stopReason string
	beDone     bool
}

// NewProtection arms the levels configured in cfg around entry.
func NewProtection(cfg config.StrategyConfig, side types.Side, entry float64) *Protection {
	d := Levels(cfg, entry)
	p := &Protection{Side: side, Entry: entry, dist: d, stopReason: ReasonStopLoss}
	s := side.Sign()
	if d.Stop > 0 {
		p.Stop = entry - s*d.Stop
	}
	if d.Take > 0 {
		p.Take = entry + s*d.Take
	}
	return p
}

// Update checks the candle against the levels. The stop wins when both the
// stop and the target fall inside the same bar. Without an exit the
// break-even and trailing rules may tighten the stop using the close.
func (p *Protection) Update(c types.Candle) (Exit, bool) {
	if p == nil || p.Entry == 0 {
		return Exit{}, false
	}
	if p.Side == types.Buy {
		if p.Stop > 0 && c.Low <= p.Stop {
			return Exit{Price: minf(p.Stop, c.Open), Reason: p.stopReason}, true
		}
		if p.Take > 0 && c.High >= p.Take {
			return Exit{Price: maxf(p.Take, c.Open), Reason: ReasonTakeProfit}, true
		}
	} else {
		if p.Stop > 0 && c.High >= p.Stop {
			return Exit{Price: maxf(p.Stop, c.Open), Reason: p.stopReason}, true
		}
		if p.Take > 0 && c.Low <= p.Take {
			return Exit{Price: minf(p.Take, c.Open), Reason: ReasonTakeProfit}, true
		}
	}

	s := p.Side.Sign()
	profit := s * (c.Close - p.Entry)
	if p.dist.BreakEven > 0 && !p.beDone && profit >= p.dist.BreakEven {
		p.beDone = true
		p.tighten(p.Entry+s*p.dist.BreakEvenOffset, ReasonBreakEven)
	}
	if p.dist.Trail > 0 && profit > p.dist.Trail {
		level := c.Close - s*p.dist.Trail
		if p.Stop == 0 || s*(level-p.Stop) > p.dist.TrailStep {
			p.tighten(level, ReasonTrailing)
		}
	}
	return Exit{}, false
}

// Place puts the initial stop at level, loose or not.
func (p *Protection) Place(level float64) {
	if p == nil || level <= 0 {
		return
	}
	p.Stop = level
	p.stopReason = ReasonStopLoss
}

// SetStop moves the stop to an indicator driven level. Moves that would
// loosen the stop are ignored.
func (p *Protection) SetStop(level float64) {
	if p == nil || level <= 0 {
		return
	}
	p.tighten(level, ReasonIndicator)
}

func (p *Protection) tighten(level float64, reason string) {
	if p.Stop != 0 && p.Side.Sign()*(level-p.Stop) <= 0 {
		return
	}
	p.Stop = level
	p.stopReason = reason
}

// Reset clears all state; the position is flat.
func (p *Protection) Reset() {
	*p = Protection{}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
