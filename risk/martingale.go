package risk

import (
	"errors"
	"math"
)

// Martingale multiplies the entry size after every losing trade and returns
// to the base size after a win.
type Martingale struct {
	Base       float64
	Multiplier float64
	MaxSteps   int
	step       int
}

func NewMartingale(base, multiplier float64, maxSteps int) (*Martingale, error) {
	if base <= 0 {
		return nil, errors.New("martingale base volume must be positive")
	}
	if multiplier < 1 {
		return nil, errors.New("martingale multiplier must be >= 1")
	}
	if maxSteps < 0 {
		return nil, errors.New("martingale max steps cannot be negative")
	}
	return &Martingale{Base: base, Multiplier: multiplier, MaxSteps: maxSteps}, nil
}

// Volume is the size of the next entry.
func (m *Martingale) Volume() float64 {
	return m.Base * math.Pow(m.Multiplier, float64(m.step))
}

// Step reports how many consecutive losses are currently compounded.
func (m *Martingale) Step() int { return m.step }

// Record feeds the realized result of a closed trade.
func (m *Martingale) Record(pnl float64) {
	if pnl < 0 {
		if m.step < m.MaxSteps {
			m.step++
		}
		return
	}
	m.step = 0
}

func (m *Martingale) Reset() { m.step = 0 }
