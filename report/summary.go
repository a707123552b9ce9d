// Package report turns the fills of a run into statistics and an HTML
// chart.
package report

import (
	"math"

	"github.com/evdnx/barstrat/types"
)

// Summary describes the closed trades of a run. Open positions are not
// counted.
type Summary struct {
	Trades       int
	Wins         int
	Losses       int
	WinRate      float64 // 0..1
	NetPnL       float64
	GrossProfit  float64
	GrossLoss    float64 // positive number
	ProfitFactor float64 // +Inf when nothing was lost
	MaxDrawdown  float64 // peak to trough on realized equity, price units
	// MaxDrawdownPct is MaxDrawdown relative to the peak it started from.
	MaxDrawdownPct float64
	FinalEquity    float64
}

// Summarize walks the fills in order. Every fill that reduced a position
// counts as one trade with the PnL it booked.
func Summarize(fills []types.Fill, startEquity float64) Summary {
	s := Summary{FinalEquity: startEquity}
	peak := startEquity
	for _, f := range fills {
		if !f.Closing {
			continue
		}
		s.Trades++
		switch {
		case f.PnL > 0:
			s.Wins++
			s.GrossProfit += f.PnL
		case f.PnL < 0:
			s.Losses++
			s.GrossLoss -= f.PnL
		}
		s.FinalEquity += f.PnL
		peak = math.Max(peak, s.FinalEquity)
		if dd := peak - s.FinalEquity; dd > s.MaxDrawdown {
			s.MaxDrawdown = dd
			if peak > 0 {
				s.MaxDrawdownPct = dd / peak
			}
		}
	}
	s.NetPnL = s.GrossProfit - s.GrossLoss
	if s.Trades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Trades)
	}
	switch {
	case s.GrossLoss > 0:
		s.ProfitFactor = s.GrossProfit / s.GrossLoss
	case s.GrossProfit > 0:
		s.ProfitFactor = math.Inf(1)
	}
	return s
}

// EquityCurve is the realized equity after each closing fill, starting
// with startEquity.
func EquityCurve(fills []types.Fill, startEquity float64) []float64 {
	out := []float64{startEquity}
	eq := startEquity
	for _, f := range fills {
		if f.Closing {
			eq += f.PnL
			out = append(out, eq)
		}
	}
	return out
}
