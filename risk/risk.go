package risk

import (
	"math"

	"github.com/evdnx/barstrat/config"
)

// CalcQty sizes a position so that hitting a stop placed stopLossPct away
// from price loses at most equity*maxRisk.
func CalcQty(equity, maxRisk, stopLossPct, price float64, cfg config.StrategyConfig) float64 {
	return QtyForStop(equity, maxRisk, price*stopLossPct, cfg)
}

// QtyForStop is CalcQty for an absolute stop distance.
func QtyForStop(equity, maxRisk, stopDist float64, cfg config.StrategyConfig) float64 {
	if stopDist <= 0 || math.IsNaN(stopDist) || equity <= 0 {
		return 0
	}
	// Dollar risk per trade
	riskAmt := equity * maxRisk
	return RoundQty(riskAmt/stopDist, cfg)
}

// RoundQty floors qty to the exchange step, rounds to QuantityPrecision and
// returns 0 when the result is below MinQty.
func RoundQty(qty float64, cfg config.StrategyConfig) float64 {
	if qty <= 0 || math.IsNaN(qty) || math.IsInf(qty, 0) {
		return 0
	}
	if cfg.StepSize > 0 {
		qty = math.Floor(qty/cfg.StepSize+1e-9) * cfg.StepSize
	}
	p := math.Pow(10, float64(cfg.QuantityPrecision))
	qty = math.Floor(qty*p+1e-9) / p
	if qty < cfg.MinQty || qty <= 0 {
		return 0
	}
	return qty
}

// Distances are protective offsets in price units; 0 disables a level.
type Distances struct {
	Stop            float64
	Take            float64
	Trail           float64
	TrailStep       float64
	BreakEven       float64
	BreakEvenOffset float64
}

// Levels resolves the configured protection for a position entered at entry.
// Points (times PriceStep) take precedence over percentages of entry.
func Levels(cfg config.StrategyConfig, entry float64) Distances {
	pick := func(points, pct float64) float64 {
		if points > 0 {
			return cfg.Points(points)
		}
		return entry * pct
	}
	return Distances{
		Stop:            pick(cfg.StopLossPoints, cfg.StopLossPct),
		Take:            pick(cfg.TakeProfitPoints, cfg.TakeProfitPct),
		Trail:           pick(cfg.TrailingStopPoints, cfg.TrailingPct),
		TrailStep:       cfg.Points(cfg.TrailingStepPoints),
		BreakEven:       cfg.Points(cfg.BreakEvenPoints),
		BreakEvenOffset: cfg.Points(cfg.BreakEvenOffsetPoints),
	}
}
