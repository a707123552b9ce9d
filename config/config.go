package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// StrategyConfig holds the risk and sizing parameters shared by every
// strategy. Strategy specific knobs live in each strategy's own params
// struct.
type StrategyConfig struct {
	// Volume is a fixed order size. When 0 the size is derived from
	// MaxRiskPerTrade and the stop distance.
	Volume float64 `mapstructure:"volume"`

	// Risk parameters
	MaxRiskPerTrade float64 `mapstructure:"max_risk_per_trade"` // e.g. 0.01 = 1 % of equity
	StopLossPct     float64 `mapstructure:"stop_loss_pct"`      // e.g. 0.015 = 1.5 %
	TakeProfitPct   float64 `mapstructure:"take_profit_pct"`    // e.g. 0.03  = 3 %, 0 = disabled
	TrailingPct     float64 `mapstructure:"trailing_pct"`       // optional, 0 = disabled

	// Point based protection. A point is PriceStep; when a points value is
	// set it wins over the matching percentage.
	PriceStep             float64 `mapstructure:"price_step"`
	StopLossPoints        float64 `mapstructure:"stop_loss_points"`
	TakeProfitPoints      float64 `mapstructure:"take_profit_points"`
	TrailingStopPoints    float64 `mapstructure:"trailing_stop_points"`
	TrailingStepPoints    float64 `mapstructure:"trailing_step_points"`
	BreakEvenPoints       float64 `mapstructure:"break_even_points"`
	BreakEvenOffsetPoints float64 `mapstructure:"break_even_offset_points"`

	// QuantityPrecision defines the number of decimal places to round to
	// (e.g. 2 for crypto/futures, 0 for equities).
	QuantityPrecision int `mapstructure:"quantity_precision"`

	// Minimum order size accepted by the broker (e.g. 0.001 BTC).
	MinQty float64 `mapstructure:"min_qty"`

	// StepSize – the increment allowed by the exchange (e.g. 0.0001).
	StepSize float64 `mapstructure:"step_size"`
}

// Default returns a config that passes Validate: 1 % risk per trade,
// 1.5 % stop, no take-profit and no trailing.
func Default() StrategyConfig {
	return StrategyConfig{
		MaxRiskPerTrade:   0.01,
		StopLossPct:       0.015,
		PriceStep:         0.01,
		QuantityPrecision: 2,
		MinQty:            0.001,
		StepSize:          0.0001,
	}
}

// Validate checks that all numeric fields are within sensible bounds.
// Every problem is reported, so a broken config file can be fixed in one
// pass before any trading starts.
func (c *StrategyConfig) Validate() error {
	var err error
	if c.Volume < 0 {
		err = multierr.Append(err, fmt.Errorf("Volume (%f) cannot be negative", c.Volume))
	}
	if c.Volume == 0 && (c.MaxRiskPerTrade <= 0 || c.MaxRiskPerTrade > 0.5) {
		err = multierr.Append(err, fmt.Errorf("MaxRiskPerTrade (%f) must be >0 and <=0.5", c.MaxRiskPerTrade))
	}
	if c.StopLossPct < 0 || c.StopLossPct > 0.2 {
		err = multierr.Append(err, fmt.Errorf("StopLossPct (%f) must be >=0 and <=0.2", c.StopLossPct))
	}
	if c.Volume == 0 && c.StopLossPct == 0 && c.StopLossPoints == 0 {
		err = multierr.Append(err, errors.New("risk sizing needs StopLossPct or StopLossPoints"))
	}
	if c.TakeProfitPct < 0 || c.TakeProfitPct > 5 {
		err = multierr.Append(err, fmt.Errorf("TakeProfitPct (%f) out of realistic range", c.TakeProfitPct))
	}
	if c.TrailingPct < 0 || c.TrailingPct > 1 {
		err = multierr.Append(err, fmt.Errorf("TrailingPct (%f) must be between 0 and 1", c.TrailingPct))
	}
	if c.PriceStep <= 0 {
		err = multierr.Append(err, errors.New("PriceStep must be positive"))
	}
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"StopLossPoints", c.StopLossPoints},
		{"TakeProfitPoints", c.TakeProfitPoints},
		{"TrailingStopPoints", c.TrailingStopPoints},
		{"TrailingStepPoints", c.TrailingStepPoints},
		{"BreakEvenPoints", c.BreakEvenPoints},
		{"BreakEvenOffsetPoints", c.BreakEvenOffsetPoints},
	} {
		if p.v < 0 {
			err = multierr.Append(err, fmt.Errorf("%s (%f) cannot be negative", p.name, p.v))
		}
	}
	if c.TrailingStepPoints > 0 && c.TrailingStopPoints == 0 {
		err = multierr.Append(err, errors.New("TrailingStepPoints requires TrailingStopPoints"))
	}
	if c.BreakEvenOffsetPoints > 0 && c.BreakEvenOffsetPoints >= c.BreakEvenPoints {
		err = multierr.Append(err, errors.New("BreakEvenOffsetPoints must be below BreakEvenPoints"))
	}
	if c.QuantityPrecision < 0 {
		err = multierr.Append(err, errors.New("QuantityPrecision cannot be negative"))
	}
	if c.MinQty < 0 {
		err = multierr.Append(err, errors.New("MinQty cannot be negative"))
	}
	if c.StepSize <= 0 {
		err = multierr.Append(err, errors.New("StepSize must be positive"))
	}
	return err
}

// Points converts a distance in points to a price distance.
func (c *StrategyConfig) Points(n float64) float64 {
	return n * c.PriceStep
}
