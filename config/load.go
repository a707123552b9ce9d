package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// LogConfig selects the log level and optional rotated file output.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
	Console    bool   `mapstructure:"console"`
}

// RunConfig describes one backtest run.
type RunConfig struct {
	Symbol      string                 `mapstructure:"symbol"`
	DataFile    string                 `mapstructure:"data_file"`
	Timeframe   time.Duration          `mapstructure:"timeframe"`
	StartEquity float64                `mapstructure:"start_equity"`
	Strategy    string                 `mapstructure:"strategy"`
	Params      map[string]interface{} `mapstructure:"params"`
	Risk        StrategyConfig         `mapstructure:"risk"`
	Log         LogConfig              `mapstructure:"log"`
	MetricsAddr string                 `mapstructure:"metrics_addr"`
	ReportFile  string                 `mapstructure:"report_file"`
}

// Validate checks the run level settings and the embedded risk config.
func (r *RunConfig) Validate() error {
	var err error
	if r.Symbol == "" {
		err = multierr.Append(err, errors.New("symbol is required"))
	}
	if r.Strategy == "" {
		err = multierr.Append(err, errors.New("strategy is required"))
	}
	if r.StartEquity <= 0 {
		err = multierr.Append(err, fmt.Errorf("start_equity (%f) must be positive", r.StartEquity))
	}
	if r.Timeframe < 0 {
		err = multierr.Append(err, errors.New("timeframe cannot be negative"))
	}
	return multierr.Append(err, r.Risk.Validate())
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("start_equity", 10_000.0)
	v.SetDefault("timeframe", "0s")
	v.SetDefault("risk.max_risk_per_trade", d.MaxRiskPerTrade)
	v.SetDefault("risk.stop_loss_pct", d.StopLossPct)
	v.SetDefault("risk.price_step", d.PriceStep)
	v.SetDefault("risk.quantity_precision", d.QuantityPrecision)
	v.SetDefault("risk.min_qty", d.MinQty)
	v.SetDefault("risk.step_size", d.StepSize)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("log.console", true)
}

// Load reads the run config from path (or ./barstrat.{yaml,json,toml} and
// ./config/ when path is empty). Environment variables prefixed with
// BARSTRAT_ override file values, e.g. BARSTRAT_RISK_VOLUME=2.
func Load(path string) (*RunConfig, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("barstrat")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("BARSTRAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &RunConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DecodeParams copies a raw parameter block onto target, which should be a
// pointer to a params struct already holding its defaults. Keys missing from
// raw keep the default value.
func DecodeParams(raw map[string]interface{}, target interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	v := viper.New()
	if err := v.MergeConfigMap(raw); err != nil {
		return fmt.Errorf("merge params: %w", err)
	}
	if err := v.Unmarshal(target); err != nil {
		return fmt.Errorf("decode params: %w", err)
	}
	return nil
}
