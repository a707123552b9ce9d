// Command backtest replays a CSV file of candles through one strategy on
// the paper executor and prints a trade summary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/evdnx/barstrat/config"
	"github.com/evdnx/barstrat/engine"
	"github.com/evdnx/barstrat/executor"
	"github.com/evdnx/barstrat/feed"
	"github.com/evdnx/barstrat/logger"
	"github.com/evdnx/barstrat/metrics"
	"github.com/evdnx/barstrat/report"
	"github.com/evdnx/barstrat/strategy"
	"github.com/evdnx/barstrat/types"
)

func main() {
	os.Exit(runMain(os.Args[1:]))
}

// runMain returns the process exit code. Deferred cleanup, the logger flush
// included, has run by the time it returns.
func runMain(args []string) int {
	fs := flag.NewFlagSet("backtest", flag.ContinueOnError)
	var cfgPath = fs.String("config", "",
		"Path to the run config (yaml, json or toml). Defaults to ./barstrat.yaml")
	var dataFile = fs.String("data", "",
		"CSV file with time,open,high,low,close[,volume] rows, overrides data_file")
	var strategyName = fs.String("strategy", "",
		"Strategy to run, overrides strategy. Known: "+strings.Join(strategy.Names(), ", "))
	var reportFile = fs.String("report", "",
		"Write an HTML chart of the run to this file, overrides report_file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	_ = godotenv.Load(".env")

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Printf("can't load config: %v", err)
		return 1
	}
	if *dataFile != "" {
		cfg.DataFile = *dataFile
	}
	if *strategyName != "" {
		cfg.Strategy = *strategyName
	}
	if *reportFile != "" {
		cfg.ReportFile = *reportFile
	}

	lg, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
		Console:    cfg.Log.Console,
	})
	if err != nil {
		log.Printf("can't build logger: %v", err)
		return 1
	}
	if s, ok := lg.(interface{ Sync() error }); ok {
		defer s.Sync()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Error("backtest_failed", logger.Err(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.RunConfig, lg logger.Logger) (err error) {
	if cfg.DataFile == "" {
		return errors.New("no data file given")
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				lg.Warn("metrics_server_stopped", logger.Err(err))
			}
		}()
		defer srv.Close()
		lg.Info("metrics_listening", logger.String("addr", cfg.MetricsAddr))
	}

	exec := executor.NewPaperExecutor(cfg.StartEquity, executor.WithLogger(lg))
	strat, err := strategy.New(cfg.Strategy, cfg.Symbol, cfg.Risk, cfg.Params, exec, lg)
	if err != nil {
		return err
	}

	src, err := feed.OpenCSV(cfg.DataFile, cfg.Symbol)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, src.Close()) }()
	rec := feed.NewRecorder(src)

	runner := engine.New(exec, lg)
	if err := runner.Subscribe(strat, cfg.Timeframe); err != nil {
		return err
	}
	stats, runErr := runner.Run(ctx, rec)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	fills := exec.Fills()
	sum := report.Summarize(fills, exec.StartEquity())
	lg.Info("backtest_summary",
		logger.String("strategy", strat.Name()),
		logger.String("symbol", cfg.Symbol),
		logger.Int("candles", stats.Candles),
		logger.Int("trades", sum.Trades),
		logger.Float64("win_rate", sum.WinRate),
		logger.Float64("net_pnl", sum.NetPnL),
		logger.Float64("profit_factor", sum.ProfitFactor),
		logger.Float64("max_drawdown", sum.MaxDrawdown),
		logger.Float64("final_equity", exec.Equity()),
	)
	fmt.Printf("%s %s: %d trades, win rate %.1f%%, net %.2f, max drawdown %.2f (%.1f%%)\n",
		strat.Name(), cfg.Symbol, sum.Trades, sum.WinRate*100, sum.NetPnL,
		sum.MaxDrawdown, sum.MaxDrawdownPct*100)

	if cfg.ReportFile != "" {
		if err := writeChart(cfg.ReportFile, strat.Name()+" "+cfg.Symbol, rec, fills, exec.StartEquity()); err != nil {
			return err
		}
		lg.Info("report_written", logger.String("file", cfg.ReportFile))
	}
	if runErr != nil {
		lg.Warn("run_cancelled", logger.Int("candles", stats.Candles))
	}
	return nil
}

func writeChart(path, title string, rec *feed.Recorder, fills []types.Fill, start float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	return report.RenderChart(f, title, rec.Candles(), fills, start)
}
