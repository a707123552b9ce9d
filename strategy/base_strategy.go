package strategy

import (
	"errors"
	"math"

	"github.com/evdnx/barstrat/config"
	"github.com/evdnx/barstrat/executor"
	"github.com/evdnx/barstrat/indicator"
	"github.com/evdnx/barstrat/logger"
	"github.com/evdnx/barstrat/metrics"
	"github.com/evdnx/barstrat/risk"
	"github.com/evdnx/barstrat/types"
)

// BaseStrategy bundles the common dependencies and helpers.
type BaseStrategy struct {
	Exec   executor.Executor
	Log    logger.Logger
	Cfg    config.StrategyConfig
	Series *indicator.Series

	name   string
	symbol string
	prot   *risk.Protection
}

// NewBaseStrategy validates the config. All concrete strategies should call
// this from their own constructors.
func NewBaseStrategy(name, symbol string, cfg config.StrategyConfig,
	exec executor.Executor, log logger.Logger) (*BaseStrategy, error) {

	if exec == nil {
		return nil, errors.New("strategy needs an executor")
	}
	if symbol == "" {
		return nil, errors.New("strategy needs a symbol")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	return &BaseStrategy{
		Exec:   exec,
		Log:    log,
		Cfg:    cfg,
		Series: indicator.NewSeries(indicator.DefaultCapacity),
		name:   name,
		symbol: symbol,
	}, nil
}

func (b *BaseStrategy) Name() string   { return b.name }
func (b *BaseStrategy) Symbol() string { return b.symbol }

// Reset drops candle history and protection state. Orders and positions
// live in the executor and are left alone.
func (b *BaseStrategy) Reset() {
	b.Series.Reset()
	b.prot = nil
}

// Protection exposes the levels guarding the open position, nil when flat.
func (b *BaseStrategy) Protection() *risk.Protection { return b.prot }

// accept filters foreign symbols and broken bars, then records the candle.
func (b *BaseStrategy) accept(c types.Candle) bool {
	if c.Symbol != "" && c.Symbol != b.symbol {
		return false
	}
	if !(c.Close > 0) || math.IsInf(c.Close, 0) || c.High < c.Low {
		b.Log.Warn("bad_candle",
			logger.String("strategy", b.name),
			logger.Time("time", c.Time),
			logger.Float64("close", c.Close),
		)
		return false
	}
	b.Series.Add(c)
	return true
}

func (b *BaseStrategy) position() float64 {
	qty, _ := b.Exec.Position(b.symbol)
	return qty
}

// submitOrder is a thin wrapper that records metrics and logs.
func (b *BaseStrategy) submitOrder(o types.Order, ctx string) (string, error) {
	o.Symbol = b.symbol
	if o.Type == "" {
		o.Type = types.Market
	}
	if o.Comment == "" {
		o.Comment = ctx
	}
	id, err := b.Exec.Submit(o)
	if err != nil {
		b.Log.Error("order_submit_failed",
			logger.String("strategy", b.name),
			logger.String("symbol", o.Symbol),
			logger.String("side", string(o.Side)),
			logger.Float64("qty", o.Qty),
			logger.Err(err),
		)
		return "", err
	}
	b.Log.Info("order_submitted",
		logger.String("strategy", b.name),
		logger.String("id", id),
		logger.String("symbol", o.Symbol),
		logger.String("side", string(o.Side)),
		logger.String("type", string(o.Type)),
		logger.Float64("qty", o.Qty),
		logger.Float64("price", o.Price),
		logger.Float64("stop", o.StopPrice),
		logger.String("ctx", ctx),
	)
	metrics.OrdersSubmitted.WithLabelValues(b.name, string(o.Side), string(o.Type)).Inc()
	metrics.PositionsOpen.WithLabelValues(b.name).Set(b.position())
	return id, nil
}

func (b *BaseStrategy) buyMarket(qty, price float64, ctx string) error {
	_, err := b.submitOrder(types.Order{Side: types.Buy, Qty: qty, Price: price}, ctx)
	return err
}

func (b *BaseStrategy) sellMarket(qty, price float64, ctx string) error {
	_, err := b.submitOrder(types.Order{Side: types.Sell, Qty: qty, Price: price}, ctx)
	return err
}

// buyStop parks a buy order that triggers once the market trades at or
// above level.
func (b *BaseStrategy) buyStop(qty, level float64, ctx string) (string, error) {
	return b.submitOrder(types.Order{Side: types.Buy, Type: types.Stop, Qty: qty, StopPrice: level}, ctx)
}

func (b *BaseStrategy) sellStop(qty, level float64, ctx string) (string, error) {
	return b.submitOrder(types.Order{Side: types.Sell, Type: types.Stop, Qty: qty, StopPrice: level}, ctx)
}

func (b *BaseStrategy) cancelOrder(id string) error {
	if id == "" {
		return nil
	}
	if err := b.Exec.Cancel(id); err != nil {
		b.Log.Debug("order_cancel_failed",
			logger.String("strategy", b.name),
			logger.String("id", id),
			logger.Err(err),
		)
		return err
	}
	b.Log.Info("order_cancelled", logger.String("strategy", b.name), logger.String("id", id))
	metrics.OrdersCancelled.WithLabelValues(b.name).Inc()
	return nil
}

// cancelPending removes every pending order of the symbol.
func (b *BaseStrategy) cancelPending() {
	for _, o := range b.Exec.Pending(b.symbol) {
		_ = b.cancelOrder(o.ID)
	}
}

// closePosition flattens the current position at the supplied price.
func (b *BaseStrategy) closePosition(price float64, ctx string) {
	qty := b.position()
	if qty == 0 {
		return
	}
	side := types.Sell
	if qty < 0 {
		side = types.Buy
	}
	if _, err := b.submitOrder(types.Order{Side: side, Qty: math.Abs(qty), Price: price}, ctx); err == nil {
		b.prot = nil
	}
}

// orderQty is the fixed Volume when configured, otherwise the size that
// risks MaxRiskPerTrade of equity over stopDist (or the configured stop
// distance when stopDist is 0).
func (b *BaseStrategy) orderQty(price, stopDist float64) float64 {
	if b.Cfg.Volume > 0 {
		return risk.RoundQty(b.Cfg.Volume, b.Cfg)
	}
	if stopDist <= 0 {
		stopDist = risk.Levels(b.Cfg, price).Stop
	}
	return risk.QtyForStop(b.Exec.Equity(), b.Cfg.MaxRiskPerTrade, stopDist, b.Cfg)
}

// enter opens a market position sized by orderQty and arms protection.
func (b *BaseStrategy) enter(side types.Side, price float64, ctx string) bool {
	return b.enterQty(side, b.orderQty(price, 0), price, ctx)
}

func (b *BaseStrategy) enterQty(side types.Side, qty, price float64, ctx string) bool {
	if !(price > 0) || math.IsInf(price, 0) {
		return false
	}
	if !(qty > 0) {
		b.Log.Debug("qty_zero", logger.String("strategy", b.name), logger.String("ctx", ctx))
		return false
	}
	var err error
	if side == types.Buy {
		err = b.buyMarket(qty, price, ctx)
	} else {
		err = b.sellMarket(qty, price, ctx)
	}
	if err != nil {
		return false
	}
	_, avg := b.Exec.Position(b.symbol)
	b.prot = risk.NewProtection(b.Cfg, side, avg)
	return true
}

// enterWithStop is enter with an explicit stop distance that both sizes
// the position and places its stop.
func (b *BaseStrategy) enterWithStop(side types.Side, price, stopDist float64, ctx string) bool {
	if !(stopDist > 0) {
		return false
	}
	if !b.enterQty(side, b.orderQty(price, stopDist), price, ctx) {
		return false
	}
	b.prot.Place(b.prot.Entry - side.Sign()*stopDist)
	return true
}

// follow applies the flip pattern: an opposite position is closed before
// the new one is opened, a position on the same side is left alone.
func (b *BaseStrategy) follow(side types.Side, price float64, prefix string) bool {
	qty := b.position()
	if qty*side.Sign() > 0 {
		return false
	}
	if qty != 0 {
		b.closePosition(price, prefix+"_close_"+label(side.Opposite()))
	}
	return b.enter(side, price, prefix+"_"+label(side))
}

func label(s types.Side) string {
	if s == types.Buy {
		return "long"
	}
	return "short"
}

// syncPosition reconciles the protection state with the executor: flat
// positions drop it, positions opened by triggered stop orders get it armed.
// It reports whether protection was armed just now.
func (b *BaseStrategy) syncPosition() bool {
	qty, avg := b.Exec.Position(b.symbol)
	if qty == 0 {
		b.prot = nil
		return false
	}
	side := types.Buy
	if qty < 0 {
		side = types.Sell
	}
	if b.prot == nil || b.prot.Side != side {
		b.prot = risk.NewProtection(b.Cfg, side, avg)
		return true
	}
	return false
}

// manageProtection closes the position when a protective level was hit
// inside c and reports whether it did. A position opened inside c by a
// stop order is only checked from the next candle on.
func (b *BaseStrategy) manageProtection(c types.Candle) bool {
	if b.syncPosition() || b.prot == nil {
		return false
	}
	exit, hit := b.prot.Update(c)
	if !hit {
		return false
	}
	b.Log.Info("protective_exit",
		logger.String("strategy", b.name),
		logger.String("reason", exit.Reason),
		logger.Float64("price", exit.Price),
	)
	metrics.ProtectiveExits.WithLabelValues(b.name, exit.Reason).Inc()
	b.closePosition(exit.Price, exit.Reason)
	return true
}
