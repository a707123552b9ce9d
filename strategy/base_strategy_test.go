package strategy

import (
	"math"
	"testing"

	"github.com/evdnx/barstrat/risk"
	"github.com/evdnx/barstrat/types"
)

func buildBase(t *testing.T, h *harness, mutate func(*BaseStrategy)) *BaseStrategy {
	t.Helper()
	cfg := buildConfig()
	b, err := NewBaseStrategy("test", testSymbol, cfg, h.exec, h.log)
	if err != nil {
		t.Fatalf("NewBaseStrategy failed: %v", err)
	}
	if mutate != nil {
		mutate(b)
	}
	return b
}

func TestBaseStrategy_RejectsBadSetup(t *testing.T) {
	h := newHarness(t)
	cfg := buildConfig()
	if _, err := NewBaseStrategy("test", testSymbol, cfg, nil, h.log); err == nil {
		t.Fatal("expected error for missing executor")
	}
	if _, err := NewBaseStrategy("test", "", cfg, h.exec, h.log); err == nil {
		t.Fatal("expected error for missing symbol")
	}
	cfg.PriceStep = 0
	if _, err := NewBaseStrategy("test", testSymbol, cfg, h.exec, h.log); err == nil {
		t.Fatal("expected config validation error")
	}
}

func TestBaseStrategy_AcceptFiltersCandles(t *testing.T) {
	h := newHarness(t)
	b := buildBase(t, h, nil)

	c := h.candle(100, 101, 99, 100)
	c.Symbol = "OTHER"
	if b.accept(c) {
		t.Fatal("foreign symbol accepted")
	}
	bad := h.candle(100, 99, 101, 100) // high below low
	if b.accept(bad) {
		t.Fatal("broken candle accepted")
	}
	if h.log.Count("bad_candle") != 1 {
		t.Fatalf("expected one bad_candle log, got %d", h.log.Count("bad_candle"))
	}
	if !b.accept(h.candle(100, 101, 99, 100)) || b.Series.Len() != 1 {
		t.Fatal("valid candle should be recorded")
	}
}

func TestBaseStrategy_FixedVolumeEntryArmsProtection(t *testing.T) {
	h := newHarness(t)
	b := buildBase(t, h, func(b *BaseStrategy) { b.Cfg.Volume = 2 })

	if !b.enter(types.Buy, 100, "test_long") {
		t.Fatal("entry refused")
	}
	orders := h.exec.Orders()
	if len(orders) != 1 || orders[0].Qty != 2 || orders[0].Side != types.Buy {
		t.Fatalf("unexpected orders %+v", orders)
	}
	p := b.Protection()
	if p == nil || math.Abs(p.Stop-98.5) > 1e-9 {
		t.Fatalf("expected stop at 98.5, got %+v", p)
	}
}

func TestBaseStrategy_RiskSizedEntry(t *testing.T) {
	h := newHarness(t)
	b := buildBase(t, h, nil)

	b.enter(types.Sell, 200, "test_short")
	// 1 % of 10 000 over a 3.0 stop distance
	want := risk.RoundQty(100/3.0, b.Cfg)
	if got := h.exec.Orders()[0].Qty; got != want {
		t.Fatalf("expected qty %v, got %v", want, got)
	}
	if b.enter(types.Sell, math.NaN(), "nan") {
		t.Fatal("NaN price must not trade")
	}
}

func TestBaseStrategy_FollowFlipsWithoutStacking(t *testing.T) {
	h := newHarness(t)
	b := buildBase(t, h, nil)

	b.follow(types.Buy, 100, "t")
	b.follow(types.Buy, 101, "t") // same side: ignored
	b.follow(types.Sell, 102, "t")
	h.expectComments("t_long", "t_close_long", "t_short")
	if h.position() >= 0 {
		t.Fatalf("expected short position, got %v", h.position())
	}
	if p := b.Protection(); p == nil || p.Side != types.Sell {
		t.Fatalf("protection should follow the short, got %+v", p)
	}
}

func TestBaseStrategy_ProtectiveExit(t *testing.T) {
	h := newHarness(t)
	b := buildBase(t, h, nil)

	b.enter(types.Buy, 100, "t_long")
	if b.manageProtection(h.candle(100, 101, 99, 100.5)) {
		t.Fatal("no level was touched")
	}
	if !b.manageProtection(h.candle(99, 99.5, 97, 98)) {
		t.Fatal("expected stop loss exit")
	}
	orders := h.exec.MarketOrders()
	last := orders[len(orders)-1]
	if last.Comment != risk.ReasonStopLoss || last.Price != 98.5 {
		t.Fatalf("unexpected exit order %+v", last)
	}
	if h.position() != 0 || b.Protection() != nil {
		t.Fatal("position should be flat with protection cleared")
	}
}

func TestBaseStrategy_StopFillArmsProtectionNextBar(t *testing.T) {
	h := newHarness(t)
	b := buildBase(t, h, nil)

	if _, err := b.buyStop(1, 101, "t_buy_stop"); err != nil {
		t.Fatal(err)
	}
	// the bar that triggers the stop dips far below the would-be stop
	c := h.candle(100, 102, 90, 101.5)
	h.exec.OnCandle(c)
	if b.manageProtection(c) {
		t.Fatal("protection must not fire on the bar that opened the position")
	}
	if p := b.Protection(); p == nil || p.Entry != 101 {
		t.Fatalf("expected protection armed at 101, got %+v", p)
	}
	b.cancelPending()
	if len(h.exec.Pending(testSymbol)) != 0 {
		t.Fatal("pending orders left")
	}
}
