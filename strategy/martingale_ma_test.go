package strategy

import (
	"testing"

	"github.com/evdnx/barstrat/risk"
	"github.com/evdnx/barstrat/types"
)

func buildMartingale(t *testing.T, h *harness) *MartingaleMA {
	t.Helper()
	cfg := buildConfig()
	cfg.StopLossPct = 0.01
	cfg.TakeProfitPct = 0.05
	p := MartingaleMAParams{EMAPeriod: 3, BaseVolume: 1, Multiplier: 2, MaxSteps: 3}
	s, err := NewMartingaleMA(testSymbol, cfg, p, h.exec, h.log)
	if err != nil {
		t.Fatalf("NewMartingaleMA failed: %v", err)
	}
	return s
}

/*
The rising EMA opens a 1 lot long at 103 that is stopped out by a gap to
100. The loss doubles the next entry, a 2 lot short opened on the same bar
as the EMA turned down. That short hits its 5 % target at 94.5 and the
win brings the size back to 1 lot.
*/
func TestMartingaleMA_DoublesAfterLossResetsAfterWin(t *testing.T) {
	h := newHarness(t)
	s := buildMartingale(t, h)

	h.feedCloses(s, 100, 101, 102, 103, 104, 105)
	h.expectComments("mart_long")

	h.feedCloses(s, 100)
	h.expectComments("mart_long", risk.ReasonStopLoss, "mart_short")
	orders := h.exec.MarketOrders()
	if orders[2].Side != types.Sell || orders[2].Qty != 2 {
		t.Fatalf("expected doubled short, got %+v", orders[2])
	}
	if s.Step() != 1 {
		t.Fatalf("expected martingale step 1, got %d", s.Step())
	}

	h.feedCloses(s, 98, 96, 94.5)
	h.expectComments("mart_long", risk.ReasonStopLoss, "mart_short", risk.ReasonTakeProfit, "mart_short")
	orders = h.exec.MarketOrders()
	if last := orders[len(orders)-1]; last.Qty != 1 {
		t.Fatalf("expected base volume after a win, got %v", last.Qty)
	}
	if s.Step() != 0 {
		t.Fatalf("expected step reset, got %d", s.Step())
	}
}

func TestMartingaleMA_NeedsStopAndTarget(t *testing.T) {
	h := newHarness(t)
	cfg := buildConfig() // no take profit
	if _, err := NewMartingaleMA(testSymbol, cfg, DefaultMartingaleMAParams(), h.exec, h.log); err == nil {
		t.Fatal("expected missing take profit error")
	}
	cfg.TakeProfitPct = 0.02
	p := DefaultMartingaleMAParams()
	p.Multiplier = 0.5
	if _, err := NewMartingaleMA(testSymbol, cfg, p, h.exec, h.log); err == nil {
		t.Fatal("expected multiplier error")
	}
}
