package report

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/evdnx/barstrat/types"
)

func TestSummarize(t *testing.T) {
	fills := []types.Fill{
		{Side: types.Buy, Qty: 1, Price: 100},
		{Side: types.Sell, Qty: 1, Price: 110, PnL: 10, Closing: true},
		{Side: types.Sell, Qty: 1, Price: 110},
		{Side: types.Buy, Qty: 1, Price: 114, PnL: -4, Closing: true},
		{Side: types.Buy, Qty: 1, Price: 114},
		{Side: types.Sell, Qty: 1, Price: 112, PnL: -2, Closing: true},
		{Side: types.Buy, Qty: 1, Price: 112}, // still open
	}
	s := Summarize(fills, 1000)
	if s.Trades != 3 || s.Wins != 1 || s.Losses != 2 {
		t.Fatalf("unexpected counts %+v", s)
	}
	if s.NetPnL != 4 || s.FinalEquity != 1004 {
		t.Fatalf("unexpected pnl %+v", s)
	}
	if math.Abs(s.WinRate-1.0/3) > 1e-12 {
		t.Fatalf("unexpected win rate %v", s.WinRate)
	}
	if s.ProfitFactor != 10.0/6 {
		t.Fatalf("unexpected profit factor %v", s.ProfitFactor)
	}
	// peak 1010 after the first trade, trough 1004
	if s.MaxDrawdown != 6 || math.Abs(s.MaxDrawdownPct-6.0/1010) > 1e-12 {
		t.Fatalf("unexpected drawdown %v / %v", s.MaxDrawdown, s.MaxDrawdownPct)
	}
}

func TestSummarizeWithoutLosses(t *testing.T) {
	s := Summarize([]types.Fill{{PnL: 5, Closing: true}}, 100)
	if !math.IsInf(s.ProfitFactor, 1) {
		t.Fatalf("expected infinite profit factor, got %v", s.ProfitFactor)
	}
	if empty := Summarize(nil, 100); empty.Trades != 0 || empty.ProfitFactor != 0 || empty.FinalEquity != 100 {
		t.Fatalf("unexpected empty summary %+v", empty)
	}
}

func TestRenderChart(t *testing.T) {
	t0 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	var candles []types.Candle
	for i := 0; i < 5; i++ {
		p := 100 + float64(i)
		candles = append(candles, types.Candle{Time: t0.Add(time.Duration(i) * time.Hour), Open: p, High: p + 1, Low: p - 1, Close: p})
	}
	fills := []types.Fill{
		{Side: types.Buy, Qty: 1, Price: 101, Time: t0.Add(time.Hour)},
		{Side: types.Sell, Qty: 1, Price: 103, Time: t0.Add(3 * time.Hour), PnL: 2, Closing: true},
	}
	var buf bytes.Buffer
	if err := RenderChart(&buf, "TEST ma_cross", candles, fills, 1000); err != nil {
		t.Fatalf("RenderChart failed: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "echarts") || !strings.Contains(html, "Realized equity") {
		t.Fatal("chart output misses expected content")
	}
	if err := RenderChart(&buf, "empty", nil, nil, 0); err == nil {
		t.Fatal("expected error without candles")
	}
}

func TestMarkFillsMergesSameCandle(t *testing.T) {
	t0 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	candles := []types.Candle{{Time: t0}, {Time: t0.Add(time.Hour)}}
	fills := []types.Fill{
		{Side: types.Sell, Qty: 1, Price: 100, Time: t0},
		// a flip from short to long books two buys on the second candle
		{Side: types.Buy, Qty: 1, Price: 101, Time: t0.Add(time.Hour), PnL: -1, Closing: true},
		{Side: types.Buy, Qty: 2, Price: 101, Time: t0.Add(time.Hour)},
	}
	buys, sells := markFills(candles, fills)
	if buys[0].SymbolSize != 0 || buys[1].SymbolSize == 0 {
		t.Fatalf("unexpected buy markers %+v", buys)
	}
	if buys[1].Name != "BUY 1 @ 101; BUY 2 @ 101" {
		t.Fatalf("both buys should be listed, got %q", buys[1].Name)
	}
	if sells[0].SymbolRotate != 180 || sells[0].Name != "SELL 1 @ 100" || sells[1].SymbolSize != 0 {
		t.Fatalf("unexpected sell markers %+v", sells)
	}
}
