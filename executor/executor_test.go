package executor

import (
	"errors"
	"math"
	"testing"

	"github.com/evdnx/barstrat/types"
)

func TestPaperExecutor_SubmitAndPosition(t *testing.T) {
	ex := NewPaperExecutor(10_000)

	o := types.Order{
		Symbol: "BTCUSD",
		Side:   types.Buy,
		Qty:    0.5,
		Price:  20_000,
	}
	id, err := ex.Submit(o)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected an order id")
	}
	qty, avg := ex.Position("BTCUSD")
	if qty != 0.5 || avg != 20_000 {
		t.Fatalf("unexpected position: qty=%v avg=%v", qty, avg)
	}
	if eq := ex.Equity(); eq != 10_000 {
		t.Fatalf("equity should be unchanged right after the fill, got %v", eq)
	}
	ex.OnCandle(types.Candle{Symbol: "BTCUSD", Open: 20_000, High: 21_000, Low: 19_900, Close: 21_000})
	if eq := ex.Equity(); eq != 10_500 {
		t.Fatalf("expected marked equity 10500, got %v", eq)
	}
}

func TestPaperExecutor_RejectsInvalidOrders(t *testing.T) {
	ex := NewPaperExecutor(1000)
	bad := []types.Order{
		{Symbol: "ETHUSD", Side: types.Buy, Qty: 0, Price: 2000},
		{Symbol: "ETHUSD", Side: types.Buy, Qty: math.NaN(), Price: 2000},
		{Symbol: "ETHUSD", Side: types.Sell, Qty: 1, Price: 0},
		{Symbol: "ETHUSD", Side: types.Sell, Qty: 1, Type: types.Stop},
		{Symbol: "ETHUSD", Side: "HOLD", Qty: 1, Price: 1},
	}
	for i, o := range bad {
		if _, err := ex.Submit(o); !errors.Is(err, ErrInvalidOrder) {
			t.Fatalf("order %d: expected ErrInvalidOrder, got %v", i, err)
		}
	}
	if len(ex.Fills()) != 0 {
		t.Fatal("rejected orders must not fill")
	}
}

func TestPaperExecutor_FlipBooksRealizedPnL(t *testing.T) {
	ex := NewPaperExecutor(1000)
	mustSubmit(t, ex, types.Order{Symbol: "X", Side: types.Buy, Qty: 2, Price: 10})
	mustSubmit(t, ex, types.Order{Symbol: "X", Side: types.Sell, Qty: 3, Price: 12})

	qty, avg := ex.Position("X")
	if qty != -1 || avg != 12 {
		t.Fatalf("expected short 1 @ 12 after flip, got %v @ %v", qty, avg)
	}
	if r := ex.Realized("X"); r != 4 {
		t.Fatalf("expected realized 4, got %v", r)
	}
	fills := ex.Fills()
	if len(fills) != 2 || !fills[1].Closing || fills[1].PnL != 4 {
		t.Fatalf("unexpected fills: %+v", fills)
	}

	mustSubmit(t, ex, types.Order{Symbol: "X", Side: types.Buy, Qty: 1, Price: 11})
	if qty, avg := ex.Position("X"); qty != 0 || avg != 0 {
		t.Fatalf("expected flat, got %v @ %v", qty, avg)
	}
	if eq := ex.Equity(); eq != 1005 {
		t.Fatalf("expected equity 1005, got %v", eq)
	}
}

func TestPaperExecutor_StopOrders(t *testing.T) {
	ex := NewPaperExecutor(1000)
	buyID := mustSubmit(t, ex, types.Order{Symbol: "X", Side: types.Buy, Type: types.Stop, Qty: 1, StopPrice: 105})
	sellID := mustSubmit(t, ex, types.Order{Symbol: "X", Side: types.Sell, Type: types.Stop, Qty: 1, StopPrice: 95})
	if len(ex.Pending("X")) != 2 {
		t.Fatalf("expected two pending stops, got %d", len(ex.Pending("X")))
	}

	ex.OnCandle(types.Candle{Symbol: "X", Open: 100, High: 104, Low: 96, Close: 101})
	if qty, _ := ex.Position("X"); qty != 0 {
		t.Fatalf("no stop should trigger, position %v", qty)
	}

	// gap up through the buy stop fills at the open
	ex.OnCandle(types.Candle{Symbol: "X", Open: 107, High: 108, Low: 106, Close: 107})
	qty, avg := ex.Position("X")
	if qty != 1 || avg != 107 {
		t.Fatalf("expected long 1 @ 107, got %v @ %v", qty, avg)
	}
	pending := ex.Pending("X")
	if len(pending) != 1 || pending[0].ID != sellID {
		t.Fatalf("only the sell stop should remain, got %+v", pending)
	}
	if err := ex.Cancel(buyID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("cancelling a filled order should fail with ErrOrderNotFound, got %v", err)
	}
	if err := ex.Cancel(sellID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if len(ex.Pending("X")) != 0 {
		t.Fatal("pending stops should be empty")
	}
}

func mustSubmit(t *testing.T, ex *PaperExecutor, o types.Order) string {
	t.Helper()
	id, err := ex.Submit(o)
	if err != nil {
		t.Fatalf("submit %+v failed: %v", o, err)
	}
	return id
}
