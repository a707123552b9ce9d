package testutils

import (
	"testing"

	"github.com/evdnx/barstrat/logger"
	"github.com/evdnx/barstrat/types"
)

func TestMockLogger(t *testing.T) {
	l := NewMockLogger()
	l.Info("hello", logger.String("k", "v"))
	l.Warn("hello")
	if got := l.LastMessage(); got != "hello" {
		t.Fatalf("expected last message 'hello', got %q", got)
	}
	if l.Count("hello") != 2 {
		t.Fatalf("expected 2 entries, got %d", l.Count("hello"))
	}
}

func TestMockExecutorRecordsAcceptedOrders(t *testing.T) {
	m := NewMockExecutor(1000)
	if _, err := m.Submit(types.Order{Symbol: "X", Side: types.Buy, Qty: 1, Price: 10}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Submit(types.Order{Symbol: "X", Side: types.Buy, Qty: 0, Price: 10}); err == nil {
		t.Fatal("expected rejection of zero qty")
	}
	id, err := m.Submit(types.Order{Symbol: "X", Side: types.Sell, Type: types.Stop, Qty: 1, StopPrice: 9})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Cancel(id); err != nil {
		t.Fatal(err)
	}
	if len(m.Orders()) != 2 || len(m.MarketOrders()) != 1 || len(m.Cancelled()) != 1 {
		t.Fatalf("unexpected capture: orders=%d market=%d cancelled=%d",
			len(m.Orders()), len(m.MarketOrders()), len(m.Cancelled()))
	}
	if m.Orders()[0].ID == "" {
		t.Fatal("recorded order should carry its id")
	}
}
