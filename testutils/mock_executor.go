package testutils

import (
	"sync"

	"github.com/evdnx/barstrat/executor"
	"github.com/evdnx/barstrat/types"
)

// MockExecutor is a PaperExecutor that also remembers every accepted order
// (market and stop) for assertions.
type MockExecutor struct {
	*executor.PaperExecutor
	mu        sync.RWMutex
	orders    []types.Order // captured for assertions
	cancelled []string
}

// NewMockExecutor creates a fresh executor with the supplied starting equity.
func NewMockExecutor(startEquity float64) *MockExecutor {
	return &MockExecutor{PaperExecutor: executor.NewPaperExecutor(startEquity)}
}

// Submit forwards to the paper account and records the order on success.
func (m *MockExecutor) Submit(o types.Order) (string, error) {
	id, err := m.PaperExecutor.Submit(o)
	if err != nil {
		return "", err
	}
	o.ID = id
	m.mu.Lock()
	m.orders = append(m.orders, o)
	m.mu.Unlock()
	return id, nil
}

// Cancel forwards to the paper account and records the id on success.
func (m *MockExecutor) Cancel(id string) error {
	if err := m.PaperExecutor.Cancel(id); err != nil {
		return err
	}
	m.mu.Lock()
	m.cancelled = append(m.cancelled, id)
	m.mu.Unlock()
	return nil
}

// Orders returns a copy of all submitted orders (useful for assertions).
func (m *MockExecutor) Orders() []types.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Order, len(m.orders))
	copy(out, m.orders)
	return out
}

// MarketOrders filters Orders down to immediately filled ones.
func (m *MockExecutor) MarketOrders() []types.Order {
	var out []types.Order
	for _, o := range m.Orders() {
		if o.Type != types.Stop {
			out = append(out, o)
		}
	}
	return out
}

// Cancelled returns the ids of cancelled orders.
func (m *MockExecutor) Cancelled() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.cancelled...)
}
