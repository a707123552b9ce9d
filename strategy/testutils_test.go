package strategy

import (
	"testing"
	"time"

	"github.com/evdnx/barstrat/config"
	"github.com/evdnx/barstrat/testutils"
	"github.com/evdnx/barstrat/types"
)

const testSymbol = "TEST"

var testStart = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

// buildConfig returns the default risk settings: 1 % of equity per trade,
// a 1.5 % stop, no target and no trailing. Tests enable the rest as needed.
func buildConfig() config.StrategyConfig {
	return config.Default()
}

// harness plays the part of the engine: every candle first goes to the
// executor (pending stops, marks) and then to the strategy.
type harness struct {
	t    *testing.T
	exec *testutils.MockExecutor
	log  *testutils.MockLogger
	bars int
}

func newHarness(t *testing.T) *harness {
	return &harness{
		t:    t,
		exec: testutils.NewMockExecutor(10_000), // $10 k start equity
		log:  testutils.NewMockLogger(),
	}
}

// candle builds the next hourly bar.
func (h *harness) candle(open, high, low, close float64) types.Candle {
	c := types.Candle{
		Symbol: testSymbol,
		Time:   testStart.Add(time.Duration(h.bars) * time.Hour),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: 1000,
	}
	h.bars++
	return c
}

func (h *harness) feed(s Strategy, cs ...types.Candle) {
	for _, c := range cs {
		h.exec.OnCandle(c)
		s.ProcessCandle(c)
	}
}

// feedCloses feeds one bar per close with open == close and a one point
// high-low range around it.
func (h *harness) feedCloses(s Strategy, closes ...float64) {
	for _, p := range closes {
		h.feed(s, h.candle(p, p+0.5, p-0.5, p))
	}
}

func (h *harness) position() float64 {
	qty, _ := h.exec.Position(testSymbol)
	return qty
}

// comments lists the comments of the market orders in submission order.
func (h *harness) comments() []string {
	var out []string
	for _, o := range h.exec.MarketOrders() {
		out = append(out, o.Comment)
	}
	return out
}

func (h *harness) expectComments(want ...string) {
	h.t.Helper()
	got := h.comments()
	if len(got) != len(want) {
		h.t.Fatalf("expected orders %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			h.t.Fatalf("expected orders %v, got %v", want, got)
		}
	}
}

func ramp(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func repeat(v float64, n int) []float64 {
	return ramp(v, 0, n)
}

func alternate(a, b float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = a
		if i%2 == 1 {
			out[i] = b
		}
	}
	return out
}

func concat(parts ...[]float64) []float64 {
	var out []float64
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
