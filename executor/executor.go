package executor

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/evdnx/barstrat/logger"
	"github.com/evdnx/barstrat/types"
)

var (
	ErrInvalidOrder  = errors.New("invalid order")
	ErrOrderNotFound = errors.New("order not found")
)

const qtyEpsilon = 1e-12

type Executor interface {
	// Submit fills market orders immediately and parks stop orders until
	// the market trades through their level. It returns the order id.
	Submit(o types.Order) (string, error)
	Cancel(id string) error
	// For back‑testing we expose the portfolio state
	Equity() float64
	Position(symbol string) (qty float64, avgPrice float64)
	Realized(symbol string) float64
	Pending(symbol string) []types.Order
}

// PaperExecutor is a margin style paper account – perfect fills, no
// slippage, no fees. Positions are signed (negative = short).
type PaperExecutor struct {
	mu        sync.Mutex
	start     float64
	positions map[string]float64
	avgPrice  map[string]float64
	realized  map[string]float64
	marks     map[string]float64
	pending   []types.Order
	fills     []types.Fill
	now       time.Time
	log       logger.Logger
}

// Option customises a PaperExecutor.
type Option func(*PaperExecutor)

// WithLogger routes fill logs to l.
func WithLogger(l logger.Logger) Option {
	return func(p *PaperExecutor) { p.log = l }
}

func NewPaperExecutor(startEquity float64, opts ...Option) *PaperExecutor {
	p := &PaperExecutor{
		start:     startEquity,
		positions: make(map[string]float64),
		avgPrice:  make(map[string]float64),
		realized:  make(map[string]float64),
		marks:     make(map[string]float64),
		log:       logger.Nop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func validate(o types.Order) error {
	if o.Side != types.Buy && o.Side != types.Sell {
		return fmt.Errorf("%w: unknown side %q", ErrInvalidOrder, o.Side)
	}
	if !(o.Qty > 0) || math.IsInf(o.Qty, 0) {
		return fmt.Errorf("%w: qty %v", ErrInvalidOrder, o.Qty)
	}
	switch o.Type {
	case types.Market, "":
		if !(o.Price > 0) || math.IsInf(o.Price, 0) {
			return fmt.Errorf("%w: market price %v", ErrInvalidOrder, o.Price)
		}
	case types.Stop:
		if !(o.StopPrice > 0) || math.IsInf(o.StopPrice, 0) {
			return fmt.Errorf("%w: stop price %v", ErrInvalidOrder, o.StopPrice)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidOrder, o.Type)
	}
	return nil
}

func (p *PaperExecutor) Submit(o types.Order) (string, error) {
	if err := validate(o); err != nil {
		return "", err
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if o.Type == types.Stop {
		p.pending = append(p.pending, o)
		return o.ID, nil
	}
	p.fill(o, o.Price)
	return o.ID, nil
}

func (p *PaperExecutor) Cancel(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, o := range p.pending {
		if o.ID == id {
			p.pending = append(p.pending[:i], p.pending[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
}

// OnCandle marks the symbol to the close and triggers pending stops the
// candle traded through. A gap beyond the level fills at the open.
func (p *PaperExecutor) OnCandle(c types.Candle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = c.Time
	kept := p.pending[:0]
	var triggered []types.Order
	for _, o := range p.pending {
		if o.Symbol != c.Symbol {
			kept = append(kept, o)
			continue
		}
		switch {
		case o.Side == types.Buy && c.High >= o.StopPrice:
			o.Price = math.Max(o.StopPrice, c.Open)
			triggered = append(triggered, o)
		case o.Side == types.Sell && c.Low <= o.StopPrice:
			o.Price = math.Min(o.StopPrice, c.Open)
			triggered = append(triggered, o)
		default:
			kept = append(kept, o)
		}
	}
	p.pending = kept
	for _, o := range triggered {
		p.fill(o, o.Price)
	}
	p.marks[c.Symbol] = c.Close
}

// fill books an execution; callers hold the lock.
func (p *PaperExecutor) fill(o types.Order, price float64) {
	sym := o.Symbol
	pos := p.positions[sym]
	avg := p.avgPrice[sym]
	signed := o.Qty * o.Side.Sign()
	newPos := pos + signed

	var pnl float64
	closing := pos != 0 && (pos > 0) != (signed > 0)
	if closing {
		closed := math.Min(math.Abs(pos), o.Qty)
		pnl = closed * (price - avg) * math.Copysign(1, pos)
		switch {
		case math.Abs(newPos) < qtyEpsilon:
			newPos, avg = 0, 0
		case (newPos > 0) != (pos > 0):
			avg = price // flipped through zero
		}
	} else {
		// simple VWAP for avg price
		avg = (avg*math.Abs(pos) + price*o.Qty) / math.Abs(newPos)
	}
	p.positions[sym] = newPos
	p.avgPrice[sym] = avg
	p.realized[sym] += pnl
	p.marks[sym] = price
	p.fills = append(p.fills, types.Fill{
		OrderID: o.ID,
		Symbol:  sym,
		Side:    o.Side,
		Qty:     o.Qty,
		Price:   price,
		Time:    p.now,
		PnL:     pnl,
		Closing: closing,
		Comment: o.Comment,
	})
	p.log.Info("fill",
		logger.String("symbol", sym),
		logger.String("side", string(o.Side)),
		logger.Float64("qty", o.Qty),
		logger.Float64("price", price),
		logger.Float64("pnl", pnl),
		logger.Float64("position", newPos),
	)
}

func (p *PaperExecutor) Equity() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	eq := p.start
	for _, r := range p.realized {
		eq += r
	}
	for sym, qty := range p.positions {
		if qty == 0 {
			continue
		}
		eq += qty * (p.marks[sym] - p.avgPrice[sym])
	}
	return eq
}

func (p *PaperExecutor) Position(sym string) (float64, float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positions[sym], p.avgPrice[sym]
}

func (p *PaperExecutor) Realized(sym string) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.realized[sym]
}

func (p *PaperExecutor) Pending(sym string) []types.Order {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []types.Order
	for _, o := range p.pending {
		if o.Symbol == sym {
			out = append(out, o)
		}
	}
	return out
}

// Fills returns a copy of every execution so far.
func (p *PaperExecutor) Fills() []types.Fill {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]types.Fill, len(p.fills))
	copy(out, p.fills)
	return out
}

// StartEquity is the balance the account was opened with.
func (p *PaperExecutor) StartEquity() float64 { return p.start }
