package types

import "time"

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Opposite returns the side that closes a position opened with s.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// Sign is +1 for Buy and -1 for Sell.
func (s Side) Sign() float64 {
	if s == Buy {
		return 1
	}
	return -1
}

type OrderType string

const (
	Market OrderType = "MARKET"
	Stop   OrderType = "STOP"
)

type Order struct {
	ID        string
	Symbol    string
	Side      Side
	Type      OrderType // empty is treated as Market
	Qty       float64
	Price     float64 // fill price for market orders
	StopPrice float64 // trigger level for stop orders
	// meta
	Comment string
}

// Fill is an executed (part of an) order. PnL is the realized profit booked
// by this fill, zero for fills that only open or add to a position.
type Fill struct {
	OrderID string
	Symbol  string
	Side    Side
	Qty     float64
	Price   float64
	Time    time.Time
	PnL     float64
	Closing bool
	Comment string
}

// Candle is one OHLCV bar.
type Candle struct {
	Symbol string
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}
