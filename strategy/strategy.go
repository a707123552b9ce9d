// Package strategy holds the candle driven trading strategies. Every
// strategy embeds BaseStrategy, is built by a NewXxx constructor that
// validates its XxxParams, and reacts to one candle at a time through
// ProcessCandle. Strategies are not safe for concurrent use; the engine
// drives them from a single goroutine.
package strategy

import "github.com/evdnx/barstrat/types"

// Strategy is the contract the engine dispatches candles to.
type Strategy interface {
	Name() string
	Symbol() string
	ProcessCandle(c types.Candle)
	Reset()
}
