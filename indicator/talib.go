package indicator

import (
	"fmt"
	"math"
	"strings"

	"github.com/markcheno/go-talib"
)

// Pair holds the latest indicator value and the one before it, which is all
// a crossover check needs.
type Pair struct {
	Cur, Prev float64
}

// Rising reports whether the value went up on the last bar.
func (p Pair) Rising() bool { return p.Cur > p.Prev }

// CrossedAbove reports a crosses b from below on the last bar.
func CrossedAbove(a, b Pair) bool {
	return a.Prev <= b.Prev && a.Cur > b.Cur
}

// CrossedBelow reports a crosses b from above on the last bar.
func CrossedBelow(a, b Pair) bool {
	return a.Prev >= b.Prev && a.Cur < b.Cur
}

// Level turns a constant into a Pair so it can be used with the cross helpers.
func Level(v float64) Pair { return Pair{Cur: v, Prev: v} }

// MAKind selects the moving average family.
type MAKind string

const (
	KindSMA MAKind = "sma"
	KindEMA MAKind = "ema"
	KindWMA MAKind = "wma"
)

// ParseMAKind accepts sma/ema/wma in any case.
func ParseMAKind(s string) (MAKind, error) {
	switch k := MAKind(strings.ToLower(s)); k {
	case KindSMA, KindEMA, KindWMA:
		return k, nil
	}
	return "", fmt.Errorf("unknown moving average kind %q", s)
}

func (k MAKind) maType() talib.MaType {
	switch k {
	case KindEMA:
		return talib.EMA
	case KindWMA:
		return talib.WMA
	default:
		return talib.SMA
	}
}

// last2 extracts the final two points of an output series once at least
// need inputs are available.
func last2(out []float64, inputs, need int) (Pair, bool) {
	if inputs < need || len(out) < 2 {
		return Pair{}, false
	}
	p := Pair{Cur: out[len(out)-1], Prev: out[len(out)-2]}
	if math.IsNaN(p.Cur) || math.IsNaN(p.Prev) {
		return Pair{}, false
	}
	return p, true
}

func SMA(closes []float64, period int) (Pair, bool) {
	if period < 1 {
		return Pair{}, false
	}
	return MA(closes, period, KindSMA)
}

func EMA(closes []float64, period int) (Pair, bool) {
	if period < 1 {
		return Pair{}, false
	}
	return MA(closes, period, KindEMA)
}

// MA computes a moving average of the given kind.
func MA(closes []float64, period int, kind MAKind) (Pair, bool) {
	if period < 1 || len(closes) < period+1 {
		return Pair{}, false
	}
	if period == 1 {
		return last2(closes, len(closes), 2)
	}
	return last2(talib.Ma(closes, period, kind.maType()), len(closes), period+1)
}

// MACD returns the MACD line and its signal line.
func MACD(closes []float64, fast, slow, signal int) (macd, sig Pair, ok bool) {
	need := slow + signal
	if fast < 1 || slow <= fast || signal < 1 || len(closes) < need {
		return Pair{}, Pair{}, false
	}
	m, s, _ := talib.Macd(closes, fast, slow, signal)
	macd, ok1 := last2(m, len(closes), need)
	sig, ok2 := last2(s, len(closes), need)
	return macd, sig, ok1 && ok2
}

// Stochastic returns the slow %K and %D lines.
func Stochastic(highs, lows, closes []float64, kPeriod, slowing, dPeriod int) (k, d Pair, ok bool) {
	need := kPeriod + slowing + dPeriod
	if kPeriod < 1 || slowing < 1 || dPeriod < 1 || len(closes) < need {
		return Pair{}, Pair{}, false
	}
	ks, ds := talib.Stoch(highs, lows, closes, kPeriod, slowing, talib.SMA, dPeriod, talib.SMA)
	k, ok1 := last2(ks, len(closes), need)
	d, ok2 := last2(ds, len(closes), need)
	return k, d, ok1 && ok2
}

// ATR is Wilder's average true range.
func ATR(highs, lows, closes []float64, period int) (float64, bool) {
	if period < 1 || len(closes) < period+2 {
		return 0, false
	}
	p, ok := last2(talib.Atr(highs, lows, closes, period), len(closes), period+2)
	return p.Cur, ok
}

// SAR is the parabolic stop-and-reverse level.
func SAR(highs, lows []float64, step, max float64) (Pair, bool) {
	if step <= 0 || max < step || len(highs) < 3 {
		return Pair{}, false
	}
	return last2(talib.Sar(highs, lows, step, max), len(highs), 3)
}

// Bollinger returns the upper, middle and lower bands.
func Bollinger(closes []float64, period int, dev float64) (upper, middle, lower float64, ok bool) {
	if period < 2 || len(closes) < period+1 {
		return 0, 0, 0, false
	}
	u, m, l := talib.BBands(closes, period, dev, dev, talib.SMA)
	up, ok1 := last2(u, len(closes), period+1)
	mid, ok2 := last2(m, len(closes), period+1)
	lo, ok3 := last2(l, len(closes), period+1)
	return up.Cur, mid.Cur, lo.Cur, ok1 && ok2 && ok3
}

func RSI(closes []float64, period int) (Pair, bool) {
	if period < 2 || len(closes) < period+2 {
		return Pair{}, false
	}
	return last2(talib.Rsi(closes, period), len(closes), period+2)
}

// Momentum is close minus the close period bars ago.
func Momentum(closes []float64, period int) (float64, bool) {
	if period < 1 || len(closes) < period+1 {
		return 0, false
	}
	out := talib.Mom(closes, period)
	return out[len(out)-1], true
}

func CCI(highs, lows, closes []float64, period int) (Pair, bool) {
	if period < 2 || len(closes) < period+1 {
		return Pair{}, false
	}
	return last2(talib.Cci(highs, lows, closes, period), len(closes), period+1)
}

// ADX returns the trend strength plus the +DI and -DI lines.
func ADX(highs, lows, closes []float64, period int) (adx float64, plus, minus Pair, ok bool) {
	need := 2*period + 1
	if period < 2 || len(closes) < need {
		return 0, Pair{}, Pair{}, false
	}
	a, ok1 := last2(talib.Adx(highs, lows, closes, period), len(closes), need)
	plus, ok2 := last2(talib.PlusDI(highs, lows, closes, period), len(closes), need)
	minus, ok3 := last2(talib.MinusDI(highs, lows, closes, period), len(closes), need)
	return a.Cur, plus, minus, ok1 && ok2 && ok3
}

// Highest returns the maximum of the n values that end skip values before
// the newest one. Highest(h, 20, 1) is the prior 20-bar high.
func Highest(values []float64, n, skip int) (float64, bool) {
	end := len(values) - skip
	if n < 1 || skip < 0 || end-n < 0 {
		return 0, false
	}
	m := values[end-n]
	for _, v := range values[end-n+1 : end] {
		m = math.Max(m, v)
	}
	return m, true
}

// Lowest mirrors Highest.
func Lowest(values []float64, n, skip int) (float64, bool) {
	end := len(values) - skip
	if n < 1 || skip < 0 || end-n < 0 {
		return 0, false
	}
	m := values[end-n]
	for _, v := range values[end-n+1 : end] {
		m = math.Min(m, v)
	}
	return m, true
}
