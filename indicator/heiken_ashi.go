package indicator

import (
	"errors"
	"math"

	"github.com/evdnx/barstrat/types"
)

// HeikenAshi turns regular candles into Heiken-Ashi candles. The first HA
// open is seeded with the midpoint of the first real body.
type HeikenAshi struct {
	open, close float64
	seeded      bool
}

func (h *HeikenAshi) Update(c types.Candle) types.Candle {
	haClose := (c.Open + c.High + c.Low + c.Close) / 4
	haOpen := (c.Open + c.Close) / 2
	if h.seeded {
		haOpen = (h.open + h.close) / 2
	}
	h.open, h.close, h.seeded = haOpen, haClose, true
	return types.Candle{
		Symbol: c.Symbol,
		Time:   c.Time,
		Open:   haOpen,
		High:   math.Max(c.High, math.Max(haOpen, haClose)),
		Low:    math.Min(c.Low, math.Min(haOpen, haClose)),
		Close:  haClose,
		Volume: c.Volume,
	}
}

func (h *HeikenAshi) Reset() { *h = HeikenAshi{} }

// AMA is Kaufman's adaptive moving average. The smoothing constant moves
// between the fast and slow EMA constants according to the efficiency ratio
// of the last period bars, raised to power.
type AMA struct {
	period         int
	fastSC, slowSC float64
	power          float64

	prices []float64
	steps  []float64
	value  float64
	ready  bool
}

func NewAMA(period, fast, slow int, power float64) (*AMA, error) {
	if period < 2 {
		return nil, errors.New("AMA period must be at least 2")
	}
	if fast < 1 || slow <= fast {
		return nil, errors.New("AMA needs 1 <= fast < slow")
	}
	if power <= 0 {
		return nil, errors.New("AMA power must be positive")
	}
	return &AMA{
		period: period,
		fastSC: 2 / float64(fast+1),
		slowSC: 2 / float64(slow+1),
		power:  power,
	}, nil
}

// Update feeds one price and returns the new AMA value; ok is false until
// period+1 prices have been seen.
func (a *AMA) Update(price float64) (float64, bool) {
	a.prices = append(a.prices, price)
	if len(a.prices) > a.period+1 {
		a.prices = a.prices[1:]
	}
	if len(a.prices) < a.period+1 {
		a.value = price
		return price, false
	}

	signal := math.Abs(price - a.prices[0])
	noise := 0.0
	for i := 1; i < len(a.prices); i++ {
		noise += math.Abs(a.prices[i] - a.prices[i-1])
	}
	er := 0.0
	if noise > 0 {
		er = signal / noise
	}
	sc := math.Pow(er*(a.fastSC-a.slowSC)+a.slowSC, a.power)

	prev := a.value
	a.value = prev + sc*(price-prev)
	a.steps = append(a.steps, a.value-prev)
	if len(a.steps) > a.period {
		a.steps = a.steps[1:]
	}
	a.ready = true
	return a.value, true
}

func (a *AMA) Value() float64 { return a.value }
func (a *AMA) Ready() bool    { return a.ready }

// Step is the change of the AMA on the last bar.
func (a *AMA) Step() float64 {
	if len(a.steps) == 0 {
		return 0
	}
	return a.steps[len(a.steps)-1]
}

// Threshold is k times the standard deviation of the recent steps.
func (a *AMA) Threshold(k float64) float64 {
	n := len(a.steps)
	if n < 2 {
		return 0
	}
	mean := 0.0
	for _, s := range a.steps {
		mean += s
	}
	mean /= float64(n)
	ss := 0.0
	for _, s := range a.steps {
		ss += (s - mean) * (s - mean)
	}
	return k * math.Sqrt(ss/float64(n))
}

func (a *AMA) Reset() {
	a.prices, a.steps = nil, nil
	a.value, a.ready = 0, false
}

// HeikenAshiAMA runs an AMA over Heiken-Ashi closes.
type HeikenAshiAMA struct {
	ha  HeikenAshi
	AMA *AMA
}

func NewHeikenAshiAMA(period, fast, slow int, power float64) (*HeikenAshiAMA, error) {
	a, err := NewAMA(period, fast, slow, power)
	if err != nil {
		return nil, err
	}
	return &HeikenAshiAMA{AMA: a}, nil
}

func (h *HeikenAshiAMA) Update(c types.Candle) (float64, bool) {
	return h.AMA.Update(h.ha.Update(c).Close)
}

func (h *HeikenAshiAMA) Reset() {
	h.ha.Reset()
	h.AMA.Reset()
}
