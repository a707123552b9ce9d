package indicator

import (
	"time"

	"github.com/evdnx/barstrat/types"
)

// DefaultCapacity is enough history for every indicator used by the
// strategies (ADX(50) needs ~100 bars).
const DefaultCapacity = 512

// Series keeps a rolling window of recent candles as parallel OHLCV slices,
// the layout talib expects. It also exposes lightweight close statistics
// (trend direction, slope, volatility).
type Series struct {
	max     int
	times   []time.Time
	opens   []float64
	highs   []float64
	lows    []float64
	closes  []float64
	volumes []float64
}

func NewSeries(max int) *Series {
	if max <= 0 {
		max = DefaultCapacity
	}
	return &Series{max: max}
}

func (s *Series) Add(c types.Candle) {
	s.times = append(s.times, c.Time)
	s.opens = append(s.opens, c.Open)
	s.highs = append(s.highs, c.High)
	s.lows = append(s.lows, c.Low)
	s.closes = append(s.closes, c.Close)
	s.volumes = append(s.volumes, c.Volume)
	if n := len(s.closes); n > s.max {
		cut := n - s.max
		s.times = s.times[cut:]
		s.opens = s.opens[cut:]
		s.highs = s.highs[cut:]
		s.lows = s.lows[cut:]
		s.closes = s.closes[cut:]
		s.volumes = s.volumes[cut:]
	}
}

// Reset drops all history.
func (s *Series) Reset() {
	*s = Series{max: s.max}
}

func (s *Series) Len() int {
	return len(s.closes)
}

// The slice accessors return the backing arrays; callers must not modify them.
func (s *Series) Opens() []float64   { return s.opens }
func (s *Series) Highs() []float64   { return s.highs }
func (s *Series) Lows() []float64    { return s.lows }
func (s *Series) Closes() []float64  { return s.closes }
func (s *Series) Volumes() []float64 { return s.volumes }

// Candle returns the bar i positions back from the newest (0 = newest).
func (s *Series) Candle(back int) (types.Candle, bool) {
	i := len(s.closes) - 1 - back
	if back < 0 || i < 0 {
		return types.Candle{}, false
	}
	return types.Candle{
		Time:   s.times[i],
		Open:   s.opens[i],
		High:   s.highs[i],
		Low:    s.lows[i],
		Close:  s.closes[i],
		Volume: s.volumes[i],
	}, true
}

func (s *Series) Last() float64 {
	if len(s.closes) == 0 {
		return 0
	}
	return s.closes[len(s.closes)-1]
}

func (s *Series) Prev() float64 {
	if len(s.closes) < 2 {
		return 0
	}
	return s.closes[len(s.closes)-2]
}
