// Package feed supplies candles to the runner: from memory, from CSV files
// and resampled to larger timeframes.
package feed

import (
	"io"

	"github.com/evdnx/barstrat/types"
)

// Feed yields candles in time order and io.EOF once exhausted.
type Feed interface {
	Next() (types.Candle, error)
}

// SliceFeed replays an in-memory slice.
type SliceFeed struct {
	candles []types.Candle
	pos     int
}

func NewSliceFeed(candles []types.Candle) *SliceFeed {
	return &SliceFeed{candles: candles}
}

func (f *SliceFeed) Next() (types.Candle, error) {
	if f.pos >= len(f.candles) {
		return types.Candle{}, io.EOF
	}
	c := f.candles[f.pos]
	f.pos++
	return c, nil
}

// Recorder passes candles through from another feed and keeps a copy of
// each one, so a run can be charted afterwards.
type Recorder struct {
	src     Feed
	candles []types.Candle
}

func NewRecorder(src Feed) *Recorder { return &Recorder{src: src} }

func (r *Recorder) Next() (types.Candle, error) {
	c, err := r.src.Next()
	if err == nil {
		r.candles = append(r.candles, c)
	}
	return c, err
}

// Candles returns everything read so far.
func (r *Recorder) Candles() []types.Candle { return r.candles }
