package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/evdnx/barstrat/types"
)

// CSVFeed reads time,open,high,low,close,volume rows. A first row whose
// time column does not parse is treated as a header. Times may be RFC3339
// (or any layout spf13/cast understands) or unix seconds.
type CSVFeed struct {
	r      *csv.Reader
	closer io.Closer
	symbol string
	line   int
}

// NewCSVFeed wraps r; every candle is stamped with symbol.
func NewCSVFeed(r io.Reader, symbol string) *CSVFeed {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	return &CSVFeed{r: cr, symbol: symbol}
}

// OpenCSV opens path; Close releases the file.
func OpenCSV(path, symbol string) (*CSVFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candles: %w", err)
	}
	feed := NewCSVFeed(f, symbol)
	feed.closer = f
	return feed, nil
}

func (f *CSVFeed) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

func (f *CSVFeed) Next() (types.Candle, error) {
	for {
		rec, err := f.r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return types.Candle{}, io.EOF
			}
			return types.Candle{}, fmt.Errorf("candles line %d: %w", f.line+1, err)
		}
		f.line++
		c, err := f.parse(rec)
		if err != nil {
			if f.line == 1 {
				continue // header
			}
			return types.Candle{}, fmt.Errorf("candles line %d: %w", f.line, err)
		}
		return c, nil
	}
}

func (f *CSVFeed) parse(rec []string) (types.Candle, error) {
	if len(rec) < 5 {
		return types.Candle{}, fmt.Errorf("expected at least 5 columns, got %d", len(rec))
	}
	ts, err := parseTime(rec[0])
	if err != nil {
		return types.Candle{}, err
	}
	vals := make([]float64, 5)
	for i := 1; i < len(rec) && i <= 5; i++ {
		v, err := cast.ToFloat64E(strings.TrimSpace(rec[i]))
		if err != nil {
			return types.Candle{}, fmt.Errorf("column %d: %w", i+1, err)
		}
		vals[i-1] = v
	}
	c := types.Candle{
		Symbol: f.symbol,
		Time:   ts,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}
	if c.High < c.Low || c.Open <= 0 || c.Close <= 0 {
		return types.Candle{}, fmt.Errorf("inconsistent candle %+v", c)
	}
	return c, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if secs, err := cast.ToInt64E(s); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return cast.ToTimeE(s)
}
