package feed

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/evdnx/barstrat/types"
)

func TestCSVFeedParsesHeaderAndFormats(t *testing.T) {
	data := `time,open,high,low,close,volume
2024-01-02T00:00:00Z,100,101,99,100.5,10
1704153660,100.5,102,100,101.5,12
# comment lines are skipped
2024-01-02T00:02:00Z,101.5,103,101,102,8
`
	f := NewCSVFeed(strings.NewReader(data), "EURUSD")
	var got []types.Candle
	for {
		c, err := f.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, c)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 candles, got %d", len(got))
	}
	if got[0].Symbol != "EURUSD" || got[0].Close != 100.5 || got[0].Volume != 10 {
		t.Fatalf("unexpected first candle %+v", got[0])
	}
	want := time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC)
	if !got[1].Time.Equal(want) {
		t.Fatalf("unix time not parsed: %v", got[1].Time)
	}
}

func TestCSVFeedRejectsBadRow(t *testing.T) {
	data := "2024-01-02T00:00:00Z,100,101,99,100,1\n2024-01-02T00:01:00Z,100,99,101,100,1\n"
	f := NewCSVFeed(strings.NewReader(data), "X")
	if _, err := f.Next(); err != nil {
		t.Fatalf("first row should parse: %v", err)
	}
	if _, err := f.Next(); err == nil || errors.Is(err, io.EOF) {
		t.Fatalf("expected error for high < low, got %v", err)
	}
}

func TestAggregatorBuckets(t *testing.T) {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	agg := NewAggregator(5 * time.Minute)
	var done []types.Candle
	for i := 0; i < 12; i++ {
		p := 100 + float64(i)
		c := types.Candle{
			Time:  base.Add(time.Duration(i) * time.Minute),
			Open: p, High: p + 1, Low: p - 1, Close: p + 0.5, Volume: 1,
		}
		if out, ok := agg.Add(c); ok {
			done = append(done, out)
		}
	}
	if len(done) != 2 {
		t.Fatalf("expected 2 completed buckets, got %d", len(done))
	}
	first := done[0]
	if !first.Time.Equal(base) || first.Open != 100 || first.High != 105 ||
		first.Low != 99 || first.Close != 104.5 || first.Volume != 5 {
		t.Fatalf("unexpected first bucket %+v", first)
	}
	last, ok := agg.Flush()
	if !ok || last.Volume != 2 || last.Close != 111.5 {
		t.Fatalf("unexpected partial bucket %+v ok=%v", last, ok)
	}
	if _, ok := agg.Flush(); ok {
		t.Fatal("second flush should be empty")
	}
}

func TestAggregatorPassThrough(t *testing.T) {
	agg := NewAggregator(0)
	c := types.Candle{Close: 1}
	if out, ok := agg.Add(c); !ok || out != c {
		t.Fatal("zero timeframe should pass candles through")
	}
	if _, ok := agg.Flush(); ok {
		t.Fatal("pass-through has nothing to flush")
	}
}

func TestRecorderKeepsCandles(t *testing.T) {
	t0 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	src := NewSliceFeed([]types.Candle{
		{Time: t0, Close: 1},
		{Time: t0.Add(time.Minute), Close: 2},
	})
	r := NewRecorder(src)
	for {
		if _, err := r.Next(); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			t.Fatal(err)
		}
	}
	got := r.Candles()
	if len(got) != 2 || got[1].Close != 2 {
		t.Fatalf("unexpected recorded candles %+v", got)
	}
}
