package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	echartstypes "github.com/go-echarts/go-echarts/v2/types"

	"github.com/evdnx/barstrat/types"
)

const (
	chartWidth  = "1600px"
	chartHeight = "800px"
)

func initOpts(title string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     chartWidth,
			Height:    chartHeight,
			Theme:     echartstypes.ThemeInfographic,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: true,
		}),
	}
}

// RenderChart writes one HTML page holding two charts. The first shows the
// candles with buy and sell fills as triangles on top, the second the
// realized equity after every trade.
func RenderChart(w io.Writer, title string, candles []types.Candle, fills []types.Fill, startEquity float64) error {
	if len(candles) == 0 {
		return fmt.Errorf("no candles to chart")
	}

	kline := charts.NewKLine()
	kline.SetGlobalOptions(append(initOpts(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
			Type:       "inside",
		}),
	)...)

	x := make([]time.Time, 0, len(candles))
	klineY := make([]opts.KlineData, 0, len(candles))
	for _, c := range candles {
		x = append(x, c.Time)
		klineY = append(klineY, opts.KlineData{Value: []float64{c.Open, c.Close, c.Low, c.High}})
	}
	buys, sells := markFills(candles, fills)

	kline.SetXAxis(x).
		AddSeries("Price", klineY).
		SetSeriesOptions(
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color:        "#00000000",
				Color0:       "#00000000",
				BorderColor:  "#00AA00",
				BorderColor0: "#DD0000",
			}),
		)

	scatterBuy := charts.NewScatter()
	scatterBuy.SetGlobalOptions(initOpts(title)...)
	scatterBuy.SetXAxis(x).
		AddSeries("Buys", buys).
		SetSeriesOptions(charts.WithItemStyleOpts(opts.ItemStyle{Color: "#22BB22"}))

	scatterSell := charts.NewScatter()
	scatterSell.SetGlobalOptions(initOpts(title)...)
	scatterSell.SetXAxis(x).
		AddSeries("Sells", sells).
		SetSeriesOptions(charts.WithItemStyleOpts(opts.ItemStyle{Color: "#DD2222"}))

	kline.Overlap(scatterBuy)
	kline.Overlap(scatterSell)

	curve := EquityCurve(fills, startEquity)
	tradeX := make([]int, len(curve))
	lineY := make([]opts.LineData, len(curve))
	for i, v := range curve {
		tradeX[i] = i
		lineY[i] = opts.LineData{Value: v}
	}
	line := charts.NewLine()
	line.SetGlobalOptions(append(initOpts(title),
		charts.WithTitleOpts(opts.Title{Title: "Realized equity"}),
	)...)
	line.SetXAxis(tradeX).AddSeries("Equity", lineY)

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(kline, line)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render chart page: %w", err)
	}
	return nil
}

// markFills puts each fill on the last candle that opened at or before it.
// Several fills of one side on the same candle, such as the close and the
// re-entry of a flip, share one marker whose name lists all of them.
func markFills(candles []types.Candle, fills []types.Fill) (buys, sells []opts.ScatterData) {
	buys = make([]opts.ScatterData, len(candles))
	sells = make([]opts.ScatterData, len(candles))
	j := 0
	for _, f := range fills {
		for j+1 < len(candles) && !candles[j+1].Time.After(f.Time) {
			j++
		}
		marks := sells
		if f.Side == types.Buy {
			marks = buys
		}
		name := fmt.Sprintf("%s %g @ %g", f.Side, f.Qty, f.Price)
		if marks[j].SymbolSize > 0 {
			marks[j].Name += "; " + name
			continue
		}
		marks[j] = opts.ScatterData{
			Value:      f.Price,
			Symbol:     "triangle",
			SymbolSize: 14,
			Name:       name,
		}
		if f.Side == types.Sell {
			marks[j].SymbolRotate = 180
		}
	}
	return buys, sells
}
