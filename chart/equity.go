// Package chart renders backtest output as PNG images for reports.
package chart

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/rustyeddy/marginsim/market"
)

// RenderEquity renders the levered and unlevered equity curves as a PNG
// line chart. Levered is blue solid, unlevered gray dashed. Returns raw
// PNG bytes.
func RenderEquity(levered, unlevered []market.TimePoint) ([]byte, error) {
	if len(levered) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(levered))
	}

	leveredSeries := chart.TimeSeries{
		Name: "Levered Equity",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues(levered),
		YValues: yValues(levered),
	}

	unleveredSeries := chart.TimeSeries{
		Name: "Unlevered Equity",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues(unlevered),
		YValues: yValues(unlevered),
	}

	graph := chart.Chart{
		Title:  "Equity Curve",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			leveredSeries,
			unleveredSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteEquityPNG renders both curves and writes the result to path.
func WriteEquityPNG(path string, levered, unlevered []market.TimePoint) error {
	png, err := RenderEquity(levered, unlevered)
	if err != nil {
		return err
	}
	return os.WriteFile(path, png, 0644)
}

func xValues(points []market.TimePoint) []time.Time {
	out := make([]time.Time, len(points))
	for i, p := range points {
		out[i] = p.Date
	}
	return out
}

func yValues(points []market.TimePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}
