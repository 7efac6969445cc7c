package hyperprophet

import (
	"io"
	"time"

	"github.com/aouyang1/hyperprophet/dataframe"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// PlotForecast uses the Apache Echarts library to render one chart per series
// key showing the actual fit data next to the forecast and its uncertainty
// bounds. The output is a standalone html page.
func PlotForecast(w io.Writer, fit *dataframe.Frame, res *dataframe.Result) error {
	_, fitParts := fit.Partition()

	page := components.NewPage()
	for _, key := range res.Keys() {
		page.AddCharts(lineForecast(key, fitParts[key], res))
	}
	return page.Render(w)
}

func lineForecast(key string, fit *dataframe.Frame, res *dataframe.Result) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Forecast: " + key,
			},
		),
	)

	var xAxis []time.Time
	lineDataForecast := make([]opts.LineData, 0, res.Len())
	lineDataUpper := make([]opts.LineData, 0, res.Len())
	lineDataLower := make([]opts.LineData, 0, res.Len())
	for _, row := range res.Rows() {
		if row.Key != key {
			continue
		}
		xAxis = append(xAxis, row.DS)
		lineDataForecast = append(lineDataForecast, opts.LineData{Value: row.Yhat})
		lineDataUpper = append(lineDataUpper, opts.LineData{Value: row.YhatUpper})
		lineDataLower = append(lineDataLower, opts.LineData{Value: row.YhatLower})
	}

	line.SetXAxis(xAxis).
		AddSeries("Forecast", lineDataForecast).
		AddSeries("Upper", lineDataUpper).
		AddSeries("Lower", lineDataLower)

	if fit.Len() > 0 {
		lineDataActual := make([]opts.LineData, 0, fit.Len())
		for _, row := range fit.Rows() {
			lineDataActual = append(lineDataActual, opts.LineData{Value: row.Y})
		}
		line.AddSeries("Actual", lineDataActual)
	}
	return line
}
