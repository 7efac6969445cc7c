package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aouyang1/hyperprophet/dataframe"
	"github.com/aouyang1/hyperprophet/forecast"
	"github.com/aouyang1/hyperprophet/options"
)

// LocalEngine partitions the input by series key and fits the forecast model
// once per key in-process. Keys are processed sequentially; the first model
// failure aborts the whole call with no partial result.
type LocalEngine struct{}

// NewLocalEngine creates an in-process forecast engine.
func NewLocalEngine() *LocalEngine {
	return &LocalEngine{}
}

// Forecast fits and predicts every series present in the predict frame. The
// predict frame's key set must be a subset of the fit frame's keys; any
// unknown key fails the whole call before any model is fit.
func (e *LocalEngine) Forecast(ctx context.Context, fit, predict *dataframe.Frame, opt *options.Options) (*dataframe.Result, error) {
	if fit.Len() == 0 {
		return nil, ErrNoFitFrame
	}
	if predict.Len() == 0 {
		return nil, ErrNoPredictFrame
	}
	if opt == nil {
		opt = options.NewDefaultOptions()
	}

	_, fitParts := fit.Partition()
	predictKeys, predictParts := predict.Partition()

	var missing []string
	for _, key := range predictKeys {
		if _, exists := fitParts[key]; !exists {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s, %w", strings.Join(missing, ", "), ErrUnknownSeriesKey)
	}

	res := dataframe.NewResult()
	for _, key := range predictKeys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		keyRes, err := forecastKey(fitParts[key], predictParts[key], opt)
		if err != nil {
			return nil, fmt.Errorf("series %q, %w", key, err)
		}
		res.Append(keyRes...)
	}
	return res, nil
}

// forecastKey strips the key column, runs the model over one series, and
// re-attaches the key to each output row.
func forecastKey(fit, predict *dataframe.Frame, opt *options.Options) ([]dataframe.ResultRow, error) {
	fitT, fitY, fitX := seriesColumns(fit, opt)
	predictT, _, predictX := seriesColumns(predict, opt)

	model, err := forecast.New(opt)
	if err != nil {
		return nil, err
	}
	if err := model.Fit(fitT, fitY, fitX); err != nil {
		return nil, err
	}

	pred, err := model.Predict(predictT, predictX)
	if err != nil {
		return nil, err
	}

	key := predict.Rows()[0].Key
	rows := make([]dataframe.ResultRow, 0, len(predictT))
	for i := range predictT {
		rows = append(rows, dataframe.ResultRow{
			Key:                      key,
			DS:                       predictT[i],
			Yhat:                     pred.Yhat[i],
			YhatLower:                pred.YhatLower[i],
			YhatUpper:                pred.YhatUpper[i],
			Trend:                    pred.Trend[i],
			TrendLower:               pred.Trend[i],
			TrendUpper:               pred.Trend[i],
			AdditiveTerms:            pred.Additive[i],
			AdditiveTermsLower:       pred.Additive[i],
			AdditiveTermsUpper:       pred.Additive[i],
			MultiplicativeTerms:      pred.Multiplicative[i],
			MultiplicativeTermsLower: pred.Multiplicative[i],
			MultiplicativeTermsUpper: pred.Multiplicative[i],
		})
	}
	return rows, nil
}

// seriesColumns flattens a single-key frame into the model's column inputs,
// pulling only the regressor columns registered in the options. A registered
// column no row carries is left out entirely so the model's own validation
// reports it instead of fitting on zero-filled inputs.
func seriesColumns(f *dataframe.Frame, opt *options.Options) ([]time.Time, []float64, map[string][]float64) {
	rows := f.Rows()
	t := make([]time.Time, 0, len(rows))
	y := make([]float64, 0, len(rows))

	var x map[string][]float64
	if len(opt.Regressors) > 0 {
		x = make(map[string][]float64, len(opt.Regressors))
		for name := range opt.Regressors {
			for _, row := range rows {
				if _, exists := row.X[name]; exists {
					x[name] = make([]float64, 0, len(rows))
					break
				}
			}
		}
		if len(x) == 0 {
			x = nil
		}
	}

	for _, row := range rows {
		t = append(t, row.DS)
		y = append(y, row.Y)
		for name := range x {
			x[name] = append(x[name], row.X[name])
		}
	}
	return t, y, x
}
