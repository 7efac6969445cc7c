// Package hyperprophet fits per-key time-series forecasting models and
// generates predictions through interchangeable computation engines: a
// zero-filled engine for contract testing, an in-process model, or a remote
// compute service driven through an asynchronous job lifecycle.
package hyperprophet

import (
	"context"
	"errors"
	"time"

	"github.com/aouyang1/hyperprophet/dataframe"
	"github.com/aouyang1/hyperprophet/engine"
	"github.com/aouyang1/hyperprophet/job"
	"github.com/aouyang1/hyperprophet/options"
)

var (
	ErrNotFit           = errors.New("forecaster has not been fit yet")
	ErrNoPeriods        = errors.New("periods must be positive")
	ErrInvalidFrequency = errors.New("frequency must be positive")
)

// Forecaster adapts a fit/predict contract onto a forecast engine. The engine
// is bound once at construction and is immutable thereafter. Fitting is
// deferred entirely to the engine at predict time; Fit only stores the data.
type Forecaster struct {
	opt    *options.Options
	engine engine.Engine

	fitFrame *dataframe.Frame
	keys     []string
	history  []time.Time
}

// New creates a Forecaster with the given options and engine selector. The
// selector may be an engine.Engine instance, a registered engine name, or nil
// for the default binding. If no options are provided a default is used.
func New(opt *options.Options, engineSelector any) (*Forecaster, error) {
	if opt == nil {
		opt = options.NewDefaultOptions()
	}

	eng, err := engine.Resolve(engineSelector)
	if err != nil {
		return nil, err
	}

	return &Forecaster{
		opt:    opt,
		engine: eng,
	}, nil
}

// Fit stores the fit frame, its series keys in first-seen order, and the
// distinct history timestamps. No computation happens here.
func (f *Forecaster) Fit(frame *dataframe.Frame) error {
	if frame.Len() == 0 {
		return dataframe.ErrEmptyFrame
	}

	f.fitFrame = frame
	f.keys = frame.Keys()
	f.history = frame.UniqueTimes()
	return nil
}

// Predict derives the engine options from the Forecaster's configuration and
// delegates to the bound engine. A nil frame predicts over the stored fit
// frame's rows.
func (f *Forecaster) Predict(ctx context.Context, frame *dataframe.Frame) (*dataframe.Result, error) {
	if f.fitFrame == nil {
		return nil, ErrNotFit
	}
	if frame == nil {
		frame = f.fitFrame
	}
	return f.engine.Forecast(ctx, f.fitFrame, frame, f.opt.Copy())
}

// Keys returns the series keys seen at fit time in first-seen order.
func (f *Forecaster) Keys() []string {
	keys := make([]string, len(f.keys))
	copy(keys, f.keys)
	return keys
}

// MakeFutureDataFrame generates the future date range for a single series and
// takes the cross product with the distinct fit-time keys, producing one row
// per (key, timestamp) pair. The range extends periods steps of freq past the
// last history timestamp; includeHistory prepends the history timestamps.
func (f *Forecaster) MakeFutureDataFrame(periods int, freq time.Duration, includeHistory bool) (*dataframe.Frame, error) {
	if f.fitFrame == nil {
		return nil, ErrNotFit
	}
	if periods <= 0 {
		return nil, ErrNoPeriods
	}
	if freq <= 0 {
		return nil, ErrInvalidFrequency
	}

	last := f.history[len(f.history)-1]
	dates := make([]time.Time, 0, len(f.history)+periods)
	if includeHistory {
		dates = append(dates, f.history...)
	}
	for i := 1; i <= periods; i++ {
		dates = append(dates, last.Add(freq*time.Duration(i)))
	}

	frame := dataframe.NewFrame()
	for _, key := range f.keys {
		for _, ds := range dates {
			frame.Append(dataframe.Row{Key: key, DS: ds})
		}
	}
	return frame, nil
}

// Setup stores the process-wide default access token and endpoint consumed by
// any later remote engine construction that omits explicit credentials. Pass
// an empty endpoint to keep the production default.
func Setup(accessToken, endpoint string) {
	job.Setup(accessToken, endpoint)
}
