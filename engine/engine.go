// Package engine defines the pluggable forecast computation contract and its
// three interchangeable implementations: zero, local, and remote.
package engine

import (
	"context"
	"errors"

	"github.com/aouyang1/hyperprophet/dataframe"
	"github.com/aouyang1/hyperprophet/options"
)

var (
	ErrUnknownEngine    = errors.New("unknown engine")
	ErrInvalidSelector  = errors.New("engine selector must be an Engine, a registered name, or nil")
	ErrUnknownSeriesKey = errors.New("predict frame contains keys not present at fit time")
	ErrNoFitFrame       = errors.New("no fit frame")
	ErrNoPredictFrame   = errors.New("no predict frame")
	ErrJobFailed        = errors.New("remote job finished without success")
)

// Engine is the capability every computation strategy satisfies: produce a
// result frame for the given fit and predict frames, carrying the options
// verbatim to the computation boundary.
type Engine interface {
	Forecast(ctx context.Context, fit, predict *dataframe.Frame, opt *options.Options) (*dataframe.Result, error)
}
