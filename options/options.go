// Package options contains the forecast configuration carried from the
// Forecaster through an engine to the computation boundary. Every recognized
// parameter is enumerated explicitly with its default; unknown keys are
// rejected on decode instead of being passed through silently.
package options

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

const (
	GrowthLinear   = "linear"
	GrowthLogistic = "logistic"
	GrowthFlat     = "flat"

	SeasonalityModeAdditive       = "additive"
	SeasonalityModeMultiplicative = "multiplicative"
)

var (
	ErrUnknownGrowth              = errors.New("unknown growth type")
	ErrUnknownSeasonalityMode     = errors.New("unknown seasonality mode")
	ErrAutoSeasonalityUnsupported = errors.New("auto seasonality is not supported by the remote protocol")
	ErrInvalidIntervalWidth       = errors.New("interval width must be within (0, 1)")
	ErrInvalidChangepointRange    = errors.New("changepoint range must be within (0, 1]")
)

// Options enumerates every recognized forecasting parameter. Values are
// carried verbatim to the computation boundary and are not interpreted by the
// engine plumbing.
type Options struct {
	Growth                string      `json:"growth,omitempty"`
	Changepoints          []time.Time `json:"changepoints,omitempty"`
	NChangepoints         int         `json:"n_changepoints,omitempty"`
	ChangepointRange      float64     `json:"changepoint_range,omitempty"`
	ChangepointPriorScale float64     `json:"changepoint_prior_scale,omitempty"`

	MCMCSamples        int     `json:"mcmc_samples,omitempty"`
	IntervalWidth      float64 `json:"interval_width,omitempty"`
	UncertaintySamples int     `json:"uncertainty_samples,omitempty"`

	YearlySeasonality     Toggle  `json:"yearly_seasonality"`
	WeeklySeasonality     Toggle  `json:"weekly_seasonality"`
	DailySeasonality      Toggle  `json:"daily_seasonality"`
	SeasonalityMode       string  `json:"seasonality_mode,omitempty"`
	SeasonalityPriorScale float64 `json:"seasonality_prior_scale,omitempty"`

	Seasonalities map[string]Seasonality `json:"seasonalities,omitempty"`
	Regressors    map[string]Regressor   `json:"regressors,omitempty"`

	CountryHolidays string `json:"country_holidays,omitempty"`
}

// Seasonality describes a custom seasonal component added on top of the
// built-in yearly/weekly/daily toggles.
type Seasonality struct {
	// PeriodDays is the period of the seasonality in days.
	PeriodDays   float64 `json:"period"`
	FourierOrder int     `json:"fourier_order"`
	PriorScale   float64 `json:"prior_scale,omitempty"`
	Mode         string  `json:"mode,omitempty"`
}

// Regressor describes an extra regressor column expected in the fit and
// predict frames.
type Regressor struct {
	PriorScale  float64 `json:"prior_scale,omitempty"`
	Standardize bool    `json:"standardize,omitempty"`
	Mode        string  `json:"mode,omitempty"`
}

// NewDefaultOptions returns options populated with the underlying model's
// documented defaults.
func NewDefaultOptions() *Options {
	return &Options{
		Growth:                GrowthLinear,
		NChangepoints:         25,
		ChangepointRange:      0.8,
		ChangepointPriorScale: 0.05,
		IntervalWidth:         0.8,
		UncertaintySamples:    1000,
		SeasonalityMode:       SeasonalityModeAdditive,
		SeasonalityPriorScale: 10.0,
	}
}

// Validate checks option values that the engine plumbing does interpret. When
// forRemote is set the three built-in seasonality toggles must not be left at
// "auto" since the remote protocol has no equivalent.
func (o *Options) Validate(forRemote bool) error {
	if o == nil {
		return nil
	}

	switch o.Growth {
	case "", GrowthLinear, GrowthLogistic, GrowthFlat:
	default:
		return fmt.Errorf("%q, %w", o.Growth, ErrUnknownGrowth)
	}

	switch o.SeasonalityMode {
	case "", SeasonalityModeAdditive, SeasonalityModeMultiplicative:
	default:
		return fmt.Errorf("%q, %w", o.SeasonalityMode, ErrUnknownSeasonalityMode)
	}

	if o.IntervalWidth < 0 || o.IntervalWidth >= 1 {
		return fmt.Errorf("got %f, %w", o.IntervalWidth, ErrInvalidIntervalWidth)
	}
	if o.ChangepointRange < 0 || o.ChangepointRange > 1 {
		return fmt.Errorf("got %f, %w", o.ChangepointRange, ErrInvalidChangepointRange)
	}

	if forRemote {
		for _, tog := range map[string]Toggle{
			"yearly_seasonality": o.YearlySeasonality,
			"weekly_seasonality": o.WeeklySeasonality,
			"daily_seasonality":  o.DailySeasonality,
		} {
			if tog.IsAuto() {
				return ErrAutoSeasonalityUnsupported
			}
		}
	}
	return nil
}

// Copy returns a deep copy so a bound engine cannot observe later mutation.
func (o *Options) Copy() *Options {
	if o == nil {
		return nil
	}
	cp := *o
	cp.Changepoints = append([]time.Time(nil), o.Changepoints...)
	if o.Seasonalities != nil {
		cp.Seasonalities = make(map[string]Seasonality, len(o.Seasonalities))
		for name, s := range o.Seasonalities {
			cp.Seasonalities[name] = s
		}
	}
	if o.Regressors != nil {
		cp.Regressors = make(map[string]Regressor, len(o.Regressors))
		for name, r := range o.Regressors {
			cp.Regressors[name] = r
		}
	}
	return &cp
}

// Decode parses options from JSON, rejecting unknown keys.
func Decode(data []byte) (*Options, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	opt := NewDefaultOptions()
	if err := dec.Decode(opt); err != nil {
		return nil, fmt.Errorf("unable to decode options, %w", err)
	}
	return opt, nil
}
