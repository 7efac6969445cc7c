package options

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultOptions(t *testing.T) {
	opt := NewDefaultOptions()
	assert.Equal(t, GrowthLinear, opt.Growth)
	assert.Equal(t, 25, opt.NChangepoints)
	assert.InDelta(t, 0.8, opt.ChangepointRange, 1e-12)
	assert.InDelta(t, 0.8, opt.IntervalWidth, 1e-12)
	assert.Equal(t, SeasonalityModeAdditive, opt.SeasonalityMode)
	assert.True(t, opt.YearlySeasonality.IsAuto())
	assert.True(t, opt.WeeklySeasonality.IsAuto())
	assert.True(t, opt.DailySeasonality.IsAuto())
}

func TestValidate(t *testing.T) {
	testData := map[string]struct {
		modify    func(*Options)
		forRemote bool
		expErr    error
	}{
		"defaults local": {
			modify: func(o *Options) {},
		},
		"defaults remote rejects auto": {
			modify:    func(o *Options) {},
			forRemote: true,
			expErr:    ErrAutoSeasonalityUnsupported,
		},
		"remote with explicit toggles": {
			modify: func(o *Options) {
				o.YearlySeasonality = DisabledToggle()
				o.WeeklySeasonality = OrderToggle(3)
				o.DailySeasonality = EnabledToggle()
			},
			forRemote: true,
		},
		"unknown growth": {
			modify: func(o *Options) { o.Growth = "exponential" },
			expErr: ErrUnknownGrowth,
		},
		"unknown seasonality mode": {
			modify: func(o *Options) { o.SeasonalityMode = "mixed" },
			expErr: ErrUnknownSeasonalityMode,
		},
		"interval width too large": {
			modify: func(o *Options) { o.IntervalWidth = 1.0 },
			expErr: ErrInvalidIntervalWidth,
		},
		"changepoint range too large": {
			modify: func(o *Options) { o.ChangepointRange = 1.5 },
			expErr: ErrInvalidChangepointRange,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt := NewDefaultOptions()
			td.modify(opt)

			err := opt.Validate(td.forRemote)
			if td.expErr != nil {
				require.ErrorIs(t, err, td.expErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode([]byte(`{"growth": "flat", "not_a_real_option": 1}`))
	require.Error(t, err)
}

func TestDecode(t *testing.T) {
	opt, err := Decode([]byte(`{
		"growth": "flat",
		"n_changepoints": 10,
		"yearly_seasonality": false,
		"weekly_seasonality": 5,
		"daily_seasonality": "auto",
		"seasonalities": {"monthly": {"period": 30.5, "fourier_order": 5}},
		"regressors": {"promo": {"standardize": true}}
	}`))
	require.NoError(t, err)

	assert.Equal(t, GrowthFlat, opt.Growth)
	assert.Equal(t, 10, opt.NChangepoints)
	assert.False(t, opt.YearlySeasonality.Enabled())
	assert.False(t, opt.YearlySeasonality.IsAuto())
	assert.True(t, opt.WeeklySeasonality.Enabled())
	assert.Equal(t, 5, opt.WeeklySeasonality.Order())
	assert.True(t, opt.DailySeasonality.IsAuto())
	assert.InDelta(t, 30.5, opt.Seasonalities["monthly"].PeriodDays, 1e-12)
	assert.True(t, opt.Regressors["promo"].Standardize)

	// unset keys keep their defaults
	assert.InDelta(t, 0.8, opt.IntervalWidth, 1e-12)
}

func TestOptionsSerializationRoundTrip(t *testing.T) {
	opt := NewDefaultOptions()
	opt.Growth = GrowthLinear
	opt.Changepoints = []time.Time{time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)}
	opt.WeeklySeasonality = OrderToggle(4)
	opt.YearlySeasonality = DisabledToggle()
	opt.DailySeasonality = EnabledToggle()

	data, err := json.Marshal(opt)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, opt.Changepoints, decoded.Changepoints)
	assert.Equal(t, opt.WeeklySeasonality, decoded.WeeklySeasonality)
	assert.Equal(t, opt.YearlySeasonality, decoded.YearlySeasonality)
	assert.Equal(t, opt.DailySeasonality, decoded.DailySeasonality)
}

func TestCopy(t *testing.T) {
	opt := NewDefaultOptions()
	opt.Seasonalities = map[string]Seasonality{"monthly": {PeriodDays: 30.5, FourierOrder: 5}}
	opt.Changepoints = []time.Time{time.Now()}

	cp := opt.Copy()
	cp.Seasonalities["monthly"] = Seasonality{PeriodDays: 7}
	cp.Changepoints[0] = time.Time{}

	assert.InDelta(t, 30.5, opt.Seasonalities["monthly"].PeriodDays, 1e-12)
	assert.False(t, opt.Changepoints[0].IsZero())
}
