package hyperprophet

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aouyang1/hyperprophet/dataframe"
	"github.com/aouyang1/hyperprophet/engine"
)

func fitFrame(keys []string, start time.Time, n int) *dataframe.Frame {
	f := dataframe.NewFrame()
	for ki, key := range keys {
		for i := 0; i < n; i++ {
			y := float64(ki+1)*10.0 + 2.0*math.Sin(2.0*math.Pi*float64(i)/24.0)
			f.Append(dataframe.Row{
				Key: key,
				DS:  start.Add(time.Duration(i) * time.Hour),
				Y:   y,
			})
		}
	}
	return f
}

func TestForecasterZeroEngine(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	f, err := New(nil, "zero")
	require.NoError(t, err)
	require.NoError(t, f.Fit(fitFrame([]string{"s1", "s2"}, start, 48)))
	assert.Equal(t, []string{"s1", "s2"}, f.Keys())

	// predicting over a frame holding only one of the fit keys yields rows
	// for exactly that key
	predict := dataframe.NewFrame(
		dataframe.Row{Key: "s1", DS: start.Add(48 * time.Hour)},
		dataframe.Row{Key: "s1", DS: start.Add(49 * time.Hour)},
	)
	res, err := f.Predict(context.Background(), predict)
	require.NoError(t, err)
	require.Equal(t, 2, res.Len())
	for _, row := range res.Rows() {
		assert.Equal(t, "s1", row.Key)
		assert.Zero(t, row.Yhat)
	}
}

func TestForecasterPredictNilFrame(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fit := fitFrame([]string{"s1", "s2"}, start, 24)

	f, err := New(nil, "zero")
	require.NoError(t, err)
	require.NoError(t, f.Fit(fit))

	res, err := f.Predict(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, fit.Len(), res.Len())
}

func TestForecasterPredictBeforeFit(t *testing.T) {
	f, err := New(nil, "zero")
	require.NoError(t, err)

	_, err = f.Predict(context.Background(), nil)
	require.ErrorIs(t, err, ErrNotFit)

	_, err = f.MakeFutureDataFrame(3, time.Hour, false)
	require.ErrorIs(t, err, ErrNotFit)
}

func TestForecasterFitEmptyFrame(t *testing.T) {
	f, err := New(nil, "zero")
	require.NoError(t, err)
	require.ErrorIs(t, f.Fit(dataframe.NewFrame()), dataframe.ErrEmptyFrame)
}

func TestForecasterEngineInstance(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	f, err := New(nil, engine.NewZeroEngine())
	require.NoError(t, err)
	require.NoError(t, f.Fit(fitFrame([]string{"s1"}, start, 24)))

	res, err := f.Predict(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 24, res.Len())
}

func TestForecasterUnknownEngine(t *testing.T) {
	_, err := New(nil, "prophet")
	require.ErrorIs(t, err, engine.ErrUnknownEngine)
}

func TestMakeFutureDataFrame(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	f, err := New(nil, "zero")
	require.NoError(t, err)
	require.NoError(t, f.Fit(fitFrame([]string{"s1", "s2"}, start, 4)))

	future, err := f.MakeFutureDataFrame(3, time.Hour, false)
	require.NoError(t, err)

	// key-major cross product: 2 keys x 3 periods
	require.Equal(t, 6, future.Len())
	assert.Equal(t, []string{"s1", "s2"}, future.Keys())

	last := start.Add(3 * time.Hour)
	rows := future.Rows()
	for ki, key := range []string{"s1", "s2"} {
		for i := 0; i < 3; i++ {
			row := rows[ki*3+i]
			assert.Equal(t, key, row.Key)
			assert.True(t, last.Add(time.Duration(i+1)*time.Hour).Equal(row.DS))
		}
	}
}

func TestMakeFutureDataFrameIncludeHistory(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	f, err := New(nil, "zero")
	require.NoError(t, err)
	require.NoError(t, f.Fit(fitFrame([]string{"s1"}, start, 4)))

	future, err := f.MakeFutureDataFrame(2, time.Hour, true)
	require.NoError(t, err)
	require.Equal(t, 6, future.Len())
	assert.True(t, start.Equal(future.Rows()[0].DS))
}

func TestMakeFutureDataFrameValidation(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	f, err := New(nil, "zero")
	require.NoError(t, err)
	require.NoError(t, f.Fit(fitFrame([]string{"s1"}, start, 4)))

	_, err = f.MakeFutureDataFrame(0, time.Hour, false)
	require.ErrorIs(t, err, ErrNoPeriods)

	_, err = f.MakeFutureDataFrame(3, 0, false)
	require.ErrorIs(t, err, ErrInvalidFrequency)
}

func TestForecasterLocalEndToEnd(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	f, err := New(nil, "local")
	require.NoError(t, err)
	require.NoError(t, f.Fit(fitFrame([]string{"s1", "s2"}, start, 24*5)))

	future, err := f.MakeFutureDataFrame(24, time.Hour, false)
	require.NoError(t, err)

	res, err := f.Predict(context.Background(), future)
	require.NoError(t, err)
	require.Equal(t, future.Len(), res.Len())

	for _, row := range res.Rows() {
		expected := 10.0
		if row.Key == "s2" {
			expected = 20.0
		}
		assert.InDelta(t, expected, row.Yhat, 4.0)
		assert.LessOrEqual(t, row.YhatLower, row.Yhat)
		assert.GreaterOrEqual(t, row.YhatUpper, row.Yhat)
	}
}
