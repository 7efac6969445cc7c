package dataframe

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameParquetRoundTrip(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f := NewFrame(
		Row{Key: "a", DS: base, Y: 1.5, X: map[string]float64{"promo": 1.0}},
		Row{Key: "a", DS: base.Add(time.Hour), Y: 2.5, X: map[string]float64{"promo": 0.0}},
		Row{Key: "b", DS: base, Y: -3.0},
	)

	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, f))

	parsed, err := ReadFrame(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Equal(t, f.Len(), parsed.Len())

	for i, row := range parsed.Rows() {
		expected := f.Rows()[i]
		assert.Equal(t, expected.Key, row.Key)
		assert.True(t, expected.DS.Equal(row.DS), "row %d timestamp", i)
		assert.InDelta(t, expected.Y, row.Y, 1e-12)
	}
	assert.InDelta(t, 1.0, parsed.Rows()[0].X["promo"], 1e-12)
}

func TestWriteFrameEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteFrame(&buf, NewFrame()), ErrEmptyFrame)
}

func TestResultParquetRoundTrip(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	res := NewResult(
		ResultRow{
			Key:           "a",
			DS:            base,
			Yhat:          10.0,
			YhatLower:     8.0,
			YhatUpper:     12.0,
			Trend:         9.0,
			AdditiveTerms: 1.0,
		},
		ResultRow{Key: "b", DS: base, Yhat: -1.0},
	)

	path := filepath.Join(t.TempDir(), "result.parq")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteResult(f, res))
	require.NoError(t, f.Close())

	parsed, err := ReadResultFile(path)
	require.NoError(t, err)
	require.Equal(t, res.Len(), parsed.Len())

	first := parsed.Rows()[0]
	assert.Equal(t, "a", first.Key)
	assert.True(t, base.Equal(first.DS))
	assert.InDelta(t, 10.0, first.Yhat, 1e-12)
	assert.InDelta(t, 8.0, first.YhatLower, 1e-12)
	assert.InDelta(t, 12.0, first.YhatUpper, 1e-12)
	assert.InDelta(t, 9.0, first.Trend, 1e-12)
	assert.InDelta(t, 1.0, first.AdditiveTerms, 1e-12)
}
