package dataframe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame() *Frame {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return NewFrame(
		Row{Key: "b", DS: base, Y: 1.0},
		Row{Key: "a", DS: base, Y: 2.0},
		Row{Key: "b", DS: base.Add(time.Hour), Y: 3.0},
		Row{Key: "a", DS: base.Add(time.Hour), Y: 4.0},
	)
}

func TestFrameKeysFirstSeenOrder(t *testing.T) {
	f := testFrame()
	assert.Equal(t, []string{"b", "a"}, f.Keys())
}

func TestFramePartition(t *testing.T) {
	f := testFrame()

	keys, parts := f.Partition()
	require.Equal(t, []string{"b", "a"}, keys)
	require.Len(t, parts, 2)

	assert.Equal(t, 2, parts["a"].Len())
	assert.Equal(t, 2, parts["b"].Len())
	assert.Equal(t, []float64{1.0, 3.0}, []float64{parts["b"].Rows()[0].Y, parts["b"].Rows()[1].Y})
	assert.Equal(t, []float64{2.0, 4.0}, []float64{parts["a"].Rows()[0].Y, parts["a"].Rows()[1].Y})
}

func TestFrameUniqueTimes(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFrame(
		Row{Key: "a", DS: base.Add(time.Hour)},
		Row{Key: "b", DS: base},
		Row{Key: "a", DS: base},
	)

	assert.Equal(t, []time.Time{base, base.Add(time.Hour)}, f.UniqueTimes())
}

func TestNilFrame(t *testing.T) {
	var f *Frame
	assert.Equal(t, 0, f.Len())
	assert.Nil(t, f.Keys())
	assert.Nil(t, f.Rows())
}

func TestResultKeys(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	res := NewResult(
		ResultRow{Key: "s2", DS: base},
		ResultRow{Key: "s1", DS: base},
		ResultRow{Key: "s2", DS: base.Add(time.Hour)},
	)
	assert.Equal(t, []string{"s2", "s1"}, res.Keys())
	assert.Equal(t, 3, res.Len())
}
