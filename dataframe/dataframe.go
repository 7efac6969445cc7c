// Package dataframe provides the tabular multi-series frames exchanged with
// forecast engines. A frame holds one row per (series key, timestamp) pair and
// multiple independent series may coexist in a single frame.
package dataframe

import (
	"errors"
	"slices"
	"time"
)

var ErrEmptyFrame = errors.New("empty frame")

// Row is a single observation of one series. Y is only meaningful at fit time
// and X carries optional extra regressor values keyed by column name.
type Row struct {
	Key string
	DS  time.Time
	Y   float64
	X   map[string]float64
}

// Frame is an ordered sequence of rows spanning one or more series keys.
type Frame struct {
	rows []Row
}

// NewFrame creates a frame from the given rows preserving their order.
func NewFrame(rows ...Row) *Frame {
	f := &Frame{rows: make([]Row, 0, len(rows))}
	f.rows = append(f.rows, rows...)
	return f
}

// Append adds rows to the end of the frame.
func (f *Frame) Append(rows ...Row) {
	f.rows = append(f.rows, rows...)
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.rows)
}

// Rows returns the backing row slice in frame order.
func (f *Frame) Rows() []Row {
	if f == nil {
		return nil
	}
	return f.rows
}

// Keys returns the distinct series keys in first-seen order.
func (f *Frame) Keys() []string {
	if f == nil {
		return nil
	}
	seen := make(map[string]struct{}, 8)
	keys := make([]string, 0, 8)
	for _, r := range f.rows {
		if _, exists := seen[r.Key]; exists {
			continue
		}
		seen[r.Key] = struct{}{}
		keys = append(keys, r.Key)
	}
	return keys
}

// Partition splits the frame into one sub-frame per series key, preserving
// row order within each key. The returned key slice is in first-seen order.
func (f *Frame) Partition() ([]string, map[string]*Frame) {
	keys := f.Keys()
	parts := make(map[string]*Frame, len(keys))
	for _, key := range keys {
		parts[key] = &Frame{}
	}
	for _, r := range f.Rows() {
		parts[r.Key].rows = append(parts[r.Key].rows, r)
	}
	return keys, parts
}

// UniqueTimes returns the distinct timestamps across all rows in ascending order.
func (f *Frame) UniqueTimes() []time.Time {
	if f == nil {
		return nil
	}
	seen := make(map[int64]struct{}, len(f.rows))
	ts := make([]time.Time, 0, len(f.rows))
	for _, r := range f.rows {
		ns := r.DS.UnixNano()
		if _, exists := seen[ns]; exists {
			continue
		}
		seen[ns] = struct{}{}
		ts = append(ts, r.DS)
	}
	slices.SortFunc(ts, func(a, b time.Time) int { return a.Compare(b) })
	return ts
}

// ResultRow is a single forecast output row. The column set mirrors the
// remote service's result file: point estimate, uncertainty bounds, and the
// additive/multiplicative component breakdown.
type ResultRow struct {
	Key string
	DS  time.Time

	Yhat      float64
	YhatLower float64
	YhatUpper float64

	Trend      float64
	TrendLower float64
	TrendUpper float64

	AdditiveTerms      float64
	AdditiveTermsLower float64
	AdditiveTermsUpper float64

	MultiplicativeTerms      float64
	MultiplicativeTermsLower float64
	MultiplicativeTermsUpper float64
}

// Result is an ordered sequence of forecast output rows keyed by series key
// and timestamp.
type Result struct {
	rows []ResultRow
}

// NewResult creates a result from the given rows preserving their order.
func NewResult(rows ...ResultRow) *Result {
	res := &Result{rows: make([]ResultRow, 0, len(rows))}
	res.rows = append(res.rows, rows...)
	return res
}

// Append adds rows to the end of the result.
func (r *Result) Append(rows ...ResultRow) {
	r.rows = append(r.rows, rows...)
}

// Len returns the number of rows.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.rows)
}

// Rows returns the backing row slice in result order.
func (r *Result) Rows() []ResultRow {
	if r == nil {
		return nil
	}
	return r.rows
}

// Keys returns the distinct series keys in first-seen order.
func (r *Result) Keys() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]struct{}, 8)
	keys := make([]string, 0, 8)
	for _, row := range r.rows {
		if _, exists := seen[row.Key]; exists {
			continue
		}
		seen[row.Key] = struct{}{}
		keys = append(keys, row.Key)
	}
	return keys
}
