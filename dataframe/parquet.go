package dataframe

import (
	"fmt"
	"io"
	"time"

	"github.com/parquet-go/parquet-go"
)

// frameRecord is the on-disk layout of a series frame row. Timestamps are
// epoch milliseconds to match the remote service's column types.
type frameRecord struct {
	Key string             `parquet:"key"`
	DS  int64              `parquet:"ds"`
	Y   float64            `parquet:"y"`
	X   map[string]float64 `parquet:"x,optional"`
}

// resultRecord is the on-disk layout of a forecast result row.
type resultRecord struct {
	Key string `parquet:"key"`
	DS  int64  `parquet:"ds"`

	Yhat      float64 `parquet:"yhat"`
	YhatLower float64 `parquet:"yhat_lower"`
	YhatUpper float64 `parquet:"yhat_upper"`

	Trend      float64 `parquet:"trend"`
	TrendLower float64 `parquet:"trend_lower"`
	TrendUpper float64 `parquet:"trend_upper"`

	AdditiveTerms      float64 `parquet:"additive_terms"`
	AdditiveTermsLower float64 `parquet:"additive_terms_lower"`
	AdditiveTermsUpper float64 `parquet:"additive_terms_upper"`

	MultiplicativeTerms      float64 `parquet:"multiplicative_terms"`
	MultiplicativeTermsLower float64 `parquet:"multiplicative_terms_lower"`
	MultiplicativeTermsUpper float64 `parquet:"multiplicative_terms_upper"`
}

// WriteFrame serializes the frame as a parquet file.
func WriteFrame(w io.Writer, f *Frame) error {
	if f.Len() == 0 {
		return ErrEmptyFrame
	}

	records := make([]frameRecord, 0, f.Len())
	for _, r := range f.Rows() {
		records = append(records, frameRecord{
			Key: r.Key,
			DS:  r.DS.UnixMilli(),
			Y:   r.Y,
			X:   r.X,
		})
	}

	pw := parquet.NewGenericWriter[frameRecord](w)
	if _, err := pw.Write(records); err != nil {
		return fmt.Errorf("unable to write frame records, %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("unable to finalize frame parquet, %w", err)
	}
	return nil
}

// ReadFrame parses a parquet series frame from a random access reader.
func ReadFrame(r io.ReaderAt, size int64) (*Frame, error) {
	records, err := parquet.Read[frameRecord](r, size)
	if err != nil {
		return nil, fmt.Errorf("unable to read frame records, %w", err)
	}

	f := &Frame{rows: make([]Row, 0, len(records))}
	for _, rec := range records {
		f.rows = append(f.rows, Row{
			Key: rec.Key,
			DS:  time.UnixMilli(rec.DS).UTC(),
			Y:   rec.Y,
			X:   rec.X,
		})
	}
	return f, nil
}

// WriteResult serializes the result as a parquet file.
func WriteResult(w io.Writer, res *Result) error {
	if res.Len() == 0 {
		return ErrEmptyFrame
	}

	records := make([]resultRecord, 0, res.Len())
	for _, r := range res.Rows() {
		records = append(records, resultRecord{
			Key:                      r.Key,
			DS:                       r.DS.UnixMilli(),
			Yhat:                     r.Yhat,
			YhatLower:                r.YhatLower,
			YhatUpper:                r.YhatUpper,
			Trend:                    r.Trend,
			TrendLower:               r.TrendLower,
			TrendUpper:               r.TrendUpper,
			AdditiveTerms:            r.AdditiveTerms,
			AdditiveTermsLower:       r.AdditiveTermsLower,
			AdditiveTermsUpper:       r.AdditiveTermsUpper,
			MultiplicativeTerms:      r.MultiplicativeTerms,
			MultiplicativeTermsLower: r.MultiplicativeTermsLower,
			MultiplicativeTermsUpper: r.MultiplicativeTermsUpper,
		})
	}

	pw := parquet.NewGenericWriter[resultRecord](w)
	if _, err := pw.Write(records); err != nil {
		return fmt.Errorf("unable to write result records, %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("unable to finalize result parquet, %w", err)
	}
	return nil
}

// ReadResultFile parses a downloaded parquet result file.
func ReadResultFile(path string) (*Result, error) {
	records, err := parquet.ReadFile[resultRecord](path)
	if err != nil {
		return nil, fmt.Errorf("unable to read result records, %w", err)
	}

	res := &Result{rows: make([]ResultRow, 0, len(records))}
	for _, rec := range records {
		res.rows = append(res.rows, ResultRow{
			Key:                      rec.Key,
			DS:                       time.UnixMilli(rec.DS).UTC(),
			Yhat:                     rec.Yhat,
			YhatLower:                rec.YhatLower,
			YhatUpper:                rec.YhatUpper,
			Trend:                    rec.Trend,
			TrendLower:               rec.TrendLower,
			TrendUpper:               rec.TrendUpper,
			AdditiveTerms:            rec.AdditiveTerms,
			AdditiveTermsLower:       rec.AdditiveTermsLower,
			AdditiveTermsUpper:       rec.AdditiveTermsUpper,
			MultiplicativeTerms:      rec.MultiplicativeTerms,
			MultiplicativeTermsLower: rec.MultiplicativeTermsLower,
			MultiplicativeTermsUpper: rec.MultiplicativeTermsUpper,
		})
	}
	return res, nil
}
