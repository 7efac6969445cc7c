package engine

import (
	"context"

	"github.com/aouyang1/hyperprophet/dataframe"
	"github.com/aouyang1/hyperprophet/options"
)

// ZeroEngine forecasts zero for all values. Used to validate downstream
// schema expectations without incurring model cost.
type ZeroEngine struct{}

// NewZeroEngine creates a zero-filled forecast engine.
func NewZeroEngine() *ZeroEngine {
	return &ZeroEngine{}
}

// Forecast returns a result with the predict frame's exact row identity and
// every forecast output column set to zero.
func (e *ZeroEngine) Forecast(_ context.Context, _, predict *dataframe.Frame, _ *options.Options) (*dataframe.Result, error) {
	res := dataframe.NewResult()
	for _, row := range predict.Rows() {
		res.Append(dataframe.ResultRow{
			Key: row.Key,
			DS:  row.DS,
		})
	}
	return res, nil
}
