// Package linearmodel is a collection of linear regression fitting
// implementations used by the per-series forecast model.
package linearmodel

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoOptions          = errors.New("no initialized model options")
	ErrTargetLenMismatch  = errors.New("target length does not match training rows")
	ErrNoTrainingMatrix   = errors.New("no training matrix")
	ErrNoTargetMatrix     = errors.New("no target matrix")
	ErrNoDesignMatrix     = errors.New("no design matrix for inference")
	ErrFeatureLenMismatch = errors.New("number of features does not match number of model coefficients")
	ErrNegativeLambda     = errors.New("negative lambda")
	ErrNegativeIterations = errors.New("negative iterations")
	ErrNegativeTolerance  = errors.New("negative tolerance")
)

// Model is the contract a linear regression implementation must satisfy to be
// usable by the forecast fit.
type Model interface {
	Fit(x, y mat.Matrix) error
	Predict(x mat.Matrix) ([]float64, error)
	Intercept() float64
	Coef() []float64
}

// withIntercept prepends a constant 1.0 column to the design matrix.
func withIntercept(x mat.Matrix) mat.Matrix {
	m, _ := x.Dims()
	ones := make([]float64, m)
	for i := range ones {
		ones[i] = 1.0
	}
	onesMx := mat.NewDense(1, m, ones)

	var stacked mat.Dense
	stacked.Stack(onesMx, x.T())
	return stacked.T()
}
