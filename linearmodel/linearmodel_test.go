package linearmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testModel(t *testing.T, model Model, x, y mat.Matrix, intercept float64, coef []float64, tol float64) {
	t.Helper()

	err := model.Fit(x, y)
	require.NoError(t, err)

	assert.InDelta(t, intercept, model.Intercept(), tol)
	assert.InDeltaSlice(t, coef, model.Coef(), tol)

	predicted, err := model.Predict(x)
	require.NoError(t, err)

	expected := mat.Col(nil, 0, y)
	assert.InDeltaSlice(t, expected, predicted, tol)
}

// y = 2 + 3*x0 - 1*x1 evaluated on a small grid
func generateLinearData() (mat.Matrix, mat.Matrix) {
	xData := []float64{
		0, 0,
		1, 0,
		0, 1,
		1, 1,
		2, 1,
		2, 3,
	}
	x := mat.NewDense(6, 2, xData)

	yData := make([]float64, 6)
	for i := 0; i < 6; i++ {
		yData[i] = 2.0 + 3.0*xData[i*2] - 1.0*xData[i*2+1]
	}
	y := mat.NewDense(6, 1, yData)
	return x, y
}

func TestOLSRegression(t *testing.T) {
	x, y := generateLinearData()

	model, err := NewOLSRegression(nil)
	require.NoError(t, err)

	testModel(t, model, x, y, 2.0, []float64{3.0, -1.0}, 1e-8)
}

func TestLassoRegressionZeroLambda(t *testing.T) {
	x, y := generateLinearData()

	opt := NewDefaultLassoOptions()
	opt.Lambda = 0.0
	opt.Iterations = 10000
	opt.Tolerance = 1e-9

	model, err := NewLassoRegression(opt)
	require.NoError(t, err)

	testModel(t, model, x, y, 2.0, []float64{3.0, -1.0}, 1e-3)
}

func TestLassoRegressionShrinks(t *testing.T) {
	x, y := generateLinearData()

	opt := NewDefaultLassoOptions()
	opt.Lambda = 1000.0

	model, err := NewLassoRegression(opt)
	require.NoError(t, err)
	require.NoError(t, model.Fit(x, y))

	unreg, err := NewLassoRegression(&LassoOptions{Lambda: 0, Iterations: 10000, Tolerance: 1e-9, FitIntercept: true})
	require.NoError(t, err)
	require.NoError(t, unreg.Fit(x, y))

	for i, c := range model.Coef() {
		assert.LessOrEqual(t, abs(c), abs(unreg.Coef()[i])+1e-6, "coefficient %d", i)
	}
}

func TestLassoOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt    *LassoOptions
		expErr error
	}{
		"nil defaults": {
			opt: nil,
		},
		"negative lambda": {
			opt:    &LassoOptions{Lambda: -1},
			expErr: ErrNegativeLambda,
		},
		"negative iterations": {
			opt:    &LassoOptions{Iterations: -1},
			expErr: ErrNegativeIterations,
		},
		"negative tolerance": {
			opt:    &LassoOptions{Tolerance: -0.1},
			expErr: ErrNegativeTolerance,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt, err := td.opt.Validate()
			if td.expErr != nil {
				require.ErrorIs(t, err, td.expErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, opt)
		})
	}
}

func TestFitValidation(t *testing.T) {
	x, y := generateLinearData()
	yShort := mat.NewDense(2, 1, []float64{1, 2})

	model, err := NewLassoRegression(nil)
	require.NoError(t, err)

	assert.ErrorIs(t, model.Fit(nil, y), ErrNoTrainingMatrix)
	assert.ErrorIs(t, model.Fit(x, nil), ErrNoTargetMatrix)
	assert.ErrorIs(t, model.Fit(x, yShort), ErrTargetLenMismatch)
}

func TestSoftThreshold(t *testing.T) {
	testData := map[string]struct {
		x        float64
		gamma    float64
		expected float64
	}{
		"positive above": {x: 2.0, gamma: 0.5, expected: 1.5},
		"positive below": {x: 0.3, gamma: 0.5, expected: 0.0},
		"negative above": {x: -2.0, gamma: 0.5, expected: -1.5},
		"negative below": {x: -0.3, gamma: 0.5, expected: 0.0},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, td.expected, SoftThreshold(td.x, td.gamma), 1e-12)
		})
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
