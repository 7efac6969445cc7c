// Package forecast fits and predicts a single time series by decomposing it
// into trend, seasonal, event, and regressor components solved with
// coordinate descent.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aouyang1/hyperprophet/linearmodel"
	"github.com/aouyang1/hyperprophet/options"
	"github.com/aouyang1/hyperprophet/timedataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrUninitializedForecast    = errors.New("uninitialized forecast")
	ErrUntrainedForecast        = errors.New("forecast has not been trained yet")
	ErrInsufficientTrainingData = errors.New("insufficient training data")
	ErrNonPositiveObservations  = errors.New("multiplicative mode requires strictly positive observations")
)

// Forecast represents a single series model. The series is decomposed into an
// intercept, trend components from changepoints, seasonal Fourier components,
// holiday events, and extra regressors fit as one linear system.
type Forecast struct {
	opt *options.Options

	spec    *featureSpec
	useLog  bool
	zscore  float64
	scores  *Scores
	fLabels []string

	coef         []float64
	intercept    float64
	residual     []float64
	residualStdv float64
	trained      bool
}

// Prediction holds the per-time outputs of a trained model.
type Prediction struct {
	T []time.Time

	Yhat      []float64
	YhatLower []float64
	YhatUpper []float64

	Trend          []float64
	Additive       []float64
	Multiplicative []float64
}

// New creates a forecast instance with the given options. If none are
// provided a default is used.
func New(opt *options.Options) (*Forecast, error) {
	if opt == nil {
		opt = options.NewDefaultOptions()
	}
	if err := opt.Validate(false); err != nil {
		return nil, err
	}

	width := opt.IntervalWidth
	if width <= 0 {
		width = options.NewDefaultOptions().IntervalWidth
	}

	return &Forecast{
		opt:    opt,
		useLog: opt.SeasonalityMode == options.SeasonalityModeMultiplicative,
		zscore: distuv.UnitNormal.Quantile(0.5 + width/2.0),
	}, nil
}

// Fit trains the model on the given series. Extra regressor columns are
// looked up in x by the names registered in the options.
func (f *Forecast) Fit(t []time.Time, y []float64, x map[string][]float64) error {
	if f == nil {
		return ErrUninitializedForecast
	}

	td, err := timedataset.NewUnivariateDataset(t, y)
	if err != nil {
		return fmt.Errorf("unable to create training dataset, %w", err)
	}
	if len(td.T) < 2 {
		return ErrInsufficientTrainingData
	}

	obs := td.Y
	if f.useLog {
		obs = make([]float64, len(td.Y))
		for i, v := range td.Y {
			if v <= 0 {
				return fmt.Errorf("observation %d is %f, %w", i, v, ErrNonPositiveObservations)
			}
			obs[i] = math.Log(v)
		}
	}

	spec, err := resolveFeatureSpec(f.opt, td.T, x)
	if err != nil {
		return err
	}
	f.spec = spec
	f.fLabels = spec.labels()

	features, err := spec.matrix(td.T, x)
	if err != nil {
		return err
	}

	// coordinate descent with lambda at 0 is equivalent to OLS; the prior
	// scales are interpreted by the sampling backend, not this fit
	lassoOpt := linearmodel.NewDefaultLassoOptions()
	lassoOpt.Lambda = 0.0
	model, err := linearmodel.NewLassoRegression(lassoOpt)
	if err != nil {
		return err
	}
	obsMx := newColumnMatrix(obs)
	if err := model.Fit(features, obsMx); err != nil {
		return fmt.Errorf("unable to fit series, %w", err)
	}
	f.intercept = model.Intercept()
	f.coef = model.Coef()
	f.trained = true

	fitted, err := model.Predict(features)
	if err != nil {
		return fmt.Errorf("unable to infer over training set, %w", err)
	}

	residual := make([]float64, len(obs))
	floats.SubTo(residual, obs, fitted)
	f.residual = residual
	_, f.residualStdv = stat.MeanStdDev(residual, nil)
	if math.IsNaN(f.residualStdv) {
		f.residualStdv = 0.0
	}

	predicted := fitted
	if f.useLog {
		predicted = make([]float64, len(fitted))
		for i, v := range fitted {
			predicted[i] = math.Exp(v)
		}
	}
	scores, err := NewScores(predicted, td.Y)
	if err != nil {
		return err
	}
	f.scores = scores

	return nil
}

// Predict generates forecasts for the given times using the trained model.
// Extra regressor columns must be supplied for the same times.
func (f *Forecast) Predict(t []time.Time, x map[string][]float64) (*Prediction, error) {
	if f == nil {
		return nil, ErrUninitializedForecast
	}
	if !f.trained {
		return nil, ErrUntrainedForecast
	}

	features, err := f.spec.matrix(t, x)
	if err != nil {
		return nil, err
	}

	yhat := f.inference(features, len(t))

	// trend inference zeroes every non-trend coefficient
	trendCoef := make([]float64, len(f.coef))
	copy(trendCoef[:f.spec.trendColumns()], f.coef[:f.spec.trendColumns()])
	trend := inferenceWith(features, f.intercept, trendCoef, len(t))

	pred := &Prediction{
		T:              t,
		Yhat:           make([]float64, len(t)),
		YhatLower:      make([]float64, len(t)),
		YhatUpper:      make([]float64, len(t)),
		Trend:          make([]float64, len(t)),
		Additive:       make([]float64, len(t)),
		Multiplicative: make([]float64, len(t)),
	}

	band := f.zscore * f.residualStdv
	for i := 0; i < len(t); i++ {
		if f.useLog {
			pred.Yhat[i] = math.Exp(yhat[i])
			pred.YhatLower[i] = math.Exp(yhat[i] - band)
			pred.YhatUpper[i] = math.Exp(yhat[i] + band)
			pred.Trend[i] = math.Exp(trend[i])
			if pred.Trend[i] != 0 {
				pred.Multiplicative[i] = pred.Yhat[i]/pred.Trend[i] - 1.0
			}
			continue
		}
		pred.Yhat[i] = yhat[i]
		pred.YhatLower[i] = yhat[i] - band
		pred.YhatUpper[i] = yhat[i] + band
		pred.Trend[i] = trend[i]
		pred.Additive[i] = yhat[i] - trend[i]
	}

	return pred, nil
}

func (f *Forecast) inference(features mat.Matrix, n int) []float64 {
	return inferenceWith(features, f.intercept, f.coef, n)
}

func inferenceWith(features mat.Matrix, intercept float64, coef []float64, n int) []float64 {
	res := make([]float64, n)
	_, cols := features.Dims()
	for i := 0; i < n; i++ {
		v := intercept
		for j := 0; j < cols; j++ {
			v += coef[j] * features.At(i, j)
		}
		res[i] = v
	}
	return res
}

func newColumnMatrix(vals []float64) mat.Matrix {
	data := make([]float64, len(vals))
	copy(data, vals)
	return mat.NewDense(len(vals), 1, data)
}

// Residuals returns the training residual of the fit in observation space.
func (f *Forecast) Residuals() []float64 {
	if f == nil {
		return nil
	}
	res := make([]float64, len(f.residual))
	copy(res, f.residual)
	return res
}

// Scores returns the fit scores for evaluating how well the resulting model
// fit the training data.
func (f *Forecast) Scores() Scores {
	if f == nil || f.scores == nil {
		return Scores{}
	}
	return *f.scores
}

// FeatureLabels returns the design matrix column names in coefficient order.
func (f *Forecast) FeatureLabels() []string {
	if f == nil {
		return nil
	}
	labels := make([]string, len(f.fLabels))
	copy(labels, f.fLabels)
	return labels
}

// Coefficients returns the trained coefficients keyed by feature label.
func (f *Forecast) Coefficients() (map[string]float64, error) {
	if f == nil {
		return nil, ErrUninitializedForecast
	}
	if !f.trained {
		return nil, ErrUntrainedForecast
	}
	coef := make(map[string]float64, len(f.coef))
	for i, label := range f.fLabels {
		coef[label] = f.coef[i]
	}
	return coef, nil
}

// Intercept returns the intercept of the forecast model.
func (f *Forecast) Intercept() float64 {
	if f == nil {
		return 0
	}
	return f.intercept
}
