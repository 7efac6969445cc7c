package forecast

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/aouyang1/hyperprophet/options"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrMissingRegressor      = errors.New("regressor column missing from frame")
	ErrUnknownHolidayCountry = errors.New("unknown holiday country")
)

const (
	dayDur  = 24 * time.Hour
	yearDur = time.Duration(365.25 * 24 * float64(time.Hour))

	defaultYearlyOrder = 10
	defaultWeeklyOrder = 3
	defaultDailyOrder  = 4
)

// seasonalComponent is one resolved seasonal block of the design matrix.
type seasonalComponent struct {
	name   string
	period time.Duration
	order  int
}

// regressorStats holds standardization parameters captured at fit time.
type regressorStats struct {
	mean   float64
	stddev float64
}

// featureSpec is the resolved feature layout of a fit. It is captured once at
// fit time so predict-time matrices line up column for column.
type featureSpec struct {
	trainStart time.Time
	trainEnd   time.Time

	linearTrend  bool
	changepoints []time.Time

	seasonalities []seasonalComponent

	holidays []*cal.Holiday

	regressors     []string
	regressorStats map[string]regressorStats
}

func resolveFeatureSpec(opt *options.Options, t []time.Time, x map[string][]float64) (*featureSpec, error) {
	spec := &featureSpec{
		trainStart:     t[0],
		trainEnd:       t[len(t)-1],
		regressorStats: make(map[string]regressorStats),
	}
	span := spec.trainEnd.Sub(spec.trainStart)

	switch opt.Growth {
	case options.GrowthFlat:
	default:
		spec.linearTrend = true
		spec.changepoints = resolveChangepoints(opt, t)
	}

	// spacing between samples decides whether a seasonality is resolvable
	minSpacing := span
	for i := 1; i < len(t); i++ {
		if d := t[i].Sub(t[i-1]); d < minSpacing {
			minSpacing = d
		}
	}

	builtin := []struct {
		name   string
		toggle options.Toggle
		period time.Duration
		order  int
	}{
		{"yearly", opt.YearlySeasonality, yearDur, defaultYearlyOrder},
		{"weekly", opt.WeeklySeasonality, 7 * dayDur, defaultWeeklyOrder},
		{"daily", opt.DailySeasonality, dayDur, defaultDailyOrder},
	}
	for _, b := range builtin {
		enabled := b.toggle.Enabled()
		if b.toggle.IsAuto() {
			enabled = span >= 2*b.period && minSpacing < b.period
		}
		if !enabled {
			continue
		}
		order := b.order
		if b.toggle.Order() > 0 {
			order = b.toggle.Order()
		}
		spec.seasonalities = append(spec.seasonalities, seasonalComponent{
			name:   b.name,
			period: b.period,
			order:  order,
		})
	}

	customNames := make([]string, 0, len(opt.Seasonalities))
	for name := range opt.Seasonalities {
		customNames = append(customNames, name)
	}
	sort.Strings(customNames)
	for _, name := range customNames {
		s := opt.Seasonalities[name]
		if s.FourierOrder <= 0 || s.PeriodDays <= 0 {
			continue
		}
		spec.seasonalities = append(spec.seasonalities, seasonalComponent{
			name:   name,
			period: time.Duration(s.PeriodDays * float64(dayDur)),
			order:  s.FourierOrder,
		})
	}

	if opt.CountryHolidays != "" {
		switch opt.CountryHolidays {
		case "US", "us":
			spec.holidays = us.Holidays
		default:
			return nil, fmt.Errorf("%q, %w", opt.CountryHolidays, ErrUnknownHolidayCountry)
		}
	}

	regNames := make([]string, 0, len(opt.Regressors))
	for name := range opt.Regressors {
		regNames = append(regNames, name)
	}
	sort.Strings(regNames)
	spec.regressors = regNames
	for _, name := range regNames {
		vals, exists := x[name]
		if !exists {
			return nil, fmt.Errorf("%q, %w", name, ErrMissingRegressor)
		}
		if opt.Regressors[name].Standardize {
			mean, stddev := stat.MeanStdDev(vals, nil)
			if stddev == 0 || math.IsNaN(stddev) {
				stddev = 1.0
			}
			spec.regressorStats[name] = regressorStats{mean: mean, stddev: stddev}
		}
	}

	return spec, nil
}

func resolveChangepoints(opt *options.Options, t []time.Time) []time.Time {
	if len(opt.Changepoints) > 0 {
		cps := make([]time.Time, len(opt.Changepoints))
		copy(cps, opt.Changepoints)
		return cps
	}

	n := opt.NChangepoints
	if n <= 0 {
		return nil
	}
	cpRange := opt.ChangepointRange
	if cpRange <= 0 || cpRange > 1 {
		cpRange = 0.8
	}

	start := t[0]
	window := time.Duration(float64(t[len(t)-1].Sub(start)) * cpRange)
	if window <= 0 {
		return nil
	}

	// evenly spaced changepoints over the leading fraction of the window
	cps := make([]time.Time, 0, n)
	for i := 1; i <= n; i++ {
		cps = append(cps, start.Add(window*time.Duration(i)/time.Duration(n+1)))
	}
	return cps
}

// labels returns the design matrix column names in order.
func (spec *featureSpec) labels() []string {
	labels := make([]string, 0, spec.numFeatures())
	if spec.linearTrend {
		labels = append(labels, "trend_linear")
		for i := range spec.changepoints {
			labels = append(labels, fmt.Sprintf("trend_chpnt_%02d", i))
		}
	}
	for _, s := range spec.seasonalities {
		for order := 1; order <= s.order; order++ {
			labels = append(labels, fmt.Sprintf("seas_%s_%02d_sin", s.name, order))
			labels = append(labels, fmt.Sprintf("seas_%s_%02d_cos", s.name, order))
		}
	}
	for _, hol := range spec.holidays {
		labels = append(labels, "event_"+hol.Name)
	}
	for _, name := range spec.regressors {
		labels = append(labels, "regr_"+name)
	}
	return labels
}

func (spec *featureSpec) numFeatures() int {
	n := 0
	if spec.linearTrend {
		n += 1 + len(spec.changepoints)
	}
	for _, s := range spec.seasonalities {
		n += 2 * s.order
	}
	n += len(spec.holidays)
	n += len(spec.regressors)
	return n
}

// trendColumns reports how many leading design matrix columns belong to the
// trend block.
func (spec *featureSpec) trendColumns() int {
	if !spec.linearTrend {
		return 0
	}
	return 1 + len(spec.changepoints)
}

// matrix builds the design matrix for the given times and regressor columns
// using the layout captured at fit time.
func (spec *featureSpec) matrix(t []time.Time, x map[string][]float64) (mat.Matrix, error) {
	m := len(t)
	n := spec.numFeatures()
	data := make([]float64, m*n)

	span := spec.trainEnd.Sub(spec.trainStart).Seconds()
	if span <= 0 {
		span = 1.0
	}

	for i, tp := range t {
		col := 0
		row := data[i*n : (i+1)*n]

		if spec.linearTrend {
			row[col] = tp.Sub(spec.trainStart).Seconds() / span
			col++
			for _, cp := range spec.changepoints {
				if tp.After(cp) {
					row[col] = tp.Sub(cp).Seconds() / span
				}
				col++
			}
		}

		for _, s := range spec.seasonalities {
			phase := 2.0 * math.Pi * float64(tp.Unix()) / s.period.Seconds()
			for order := 1; order <= s.order; order++ {
				row[col] = math.Sin(phase * float64(order))
				row[col+1] = math.Cos(phase * float64(order))
				col += 2
			}
		}

		for _, hol := range spec.holidays {
			if onHoliday(tp, hol) {
				row[col] = 1.0
			}
			col++
		}

		for _, name := range spec.regressors {
			vals, exists := x[name]
			if !exists || len(vals) != m {
				return nil, fmt.Errorf("%q, %w", name, ErrMissingRegressor)
			}
			v := vals[i]
			if st, ok := spec.regressorStats[name]; ok {
				v = (v - st.mean) / st.stddev
			}
			row[col] = v
			col++
		}
	}

	return mat.NewDense(m, n, data), nil
}

func onHoliday(t time.Time, hol *cal.Holiday) bool {
	_, observed := hol.Calc(t.Year())
	if observed.IsZero() {
		return false
	}
	y1, m1, d1 := t.Date()
	y2, m2, d2 := observed.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
