package hyperprophet

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/pkg/profile"

	"github.com/aouyang1/hyperprophet/dataframe"
)

var benchPredictRes *dataframe.Result

func benchFitFrame(keys int, n int) *dataframe.Frame {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := dataframe.NewFrame()
	for k := 0; k < keys; k++ {
		key := string(rune('a' + k))
		for i := 0; i < n; i++ {
			f.Append(dataframe.Row{
				Key: key,
				DS:  start.Add(time.Duration(i) * time.Hour),
				Y:   float64(k+1)*10.0 + 4.0*math.Sin(2.0*math.Pi*float64(i)/24.0),
			})
		}
	}
	return f
}

func BenchmarkLocalPredict(b *testing.B) {
	f, err := New(nil, "local")
	if err != nil {
		panic(err)
	}
	if err := f.Fit(benchFitFrame(4, 24*14)); err != nil {
		panic(err)
	}
	future, err := f.MakeFutureDataFrame(24, time.Hour, false)
	if err != nil {
		panic(err)
	}
	ctx := context.Background()

	b.ResetTimer()
	defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	for i := 0; i < b.N; i++ {
		benchPredictRes, err = f.Predict(ctx, future)
		if err != nil {
			panic(err)
		}
	}
}
