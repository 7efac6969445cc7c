package engine

import (
	"context"
	"fmt"

	"github.com/aouyang1/hyperprophet/dataframe"
	"github.com/aouyang1/hyperprophet/job"
	"github.com/aouyang1/hyperprophet/options"
)

// RemoteConfig configures a remote engine. Fields left empty fall back to the
// process-wide defaults set via job.Setup.
type RemoteConfig struct {
	AccessToken string
	Endpoint    string

	// ClientOptions tune the underlying job client, e.g. poll interval.
	ClientOptions []job.Option
}

// RemoteEngine delegates the forecast to the compute service, driving one
// fresh job per call through create, upload, start, poll, and result
// download.
type RemoteEngine struct {
	client *job.Client
}

// NewRemoteEngine creates a remote forecast engine. A missing access token is
// a configuration error at construction time, not at call time.
func NewRemoteEngine(cfg RemoteConfig) (*RemoteEngine, error) {
	client, err := job.NewClient(job.Credentials{
		AccessToken: cfg.AccessToken,
		Endpoint:    cfg.Endpoint,
	}, cfg.ClientOptions...)
	if err != nil {
		return nil, err
	}
	return &RemoteEngine{client: client}, nil
}

// Forecast drives one job end-to-end and returns its result frame. A job
// that terminates FAILED or ABORTED is surfaced as ErrJobFailed; results are
// never fetched for a non-SUCCESS job.
func (e *RemoteEngine) Forecast(ctx context.Context, fit, predict *dataframe.Frame, opt *options.Options) (*dataframe.Result, error) {
	if fit.Len() == 0 {
		return nil, ErrNoFitFrame
	}
	if predict.Len() == 0 {
		return nil, ErrNoPredictFrame
	}
	if opt == nil {
		opt = options.NewDefaultOptions()
	}
	if err := opt.Validate(true); err != nil {
		return nil, err
	}

	j, err := e.client.Create(ctx, opt)
	if err != nil {
		return nil, err
	}
	if err := j.Upload(ctx, fit, predict); err != nil {
		return nil, err
	}
	if err := j.Start(ctx); err != nil {
		return nil, err
	}
	if err := j.Wait(ctx); err != nil {
		return nil, err
	}

	if j.Status != job.StatusSuccess {
		return nil, fmt.Errorf("job %s finished with status %s, %w", j.ID, j.Status, ErrJobFailed)
	}
	return j.Result(ctx)
}
