package job

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/aouyang1/hyperprophet/dataframe"
)

var (
	ErrJobNotSuccessful = errors.New("job did not finish with success")
	ErrNoUploadURL      = errors.New("job has no data upload url")
	ErrNoDownloadURL    = errors.New("result response has no download url")
)

// Job is a single unit of remote forecast computation. It is created by
// Client.Create, never reused, and mutated only through its own status
// refresh against the service's authoritative state.
type Job struct {
	client *Client

	ID       string
	Status   Status
	Progress float64

	uploadURL string
	createdAt time.Time
}

// Upload packages the fit and predict frames into a single zip archive of
// columnar files and writes it to the job's one-time upload URL. A failed
// upload is not retried; the caller must create a fresh job.
func (j *Job) Upload(ctx context.Context, fit, predict *dataframe.Frame) error {
	if j.uploadURL == "" {
		return ErrNoUploadURL
	}

	scratch, err := os.MkdirTemp("", "hyperprophet-upload-")
	if err != nil {
		return fmt.Errorf("unable to create scratch dir, %w", err)
	}
	defer os.RemoveAll(scratch)

	archivePath := filepath.Join(scratch, "payload.zip")
	if err := writeArchive(archivePath, fit, predict); err != nil {
		return err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("unable to open payload archive, %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("unable to stat payload archive, %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, j.uploadURL, f)
	if err != nil {
		return fmt.Errorf("unable to create upload request, %w", err)
	}
	req.Header.Set("Content-Type", "application/zip")
	req.ContentLength = info.Size()

	resp, err := j.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload request failed, %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return &ProtocolError{
			Op:         "upload",
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), maxErrBody),
		}
	}
	return nil
}

// Start asks the service to begin computation. Local status and progress are
// overwritten from the service's response.
func (j *Job) Start(ctx context.Context) error {
	env, err := j.client.postJSON(ctx, "start", "/jobs.start", startRequest{ID: j.ID})
	if err != nil {
		return err
	}
	j.refresh(env)
	return nil
}

// Refresh pulls the latest job snapshot from the service, overwriting local
// status and progress.
func (j *Job) Refresh(ctx context.Context) error {
	env, err := j.client.getJSON(ctx, "info", "/jobs.info", url.Values{"id": []string{j.ID}})
	if err != nil {
		return err
	}
	jobPolls.Inc()
	j.refresh(env)
	return nil
}

func (j *Job) refresh(env *envelope) {
	if env.Job == nil {
		return
	}
	j.Status = env.Job.Status
	j.Progress = env.Job.Progress
}

// Wait polls the status endpoint on a fixed interval until the job reaches a
// terminal status or the context is cancelled. A status line is logged on
// every poll. Terminal FAILED/ABORTED is a normal return, not an error; the
// caller inspects Status before fetching results.
func (j *Job) Wait(ctx context.Context) error {
	for !j.Status.Terminal() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(j.client.pollInterval):
		}

		if err := j.Refresh(ctx); err != nil {
			return err
		}
		j.client.logger.Info("job status",
			"id", j.ID,
			"status", string(j.Status),
			"progress", j.Progress,
		)
	}

	jobsFinished.WithLabelValues(string(j.Status)).Inc()
	jobDuration.Observe(time.Since(j.createdAt).Seconds())
	return nil
}

// Result fetches the job's result descriptor, streams the referenced columnar
// file into a scratch directory, and parses it. The scratch directory is
// removed on every exit path. Calling Result on a non-SUCCESS job fails fast
// without any network round trip.
func (j *Job) Result(ctx context.Context) (*dataframe.Result, error) {
	if j.Status != StatusSuccess {
		return nil, fmt.Errorf("job %s has status %s, %w", j.ID, j.Status, ErrJobNotSuccessful)
	}

	env, err := j.client.getJSON(ctx, "result", "/jobs.result", url.Values{"id": []string{j.ID}})
	if err != nil {
		return nil, err
	}
	if env.DownloadURL == "" {
		return nil, ErrNoDownloadURL
	}

	scratch, err := os.MkdirTemp("", "hyperprophet-result-")
	if err != nil {
		return nil, fmt.Errorf("unable to create scratch dir, %w", err)
	}
	defer os.RemoveAll(scratch)

	resultPath := filepath.Join(scratch, "result.parq")
	if err := j.download(ctx, env.DownloadURL, resultPath); err != nil {
		return nil, err
	}

	res, err := dataframe.ReadResultFile(resultPath)
	if err != nil {
		return nil, fmt.Errorf("unable to parse result file, %w", err)
	}
	return res, nil
}

// download streams the result file to disk in bounded chunks rather than
// buffering the whole body in memory.
func (j *Job) download(ctx context.Context, downloadURL, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return fmt.Errorf("unable to create download request, %w", err)
	}

	resp, err := j.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download request failed, %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return &ProtocolError{
			Op:         "download",
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), maxErrBody),
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create result file, %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("unable to stream result file, %w", err)
	}
	return nil
}
