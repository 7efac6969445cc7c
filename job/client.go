// Package job drives a remote asynchronous forecast computation through its
// lifecycle: creation, data upload, start, status polling, and result
// download.
package job

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aouyang1/hyperprophet/options"
	"github.com/goccy/go-json"
)

// DefaultEndpoint is the production compute service.
const DefaultEndpoint = "https://api.hyperprophet.com"

// DefaultPollInterval is the fixed delay between status polls.
const DefaultPollInterval = 5 * time.Second

var (
	ErrMissingAccessToken = errors.New("missing access token")
	ErrMissingEndpoint    = errors.New("missing endpoint url")
	ErrMissingJobPayload  = errors.New("response envelope carries no job")
)

// Credentials identify the caller against the compute service.
type Credentials struct {
	AccessToken string
	Endpoint    string
}

var (
	defaultMu    sync.RWMutex
	defaultCreds = Credentials{Endpoint: DefaultEndpoint}
)

// Setup stores process-wide default credentials consumed by any later client
// construction that omits explicit values. Intended to be called once at
// process startup; passing explicit Credentials to NewClient is preferred.
func Setup(accessToken, endpoint string) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultCreds.AccessToken = accessToken
	if endpoint != "" {
		defaultCreds.Endpoint = endpoint
	}
}

// DefaultCredentials returns a copy of the process-wide defaults.
func DefaultCredentials() Credentials {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultCreds
}

// Client is an HTTP client for the compute service control plane. It is safe
// for concurrent use; each forecast call owns its own Job.
type Client struct {
	creds        Credentials
	httpClient   *http.Client
	pollInterval time.Duration
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPollInterval overrides the fixed delay between status polls.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

// WithLogger overrides the logger used for poll status lines.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a compute service client. Credential fields left empty
// fall back to the process-wide defaults set via Setup; a missing access
// token is a configuration error here, not at call time.
func NewClient(creds Credentials, opts ...Option) (*Client, error) {
	defaults := DefaultCredentials()
	if creds.AccessToken == "" {
		creds.AccessToken = defaults.AccessToken
	}
	if creds.Endpoint == "" {
		creds.Endpoint = defaults.Endpoint
	}

	if creds.AccessToken == "" {
		return nil, ErrMissingAccessToken
	}
	if creds.Endpoint == "" {
		return nil, ErrMissingEndpoint
	}

	c := &Client{
		creds:        creds,
		httpClient:   http.DefaultClient,
		pollInterval: DefaultPollInterval,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Create registers a new job with the service and returns it in its initial
// state along with its one-time data upload URL.
func (c *Client) Create(ctx context.Context, opt *options.Options) (*Job, error) {
	env, err := c.postJSON(ctx, "create", "/jobs.create", createRequest{Options: opt})
	if err != nil {
		return nil, err
	}
	if env.Job == nil {
		return nil, fmt.Errorf("create response, %w", ErrMissingJobPayload)
	}

	j := &Job{
		client:    c,
		ID:        env.Job.ID,
		Status:    env.Job.Status,
		Progress:  env.Job.Progress,
		uploadURL: env.Job.DataUploadURL,
		createdAt: time.Now(),
	}
	jobsCreated.Inc()
	return j, nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, body any) (*envelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("unable to encode %s request, %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.creds.Endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("unable to create %s request, %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(op, req)
}

func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values) (*envelope, error) {
	u := c.creds.Endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create %s request, %w", op, err)
	}
	return c.do(op, req)
}

func (c *Client) do(op string, req *http.Request) (*envelope, error) {
	req.Header.Set("Authorization", "Bearer "+c.creds.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed, %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("unable to read %s response, %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProtocolError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), maxErrBody),
		}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("unable to decode %s response, %w", op, err)
	}
	if !env.OK {
		return nil, &ProtocolError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    env.Error,
		}
	}
	return &env, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "") + "..."
}
