package github

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plonk/pkg/domain/interfaces"
	"github.com/m-mizutani/plonk/pkg/domain/types"
)

const (
	defaultRetryMax = 3
	defaultTimeout  = 10 * time.Minute
)

// config holds internal client configuration
type config struct {
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	timeout      time.Duration
	token        string
	httpClient   *http.Client
	logger       retryablehttp.LeveledLogger
}

// Option is a functional option for the release asset client
type Option func(*config)

// WithRetryMax sets how many times a failed download is retried
func WithRetryMax(n int) Option {
	return func(c *config) {
		c.retryMax = n
	}
}

// WithRetryWait sets the backoff bounds between retries
func WithRetryWait(waitMin, waitMax time.Duration) Option {
	return func(c *config) {
		c.retryWaitMin = waitMin
		c.retryWaitMax = waitMax
	}
}

// WithTimeout bounds a whole download including reading the body
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithToken authenticates requests, which raises GitHub rate limits
func WithToken(token string) Option {
	return func(c *config) {
		c.token = token
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) {
		c.httpClient = hc
	}
}

// WithLogger reports retry attempts to logger
func WithLogger(logger retryablehttp.LeveledLogger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

type client struct {
	http    *retryablehttp.Client
	token   string
	timeout time.Duration
}

// NewClient creates a release asset client with bounded retry and backoff
func NewClient(opts ...Option) interfaces.AssetClient {
	cfg := &config{
		retryMax:     defaultRetryMax,
		retryWaitMin: time.Second,
		retryWaitMax: 30 * time.Second,
		timeout:      defaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	// The timeout covers every attempt and the body, so it is applied per
	// download rather than through http.Client.Timeout.
	hc := &http.Client{}
	if cfg.httpClient != nil {
		copied := *cfg.httpClient
		hc = &copied
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = hc
	rc.RetryMax = cfg.retryMax
	rc.RetryWaitMin = cfg.retryWaitMin
	rc.RetryWaitMax = cfg.retryWaitMax
	// Keep the final response so its status can be reported
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = cfg.logger

	return &client{
		http:    rc,
		token:   cfg.token,
		timeout: cfg.timeout,
	}
}

// DownloadAsset downloads the release asset at url into w
func (c *client) DownloadAsset(ctx context.Context, url string, w io.Writer) (int64, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to create download request",
			goerr.T(types.ErrTagNetwork),
			goerr.V("url", url),
		)
	}
	req.Header.Set("Accept", "application/octet-stream")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return 0, goerr.Wrap(err, "failed to download release asset",
			goerr.T(types.ErrTagNetwork),
			goerr.V("url", url),
		)
	}
	defer resp.Body.Close()

	// A non-2xx response still has a body; it must never be written as the asset
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, goerr.New("unexpected status code for release asset",
			goerr.T(types.ErrTagNetwork),
			goerr.V("url", url),
			goerr.V("status", resp.StatusCode),
		)
	}

	tw := &trackingWriter{w: w}
	n, err := io.Copy(tw, resp.Body)
	if tw.err != nil {
		return n, goerr.Wrap(tw.err, "failed to write release asset",
			goerr.T(types.ErrTagFilesystem),
			goerr.V("url", url),
			goerr.V("written", n),
		)
	}
	if err != nil {
		return n, goerr.Wrap(err, "failed to read release asset body",
			goerr.T(types.ErrTagNetwork),
			goerr.V("url", url),
			goerr.V("written", n),
		)
	}

	return n, nil
}

// trackingWriter remembers write errors so they are not mistaken for network errors
type trackingWriter struct {
	w   io.Writer
	err error
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil {
		t.err = err
	}
	return n, err
}
