package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Options configures a Client.
type Options struct {
	// Timeout bounds a single request. Defaults to 120 seconds.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// MaxRetries is the number of attempts per download. Defaults to 1.
	MaxRetries int

	// RetryCooldown is the first wait between attempts, in seconds.
	// Attempt n waits RetryCooldown * RetryExponent^n.
	RetryCooldown float64
	RetryExponent float64

	// ProxyType is one of "none", "system" or "manual".
	ProxyType    string
	ProxyAddress string
	ProxyPort    int

	Logger *zap.Logger
}

// Client wraps HTTP operations for the download engine.
//
// Client provides:
//   - Configured User-Agent header and proxy
//   - Timeout handling
//   - Streaming responses to disk with progress tracking
//   - Retries with exponential cooldown
//
// Example usage:
//
//	client := NewClient(Options{UserAgent: "batch-downloader"})
//	path, err := client.Retrieve(ctx, download.Request{
//	    Locator:    imageURL,
//	    StagingDir: staging,
//	    Verbose:    true, // log progress every 25%
//	})
type Client struct {
	httpClient *http.Client
	opts       Options
	logger     *zap.Logger
}

// NewClient creates a new HTTP client.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = proxyFunc(opts)

	return &Client{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		opts:   opts,
		logger: opts.Logger,
	}
}

func proxyFunc(opts Options) func(*http.Request) (*url.URL, error) {
	switch opts.ProxyType {
	case "none":
		return nil
	case "manual":
		host := opts.ProxyAddress
		if opts.ProxyPort > 0 {
			host = net.JoinHostPort(opts.ProxyAddress, strconv.Itoa(opts.ProxyPort))
		}
		return http.ProxyURL(&url.URL{Scheme: "http", Host: host})
	default:
		return http.ProxyFromEnvironment
	}
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}

// Temporary reports whether the request is worth repeating.
func (e *StatusError) Temporary() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests || e.Code == http.StatusRequestTimeout
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	// Parameters are (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	return resp, nil
}

// writeBody streams the response body to destPath, reporting progress to
// onProgress when it is set.
func writeBody(resp *http.Response, destPath string, onProgress func(written, total int64)) error {
	file, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer file.Close()

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	if _, err := io.Copy(writer, resp.Body); err != nil {
		return err
	}
	return file.Close()
}

// withRetry runs fn up to MaxRetries times. Errors that cannot be cured by
// repeating the request end the loop early.
func (c *Client) withRetry(ctx context.Context, label string, fn func() error) error {
	var err error
	for tries := 0; tries < c.opts.MaxRetries; tries++ {
		if err = fn(); err == nil {
			return nil
		}
		if !retryable(err) || ctx.Err() != nil || tries+1 == c.opts.MaxRetries {
			break
		}
		c.logger.Warn("retrying download",
			zap.String("item", label),
			zap.Int("attempt", tries+1),
			zap.Int("max", c.opts.MaxRetries),
			zap.Error(err))
		c.waitForRetry(ctx, tries)
	}
	return err
}

func (c *Client) waitForRetry(ctx context.Context, tries int) {
	cooldown := c.opts.RetryCooldown * math.Pow(c.opts.RetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, errNoAsset) {
		return false
	}
	var serr *StatusError
	if errors.As(err, &serr) {
		return serr.Temporary()
	}
	return true
}
