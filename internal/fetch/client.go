// Package fetch retrieves dat files and archive pages over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a single retrieval.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is sent when ClientOptions.UserAgent is empty.
const DefaultUserAgent = "datlink-cli/dev"

// maxBodySize caps a response body. Large dat files are a few megabytes.
var maxBodySize int64 = 64 << 20

// ClientOptions configures a new Client.
type ClientOptions struct {
	Timeout   time.Duration
	UserAgent string
	Verbose   bool
	// Interval is the minimum spacing between requests. Zero disables pacing.
	Interval time.Duration
	// Transport overrides http.DefaultTransport, mainly for tests.
	Transport http.RoundTripper
}

// Client fetches raw bytes. It never retries.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewClient builds a Client with a timeout, pacing and optional verbose logging.
func NewClient(opts ClientOptions) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	if opts.Verbose {
		transport = &loggingTransport{base: transport}
	}

	limit := rate.Inf
	if opts.Interval > 0 {
		limit = rate.Every(opts.Interval)
	}

	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: ua,
	}
}

// Fetch GETs rawURL and returns the body.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, classify(rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classify(rawURL, err)
	}
	defer resp.Body.Close()

	if err := checkResponse(rawURL, resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, classify(rawURL, err)
	}
	if int64(len(body)) > maxBodySize {
		return nil, fmt.Errorf("fetching %s: %w (over %d bytes)", rawURL, ErrTooLarge, maxBodySize)
	}

	return body, nil
}

// classify maps transport errors to ErrTimeout or a wrapped network failure.
func classify(rawURL string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("fetching %s: %w", rawURL, ErrTimeout)
	}

	return fmt.Errorf("fetching %s: %w", rawURL, err)
}

type clientCtxKey struct{}

// WithClient stores a Client in the context.
func WithClient(ctx context.Context, cl *Client) context.Context {
	return context.WithValue(ctx, clientCtxKey{}, cl)
}

// ClientFromContext retrieves the Client from the context.
func ClientFromContext(ctx context.Context) *Client {
	if v := ctx.Value(clientCtxKey{}); v != nil {
		if cl, ok := v.(*Client); ok {
			return cl
		}
	}

	return nil
}
