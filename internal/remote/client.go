// Package remote talks to the shared document store: a single HTTP endpoint
// that returns the current document on GET and replaces it on POST.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single request when no client is supplied.
const DefaultTimeout = 10 * time.Second

// ContentType is sent with every push. The store expects a simple request
// body, so the JSON document travels as plain text.
const ContentType = "text/plain;charset=utf-8"

// Client fetches and pushes the document JSON.
type Client struct {
	http *http.Client
	log  zerolog.Logger
	now  func() time.Time
}

// New returns a Client. A nil httpClient uses a client with DefaultTimeout.
func New(httpClient *http.Client, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{http: httpClient, log: logger, now: time.Now}
}

// Fetch reads the document from endpoint. A t=<unix nanos> query parameter
// and no-cache headers defeat intermediate caches. Any non-2xx status is an
// error; the body is returned unparsed.
func (c *Client) Fetch(ctx context.Context, endpoint string) ([]byte, error) {
	u, err := cacheBusted(endpoint, c.now())
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	defer c.closeBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch document: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read document body: %w", err)
	}

	return body, nil
}

// Push replaces the remote document with body. Success means the request
// was delivered; the response status and body are not inspected.
func (c *Client) Push(ctx context.Context, endpoint string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", ContentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("push document: %w", err)
	}
	defer c.closeBody(resp)

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	c.log.Debug().Int("status", resp.StatusCode).Int("bytes", len(body)).Msg("pushed document")
	return nil
}

func (c *Client) closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		c.log.Debug().Err(err).Msg("close response body")
	}
}

func cacheBusted(endpoint string, now time.Time) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("parse endpoint: unsupported scheme %q", u.Scheme)
	}

	q := u.Query()
	q.Set("t", strconv.FormatInt(now.UnixNano(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
