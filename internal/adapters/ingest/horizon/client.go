// Package horizon provides a minimal Horizon REST client for the offers stream
package horizon

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sdexindex/internal/core/asset"
	"sdexindex/internal/platform/logger"
)

const (
	baseURLDefault  = "https://horizon.stellar.org"
	defaultTimeout  = 15 * time.Second
	defaultUA       = "sdexindex"
	defaultMaxBody  = 8 << 20
	errorBodyTail   = 2048
	offersPath      = "/offers"
	acceptHALHeader = "application/hal+json, application/json"
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// MaxBodyBytes caps how much of a page body is read
	MaxBodyBytes int64
	// HTTPClient overrides the transport, Timeout is ignored when set
	HTTPClient *http.Client
}

// Client issues single, unretried requests against one Horizon instance
type Client struct {
	http *http.Client
	base string
	opts Options
	log  logger.Logger
	now  func() time.Time
}

// NewClient creates a new Client with defaults applied
// a trailing slash on BaseURL is dropped so paths join cleanly
func NewClient(o Options) *Client {
	if strings.TrimSpace(o.BaseURL) == "" {
		o.BaseURL = baseURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = defaultMaxBody
	}
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: o.Timeout}
	}
	return &Client{
		http: hc,
		base: strings.TrimRight(strings.TrimSpace(o.BaseURL), "/"),
		opts: o,
		log:  *logger.Named("horizon"),
		now:  time.Now,
	}
}

// BaseURL returns the normalized base url
func (c *Client) BaseURL() string { return c.base }

// ParseAsset re-exports the asset parser for callers holding decoded JSON
func ParseAsset(v map[string]any) (asset.Asset, error) { return asset.Parse(v) }

// offersURL builds {base}/offers?limit=n[&cursor=c]
func (c *Client) offersURL(limit uint32, cursor string) string {
	u := c.base + offersPath + "?limit=" + uintStr(limit)
	if cursor != "" {
		u += "&cursor=" + url.QueryEscape(cursor)
	}
	return u
}

// getJSON performs one GET and decodes a 2xx body into out
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &FetchError{Kind: FetchTransport, URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", acceptHALHeader)

	start := c.now()
	resp, err := c.http.Do(req)
	lat := c.now().Sub(start)
	if err != nil {
		c.log.Warn().Err(err).Str("url", rawURL).Dur("latency", lat).Msg("horizon transport error")
		return &FetchError{Kind: FetchTransport, URL: rawURL, Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("url", rawURL).Msg("horizon close body failed")
		}
	}()

	c.log.Debug().
		Str("url", rawURL).
		Int("status", resp.StatusCode).
		Dur("latency", lat).
		Msg("horizon http response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyTail))
		return &FetchError{
			Kind:       FetchHTTP,
			URL:        rawURL,
			Status:     resp.StatusCode,
			Body:       string(body),
			RetryAfter: retryAfter(resp.Header, c.now()),
		}
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxBodyBytes))
	if err != nil {
		return &FetchError{Kind: FetchTransport, URL: rawURL, Err: err}
	}
	if err := json.Unmarshal(b, out); err != nil {
		return &FetchError{Kind: FetchDecode, URL: rawURL, Err: err}
	}
	if v, ok := out.(interface{ validate() error }); ok {
		if err := v.validate(); err != nil {
			return &FetchError{Kind: FetchDecode, URL: rawURL, Err: err}
		}
	}
	return nil
}
