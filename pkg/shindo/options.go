package shindo

import (
	"net/http"
	"strings"
	"time"
)

// Service locations.
const (
	DefaultBaseURL = "https://www.data.jma.go.jp/svd/eqdb/data/shindo/"
	DefaultTimeout = 30 * time.Second

	apiPath     = "api/api.php"
	regionPath  = "js/epi.json"
	cityPath    = "js/city.json"
	stationPath = "js/station.json"
)

// Option configures a Client or Resolver.
type Option func(*options)

type options struct {
	baseURL   string
	http      *http.Client
	userAgent string
	metrics   *Metrics
	resolver  *Resolver
}

func newOptions(opts []Option) *options {
	o := &options{
		baseURL:   DefaultBaseURL,
		userAgent: "shindo-cli/1.0",
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.http == nil {
		o.http = &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	if !strings.HasSuffix(o.baseURL, "/") {
		o.baseURL += "/"
	}
	return o
}

// timeout bounds a download that no single caller owns.
func (o *options) timeout() time.Duration {
	if o.http.Timeout > 0 {
		return o.http.Timeout
	}
	return DefaultTimeout
}

// WithBaseURL points the client at another service root (for testing).
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.http = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
// It has no effect together with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if o.http == nil {
			o.http = &http.Client{Timeout: d}
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithMetrics reports requests and table fetches to m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithResolver shares a code resolver between clients. By default each
// Client owns one built from the same options.
func WithResolver(r *Resolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}
