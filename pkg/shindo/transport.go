package shindo

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// maxBody caps how much of a response is read; the largest code table is a
// few megabytes.
const maxBody = 64 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// do sends a single request. There is no retry: a failed call is returned to
// the caller as is.
func (o *options) do(req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", o.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := o.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "shindo: %s %s", req.Method, req.URL.Path)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, eris.Wrap(err, "shindo: read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, eris.Errorf("shindo: unexpected status %d from %s: %s", resp.StatusCode, req.URL.Path, truncate(body, 200))
	}
	return bytes.TrimPrefix(body, utf8BOM), nil
}

// post submits a form to the API endpoint.
func (o *options) post(ctx context.Context, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+apiPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, eris.Wrap(err, "shindo: create request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	zap.L().Debug("shindo: api request",
		zap.String("mode", form.Get("mode")),
		zap.Int("fields", len(form)),
	)
	return o.do(req)
}

// get fetches a static resource relative to the base URL.
func (o *options) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+path, nil)
	if err != nil {
		return nil, eris.Wrap(err, "shindo: create request")
	}
	zap.L().Debug("shindo: fetch", zap.String("path", path))
	return o.do(req)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
