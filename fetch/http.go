package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/xa0627-sys/momoshop-watch/internal/logutil"
)

// HTTPFetcher downloads export files relative to a base URL, retrying
// transient failures.
type HTTPFetcher struct {
	baseURL *url.URL
	client  *retryablehttp.Client
}

func NewHTTPFetcher(baseURL string, options Options) (*HTTPFetcher, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse data location %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("data location %q must use http or https", baseURL)
	}

	client := retryablehttp.NewClient()
	client.RetryMax = options.RetryMax
	client.Logger = logutil.LeveledLogger{Entry: logutil.Log.WithField("component", "fetch")}
	if options.Timeout > 0 {
		client.HTTPClient.Timeout = options.Timeout
	}

	return &HTTPFetcher{baseURL: parsed, client: client}, nil
}

func (f *HTTPFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	target := f.baseURL.JoinPath(name).String()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, unavailable(name, err)
	}
	req.Header.Set("Accept", "text/csv, application/octet-stream;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, unavailable(name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, unavailable(name, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, unavailable(name, err)
	}
	return content, nil
}
