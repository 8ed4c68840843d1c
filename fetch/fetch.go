package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ErrUnavailable marks content that could not be retrieved.
var ErrUnavailable = errors.New("content unavailable")

// Fetcher retrieves the raw bytes of a named export file.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

type Options struct {
	RetryMax int
	Timeout  time.Duration
}

// ForLocation picks an HTTP fetcher for http(s) base URLs and a file fetcher otherwise.
func ForLocation(location string, options Options) (Fetcher, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("data location is empty")
	}
	if parsed, err := url.Parse(location); err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") {
		return NewHTTPFetcher(location, options)
	}
	return &FileFetcher{BaseDir: location}, nil
}

func unavailable(name string, err error) error {
	return fmt.Errorf("%w: cannot load %s: %w", ErrUnavailable, name, err)
}
