package fetch

import (
	"context"
	"os"
	"path/filepath"
)

// FileFetcher reads export files relative to BaseDir.
type FileFetcher struct {
	BaseDir string
}

func (f *FileFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(name, err)
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(f.BaseDir, name)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, unavailable(name, err)
	}
	return content, nil
}
