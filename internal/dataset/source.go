package dataset

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Source opens the bytes behind a dataset path.
type Source interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// FileSource reads paths relative to Root.
type FileSource struct {
	Root string
}

func (s FileSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := path
	if s.Root != "" {
		p = filepath.Join(s.Root, strings.TrimPrefix(p, "/"))
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", p)
	}
	return f, nil
}

// HTTPSource fetches http and https URLs.
type HTTPSource struct {
	Client *http.Client
}

func (s HTTPSource) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "request %s", url)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", url)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Errorf("fetch %s: status %s", url, resp.Status)
	}
	return resp.Body, nil
}

// AutoSource sends URLs to HTTP and everything else to File.
type AutoSource struct {
	File FileSource
	HTTP HTTPSource
}

func (s AutoSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if IsURL(path) {
		return s.HTTP.Open(ctx, path)
	}
	return s.File.Open(ctx, path)
}

func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
