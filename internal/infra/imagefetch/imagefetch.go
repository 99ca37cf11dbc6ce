package infra_imagefetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/humanbelnik/kinomatch/core/internal/model"
)

// ErrNotFound marks a url that yielded no image. Poster fetching treats it
// as absence, never as a failure worth surfacing.
var ErrNotFound = errors.New("no image found")

// Fetcher retrieves poster bytes, hiding the transport behind the url.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (model.Poster, error)
}

// HTTP fetches images over plain http(s).
type HTTP struct {
	client *http.Client
}

func NewHTTP(client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{client: client}
}

func (f *HTTP) Fetch(ctx context.Context, url string) (model.Poster, error) {
	if url == "" {
		return model.Poster{}, ErrNotFound
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.Poster{}, fmt.Errorf("build image request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return model.Poster{}, fmt.Errorf("fetch image %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return model.Poster{}, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return model.Poster{}, fmt.Errorf("fetch image %s: unexpected status %d", url, resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Poster{}, fmt.Errorf("read image %s: %w", url, err)
	}

	return model.Poster{Content: content, Extension: extensionOf(url)}, nil
}

func extensionOf(url string) string {
	trimmed := strings.TrimRight(url, "/")
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	ext := path.Ext(path.Base(trimmed))
	if ext == "" {
		ext = ".jpg"
	}
	return ext
}
