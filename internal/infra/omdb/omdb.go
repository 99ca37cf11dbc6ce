package infra_omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/humanbelnik/kinomatch/core/internal/config"
	infra_imagefetch "github.com/humanbelnik/kinomatch/core/internal/infra/imagefetch"
	"github.com/humanbelnik/kinomatch/core/internal/model"
)

// Client resolves posters by IMDB id through the OMDb API. It is a poster
// fallback only, never a catalog source.
type Client struct {
	cfg     config.OMDb
	http    *http.Client
	fetcher infra_imagefetch.Fetcher
	logger  *slog.Logger
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(cfg config.OMDb, fetcher infra_imagefetch.Fetcher, opts ...Option) *Client {
	c := &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		fetcher: fetcher,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PosterByIMDBID looks up the OMDb record for the id and fetches its poster
// url. Returns infra_imagefetch.ErrNotFound when the key is unset, the id is
// unknown or the record carries no poster.
func (c *Client) PosterByIMDBID(ctx context.Context, imdbID string) (model.Poster, error) {
	if c.cfg.Disabled() || imdbID == "" {
		return model.Poster{}, infra_imagefetch.ErrNotFound
	}

	query := fmt.Sprintf("https://www.omdbapi.com/?i=%s&apikey=%s", url.QueryEscape(imdbID), url.QueryEscape(c.cfg.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, query, nil)
	if err != nil {
		return model.Poster{}, fmt.Errorf("build omdb request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Poster{}, fmt.Errorf("omdb lookup %s: %w", imdbID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return model.Poster{}, infra_imagefetch.ErrNotFound
	}

	var record struct {
		Poster string `json:"Poster"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return model.Poster{}, fmt.Errorf("omdb lookup %s: response was no json: %w", imdbID, err)
	}
	if record.Poster == "" || record.Poster == "N/A" {
		return model.Poster{}, infra_imagefetch.ErrNotFound
	}

	return c.fetcher.Fetch(ctx, record.Poster)
}
