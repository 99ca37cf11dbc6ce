package infra_source_emby

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/humanbelnik/kinomatch/core/internal/config"
	infra_imagefetch "github.com/humanbelnik/kinomatch/core/internal/infra/imagefetch"
	infra_source "github.com/humanbelnik/kinomatch/core/internal/infra/source"
	"github.com/humanbelnik/kinomatch/core/internal/metrics"
	"github.com/humanbelnik/kinomatch/core/internal/model"
	"github.com/humanbelnik/kinomatch/core/internal/service/agerating"
)

const runtimeTicksPerMinute = 600_000_000

type itemDTO struct {
	ID             string `json:"Id"`
	Name           string `json:"Name"`
	Overview       string `json:"Overview"`
	ProductionYear int    `json:"ProductionYear"`
	GenreItems     []struct {
		ID   int64  `json:"Id"`
		Name string `json:"Name"`
	} `json:"GenreItems"`
	RunTimeTicks   int64             `json:"RunTimeTicks"`
	OfficialRating string            `json:"OfficialRating"`
	ProviderIds    map[string]string `json:"ProviderIds"`
	ImageTags      map[string]string `json:"ImageTags"`
}

type itemsDTO struct {
	Items []itemDTO `json:"Items"`
}

// Client talks to an Emby server. Auth is the api_key query parameter.
type Client struct {
	cfg     config.Backend
	base    string
	http    *http.Client
	fetcher infra_imagefetch.Fetcher
	logger  *slog.Logger

	mu        sync.Mutex
	available *bool
	genres    []model.GenreId
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(cfg config.Backend, opts ...Option) *Client {
	client := &http.Client{Timeout: cfg.Timeout}
	c := &Client{
		cfg:     cfg,
		base:    fmt.Sprintf("http://%s:%s/emby", cfg.Host, cfg.Port),
		http:    client,
		fetcher: infra_imagefetch.NewHTTP(client),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Source() model.Source {
	return model.SourceEmby
}

func (c *Client) IsAvailable(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.available != nil {
		return *c.available
	}
	return c.probe(ctx)
}

func (c *Client) ForceRecheck(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.probe(ctx)
}

// probe runs with c.mu held.
func (c *Client) probe(ctx context.Context) bool {
	available := false
	defer func() { c.available = &available }()

	if c.cfg.Disabled() || c.cfg.APIKey == "" || c.cfg.APIKey == "-" {
		if c.available == nil {
			c.logger.Warn("no emby host or api key set, backend disabled")
		}
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.withKey(c.base+"/Items?Recursive=true&IncludeItemTypes=Movie"), nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("emby api not reachable, backend disabled", "error", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		c.logger.Info("emby api reachable, backend enabled")
		available = true
	case http.StatusUnauthorized:
		c.logger.Warn("emby api reachable but api key invalid, backend disabled")
	default:
		c.logger.Warn("emby api not reachable, backend disabled", "status", resp.StatusCode)
	}
	return available
}

// withKey appends the api_key auth parameter to a query url.
func (c *Client) withKey(query string) string {
	sep := "?"
	if strings.Contains(query, "?") {
		sep = "&"
	}
	return query + sep + "api_key=" + url.QueryEscape(c.cfg.APIKey)
}

func (c *Client) ListMovieIds(ctx context.Context, session *model.VotingSession) ([]model.MovieId, error) {
	if !c.IsAvailable(ctx) {
		return nil, nil
	}

	var items itemsDTO
	if err := c.get(ctx, c.base+"/Items?Recursive=true&IncludeItemTypes=Movie", &items); err != nil {
		metrics.SourceFailures.WithLabelValues(string(model.SourceEmby)).Inc()
		c.logger.Error("listing emby movies failed, no movies will be returned", "error", err)
		return nil, nil
	}

	ids := make([]model.MovieId, 0, len(items.Items))
	for _, item := range items.Items {
		ids = append(ids, model.NewMovieId(model.SourceEmby, item.ID, ""))
	}
	return ids, nil
}

func (c *Client) GetMovieById(ctx context.Context, nativeID string, language string) (*model.Movie, error) {
	if !c.IsAvailable(ctx) {
		return nil, infra_source.ErrUnavailable
	}

	query := c.base + "/Items?Ids=" + url.QueryEscape(nativeID) + "&Fields=Genres,ProductionYear,Overview,OfficialRating"
	var items itemsDTO
	if err := c.get(ctx, query, &items); err != nil {
		metrics.SourceFailures.WithLabelValues(string(model.SourceEmby)).Inc()
		return nil, err
	}
	if len(items.Items) == 0 {
		return nil, infra_source.ErrNotFound
	}

	return c.toMovie(nativeID, items.Items[0]), nil
}

func (c *Client) toMovie(nativeID string, item itemDTO) *model.Movie {
	genres := make([]model.GenreId, 0, len(item.GenreItems))
	for _, g := range item.GenreItems {
		genres = append(genres, model.NewGenre(g.Name))
	}

	var age *int
	if a, ok := agerating.FromFSK(item.OfficialRating); ok {
		age = &a
	}

	runtimeMinutes := int((item.RunTimeTicks + runtimeTicksPerMinute - 1) / runtimeTicksPerMinute)

	movie := model.NewMovie(
		model.NewMovieId(model.SourceEmby, nativeID, ""),
		item.Name, item.Overview, item.ProductionYear, genres, runtimeMinutes, age, -1,
	)
	movie.External.TMDB = item.ProviderIds["Tmdb"]
	movie.External.IMDB = item.ProviderIds["Imdb"]

	if tag, ok := item.ImageTags["Primary"]; ok {
		imageURL := c.withKey(fmt.Sprintf("%s/Items/%s/Images/Primary?tag=%s", c.base, url.PathEscape(nativeID), url.QueryEscape(tag)))
		movie.PosterCandidates = append(movie.PosterCandidates, func(ctx context.Context) (model.Poster, error) {
			return c.fetcher.Fetch(ctx, imageURL)
		})
	}

	return movie
}

func (c *Client) ListGenres(ctx context.Context, language string) ([]model.GenreId, error) {
	if !c.IsAvailable(ctx) {
		return nil, nil
	}

	c.mu.Lock()
	cached := c.genres
	c.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	var result struct {
		Items []struct {
			ID   int64  `json:"Id"`
			Name string `json:"Name"`
		} `json:"Items"`
	}
	if err := c.get(ctx, c.base+"/Genres", &result); err != nil {
		metrics.SourceFailures.WithLabelValues(string(model.SourceEmby)).Inc()
		c.logger.Error("listing emby genres failed, no genres will be contributed", "error", err)
		return nil, nil
	}

	genres := make([]model.GenreId, 0, len(result.Items))
	for _, g := range result.Items {
		genres = append(genres, model.NewGenreWithNativeID(g.Name, model.SourceEmby, fmt.Sprintf("%d", g.ID)))
	}

	c.mu.Lock()
	c.genres = genres
	c.mu.Unlock()
	return genres, nil
}

// GetMovieIdByTitleYear searches by title and requires an exact year match.
func (c *Client) GetMovieIdByTitleYear(ctx context.Context, titles []string, year int) (string, error) {
	if !c.IsAvailable(ctx) {
		return "", infra_source.ErrUnavailable
	}

	for _, title := range titles {
		if title == "" {
			continue
		}
		query := c.base + "/Items?IncludeItemTypes=Movie&Recursive=true&Filters=IsNotFolder&Fields=ProductionYear&SearchTerm=" + url.QueryEscape(title)
		var items itemsDTO
		if err := c.get(ctx, query, &items); err != nil {
			c.logger.Error("emby title search failed, no movie will be returned", "title", title, "error", err)
			return "", err
		}
		for _, item := range items.Items {
			if item.ProductionYear == year {
				return item.ID, nil
			}
		}
	}
	return "", infra_source.ErrNotFound
}

func (c *Client) get(ctx context.Context, query string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.withKey(query), nil)
	if err != nil {
		return fmt.Errorf("build emby query: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("emby query: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("emby query: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("emby query: response was no json: %w", err)
	}
	return nil
}
