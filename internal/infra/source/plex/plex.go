package infra_source_plex

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/humanbelnik/kinomatch/core/internal/config"
	infra_imagefetch "github.com/humanbelnik/kinomatch/core/internal/infra/imagefetch"
	infra_source "github.com/humanbelnik/kinomatch/core/internal/infra/source"
	"github.com/humanbelnik/kinomatch/core/internal/metrics"
	"github.com/humanbelnik/kinomatch/core/internal/model"
	"github.com/humanbelnik/kinomatch/core/internal/service/agerating"
)

type containerXML struct {
	Directories []struct {
		Type string `xml:"type,attr"`
		Key  string `xml:"key,attr"`
	} `xml:"Directory"`
	Videos []videoXML `xml:"Video"`
}

type videoXML struct {
	RatingKey     string `xml:"ratingKey,attr"`
	Title         string `xml:"title,attr"`
	Summary       string `xml:"summary,attr"`
	Year          int    `xml:"year,attr"`
	DurationMs    int64  `xml:"duration,attr"`
	ContentRating string `xml:"contentRating,attr"`
	Genres        []struct {
		Tag string `xml:"tag,attr"`
	} `xml:"Genre"`
	Images []struct {
		Type string `xml:"type,attr"`
		URL  string `xml:"url,attr"`
	} `xml:"Image"`
	GUIDs []struct {
		ID string `xml:"id,attr"`
	} `xml:"Guid"`
}

// Client talks to a Plex media server. The API is XML; auth is the
// X-Plex-Token header.
type Client struct {
	cfg     config.Backend
	base    string
	http    *http.Client
	fetcher infra_imagefetch.Fetcher
	logger  *slog.Logger

	mu        sync.Mutex
	available *bool
	sections  []string
	genres    []model.GenreId
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(cfg config.Backend, opts ...Option) *Client {
	c := &Client{
		cfg:  cfg,
		base: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port),
		http: &http.Client{Timeout: cfg.Timeout},
		fetcher: infra_imagefetch.NewHTTP(&http.Client{
			Timeout:   cfg.Timeout,
			Transport: tokenTransport{token: cfg.Token},
		}),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tokenTransport struct {
	token string
}

func (t tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("X-Plex-Token", t.token)
	return http.DefaultTransport.RoundTrip(req)
}

func (c *Client) Source() model.Source {
	return model.SourcePlex
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

	if c.cfg.Disabled() || c.cfg.Token == "" || c.cfg.Token == "-" {
		if c.available == nil {
			c.logger.Warn("no plex host or token set, backend disabled")
		}
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/library/sections", nil)
	if err != nil {
		return false
	}
	req.Header.Set("X-Plex-Token", c.cfg.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("plex api not reachable, backend disabled", "error", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		c.logger.Info("plex api reachable, backend enabled")
		available = true
	case http.StatusUnauthorized:
		c.logger.Warn("plex api reachable but token invalid, backend disabled")
	default:
		c.logger.Warn("plex api not reachable, backend disabled", "status", resp.StatusCode)
	}
	return available
}

func (c *Client) ListMovieIds(ctx context.Context, session *model.VotingSession) ([]model.MovieId, error) {
	if !c.IsAvailable(ctx) {
		return nil, nil
	}

	sections, err := c.movieSections(ctx)
	if err != nil {
		metrics.SourceFailures.WithLabelValues(string(model.SourcePlex)).Inc()
		c.logger.Error("listing plex sections failed, no movies will be returned", "error", err)
		return nil, nil
	}

	var ids []model.MovieId
	for _, section := range sections {
		var container containerXML
		if err := c.get(ctx, c.base+"/library/sections/"+section+"/all", &container); err != nil {
			metrics.SourceFailures.WithLabelValues(string(model.SourcePlex)).Inc()
			c.logger.Error("listing plex section failed, section skipped", "section", section, "error", err)
			continue
		}
		for _, video := range container.Videos {
			if video.RatingKey != "" {
				ids = append(ids, model.NewMovieId(model.SourcePlex, video.RatingKey, ""))
			}
		}
	}
	return ids, nil
}

func (c *Client) movieSections(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	cached := c.sections
	c.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	var container containerXML
	if err := c.get(ctx, c.base+"/library/sections", &container); err != nil {
		return nil, err
	}

	sections := []string{}
	for _, dir := range container.Directories {
		if dir.Type == "movie" && dir.Key != "" {
			sections = append(sections, dir.Key)
		}
	}

	c.mu.Lock()
	c.sections = sections
	c.mu.Unlock()
	return sections, nil
}

func (c *Client) GetMovieById(ctx context.Context, nativeID string, language string) (*model.Movie, error) {
	if !c.IsAvailable(ctx) {
		return nil, infra_source.ErrUnavailable
	}

	var container containerXML
	if err := c.get(ctx, c.base+"/library/metadata/"+nativeID, &container); err != nil {
		metrics.SourceFailures.WithLabelValues(string(model.SourcePlex)).Inc()
		return nil, err
	}
	if len(container.Videos) == 0 || container.Videos[0].Title == "" {
		return nil, infra_source.ErrNotFound
	}

	return c.toMovie(nativeID, container.Videos[0]), nil
}

func (c *Client) toMovie(nativeID string, video videoXML) *model.Movie {
	genres := make([]model.GenreId, 0, len(video.Genres))
	for _, g := range video.Genres {
		if g.Tag != "" {
			genres = append(genres, model.NewGenre(g.Tag))
		}
	}

	var age *int
	if a, ok := extractAge(video.ContentRating); ok {
		age = &a
	}

	runtimeMinutes := int((video.DurationMs + 59_999) / 60_000)

	movie := model.NewMovie(
		model.NewMovieId(model.SourcePlex, nativeID, ""),
		video.Title, video.Summary, video.Year, genres, runtimeMinutes, age, -1,
	)

	for _, guid := range video.GUIDs {
		if id, ok := strings.CutPrefix(guid.ID, "tmdb://"); ok {
			movie.External.TMDB = id
		}
		if id, ok := strings.CutPrefix(guid.ID, "imdb://"); ok {
			movie.External.IMDB = id
		}
	}

	for _, image := range video.Images {
		if image.Type != "coverPoster" || image.URL == "" {
			continue
		}
		imageURL := c.base + image.URL
		movie.PosterCandidates = append(movie.PosterCandidates, func(ctx context.Context) (model.Poster, error) {
			return c.fetcher.Fetch(ctx, imageURL)
		})
		break
	}

	return movie
}

// extractAge handles Plex content ratings like "de/16" or plain numbers.
func extractAge(rating string) (int, bool) {
	trimmed := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(rating)), "de/")
	if trimmed == "" {
		return 0, false
	}
	if age, err := strconv.Atoi(trimmed); err == nil {
		return age, true
	}
	return agerating.Extract(trimmed)
}

// ListGenres walks all movie sections and collects genre tags. Plex has no
// stable genre ids, so the normalized tag doubles as the native id.
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

	sections, err := c.movieSections(ctx)
	if err != nil {
		metrics.SourceFailures.WithLabelValues(string(model.SourcePlex)).Inc()
		c.logger.Error("listing plex sections failed, no genres will be contributed", "error", err)
		return nil, nil
	}

	var genres []model.GenreId
	for _, section := range sections {
		var container containerXML
		if err := c.get(ctx, c.base+"/library/sections/"+section+"/all", &container); err != nil {
			c.logger.Error("listing plex section genres failed, section skipped", "section", section, "error", err)
			continue
		}
		for _, video := range container.Videos {
			for _, g := range video.Genres {
				if g.Tag == "" {
					continue
				}
				nativeID := strings.ToLower(strings.TrimSpace(g.Tag))
				genres = append(genres, model.NewGenreWithNativeID(g.Tag, model.SourcePlex, nativeID))
			}
		}
	}

	c.mu.Lock()
	c.genres = genres
	c.mu.Unlock()
	return genres, nil
}

// GetMovieIdByTitleYear is unsupported; the Plex search endpoint does not
// filter reliably by year.
func (c *Client) GetMovieIdByTitleYear(ctx context.Context, titles []string, year int) (string, error) {
	return "", infra_source.ErrNotFound
}

func (c *Client) get(ctx context.Context, query string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, query, nil)
	if err != nil {
		return fmt.Errorf("build plex query: %w", err)
	}
	req.Header.Set("X-Plex-Token", c.cfg.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("plex query: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("plex query: unexpected status %d", resp.StatusCode)
	}
	if err := xml.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("plex query: response was no xml: %w", err)
	}
	return nil
}
