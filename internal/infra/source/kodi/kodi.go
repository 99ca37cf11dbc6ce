package infra_source_kodi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
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

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type movieDTO struct {
	MovieID       int      `json:"movieid"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"originaltitle"`
	Plot          string   `json:"plot"`
	Year          int      `json:"year"`
	Genre         []string `json:"genre"`
	// Runtime is in seconds.
	Runtime   int            `json:"runtime"`
	MPAA      string         `json:"mpaa"`
	Playcount int            `json:"playcount"`
	Rating    float64        `json:"rating"`
	Votes     string         `json:"votes"`
	Thumbnail string         `json:"thumbnail"`
	File      string         `json:"file"`
	Art       map[string]any `json:"art"`
	UniqueID  map[string]any `json:"uniqueid"`
}

// Client speaks Kodi's JSON-RPC VideoLibrary API.
type Client struct {
	cfg     config.Backend
	http    *http.Client
	fetcher infra_imagefetch.Fetcher
	logger  *slog.Logger

	mu        sync.Mutex
	available *bool
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(cfg config.Backend, fetcher infra_imagefetch.Fetcher, opts ...Option) *Client {
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

func (c *Client) Source() model.Source {
	return model.SourceKodi
}

func (c *Client) endpoint() string {
	return "http://" + c.cfg.Host + ":" + c.cfg.Port + "/jsonrpc"
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

	if c.cfg.Disabled() {
		if c.available == nil {
			c.logger.Warn("no kodi host set, backend disabled")
		}
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(), nil)
	if err != nil {
		return false
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("kodi api not reachable, backend disabled", "error", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		c.logger.Info("kodi api reachable, backend enabled")
		available = true
	case http.StatusUnauthorized:
		c.logger.Warn("kodi api reachable but credentials invalid, backend disabled")
	default:
		c.logger.Warn("kodi api not reachable, backend disabled", "status", resp.StatusCode)
	}
	return available
}

func (c *Client) ListMovieIds(ctx context.Context, session *model.VotingSession) ([]model.MovieId, error) {
	if !c.IsAvailable(ctx) {
		return nil, nil
	}

	var result struct {
		Movies []movieDTO `json:"movies"`
	}
	if err := c.call(ctx, "VideoLibrary.GetMovies", map[string]any{}, &result); err != nil {
		metrics.SourceFailures.WithLabelValues(string(model.SourceKodi)).Inc()
		c.logger.Error("listing kodi movies failed, no movies will be contributed", "error", err)
		return nil, nil
	}

	language := session.Language("")
	ids := make([]model.MovieId, 0, len(result.Movies))
	for _, m := range result.Movies {
		ids = append(ids, model.NewMovieId(model.SourceKodi, strconv.Itoa(m.MovieID), language))
	}
	c.logger.Debug("listed kodi movies", "count", len(ids))
	return ids, nil
}

var movieProperties = []string{
	"file", "title", "originaltitle", "plot", "thumbnail", "year", "genre",
	"art", "uniqueid", "runtime", "mpaa", "playcount", "rating", "votes",
}

func (c *Client) GetMovieById(ctx context.Context, nativeID string, language string) (*model.Movie, error) {
	if !c.IsAvailable(ctx) {
		return nil, infra_source.ErrUnavailable
	}

	kodiID, err := strconv.Atoi(nativeID)
	if err != nil {
		return nil, fmt.Errorf("%w: kodi id %q is not numeric", infra_source.ErrNotFound, nativeID)
	}

	var result struct {
		MovieDetails *movieDTO `json:"moviedetails"`
	}
	params := map[string]any{"movieid": kodiID, "properties": movieProperties}
	if err := c.call(ctx, "VideoLibrary.GetMovieDetails", params, &result); err != nil {
		metrics.SourceFailures.WithLabelValues(string(model.SourceKodi)).Inc()
		return nil, err
	}
	if result.MovieDetails == nil {
		return nil, infra_source.ErrNotFound
	}

	return c.toMovie(*result.MovieDetails, nativeID, language), nil
}

func (c *Client) toMovie(dto movieDTO, nativeID, language string) *model.Movie {
	var age *int
	if v, ok := agerating.Extract(dto.MPAA); ok {
		age = &v
	}

	genres := make([]model.GenreId, 0, len(dto.Genre))
	for _, name := range dto.Genre {
		genres = append(genres, model.NewGenre(name))
	}

	movie := model.NewMovie(
		model.NewMovieId(model.SourceKodi, nativeID, language),
		dto.Title, dto.Plot, dto.Year, genres,
		runtimeMinutes(dto.Runtime), age, dto.Playcount,
	)
	movie.OriginalTitle = dto.OriginalTitle
	if votes, err := strconv.Atoi(strings.ReplaceAll(dto.Votes, ",", "")); err == nil {
		movie.Rating = model.Rating{Average: dto.Rating, Count: votes}
	} else {
		movie.Rating = model.Rating{Average: dto.Rating}
	}

	if tmdb, ok := dto.UniqueID["tmdb"]; ok {
		movie.External.TMDB = fmt.Sprint(tmdb)
	}
	if imdb, ok := dto.UniqueID["imdb"]; ok {
		movie.External.IMDB = fmt.Sprint(imdb)
	}

	if dto.Thumbnail != "" {
		movie.PosterCandidates = append(movie.PosterCandidates, c.posterFromImageURL(dto.Thumbnail))
	}
	if poster, ok := dto.Art["poster"].(string); ok && poster != "" {
		movie.PosterCandidates = append(movie.PosterCandidates, c.posterFromImageURL(poster))
	}
	if dto.File != "" {
		movie.PosterCandidates = append(movie.PosterCandidates, c.posterFromImageURL(dto.File))
	}

	return movie
}

func runtimeMinutes(seconds int) int {
	if seconds <= 0 {
		return 0
	}
	return (seconds + 30) / 60
}

// posterFromImageURL decodes Kodi's percent-encoded image:// urls and
// delegates the actual transfer to the image fetcher.
func (c *Client) posterFromImageURL(encoded string) model.PosterFunc {
	return func(ctx context.Context) (model.Poster, error) {
		decoded, err := url.QueryUnescape(encoded)
		if err != nil {
			return model.Poster{}, fmt.Errorf("decode kodi image url: %w", err)
		}
		decoded = strings.TrimPrefix(decoded, "image://video@")
		decoded = strings.TrimPrefix(decoded, "image://")
		decoded = strings.TrimSuffix(decoded, "/")

		if !strings.HasPrefix(strings.ToLower(decoded), "http") {
			// smb and friends are outside this fetcher's reach.
			return model.Poster{}, infra_imagefetch.ErrNotFound
		}
		return c.fetcher.Fetch(ctx, decoded)
	}
}

func (c *Client) ListGenres(ctx context.Context, language string) ([]model.GenreId, error) {
	if !c.IsAvailable(ctx) {
		return nil, nil
	}

	var result struct {
		Genres []struct {
			GenreID int    `json:"genreid"`
			Label   string `json:"label"`
		} `json:"genres"`
	}
	params := map[string]any{"type": "movie"}
	if err := c.call(ctx, "VideoLibrary.GetGenres", params, &result); err != nil {
		metrics.SourceFailures.WithLabelValues(string(model.SourceKodi)).Inc()
		c.logger.Error("listing kodi genres failed, no genres will be contributed", "error", err)
		return nil, nil
	}

	genres := make([]model.GenreId, 0, len(result.Genres))
	for _, g := range result.Genres {
		genres = append(genres, model.NewGenreWithNativeID(g.Label, model.SourceKodi, strconv.Itoa(g.GenreID)))
	}
	return genres, nil
}

func (c *Client) GetMovieIdByTitleYear(ctx context.Context, titles []string, year int) (string, error) {
	if !c.IsAvailable(ctx) {
		return "", infra_source.ErrNotFound
	}

	for _, title := range titles {
		if title == "" {
			continue
		}
		for _, field := range []string{"title", "originaltitle"} {
			id, err := c.movieIDByTitleYear(ctx, title, year, field)
			if err != nil {
				metrics.SourceFailures.WithLabelValues(string(model.SourceKodi)).Inc()
				c.logger.Error("kodi title/year lookup failed", "title", title, "error", err)
				return "", infra_source.ErrNotFound
			}
			if id != "" {
				return id, nil
			}
		}
	}
	return "", infra_source.ErrNotFound
}

func (c *Client) movieIDByTitleYear(ctx context.Context, title string, year int, titleField string) (string, error) {
	var result struct {
		Movies []movieDTO `json:"movies"`
	}
	params := map[string]any{
		"filter": map[string]any{
			"field":    titleField,
			"operator": "contains",
			"value":    title,
		},
		"properties": []string{"title", "year"},
	}
	if err := c.call(ctx, "VideoLibrary.GetMovies", params, &result); err != nil {
		return "", err
	}

	for _, m := range result.Movies {
		if m.Year == year {
			return strconv.Itoa(m.MovieID), nil
		}
	}
	return "", nil
}

// PlayMovie opens the movie on the connected Kodi instance.
func (c *Client) PlayMovie(ctx context.Context, nativeID string) error {
	kodiID, err := strconv.Atoi(nativeID)
	if err != nil {
		return fmt.Errorf("%w: kodi id %q is not numeric", infra_source.ErrNotFound, nativeID)
	}
	params := map[string]any{"item": map[string]any{"movieid": kodiID}}
	var ignored json.RawMessage
	return c.call(ctx, "Player.Open", params, &ignored)
}

func (c *Client) call(ctx context.Context, method string, params any, result any) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: 1})
	if err != nil {
		return fmt.Errorf("marshal kodi query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build kodi query: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("kodi query %s: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("kodi query %s: unexpected status %d", method, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("kodi query %s: response was no json: %w", method, err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("kodi query %s: rpc error %d: %s", method, rpcResp.Error.Code, rpcResp.Error.Message)
	}

	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return fmt.Errorf("kodi query %s: decode result: %w", method, err)
	}
	return nil
}
