package infra_source_tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/humanbelnik/kinomatch/core/internal/config"
	infra_imagefetch "github.com/humanbelnik/kinomatch/core/internal/infra/imagefetch"
	infra_source "github.com/humanbelnik/kinomatch/core/internal/infra/source"
	"github.com/humanbelnik/kinomatch/core/internal/metrics"
	"github.com/humanbelnik/kinomatch/core/internal/model"
	"github.com/humanbelnik/kinomatch/core/internal/service/agerating"
)

const (
	apiBase   = "https://api.themoviedb.org/3"
	posterURL = "https://image.tmdb.org/t/p/w500"
)

type movieDTO struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"`
	Runtime       int     `json:"runtime"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	PosterPath    string  `json:"poster_path"`
	IMDBID        string  `json:"imdb_id"`
	Genres        []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
	ReleaseDates struct {
		Results []releaseDatesDTO `json:"results"`
	} `json:"release_dates"`
	Videos         videosDTO `json:"videos"`
	WatchProviders struct {
		Results map[string]watchOffersDTO `json:"results"`
	} `json:"watch/providers"`
}

type releaseDatesDTO struct {
	Country  string `json:"iso_3166_1"`
	Releases []struct {
		Certification string `json:"certification"`
	} `json:"release_dates"`
}

type videosDTO struct {
	Results []struct {
		Site string `json:"site"`
		Type string `json:"type"`
		Key  string `json:"key"`
	} `json:"results"`
}

type watchOffersDTO struct {
	Flatrate []watchProviderDTO `json:"flatrate"`
	Rent     []watchProviderDTO `json:"rent"`
	Buy      []watchProviderDTO `json:"buy"`
	Free     []watchProviderDTO `json:"free"`
}

type watchProviderDTO struct {
	ProviderID   int64  `json:"provider_id"`
	ProviderName string `json:"provider_name"`
}

type providerInfo struct {
	ID      int64
	Name    string
	Regions []string
}

// Reconciler attaches local-library providers to a TMDB movie by title/year
// lookup. Implemented by the source registry's local sources.
type Reconciler interface {
	LocalSources() []infra_source.CatalogSource
}

// Client speaks the TMDB REST API: discover for candidate listing, movie
// detail with release dates / videos / watch providers appended, and the
// poster image CDN.
type Client struct {
	cfg        config.TMDB
	http       *http.Client
	fetcher    infra_imagefetch.Fetcher
	reconciler Reconciler
	limiter    *rate.Limiter
	logger     *slog.Logger

	mu               sync.Mutex
	available        *bool
	genresByLanguage map[string][]model.GenreId
	details          map[int64]*movieDTO
	providers        []providerInfo
	providerMapping  map[model.Provider][]providerInfo
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(cfg config.TMDB, fetcher infra_imagefetch.Fetcher, reconciler Reconciler, opts ...Option) *Client {
	rps := cfg.RequestsPerSecond
	if rps < 1 {
		rps = 10
	}
	c := &Client{
		cfg:              cfg,
		http:             &http.Client{Timeout: cfg.Timeout},
		fetcher:          fetcher,
		reconciler:       reconciler,
		limiter:          rate.NewLimiter(rate.Limit(rps), int(rps)),
		logger:           slog.Default(),
		genresByLanguage: make(map[string][]model.GenreId),
		details:          make(map[int64]*movieDTO),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Source() model.Source {
	return model.SourceTMDB
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
			c.logger.Warn("no tmdb api key set, backend disabled")
		}
		return false
	}

	var ignored json.RawMessage
	err := c.get(ctx, apiBase+"/movie/popular?page=1", &ignored)
	if err != nil {
		c.logger.Warn("tmdb api not reachable, backend disabled", "error", err)
		return false
	}

	c.logger.Info("tmdb api reachable, backend enabled")
	available = true
	return true
}

func (c *Client) language(session *model.VotingSession) string {
	if session == nil {
		return c.cfg.Language
	}
	return session.Language(c.cfg.Language)
}

// ListMovieIds pages through the discover API, honoring the session's
// provider selection, discover options, genre constraints and runtime cap.
func (c *Client) ListMovieIds(ctx context.Context, session *model.VotingSession) ([]model.MovieId, error) {
	if !c.IsAvailable(ctx) {
		return nil, nil
	}

	region := session.Discover.Region
	if region == "" {
		region = c.cfg.Region
	}

	var providerIDs []string
	for _, p := range session.Providers {
		if !p.UsesTMDBAsSource() {
			continue
		}
		for _, info := range c.tmdbProvidersFor(ctx, p) {
			for _, r := range info.Regions {
				if r == region {
					providerIDs = append(providerIDs, strconv.FormatInt(info.ID, 10))
					break
				}
			}
		}
	}
	if len(providerIDs) == 0 {
		return nil, nil
	}

	language := c.language(session)
	query := c.discoverQuery(ctx, session, language, region, providerIDs)

	total := session.Discover.Total
	if total <= 0 {
		total = c.cfg.DiscoverTotal
	}

	var ids []model.MovieId
	for page := 1; len(ids) < total; page++ {
		var result struct {
			Results []movieDTO `json:"results"`
		}
		if err := c.get(ctx, query+"&page="+strconv.Itoa(page), &result); err != nil {
			metrics.SourceFailures.WithLabelValues(string(model.SourceTMDB)).Inc()
			c.logger.Error("tmdb discover failed, stopping candidate listing", "page", page, "error", err)
			break
		}
		if len(result.Results) == 0 {
			break
		}
		for _, m := range result.Results {
			ids = append(ids, model.NewMovieId(model.SourceTMDB, strconv.FormatInt(m.ID, 10), language))
		}
	}
	return ids, nil
}

func (c *Client) discoverQuery(ctx context.Context, session *model.VotingSession, language, region string, providerIDs []string) string {
	v := url.Values{}
	v.Set("include_adult", strconv.FormatBool(c.cfg.IncludeAdult))
	v.Set("include_video", "false")
	v.Set("language", language)
	v.Set("watch_region", region)
	v.Set("with_watch_providers", strings.Join(providerIDs, "|"))
	v.Set("with_watch_monetization_types", "flatrate|free|rent")

	sortBy := session.Discover.SortBy
	if sortBy == "" {
		sortBy = "popularity"
	}
	sortOrder := session.Discover.SortOrder
	if sortOrder == "" {
		sortOrder = "desc"
	}
	v.Set("sort_by", sortBy+"."+sortOrder)

	v.Set("release_date.gte", fmt.Sprintf("%04d-01-01", session.Misc.MinYear))
	maxDate := time.Date(session.Misc.MaxYear, 12, 31, 0, 0, 0, 0, time.UTC)
	if now := time.Now(); maxDate.After(now) {
		maxDate = now
	}
	v.Set("release_date.lte", maxDate.Format("2006-01-02"))

	if excluded := c.nativeGenreIDs(ctx, language, session.Genres.Excluded); len(excluded) > 0 {
		v.Set("without_genres", strings.Join(excluded, ","))
	}
	if must := c.nativeGenreIDs(ctx, language, session.Genres.Must); len(must) > 0 {
		v.Set("with_genres", strings.Join(must, "|"))
	}

	if session.Misc.MaxDuration <= 240 {
		v.Set("with_runtime.lte", strconv.Itoa(session.Misc.MaxDuration+1))
	}
	minRating := session.Misc.MinRating
	if session.Discover.VoteAverage != nil {
		minRating = *session.Discover.VoteAverage
	}
	if minRating > 0 {
		v.Set("vote_average.gte", strconv.FormatFloat(minRating, 'f', -1, 64))
	}
	minVotes := session.Misc.MinVotes
	if session.Discover.VoteCount != nil {
		minVotes = *session.Discover.VoteCount
	}
	if minVotes > 0 {
		v.Set("vote_count.gte", strconv.Itoa(minVotes))
	}

	return apiBase + "/discover/movie?" + v.Encode()
}

// nativeGenreIDs translates genre hashes to TMDB's own genre ids.
func (c *Client) nativeGenreIDs(ctx context.Context, language string, hashes []int64) []string {
	if len(hashes) == 0 {
		return nil
	}

	wanted := make(map[int64]bool, len(hashes))
	for _, h := range hashes {
		wanted[h] = true
	}

	genres, err := c.ListGenres(ctx, language)
	if err != nil {
		return nil
	}

	var native []string
	for _, g := range genres {
		if !wanted[g.ID] {
			continue
		}
		if nativeID, ok := g.NativeID(model.SourceTMDB); ok {
			native = append(native, nativeID)
		}
	}
	return native
}

func (c *Client) GetMovieById(ctx context.Context, nativeID string, language string) (*model.Movie, error) {
	if !c.IsAvailable(ctx) {
		return nil, infra_source.ErrUnavailable
	}

	tmdbID, err := strconv.ParseInt(nativeID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: tmdb id %q is not numeric", infra_source.ErrNotFound, nativeID)
	}

	dto, err := c.detail(ctx, tmdbID, language)
	if err != nil {
		return nil, err
	}

	movie := c.toMovie(ctx, dto, nativeID, language)
	c.reconcileLocalProviders(ctx, movie)
	return movie, nil
}

func (c *Client) detail(ctx context.Context, tmdbID int64, language string) (*movieDTO, error) {
	c.mu.Lock()
	cached, ok := c.details[tmdbID]
	c.mu.Unlock()
	if ok {
		if cached == nil {
			return nil, infra_source.ErrNotFound
		}
		return cached, nil
	}

	query := fmt.Sprintf("%s/movie/%d?append_to_response=release_dates,videos,watch/providers&language=%s", apiBase, tmdbID, language)
	var dto movieDTO
	err := c.get(ctx, query, &dto)
	if err != nil {
		metrics.SourceFailures.WithLabelValues(string(model.SourceTMDB)).Inc()
		return nil, err
	}

	var result *movieDTO
	if dto.ID != 0 {
		result = &dto
	}
	c.mu.Lock()
	c.details[tmdbID] = result
	c.mu.Unlock()

	if result == nil {
		return nil, infra_source.ErrNotFound
	}
	return result, nil
}

func (c *Client) toMovie(ctx context.Context, dto *movieDTO, nativeID, language string) *model.Movie {
	genres := make([]model.GenreId, 0, len(dto.Genres))
	for _, g := range dto.Genres {
		genres = append(genres, model.NewGenreWithNativeID(g.Name, model.SourceTMDB, strconv.FormatInt(g.ID, 10)))
	}

	year := 0
	if len(dto.ReleaseDate) >= 4 {
		year, _ = strconv.Atoi(dto.ReleaseDate[:4])
	}

	movie := model.NewMovie(
		model.NewMovieId(model.SourceTMDB, nativeID, language),
		dto.Title, dto.Overview, year, genres, dto.Runtime,
		c.extractAge(dto.ReleaseDates.Results), -1,
	)
	movie.OriginalTitle = dto.OriginalTitle
	movie.Rating = model.Rating{Average: dto.VoteAverage, Count: dto.VoteCount}
	movie.External.TMDB = nativeID
	movie.External.IMDB = dto.IMDBID
	movie.AddTrailerIDs(extractTrailerIDs(dto.Videos))
	movie.AddProviders(c.extractProviders(ctx, dto.WatchProviders.Results))

	if dto.PosterPath != "" {
		posterPath := dto.PosterPath
		movie.PosterCandidates = append(movie.PosterCandidates, func(ctx context.Context) (model.Poster, error) {
			return c.fetcher.Fetch(ctx, posterURL+posterPath)
		})
	}

	return movie
}

func (c *Client) extractAge(releaseDates []releaseDatesDTO) *int {
	region := strings.ToUpper(c.cfg.Region)
	for _, rd := range releaseDates {
		if strings.ToUpper(rd.Country) != region || len(rd.Releases) == 0 {
			continue
		}
		cert := rd.Releases[0].Certification
		if cert == "" {
			return nil
		}
		if age, err := strconv.Atoi(cert); err == nil {
			return &age
		}
		if age, ok := agerating.FromMPAA(cert); ok {
			return &age
		}
		return nil
	}
	return nil
}

func extractTrailerIDs(videos videosDTO) []string {
	var trailers []string
	for _, v := range videos.Results {
		if strings.EqualFold(v.Site, "youtube") && strings.EqualFold(v.Type, "trailer") && v.Key != "" {
			trailers = append(trailers, v.Key)
		}
	}
	return trailers
}

func (c *Client) extractProviders(ctx context.Context, offersByRegion map[string]watchOffersDTO) []model.Provider {
	offers, ok := offersByRegion[strings.ToUpper(c.cfg.Region)]
	if !ok {
		return nil
	}

	var providers []model.Provider
	appendMatches := func(dtos []watchProviderDTO, monetization model.Monetization) {
		for _, dto := range dtos {
			if p := c.providerByTMDBID(ctx, dto.ProviderID, monetization); p != "" {
				providers = append(providers, p)
			}
		}
	}
	appendMatches(offers.Flatrate, model.MonetizationFlatrate)
	appendMatches(offers.Rent, model.MonetizationRent)
	appendMatches(offers.Buy, model.MonetizationBuy)
	appendMatches(offers.Free, model.MonetizationFree)
	return providers
}

func (c *Client) reconcileLocalProviders(ctx context.Context, movie *model.Movie) {
	if c.reconciler == nil {
		return
	}

	titles := []string{movie.Title}
	if movie.OriginalTitle != "" && movie.OriginalTitle != movie.Title {
		titles = append(titles, movie.OriginalTitle)
	}

	for _, local := range c.reconciler.LocalSources() {
		if _, err := local.GetMovieIdByTitleYear(ctx, titles, movie.Year); err == nil {
			movie.AddProvider(local.Source().Provider())
		}
	}
}

// GetTrailersById fetches youtube trailer keys for a TMDB id; used for
// trailer backfill on movies from other sources.
func (c *Client) GetTrailersById(ctx context.Context, tmdbID string, language string) ([]string, error) {
	if !c.IsAvailable(ctx) {
		return nil, infra_source.ErrUnavailable
	}
	if language == "" {
		language = c.cfg.Language
	}

	var videos videosDTO
	query := fmt.Sprintf("%s/movie/%s/videos?language=%s", apiBase, url.PathEscape(tmdbID), language)
	if err := c.get(ctx, query, &videos); err != nil {
		metrics.SourceFailures.WithLabelValues(string(model.SourceTMDB)).Inc()
		return nil, err
	}
	return extractTrailerIDs(videos), nil
}

// PosterByTMDBID is the cross-provider poster fallback: resolve the TMDB
// detail and fetch its poster path from the image CDN.
func (c *Client) PosterByTMDBID(ctx context.Context, tmdbID string, language string) (model.Poster, error) {
	if !c.IsAvailable(ctx) {
		return model.Poster{}, infra_imagefetch.ErrNotFound
	}
	if language == "" {
		language = c.cfg.Language
	}

	id, err := strconv.ParseInt(tmdbID, 10, 64)
	if err != nil {
		return model.Poster{}, infra_imagefetch.ErrNotFound
	}

	dto, err := c.detail(ctx, id, language)
	if err != nil || dto.PosterPath == "" {
		return model.Poster{}, infra_imagefetch.ErrNotFound
	}
	return c.fetcher.Fetch(ctx, posterURL+dto.PosterPath)
}

func (c *Client) ListGenres(ctx context.Context, language string) ([]model.GenreId, error) {
	if !c.IsAvailable(ctx) {
		return nil, nil
	}
	if language == "" {
		language = c.cfg.Language
	}

	c.mu.Lock()
	cached, ok := c.genresByLanguage[language]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	var result struct {
		Genres []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"genres"`
	}
	if err := c.get(ctx, apiBase+"/genre/movie/list?language="+language, &result); err != nil {
		metrics.SourceFailures.WithLabelValues(string(model.SourceTMDB)).Inc()
		c.logger.Error("listing tmdb genres failed, no genres will be contributed", "error", err)
		return nil, nil
	}

	genres := make([]model.GenreId, 0, len(result.Genres))
	for _, g := range result.Genres {
		genres = append(genres, model.NewGenreWithNativeID(g.Name, model.SourceTMDB, strconv.FormatInt(g.ID, 10)))
	}

	c.mu.Lock()
	c.genresByLanguage[language] = genres
	c.mu.Unlock()
	return genres, nil
}

// GetMovieIdByTitleYear is not supported for a catalog-only source.
func (c *Client) GetMovieIdByTitleYear(ctx context.Context, titles []string, year int) (string, error) {
	return "", infra_source.ErrNotFound
}

func (c *Client) providerByTMDBID(ctx context.Context, tmdbProviderID int64, monetization model.Monetization) model.Provider {
	for _, p := range model.AllProviders() {
		if !p.UsesTMDBAsSource() || p.Monetization() != monetization {
			continue
		}
		for _, info := range c.tmdbProvidersFor(ctx, p) {
			if info.ID == tmdbProviderID {
				return p
			}
		}
	}
	return ""
}

func (c *Client) tmdbProvidersFor(ctx context.Context, provider model.Provider) []providerInfo {
	c.mu.Lock()
	mapping := c.providerMapping
	c.mu.Unlock()

	if mapping == nil {
		mapping = make(map[model.Provider][]providerInfo)
		for _, info := range c.listProviders(ctx) {
			match, err := model.ParseProvider(info.Name)
			if err != nil {
				continue
			}
			mapping[match] = append(mapping[match], info)
		}
		c.mu.Lock()
		c.providerMapping = mapping
		c.mu.Unlock()
	}
	return mapping[provider]
}

func (c *Client) listProviders(ctx context.Context) []providerInfo {
	c.mu.Lock()
	cached := c.providers
	c.mu.Unlock()
	if cached != nil {
		return cached
	}

	var result struct {
		Results []struct {
			ProviderName      string             `json:"provider_name"`
			ProviderID        int64              `json:"provider_id"`
			DisplayPriorities map[string]float64 `json:"display_priorities"`
		} `json:"results"`
	}
	if err := c.get(ctx, apiBase+"/watch/providers/movie", &result); err != nil {
		metrics.SourceFailures.WithLabelValues(string(model.SourceTMDB)).Inc()
		c.logger.Error("listing tmdb watch providers failed", "error", err)
		return nil
	}

	providers := make([]providerInfo, 0, len(result.Results))
	for _, p := range result.Results {
		regions := make([]string, 0, len(p.DisplayPriorities))
		for region := range p.DisplayPriorities {
			regions = append(regions, region)
		}
		providers = append(providers, providerInfo{ID: p.ProviderID, Name: p.ProviderName, Regions: regions})
	}

	c.mu.Lock()
	c.providers = providers
	c.mu.Unlock()
	return providers
}

func (c *Client) get(ctx context.Context, query string, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("tmdb rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, query, nil)
	if err != nil {
		return fmt.Errorf("build tmdb query: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb query: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb query: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("tmdb query: response was no json: %w", err)
	}
	return nil
}
