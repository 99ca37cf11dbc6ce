package usecase_movie

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/humanbelnik/kinomatch/core/internal/cache"
	infra_source "github.com/humanbelnik/kinomatch/core/internal/infra/source"
	"github.com/humanbelnik/kinomatch/core/internal/metrics"
	"github.com/humanbelnik/kinomatch/core/internal/model"
)

var (
	ErrResourceNotFound = errors.New("no such resource")
	ErrInternal         = errors.New("internal error")
)

//go:generate mockery --name=PosterStore --output=./mocks/movie/posterstore --filename=posterstore.go
type PosterStore interface {
	Lookup(id model.MovieId) string
	Store(id model.MovieId, poster model.Poster) (string, error)
}

// CrossCatalog is the TMDB fallback surface: trailers and posters by tmdb id
// for movies whose primary source is a local library.
//
//go:generate mockery --name=CrossCatalog --output=./mocks/movie/crosscatalog --filename=crosscatalog.go
type CrossCatalog interface {
	GetTrailersById(ctx context.Context, tmdbID string, language string) ([]string, error)
	PosterByTMDBID(ctx context.Context, tmdbID string, language string) (model.Poster, error)
}

//go:generate mockery --name=PosterByIMDB --output=./mocks/movie/posterbyimdb --filename=posterbyimdb.go
type PosterByIMDB interface {
	PosterByIMDBID(ctx context.Context, imdbID string) (model.Poster, error)
}

// Resolver turns a MovieId into full detail. Results are cached per id;
// posters resolve through an on-disk cache before any network strategy runs.
type Resolver struct {
	cache    *cache.Service
	registry *infra_source.Registry
	posters  PosterStore
	tmdb     CrossCatalog
	omdb     PosterByIMDB
	logger   *slog.Logger
}

type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// WithCrossCatalog enables the TMDB poster/trailer fallback.
func WithCrossCatalog(tmdb CrossCatalog) Option {
	return func(r *Resolver) { r.tmdb = tmdb }
}

// WithPosterByIMDB enables the OMDb poster fallback.
func WithPosterByIMDB(omdb PosterByIMDB) Option {
	return func(r *Resolver) { r.omdb = omdb }
}

func New(
	cacheService *cache.Service,
	registry *infra_source.Registry,
	posters PosterStore,
	opts ...Option,
) *Resolver {
	r := &Resolver{
		cache:    cacheService,
		registry: registry,
		posters:  posters,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get resolves full movie detail. A cache hit returns the memoized record;
// later enrichment mutates that record through Enrich only.
func (r *Resolver) Get(ctx context.Context, id model.MovieId) (*model.Movie, error) {
	if movie, ok := r.cache.Movie(id); ok {
		metrics.MovieCacheHits.Inc()
		return movie, nil
	}
	metrics.MovieCacheMisses.Inc()

	source, ok := r.registry.Lookup(id.Source)
	if !ok {
		return nil, fmt.Errorf("%w: no backend for source %s", ErrResourceNotFound, id.Source)
	}

	movie, err := source.GetMovieById(ctx, id.NativeID, id.Language)
	if err != nil {
		// Unavailable and missing both collapse to not-found.
		return nil, fmt.Errorf("%w: %w", ErrResourceNotFound, err)
	}

	r.resolvePoster(ctx, movie)
	r.Enrich(ctx, movie)

	r.cache.SetMovie(movie)
	return movie, nil
}

// Enrich backfills trailer ids from TMDB for movies whose primary source is
// not TMDB but whose tmdb id is known. The cached record grows in place;
// nothing is ever removed.
func (r *Resolver) Enrich(ctx context.Context, movie *model.Movie) {
	if r.tmdb == nil ||
		movie.ID.Source == model.SourceTMDB ||
		movie.External.TMDB == "" ||
		len(movie.TrailerIDs) > 0 {
		return
	}

	trailers, err := r.tmdb.GetTrailersById(ctx, movie.External.TMDB, movie.ID.Language)
	if err != nil {
		r.logger.Debug("trailer backfill failed, movie stays without trailers",
			"movie", movie.ID, "error", err)
		return
	}
	movie.AddTrailerIDs(trailers)
}

// resolvePoster fills ThumbnailPath. Disk cache first, then the movie's own
// strategies in priority order, then TMDB-by-id, then IMDB-by-id. Every
// failure is absorbed; total failure leaves the thumbnail unset.
func (r *Resolver) resolvePoster(ctx context.Context, movie *model.Movie) {
	if path := r.posters.Lookup(movie.ID); path != "" {
		metrics.PosterCacheHits.Inc()
		movie.ThumbnailPath = path
		return
	}

	for _, fetch := range movie.PosterCandidates {
		if r.storePoster(ctx, movie, fetch) {
			return
		}
	}

	if r.tmdb != nil && movie.External.TMDB != "" {
		ok := r.storePoster(ctx, movie, func(ctx context.Context) (model.Poster, error) {
			return r.tmdb.PosterByTMDBID(ctx, movie.External.TMDB, movie.ID.Language)
		})
		if ok {
			return
		}
	}

	if r.omdb != nil && movie.External.IMDB != "" {
		ok := r.storePoster(ctx, movie, func(ctx context.Context) (model.Poster, error) {
			return r.omdb.PosterByIMDBID(ctx, movie.External.IMDB)
		})
		if ok {
			return
		}
	}

	r.logger.Debug("no poster found", "movie", movie.ID)
}

func (r *Resolver) storePoster(ctx context.Context, movie *model.Movie, fetch model.PosterFunc) bool {
	poster, err := fetch(ctx)
	if err != nil {
		return false
	}

	path, err := r.posters.Store(movie.ID, poster)
	if err != nil {
		r.logger.Error("storing poster failed", "movie", movie.ID, "error", err)
		return false
	}
	movie.ThumbnailPath = path
	return true
}
