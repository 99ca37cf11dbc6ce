package usecase_filter

import (
	"context"
	"log/slog"

	"github.com/humanbelnik/kinomatch/core/internal/cache"
	"github.com/humanbelnik/kinomatch/core/internal/metrics"
	"github.com/humanbelnik/kinomatch/core/internal/model"
)

//go:generate mockery --name=DetailResolver --output=./mocks/filter/resolver --filename=resolver.go
type DetailResolver interface {
	Get(ctx context.Context, id model.MovieId) (*model.Movie, error)
}

// Engine decides keep/drop per (session, movie). Verdicts are memoized
// forever; inputs are immutable so a verdict never changes.
type Engine struct {
	cache    *cache.Service
	resolver DetailResolver
	logger   *slog.Logger
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func New(cacheService *cache.Service, resolver DetailResolver, opts ...Option) *Engine {
	e := &Engine{
		cache:    cacheService,
		resolver: resolver,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsFiltered reports whether the movie must be skipped for this session.
func (e *Engine) IsFiltered(ctx context.Context, session *model.VotingSession, id model.MovieId) bool {
	if filtered, ok := e.cache.Verdict(session.ID, id); ok {
		metrics.FilterCacheHits.Inc()
		return filtered
	}

	filtered := e.evaluate(ctx, session, id)
	e.cache.SetVerdict(session.ID, id, filtered)
	return filtered
}

// evaluate runs the short-circuiting rule chain; the first firing rule wins.
func (e *Engine) evaluate(ctx context.Context, session *model.VotingSession, id model.MovieId) bool {
	movie, err := e.resolver.Get(ctx, id)
	if err != nil {
		e.logger.Debug("movie did not resolve, filtered", "movie", id, "error", err)
		return true
	}

	if len(movie.FilterProviders(session.Providers)) == 0 {
		return true
	}

	if e.duplicateOfPreferredSource(session, movie) {
		return true
	}

	noGenreRules := len(session.Genres.Must) == 0 && len(session.Genres.Excluded) == 0
	if noGenreRules && session.Misc.IsWidest() {
		return false
	}

	if !session.Misc.IncludeWatched && movie.Playcount > 0 {
		return true
	}
	if movie.RuntimeMinutes > session.Misc.MaxDuration {
		return true
	}
	if movie.AgeRating != nil && *movie.AgeRating > session.Misc.MaxAge {
		return true
	}
	// Year 0 means the backend does not know the release year; such movies
	// are never year-filtered.
	if movie.Year > 0 && (movie.Year < session.Misc.MinYear || movie.Year > session.Misc.MaxYear) {
		return true
	}

	return e.filteredByGenre(session, movie)
}

// duplicateOfPreferredSource suppresses a movie whose own source is not the
// highest-ranked local library that is both selected for the session and
// listed among the movie's providers. The same title then shows up exactly
// once, through the preferred library.
func (e *Engine) duplicateOfPreferredSource(session *model.VotingSession, movie *model.Movie) bool {
	for _, src := range model.LocalSourcePreference() {
		provider := src.Provider()
		if !session.HasProvider(provider) {
			continue
		}

		available := false
		for _, p := range movie.Providers {
			if p == provider {
				available = true
				break
			}
		}
		if !available {
			continue
		}

		return movie.ID.Source != src
	}
	return false
}

// filteredByGenre applies the genre rules. A movie without genres is never
// filtered by genre.
func (e *Engine) filteredByGenre(session *model.VotingSession, movie *model.Movie) bool {
	if len(movie.Genres) == 0 {
		return false
	}

	for _, genre := range movie.Genres {
		for _, excluded := range session.Genres.Excluded {
			if genre.ID == excluded {
				return true
			}
		}
	}

	if len(session.Genres.Must) == 0 {
		return false
	}
	for _, genre := range movie.Genres {
		for _, must := range session.Genres.Must {
			if genre.ID == must {
				return false
			}
		}
	}
	return true
}
