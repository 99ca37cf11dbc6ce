package infra_source

import (
	"context"
	"errors"

	"github.com/humanbelnik/kinomatch/core/internal/model"
)

var (
	// ErrUnavailable marks a backend that is unreachable or misconfigured.
	// Callers degrade to zero contributions instead of failing.
	ErrUnavailable = errors.New("backend unavailable")
	// ErrNotFound marks an id the backend does not know.
	ErrNotFound = errors.New("movie not found")
)

// CatalogSource is one movie backend. One implementation per model.Source,
// constructed once at startup and registered.
type CatalogSource interface {
	Source() model.Source

	// IsAvailable probes the backend once and caches the verdict.
	IsAvailable(ctx context.Context) bool
	// ForceRecheck discards the cached probe and probes again.
	ForceRecheck(ctx context.Context) bool

	// ListMovieIds lists candidate ids for a session. A failing backend
	// yields an empty list, not an error that aborts the build.
	ListMovieIds(ctx context.Context, session *model.VotingSession) ([]model.MovieId, error)
	GetMovieById(ctx context.Context, nativeID string, language string) (*model.Movie, error)
	ListGenres(ctx context.Context, language string) ([]model.GenreId, error)
	// GetMovieIdByTitleYear reconciles a movie known under any of the given
	// titles and the exact year; "" when absent.
	GetMovieIdByTitleYear(ctx context.Context, titles []string, year int) (string, error)
}
