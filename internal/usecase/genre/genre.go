package usecase_genre

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/humanbelnik/kinomatch/core/internal/model"
)

//go:generate mockery --name=GenreSource --output=./mocks/genre/source --filename=source.go
type GenreSource interface {
	Source() model.Source
	ListGenres(ctx context.Context, language string) ([]model.GenreId, error)
}

// Registry merges genre lists from every registered source into one
// deduplicated list. Two genres with the same normalized name collapse into
// one entry carrying the union of per-source native ids.
type Registry struct {
	sources func() []GenreSource
	logger  *slog.Logger

	mu     sync.Mutex
	merged map[string][]model.GenreId
}

type Option func(*Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// New takes a source lister so the registry always sees the current set of
// registered backends.
func New(sources func() []GenreSource, opts ...Option) *Registry {
	r := &Registry{
		sources: sources,
		logger:  slog.Default(),
		merged:  make(map[string][]model.GenreId),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MergeAll returns the merged genre list for the language, sorted by display
// name. Computed once per language and cached for the process lifetime.
func (r *Registry) MergeAll(ctx context.Context, language string) ([]model.GenreId, error) {
	r.mu.Lock()
	cached, ok := r.merged[language]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	byHash := make(map[int64]*model.GenreId)
	var order []int64

	for _, source := range r.sources() {
		genres, err := source.ListGenres(ctx, language)
		if err != nil {
			r.logger.Error("listing genres failed, source contributes none",
				"source", source.Source(), "error", err)
			continue
		}
		for _, genre := range genres {
			if existing, ok := byHash[genre.ID]; ok {
				existing.Merge(genre)
				continue
			}
			g := genre
			byHash[genre.ID] = &g
			order = append(order, genre.ID)
		}
	}

	merged := make([]model.GenreId, 0, len(order))
	for _, hash := range order {
		merged = append(merged, *byHash[hash])
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].DisplayName < merged[j].DisplayName
	})

	r.mu.Lock()
	r.merged[language] = merged
	r.mu.Unlock()
	return merged, nil
}

// Reset drops the cached merge so the next MergeAll recomputes.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.merged = make(map[string][]model.GenreId)
	r.mu.Unlock()
}
