package usecase_catalog

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/humanbelnik/kinomatch/core/internal/cache"
	infra_source "github.com/humanbelnik/kinomatch/core/internal/infra/source"
	"github.com/humanbelnik/kinomatch/core/internal/model"
)

var ErrInternal = errors.New("internal error")

//go:generate mockery --name=EntryRepository --output=./mocks/catalog/repository --filename=repository.go
type EntryRepository interface {
	ListBySession(ctx context.Context, sessionID int64) ([]model.MovieEntry, error)
	InsertAll(ctx context.Context, sessionID int64, ids []model.MovieId) error
}

// Builder materializes the per-session candidate order. The order is built
// once, persisted, and from then on replayed; the seed is never re-applied
// to a persisted list.
type Builder struct {
	cache           *cache.Service
	registry        *infra_source.Registry
	entries         EntryRepository
	defaultLanguage string
	logger          *slog.Logger

	// buildMu serializes all builds across all sessions. Builds are rare
	// and I/O bound, so one coarse lock is enough.
	buildMu sync.Mutex
}

type Option func(*Builder)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

func New(
	cacheService *cache.Service,
	registry *infra_source.Registry,
	entries EntryRepository,
	defaultLanguage string,
	opts ...Option,
) *Builder {
	b := &Builder{
		cache:           cacheService,
		registry:        registry,
		entries:         entries,
		defaultLanguage: defaultLanguage,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Get returns the session's fixed candidate order, building and persisting
// it on first use.
func (b *Builder) Get(ctx context.Context, session *model.VotingSession) ([]model.MovieId, error) {
	if ids, ok := b.cache.Catalog(session.ID); ok {
		return ids, nil
	}

	b.buildMu.Lock()
	defer b.buildMu.Unlock()

	// Another request may have built while this one waited for the lock.
	if ids, ok := b.cache.Catalog(session.ID); ok {
		return ids, nil
	}

	persisted, err := b.entries.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	if len(persisted) > 0 {
		ids := b.replay(session, persisted)
		b.cache.SetCatalog(session.ID, ids)
		return ids, nil
	}

	ids := b.build(ctx, session)
	if err := b.entries.InsertAll(ctx, session.ID, ids); err != nil {
		return nil, errors.Join(ErrInternal, err)
	}

	b.cache.SetCatalog(session.ID, ids)
	return ids, nil
}

// replay reconstructs MovieIds from persisted entries in storage order.
func (b *Builder) replay(session *model.VotingSession, entries []model.MovieEntry) []model.MovieId {
	ids := make([]model.MovieId, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, b.movieID(session, entry.Source, entry.NativeID))
	}
	return ids
}

// build lists candidates from every selected provider's source, querying
// each source at most once, and shuffles them with the session seed.
func (b *Builder) build(ctx context.Context, session *model.VotingSession) []model.MovieId {
	queried := make(map[model.Source]bool)
	var ids []model.MovieId

	for _, provider := range session.Providers {
		src := provider.Source()
		if queried[src] {
			continue
		}
		queried[src] = true

		source, ok := b.registry.Lookup(src)
		if !ok {
			b.logger.Warn("no backend registered for source, provider contributes nothing",
				"source", src, "provider", provider)
			continue
		}

		listed, err := source.ListMovieIds(ctx, session)
		if err != nil {
			b.logger.Error("listing movies failed, source contributes nothing",
				"source", src, "error", err)
			continue
		}
		ids = append(ids, listed...)
	}

	rng := rand.New(rand.NewSource(session.Seed))
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids
}

// movieID rebuilds the id exactly as a fresh listing from that source would
// stamp it, so detail and verdict cache keys match between build and replay.
func (b *Builder) movieID(session *model.VotingSession, source model.Source, nativeID string) model.MovieId {
	var language string
	switch source {
	case model.SourceTMDB:
		language = session.Language(b.defaultLanguage)
	case model.SourceKodi:
		language = session.Language("")
	}
	return model.NewMovieId(source, nativeID, language)
}
