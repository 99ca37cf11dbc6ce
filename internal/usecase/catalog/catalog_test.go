//go:build !integration
// +build !integration

package usecase_catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/humanbelnik/kinomatch/core/internal/cache"
	infra_source "github.com/humanbelnik/kinomatch/core/internal/infra/source"
	"github.com/humanbelnik/kinomatch/core/internal/model"
	mocks "github.com/humanbelnik/kinomatch/core/internal/usecase/catalog/mocks/catalog/repository"
)

type BuilderUnitSuite struct {
	suite.Suite
}

// stubSource is a canned backend; registry construction needs the full
// interface, which is too wide for a generated mock to stay readable.
type stubSource struct {
	source model.Source
	ids    []model.MovieId
	err    error
	calls  int
}

func (s *stubSource) Source() model.Source                { return s.source }
func (s *stubSource) IsAvailable(_ context.Context) bool  { return s.err == nil }
func (s *stubSource) ForceRecheck(_ context.Context) bool { return s.err == nil }
func (s *stubSource) GetMovieById(_ context.Context, _ string, _ string) (*model.Movie, error) {
	return nil, infra_source.ErrNotFound
}
func (s *stubSource) ListGenres(_ context.Context, _ string) ([]model.GenreId, error) {
	return nil, nil
}
func (s *stubSource) GetMovieIdByTitleYear(_ context.Context, _ []string, _ int) (string, error) {
	return "", infra_source.ErrNotFound
}

func (s *stubSource) ListMovieIds(_ context.Context, _ *model.VotingSession) ([]model.MovieId, error) {
	s.calls++
	return s.ids, s.err
}

func kodiIds(nativeIDs ...string) []model.MovieId {
	ids := make([]model.MovieId, 0, len(nativeIDs))
	for _, nativeID := range nativeIDs {
		ids = append(ids, model.NewMovieId(model.SourceKodi, nativeID, ""))
	}
	return ids
}

func seededSession(seed int64, providers ...model.Provider) *model.VotingSession {
	return &model.VotingSession{
		ID:        1,
		Seed:      seed,
		Providers: providers,
		Misc:      model.WidestMiscFilter(),
	}
}

func freshBuilder(t provider.T, sources ...infra_source.CatalogSource) (*Builder, *mocks.EntryRepository) {
	registry := infra_source.NewRegistry()
	for _, source := range sources {
		registry.Register(source)
	}
	entries := mocks.NewEntryRepository(t)
	return New(cache.New(), registry, entries, "de-DE"), entries
}

func buildOnce(t provider.T, session *model.VotingSession, sources ...infra_source.CatalogSource) []model.MovieId {
	builder, entries := freshBuilder(t, sources...)
	entries.On("ListBySession", mock.Anything, session.ID).Return(nil, nil).Once()

	var inserted []model.MovieId
	entries.On("InsertAll", mock.Anything, session.ID, mock.Anything).
		Run(func(args mock.Arguments) {
			inserted = args.Get(2).([]model.MovieId)
		}).
		Return(nil).Once()

	ids, err := builder.Get(context.Background(), session)
	assert.NoError(t, err)
	assert.Equal(t, inserted, ids)
	return ids
}

func (s *BuilderUnitSuite) TestDeterministicShuffle(t provider.T) {
	t.Run("Should produce the same order for the same seed", func(t provider.T) {
		session := seededSession(42, model.ProviderKodi)
		listed := kodiIds("1", "2", "3", "4", "5")

		first := buildOnce(t, session, &stubSource{source: model.SourceKodi, ids: listed})
		second := buildOnce(t, session, &stubSource{source: model.SourceKodi, ids: listed})

		assert.Equal(t, first, second)
		assert.ElementsMatch(t, listed, first)
	})
}

func (s *BuilderUnitSuite) TestReplay(t provider.T) {
	t.Run("Should replay a persisted order without reshuffling", func(t provider.T) {
		session := seededSession(42, model.ProviderKodi)
		source := &stubSource{source: model.SourceKodi, ids: kodiIds("1", "2", "3")}
		builder, entries := freshBuilder(t, source)

		persisted := []model.MovieEntry{
			{SessionID: 1, Source: model.SourceKodi, NativeID: "3"},
			{SessionID: 1, Source: model.SourceKodi, NativeID: "1"},
			{SessionID: 1, Source: model.SourceKodi, NativeID: "2"},
		}
		entries.On("ListBySession", mock.Anything, session.ID).Return(persisted, nil).Once()

		ids, err := builder.Get(context.Background(), session)

		assert.NoError(t, err)
		assert.Equal(t, kodiIds("3", "1", "2"), ids)
		assert.Zero(t, source.calls)
		entries.AssertNotCalled(t, "InsertAll", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should stamp replayed entries with the language a fresh listing uses", func(t provider.T) {
		session := seededSession(42, model.ProviderNetflix)
		session.Discover.Language = "en-US"
		builder, entries := freshBuilder(t)

		persisted := []model.MovieEntry{
			{SessionID: 1, Source: model.SourceTMDB, NativeID: "500"},
			{SessionID: 1, Source: model.SourceKodi, NativeID: "9"},
			{SessionID: 1, Source: model.SourceJellyfin, NativeID: "j1"},
		}
		entries.On("ListBySession", mock.Anything, session.ID).Return(persisted, nil).Once()

		ids, err := builder.Get(context.Background(), session)

		assert.NoError(t, err)
		assert.Equal(t, "en-US", ids[0].Language)
		assert.Equal(t, "en-US", ids[1].Language)
		assert.Equal(t, "", ids[2].Language)
	})

	t.Run("Should fall back to the default discover language only for tmdb entries", func(t provider.T) {
		session := seededSession(42, model.ProviderNetflix)
		builder, entries := freshBuilder(t)

		persisted := []model.MovieEntry{
			{SessionID: 1, Source: model.SourceTMDB, NativeID: "500"},
			{SessionID: 1, Source: model.SourceKodi, NativeID: "9"},
		}
		entries.On("ListBySession", mock.Anything, session.ID).Return(persisted, nil).Once()

		ids, err := builder.Get(context.Background(), session)

		assert.NoError(t, err)
		assert.Equal(t, "de-DE", ids[0].Language)
		assert.Equal(t, "", ids[1].Language)
	})
}

func (s *BuilderUnitSuite) TestBuild(t provider.T) {
	t.Run("Should query a shared source once for many providers", func(t provider.T) {
		session := seededSession(42, model.ProviderNetflix, model.ProviderDisneyPlus, model.ProviderAmazonPrime)
		tmdb := &stubSource{
			source: model.SourceTMDB,
			ids:    []model.MovieId{model.NewMovieId(model.SourceTMDB, "500", "de-DE")},
		}

		ids := buildOnce(t, session, tmdb)

		assert.Equal(t, 1, tmdb.calls)
		assert.Len(t, ids, 1)
	})

	t.Run("Should let a failing source contribute nothing", func(t provider.T) {
		session := seededSession(42, model.ProviderKodi, model.ProviderJellyfin)
		kodi := &stubSource{source: model.SourceKodi, ids: kodiIds("1", "2")}
		jellyfin := &stubSource{source: model.SourceJellyfin, err: errors.New("unreachable")}

		ids := buildOnce(t, session, kodi, jellyfin)

		assert.ElementsMatch(t, kodiIds("1", "2"), ids)
	})

	t.Run("Should serve later calls from the cache", func(t provider.T) {
		session := seededSession(42, model.ProviderKodi)
		source := &stubSource{source: model.SourceKodi, ids: kodiIds("1", "2")}
		builder, entries := freshBuilder(t, source)
		entries.On("ListBySession", mock.Anything, session.ID).Return(nil, nil).Once()
		entries.On("InsertAll", mock.Anything, session.ID, mock.Anything).Return(nil).Once()

		first, err := builder.Get(context.Background(), session)
		assert.NoError(t, err)
		second, err := builder.Get(context.Background(), session)
		assert.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, source.calls)
	})
}

func TestBuilderUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(BuilderUnitSuite))
}
