//go:build !integration
// +build !integration

package usecase_genre

import (
	"context"
	"errors"
	"testing"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"

	"github.com/humanbelnik/kinomatch/core/internal/model"
	mocks "github.com/humanbelnik/kinomatch/core/internal/usecase/genre/mocks/genre/source"
)

type RegistryUnitSuite struct {
	suite.Suite
}

func sourceWithGenres(t provider.T, source model.Source, genres ...model.GenreId) *mocks.GenreSource {
	m := mocks.NewGenreSource(t)
	m.On("ListGenres", context.Background(), "de-DE").Return(genres, nil).Once()
	return m
}

func fixedSources(sources ...GenreSource) func() []GenreSource {
	return func() []GenreSource { return sources }
}

func displayNames(genres []model.GenreId) []string {
	names := make([]string, 0, len(genres))
	for _, genre := range genres {
		names = append(names, genre.DisplayName)
	}
	return names
}

func (s *RegistryUnitSuite) TestMergeAll(t provider.T) {
	ctx := context.Background()

	t.Run("Should collapse same-named genres across sources", func(t provider.T) {
		kodi := sourceWithGenres(t, model.SourceKodi,
			model.NewGenreWithNativeID("Action", model.SourceKodi, "Action"),
			model.NewGenreWithNativeID("Drama", model.SourceKodi, "Drama"))
		tmdb := sourceWithGenres(t, model.SourceTMDB,
			model.NewGenreWithNativeID("drama", model.SourceTMDB, "18"),
			model.NewGenreWithNativeID("Horror", model.SourceTMDB, "27"))

		registry := New(fixedSources(kodi, tmdb))

		merged, err := registry.MergeAll(ctx, "de-DE")

		assert.NoError(t, err)
		assert.Equal(t, []string{"Action", "Drama", "Horror"}, displayNames(merged))

		drama := merged[1]
		kodiID, _ := drama.NativeID(model.SourceKodi)
		tmdbID, _ := drama.NativeID(model.SourceTMDB)
		assert.Equal(t, "Drama", kodiID)
		assert.Equal(t, "18", tmdbID)
	})

	t.Run("Should assign the same ids regardless of source order", func(t provider.T) {
		action := model.NewGenreWithNativeID("Action", model.SourceKodi, "Action")
		drama := model.NewGenreWithNativeID("Drama", model.SourceTMDB, "18")

		forward := New(fixedSources(
			sourceWithGenres(t, model.SourceKodi, action),
			sourceWithGenres(t, model.SourceTMDB, drama)))
		backward := New(fixedSources(
			sourceWithGenres(t, model.SourceTMDB, drama),
			sourceWithGenres(t, model.SourceKodi, action)))

		first, err := forward.MergeAll(ctx, "de-DE")
		assert.NoError(t, err)
		second, err := backward.MergeAll(ctx, "de-DE")
		assert.NoError(t, err)

		assert.Equal(t, displayNames(first), displayNames(second))
		for i := range first {
			assert.Equal(t, first[i].ID, second[i].ID)
		}
	})

	t.Run("Should let a failing source contribute nothing", func(t provider.T) {
		kodi := sourceWithGenres(t, model.SourceKodi,
			model.NewGenreWithNativeID("Action", model.SourceKodi, "Action"))
		broken := mocks.NewGenreSource(t)
		broken.On("ListGenres", ctx, "de-DE").Return(nil, errors.New("unreachable")).Once()
		broken.On("Source").Return(model.SourceJellyfin).Once()

		registry := New(fixedSources(kodi, broken))

		merged, err := registry.MergeAll(ctx, "de-DE")

		assert.NoError(t, err)
		assert.Equal(t, []string{"Action"}, displayNames(merged))
	})

	t.Run("Should serve later calls from the cache", func(t provider.T) {
		kodi := sourceWithGenres(t, model.SourceKodi,
			model.NewGenreWithNativeID("Action", model.SourceKodi, "Action"))
		registry := New(fixedSources(kodi))

		first, err := registry.MergeAll(ctx, "de-DE")
		assert.NoError(t, err)
		second, err := registry.MergeAll(ctx, "de-DE")
		assert.NoError(t, err)

		assert.Equal(t, first, second)
		kodi.AssertExpectations(t)
	})
}

func TestRegistryUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(RegistryUnitSuite))
}
