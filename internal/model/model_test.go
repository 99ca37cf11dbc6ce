package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenreHash(t *testing.T) {
	assert.Equal(t, GenreHash("Drama"), GenreHash("drama"))
	assert.Equal(t, GenreHash("Drama"), GenreHash("  Drama  "))
	assert.NotEqual(t, GenreHash("Drama"), GenreHash("Comedy"))
}

func TestGenreMerge(t *testing.T) {
	genre := NewGenreWithNativeID("Drama", SourceKodi, "Drama")
	genre.Merge(NewGenreWithNativeID("drama", SourceTMDB, "18"))
	genre.Merge(NewGenreWithNativeID("Drama", SourceKodi, "overwrite attempt"))

	kodiID, _ := genre.NativeID(SourceKodi)
	tmdbID, _ := genre.NativeID(SourceTMDB)
	assert.Equal(t, "Drama", kodiID)
	assert.Equal(t, "18", tmdbID)
}

func TestMovieProviders(t *testing.T) {
	movie := NewMovie(NewMovieId(SourceKodi, "42", ""), "title", "plot", 2000, nil, 90, nil, 0)
	assert.Equal(t, []Provider{ProviderKodi}, movie.Providers)

	movie.AddProvider(ProviderNetflix)
	movie.AddProvider(ProviderNetflix)
	movie.AddProvider("")
	assert.Equal(t, []Provider{ProviderKodi, ProviderNetflix}, movie.Providers)

	assert.Equal(t, []Provider{ProviderNetflix},
		movie.FilterProviders([]Provider{ProviderNetflix, ProviderDisneyPlus}))
	assert.Empty(t, movie.FilterProviders([]Provider{ProviderJellyfin}))
}

func TestParseSource(t *testing.T) {
	source, err := ParseSource(" Kodi ")
	assert.NoError(t, err)
	assert.Equal(t, SourceKodi, source)

	_, err = ParseSource("vhs")
	assert.Error(t, err)
}

func TestParseVote(t *testing.T) {
	vote, err := ParseVote("pro")
	assert.NoError(t, err)
	assert.Equal(t, VotePro, vote)

	_, err = ParseVote("maybe")
	assert.Error(t, err)
}

func TestProviderSourceMapping(t *testing.T) {
	assert.Equal(t, SourceKodi, ProviderKodi.Source())
	assert.Equal(t, SourceTMDB, ProviderNetflix.Source())
	assert.True(t, ProviderNetflix.UsesTMDBAsSource())
	assert.False(t, ProviderPlex.UsesTMDBAsSource())
	assert.Equal(t, Provider(""), SourceTMDB.Provider())
}

func TestWidestMiscFilter(t *testing.T) {
	assert.True(t, WidestMiscFilter().IsWidest())

	narrowed := WidestMiscFilter()
	narrowed.MaxAge = 12
	assert.False(t, narrowed.IsWidest())
}

func TestMaxTimeReached(t *testing.T) {
	start := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	session := VotingSession{StartDate: start, End: EndConditions{MaxMinutes: 30}}

	assert.False(t, session.MaxTimeReached(start.Add(30*time.Minute)))
	assert.True(t, session.MaxTimeReached(start.Add(31*time.Minute)))

	unlimited := VotingSession{StartDate: start}
	assert.False(t, unlimited.MaxTimeReached(start.Add(1000*time.Hour)))
}

func TestSessionLanguage(t *testing.T) {
	session := VotingSession{}
	assert.Equal(t, "de-DE", session.Language("de-DE"))

	session.Discover.Language = "en-US"
	assert.Equal(t, "en-US", session.Language("de-DE"))
}
