package model

import (
	"context"
	"fmt"
)

// MovieId identifies one candidate movie. It is the universal map key across
// caches, so it must stay comparable.
type MovieId struct {
	Source   Source
	NativeID string
	Language string
}

func NewMovieId(source Source, nativeID string, language string) MovieId {
	return MovieId{Source: source, NativeID: nativeID, Language: language}
}

func (id MovieId) String() string {
	return string(id.Source) + "-" + id.NativeID
}

// Key is the filesystem/cache-safe encoding, unique over all three fields.
func (id MovieId) Key() string {
	return fmt.Sprintf("%s_%s_%s", id.Source, id.NativeID, id.Language)
}

// Poster is fetched image content plus its file extension (".jpg").
type Poster struct {
	Content   []byte
	Extension string
}

// PosterFunc is one strategy for obtaining a poster. Strategies are attached
// by the source that built the movie and tried in order until one succeeds.
type PosterFunc func(ctx context.Context) (Poster, error)

// Rating is an averaged community score.
type Rating struct {
	Average float64
	Count   int
}

// ExternalIDs are well-known cross-catalog ids, when the source knows them.
type ExternalIDs struct {
	TMDB string
	IMDB string
}

// Movie is the fully resolved detail for one MovieId. Built once, then
// cached; providers, genres and trailer ids only ever grow.
type Movie struct {
	ID            MovieId
	Title         string
	OriginalTitle string
	Plot          string
	Year          int
	Genres        []GenreId
	// RuntimeMinutes is 0 when the source reports no runtime.
	RuntimeMinutes int
	// AgeRating is an FSK-style minimum age, nil when unknown.
	AgeRating *int
	Playcount int
	Rating    Rating
	External  ExternalIDs
	Providers []Provider
	// TrailerIDs are youtube video keys.
	TrailerIDs []string

	// PosterCandidates are tried in declared priority order by the resolver.
	PosterCandidates []PosterFunc
	// ThumbnailPath is the resolved on-disk poster, "" when none was found.
	ThumbnailPath string
}

func NewMovie(id MovieId, title, plot string, year int, genres []GenreId, runtimeMinutes int, ageRating *int, playcount int) *Movie {
	m := &Movie{
		ID:             id,
		Title:          title,
		Plot:           plot,
		Year:           year,
		Genres:         genres,
		RuntimeMinutes: runtimeMinutes,
		AgeRating:      ageRating,
		Playcount:      playcount,
	}
	m.AddProvider(id.Source.Provider())
	return m
}

// AddProvider appends a provider, ignoring "" and duplicates.
func (m *Movie) AddProvider(p Provider) {
	if p == "" {
		return
	}
	for _, existing := range m.Providers {
		if existing == p {
			return
		}
	}
	m.Providers = append(m.Providers, p)
}

func (m *Movie) AddProviders(ps []Provider) {
	for _, p := range ps {
		m.AddProvider(p)
	}
}

// FilterProviders returns the movie's providers restricted to the wanted set.
func (m *Movie) FilterProviders(wanted []Provider) []Provider {
	var result []Provider
	for _, p := range m.Providers {
		for _, w := range wanted {
			if p == w {
				result = append(result, p)
				break
			}
		}
	}
	return result
}

func (m *Movie) AddTrailerIDs(ids []string) {
next:
	for _, id := range ids {
		for _, existing := range m.TrailerIDs {
			if existing == id {
				continue next
			}
		}
		m.TrailerIDs = append(m.TrailerIDs, id)
	}
}

func (m *Movie) String() string {
	return fmt.Sprintf("%s : %s (%d)", m.ID, m.Title, m.Year)
}
