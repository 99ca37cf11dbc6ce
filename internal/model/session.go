package model

import (
	"time"
)

// MiscFilter carries the per-session content thresholds. Widest defaults
// mean "no filtering"; see WidestMiscFilter.
type MiscFilter struct {
	MaxAge int
	// MaxDuration is in minutes.
	MaxDuration    int
	MinYear        int
	MaxYear        int
	IncludeWatched bool
	// MinRating / MinVotes only narrow TMDB discovery; they are not applied
	// to already-listed candidates.
	MinRating float64
	MinVotes  int
}

const (
	// Ages above the highest real rating disable the age filter.
	UnboundedAge = 1000
	// Runtimes above any real movie disable the duration filter.
	UnboundedDuration = 1000
	EarliestYear      = 1900
)

func WidestMiscFilter() MiscFilter {
	return MiscFilter{
		MaxAge:         UnboundedAge,
		MaxDuration:    UnboundedDuration,
		MinYear:        EarliestYear,
		MaxYear:        time.Now().Year(),
		IncludeWatched: true,
	}
}

// IsWidest reports whether no misc threshold can reject any movie, which
// lets the filter engine skip detail checks entirely.
func (f MiscFilter) IsWidest() bool {
	return f.MaxAge >= 18+1 &&
		f.MaxDuration > 240 &&
		f.IncludeWatched &&
		f.MinYear <= EarliestYear &&
		f.MaxYear >= time.Now().Year()
}

// EndConditions terminate a running session. A value <= 0 disables that
// condition.
type EndConditions struct {
	MaxMinutes int
	MaxVotes   int
	MaxMatches int
}

// Discover narrows TMDB candidate discovery for a session.
type Discover struct {
	SortBy      string
	SortOrder   string
	Total       int
	VoteAverage *float64
	VoteCount   *int
	Region      string
	Language    string
}

// GenreSelection is the session's genre constraints, by genre hash.
type GenreSelection struct {
	Must     []int64
	Excluded []int64
}

// VotingSession is one group voting event. Immutable after creation; child
// rows (entries, votes, selections) cascade on delete.
type VotingSession struct {
	ID        int64
	Name      string
	HashToken string
	CreatorID int64
	Seed      int64
	StartDate time.Time

	Providers []Provider
	Genres    GenreSelection
	Misc      MiscFilter
	End       EndConditions
	Discover  Discover
}

// Language is the metadata language for this session's candidates.
func (s *VotingSession) Language(fallback string) string {
	if s.Discover.Language != "" {
		return s.Discover.Language
	}
	return fallback
}

func (s *VotingSession) HasProvider(p Provider) bool {
	for _, selected := range s.Providers {
		if selected == p {
			return true
		}
	}
	return false
}

// MaxTimeReached reports whether the session ran longer than its time
// budget. Disabled when MaxMinutes <= 0.
func (s *VotingSession) MaxTimeReached(now time.Time) bool {
	if s.End.MaxMinutes <= 0 {
		return false
	}
	return now.Sub(s.StartDate) > time.Duration(s.End.MaxMinutes)*time.Minute
}

// MovieEntry is one persisted row of a session's candidate list. Insertion
// order is the session's fixed presentation order.
type MovieEntry struct {
	SessionID int64
	Source    Source
	NativeID  string
}
