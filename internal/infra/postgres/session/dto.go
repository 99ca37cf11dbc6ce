package infra_postgres_session

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/humanbelnik/kinomatch/core/internal/model"
)

type SessionDB struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	HashToken string    `db:"hash_token"`
	CreatorID int64     `db:"creator_id"`
	Seed      int64     `db:"seed"`
	StartDate time.Time `db:"start_date"`

	MaxAge         int     `db:"max_age"`
	MaxDuration    int     `db:"max_duration"`
	MinYear        int     `db:"min_year"`
	MaxYear        int     `db:"max_year"`
	IncludeWatched bool    `db:"include_watched"`
	MinRating      float64 `db:"min_rating"`
	MinVotes       int     `db:"min_votes"`

	EndMaxMinutes int `db:"end_max_minutes"`
	EndMaxVotes   int `db:"end_max_votes"`
	EndMaxMatches int `db:"end_max_matches"`

	SortBy        string          `db:"sort_by"`
	SortOrder     string          `db:"sort_order"`
	DiscoverTotal int             `db:"discover_total"`
	VoteAverage   sql.NullFloat64 `db:"vote_average"`
	VoteCount     sql.NullInt64   `db:"vote_count"`
	Region        string          `db:"region"`
	Language      string          `db:"language"`

	Providers pq.StringArray `db:"providers"`
}

func (s *SessionDB) ToDomain() *model.VotingSession {
	session := &model.VotingSession{
		ID:        s.ID,
		Name:      s.Name,
		HashToken: s.HashToken,
		CreatorID: s.CreatorID,
		Seed:      s.Seed,
		StartDate: s.StartDate,
		Misc: model.MiscFilter{
			MaxAge:         s.MaxAge,
			MaxDuration:    s.MaxDuration,
			MinYear:        s.MinYear,
			MaxYear:        s.MaxYear,
			IncludeWatched: s.IncludeWatched,
			MinRating:      s.MinRating,
			MinVotes:       s.MinVotes,
		},
		End: model.EndConditions{
			MaxMinutes: s.EndMaxMinutes,
			MaxVotes:   s.EndMaxVotes,
			MaxMatches: s.EndMaxMatches,
		},
		Discover: model.Discover{
			SortBy:    s.SortBy,
			SortOrder: s.SortOrder,
			Total:     s.DiscoverTotal,
			Region:    s.Region,
			Language:  s.Language,
		},
	}

	if s.VoteAverage.Valid {
		avg := s.VoteAverage.Float64
		session.Discover.VoteAverage = &avg
	}
	if s.VoteCount.Valid {
		count := int(s.VoteCount.Int64)
		session.Discover.VoteCount = &count
	}

	for _, p := range s.Providers {
		if provider, err := model.ParseProvider(p); err == nil {
			session.Providers = append(session.Providers, provider)
		}
	}

	return session
}

func FromDomain(session *model.VotingSession) SessionDB {
	dto := SessionDB{
		ID:        session.ID,
		Name:      session.Name,
		HashToken: session.HashToken,
		CreatorID: session.CreatorID,
		Seed:      session.Seed,
		StartDate: session.StartDate,

		MaxAge:         session.Misc.MaxAge,
		MaxDuration:    session.Misc.MaxDuration,
		MinYear:        session.Misc.MinYear,
		MaxYear:        session.Misc.MaxYear,
		IncludeWatched: session.Misc.IncludeWatched,
		MinRating:      session.Misc.MinRating,
		MinVotes:       session.Misc.MinVotes,

		EndMaxMinutes: session.End.MaxMinutes,
		EndMaxVotes:   session.End.MaxVotes,
		EndMaxMatches: session.End.MaxMatches,

		SortBy:        session.Discover.SortBy,
		SortOrder:     session.Discover.SortOrder,
		DiscoverTotal: session.Discover.Total,
		Region:        session.Discover.Region,
		Language:      session.Discover.Language,
	}

	if session.Discover.VoteAverage != nil {
		dto.VoteAverage = sql.NullFloat64{Float64: *session.Discover.VoteAverage, Valid: true}
	}
	if session.Discover.VoteCount != nil {
		dto.VoteCount = sql.NullInt64{Int64: int64(*session.Discover.VoteCount), Valid: true}
	}

	return dto
}
