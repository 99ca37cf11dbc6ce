package usecase_cursor

import (
	"context"
	"errors"
	"log/slog"

	"github.com/humanbelnik/kinomatch/core/internal/model"
	usecase_endcondition "github.com/humanbelnik/kinomatch/core/internal/usecase/endcondition"
	usecase_vote "github.com/humanbelnik/kinomatch/core/internal/usecase/vote"
)

var (
	// ErrInvalidState means the caller named a movie outside this session's
	// persisted order. Never silently recovered.
	ErrInvalidState = errors.New("movie not part of session order")
	ErrInternal     = errors.New("internal error")
)

//go:generate mockery --name=EndEvaluator --output=./mocks/cursor/evaluator --filename=evaluator.go
type EndEvaluator interface {
	Evaluate(ctx context.Context, session *model.VotingSession, userID int64) (usecase_endcondition.Reason, error)
}

//go:generate mockery --name=CatalogProvider --output=./mocks/cursor/catalog --filename=catalog.go
type CatalogProvider interface {
	Get(ctx context.Context, session *model.VotingSession) ([]model.MovieId, error)
}

//go:generate mockery --name=Filter --output=./mocks/cursor/filter --filename=filter.go
type Filter interface {
	IsFiltered(ctx context.Context, session *model.VotingSession, id model.MovieId) bool
}

//go:generate mockery --name=DetailResolver --output=./mocks/cursor/resolver --filename=resolver.go
type DetailResolver interface {
	Get(ctx context.Context, id model.MovieId) (*model.Movie, error)
}

//go:generate mockery --name=VoteHistory --output=./mocks/cursor/votes --filename=votes.go
type VoteHistory interface {
	LastVote(ctx context.Context, sessionID int64, userID int64) (model.MovieVote, error)
}

//go:generate mockery --name=Prefetcher --output=./mocks/cursor/prefetcher --filename=prefetcher.go
type Prefetcher interface {
	Submit(session *model.VotingSession, userID int64, fromIndex int)
}

// Next is one answer of the next-movie protocol. Exactly one of Movie,
// OverReason and NoMoviesLeft is meaningful.
type Next struct {
	Movie        *model.Movie
	OverReason   usecase_endcondition.Reason
	NoMoviesLeft bool
}

// Cursor serves a session's candidates one at a time, skipping filtered
// entries, in the fixed persisted order shared by all voters.
type Cursor struct {
	evaluator EndEvaluator
	catalog   CatalogProvider
	filter    Filter
	resolver  DetailResolver
	votes     VoteHistory
	prefetch  Prefetcher
	logger    *slog.Logger
}

type Option func(*Cursor)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cursor) { c.logger = logger }
}

func New(
	evaluator EndEvaluator,
	catalog CatalogProvider,
	filter Filter,
	resolver DetailResolver,
	votes VoteHistory,
	prefetch Prefetcher,
	opts ...Option,
) *Cursor {
	c := &Cursor{
		evaluator: evaluator,
		catalog:   catalog,
		filter:    filter,
		resolver:  resolver,
		votes:     votes,
		prefetch:  prefetch,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Advance returns the next unfiltered movie after last. A nil last is the
// sentinel: the walk starts after the user's most recent vote, or from the
// beginning when they have not voted yet.
func (c *Cursor) Advance(ctx context.Context, session *model.VotingSession, userID int64, last *model.MovieId) (Next, error) {
	reason, err := c.evaluator.Evaluate(ctx, session, userID)
	if err != nil {
		return Next{}, err
	}
	if reason != usecase_endcondition.ReasonNone {
		c.prefetch.Submit(session, userID, -1)
		return Next{OverReason: reason}, nil
	}

	ids, err := c.catalog.Get(ctx, session)
	if err != nil {
		return Next{}, err
	}

	start, err := c.startIndex(ctx, session, userID, ids, last)
	if err != nil {
		return Next{}, err
	}

	// Bounded walk over the finite list; filtered runs of any length just
	// advance the index.
	for i := start + 1; i < len(ids); i++ {
		if c.filter.IsFiltered(ctx, session, ids[i]) {
			continue
		}

		movie, err := c.resolver.Get(ctx, ids[i])
		if err != nil {
			// The filter kept the movie, so it resolved moments ago.
			// Losing it now is a transient failure; skip it.
			c.logger.Warn("kept movie failed to resolve, skipped", "movie", ids[i], "error", err)
			continue
		}

		c.prefetch.Submit(session, userID, i)
		return Next{Movie: movie}, nil
	}

	c.prefetch.Submit(session, userID, len(ids)-1)
	return Next{NoMoviesLeft: true}, nil
}

// startIndex locates the pivot the walk continues after: the caller's last
// movie, or with the sentinel their last vote, or -1 for a fresh start.
func (c *Cursor) startIndex(ctx context.Context, session *model.VotingSession, userID int64, ids []model.MovieId, last *model.MovieId) (int, error) {
	if last != nil {
		index := indexOf(ids, last.Source, last.NativeID)
		if index < 0 {
			return 0, ErrInvalidState
		}
		return index, nil
	}

	lastVote, err := c.votes.LastVote(ctx, session.ID, userID)
	if err != nil {
		if errors.Is(err, usecase_vote.ErrResourceNotFound) {
			return -1, nil
		}
		return 0, errors.Join(ErrInternal, err)
	}

	index := indexOf(ids, lastVote.Source, lastVote.NativeID)
	if index < 0 {
		return 0, ErrInvalidState
	}
	return index, nil
}

// indexOf matches on source and native id; the language component is a
// metadata concern, not part of a candidate's identity within a session.
func indexOf(ids []model.MovieId, source model.Source, nativeID string) int {
	for i, id := range ids {
		if id.Source == source && id.NativeID == nativeID {
			return i
		}
	}
	return -1
}
