package usecase_endcondition

import (
	"context"
	"errors"
	"time"

	"github.com/humanbelnik/kinomatch/core/internal/model"
)

var ErrInternal = errors.New("internal error")

// Reason names the condition that ended a session. Empty means the session
// is still running.
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonTimeOver   Reason = "TIME_OVER"
	ReasonMaxVotes   Reason = "MAX_VOTES_REACHED"
	ReasonMaxMatches Reason = "MAX_MATCHES_REACHED"
)

//go:generate mockery --name=VoteAggregates --output=./mocks/endcondition/votes --filename=votes.go
type VoteAggregates interface {
	UserVoteCount(ctx context.Context, sessionID int64, userID int64) (int, error)
	DistinctVoters(ctx context.Context, sessionID int64) (int, error)
	MatchCount(ctx context.Context, sessionID int64) (int, error)
}

// Evaluator checks the session's termination thresholds. A threshold <= 0 is
// disabled; checks are independent and the first tripped one wins.
type Evaluator struct {
	votes VoteAggregates
	now   func() time.Time
}

type Option func(*Evaluator)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) { e.now = now }
}

func New(votes VoteAggregates, opts ...Option) *Evaluator {
	e := &Evaluator{
		votes: votes,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate returns the reason the session is over for this user, or
// ReasonNone while voting continues.
func (e *Evaluator) Evaluate(ctx context.Context, session *model.VotingSession, userID int64) (Reason, error) {
	if session.MaxTimeReached(e.now()) {
		return ReasonTimeOver, nil
	}

	if session.End.MaxVotes > 0 {
		count, err := e.votes.UserVoteCount(ctx, session.ID, userID)
		if err != nil {
			return ReasonNone, errors.Join(ErrInternal, err)
		}
		if count >= session.End.MaxVotes {
			return ReasonMaxVotes, nil
		}
	}

	if session.End.MaxMatches > 0 {
		voters, err := e.votes.DistinctVoters(ctx, session.ID)
		if err != nil {
			return ReasonNone, errors.Join(ErrInternal, err)
		}
		// A single voter trivially approves everything unanimously, so
		// matches only count once a second voter exists.
		if voters > 1 {
			matches, err := e.votes.MatchCount(ctx, session.ID)
			if err != nil {
				return ReasonNone, errors.Join(ErrInternal, err)
			}
			if matches >= session.End.MaxMatches {
				return ReasonMaxMatches, nil
			}
		}
	}

	return ReasonNone, nil
}
