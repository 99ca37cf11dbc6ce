package usecase_vote

import (
	"context"
	"errors"
	"time"

	"github.com/humanbelnik/kinomatch/core/internal/model"
)

var (
	ErrResourceNotFound = errors.New("no such resource")
	ErrInternal         = errors.New("internal error")
)

//go:generate mockery --name=VoteRepository --output=./mocks/vote/repository --filename=repository.go
type VoteRepository interface {
	Swap(ctx context.Context, vote model.MovieVote) error
	UserVotes(ctx context.Context, sessionID int64, userID int64) ([]model.MovieVote, error)
	CountForUser(ctx context.Context, sessionID int64, userID int64) (int, error)
	DistinctVoters(ctx context.Context, sessionID int64) (int, error)
	MatchCount(ctx context.Context, sessionID int64) (int, error)
	Tallies(ctx context.Context, sessionID int64) ([]model.MovieVoteTally, error)
}

// Ledger is the durable vote store and the source of truth for every vote
// aggregate the engine consumes.
type Ledger struct {
	repository VoteRepository
}

func New(repository VoteRepository) *Ledger {
	return &Ledger{repository: repository}
}

// Cast records the user's vote on a movie. Re-voting replaces the earlier
// vote; the last vote wins.
func (l *Ledger) Cast(ctx context.Context, sessionID int64, userID int64, movieID model.MovieId, vote model.Vote) error {
	err := l.repository.Swap(ctx, model.MovieVote{
		UserID:    userID,
		Source:    movieID.Source,
		NativeID:  movieID.NativeID,
		SessionID: sessionID,
		Vote:      vote,
		VoteDate:  time.Now(),
	})
	if err != nil {
		return errors.Join(ErrInternal, err)
	}
	return nil
}

// LastVote returns the user's most recent vote in the session, or
// ErrResourceNotFound when they have not voted yet.
func (l *Ledger) LastVote(ctx context.Context, sessionID int64, userID int64) (model.MovieVote, error) {
	votes, err := l.repository.UserVotes(ctx, sessionID, userID)
	if err != nil {
		return model.MovieVote{}, errors.Join(ErrInternal, err)
	}
	if len(votes) == 0 {
		return model.MovieVote{}, ErrResourceNotFound
	}
	return votes[len(votes)-1], nil
}

func (l *Ledger) UserVoteCount(ctx context.Context, sessionID int64, userID int64) (int, error) {
	count, err := l.repository.CountForUser(ctx, sessionID, userID)
	if err != nil {
		return 0, errors.Join(ErrInternal, err)
	}
	return count, nil
}

func (l *Ledger) DistinctVoters(ctx context.Context, sessionID int64) (int, error) {
	count, err := l.repository.DistinctVoters(ctx, sessionID)
	if err != nil {
		return 0, errors.Join(ErrInternal, err)
	}
	return count, nil
}

// MatchCount counts movies every current voter has approved.
func (l *Ledger) MatchCount(ctx context.Context, sessionID int64) (int, error) {
	count, err := l.repository.MatchCount(ctx, sessionID)
	if err != nil {
		return 0, errors.Join(ErrInternal, err)
	}
	return count, nil
}

// Tallies returns the per-movie voter breakdown for the session status view.
func (l *Ledger) Tallies(ctx context.Context, sessionID int64) ([]model.MovieVoteTally, error) {
	tallies, err := l.repository.Tallies(ctx, sessionID)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	return tallies, nil
}
