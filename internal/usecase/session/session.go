package usecase_session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/humanbelnik/kinomatch/core/internal/model"
)

var (
	ErrResourceNotFound = errors.New("no such resource")
	// ErrConfiguration rejects malformed filter thresholds at creation,
	// before any state is written.
	ErrConfiguration = errors.New("invalid session configuration")
	ErrInternal      = errors.New("internal error")
)

//go:generate mockery --name=SessionRepository --output=./mocks/session/repository --filename=repository.go
type SessionRepository interface {
	Create(ctx context.Context, session *model.VotingSession) (int64, error)
	ByID(ctx context.Context, sessionID int64) (*model.VotingSession, error)
	List(ctx context.Context) ([]*model.VotingSession, error)
	Delete(ctx context.Context, sessionID int64) error
}

//go:generate mockery --name=VoteAggregates --output=./mocks/session/votes --filename=votes.go
type VoteAggregates interface {
	Tallies(ctx context.Context, sessionID int64) ([]model.MovieVoteTally, error)
	MatchCount(ctx context.Context, sessionID int64) (int, error)
}

// Status is the session aggregate served to clients watching a session.
type Status struct {
	Session *model.VotingSession
	Voters  []int64
	Tallies []model.MovieVoteTally
	Matches int
}

type Usecase struct {
	repository SessionRepository
	votes      VoteAggregates
}

func New(repository SessionRepository, votes VoteAggregates) *Usecase {
	return &Usecase{
		repository: repository,
		votes:      votes,
	}
}

// Create validates the configuration, stamps token/seed/start date and
// persists the session. The session is immutable afterwards.
func (u *Usecase) Create(ctx context.Context, session *model.VotingSession) (*model.VotingSession, error) {
	if err := validate(session); err != nil {
		return nil, err
	}

	session.HashToken = uuid.NewString()
	if session.Seed == 0 {
		session.Seed = rand.Int63()
	}
	session.StartDate = time.Now()

	id, err := u.repository.Create(ctx, session)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	session.ID = id
	return session, nil
}

func validate(session *model.VotingSession) error {
	if len(session.Providers) == 0 {
		return fmt.Errorf("%w: no provider selected", ErrConfiguration)
	}
	if session.Misc.MinYear > session.Misc.MaxYear {
		return fmt.Errorf("%w: min year %d after max year %d",
			ErrConfiguration, session.Misc.MinYear, session.Misc.MaxYear)
	}
	if session.Misc.MaxAge < 0 {
		return fmt.Errorf("%w: negative max age", ErrConfiguration)
	}
	if session.Misc.MaxDuration <= 0 {
		return fmt.Errorf("%w: non-positive max duration", ErrConfiguration)
	}

	for _, must := range session.Genres.Must {
		for _, excluded := range session.Genres.Excluded {
			if must == excluded {
				return fmt.Errorf("%w: genre %d both required and excluded", ErrConfiguration, must)
			}
		}
	}
	return nil
}

func (u *Usecase) ByID(ctx context.Context, sessionID int64) (*model.VotingSession, error) {
	session, err := u.repository.ByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, errors.Join(ErrInternal, err)
	}
	return session, nil
}

// List returns all sessions, newest first.
func (u *Usecase) List(ctx context.Context) ([]*model.VotingSession, error) {
	sessions, err := u.repository.List(ctx)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	return sessions, nil
}

// Delete removes the session and all its child rows.
func (u *Usecase) Delete(ctx context.Context, sessionID int64) error {
	if err := u.repository.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return ErrResourceNotFound
		}
		return errors.Join(ErrInternal, err)
	}
	return nil
}

// Status aggregates the session's voters and per-movie tallies.
func (u *Usecase) Status(ctx context.Context, sessionID int64) (*Status, error) {
	session, err := u.ByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	tallies, err := u.votes.Tallies(ctx, sessionID)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}

	matches, err := u.votes.MatchCount(ctx, sessionID)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}

	return &Status{
		Session: session,
		Voters:  distinctVoters(tallies),
		Tallies: tallies,
		Matches: matches,
	}, nil
}

func distinctVoters(tallies []model.MovieVoteTally) []int64 {
	seen := make(map[int64]bool)
	var voters []int64
	add := func(userIDs []int64) {
		for _, userID := range userIDs {
			if !seen[userID] {
				seen[userID] = true
				voters = append(voters, userID)
			}
		}
	}
	for _, tally := range tallies {
		add(tally.ProVoters)
		add(tally.ContraVoters)
	}
	sort.Slice(voters, func(i, j int) bool { return voters[i] < voters[j] })
	return voters
}
