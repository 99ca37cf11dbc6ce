//go:build !integration
// +build !integration

package usecase_endcondition

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"

	"github.com/humanbelnik/kinomatch/core/internal/model"
	mocks "github.com/humanbelnik/kinomatch/core/internal/usecase/endcondition/mocks/endcondition/votes"
)

type EvaluatorUnitSuite struct {
	suite.Suite
}

var sessionStart = time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

func runningSession(end model.EndConditions) *model.VotingSession {
	return &model.VotingSession{
		ID:        1,
		StartDate: sessionStart,
		End:       end,
	}
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func (s *EvaluatorUnitSuite) TestDisabledThresholds(t provider.T) {
	t.Run("Should never end when every threshold is disabled", func(t provider.T) {
		votes := mocks.NewVoteAggregates(t)
		evaluator := New(votes, WithClock(fixedClock(sessionStart.Add(100*time.Hour))))

		session := runningSession(model.EndConditions{})

		reason, err := evaluator.Evaluate(context.Background(), session, 1)

		assert.NoError(t, err)
		assert.Equal(t, ReasonNone, reason)
	})

	t.Run("Should treat negative thresholds as disabled", func(t provider.T) {
		votes := mocks.NewVoteAggregates(t)
		evaluator := New(votes, WithClock(fixedClock(sessionStart.Add(time.Hour))))

		session := runningSession(model.EndConditions{MaxMinutes: -1, MaxVotes: -5, MaxMatches: -2})

		reason, err := evaluator.Evaluate(context.Background(), session, 1)

		assert.NoError(t, err)
		assert.Equal(t, ReasonNone, reason)
	})
}

func (s *EvaluatorUnitSuite) TestTimeOver(t provider.T) {
	t.Run("Should end once the time budget is exceeded", func(t provider.T) {
		votes := mocks.NewVoteAggregates(t)
		evaluator := New(votes, WithClock(fixedClock(sessionStart.Add(31*time.Minute))))

		session := runningSession(model.EndConditions{MaxMinutes: 30})

		reason, err := evaluator.Evaluate(context.Background(), session, 1)

		assert.NoError(t, err)
		assert.Equal(t, ReasonTimeOver, reason)
	})

	t.Run("Should keep running at exactly the budget", func(t provider.T) {
		votes := mocks.NewVoteAggregates(t)
		evaluator := New(votes, WithClock(fixedClock(sessionStart.Add(30*time.Minute))))

		session := runningSession(model.EndConditions{MaxMinutes: 30})

		reason, err := evaluator.Evaluate(context.Background(), session, 1)

		assert.NoError(t, err)
		assert.Equal(t, ReasonNone, reason)
	})
}

func (s *EvaluatorUnitSuite) TestMaxVotes(t provider.T) {
	ctx := context.Background()

	t.Run("Should end after the user's first vote when max votes is one", func(t provider.T) {
		votes := mocks.NewVoteAggregates(t)
		votes.On("UserVoteCount", ctx, int64(1), int64(7)).Return(1, nil).Once()
		evaluator := New(votes, WithClock(fixedClock(sessionStart)))

		session := runningSession(model.EndConditions{MaxVotes: 1})

		reason, err := evaluator.Evaluate(ctx, session, 7)

		assert.NoError(t, err)
		assert.Equal(t, ReasonMaxVotes, reason)
	})

	t.Run("Should keep running below the vote budget", func(t provider.T) {
		votes := mocks.NewVoteAggregates(t)
		votes.On("UserVoteCount", ctx, int64(1), int64(7)).Return(4, nil).Once()
		evaluator := New(votes, WithClock(fixedClock(sessionStart)))

		session := runningSession(model.EndConditions{MaxVotes: 5})

		reason, err := evaluator.Evaluate(ctx, session, 7)

		assert.NoError(t, err)
		assert.Equal(t, ReasonNone, reason)
	})

	t.Run("Should wrap aggregate failures as internal", func(t provider.T) {
		votes := mocks.NewVoteAggregates(t)
		votes.On("UserVoteCount", ctx, int64(1), int64(7)).Return(0, errors.New("db down")).Once()
		evaluator := New(votes, WithClock(fixedClock(sessionStart)))

		session := runningSession(model.EndConditions{MaxVotes: 5})

		_, err := evaluator.Evaluate(ctx, session, 7)

		assert.ErrorIs(t, err, ErrInternal)
	})
}

func (s *EvaluatorUnitSuite) TestMaxMatches(t provider.T) {
	ctx := context.Background()

	t.Run("Should ignore matches while only one voter exists", func(t provider.T) {
		votes := mocks.NewVoteAggregates(t)
		votes.On("DistinctVoters", ctx, int64(1)).Return(1, nil).Once()
		evaluator := New(votes, WithClock(fixedClock(sessionStart)))

		session := runningSession(model.EndConditions{MaxMatches: 1})

		reason, err := evaluator.Evaluate(ctx, session, 7)

		assert.NoError(t, err)
		assert.Equal(t, ReasonNone, reason)
	})

	t.Run("Should end when enough movies are unanimously approved", func(t provider.T) {
		votes := mocks.NewVoteAggregates(t)
		votes.On("DistinctVoters", ctx, int64(1)).Return(2, nil).Once()
		votes.On("MatchCount", ctx, int64(1)).Return(1, nil).Once()
		evaluator := New(votes, WithClock(fixedClock(sessionStart)))

		session := runningSession(model.EndConditions{MaxMatches: 1})

		reason, err := evaluator.Evaluate(ctx, session, 7)

		assert.NoError(t, err)
		assert.Equal(t, ReasonMaxMatches, reason)
	})

	t.Run("Should keep running below the match budget", func(t provider.T) {
		votes := mocks.NewVoteAggregates(t)
		votes.On("DistinctVoters", ctx, int64(1)).Return(3, nil).Once()
		votes.On("MatchCount", ctx, int64(1)).Return(1, nil).Once()
		evaluator := New(votes, WithClock(fixedClock(sessionStart)))

		session := runningSession(model.EndConditions{MaxMatches: 2})

		reason, err := evaluator.Evaluate(ctx, session, 7)

		assert.NoError(t, err)
		assert.Equal(t, ReasonNone, reason)
	})
}

func TestEvaluatorUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(EvaluatorUnitSuite))
}
