//go:build !integration
// +build !integration

package usecase_vote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/humanbelnik/kinomatch/core/internal/model"
	mocks "github.com/humanbelnik/kinomatch/core/internal/usecase/vote/mocks/vote/repository"
)

type LedgerUnitSuite struct {
	suite.Suite

	mockRepo *mocks.VoteRepository
	ledger   *Ledger
	ctx      context.Context
}

func (s *LedgerUnitSuite) BeforeEach(t provider.T) {
	s.mockRepo = mocks.NewVoteRepository(t)
	s.ledger = New(s.mockRepo)
	s.ctx = context.Background()
}

func validMovieID() model.MovieId {
	return model.NewMovieId(model.SourceKodi, "42", "")
}

func validVote(vote model.Vote, at time.Time) model.MovieVote {
	return model.MovieVote{
		UserID:    7,
		Source:    model.SourceKodi,
		NativeID:  "42",
		SessionID: 1,
		Vote:      vote,
		VoteDate:  at,
	}
}

func (s *LedgerUnitSuite) TestCast(t provider.T) {
	t.Run("Should swap the vote row keyed by user, movie and session", func(t provider.T) {
		s.mockRepo.On("Swap", s.ctx, mock.MatchedBy(func(v model.MovieVote) bool {
			return v.UserID == 7 &&
				v.Source == model.SourceKodi &&
				v.NativeID == "42" &&
				v.SessionID == 1 &&
				v.Vote == model.VotePro &&
				!v.VoteDate.IsZero()
		})).Return(nil).Once()

		err := s.ledger.Cast(s.ctx, 1, 7, validMovieID(), model.VotePro)

		assert.NoError(t, err)
		s.mockRepo.AssertExpectations(t)
	})

	t.Run("Should wrap repository failures as internal", func(t provider.T) {
		s.mockRepo.On("Swap", s.ctx, mock.AnythingOfType("model.MovieVote")).
			Return(errors.New("tx aborted")).Once()

		err := s.ledger.Cast(s.ctx, 1, 7, validMovieID(), model.VoteContra)

		assert.ErrorIs(t, err, ErrInternal)
		s.mockRepo.AssertExpectations(t)
	})
}

func (s *LedgerUnitSuite) TestLastVote(t provider.T) {
	t.Run("Should return the most recent vote", func(t provider.T) {
		older := validVote(model.VoteContra, time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC))
		newer := validVote(model.VotePro, time.Date(2026, 3, 1, 20, 5, 0, 0, time.UTC))
		s.mockRepo.On("UserVotes", s.ctx, int64(1), int64(7)).
			Return([]model.MovieVote{older, newer}, nil).Once()

		last, err := s.ledger.LastVote(s.ctx, 1, 7)

		assert.NoError(t, err)
		assert.Equal(t, newer, last)
		s.mockRepo.AssertExpectations(t)
	})

	t.Run("Should return ErrResourceNotFound before the first vote", func(t provider.T) {
		s.mockRepo.On("UserVotes", s.ctx, int64(1), int64(7)).
			Return([]model.MovieVote{}, nil).Once()

		_, err := s.ledger.LastVote(s.ctx, 1, 7)

		assert.ErrorIs(t, err, ErrResourceNotFound)
		s.mockRepo.AssertExpectations(t)
	})

	t.Run("Should wrap repository failures as internal", func(t provider.T) {
		s.mockRepo.On("UserVotes", s.ctx, int64(1), int64(7)).
			Return(nil, errors.New("db down")).Once()

		_, err := s.ledger.LastVote(s.ctx, 1, 7)

		assert.ErrorIs(t, err, ErrInternal)
		s.mockRepo.AssertExpectations(t)
	})
}

func (s *LedgerUnitSuite) TestAggregates(t provider.T) {
	t.Run("Should pass aggregates through", func(t provider.T) {
		s.mockRepo.On("CountForUser", s.ctx, int64(1), int64(7)).Return(3, nil).Once()
		s.mockRepo.On("DistinctVoters", s.ctx, int64(1)).Return(2, nil).Once()
		s.mockRepo.On("MatchCount", s.ctx, int64(1)).Return(1, nil).Once()

		count, err := s.ledger.UserVoteCount(s.ctx, 1, 7)
		assert.NoError(t, err)
		assert.Equal(t, 3, count)

		voters, err := s.ledger.DistinctVoters(s.ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, 2, voters)

		matches, err := s.ledger.MatchCount(s.ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, 1, matches)

		s.mockRepo.AssertExpectations(t)
	})
}

func TestLedgerUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(LedgerUnitSuite))
}
