//go:build !integration
// +build !integration

package usecase_session

import (
	"context"
	"errors"
	"testing"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"

	"github.com/humanbelnik/kinomatch/core/internal/model"
	repo_mocks "github.com/humanbelnik/kinomatch/core/internal/usecase/session/mocks/session/repository"
	votes_mocks "github.com/humanbelnik/kinomatch/core/internal/usecase/session/mocks/session/votes"
)

type SessionUnitSuite struct {
	suite.Suite

	mockRepo  *repo_mocks.SessionRepository
	mockVotes *votes_mocks.VoteAggregates
	usecase   *Usecase
	ctx       context.Context
}

func (s *SessionUnitSuite) BeforeEach(t provider.T) {
	s.mockRepo = repo_mocks.NewSessionRepository(t)
	s.mockVotes = votes_mocks.NewVoteAggregates(t)
	s.usecase = New(s.mockRepo, s.mockVotes)
	s.ctx = context.Background()
}

type SessionBuilder struct {
	session model.VotingSession
}

func NewSessionBuilder() *SessionBuilder {
	return &SessionBuilder{
		session: model.VotingSession{
			Name:      "movie night",
			CreatorID: 7,
			Providers: []model.Provider{model.ProviderKodi},
			Misc:      model.WidestMiscFilter(),
		},
	}
}

func (b *SessionBuilder) WithProviders(providers ...model.Provider) *SessionBuilder {
	b.session.Providers = providers
	return b
}

func (b *SessionBuilder) WithSeed(seed int64) *SessionBuilder {
	b.session.Seed = seed
	return b
}

func (b *SessionBuilder) WithYears(minYear, maxYear int) *SessionBuilder {
	b.session.Misc.MinYear = minYear
	b.session.Misc.MaxYear = maxYear
	return b
}

func (b *SessionBuilder) WithGenres(must, excluded []int64) *SessionBuilder {
	b.session.Genres = model.GenreSelection{Must: must, Excluded: excluded}
	return b
}

func (b *SessionBuilder) Build() *model.VotingSession {
	session := b.session
	return &session
}

func (s *SessionUnitSuite) TestCreate(t provider.T) {
	t.Run("Should stamp token, seed and start date", func(t provider.T) {
		session := NewSessionBuilder().Build()
		s.mockRepo.On("Create", s.ctx, session).Return(int64(42), nil).Once()

		created, err := s.usecase.Create(s.ctx, session)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), created.ID)
		assert.NotEmpty(t, created.HashToken)
		assert.NotZero(t, created.Seed)
		assert.False(t, created.StartDate.IsZero())
		s.mockRepo.AssertExpectations(t)
	})

	t.Run("Should keep an explicitly chosen seed", func(t provider.T) {
		session := NewSessionBuilder().WithSeed(42).Build()
		s.mockRepo.On("Create", s.ctx, session).Return(int64(1), nil).Once()

		created, err := s.usecase.Create(s.ctx, session)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), created.Seed)
		s.mockRepo.AssertExpectations(t)
	})

	t.Run("Should reject a session without providers", func(t provider.T) {
		session := NewSessionBuilder().WithProviders().Build()

		_, err := s.usecase.Create(s.ctx, session)

		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("Should reject an inverted year window", func(t provider.T) {
		session := NewSessionBuilder().WithYears(2020, 1990).Build()

		_, err := s.usecase.Create(s.ctx, session)

		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("Should reject a genre that is both required and excluded", func(t provider.T) {
		session := NewSessionBuilder().WithGenres([]int64{5, 9}, []int64{9}).Build()

		_, err := s.usecase.Create(s.ctx, session)

		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("Should wrap repository failures as internal", func(t provider.T) {
		session := NewSessionBuilder().Build()
		s.mockRepo.On("Create", s.ctx, session).Return(int64(0), errors.New("db down")).Once()

		_, err := s.usecase.Create(s.ctx, session)

		assert.ErrorIs(t, err, ErrInternal)
		s.mockRepo.AssertExpectations(t)
	})
}

func (s *SessionUnitSuite) TestByID(t provider.T) {
	t.Run("Should pass not-found through unchanged", func(t provider.T) {
		s.mockRepo.On("ByID", s.ctx, int64(404)).Return(nil, ErrResourceNotFound).Once()

		_, err := s.usecase.ByID(s.ctx, 404)

		assert.ErrorIs(t, err, ErrResourceNotFound)
		s.mockRepo.AssertExpectations(t)
	})
}

func (s *SessionUnitSuite) TestStatus(t provider.T) {
	t.Run("Should aggregate sorted distinct voters from both tally sides", func(t provider.T) {
		session := NewSessionBuilder().Build()
		session.ID = 1
		tallies := []model.MovieVoteTally{
			{Source: model.SourceKodi, NativeID: "1", ProVoters: []int64{9, 3}, ContraVoters: []int64{5}},
			{Source: model.SourceKodi, NativeID: "2", ProVoters: []int64{3}, ContraVoters: []int64{9, 1}},
		}

		s.mockRepo.On("ByID", s.ctx, int64(1)).Return(session, nil).Once()
		s.mockVotes.On("Tallies", s.ctx, int64(1)).Return(tallies, nil).Once()
		s.mockVotes.On("MatchCount", s.ctx, int64(1)).Return(1, nil).Once()

		status, err := s.usecase.Status(s.ctx, 1)

		assert.NoError(t, err)
		assert.Equal(t, []int64{1, 3, 5, 9}, status.Voters)
		assert.Equal(t, 1, status.Matches)
		assert.Equal(t, tallies, status.Tallies)
		s.mockRepo.AssertExpectations(t)
		s.mockVotes.AssertExpectations(t)
	})
}

func TestSessionUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(SessionUnitSuite))
}
