//go:build !integration
// +build !integration

package usecase_cursor

import (
	"context"
	"errors"
	"testing"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"

	"github.com/humanbelnik/kinomatch/core/internal/model"
	catalog_mocks "github.com/humanbelnik/kinomatch/core/internal/usecase/cursor/mocks/cursor/catalog"
	evaluator_mocks "github.com/humanbelnik/kinomatch/core/internal/usecase/cursor/mocks/cursor/evaluator"
	filter_mocks "github.com/humanbelnik/kinomatch/core/internal/usecase/cursor/mocks/cursor/filter"
	prefetcher_mocks "github.com/humanbelnik/kinomatch/core/internal/usecase/cursor/mocks/cursor/prefetcher"
	resolver_mocks "github.com/humanbelnik/kinomatch/core/internal/usecase/cursor/mocks/cursor/resolver"
	votes_mocks "github.com/humanbelnik/kinomatch/core/internal/usecase/cursor/mocks/cursor/votes"
	usecase_endcondition "github.com/humanbelnik/kinomatch/core/internal/usecase/endcondition"
	usecase_vote "github.com/humanbelnik/kinomatch/core/internal/usecase/vote"
)

type CursorUnitSuite struct {
	suite.Suite
}

type resources struct {
	cursor    *Cursor
	evaluator *evaluator_mocks.EndEvaluator
	catalog   *catalog_mocks.CatalogProvider
	filter    *filter_mocks.Filter
	resolver  *resolver_mocks.DetailResolver
	votes     *votes_mocks.VoteHistory
	prefetch  *prefetcher_mocks.Prefetcher
	ctx       context.Context
}

func initResources(t provider.T) *resources {
	r := &resources{
		evaluator: evaluator_mocks.NewEndEvaluator(t),
		catalog:   catalog_mocks.NewCatalogProvider(t),
		filter:    filter_mocks.NewFilter(t),
		resolver:  resolver_mocks.NewDetailResolver(t),
		votes:     votes_mocks.NewVoteHistory(t),
		prefetch:  prefetcher_mocks.NewPrefetcher(t),
		ctx:       context.Background(),
	}
	r.cursor = New(r.evaluator, r.catalog, r.filter, r.resolver, r.votes, r.prefetch)
	return r
}

func votingSession() *model.VotingSession {
	return &model.VotingSession{
		ID:        1,
		Providers: []model.Provider{model.ProviderKodi},
		Misc:      model.WidestMiscFilter(),
	}
}

func candidates() []model.MovieId {
	return []model.MovieId{
		model.NewMovieId(model.SourceKodi, "10", ""),
		model.NewMovieId(model.SourceKodi, "11", ""),
		model.NewMovieId(model.SourceTMDB, "500", "de-DE"),
		model.NewMovieId(model.SourceKodi, "12", ""),
	}
}

func movieFor(id model.MovieId) *model.Movie {
	return model.NewMovie(id, "title "+id.NativeID, "plot", 2000, nil, 90, nil, 0)
}

func (s *CursorUnitSuite) TestSessionOver(t provider.T) {
	t.Run("Should report the end reason and stop serving", func(t provider.T) {
		r := initResources(t)
		session := votingSession()

		r.evaluator.On("Evaluate", r.ctx, session, int64(7)).
			Return(usecase_endcondition.ReasonTimeOver, nil).Once()
		r.prefetch.On("Submit", session, int64(7), -1).Once()

		next, err := r.cursor.Advance(r.ctx, session, 7, nil)

		assert.NoError(t, err)
		assert.Equal(t, usecase_endcondition.ReasonTimeOver, next.OverReason)
		assert.Nil(t, next.Movie)
	})
}

func (s *CursorUnitSuite) TestFreshStart(t provider.T) {
	t.Run("Should serve the first candidate before any vote", func(t provider.T) {
		r := initResources(t)
		session := votingSession()
		ids := candidates()

		r.evaluator.On("Evaluate", r.ctx, session, int64(7)).
			Return(usecase_endcondition.ReasonNone, nil).Once()
		r.catalog.On("Get", r.ctx, session).Return(ids, nil).Once()
		r.votes.On("LastVote", r.ctx, int64(1), int64(7)).
			Return(model.MovieVote{}, usecase_vote.ErrResourceNotFound).Once()
		r.filter.On("IsFiltered", r.ctx, session, ids[0]).Return(false).Once()
		r.resolver.On("Get", r.ctx, ids[0]).Return(movieFor(ids[0]), nil).Once()
		r.prefetch.On("Submit", session, int64(7), 0).Once()

		next, err := r.cursor.Advance(r.ctx, session, 7, nil)

		assert.NoError(t, err)
		assert.Equal(t, ids[0], next.Movie.ID)
	})

	t.Run("Should continue after the last vote when no last movie is given", func(t provider.T) {
		r := initResources(t)
		session := votingSession()
		ids := candidates()

		r.evaluator.On("Evaluate", r.ctx, session, int64(7)).
			Return(usecase_endcondition.ReasonNone, nil).Once()
		r.catalog.On("Get", r.ctx, session).Return(ids, nil).Once()
		r.votes.On("LastVote", r.ctx, int64(1), int64(7)).
			Return(model.MovieVote{Source: model.SourceKodi, NativeID: "11"}, nil).Once()
		r.filter.On("IsFiltered", r.ctx, session, ids[2]).Return(false).Once()
		r.resolver.On("Get", r.ctx, ids[2]).Return(movieFor(ids[2]), nil).Once()
		r.prefetch.On("Submit", session, int64(7), 2).Once()

		next, err := r.cursor.Advance(r.ctx, session, 7, nil)

		assert.NoError(t, err)
		assert.Equal(t, ids[2], next.Movie.ID)
	})
}

func (s *CursorUnitSuite) TestExplicitLastMovie(t provider.T) {
	t.Run("Should skip filtered candidates after the given movie", func(t provider.T) {
		r := initResources(t)
		session := votingSession()
		ids := candidates()

		r.evaluator.On("Evaluate", r.ctx, session, int64(7)).
			Return(usecase_endcondition.ReasonNone, nil).Once()
		r.catalog.On("Get", r.ctx, session).Return(ids, nil).Once()
		r.filter.On("IsFiltered", r.ctx, session, ids[2]).Return(true).Once()
		r.filter.On("IsFiltered", r.ctx, session, ids[3]).Return(false).Once()
		r.resolver.On("Get", r.ctx, ids[3]).Return(movieFor(ids[3]), nil).Once()
		r.prefetch.On("Submit", session, int64(7), 3).Once()

		last := ids[1]
		next, err := r.cursor.Advance(r.ctx, session, 7, &last)

		assert.NoError(t, err)
		assert.Equal(t, ids[3], next.Movie.ID)
	})

	t.Run("Should match the last movie ignoring its language", func(t provider.T) {
		r := initResources(t)
		session := votingSession()
		ids := candidates()

		r.evaluator.On("Evaluate", r.ctx, session, int64(7)).
			Return(usecase_endcondition.ReasonNone, nil).Once()
		r.catalog.On("Get", r.ctx, session).Return(ids, nil).Once()
		r.filter.On("IsFiltered", r.ctx, session, ids[3]).Return(false).Once()
		r.resolver.On("Get", r.ctx, ids[3]).Return(movieFor(ids[3]), nil).Once()
		r.prefetch.On("Submit", session, int64(7), 3).Once()

		last := model.NewMovieId(model.SourceTMDB, "500", "")
		next, err := r.cursor.Advance(r.ctx, session, 7, &last)

		assert.NoError(t, err)
		assert.Equal(t, ids[3], next.Movie.ID)
	})

	t.Run("Should reject a last movie outside the session", func(t provider.T) {
		r := initResources(t)
		session := votingSession()
		ids := candidates()

		r.evaluator.On("Evaluate", r.ctx, session, int64(7)).
			Return(usecase_endcondition.ReasonNone, nil).Once()
		r.catalog.On("Get", r.ctx, session).Return(ids, nil).Once()

		last := model.NewMovieId(model.SourceKodi, "999", "")
		_, err := r.cursor.Advance(r.ctx, session, 7, &last)

		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func (s *CursorUnitSuite) TestExhaustion(t provider.T) {
	t.Run("Should report no movies left past the final candidate", func(t provider.T) {
		r := initResources(t)
		session := votingSession()
		ids := candidates()

		r.evaluator.On("Evaluate", r.ctx, session, int64(7)).
			Return(usecase_endcondition.ReasonNone, nil).Once()
		r.catalog.On("Get", r.ctx, session).Return(ids, nil).Once()
		r.prefetch.On("Submit", session, int64(7), len(ids)-1).Once()

		last := ids[len(ids)-1]
		next, err := r.cursor.Advance(r.ctx, session, 7, &last)

		assert.NoError(t, err)
		assert.True(t, next.NoMoviesLeft)
		assert.Nil(t, next.Movie)
	})

	t.Run("Should report no movies left when everything is filtered", func(t provider.T) {
		r := initResources(t)
		session := votingSession()
		ids := candidates()

		r.evaluator.On("Evaluate", r.ctx, session, int64(7)).
			Return(usecase_endcondition.ReasonNone, nil).Once()
		r.catalog.On("Get", r.ctx, session).Return(ids, nil).Once()
		r.votes.On("LastVote", r.ctx, int64(1), int64(7)).
			Return(model.MovieVote{}, usecase_vote.ErrResourceNotFound).Once()
		for _, id := range ids {
			r.filter.On("IsFiltered", r.ctx, session, id).Return(true).Once()
		}
		r.prefetch.On("Submit", session, int64(7), len(ids)-1).Once()

		next, err := r.cursor.Advance(r.ctx, session, 7, nil)

		assert.NoError(t, err)
		assert.True(t, next.NoMoviesLeft)
	})
}

func (s *CursorUnitSuite) TestTransientResolveFailure(t provider.T) {
	t.Run("Should skip a kept movie that fails to resolve", func(t provider.T) {
		r := initResources(t)
		session := votingSession()
		ids := candidates()

		r.evaluator.On("Evaluate", r.ctx, session, int64(7)).
			Return(usecase_endcondition.ReasonNone, nil).Once()
		r.catalog.On("Get", r.ctx, session).Return(ids, nil).Once()
		r.votes.On("LastVote", r.ctx, int64(1), int64(7)).
			Return(model.MovieVote{}, usecase_vote.ErrResourceNotFound).Once()
		r.filter.On("IsFiltered", r.ctx, session, ids[0]).Return(false).Once()
		r.resolver.On("Get", r.ctx, ids[0]).Return(nil, errors.New("backend flake")).Once()
		r.filter.On("IsFiltered", r.ctx, session, ids[1]).Return(false).Once()
		r.resolver.On("Get", r.ctx, ids[1]).Return(movieFor(ids[1]), nil).Once()
		r.prefetch.On("Submit", session, int64(7), 1).Once()

		next, err := r.cursor.Advance(r.ctx, session, 7, nil)

		assert.NoError(t, err)
		assert.Equal(t, ids[1], next.Movie.ID)
	})
}

func TestCursorUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(CursorUnitSuite))
}
