//go:build !integration
// +build !integration

package service_prefetch

import (
	"testing"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/mock"

	"github.com/humanbelnik/kinomatch/core/internal/cache"
	"github.com/humanbelnik/kinomatch/core/internal/model"
	catalog_mocks "github.com/humanbelnik/kinomatch/core/internal/service/prefetch/mocks/prefetch/catalog"
	evaluator_mocks "github.com/humanbelnik/kinomatch/core/internal/service/prefetch/mocks/prefetch/evaluator"
	filter_mocks "github.com/humanbelnik/kinomatch/core/internal/service/prefetch/mocks/prefetch/filter"
	usecase_endcondition "github.com/humanbelnik/kinomatch/core/internal/usecase/endcondition"
)

type SchedulerUnitSuite struct {
	suite.Suite
}

type resources struct {
	scheduler *Scheduler
	cache     *cache.Service
	catalog   *catalog_mocks.CatalogProvider
	filter    *filter_mocks.Filter
	evaluator *evaluator_mocks.EndEvaluator
}

func initResources(t provider.T, budget int) *resources {
	r := &resources{
		cache:     cache.New(),
		catalog:   catalog_mocks.NewCatalogProvider(t),
		filter:    filter_mocks.NewFilter(t),
		evaluator: evaluator_mocks.NewEndEvaluator(t),
	}
	r.scheduler = New(1, budget, r.cache, r.catalog, r.filter, r.evaluator)
	return r
}

func prefetchSession() *model.VotingSession {
	return &model.VotingSession{
		ID:        1,
		Providers: []model.Provider{model.ProviderKodi},
		Misc:      model.WidestMiscFilter(),
	}
}

func prefetchIds(nativeIDs ...string) []model.MovieId {
	ids := make([]model.MovieId, 0, len(nativeIDs))
	for _, nativeID := range nativeIDs {
		ids = append(ids, model.NewMovieId(model.SourceKodi, nativeID, ""))
	}
	return ids
}

func (s *SchedulerUnitSuite) TestBudget(t provider.T) {
	t.Run("Should stop warming after the budget is spent", func(t provider.T) {
		r := initResources(t, 2)
		session := prefetchSession()
		ids := prefetchIds("1", "2", "3", "4", "5")

		r.evaluator.On("Evaluate", mock.Anything, session, int64(7)).
			Return(usecase_endcondition.ReasonNone, nil).Once()
		r.catalog.On("Get", mock.Anything, session).Return(ids, nil).Once()
		r.filter.On("IsFiltered", mock.Anything, session, ids[0]).Return(false).Once()
		r.filter.On("IsFiltered", mock.Anything, session, ids[1]).Return(false).Once()

		r.scheduler.Submit(session, 7, -1)
		r.scheduler.Wait()

		r.filter.AssertNotCalled(t, "IsFiltered", mock.Anything, session, ids[2])
	})

	t.Run("Should not charge filtered candidates against the budget", func(t provider.T) {
		r := initResources(t, 1)
		session := prefetchSession()
		ids := prefetchIds("1", "2", "3")

		r.evaluator.On("Evaluate", mock.Anything, session, int64(7)).
			Return(usecase_endcondition.ReasonNone, nil).Once()
		r.catalog.On("Get", mock.Anything, session).Return(ids, nil).Once()
		r.filter.On("IsFiltered", mock.Anything, session, ids[0]).Return(true).Once()
		r.filter.On("IsFiltered", mock.Anything, session, ids[1]).Return(true).Once()
		r.filter.On("IsFiltered", mock.Anything, session, ids[2]).Return(false).Once()

		r.scheduler.Submit(session, 7, -1)
		r.scheduler.Wait()

		r.filter.AssertExpectations(t)
	})
}

func (s *SchedulerUnitSuite) TestSkips(t provider.T) {
	t.Run("Should skip already cached candidates", func(t provider.T) {
		r := initResources(t, 5)
		session := prefetchSession()
		ids := prefetchIds("1", "2")

		r.cache.SetMovie(&model.Movie{ID: ids[0]})

		r.evaluator.On("Evaluate", mock.Anything, session, int64(7)).
			Return(usecase_endcondition.ReasonNone, nil).Once()
		r.catalog.On("Get", mock.Anything, session).Return(ids, nil).Once()
		r.filter.On("IsFiltered", mock.Anything, session, ids[1]).Return(false).Once()

		r.scheduler.Submit(session, 7, -1)
		r.scheduler.Wait()

		r.filter.AssertNotCalled(t, "IsFiltered", mock.Anything, session, ids[0])
	})

	t.Run("Should start after the submitted index", func(t provider.T) {
		r := initResources(t, 5)
		session := prefetchSession()
		ids := prefetchIds("1", "2", "3")

		r.evaluator.On("Evaluate", mock.Anything, session, int64(7)).
			Return(usecase_endcondition.ReasonNone, nil).Once()
		r.catalog.On("Get", mock.Anything, session).Return(ids, nil).Once()
		r.filter.On("IsFiltered", mock.Anything, session, ids[2]).Return(false).Once()

		r.scheduler.Submit(session, 7, 1)
		r.scheduler.Wait()

		r.filter.AssertNotCalled(t, "IsFiltered", mock.Anything, session, ids[0])
		r.filter.AssertNotCalled(t, "IsFiltered", mock.Anything, session, ids[1])
	})
}

func (s *SchedulerUnitSuite) TestEndedSession(t provider.T) {
	t.Run("Should do nothing once the session is over", func(t provider.T) {
		r := initResources(t, 5)
		session := prefetchSession()

		r.evaluator.On("Evaluate", mock.Anything, session, int64(7)).
			Return(usecase_endcondition.ReasonTimeOver, nil).Once()

		r.scheduler.Submit(session, 7, -1)
		r.scheduler.Wait()

		r.catalog.AssertNotCalled(t, "Get", mock.Anything, session)
	})
}

func TestSchedulerUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(SchedulerUnitSuite))
}
