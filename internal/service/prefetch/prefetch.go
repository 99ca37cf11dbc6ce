package service_prefetch

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/humanbelnik/kinomatch/core/internal/cache"
	"github.com/humanbelnik/kinomatch/core/internal/metrics"
	"github.com/humanbelnik/kinomatch/core/internal/model"
	usecase_endcondition "github.com/humanbelnik/kinomatch/core/internal/usecase/endcondition"
)

//go:generate mockery --name=CatalogProvider --output=./mocks/prefetch/catalog --filename=catalog.go
type CatalogProvider interface {
	Get(ctx context.Context, session *model.VotingSession) ([]model.MovieId, error)
}

//go:generate mockery --name=Filter --output=./mocks/prefetch/filter --filename=filter.go
type Filter interface {
	IsFiltered(ctx context.Context, session *model.VotingSession, id model.MovieId) bool
}

//go:generate mockery --name=EndEvaluator --output=./mocks/prefetch/evaluator --filename=evaluator.go
type EndEvaluator interface {
	Evaluate(ctx context.Context, session *model.VotingSession, userID int64) (usecase_endcondition.Reason, error)
}

// Scheduler warms the movie cache ahead of the cursor. Tasks run on a fixed
// worker pool; a saturated pool drops the task instead of blocking the
// request path, and a failed prefetch just means a later request pays the
// fetch cost itself.
type Scheduler struct {
	pool      *errgroup.Group
	budget    int
	cache     *cache.Service
	catalog   CatalogProvider
	filter    Filter
	evaluator EndEvaluator
	logger    *slog.Logger
}

type Option func(*Scheduler)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = logger }
}

func New(
	workers int,
	budget int,
	cacheService *cache.Service,
	catalog CatalogProvider,
	filter Filter,
	evaluator EndEvaluator,
	opts ...Option,
) *Scheduler {
	if workers <= 0 {
		workers = 5
	}
	if budget <= 0 {
		budget = 15
	}

	pool := new(errgroup.Group)
	pool.SetLimit(workers)

	s := &Scheduler{
		pool:      pool,
		budget:    budget,
		cache:     cacheService,
		catalog:   catalog,
		filter:    filter,
		evaluator: evaluator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit schedules a look-ahead walk starting after fromIndex. Fire and
// forget: never blocks, never reports back.
func (s *Scheduler) Submit(session *model.VotingSession, userID int64, fromIndex int) {
	metrics.PrefetchTasks.Inc()

	started := s.pool.TryGo(func() error {
		s.run(session, userID, fromIndex)
		return nil
	})
	if !started {
		s.logger.Debug("prefetch pool saturated, task dropped", "session", session.ID)
	}
}

// Wait blocks until all scheduled tasks finish. Used on shutdown and in
// tests.
func (s *Scheduler) Wait() {
	_ = s.pool.Wait()
}

func (s *Scheduler) run(session *model.VotingSession, userID int64, fromIndex int) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("prefetch task panicked", "session", session.ID, "panic", r)
		}
	}()

	// Requests carry their own deadlines; background work does not.
	ctx := context.Background()

	reason, err := s.evaluator.Evaluate(ctx, session, userID)
	if err != nil {
		s.logger.Debug("prefetch end-condition check failed, task dropped",
			"session", session.ID, "error", err)
		return
	}
	if reason != usecase_endcondition.ReasonNone {
		return
	}

	ids, err := s.catalog.Get(ctx, session)
	if err != nil {
		s.logger.Debug("prefetch could not resolve candidate list, task dropped",
			"session", session.ID, "error", err)
		return
	}

	fetched := 0
	for i := fromIndex + 1; i < len(ids) && fetched < s.budget; i++ {
		id := ids[i]
		if _, ok := s.cache.Movie(id); ok {
			continue
		}
		// IsFiltered resolves detail and poster as a side effect, which is
		// exactly the warm-up this task exists for.
		if s.filter.IsFiltered(ctx, session, id) {
			continue
		}
		fetched++
		metrics.PrefetchedMovies.Inc()
	}
}
