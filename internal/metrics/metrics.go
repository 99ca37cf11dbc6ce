package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MovieCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kinomatch_movie_cache_hits_total",
		Help: "Resolved movie details served from the in-process cache.",
	})
	MovieCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kinomatch_movie_cache_misses_total",
		Help: "Movie detail resolutions that had to hit a backend.",
	})
	FilterCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kinomatch_filter_cache_hits_total",
		Help: "Filter verdicts served from the memo cache.",
	})
	PosterCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kinomatch_poster_cache_hits_total",
		Help: "Posters served from the on-disk cache.",
	})
	SourceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kinomatch_source_failures_total",
		Help: "Failed catalog source calls by backend.",
	}, []string{"source"})
	PrefetchTasks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kinomatch_prefetch_tasks_total",
		Help: "Prefetch tasks submitted to the worker pool.",
	})
	PrefetchedMovies = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kinomatch_prefetched_movies_total",
		Help: "Movies resolved ahead of time by prefetch tasks.",
	})
)
