package app

import (
	"net/http"

	"github.com/humanbelnik/kinomatch/core/internal/cache"
	"github.com/humanbelnik/kinomatch/core/internal/config"
	http_genre "github.com/humanbelnik/kinomatch/core/internal/delivery/http/genre"
	http_init "github.com/humanbelnik/kinomatch/core/internal/delivery/http/init"
	http_movie "github.com/humanbelnik/kinomatch/core/internal/delivery/http/movie"
	http_session "github.com/humanbelnik/kinomatch/core/internal/delivery/http/session"
	http_vote "github.com/humanbelnik/kinomatch/core/internal/delivery/http/vote"
	ws_session "github.com/humanbelnik/kinomatch/core/internal/delivery/ws/session"
	infra_imagefetch "github.com/humanbelnik/kinomatch/core/internal/infra/imagefetch"
	infra_omdb "github.com/humanbelnik/kinomatch/core/internal/infra/omdb"
	infra_postercache "github.com/humanbelnik/kinomatch/core/internal/infra/postercache"
	infra_postgres_entry "github.com/humanbelnik/kinomatch/core/internal/infra/postgres/entry"
	infra_pg_init "github.com/humanbelnik/kinomatch/core/internal/infra/postgres/init"
	infra_postgres_session "github.com/humanbelnik/kinomatch/core/internal/infra/postgres/session"
	infra_postgres_vote "github.com/humanbelnik/kinomatch/core/internal/infra/postgres/vote"
	infra_source "github.com/humanbelnik/kinomatch/core/internal/infra/source"
	infra_source_emby "github.com/humanbelnik/kinomatch/core/internal/infra/source/emby"
	infra_source_jellyfin "github.com/humanbelnik/kinomatch/core/internal/infra/source/jellyfin"
	infra_source_kodi "github.com/humanbelnik/kinomatch/core/internal/infra/source/kodi"
	infra_source_plex "github.com/humanbelnik/kinomatch/core/internal/infra/source/plex"
	infra_source_tmdb "github.com/humanbelnik/kinomatch/core/internal/infra/source/tmdb"
	"github.com/humanbelnik/kinomatch/core/internal/logging"
	service_prefetch "github.com/humanbelnik/kinomatch/core/internal/service/prefetch"
	usecase_catalog "github.com/humanbelnik/kinomatch/core/internal/usecase/catalog"
	usecase_cursor "github.com/humanbelnik/kinomatch/core/internal/usecase/cursor"
	usecase_endcondition "github.com/humanbelnik/kinomatch/core/internal/usecase/endcondition"
	usecase_filter "github.com/humanbelnik/kinomatch/core/internal/usecase/filter"
	usecase_genre "github.com/humanbelnik/kinomatch/core/internal/usecase/genre"
	usecase_movie "github.com/humanbelnik/kinomatch/core/internal/usecase/movie"
	usecase_session "github.com/humanbelnik/kinomatch/core/internal/usecase/session"
	usecase_vote "github.com/humanbelnik/kinomatch/core/internal/usecase/vote"
)

func Go(cfg *config.Config) {
	logger := logging.Setup(cfg.Log)

	pgConn := infra_pg_init.MustEstablishConn(cfg.Postgres)
	cacheService := cache.New()

	posterCache, err := infra_postercache.New(cfg.Posters.CacheDir)
	if err != nil {
		panic(err)
	}
	fetcher := infra_imagefetch.NewHTTP(&http.Client{Timeout: cfg.Posters.FetchTimeout})

	registry := infra_source.NewRegistry()

	var kodi *infra_source_kodi.Client
	if !cfg.Kodi.Disabled() {
		kodi = infra_source_kodi.New(cfg.Kodi, fetcher, infra_source_kodi.WithLogger(logger))
		registry.Register(kodi)
	}
	if !cfg.Jellyfin.Disabled() {
		registry.Register(infra_source_jellyfin.New(cfg.Jellyfin, infra_source_jellyfin.WithLogger(logger)))
	}
	if !cfg.Emby.Disabled() {
		registry.Register(infra_source_emby.New(cfg.Emby, infra_source_emby.WithLogger(logger)))
	}
	if !cfg.Plex.Disabled() {
		registry.Register(infra_source_plex.New(cfg.Plex, infra_source_plex.WithLogger(logger)))
	}

	var tmdb *infra_source_tmdb.Client
	if !cfg.TMDB.Disabled() {
		// The registry doubles as the reconciler: every discovered movie is
		// checked against the local libraries registered above.
		tmdb = infra_source_tmdb.New(cfg.TMDB, fetcher, registry, infra_source_tmdb.WithLogger(logger))
		registry.Register(tmdb)
	}

	sessionRepository := infra_postgres_session.New(pgConn)
	entryRepository := infra_postgres_entry.New(pgConn)
	voteRepository := infra_postgres_vote.New(pgConn)

	ledger := usecase_vote.New(voteRepository)
	sessionUC := usecase_session.New(sessionRepository, ledger)
	evaluator := usecase_endcondition.New(ledger)

	builder := usecase_catalog.New(cacheService, registry, entryRepository, cfg.TMDB.Language,
		usecase_catalog.WithLogger(logger))

	resolverOpts := []usecase_movie.Option{usecase_movie.WithLogger(logger)}
	if tmdb != nil {
		resolverOpts = append(resolverOpts, usecase_movie.WithCrossCatalog(tmdb))
	}
	if !cfg.OMDb.Disabled() {
		omdb := infra_omdb.New(cfg.OMDb, fetcher, infra_omdb.WithLogger(logger))
		resolverOpts = append(resolverOpts, usecase_movie.WithPosterByIMDB(omdb))
	}
	resolver := usecase_movie.New(cacheService, registry, posterCache, resolverOpts...)

	filter := usecase_filter.New(cacheService, resolver, usecase_filter.WithLogger(logger))
	prefetcher := service_prefetch.New(cfg.Prefetch.Workers, cfg.Prefetch.Budget,
		cacheService, builder, filter, evaluator, service_prefetch.WithLogger(logger))
	cursor := usecase_cursor.New(evaluator, builder, filter, resolver, ledger, prefetcher,
		usecase_cursor.WithLogger(logger))

	genreRegistry := usecase_genre.New(func() []usecase_genre.GenreSource {
		sources := registry.All()
		out := make([]usecase_genre.GenreSource, 0, len(sources))
		for _, s := range sources {
			out = append(out, s)
		}
		return out
	}, usecase_genre.WithLogger(logger))

	hub := ws_session.New(logger)

	movieOpts := []http_movie.ControllerOption{http_movie.WithLogger(logger)}
	if kodi != nil {
		movieOpts = append(movieOpts, http_movie.WithPlayer(kodi))
	}

	controllerPool := http_init.NewControllerPool()
	controllerPool.Add(http_session.New(sessionUC, hub, http_session.WithLogger(logger)))
	controllerPool.Add(http_vote.New(ledger, sessionUC, evaluator, hub, http_vote.WithLogger(logger)))
	controllerPool.Add(http_movie.New(cursor, sessionUC, hub, movieOpts...))
	controllerPool.Add(http_genre.New(genreRegistry, http_genre.WithLogger(logger)))

	controllerPool.Register()
	controllerPool.RunAll(cfg.HTTP.Port)
}
