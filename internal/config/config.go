package config

import (
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type HTTPServer struct {
	Host string
	Port string
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Backend is the shared shape of the media-center client configs. An empty
// Host (or "-") disables the backend.
type Backend struct {
	Host     string
	Port     string
	Username string
	Password string
	APIKey   string
	Token    string
	Timeout  time.Duration
}

func (b Backend) Disabled() bool {
	return b.Host == "" || b.Host == "-"
}

type TMDB struct {
	APIKey        string
	Language      string
	Region        string
	Timeout       time.Duration
	DiscoverTotal int
	IncludeAdult  bool
	// RequestsPerSecond caps outgoing discover/detail calls.
	RequestsPerSecond float64
}

func (t TMDB) Disabled() bool {
	return t.APIKey == "" || t.APIKey == "-"
}

type OMDb struct {
	APIKey  string
	Timeout time.Duration
}

func (o OMDb) Disabled() bool {
	return o.APIKey == "" || o.APIKey == "-"
}

type Posters struct {
	// CacheDir is the flat on-disk poster cache.
	CacheDir     string
	FetchTimeout time.Duration
}

type Prefetch struct {
	Workers int
	// Budget is how many uncached movies one task may resolve.
	Budget int
}

type Log struct {
	// File enables lumberjack rotation when set; empty logs to stderr.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

type Config struct {
	HTTP     HTTPServer
	Postgres Postgres
	Kodi     Backend
	Jellyfin Backend
	Emby     Backend
	Plex     Backend
	TMDB     TMDB
	OMDb     OMDb
	Posters  Posters
	Prefetch Prefetch
	Log      Log
}

const logtag = "[config]"

func Load() *Config {
	configPath := flag.String("config", "", "path to env file")
	flag.Parse()

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, *configPath)
	} else {
		_ = godotenv.Load()
	}

	return &Config{
		HTTP: HTTPServer{
			Host: getenv("KM_HTTP_HOST", "localhost"),
			Port: getenv("KM_HTTP_PORT", "8080"),
		},
		Postgres: Postgres{
			Host:     getenv("KM_DB_HOST", "localhost"),
			Port:     getenv("KM_DB_PORT", "5432"),
			User:     getenv("KM_DB_USER", "admin"),
			Password: getenv("KM_DB_PASSWORD", "shared"),
			DBName:   getenv("KM_DB_NAME", "kinomatch"),
			SSLMode:  getenv("KM_DB_SSLMODE", "disable"),
		},
		Kodi: Backend{
			Host:     getenv("KM_KODI_HOST", "-"),
			Port:     getenv("KM_KODI_PORT", "8080"),
			Username: getenv("KM_KODI_USERNAME", "kodi"),
			Password: getenv("KM_KODI_PASSWORD", "kodi"),
			Timeout:  getenvDuration("KM_KODI_TIMEOUT_SECONDS", 2),
		},
		Jellyfin: Backend{
			Host:    getenv("KM_JELLYFIN_HOST", "-"),
			Port:    getenv("KM_JELLYFIN_PORT", "8096"),
			APIKey:  getenv("KM_JELLYFIN_API_KEY", "-"),
			Timeout: getenvDuration("KM_JELLYFIN_TIMEOUT_SECONDS", 2),
		},
		Emby: Backend{
			Host:    getenv("KM_EMBY_HOST", "-"),
			Port:    getenv("KM_EMBY_PORT", "8096"),
			APIKey:  getenv("KM_EMBY_API_KEY", "-"),
			Timeout: getenvDuration("KM_EMBY_TIMEOUT_SECONDS", 2),
		},
		Plex: Backend{
			Host:    getenv("KM_PLEX_HOST", "-"),
			Port:    getenv("KM_PLEX_PORT", "32400"),
			Token:   getenv("KM_PLEX_TOKEN", "-"),
			Timeout: getenvDuration("KM_PLEX_TIMEOUT_SECONDS", 2),
		},
		TMDB: TMDB{
			APIKey:            getenv("KM_TMDB_API_KEY", "-"),
			Language:          getenv("KM_TMDB_API_LANGUAGE", "de-DE"),
			Region:            getenv("KM_TMDB_API_REGION", "DE"),
			Timeout:           getenvDuration("KM_TMDB_TIMEOUT_SECONDS", 3),
			DiscoverTotal:     min(getenvInt("KM_TMDB_DISCOVER_TOTAL", 200), 1000),
			IncludeAdult:      getenvBool("KM_TMDB_INCLUDE_ADULT", false),
			RequestsPerSecond: float64(getenvInt("KM_TMDB_REQUESTS_PER_SECOND", 10)),
		},
		OMDb: OMDb{
			APIKey:  getenv("KM_OMDB_API_KEY", "-"),
			Timeout: getenvDuration("KM_OMDB_TIMEOUT_SECONDS", 3),
		},
		Posters: Posters{
			CacheDir:     getenv("KM_POSTER_CACHE_DIR", "/data/posters"),
			FetchTimeout: getenvDuration("KM_POSTER_FETCH_TIMEOUT_SECONDS", 5),
		},
		Prefetch: Prefetch{
			Workers: getenvInt("KM_PREFETCH_WORKERS", 5),
			Budget:  getenvInt("KM_PREFETCH_BUDGET", 15),
		},
		Log: Log{
			File:       getenv("KM_LOG_FILE", ""),
			MaxSizeMB:  getenvInt("KM_LOG_MAX_SIZE_MB", 50),
			MaxBackups: getenvInt("KM_LOG_MAX_BACKUPS", 3),
		},
	}
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

func getenvInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		log.Printf("%s %s=%q is not an int, using default %d", logtag, key, val, defaultValue)
		return defaultValue
	}
	return parsed
}

func getenvBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		log.Printf("%s %s=%q is not a bool, using default %v", logtag, key, val, defaultValue)
		return defaultValue
	}
	return parsed
}

func getenvDuration(key string, defaultSeconds int) time.Duration {
	return time.Duration(getenvInt(key, defaultSeconds)) * time.Second
}
