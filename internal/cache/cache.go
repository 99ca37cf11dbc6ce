package cache

import (
	"sync"

	"github.com/humanbelnik/kinomatch/core/internal/model"
)

type verdictKey struct {
	SessionID int64
	Movie     model.MovieId
}

// Service holds the process-wide caches: per-session candidate lists,
// resolved movie details and per-(session,movie) filter verdicts. All values
// are deterministic functions of immutable inputs, so writes are idempotent
// overwrites; the maps are guarded anyway to keep access race-free.
type Service struct {
	mu       sync.RWMutex
	catalogs map[int64][]model.MovieId
	movies   map[model.MovieId]*model.Movie
	verdicts map[verdictKey]bool
}

func New() *Service {
	s := &Service{}
	s.Reset()
	return s
}

// Reset drops every cached value. Intended for tests and explicit
// administrative refresh.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalogs = make(map[int64][]model.MovieId)
	s.movies = make(map[model.MovieId]*model.Movie)
	s.verdicts = make(map[verdictKey]bool)
}

func (s *Service) Catalog(sessionID int64) ([]model.MovieId, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids, ok := s.catalogs[sessionID]
	return ids, ok
}

func (s *Service) SetCatalog(sessionID int64, ids []model.MovieId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalogs[sessionID] = ids
}

func (s *Service) Movie(id model.MovieId) (*model.Movie, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.movies[id]
	return m, ok
}

func (s *Service) SetMovie(m *model.Movie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movies[m.ID] = m
}

func (s *Service) Verdict(sessionID int64, id model.MovieId) (filtered bool, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	filtered, ok = s.verdicts[verdictKey{SessionID: sessionID, Movie: id}]
	return filtered, ok
}

func (s *Service) SetVerdict(sessionID int64, id model.MovieId, filtered bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verdicts[verdictKey{SessionID: sessionID, Movie: id}] = filtered
}
