package infra_source

import (
	"sync"

	"github.com/humanbelnik/kinomatch/core/internal/model"
)

// Registry maps model.Source to its CatalogSource implementation. Adding a
// backend is a registration at startup, not a new branch in every consumer.
type Registry struct {
	mu      sync.RWMutex
	sources map[model.Source]CatalogSource
}

func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[model.Source]CatalogSource),
	}
}

func (r *Registry) Register(s CatalogSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[s.Source()] = s
}

func (r *Registry) Lookup(src model.Source) (CatalogSource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[src]
	return s, ok
}

// All returns every registered source, local ones first in preference
// order, TMDB last.
func (r *Registry) All() []CatalogSource {
	result := r.LocalSources()

	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.sources[model.SourceTMDB]; ok {
		result = append(result, s)
	}
	return result
}

// LocalSources returns the registered local-library sources in preference
// order.
func (r *Registry) LocalSources() []CatalogSource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []CatalogSource
	for _, src := range model.LocalSourcePreference() {
		if s, ok := r.sources[src]; ok {
			result = append(result, s)
		}
	}
	return result
}
