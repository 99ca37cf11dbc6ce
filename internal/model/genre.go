package model

import (
	"hash/fnv"
	"strings"
)

// GenreId is a genre deduplicated across sources. Two genres with the same
// normalized name share the same ID no matter which backend reported them.
type GenreId struct {
	ID          int64
	DisplayName string
	// NativeIDs holds the per-source genre ids; a slot is written once and
	// never overwritten.
	NativeIDs map[Source]string
}

func NewGenre(name string) GenreId {
	return GenreId{
		ID:          GenreHash(name),
		DisplayName: name,
		NativeIDs:   make(map[Source]string),
	}
}

func NewGenreWithNativeID(name string, source Source, nativeID string) GenreId {
	g := NewGenre(name)
	g.NativeIDs[source] = nativeID
	return g
}

// GenreHash is a pure function of the normalized display name.
func GenreHash(name string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	return int64(h.Sum64())
}

// Merge unions the per-source native ids of other into g. First writer wins
// per source slot.
func (g *GenreId) Merge(other GenreId) {
	if g.NativeIDs == nil {
		g.NativeIDs = make(map[Source]string)
	}
	for source, nativeID := range other.NativeIDs {
		if nativeID == "" {
			continue
		}
		if _, taken := g.NativeIDs[source]; !taken {
			g.NativeIDs[source] = nativeID
		}
	}
}

func (g GenreId) NativeID(source Source) (string, bool) {
	id, ok := g.NativeIDs[source]
	return id, ok
}
