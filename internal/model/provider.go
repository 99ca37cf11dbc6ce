package model

import (
	"fmt"
	"strings"
)

// Source is a backend movies are fetched from. Every MovieId belongs to
// exactly one source.
type Source string

const (
	SourceKodi     Source = "kodi"
	SourceJellyfin Source = "jellyfin"
	SourceEmby     Source = "emby"
	SourcePlex     Source = "plex"
	SourceTMDB     Source = "tmdb"
)

func ParseSource(value string) (Source, error) {
	switch Source(strings.ToLower(strings.TrimSpace(value))) {
	case SourceKodi:
		return SourceKodi, nil
	case SourceJellyfin:
		return SourceJellyfin, nil
	case SourceEmby:
		return SourceEmby, nil
	case SourcePlex:
		return SourcePlex, nil
	case SourceTMDB:
		return SourceTMDB, nil
	}
	return "", fmt.Errorf("%q is not a valid movie source", value)
}

// Provider is where a movie can actually be watched. Local library sources
// map 1:1 to a provider; streaming providers are discovered through TMDB.
type Provider string

const (
	ProviderKodi        Provider = "kodi"
	ProviderJellyfin    Provider = "jellyfin"
	ProviderEmby        Provider = "emby"
	ProviderPlex        Provider = "plex"
	ProviderNetflix     Provider = "netflix"
	ProviderAmazonPrime Provider = "amazon prime video"
	ProviderAmazonVideo Provider = "amazon video"
	ProviderDisneyPlus  Provider = "disney plus"
)

// Monetization is TMDB's watch-offer kind for a streaming provider.
type Monetization string

const (
	MonetizationFlatrate Monetization = "flatrate"
	MonetizationRent     Monetization = "rent"
	MonetizationBuy      Monetization = "buy"
	MonetizationFree     Monetization = "free"
)

func ParseProvider(value string) (Provider, error) {
	lower := strings.ToLower(strings.TrimSpace(value))
	for _, p := range AllProviders() {
		if string(p) == lower {
			return p, nil
		}
	}
	return "", fmt.Errorf("%q is not a valid movie provider", value)
}

func AllProviders() []Provider {
	return []Provider{
		ProviderKodi,
		ProviderJellyfin,
		ProviderEmby,
		ProviderPlex,
		ProviderNetflix,
		ProviderAmazonPrime,
		ProviderAmazonVideo,
		ProviderDisneyPlus,
	}
}

// UsesTMDBAsSource reports whether candidates for this provider are listed
// through the TMDB discover API instead of the provider itself.
func (p Provider) UsesTMDBAsSource() bool {
	switch p {
	case ProviderKodi, ProviderJellyfin, ProviderEmby, ProviderPlex:
		return false
	}
	return true
}

func (p Provider) Monetization() Monetization {
	switch p {
	case ProviderAmazonVideo:
		return MonetizationRent
	default:
		return MonetizationFlatrate
	}
}

// Source returns the backend that lists candidates for this provider.
// Streaming providers are discovered through TMDB.
func (p Provider) Source() Source {
	switch p {
	case ProviderKodi:
		return SourceKodi
	case ProviderJellyfin:
		return SourceJellyfin
	case ProviderEmby:
		return SourceEmby
	case ProviderPlex:
		return SourcePlex
	}
	return SourceTMDB
}

// Provider returns the watch provider a local library source implies, or ""
// for catalog-only sources.
func (s Source) Provider() Provider {
	switch s {
	case SourceKodi:
		return ProviderKodi
	case SourceJellyfin:
		return ProviderJellyfin
	case SourceEmby:
		return ProviderEmby
	case SourcePlex:
		return ProviderPlex
	}
	return ""
}

// LocalSourcePreference is the duplicate-suppression order: when a movie is
// reachable through several selected local libraries, only the
// highest-ranked one shows it.
func LocalSourcePreference() []Source {
	return []Source{SourceKodi, SourceJellyfin, SourceEmby, SourcePlex}
}
