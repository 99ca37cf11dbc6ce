package agerating

import (
	"log/slog"
	"strconv"
	"strings"
)

// Extract normalizes a certification string ("FSK-16", "Rated PG-13", "12")
// to an FSK-style minimum age. Returns (0, false) when the rating is absent
// or unmappable.
func Extract(rating string) (int, bool) {
	rated := strings.ToLower(strings.TrimSpace(rating))
	if rated == "" {
		return 0, false
	}

	if strings.HasPrefix(rated, "rated") {
		return FromMPAA(rated)
	}
	return FromFSK(rated)
}

// FromMPAA maps MPAA-style certifications to FSK ages.
func FromMPAA(mpaa string) (int, bool) {
	rated := strings.ToLower(strings.TrimSpace(mpaa))
	if !strings.HasPrefix(rated, "rated") {
		rated = "rated " + rated
	}

	switch rated {
	case "rated u", "rated 0", "rated g", "rated c":
		return 0, true
	case "rated pg", "rated 6":
		return 6, true
	case "rated t", "rated pg-13", "rated 12", "rated 12a", "rated tp":
		return 12, true
	case "rated 16", "rated 15":
		return 16, true
	case "rated r", "rated 18", "rated 18+":
		return 18, true
	case "rated":
		return 0, false
	default:
		slog.Debug("unmappable mpaa rating", "rating", mpaa)
		return 0, false
	}
}

// FromFSK maps numeric or "FSK-" prefixed certifications to an age.
func FromFSK(rating string) (int, bool) {
	trimmed := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(rating)), "fsk-")
	age, err := strconv.Atoi(trimmed)
	if err != nil {
		slog.Debug("unmappable fsk rating", "rating", rating)
		return 0, false
	}
	return age, true
}
