package agerating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	testCases := []struct {
		rating string
		age    int
		ok     bool
	}{
		{"", 0, false},
		{"FSK-0", 0, true},
		{"FSK-16", 16, true},
		{"fsk-18", 18, true},
		{"12", 12, true},
		{" 6 ", 6, true},
		{"Rated PG-13", 12, true},
		{"Rated R", 18, true},
		{"Rated G", 0, true},
		{"Rated", 0, false},
		{"gibberish", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.rating, func(t *testing.T) {
			age, ok := Extract(tc.rating)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.age, age)
		})
	}
}

func TestFromMPAA(t *testing.T) {
	testCases := []struct {
		rating string
		age    int
		ok     bool
	}{
		{"Rated PG", 6, true},
		{"PG-13", 12, true},
		{"rated 15", 16, true},
		{"Rated 18+", 18, true},
		{"Rated X", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.rating, func(t *testing.T) {
			age, ok := FromMPAA(tc.rating)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.age, age)
		})
	}
}

func TestFromFSK(t *testing.T) {
	age, ok := FromFSK("FSK-12")
	assert.True(t, ok)
	assert.Equal(t, 12, age)

	_, ok = FromFSK("unrated")
	assert.False(t, ok)
}
