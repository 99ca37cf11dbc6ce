package model

import (
	"fmt"
	"strings"
	"time"
)

type Vote string

const (
	VotePro    Vote = "PRO"
	VoteContra Vote = "CONTRA"
)

func ParseVote(value string) (Vote, error) {
	switch Vote(strings.ToUpper(strings.TrimSpace(value))) {
	case VotePro:
		return VotePro, nil
	case VoteContra:
		return VoteContra, nil
	}
	return "", fmt.Errorf("%q is not a valid vote", value)
}

// MovieVote is one user's verdict on one movie within one session.
// Re-voting replaces the old row; the last vote wins.
type MovieVote struct {
	UserID    int64
	Source    Source
	NativeID  string
	SessionID int64
	Vote      Vote
	VoteDate  time.Time
}

// MovieVoteTally aggregates all votes a session's movie received.
type MovieVoteTally struct {
	Source       Source
	NativeID     string
	ProVoters    []int64
	ContraVoters []int64
	LastVote     time.Time
}
