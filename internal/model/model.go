package model

import "strings"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Known reports whether d is one of the three difficulties the backend
// defines. Unknown values still render, just without a difficulty badge.
func (d Difficulty) Known() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Label returns the difficulty in display casing ("Easy"), or "N/A" for
// values the client does not recognize.
func (d Difficulty) Label() string {
	s := strings.TrimSpace(string(d))
	if s == "" || !d.Known() {
		return "N/A"
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

type Problem struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Topic       string     `json:"topic"`
	Difficulty  Difficulty `json:"difficulty"`
	Solved      bool       `json:"solved"`
	Starred     bool       `json:"starred"`
	LeetcodeURL string     `json:"leetcodeUrl"`
	NeetCodeURL string     `json:"neetCodeUrl,omitempty"`
}

// Notes maps a problem id to the user's free-text note. Keys are the
// stringified problem ids, matching the wire shape of the notes endpoint.
type Notes map[string]string

// ToggleState is the server-confirmed solved/starred pair returned by the
// solve and star endpoints. The client always adopts these values and never
// computes the new booleans locally.
type ToggleState struct {
	Solved  bool `json:"solved"`
	Starred bool `json:"starred"`
}
