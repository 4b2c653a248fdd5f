// Package topics is the catalog of cricket subjects a question can cover,
// and the difficulty levels questions are pitched at.
package topics

import (
	"fmt"
	"strings"
)

// Topic identifies a question subject, e.g. "rules" or "famous-players".
type Topic string

const (
	Rules         Topic = "rules"
	Batting       Topic = "batting"
	Bowling       Topic = "bowling"
	Fielding      Topic = "fielding"
	Formats       Topic = "formats"
	History       Topic = "history"
	FamousPlayers Topic = "famous-players"
	Records       Topic = "records"
	Equipment     Topic = "equipment"
	Grounds       Topic = "grounds"
)

// All returns the built-in topics in display order.
func All() []Topic {
	return []Topic{
		Rules,
		Batting,
		Bowling,
		Fielding,
		Formats,
		History,
		FamousPlayers,
		Records,
		Equipment,
		Grounds,
	}
}

// DisplayName returns a human-readable name for a topic. Unknown topics,
// e.g. ones invented by a question generator, are title-cased.
func DisplayName(t Topic) string {
	switch t {
	case Rules:
		return "Laws & Rules"
	case Batting:
		return "Batting"
	case Bowling:
		return "Bowling"
	case Fielding:
		return "Fielding"
	case Formats:
		return "Formats"
	case History:
		return "History"
	case FamousPlayers:
		return "Famous Players"
	case Records:
		return "Records"
	case Equipment:
		return "Equipment"
	case Grounds:
		return "Grounds"
	}
	words := strings.Fields(strings.ReplaceAll(string(t), "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Normalize lower-cases and hyphenates a free-form topic name so that
// "Famous Players" and "famous-players" are the same bucket.
func Normalize(s string) Topic {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(strings.ReplaceAll(s, "_", " ")), "-")
	return Topic(s)
}

// Difficulty is the level a question is pitched at.
type Difficulty int

const (
	DifficultyUnset Difficulty = iota
	Easy
	Medium
	Hard
)

// AllDifficulties returns the settable levels from easiest to hardest.
func AllDifficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	case DifficultyUnset:
		return ""
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// Valid reports whether d is one of Easy, Medium or Hard.
func (d Difficulty) Valid() bool { return d >= Easy && d <= Hard }

// ParseDifficulty parses "easy", "medium" or "hard" (case-insensitive).
// The empty string parses to DifficultyUnset.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DifficultyUnset, nil
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return DifficultyUnset, fmt.Errorf("unknown difficulty %q", s)
}

// MarshalText implements encoding.TextMarshaler so difficulties read well
// in JSON and TOML.
func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Difficulty) UnmarshalText(b []byte) error {
	v, err := ParseDifficulty(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
