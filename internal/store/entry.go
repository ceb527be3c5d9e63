package store

import (
	"fmt"
	"regexp"
	"strings"
)

// Priority orders entries for display. It is fixed at creation and never
// mutated afterwards.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

func ParsePriority(s string) (Priority, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "low", "l":
		return PriorityLow, nil
	case "", "normal", "n":
		return PriorityNormal, nil
	case "high", "h":
		return PriorityHigh, nil
	default:
		return "", fmt.Errorf("%w: unknown priority %q (use low|normal|high)", ErrParse, s)
	}
}

// Score maps priorities onto an ascending scale: low < normal < high.
func (p Priority) Score() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityHigh:
		return 2
	default:
		return 1
	}
}

// Entry is a single task or note on the board.
type Entry struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Tags       string   `json:"tags"`
	IsTask     bool     `json:"is_task"`
	InProgress bool     `json:"in_progress"`
	IsDone     bool     `json:"is_done"`
	Priority   Priority `json:"priority"`
	Timestamp  int64    `json:"timestamp"`
}

var tagPattern = regexp.MustCompile(`@\w+`)

// SplitTags pulls inline @tag markers out of text. The returned name is the
// input with each marker replaced by a single space; tags are the markers in
// order of appearance, joined by single spaces, "@" included. A literal "@"
// not followed by a word character stays in the name. No escaping.
func SplitTags(text string) (name string, tags string) {
	found := tagPattern.FindAllString(text, -1)
	name = tagPattern.ReplaceAllString(text, " ")
	return name, strings.Join(found, " ")
}
