package store

import (
	"fmt"
	"strconv"
	"strings"
)

// PriorityQueue hands out per-entry priorities in flag order. One queue is
// shared across the task batch and the note batch of a single invocation:
// the task batch consumes from the front first, then the note batch takes
// whatever is left. Past the end every entry gets PriorityNormal.
type PriorityQueue struct {
	levels []Priority
}

func NewPriorityQueue(levels []Priority) *PriorityQueue {
	return &PriorityQueue{levels: levels}
}

func (q *PriorityQueue) Next() Priority {
	if q == nil || len(q.levels) == 0 {
		return PriorityNormal
	}
	p := q.levels[0]
	q.levels = q.levels[1:]
	return p
}

// Add appends one entry per text, all tasks or all notes. Ids continue from
// the highest id currently on disk, so a task batch and a note batch added
// back to back never collide even though each call reloads the file.
func (s *Store) Add(texts []string, isTask bool, q *PriorityQueue) ([]Entry, error) {
	entries, err := s.Load()
	if err != nil {
		return nil, err
	}
	id := maxID(entries)
	added := make([]Entry, 0, len(texts))
	for _, text := range texts {
		name, tags := SplitTags(text)
		id++
		added = append(added, Entry{
			ID:        id,
			Name:      name,
			Tags:      tags,
			IsTask:    isTask,
			Priority:  q.Next(),
			Timestamp: timeNow().UnixNano(),
		})
	}
	entries = append(entries, added...)
	if err := s.Save(entries); err != nil {
		return nil, err
	}
	return added, nil
}

// Delete removes every entry whose id is listed. Ids that match nothing are
// ignored; a malformed id fails the whole call before anything is saved.
func (s *Store) Delete(raw []string) error {
	ids, err := parseIDs(raw)
	if err != nil {
		return err
	}
	entries, err := s.Load()
	if err != nil {
		return err
	}
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !containsID(ids, e.ID) {
			kept = append(kept, e)
		}
	}
	return s.Save(kept)
}

// Begin toggles in-progress for each listed entry and clears is_done. It is
// a toggle, not a set: beginning the same id twice puts the entry back where
// it started.
func (s *Store) Begin(raw []string) error {
	return s.alter(raw, func(e *Entry) {
		e.InProgress = !e.InProgress
		e.IsDone = false
	})
}

// Check completes each listed entry. Checking an already completed entry
// changes nothing.
func (s *Store) Check(raw []string) error {
	return s.alter(raw, func(e *Entry) {
		e.InProgress = false
		e.IsDone = true
	})
}

func (s *Store) alter(raw []string, apply func(*Entry)) error {
	ids, err := parseIDs(raw)
	if err != nil {
		return err
	}
	entries, err := s.Load()
	if err != nil {
		return err
	}
	for _, id := range ids {
		for i := range entries {
			if entries[i].ID == id {
				apply(&entries[i])
			}
		}
	}
	return s.Save(entries)
}

// Tidy drops every completed entry, tasks and notes alike.
func (s *Store) Tidy() error {
	entries, err := s.Load()
	if err != nil {
		return err
	}
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.IsDone {
			kept = append(kept, e)
		}
	}
	return s.Save(kept)
}

// Renumber reassigns ids 1..N following current file order. No other field
// changes.
func (s *Store) Renumber() error {
	entries, err := s.Load()
	if err != nil {
		return err
	}
	for i := range entries {
		entries[i].ID = int64(i + 1)
	}
	return s.Save(entries)
}

func maxID(entries []Entry) int64 {
	var max int64
	for _, e := range entries {
		if e.ID > max {
			max = e.ID
		}
	}
	return max
}

func parseIDs(raw []string) ([]int64, error) {
	out := make([]int64, 0, len(raw))
	for _, r := range raw {
		n, err := strconv.ParseInt(strings.TrimSpace(r), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad id %q", ErrParse, r)
		}
		out = append(out, n)
	}
	return out, nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
