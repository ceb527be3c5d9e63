package store

import (
	"errors"
	"testing"
	"time"
)

func fixedClock(t *testing.T) {
	t.Helper()
	ts := time.Unix(0, 0)
	old := timeNow
	timeNow = func() time.Time {
		ts = ts.Add(time.Second)
		return ts
	}
	t.Cleanup(func() { timeNow = old })
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	fixedClock(t)
	s := newTestStore(t)
	added, err := s.Add([]string{"one", "two", "three"}, true, nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	for i, e := range added {
		if e.ID != int64(i+1) {
			t.Fatalf("added[%d].ID = %d, want %d", i, e.ID, i+1)
		}
	}

	added, err = s.Add([]string{"four", "five"}, false, nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added[0].ID != 4 || added[1].ID != 5 {
		t.Fatalf("second batch ids = %d, %d, want 4, 5", added[0].ID, added[1].ID)
	}
}

func TestAddContinuesFromMaxID(t *testing.T) {
	fixedClock(t)
	s := newTestStore(t)
	if err := s.Save([]Entry{{ID: 7, Name: "old", IsTask: true, Priority: PriorityNormal}}); err != nil {
		t.Fatal(err)
	}
	added, err := s.Add([]string{"new"}, true, nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added[0].ID != 8 {
		t.Fatalf("ID = %d, want 8", added[0].ID)
	}
}

func TestAddSharedPriorityQueue(t *testing.T) {
	fixedClock(t)
	s := newTestStore(t)
	q := NewPriorityQueue([]Priority{PriorityHigh, PriorityLow})

	tasks, err := s.Add([]string{"t1"}, true, q)
	if err != nil {
		t.Fatalf("Add tasks: %v", err)
	}
	notes, err := s.Add([]string{"n1", "n2"}, false, q)
	if err != nil {
		t.Fatalf("Add notes: %v", err)
	}

	if tasks[0].Priority != PriorityHigh {
		t.Fatalf("task priority = %q, want high", tasks[0].Priority)
	}
	if notes[0].Priority != PriorityLow {
		t.Fatalf("first note priority = %q, want low", notes[0].Priority)
	}
	if notes[1].Priority != PriorityNormal {
		t.Fatalf("second note priority = %q, want normal", notes[1].Priority)
	}
}

func TestAddExtractsTags(t *testing.T) {
	fixedClock(t)
	s := newTestStore(t)
	added, err := s.Add([]string{"Buy milk @shopping @urgent"}, true, nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added[0].Name != "Buy milk    " {
		t.Fatalf("name = %q", added[0].Name)
	}
	if added[0].Tags != "@shopping @urgent" {
		t.Fatalf("tags = %q", added[0].Tags)
	}
}

func TestDeleteIgnoresUnknownIDs(t *testing.T) {
	fixedClock(t)
	s := newTestStore(t)
	if _, err := s.Add([]string{"a", "b"}, true, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete([]string{"2", "99"}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	entries, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ID != 1 {
		t.Fatalf("entries = %+v, want just id 1", entries)
	}
}

func TestDeleteMalformedIDAborts(t *testing.T) {
	fixedClock(t)
	s := newTestStore(t)
	if _, err := s.Add([]string{"a", "b"}, true, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete([]string{"1", "nope"}); !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
	entries, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 untouched", len(entries))
	}
}

func TestBeginToggles(t *testing.T) {
	fixedClock(t)
	s := newTestStore(t)
	if _, err := s.Add([]string{"a"}, true, nil); err != nil {
		t.Fatal(err)
	}

	if err := s.Begin([]string{"1"}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	entries, _ := s.Load()
	if !entries[0].InProgress || entries[0].IsDone {
		t.Fatalf("after first begin: %+v", entries[0])
	}

	if err := s.Begin([]string{"1"}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	entries, _ = s.Load()
	if entries[0].InProgress || entries[0].IsDone {
		t.Fatalf("after second begin: %+v", entries[0])
	}
}

func TestBeginClearsDone(t *testing.T) {
	fixedClock(t)
	s := newTestStore(t)
	if err := s.Save([]Entry{{ID: 1, Name: "a", IsTask: true, IsDone: true, Priority: PriorityNormal}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Begin([]string{"1"}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	entries, _ := s.Load()
	if entries[0].IsDone {
		t.Fatalf("begin did not clear is_done: %+v", entries[0])
	}
}

func TestCheckIdempotent(t *testing.T) {
	fixedClock(t)
	s := newTestStore(t)
	if _, err := s.Add([]string{"a"}, true, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Begin([]string{"1"}); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if err := s.Check([]string{"1"}); err != nil {
			t.Fatalf("Check: %v", err)
		}
		entries, _ := s.Load()
		if !entries[0].IsDone || entries[0].InProgress {
			t.Fatalf("pass %d: %+v", i, entries[0])
		}
	}
}

func TestTidyRemovesCompleted(t *testing.T) {
	fixedClock(t)
	s := newTestStore(t)
	seed := []Entry{
		{ID: 1, Name: "done task", IsTask: true, IsDone: true, Priority: PriorityNormal},
		{ID: 2, Name: "done note", IsTask: false, IsDone: true, Priority: PriorityNormal},
		{ID: 3, Name: "open", IsTask: true, Priority: PriorityNormal},
	}
	if err := s.Save(seed); err != nil {
		t.Fatal(err)
	}
	if err := s.Tidy(); err != nil {
		t.Fatalf("Tidy: %v", err)
	}
	entries, _ := s.Load()
	if len(entries) != 1 || entries[0].ID != 3 {
		t.Fatalf("entries = %+v, want just id 3", entries)
	}
}

func TestRenumber(t *testing.T) {
	fixedClock(t)
	s := newTestStore(t)
	if _, err := s.Add([]string{"a", "b", "c"}, true, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete([]string{"2"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Renumber(); err != nil {
		t.Fatalf("Renumber: %v", err)
	}
	entries, _ := s.Load()
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].ID != 1 || entries[0].Name != "a" {
		t.Fatalf("entries[0] = %+v", entries[0])
	}
	if entries[1].ID != 2 || entries[1].Name != "c" {
		t.Fatalf("entries[1] = %+v", entries[1])
	}
}

func TestPriorityQueueNilSafe(t *testing.T) {
	var q *PriorityQueue
	if got := q.Next(); got != PriorityNormal {
		t.Fatalf("nil queue Next = %q, want normal", got)
	}
}
