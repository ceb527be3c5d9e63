package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return &Store{Root: t.TempDir()}
}

func TestLoadCreatesMissingFile(t *testing.T) {
	s := newTestStore(t)
	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("got %d entries, want 0", len(entries))
	}
	if _, err := os.Stat(s.BoardPath()); err != nil {
		t.Fatalf("board file not created: %v", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.BoardPath(), []byte("  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("got %d entries, want 0", len(entries))
	}
}

func TestLoadMalformed(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.BoardPath(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(); !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	in := []Entry{
		{ID: 1, Name: "write report", Tags: "@work", IsTask: true, Priority: PriorityHigh, Timestamp: 100},
		{ID: 2, Name: "an idea", IsTask: false, Priority: PriorityNormal, Timestamp: 200},
	}
	if err := s.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d entries, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("entry %d = %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestSaveFormat(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save([]Entry{{ID: 1, Name: "x", IsTask: true, Priority: PriorityNormal}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, err := os.ReadFile(s.BoardPath())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasSuffix(b, []byte("\n")) {
		t.Fatalf("file does not end with a newline")
	}
	if !bytes.Contains(b, []byte("\n  {")) {
		t.Fatalf("file is not indented:\n%s", b)
	}
	if _, err := os.Stat(filepath.Join(s.Root, tempFileName)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestSaveNil(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, err := os.ReadFile(s.BoardPath())
	if err != nil {
		t.Fatal(err)
	}
	if string(bytes.TrimSpace(b)) != "[]" {
		t.Fatalf("file = %q, want empty array", b)
	}
}
