package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	boardFileName = "board.json"
	tempFileName  = ".temp"
)

var (
	// ErrParse marks unreadable state-file contents and malformed user
	// input (ids, priorities, sort criteria).
	ErrParse = errors.New("parse")

	timeNow = func() time.Time { return time.Now() }
)

// Store is the handle to one board directory. Every operation goes through
// an explicit handle; there is no ambient global state.
type Store struct {
	Root string
}

// DefaultRoot resolves the board directory: NOTEBOARD_ROOT, else
// ~/.noteboard.
func DefaultRoot() string {
	if env := os.Getenv("NOTEBOARD_ROOT"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	if home != "" {
		return filepath.Join(home, ".noteboard")
	}
	return ".noteboard"
}

func Open(root string) *Store {
	return &Store{Root: expandHome(root)}
}

func (s *Store) Ensure() error {
	return os.MkdirAll(s.Root, 0o755)
}

func (s *Store) BoardPath() string {
	return filepath.Join(s.Root, boardFileName)
}

// Load reads the whole collection in file order. A missing file is created
// empty; an empty file is an empty collection.
func (s *Store) Load() ([]Entry, error) {
	path := s.BoardPath()
	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		_ = f.Close()
		b = nil
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return []Entry{}, nil
	}
	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, boardFileName, err)
	}
	return entries, nil
}

// Save rewrites the whole collection: pretty-printed JSON goes to Root/.temp
// and is renamed over the canonical file. Rename is atomic on the same
// filesystem, so a reader racing a writer sees the old or the new file,
// never a partial one. There is no locking; with two concurrent invocations
// the last completed save wins.
func (s *Store) Save(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	tmp := filepath.Join(s.Root, tempFileName)
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, s.BoardPath()); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~"+string(os.PathSeparator)) || path == "~" {
		home, _ := os.UserHomeDir()
		if home != "" {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
