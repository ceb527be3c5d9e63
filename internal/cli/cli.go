package cli

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"noteboard/internal/board"
	"noteboard/internal/store"
	"noteboard/internal/theme"
)

// Exit codes
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitInternal = 10
)

// multiFlag supports repeatable flags (-a, -n, -d, -b, -c, -p).
type multiFlag struct{ Values []string }

func (m *multiFlag) String() string { return strings.Join(m.Values, ",") }
func (m *multiFlag) Set(v string) error {
	m.Values = append(m.Values, v)
	return nil
}

type options struct {
	Root      string
	Log       string
	Sort      string
	Plain     bool
	Export    bool
	ExportDir string
	Quiet     bool
	Tidy      bool
	Renumber  bool

	Add      multiFlag
	Note     multiFlag
	Delete   multiFlag
	Begin    multiFlag
	Check    multiFlag
	Priority multiFlag
}

func parseArgs(args []string) (*options, error) {
	opt := &options{Root: store.DefaultRoot(), Log: "info"}

	fs := flag.NewFlagSet("noteboard", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() { printHelp(fs.Output()) }

	fs.StringVar(&opt.Root, "root", opt.Root, "store root")
	fs.StringVar(&opt.Log, "log", opt.Log, "log level (debug|info|warn|error)")
	fs.StringVar(&opt.Sort, "sort", "", "display order (age|priority)")
	fs.StringVar(&opt.Sort, "s", "", "shorthand for --sort")
	fs.Var(&opt.Add, "add", "add a task (repeatable)")
	fs.Var(&opt.Add, "a", "shorthand for --add")
	fs.Var(&opt.Note, "note", "add a note (repeatable)")
	fs.Var(&opt.Note, "n", "shorthand for --note")
	fs.Var(&opt.Delete, "delete", "delete an entry by id (repeatable)")
	fs.Var(&opt.Delete, "d", "shorthand for --delete")
	fs.Var(&opt.Begin, "begin", "toggle in-progress by id (repeatable)")
	fs.Var(&opt.Begin, "b", "shorthand for --begin")
	fs.Var(&opt.Check, "check", "complete an entry by id (repeatable)")
	fs.Var(&opt.Check, "c", "shorthand for --check")
	fs.Var(&opt.Priority, "priority", "priority for an added entry (repeatable, consumed in order: tasks first, then notes)")
	fs.Var(&opt.Priority, "p", "shorthand for --priority")
	fs.BoolVar(&opt.Tidy, "tidy", false, "remove every completed entry")
	fs.BoolVar(&opt.Tidy, "t", false, "shorthand for --tidy")
	fs.BoolVar(&opt.Renumber, "renumber", false, "reassign sequential ids in file order")
	fs.BoolVar(&opt.Plain, "plain", false, "plain tab-separated listing instead of the board")
	fs.BoolVar(&opt.Export, "export", false, "write a JSON snapshot to the export directory")
	fs.StringVar(&opt.ExportDir, "export-dir", "", "override export directory (default: <root>/exports)")
	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress informational output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(rest, " "))
	}
	if opt.ExportDir == "" {
		opt.ExportDir = filepath.Join(store.Open(opt.Root).Root, "exports")
	}
	return opt, nil
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `noteboard - personal task/note board

Usage:
  noteboard [flags]

One invocation may combine several mutations; they run in a fixed order
(add tasks, add notes, delete, begin, check, tidy, renumber) and the board
is displayed last.

Flags:
  -a, --add <text>       Add a task; inline @tags are extracted (repeatable)
  -n, --note <text>      Add a note (repeatable)
  -p, --priority <p>     low|normal|high for an added entry; one queue is
                         consumed across tasks first, then notes (repeatable)
  -d, --delete <id>      Delete by id (repeatable)
  -b, --begin <id>       Toggle in-progress; begin twice to undo (repeatable)
  -c, --check <id>       Mark completed (repeatable)
  -t, --tidy             Remove every completed entry
      --renumber         Reassign ids 1..N in file order
  -s, --sort <by>        Display order: age|priority (display only)
      --plain            Tab-separated listing instead of the themed board
      --export           Write a JSON snapshot to <root>/exports
      --export-dir <d>   Override export directory
      --root <path>      Store root (default: ~/.noteboard or NOTEBOARD_ROOT)
      --log <level>      Log level for <root>/noteboard.log (default: info)
      --quiet            Suppress informational output
`)
}

// Run executes one invocation: parse flags, apply the requested mutations
// best-effort, then display. A failed mutation is logged and the run moves
// on; only an unusable store root or an unreadable state file at display
// time fails the process.
func Run(args []string) int {
	opt, err := parseArgs(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		fmt.Fprintln(os.Stderr, "noteboard:", err)
		return ExitUsage
	}

	// Argument validation happens before any mutation runs.
	levels := make([]store.Priority, 0, len(opt.Priority.Values))
	for _, raw := range opt.Priority.Values {
		p, err := store.ParsePriority(raw)
		if err != nil {
			fmt.Fprintln(os.Stderr, "noteboard:", err)
			return ExitUsage
		}
		levels = append(levels, p)
	}
	sortSet := strings.TrimSpace(opt.Sort) != ""
	var sortBy store.SortBy
	if sortSet {
		sortBy, err = store.ParseSortBy(opt.Sort)
		if err != nil {
			fmt.Fprintln(os.Stderr, "noteboard:", err)
			return ExitUsage
		}
	}

	st := store.Open(opt.Root)
	if err := st.Ensure(); err != nil {
		fmt.Fprintln(os.Stderr, "noteboard:", err)
		return ExitInternal
	}

	logger := newLogger(st.Root, opt.Log)
	defer func() { _ = logger.Sync() }()

	queue := store.NewPriorityQueue(levels)
	if len(opt.Add.Values) > 0 {
		if added, err := st.Add(opt.Add.Values, true, queue); err != nil {
			logger.Error("add tasks", zap.Error(err))
		} else {
			logger.Debug("added tasks", zap.Int("count", len(added)))
		}
	}
	if len(opt.Note.Values) > 0 {
		if added, err := st.Add(opt.Note.Values, false, queue); err != nil {
			logger.Error("add notes", zap.Error(err))
		} else {
			logger.Debug("added notes", zap.Int("count", len(added)))
		}
	}
	if len(opt.Delete.Values) > 0 {
		if err := st.Delete(opt.Delete.Values); err != nil {
			logger.Error("delete", zap.Error(err))
		} else {
			logger.Debug("deleted", zap.Strings("ids", opt.Delete.Values))
		}
	}
	if len(opt.Begin.Values) > 0 {
		if err := st.Begin(opt.Begin.Values); err != nil {
			logger.Error("begin", zap.Error(err))
		} else {
			logger.Debug("began", zap.Strings("ids", opt.Begin.Values))
		}
	}
	if len(opt.Check.Values) > 0 {
		if err := st.Check(opt.Check.Values); err != nil {
			logger.Error("check", zap.Error(err))
		} else {
			logger.Debug("checked", zap.Strings("ids", opt.Check.Values))
		}
	}
	if opt.Tidy {
		if err := st.Tidy(); err != nil {
			logger.Error("tidy", zap.Error(err))
		}
	}
	if opt.Renumber {
		if err := st.Renumber(); err != nil {
			logger.Error("renumber", zap.Error(err))
		}
	}

	entries, err := st.Load()
	if err != nil {
		logger.Error("load", zap.Error(err))
		fmt.Fprintln(os.Stderr, "noteboard:", err)
		return ExitInternal
	}
	if sortSet {
		store.OrderBy(entries, sortBy)
	}

	if opt.Export {
		path, err := writeExport(opt.ExportDir, entries)
		if err != nil {
			logger.Error("export", zap.Error(err))
		} else if !opt.Quiet {
			fmt.Println("Wrote snapshot to:", path)
		}
	}

	if opt.Plain {
		printPlain(entries)
		return ExitOK
	}

	th, err := theme.Load(st.Root)
	if err != nil {
		// Defaults are already applied; a broken theme never blocks display.
		logger.Warn("theme", zap.Error(err))
	}
	if out := board.Render(entries, th); out != "" {
		fmt.Println(out)
	}
	return ExitOK
}

func printPlain(entries []store.Entry) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tST\tPRI\tNAME\tTAGS")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, kindLabel(e), stateAbbrev(e), e.Priority, strings.TrimSpace(e.Name), e.Tags)
	}
	_ = w.Flush()
}

func kindLabel(e store.Entry) string {
	if e.IsTask {
		return "task"
	}
	return "note"
}

func stateAbbrev(e store.Entry) string {
	switch {
	case e.IsDone:
		return "✓"
	case e.InProgress:
		return "d"
	default:
		return "o"
	}
}

// writeExport snapshots the collection into dir. ULID names keep repeated
// exports within the same second from colliding.
func writeExport(dir string, entries []store.Entry) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", errors.New("export directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if entries == nil {
		entries = []store.Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", err
	}
	data = append(data, '\n')
	path := filepath.Join(dir, fmt.Sprintf("entries-%s.json", newExportID()))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return path, nil
}

func newExportID() string {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return strings.ToLower(id.String())
}
