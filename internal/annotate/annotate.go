// Package annotate runs insert, remove and refresh passes over whole files:
// read, plan, apply and write, discarding any plan whose file changed
// underneath it.
package annotate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kobzarvs/funcsep/internal/config"
	"github.com/kobzarvs/funcsep/internal/document"
	"github.com/kobzarvs/funcsep/internal/grammar"
	"github.com/kobzarvs/funcsep/internal/logger"
	"github.com/kobzarvs/funcsep/internal/scope"
	"github.com/kobzarvs/funcsep/internal/separator"
	"github.com/kobzarvs/funcsep/internal/treesitter"
)

const maxAttempts = 3

var (
	ErrDocumentChanged = errors.New("document changed while editing")
	ErrEditPending     = errors.New("another edit is pending for this document")
)

type Action int

const (
	Insert Action = iota
	Remove
	Refresh
)

func (a Action) String() string {
	switch a {
	case Insert:
		return "insert"
	case Remove:
		return "remove"
	case Refresh:
		return "refresh"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Store is where documents are read from and written back to.
type Store interface {
	Read(path string) (string, error)
	Write(path, text string) error
}

// FileStore reads and writes files on disk, keeping their permissions.
type FileStore struct{}

func (FileStore) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (FileStore) Write(path, text string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

type Options struct {
	Store Store
	// DryRun computes results without writing anything.
	DryRun bool
}

type Result struct {
	Path    string
	Action  Action
	Removed int
	Added   int
	Changed bool
	// Text is the document after the pass.
	Text string
}

type Annotator struct {
	engine   *treesitter.Engine
	registry *grammar.Registry
	cfg      config.Separator
	store    Store
	dryRun   bool

	mu      sync.Mutex
	pending map[string]struct{}
}

func New(engine *treesitter.Engine, cfg config.Separator, opts Options) *Annotator {
	store := opts.Store
	if store == nil {
		store = FileStore{}
	}
	return &Annotator{
		engine:   engine,
		registry: engine.Registry(),
		cfg:      cfg,
		store:    store,
		dryRun:   opts.DryRun,
		pending:  make(map[string]struct{}),
	}
}

// PlanInsert returns the banner insertions for text. path selects the grammar.
func (a *Annotator) PlanInsert(ctx context.Context, path, text string, sc scope.Scope) ([]document.Edit, error) {
	profile, ok := a.registry.ProfileForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", grammar.ErrUnsupported, suffix(path))
	}
	fns, err := a.engine.ParseLanguage(ctx, profile.ID, path, text)
	if errors.Is(err, treesitter.ErrParse) {
		// Already logged by the engine; an unparseable file gets no banners.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return separator.Insertions(document.New(text), profile, fns, sc, a.cfg), nil
}

// PlanRemove returns the edits that strip banners from text. It needs no
// grammar, so it works on any file.
func (a *Annotator) PlanRemove(text string, sc scope.Scope) []document.Edit {
	return separator.Removals(document.New(text), sc)
}

func (a *Annotator) InsertFile(ctx context.Context, path string, sc scope.Scope) (Result, error) {
	return a.Run(ctx, Insert, path, sc)
}

func (a *Annotator) RemoveFile(ctx context.Context, path string, sc scope.Scope) (Result, error) {
	return a.Run(ctx, Remove, path, sc)
}

func (a *Annotator) RefreshFile(ctx context.Context, path string, sc scope.Scope) (Result, error) {
	return a.Run(ctx, Refresh, path, sc)
}

// Run performs one pass over path. Only one pass per path may be in flight.
func (a *Annotator) Run(ctx context.Context, action Action, path string, sc scope.Scope) (Result, error) {
	if !a.begin(path) {
		return Result{}, fmt.Errorf("%w: %s", ErrEditPending, path)
	}
	defer a.end(path)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		text, err := a.store.Read(path)
		if err != nil {
			return Result{}, err
		}
		res, err := a.Transform(ctx, action, path, text, sc)
		if err != nil {
			return Result{}, err
		}
		if !res.Changed || a.dryRun {
			return res, nil
		}

		current, err := a.store.Read(path)
		if err != nil {
			return Result{}, err
		}
		if current != text {
			logger.Debug("document changed during planning, replanning",
				"path", path, "action", action.String(), "attempt", attempt)
			continue
		}
		if err := a.store.Write(path, res.Text); err != nil {
			return Result{}, err
		}
		logger.Info("annotated", "path", path, "action", action.String(),
			"removed", res.Removed, "added", res.Added)
		return res, nil
	}
	return Result{}, fmt.Errorf("%w: %s", ErrDocumentChanged, path)
}

// Transform computes the result of action on text without touching the store.
func (a *Annotator) Transform(ctx context.Context, action Action, path, text string, sc scope.Scope) (Result, error) {
	res := Result{Path: path, Action: action, Text: text}

	if action == Remove || action == Refresh {
		if action == Refresh && !a.registry.Supports(path) {
			return res, fmt.Errorf("%w: %s", grammar.ErrUnsupported, suffix(path))
		}
		doc := document.New(res.Text)
		edits := a.PlanRemove(res.Text, sc)
		out, err := document.Apply(res.Text, edits)
		if err != nil {
			return res, err
		}
		if len(sc) > 0 {
			sc = shiftScope(doc, sc, edits)
		}
		res.Removed = len(edits)
		res.Text = out
	}

	if action == Insert || action == Refresh {
		edits, err := a.PlanInsert(ctx, path, res.Text, sc)
		if err != nil {
			return res, err
		}
		out, err := document.Apply(res.Text, edits)
		if err != nil {
			return res, err
		}
		res.Added = len(edits)
		res.Text = out
	}

	res.Changed = res.Text != text
	return res, nil
}

// shiftScope maps the lines of sc in doc onto the text produced by applying
// whole-line edits to it. A line inside a replaced range maps to its top.
func shiftScope(doc *document.Doc, sc scope.Scope, edits []document.Edit) scope.Scope {
	mapLine := func(line int) int {
		delta := 0
		for _, e := range edits {
			top := doc.PositionAt(e.Start).Line
			bottom := doc.PositionAt(e.End).Line // exclusive
			if line < top {
				break
			}
			if line < bottom {
				return top + delta
			}
			delta += strings.Count(e.Text, "\n") - (bottom - top)
		}
		return line + delta
	}
	out := make(scope.Scope, len(sc))
	for i, r := range sc {
		out[i] = scope.Range{Start: mapLine(r.Start), End: mapLine(r.End)}
	}
	return out
}

func (a *Annotator) begin(path string) bool {
	key := filepath.Clean(path)
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, busy := a.pending[key]; busy {
		return false
	}
	a.pending[key] = struct{}{}
	return true
}

func (a *Annotator) end(path string) {
	a.mu.Lock()
	delete(a.pending, filepath.Clean(path))
	a.mu.Unlock()
}

func suffix(path string) string {
	if ext := filepath.Ext(path); ext != "" {
		return ext
	}
	return filepath.Base(path)
}
