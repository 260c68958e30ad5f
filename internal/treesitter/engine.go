package treesitter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kobzarvs/funcsep/internal/grammar"
	"github.com/kobzarvs/funcsep/internal/logger"
)

var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrGrammarLoad         = errors.New("grammar load failed")
	ErrParse               = errors.New("parse failed")
	ErrQuery               = errors.New("function query failed")
)

// Function is one located function or method. Offsets are byte offsets into
// the parsed text.
type Function struct {
	Name      string
	StartName int
	EndName   int
	StartBody int
	EndBody   int
	// Nested is set when the body starts inside the previous top-level body.
	Nested bool
}

// compiled is a loaded grammar with its function query, or the error that
// prevented loading it. Both outcomes are cached for the life of the Engine.
type compiled struct {
	profile  grammar.Profile
	language *sitter.Language
	query    *sitter.Query
	err      error
}

// TreeFunc produces a syntax tree for src.
type TreeFunc func(ctx context.Context, lang *sitter.Language, src []byte) (*sitter.Tree, error)

type Options struct {
	// OperationLimit bounds parser work per parse; 0 means unlimited.
	OperationLimit int
	// Load resolves a language id to a grammar, grammar.Load by default.
	Load func(id string) (*sitter.Language, error)
	// Tree replaces the default parse step.
	Tree TreeFunc
}

// Engine locates function boundaries with tree-sitter queries.
// It is safe for concurrent use.
type Engine struct {
	registry *grammar.Registry
	load     func(id string) (*sitter.Language, error)
	tree     TreeFunc
	opLimit  int

	mu    sync.Mutex
	cache map[string]*compiled
}

func New(registry *grammar.Registry, opts Options) *Engine {
	e := &Engine{
		registry: registry,
		load:     opts.Load,
		tree:     opts.Tree,
		opLimit:  opts.OperationLimit,
		cache:    make(map[string]*compiled),
	}
	if e.load == nil {
		e.load = grammar.Load
	}
	if e.tree == nil {
		e.tree = e.parseTree
	}
	return e
}

func (e *Engine) Registry() *grammar.Registry { return e.registry }

// Parse locates the functions of text, picking the grammar from path's suffix.
func (e *Engine) Parse(ctx context.Context, path, text string) ([]Function, error) {
	profile, ok := e.registry.ProfileForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, filepath.Ext(path))
	}
	return e.ParseLanguage(ctx, profile.ID, path, text)
}

// ParseLanguage locates the functions of text using the grammar registered as
// id. path only labels log lines. Functions come back in query emission order,
// which is not necessarily textual order; see SortByPosition.
func (e *Engine) ParseLanguage(ctx context.Context, id, path, text string) ([]Function, error) {
	c, err := e.compiled(id)
	if err != nil {
		return nil, err
	}
	return e.parse(ctx, c, path, []byte(text), false)
}

func (e *Engine) compiled(id string) (*compiled, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if c, ok := e.cache[id]; ok {
		return c, c.err
	}
	c := &compiled{}
	e.cache[id] = c

	profile, ok := e.registry.Profile(id)
	if !ok {
		c.err = fmt.Errorf("%w: %s", ErrUnsupportedLanguage, id)
		return c, c.err
	}
	c.profile = profile

	lang, err := e.load(id)
	if err != nil {
		c.err = fmt.Errorf("%w: %s: %v", ErrGrammarLoad, id, err)
		logger.Error("grammar load failed, language disabled", "language", id, "error", err)
		return c, c.err
	}
	c.language = lang

	query, err := sitter.NewQuery([]byte(profile.Query), lang)
	if err != nil {
		c.err = fmt.Errorf("%w: %s: %v", ErrQuery, id, err)
		logger.Error("function query does not compile", "language", id, "error", err)
		return c, c.err
	}
	c.query = query
	return c, nil
}

func (e *Engine) parseTree(ctx context.Context, lang *sitter.Language, src []byte) (*sitter.Tree, error) {
	return parseWithLimit(ctx, lang, src, e.opLimit)
}

// parseWithLimit uses a fresh parser per call so concurrent parses never
// share parser state.
func parseWithLimit(ctx context.Context, lang *sitter.Language, src []byte, limit int) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)
	if limit > 0 {
		parser.SetOperationLimit(limit)
	}
	return parser.ParseCtx(ctx, nil, src)
}

// parse runs one parse over src. A failed parse of the whole text is retried
// once as two halves split at a blank line; a failure inside that retry gives
// up rather than recursing further.
func (e *Engine) parse(ctx context.Context, c *compiled, path string, src []byte, retrying bool) ([]Function, error) {
	tree, err := e.tree(ctx, c.language, src)
	if err == nil && tree == nil {
		err = errors.New("no tree")
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if retrying {
			logger.Debug("parse failed again, giving up", "path", path, "error", err)
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		middle := FindMiddle(src)
		if middle <= 0 {
			logger.Once("parse:"+path, "parse failed, no split point", "path", path, "error", err)
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		logger.Once("parse:"+path, "parse failed, retrying in two halves",
			"path", path, "split", middle, "error", err)

		first, err := e.parse(ctx, c, path, src[:middle], true)
		if err != nil {
			return nil, err
		}
		second, err := e.parse(ctx, c, path, src[middle:], true)
		if err != nil {
			return nil, err
		}
		for i := range second {
			second[i].StartName += middle
			second[i].EndName += middle
			second[i].StartBody += middle
			second[i].EndBody += middle
		}
		return append(first, second...), nil
	}
	defer tree.Close()
	return collect(c, tree, src, path), nil
}

func collect(c *compiled, tree *sitter.Tree, src []byte, path string) []Function {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(c.query, tree.RootNode())

	var out []Function
	seen := make(map[[2]int]int)
	currentRootEnd := -1
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, src)
		if match == nil {
			continue
		}
		if len(match.Captures) != 2 {
			logger.Error("bad capture count", "language", c.profile.ID, "path", path,
				"captures", len(match.Captures))
			continue
		}
		var body, name *sitter.Node
		for _, capture := range match.Captures {
			switch c.query.CaptureNameForId(capture.Index) {
			case "body":
				body = capture.Node
			case "name":
				name = capture.Node
			}
		}
		if body == nil || name == nil {
			logger.Error("match lacks body or name capture", "language", c.profile.ID, "path", path)
			continue
		}

		fn := Function{
			Name:      name.Content(src),
			StartName: int(name.StartByte()),
			EndName:   int(name.EndByte()),
			StartBody: int(body.StartByte()),
			EndBody:   int(body.EndByte()),
		}
		// A decorated definition and the definition inside it share a name;
		// keep one record spanning the decorators.
		key := [2]int{fn.StartName, fn.EndName}
		if i, ok := seen[key]; ok {
			if fn.StartBody < out[i].StartBody {
				out[i].StartBody = fn.StartBody
			}
			continue
		}
		seen[key] = len(out)

		if fn.StartBody < currentRootEnd {
			fn.Nested = true
		} else {
			currentRootEnd = fn.EndBody
		}
		out = append(out, fn)
	}
	return out
}

// FindMiddle returns the offset of the blank line closest to the middle of
// src, preferring the earlier line on a tie, or -1 when no blank line lies
// strictly inside src.
func FindMiddle(src []byte) int {
	middle := len(src) / 2
	best, bestDist := -1, len(src)+1
	start := 0
	for start < len(src) {
		end := start
		for end < len(src) && src[end] != '\n' {
			end++
		}
		if start > 0 && isBlank(src[start:end]) {
			dist := start - middle
			if dist < 0 {
				dist = -dist
			}
			if dist >= bestDist {
				break
			}
			best, bestDist = start, dist
		}
		start = end + 1
	}
	return best
}

func isBlank(line []byte) bool {
	for _, b := range line {
		switch b {
		case ' ', '\t', '\r', '\v', '\f':
		default:
			return false
		}
	}
	return true
}

// SortByPosition returns fns ordered by body start. Nesting flags keep the
// values computed in emission order.
func SortByPosition(fns []Function) []Function {
	out := make([]Function, len(fns))
	copy(out, fns)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartBody != out[j].StartBody {
			return out[i].StartBody < out[j].StartBody
		}
		return out[i].StartName < out[j].StartName
	})
	return out
}
