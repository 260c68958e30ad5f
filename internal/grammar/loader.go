package grammar

import (
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

var ErrGrammarNotFound = errors.New("grammar not found")

// assets maps a language id to its compiled grammar. The grammars are linked
// into the binary, so loading is a table lookup keyed by the same id the
// profiles use.
var assets = map[string]func() *sitter.Language{
	"go":         golang.GetLanguage,
	"javascript": javascript.GetLanguage,
	"typescript": typescript.GetLanguage,
	"tsx":        tsx.GetLanguage,
	"python":     python.GetLanguage,
	"c":          c.GetLanguage,
	"cpp":        cpp.GetLanguage,
	"java":       java.GetLanguage,
	"csharp":     csharp.GetLanguage,
	"rust":       rust.GetLanguage,
}

// Load returns the grammar for a language id.
func Load(id string) (*sitter.Language, error) {
	get, ok := assets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGrammarNotFound, id)
	}
	lang := get()
	if lang == nil {
		return nil, fmt.Errorf("%w: %s", ErrGrammarNotFound, id)
	}
	return lang, nil
}
