package separator

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kobzarvs/funcsep/internal/config"
)

// DisplayName turns a function identifier into the label shown in its banner.
func DisplayName(name string, opts config.Separator) string {
	if opts.SplitCamelCase {
		name = splitCamel(name)
	}
	if opts.SplitSeparators {
		name = strings.Map(func(r rune) rune {
			if r == '.' || r == '_' {
				return ' '
			}
			return r
		}, name)
	}
	name = strings.Join(strings.Fields(name), " ")

	// Casers keep state between calls, so each call builds its own.
	switch opts.NameCase {
	case config.CaseCapitalize:
		return cases.Title(language.Und, cases.NoLower).String(name)
	case config.CaseUpper:
		return cases.Upper(language.Und).String(name)
	case config.CaseLower:
		return cases.Lower(language.Und).String(name)
	default:
		return name
	}
}

// splitCamel inserts a space at each word boundary of a camelCase or
// PascalCase identifier. A run of capitals is kept together as an acronym, so
// "HTTPServer" becomes "HTTP Server" and "parseJSON" becomes "parse JSON".
func splitCamel(s string) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range rs {
		if i > 0 && unicode.IsUpper(r) {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			switch {
			case unicode.IsLower(prev) || unicode.IsDigit(prev):
				b.WriteByte(' ')
			case unicode.IsUpper(prev) && nextLower:
				b.WriteByte(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
