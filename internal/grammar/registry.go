// Package grammar maps file suffixes to language profiles: the structural query
// that locates functions and the comment tokens of the language.
package grammar

import (
	"errors"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/kobzarvs/funcsep/internal/config"
	"github.com/kobzarvs/funcsep/internal/logger"
)

var ErrUnsupported = errors.New("language not supported")

// Profile describes one grammar. Query must tag the whole definition @body and
// its identifier @name.
type Profile struct {
	ID           string
	Suffixes     []string
	Query        string
	LineComment  string
	OpenComment  string
	CloseComment string
}

type Registry struct {
	profiles map[string]Profile
	bySuffix map[string]string
}

func NewRegistry(profiles ...Profile) *Registry {
	r := &Registry{
		profiles: make(map[string]Profile, len(profiles)),
		bySuffix: make(map[string]string),
	}
	for _, p := range profiles {
		p.Suffixes = slices.Clone(p.Suffixes)
		r.profiles[p.ID] = p
		for _, sfx := range p.Suffixes {
			r.bySuffix[normalizeSuffix(sfx)] = p.ID
		}
	}
	return r
}

// Default returns a registry holding every built-in profile.
func Default() *Registry {
	return NewRegistry(builtin...)
}

func normalizeSuffix(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s != "" && !strings.HasPrefix(s, ".") {
		s = "." + s
	}
	return s
}

// Lookup finds the profile for a suffix such as ".ts". A miss means the file
// should be skipped, not that something failed.
func (r *Registry) Lookup(suffix string) (Profile, bool) {
	id, ok := r.bySuffix[normalizeSuffix(suffix)]
	if !ok {
		return Profile{}, false
	}
	return r.profiles[id], true
}

func (r *Registry) ProfileForPath(path string) (Profile, bool) {
	return r.Lookup(filepath.Ext(path))
}

func (r *Registry) Profile(id string) (Profile, bool) {
	p, ok := r.profiles[id]
	return p, ok
}

func (r *Registry) Supports(path string) bool {
	_, ok := r.ProfileForPath(path)
	return ok
}

// Suffixes returns every supported suffix, sorted.
func (r *Registry) Suffixes() []string {
	out := make([]string, 0, len(r.bySuffix))
	for sfx := range r.bySuffix {
		out = append(out, sfx)
	}
	sort.Strings(out)
	return out
}

// IDs returns the registered language ids, sorted.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Extend maps the file types listed in languages.toml onto known profiles.
// Entries naming an unknown language are ignored.
func (r *Registry) Extend(langs config.Languages) {
	for _, lang := range langs.Languages {
		p, ok := r.profiles[lang.Name]
		if !ok {
			logger.Warn("languages.toml: unknown language", "name", lang.Name)
			continue
		}
		for _, ft := range lang.FileTypes {
			sfx := normalizeSuffix(ft)
			if sfx == "" {
				continue
			}
			r.bySuffix[sfx] = p.ID
			p.Suffixes = append(p.Suffixes, sfx)
		}
		r.profiles[p.ID] = p
	}
}
