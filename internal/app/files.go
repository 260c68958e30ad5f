package app

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/kobzarvs/funcsep/internal/grammar"
	"github.com/kobzarvs/funcsep/internal/logger"
)

// fileSet is the result of expanding command line paths.
type fileSet struct {
	Files []string
	// Unsupported lists explicitly named files without a grammar.
	Unsupported []string
}

// collectFiles expands paths into the files to process. Directories are
// walked and yield only files with a known grammar that no exclude pattern
// matches. Explicitly named files are kept when anyLanguage is set, even
// without a grammar.
func collectFiles(paths []string, registry *grammar.Registry, exclude []string, anyLanguage bool) (fileSet, error) {
	var set fileSet
	seen := make(map[string]struct{})
	add := func(path string) {
		clean := filepath.Clean(path)
		if _, ok := seen[clean]; ok {
			return
		}
		seen[clean] = struct{}{}
		set.Files = append(set.Files, clean)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return fileSet{}, err
		}
		if !info.IsDir() {
			if !registry.Supports(root) && !anyLanguage {
				set.Unsupported = append(set.Unsupported, root)
				continue
			}
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn("walk: skipping unreadable entry", "path", path, "error", err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if path != root && excluded(exclude, relativeTo(root, path)) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			if registry.Supports(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return fileSet{}, err
		}
	}
	return set, nil
}

func relativeTo(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}

// excluded matches the patterns against the slash form of path and against
// its base name.
func excluded(patterns []string, path string) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, slashed); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, slashed+"/"); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// fileWorkspace serves documents straight from disk in a fixed order.
type fileWorkspace struct {
	files []string
}

func (w fileWorkspace) Documents(context.Context) ([]string, error) {
	return w.files, nil
}

func (w fileWorkspace) Text(_ context.Context, id string) (string, error) {
	data, err := os.ReadFile(id)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
