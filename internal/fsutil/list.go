package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher decides whether a slash-separated relative path is excluded.
// Patterns use doublestar syntax, e.g. "node_modules/**" or "**/__pycache__/**".
type Matcher struct {
	patterns []string
}

// NewMatcher builds a Matcher from doublestar patterns. Invalid patterns are dropped.
func NewMatcher(patterns []string) *Matcher {
	valid := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p != "" && doublestar.ValidatePattern(p) {
			valid = append(valid, p)
		}
	}
	return &Matcher{patterns: valid}
}

// Excluded reports whether the file at rel is excluded.
func (m *Matcher) Excluded(rel string) bool {
	for _, p := range m.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// ExcludedDir reports whether everything beneath the directory rel is excluded,
// so a walk can skip it entirely.
func (m *Matcher) ExcludedDir(rel string) bool {
	for _, p := range m.patterns {
		prefix, ok := strings.CutSuffix(p, "/**")
		if !ok {
			continue
		}
		if match, _ := doublestar.Match(prefix, rel); match {
			return true
		}
	}
	return false
}

// ListFiles returns the slash-separated paths of every regular file under root,
// relative to root and sorted, skipping anything the exclude patterns match.
func ListFiles(root string, excludes []string) ([]string, error) {
	m := NewMatcher(excludes)
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if m.ExcludedDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || m.Excluded(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// RenderTree renders an indented text tree of root, directories first at each
// level and entries sorted by name. Excluded subtrees are omitted.
func RenderTree(root string, excludes []string) (string, error) {
	m := NewMatcher(excludes)
	var b strings.Builder
	b.WriteString(filepath.Base(root) + "/\n")
	if err := renderLevel(&b, root, "", "", m); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderLevel(b *strings.Builder, dir, rel, indent string, m *Matcher) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})

	visible := entries[:0]
	for _, e := range entries {
		childRel := joinRel(rel, e.Name())
		if e.IsDir() && m.ExcludedDir(childRel) {
			continue
		}
		if !e.IsDir() && m.Excluded(childRel) {
			continue
		}
		visible = append(visible, e)
	}

	for i, e := range visible {
		branch, next := "├── ", "│   "
		if i == len(visible)-1 {
			branch, next = "└── ", "    "
		}
		childRel := joinRel(rel, e.Name())
		if e.IsDir() {
			b.WriteString(indent + branch + e.Name() + "/\n")
			if err := renderLevel(b, filepath.Join(dir, e.Name()), childRel, indent+next, m); err != nil {
				return err
			}
			continue
		}
		b.WriteString(indent + branch + e.Name() + "\n")
	}
	return nil
}

func joinRel(rel, name string) string {
	if rel == "" {
		return name
	}
	return rel + "/" + name
}
