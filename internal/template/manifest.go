// Package template provides per-style scaffold manifests and placeholder expansion.
//
// A template root holds one directory per style. Each style directory has a
// manifest (manifest.yaml, or manifest.json) mapping target paths to source
// files in the same directory, plus a flat list of directories to create.
package template

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/kodarch/internal/errors"
)

// Manifest describes how to scaffold one style.
type Manifest struct {
	// Files maps a target path relative to the project root to a source file
	// relative to the style's template directory.
	Files map[string]string `yaml:"files" json:"files"`

	// Directories are created before any file is written.
	Directories []string `yaml:"directories,omitempty" json:"directories,omitempty"`
}

// Targets returns the manifest's target paths, sorted.
func (m *Manifest) Targets() []string {
	targets := make([]string, 0, len(m.Files))
	for target := range m.Files {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	return targets
}

// ParseManifest decodes a manifest. The format is chosen from name's extension:
// .json for JSON, otherwise YAML.
func ParseManifest(name string, data []byte) (*Manifest, error) {
	var m Manifest
	if detectFormat(name) == "json" {
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrTemplateParseError, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrTemplateParseError, err)
		}
	}

	if err := ValidateManifest(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ValidateManifest rejects empty paths and paths that leave the project or template root.
func ValidateManifest(m *Manifest) error {
	for target, source := range m.Files {
		if err := validRelative(target); err != nil {
			return fmt.Errorf("%w: target %q: %w", errors.ErrTemplateParseError, target, err)
		}
		if err := validRelative(source); err != nil {
			return fmt.Errorf("%w: source %q: %w", errors.ErrTemplateParseError, source, err)
		}
	}
	for _, dir := range m.Directories {
		if err := validRelative(dir); err != nil {
			return fmt.Errorf("%w: directory %q: %w", errors.ErrTemplateParseError, dir, err)
		}
	}
	return nil
}

func validRelative(p string) error {
	if strings.TrimSpace(p) == "" {
		return fmt.Errorf("empty path: %w", errors.ErrTemplateParseError)
	}
	if strings.HasPrefix(p, "/") {
		return errors.ErrPathTraversal
	}
	clean := path.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return errors.ErrPathTraversal
	}
	return nil
}

// detectFormat returns "json" for .json names and "yaml" for everything else.
func detectFormat(name string) string {
	if strings.EqualFold(path.Ext(name), ".json") {
		return "json"
	}
	return "yaml"
}
