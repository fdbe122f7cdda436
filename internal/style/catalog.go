// Package style provides the closed catalog of build styles.
//
// Styles are compiled into the binary and never derived from a prompt.
// A lookup for an unknown name resolves to the default style and logs a warning.
package style

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/kodarch/internal/constants"
	"github.com/mrz1836/kodarch/internal/domain"
	"github.com/mrz1836/kodarch/internal/errors"
)

//go:embed styles/*.yaml
var builtinFS embed.FS

// DefaultName is the style every unknown name resolves to.
const DefaultName = constants.DefaultStyleName

// Catalog is a read-only set of styles keyed by name.
// It is safe for concurrent use once constructed.
type Catalog struct {
	styles      map[string]domain.Style
	defaultName string
}

// New parses every *.yaml entry in fsys and returns a catalog.
// The default style must be present.
func New(fsys fs.FS, defaultName string) (*Catalog, error) {
	entries, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to list styles: %w", err)
	}

	c := &Catalog{
		styles:      make(map[string]domain.Style, len(entries)),
		defaultName: defaultName,
	}
	for _, name := range entries {
		s, err := decode(fsys, name)
		if err != nil {
			return nil, err
		}
		c.styles[s.Name] = s
	}

	if _, ok := c.styles[defaultName]; !ok {
		return nil, fmt.Errorf("default style %q: %w", defaultName, errors.ErrStyleNotFound)
	}
	return c, nil
}

func decode(fsys fs.FS, name string) (domain.Style, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return domain.Style{}, fmt.Errorf("failed to read style %s: %w", name, err)
	}

	var s domain.Style
	if err := yaml.Unmarshal(data, &s); err != nil {
		return domain.Style{}, fmt.Errorf("%w: %s: %w", errors.ErrStyleInvalid, name, err)
	}
	if err := Validate(&s); err != nil {
		return domain.Style{}, fmt.Errorf("%s: %w", name, err)
	}
	if want := strings.TrimSuffix(path.Base(name), ".yaml"); s.Name != want {
		return domain.Style{}, fmt.Errorf("%w: %s declares name %q", errors.ErrStyleInvalid, name, s.Name)
	}
	return s, nil
}

//nolint:gochecknoglobals // built once from the embedded entries
var builtin = sync.OnceValues(func() (*Catalog, error) {
	sub, err := fs.Sub(builtinFS, "styles")
	if err != nil {
		return nil, err
	}
	return New(sub, DefaultName)
})

// Builtin returns the catalog compiled into the binary.
// It panics if the embedded entries are malformed, which tests guard against.
func Builtin() *Catalog {
	c, err := builtin()
	if err != nil {
		panic(fmt.Sprintf("style: invalid builtin catalog: %v", err))
	}
	return c
}

// Load returns the named style. An unknown name logs a warning and returns
// the default style instead; Load never fails.
func (c *Catalog) Load(ctx context.Context, name string) *domain.Style {
	key := strings.ToLower(strings.TrimSpace(name))
	if s, ok := c.styles[key]; ok {
		return &s
	}

	zerolog.Ctx(ctx).Warn().
		Str("component", "style").
		Str("requested", name).
		Str("fallback", c.defaultName).
		Msg("style not found, using default")

	s := c.styles[c.defaultName]
	return &s
}

// Lookup returns the named style or ErrStyleNotFound, without fallback.
func (c *Catalog) Lookup(name string) (*domain.Style, error) {
	s, ok := c.styles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrStyleNotFound, name)
	}
	return &s, nil
}

// Has reports whether name is in the catalog.
func (c *Catalog) Has(name string) bool {
	_, ok := c.styles[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// DefaultName returns the name unknown lookups resolve to.
func (c *Catalog) DefaultName() string {
	return c.defaultName
}

// Names returns the catalog's style names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.styles))
	for name := range c.styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns a copy of every style, sorted by name.
func (c *Catalog) List() []domain.Style {
	names := c.Names()
	out := make([]domain.Style, 0, len(names))
	for _, name := range names {
		out = append(out, c.styles[name])
	}
	return out
}

// IsKnown reports whether name is a builtin style.
func IsKnown(name string) bool {
	return Builtin().Has(name)
}

// Names returns the builtin style names, sorted.
func Names() []string {
	return Builtin().Names()
}

//nolint:gochecknoglobals // closed enumerations
var allowed = map[string][]string{
	"tempo":         {"blitz", "steady", "deliberate"},
	"testing":       {domain.TestingMinimal, domain.TestingStandard, domain.TestingThorough},
	"documentation": {domain.DocsSparse, domain.DocsStandard, domain.DocsExtensive},
	"security":      {domain.SecurityBasic, domain.SecurityHigh, domain.SecurityParanoid},
	"code_style":    {"pragmatic", "clean", "idiomatic", "functional"},
}

// Validate checks that a style has a name, a package manager, and preference
// values drawn from the graded enumerations.
func Validate(s *domain.Style) error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", errors.ErrStyleInvalid)
	}
	if strings.TrimSpace(s.Toolchain.PackageManager) == "" {
		return fmt.Errorf("%w: %s: toolchain.package_manager is required", errors.ErrStyleInvalid, s.Name)
	}

	values := map[string]string{
		"tempo":         s.Preferences.Tempo,
		"testing":       s.Preferences.Testing,
		"documentation": s.Preferences.Documentation,
		"security":      s.Preferences.Security,
		"code_style":    s.Preferences.CodeStyle,
	}
	for _, key := range []string{"tempo", "testing", "documentation", "security", "code_style"} {
		if !slices.Contains(allowed[key], values[key]) {
			return fmt.Errorf("%w: %s: preferences.%s %q not one of %v",
				errors.ErrStyleInvalid, s.Name, key, values[key], allowed[key])
		}
	}
	return nil
}
