package template

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sync"

	"github.com/mrz1836/kodarch/internal/constants"
	"github.com/mrz1836/kodarch/internal/errors"
)

//go:embed all:builtin
var builtinFS embed.FS

// manifestNames are tried in order inside a style directory.
//
//nolint:gochecknoglobals // fixed lookup order
var manifestNames = []string{constants.TemplateManifestFileName, "manifest.yml", "manifest.json"}

// Source provides template directories keyed by style name.
type Source interface {
	// Has reports whether a template directory exists for style.
	Has(style string) bool
	// Manifest loads the style's manifest. It returns ErrTemplateManifestMissing
	// when the directory exists without one.
	Manifest(style string) (*Manifest, error)
	// ReadSource reads a source file relative to the style's directory.
	ReadSource(style, name string) ([]byte, error)
}

// Store is a Source backed by a file system whose top-level directories are styles.
type Store struct {
	fsys fs.FS
}

// Compile-time interface check.
var _ Source = (*Store)(nil)

// NewStore creates a Store over fsys.
func NewStore(fsys fs.FS) *Store {
	return &Store{fsys: fsys}
}

// NewDirStore creates a Store over a directory on disk.
func NewDirStore(dir string) *Store {
	return NewStore(os.DirFS(dir))
}

//nolint:gochecknoglobals // built once from the embedded tree
var builtinStore = sync.OnceValue(func() *Store {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(fmt.Sprintf("template: invalid builtin tree: %v", err))
	}
	return NewStore(sub)
})

// Builtin returns the templates compiled into the binary.
func Builtin() *Store {
	return builtinStore()
}

// Has reports whether a template directory exists for style.
func (s *Store) Has(style string) bool {
	if !fs.ValidPath(style) || style == "." {
		return false
	}
	info, err := fs.Stat(s.fsys, style)
	return err == nil && info.IsDir()
}

// Manifest loads and validates the style's manifest.
func (s *Store) Manifest(style string) (*Manifest, error) {
	for _, name := range manifestNames {
		p := path.Join(style, name)
		data, err := fs.ReadFile(s.fsys, p)
		if err != nil {
			continue
		}
		m, err := ParseManifest(name, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w: %s", errors.ErrTemplateManifestMissing, style)
}

// ReadSource reads a source file from the style's directory.
func (s *Store) ReadSource(style, name string) ([]byte, error) {
	p := path.Join(style, name)
	if !fs.ValidPath(p) {
		return nil, fmt.Errorf("%s: %w", p, errors.ErrPathTraversal)
	}
	data, err := fs.ReadFile(s.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errors.ErrTemplateSourceMissing, p, err)
	}
	return data, nil
}

// Layered consults each source in order and serves a style from the first
// one that has it. It lets an on-disk template root override the builtin one.
type Layered []Source

// Compile-time interface check.
var _ Source = Layered(nil)

func (l Layered) resolve(style string) Source {
	for _, src := range l {
		if src != nil && src.Has(style) {
			return src
		}
	}
	return nil
}

// Has reports whether any layer has style.
func (l Layered) Has(style string) bool {
	return l.resolve(style) != nil
}

// Manifest loads the manifest from the first layer that has style.
func (l Layered) Manifest(style string) (*Manifest, error) {
	src := l.resolve(style)
	if src == nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrTemplateManifestMissing, style)
	}
	return src.Manifest(style)
}

// ReadSource reads from the first layer that has style.
func (l Layered) ReadSource(style, name string) ([]byte, error) {
	src := l.resolve(style)
	if src == nil {
		return nil, fmt.Errorf("%w: %s/%s", errors.ErrTemplateSourceMissing, style, name)
	}
	return src.ReadSource(style, name)
}
