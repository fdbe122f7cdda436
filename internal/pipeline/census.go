package pipeline

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestCensus lists the dependencies declared by one package manifest.
type ManifestCensus struct {
	Path               string            `json:"path"`
	Ecosystem          string            `json:"ecosystem"`
	Dependencies       map[string]string `json:"dependencies"`
	DevDependencies    map[string]string `json:"dev_dependencies"`
	DependencyCount    int               `json:"dependency_count"`
	DevDependencyCount int               `json:"dev_dependency_count"`
	Error              string            `json:"error,omitempty"`
}

// Census is the dependency report written to BUILD_LOGS/dependency_report.json.
type Census struct {
	Manifests            []ManifestCensus `json:"manifests"`
	TotalDependencies    int              `json:"total_dependencies"`
	TotalDevDependencies int              `json:"total_dev_dependencies"`
	Note                 string           `json:"note,omitempty"`
}

type manifestReader struct {
	file      string
	ecosystem string
	read      func(path string) (deps, dev map[string]string, err error)
}

//nolint:gochecknoglobals // fixed table
var manifestReaders = []manifestReader{
	{"package.json", "npm", readPackageJSON},
	{"Cargo.toml", "cargo", readCargoToml},
	{"pyproject.toml", "python", readPyproject},
	{"requirements.txt", "pip", readRequirements},
	{"go.mod", "go", readGoMod},
}

// TakeCensus reads every known package manifest at the project root and one
// directory below it. A missing or unreadable manifest never fails the census.
func TakeCensus(projectPath string) Census {
	dirs := []string{""}
	if entries, err := os.ReadDir(projectPath); err == nil {
		for _, e := range entries {
			if e.IsDir() && !skipCensusDir(e.Name()) {
				dirs = append(dirs, e.Name())
			}
		}
	}
	sort.Strings(dirs[1:])

	c := Census{Manifests: []ManifestCensus{}}
	for _, dir := range dirs {
		for _, reader := range manifestReaders {
			rel := filepath.ToSlash(filepath.Join(dir, reader.file))
			path := filepath.Join(projectPath, rel)
			if _, err := os.Stat(path); err != nil {
				continue
			}

			m := ManifestCensus{Path: rel, Ecosystem: reader.ecosystem}
			deps, dev, err := reader.read(path)
			if err != nil {
				m.Error = err.Error()
			}
			m.Dependencies = nonNil(deps)
			m.DevDependencies = nonNil(dev)
			m.DependencyCount = len(m.Dependencies)
			m.DevDependencyCount = len(m.DevDependencies)

			c.TotalDependencies += m.DependencyCount
			c.TotalDevDependencies += m.DevDependencyCount
			c.Manifests = append(c.Manifests, m)
		}
	}

	if len(c.Manifests) == 0 {
		c.Note = "no package manifest found"
	}
	return c
}

func skipCensusDir(name string) bool {
	switch name {
	case "node_modules", ".git", "target", ".venv", "__pycache__", "BUILD_LOGS":
		return true
	}
	return false
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func readPackageJSON(path string) (deps, dev map[string]string, err error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is inside the generated project
	if err != nil {
		return nil, nil, err
	}
	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse package.json: %w", err)
	}
	return pkg.Dependencies, pkg.DevDependencies, nil
}

func readCargoToml(path string) (deps, dev map[string]string, err error) {
	var cargo struct {
		Dependencies    map[string]any `toml:"dependencies"`
		DevDependencies map[string]any `toml:"dev-dependencies"`
	}
	if _, err := toml.DecodeFile(path, &cargo); err != nil {
		return nil, nil, fmt.Errorf("failed to parse Cargo.toml: %w", err)
	}
	return tomlVersions(cargo.Dependencies), tomlVersions(cargo.DevDependencies), nil
}

func readPyproject(path string) (deps, dev map[string]string, err error) {
	var py struct {
		Project struct {
			Dependencies         []string            `toml:"dependencies"`
			OptionalDependencies map[string][]string `toml:"optional-dependencies"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Dependencies    map[string]any `toml:"dependencies"`
				DevDependencies map[string]any `toml:"dev-dependencies"`
				Group           map[string]struct {
					Dependencies map[string]any `toml:"dependencies"`
				} `toml:"group"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if _, err := toml.DecodeFile(path, &py); err != nil {
		return nil, nil, fmt.Errorf("failed to parse pyproject.toml: %w", err)
	}

	deps = map[string]string{}
	dev = map[string]string{}
	for _, spec := range py.Project.Dependencies {
		name, version := splitRequirement(spec)
		deps[name] = version
	}
	for _, group := range py.Project.OptionalDependencies {
		for _, spec := range group {
			name, version := splitRequirement(spec)
			dev[name] = version
		}
	}
	for name, version := range tomlVersions(py.Tool.Poetry.Dependencies) {
		if name != "python" {
			deps[name] = version
		}
	}
	for name, version := range tomlVersions(py.Tool.Poetry.DevDependencies) {
		dev[name] = version
	}
	for _, group := range py.Tool.Poetry.Group {
		for name, version := range tomlVersions(group.Dependencies) {
			dev[name] = version
		}
	}
	return deps, dev, nil
}

// tomlVersions flattens dependency tables where a value is either a version
// string or a table with a "version" key.
func tomlVersions(raw map[string]any) map[string]string {
	out := make(map[string]string, len(raw))
	for name, v := range raw {
		switch val := v.(type) {
		case string:
			out[name] = val
		case map[string]any:
			if version, ok := val["version"].(string); ok {
				out[name] = version
			} else {
				out[name] = "*"
			}
		default:
			out[name] = "*"
		}
	}
	return out
}

func readRequirements(path string) (deps, dev map[string]string, err error) {
	f, err := os.Open(path) //#nosec G304 -- path is inside the generated project
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	deps = map[string]string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if i := strings.Index(line, "#"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" || strings.HasPrefix(line, "-") {
			continue
		}
		name, version := splitRequirement(line)
		deps[name] = version
	}
	return deps, nil, scanner.Err()
}

// splitRequirement splits a PEP 508 requirement such as "uvicorn[standard]>=0.29"
// into its name and version specifier.
func splitRequirement(spec string) (name, version string) {
	spec = strings.TrimSpace(spec)
	if i := strings.Index(spec, ";"); i >= 0 {
		spec = strings.TrimSpace(spec[:i])
	}
	cut := strings.IndexAny(spec, "=<>!~[ ")
	if cut < 0 {
		return spec, "*"
	}
	name = spec[:cut]
	rest := spec[cut:]
	if j := strings.Index(rest, "]"); strings.HasPrefix(rest, "[") && j >= 0 {
		rest = rest[j+1:]
	}
	version = strings.TrimSpace(rest)
	if version == "" {
		version = "*"
	}
	return name, version
}

func readGoMod(path string) (deps, dev map[string]string, err error) {
	f, err := os.Open(path) //#nosec G304 -- path is inside the generated project
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	deps = map[string]string{}
	inBlock := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "require (":
			inBlock = true
			continue
		case inBlock && line == ")":
			inBlock = false
			continue
		case strings.HasPrefix(line, "require "):
			line = strings.TrimPrefix(line, "require ")
		case !inBlock:
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			deps[fields[0]] = fields[1]
		}
	}
	return deps, nil, scanner.Err()
}
