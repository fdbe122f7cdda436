package domain

// Testing levels.
const (
	TestingMinimal  = "minimal"
	TestingStandard = "standard"
	TestingThorough = "thorough"
)

// Security postures.
const (
	SecurityBasic    = "basic"
	SecurityHigh     = "high"
	SecurityParanoid = "paranoid"
)

// Documentation densities.
const (
	DocsSparse    = "sparse"
	DocsStandard  = "standard"
	DocsExtensive = "extensive"
)

// Style is a named bundle of build preferences and toolchain defaults.
// Styles are loaded from the catalog, never derived from a prompt.
type Style struct {
	Name         string       `yaml:"name" json:"name"`
	Description  string       `yaml:"description" json:"description"`
	Tagline      string       `yaml:"tagline" json:"tagline"`
	Preferences  Preferences  `yaml:"preferences" json:"preferences"`
	DefaultStack DefaultStack `yaml:"default_stack" json:"default_stack"`
	Toolchain    Toolchain    `yaml:"toolchain" json:"toolchain"`
}

// Preferences are the graded enumerations that vary behavior across stages.
type Preferences struct {
	// Tempo is blitz, steady, or deliberate.
	Tempo string `yaml:"tempo" json:"tempo"`
	// Testing is minimal, standard, or thorough.
	Testing string `yaml:"testing" json:"testing"`
	// Documentation is sparse, standard, or extensive.
	Documentation string `yaml:"documentation" json:"documentation"`
	// Security is basic, high, or paranoid.
	Security string `yaml:"security" json:"security"`
	// CodeStyle is pragmatic, clean, idiomatic, or functional.
	CodeStyle string `yaml:"code_style" json:"code_style"`
}

// DefaultStack holds the style's preferred technology labels.
type DefaultStack struct {
	Frontend string `yaml:"frontend" json:"frontend"`
	Backend  string `yaml:"backend" json:"backend"`
	Database string `yaml:"database" json:"database"`
}

// Toolchain identifies the tools used to install, test, lint, and format.
type Toolchain struct {
	PackageManager string `yaml:"package_manager" json:"package_manager"`
	TestRunner     string `yaml:"test_runner" json:"test_runner"`
	Linter         string `yaml:"linter" json:"linter"`
	Formatter      string `yaml:"formatter" json:"formatter"`
}

// RunsTests reports whether the test phase should execute for this style.
func (s *Style) RunsTests() bool {
	return s.Preferences.Testing != TestingMinimal
}
