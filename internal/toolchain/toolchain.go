// Package toolchain maps a style's package manager to its install, build, and test commands.
package toolchain

import "strings"

// Commands is the install/build/test triple for one package manager.
// An empty command means the phase has nothing to run.
type Commands struct {
	PackageManager string `json:"package_manager"`
	Install        string `json:"install"`
	Build          string `json:"build"`
	Test           string `json:"test"`
}

// DefaultPackageManager is used for unrecognized identifiers.
const DefaultPackageManager = "npm"

//nolint:gochecknoglobals // fixed lookup table
var table = map[string]Commands{
	"npm":    {Install: "npm install", Build: "npm run build", Test: "npm test"},
	"pnpm":   {Install: "pnpm install", Build: "pnpm build", Test: "pnpm test"},
	"yarn":   {Install: "yarn install", Build: "yarn build", Test: "yarn test"},
	"bun":    {Install: "bun install", Build: "bun run build", Test: "bun test"},
	"cargo":  {Install: "cargo build", Build: "cargo build --release", Test: "cargo test"},
	"poetry": {Install: "poetry install", Build: "poetry build", Test: "poetry run pytest"},
	"pip":    {Install: "pip install -r requirements.txt", Build: "python -m compileall -q .", Test: "python -m pytest"},
	"go":     {Install: "go mod download", Build: "go build ./...", Test: "go test ./..."},
}

// Resolve returns the commands for packageManager. Unknown identifiers get the npm triple.
func Resolve(packageManager string) Commands {
	key := strings.ToLower(strings.TrimSpace(packageManager))
	c, ok := table[key]
	if !ok {
		key = DefaultPackageManager
		c = table[key]
	}
	c.PackageManager = key
	return c
}

// Known reports whether packageManager has its own entry in the table.
func Known(packageManager string) bool {
	_, ok := table[strings.ToLower(strings.TrimSpace(packageManager))]
	return ok
}
