package docs

import (
	"fmt"
	"strings"

	"github.com/mrz1836/kodarch/internal/domain"
	"github.com/mrz1836/kodarch/internal/toolchain"
)

// stackNote describes one technology's prerequisite and dev server.
type stackNote struct {
	label   string
	prereq  string
	dev     string // format verb receives the JS run prefix
	jsBased bool
}

//nolint:gochecknoglobals // fixed table
var stackNotes = []stackNote{
	{label: "Next.js", prereq: "Node.js 20 or newer", dev: "`%s dev` serves the app on http://localhost:3000", jsBased: true},
	{label: "Nuxt", prereq: "Node.js 20 or newer", dev: "`%s dev` serves the app on http://localhost:3000", jsBased: true},
	{label: "SvelteKit", prereq: "Node.js 20 or newer", dev: "`%s dev` serves the app on http://localhost:5173", jsBased: true},
	{label: "Svelte", prereq: "Node.js 20 or newer", dev: "`%s dev` serves the app on http://localhost:5173", jsBased: true},
	{label: "Astro", prereq: "Node.js 20 or newer", dev: "`%s dev` serves the site on http://localhost:4321", jsBased: true},
	{label: "Angular", prereq: "Node.js 20 or newer and the Angular CLI", dev: "`ng serve` serves the app on http://localhost:4200", jsBased: true},
	{label: "React", prereq: "Node.js 20 or newer", dev: "`%s dev` serves the app on http://localhost:5173", jsBased: true},
	{label: "Vue", prereq: "Node.js 20 or newer", dev: "`%s dev` serves the app on http://localhost:5173", jsBased: true},
	{label: "Node", prereq: "Node.js 20 or newer", dev: "`%s dev` starts the API server", jsBased: true},
	{label: "Python", prereq: "Python 3.11 or newer", dev: "`uvicorn backend.main:app --reload` serves the API on http://localhost:8000"},
	{label: "Go", prereq: "Go 1.22 or newer", dev: "`go run .` starts the server"},
	{label: "Rust", prereq: "A stable Rust toolchain from rustup", dev: "`cargo run` starts the binary"},
	{label: "Java", prereq: "JDK 21", dev: "`./mvnw spring-boot:run` starts the server"},
	{label: "Ruby", prereq: "Ruby 3.3 and Bundler", dev: "`bin/rails server` serves the app on http://localhost:3000"},
}

// jsRunPrefix returns how the package manager invokes a script named "dev".
func jsRunPrefix(pm string) string {
	switch pm {
	case "pnpm", "yarn":
		return pm
	case "bun":
		return "bun run"
	default:
		return "npm run"
	}
}

// prerequisites lists what a developer needs installed, without duplicates.
func prerequisites(plan *domain.Plan, s *domain.Style, cmds toolchain.Commands) []string {
	var out []string
	add := func(item string) {
		for _, existing := range out {
			if existing == item {
				return
			}
		}
		out = append(out, item)
	}

	for _, note := range stackNotes {
		if domain.StackMentions(plan.Stack, note.label) {
			add(note.prereq)
		}
	}
	add(fmt.Sprintf("The `%s` package manager", cmds.PackageManager))
	if plan.Database.Enabled {
		add(fmt.Sprintf("A %s instance reachable through `DATABASE_URL`", plan.Database.Type))
	}
	if plan.HasDeployTarget("docker") {
		add("Docker 24 or newer")
	}
	if s.Toolchain.Linter != "" {
		add(fmt.Sprintf("`%s` for linting", s.Toolchain.Linter))
	}
	return out
}

// devServers lists how to run each part of the stack locally.
func devServers(plan *domain.Plan, cmds toolchain.Commands) []string {
	var out []string
	prefix := jsRunPrefix(cmds.PackageManager)
	for _, note := range stackNotes {
		if !domain.StackMentions(plan.Stack, note.label) {
			continue
		}
		line := note.dev
		if strings.Contains(line, "%s") {
			line = fmt.Sprintf(line, prefix)
		}
		out = append(out, note.label+": "+line)
	}
	if len(out) == 0 {
		out = append(out, fmt.Sprintf("`%s` builds the project", cmds.Build))
	}
	return out
}
