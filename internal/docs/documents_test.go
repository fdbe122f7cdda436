package docs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/kodarch/internal/constants"
	"github.com/mrz1836/kodarch/internal/domain"
	"github.com/mrz1836/kodarch/internal/style"
)

func testPlan() *domain.Plan {
	return &domain.Plan{
		Project:     "chat",
		Description: "Build a chat app",
		Stack:       "Next.js + Node",
		Style:       "hyperforge",
		Features:    []string{"realtime-messaging", "file-uploads"},
		Auth:        domain.AuthSpec{Provider: "supabase"},
		Artifact: domain.ArtifactSpec{
			Zip:           true,
			License:       "MIT",
			DeployTargets: []string{"vercel", "docker", "render"},
		},
	}
}

func loadStyle(t *testing.T, name string) *domain.Style {
	t.Helper()
	s, err := style.Builtin().Lookup(name)
	require.NoError(t, err)
	return s
}

func TestWhyChoices_OmitsDisabledSections(t *testing.T) {
	out, err := WhyChoices(testPlan(), loadStyle(t, "hyperforge"))
	require.NoError(t, err)

	for _, heading := range []string{"## Style", "## Stack", "## Testing", "## Documentation", "## Security", "## Deployment"} {
		assert.Contains(t, out, heading)
	}
	assert.NotContains(t, out, "## Database")
	assert.NotContains(t, out, "## Authentication")
	assert.Contains(t, out, "Hyperforge")
	assert.Contains(t, out, "vercel, docker, render")
	assert.Contains(t, out, "skips the test phase")
}

func TestWhyChoices_EnabledSections(t *testing.T) {
	plan := testPlan()
	plan.Database = domain.DatabaseSpec{Enabled: true, Type: "postgres"}
	plan.Auth.Enabled = true

	out, err := WhyChoices(plan, loadStyle(t, "artisan"))
	require.NoError(t, err)
	assert.Contains(t, out, "## Database")
	assert.Contains(t, out, "**postgres**")
	assert.Contains(t, out, "## Authentication")
	assert.Contains(t, out, "**supabase**")
	assert.Contains(t, out, "React + Python + Postgres")
}

func TestBuildSummary(t *testing.T) {
	start := time.Date(2025, 12, 27, 10, 0, 0, 0, time.UTC)
	entries := []domain.LogEntry{
		{Timestamp: start, Phase: constants.PhaseParse, Severity: constants.SeveritySuccess, Message: "plan parsed"},
		{Timestamp: start, Phase: constants.PhaseInstall, Severity: constants.SeverityError, Message: "install command failed"},
		{Timestamp: start, Phase: constants.PhaseBuild, Severity: constants.SeverityWarning, Message: "build command failed"},
		{Timestamp: start, Phase: constants.PhaseBuild, Severity: constants.SeveritySuccess, Message: "ignored"},
	}

	out, err := BuildSummary(testPlan(), loadStyle(t, "hyperforge"), entries)
	require.NoError(t, err)

	assert.Contains(t, out, "# Build Summary: chat")
	assert.Contains(t, out, "| install | error |")
	assert.Contains(t, out, "| build | warning |")
	assert.Contains(t, out, "| parse | success |")
	assert.Contains(t, out, "Entries: 2 success, 1 warning, 1 error.")
	assert.Contains(t, out, "- **install** (error): install command failed")
	assert.Contains(t, out, "- Realtime Messaging")
	assert.Contains(t, out, "`pnpm install`")
	assert.Contains(t, out, "2025-12-27T10:00:00Z")
}

func TestBuildSummary_NoEntries(t *testing.T) {
	out, err := BuildSummary(testPlan(), loadStyle(t, "zenith"), nil)
	require.NoError(t, err)
	assert.Contains(t, out, "No pipeline events were recorded.")
	assert.Contains(t, out, "Entries: 0 success, 0 warning, 0 error.")
}

func TestDeployPlaybook(t *testing.T) {
	out, err := DeployPlaybook(testPlan(), loadStyle(t, "hyperforge"))
	require.NoError(t, err)

	assert.Contains(t, out, "## Vercel")
	assert.Contains(t, out, "## Docker")
	assert.Contains(t, out, "## Render")
	assert.Contains(t, out, "docker build -t chat .")
	assert.Contains(t, out, "Build command: `pnpm install && pnpm build`.")
	assert.Contains(t, out, "Next.js: `pnpm dev` serves the app on http://localhost:3000")
	assert.Contains(t, out, "Node.js 20 or newer")
	assert.Contains(t, out, "Docker 24 or newer")
	assert.Contains(t, out, "1. Install the CLI")
}

func TestDeployPlaybook_TargetsFollowPlan(t *testing.T) {
	plan := testPlan()
	plan.Stack = "Rust"
	plan.Artifact.DeployTargets = []string{"docker", "fly"}

	out, err := DeployPlaybook(plan, loadStyle(t, "genesis"))
	require.NoError(t, err)
	assert.NotContains(t, out, "## Vercel")
	assert.NotContains(t, out, "## Render")
	assert.Contains(t, out, "## Fly")
	assert.Contains(t, out, "No playbook is bundled for fly")
	assert.Contains(t, out, "Rust: `cargo run` starts the binary")
	assert.Contains(t, out, "A stable Rust toolchain from rustup")
}

func TestSecurityNotes_GradedByPosture(t *testing.T) {
	basic, err := SecurityNotes(testPlan(), loadStyle(t, "hyperforge"))
	require.NoError(t, err)
	high, err := SecurityNotes(testPlan(), loadStyle(t, "artisan"))
	require.NoError(t, err)
	paranoid, err := SecurityNotes(testPlan(), loadStyle(t, "sentinel"))
	require.NoError(t, err)

	assert.Contains(t, basic, "Posture: **basic**")
	assert.Contains(t, high, "Posture: **high**")
	assert.Contains(t, paranoid, "Posture: **paranoid**")
	assert.Contains(t, paranoid, "threat model")
	assert.NotContains(t, basic, "threat model")
	assert.Contains(t, high, "Content-Security-Policy")
	assert.NotEqual(t, basic, high)
	assert.Contains(t, basic, "REPLACE_WITH_LIVE_")
}

func TestSecurityNotes_UnknownPostureIsBasic(t *testing.T) {
	s := loadStyle(t, "zenith")
	s.Preferences.Security = "lax"
	out, err := SecurityNotes(testPlan(), s)
	require.NoError(t, err)
	assert.Contains(t, out, "Posture: **basic**")
}

func TestLicense(t *testing.T) {
	body, complete, err := License("MIT", "chat", 2025)
	require.NoError(t, err)
	assert.True(t, complete)
	assert.Contains(t, body, "MIT License")
	assert.Contains(t, body, "Copyright (c) 2025 chat")

	body, complete, err = License("Apache-2.0", "chat", 2025)
	require.NoError(t, err)
	assert.False(t, complete)
	assert.NotEmpty(t, body)
	assert.Contains(t, body, "Apache-2.0")
	assert.Contains(t, body, "https://spdx.org/licenses/Apache-2.0.html")
}

func TestTestReportHTML(t *testing.T) {
	entries := []domain.LogEntry{
		{Phase: constants.PhaseInstall, Severity: constants.SeveritySuccess, Message: "installed"},
		{Phase: constants.PhaseTest, Severity: constants.SeverityWarning, Message: "tests not available or failed <stderr>"},
	}

	out, err := TestReportHTML(testPlan(), loadStyle(t, "artisan"), entries)
	require.NoError(t, err)
	assert.Contains(t, out, "<title>Test report: chat</title>")
	assert.Contains(t, out, `<li class="warning">tests not available or failed &lt;stderr&gt;</li>`)
	assert.NotContains(t, out, "installed")

	skipped, err := TestReportHTML(testPlan(), loadStyle(t, "hyperforge"), entries)
	require.NoError(t, err)
	assert.Contains(t, skipped, "Tests were not run for this testing level.")
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "File Uploads", title("file-uploads"))
	assert.Equal(t, "Hyperforge", title("hyperforge"))
}
