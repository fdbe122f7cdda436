package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/kodarch/internal/constants"
)

func TestParse_TaggedScenario(t *testing.T) {
	plan := Parse("Create a new project called \"my-app\"\nstyle:artisan\nauth")

	assert.Equal(t, "my-app", plan.Project)
	assert.Equal(t, "artisan", plan.Style)
	assert.True(t, plan.Auth.Enabled)
	assert.Equal(t, "supabase", plan.Auth.Provider)
	assert.Equal(t, "Create a new project called \"my-app\"", plan.Description)
}

func TestParse_ChatAppUsesLiteralHeuristics(t *testing.T) {
	plan := Parse("Build a chat app")

	assert.Equal(t, "hyperforge", plan.Style)
	assert.False(t, plan.Database.Enabled)
	assert.Empty(t, plan.Database.Type)
	assert.False(t, plan.Auth.Enabled)
	assert.Equal(t, "chat", plan.Project)
	assert.Equal(t, "Build a chat app", plan.Description)
	assert.Equal(t, "Next.js + Node", plan.Stack)
	assert.Equal(t, []string{"realtime-messaging"}, plan.Features)
	assert.Equal(t, []string{"vercel", "docker", "render"}, plan.Artifact.DeployTargets)
	assert.True(t, plan.Artifact.Zip)
	assert.Equal(t, "MIT", plan.Artifact.License)
}

func TestParse_StackTagWins(t *testing.T) {
	plan := Parse("Build a React dashboard in Rust with Postgres\nstack: Vue + Python")

	assert.Equal(t, "Vue + Python", plan.Stack)
	assert.Equal(t, []string{"docker", "render"}, plan.Artifact.DeployTargets)
	assert.NotContains(t, plan.Description, "stack")
}

func TestParse_StackTagMidSentence(t *testing.T) {
	t.Run("followed by a clause", func(t *testing.T) {
		plan := Parse("Build a todo app stack: Vue + Python, where users login to their account")
		assert.Equal(t, "Vue + Python", plan.Stack)
		assert.True(t, plan.Database.Enabled)
		assert.True(t, plan.Auth.Enabled)
		assert.Equal(t, "Build a todo app, where users login to their account", plan.Description)
	})

	t.Run("closing a sentence", func(t *testing.T) {
		plan := Parse("stack: Vue + Python. Build a todo app that stores user data")
		assert.Equal(t, "Vue + Python", plan.Stack)
		assert.True(t, plan.Database.Enabled)
		assert.True(t, plan.Auth.Enabled)
		assert.Equal(t, "Build a todo app that stores user data", plan.Description)
	})

	t.Run("dotted names", func(t *testing.T) {
		assert.Equal(t, "Next.js + Node.js", Parse("A shop. stack: Next.js + Node.js. Ships fast").Stack)
	})
}

func TestParse_TagsEndingASentence(t *testing.T) {
	plan := Parse("Use license: Apache-2.0. Build a todo app deploy: fly.")
	assert.Equal(t, "Apache-2.0", plan.Artifact.License)
	assert.Equal(t, []string{"fly"}, plan.Artifact.DeployTargets)
	assert.Equal(t, "Use", plan.Description)

	assert.Equal(t, "MIT", Parse("A blog with license: mit.").Artifact.License)
}

func TestParse_StackInference(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		stack  string
		deploy []string
	}{
		{"group priority", "A Next.js and Svelte site with Express and MongoDB", "Next.js + Node + MongoDB", []string{"vercel", "docker", "render"}},
		{"sveltekit before svelte", "Use SvelteKit with Go backend and Redis", "SvelteKit + Go + Redis", []string{"vercel", "docker", "render"}},
		{"rust skips render", "Build a CLI in Rust", "Rust", []string{"docker"}},
		{"vue not edge", "Vue frontend with a FastAPI service", "Vue + Python", []string{"docker", "render"}},
		{"javascript is not java", "A javascript widget", "Next.js + Node", []string{"vercel", "docker", "render"}},
		{"default", "Something nice", "Next.js + Node", []string{"vercel", "docker", "render"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan := Parse(tc.prompt)
			assert.Equal(t, tc.stack, plan.Stack)
			assert.Equal(t, tc.deploy, plan.Artifact.DeployTargets)
		})
	}
}

func TestParse_ProjectName(t *testing.T) {
	tests := []struct {
		prompt string
		want   string
	}{
		{`Build a store named 'Corner Shop'`, "corner-shop"},
		{"Make a blog called chatter.", "chatter"},
		{"Scaffold an API named inventory_service", "inventory-service"},
		{`I need a project named "Pet Shop" today`, "pet-shop"},
		{"Here is the project called ledger", "ledger"},
		{`A "Recipe Box" app for cooks`, "recipe-box"},
		{"I want a really fancy recipe organizer!", "really-fancy"},
		{"", constants.DefaultProjectName},
		{"a to do it", constants.DefaultProjectName},
	}
	for _, tc := range tests {
		t.Run(tc.want+"/"+tc.prompt, func(t *testing.T) {
			assert.Equal(t, tc.want, Parse(tc.prompt).Project)
		})
	}
}

func TestParse_Description(t *testing.T) {
	assert.Equal(t, "Build a todo list", Parse("Build a todo list. It should sync!").Description)
	assert.Equal(t, constants.DefaultDescription, Parse("   ").Description)
	assert.Equal(t, constants.DefaultDescription, Parse("style:zenith").Description)

	long := Parse(strings.Repeat("word ", 60)).Description
	assert.Equal(t, 150, utf8.RuneCountInString(long))
	assert.True(t, strings.HasSuffix(long, "..."))
}

func TestParse_Features(t *testing.T) {
	plan := Parse("A kanban board with login, Stripe checkout, file uploads and email alerts")
	assert.Equal(t, []string{"authentication", "payments", "file-uploads", "notifications", "task-tracking"}, plan.Features)

	assert.Equal(t, []string{constants.PlaceholderFeature}, Parse("Something nice").Features)
}

func TestParse_DatabaseAndAuth(t *testing.T) {
	plan := Parse("An app where users can save recipes")
	assert.True(t, plan.Database.Enabled)
	assert.Equal(t, "postgres", plan.Database.Type)
	assert.True(t, plan.Auth.Enabled)

	plan = Parse("A Vue tool that stores notes in SQLite")
	assert.True(t, plan.Database.Enabled)
	assert.Equal(t, "sqlite", plan.Database.Type)
	assert.False(t, plan.Auth.Enabled)

	plan = Parse("A landing page db:MongoDB")
	assert.True(t, plan.Database.Enabled)
	assert.Equal(t, "mongodb", plan.Database.Type)
	assert.NotContains(t, plan.Description, "db:")
}

func TestParse_Tags(t *testing.T) {
	plan := Parse("Build a site\nlicense: apache\ndeploy: Fly, docker+render, fly\nSTYLE: Genesis")
	assert.Equal(t, "Apache-2.0", plan.Artifact.License)
	assert.Equal(t, []string{"fly", "docker", "render"}, plan.Artifact.DeployTargets)
	assert.Equal(t, "genesis", plan.Style)
	assert.Equal(t, "Build a site", plan.Description)

	assert.Equal(t, "WTFPL", Parse("license: WTFPL").Artifact.License)
	assert.Equal(t, "hyperforge", Parse("style:baroque").Style)
}

func TestParse_AuthTagMustStandAlone(t *testing.T) {
	assert.True(t, Parse("A notes tool\n  auth  \n").Auth.Enabled)
	assert.False(t, Parse("A notes tool with an author bio").Auth.Enabled)
}

func TestParseWithStyle(t *testing.T) {
	assert.Equal(t, "genesis", ParseWithStyle("Build a chat app", "Genesis").Style)
	assert.Equal(t, "artisan", ParseWithStyle("Build a chat app style:artisan", "unknown").Style)
	assert.Equal(t, "artisan", ParseWithStyle("Build a chat app style:artisan", "").Style)
}

func TestParse_Deterministic(t *testing.T) {
	prompts := []string{
		"Build a chat app",
		"Create a new project called \"my-app\"\nstyle:artisan\nauth",
		"A Next.js dashboard with Stripe billing and user accounts deploy:vercel",
		"",
	}
	for _, p := range prompts {
		assert.Equal(t, Parse(p), Parse(p))
	}
}

func TestParse_NeverEmpty(t *testing.T) {
	prompts := []string{"", " ", "!!!", "\n\n", "style:", "deploy:", "stack:", "???.", "a b c"}
	for _, p := range prompts {
		plan := Parse(p)
		require.NotEmpty(t, plan.Project, p)
		require.NotEmpty(t, plan.Description, p)
		require.NotEmpty(t, plan.Features, p)
		require.NotEmpty(t, plan.Artifact.DeployTargets, p)
		require.NotEmpty(t, plan.Stack, p)
	}
}

func TestStyleTag(t *testing.T) {
	assert.Equal(t, "artisan", StyleTag("Build a chat app style:artisan"))
	assert.Equal(t, "zenith", StyleTag("Style: Zenith\nBuild a blog"))
	assert.Equal(t, "baroque", StyleTag("Build a blog style: baroque"))
	assert.Empty(t, StyleTag("Build a stylish chat app"))
	assert.Empty(t, StyleTag("style:"))
}
