package prompt

import "regexp"

// Tag patterns. Keys are case-insensitive. Values may contain inner dots
// ("Next.js", "Apache-2.0") but never end with one, so a tag that closes a
// sentence leaves the full stop in the text.
//
//nolint:gochecknoglobals // compiled once
var (
	styleTag   = regexp.MustCompile(`(?i)\bstyle\s*:\s*([a-z0-9_-]+)`)
	licenseTag = regexp.MustCompile(`(?i)\blicense\s*:\s*([a-z0-9+-]+(?:\.[a-z0-9+-]+)*)`)
	dbTag      = regexp.MustCompile(`(?i)\bdb\s*:\s*([a-z0-9_-]+)`)
	deployTag  = regexp.MustCompile(`(?i)\bdeploy\s*:\s*([a-z0-9_-]+(?:\.[a-z0-9_-]+)*(?:\s*[,+]\s*[a-z0-9_-]+(?:\.[a-z0-9_-]+)*)*)`)
	stackTag   = regexp.MustCompile(`(?i)\bstack\s*:\s*([\w#-]+(?:\.[\w#-]+)*(?:[ \t]*\+[ \t]*[\w#-]+(?:\.[\w#-]+)*)*)`)
	authTag    = regexp.MustCompile(`(?im)^[ \t]*auth[ \t]*$`)

	listSeparator = regexp.MustCompile(`\s*[,+]\s*`)
	whitespace    = regexp.MustCompile(`\s+`)
	danglingPunct = regexp.MustCompile(`\s+([,.;:!?])`)
	sentenceEnd   = regexp.MustCompile(`[.!?]+`)
)

// Project name patterns, tried in order. The first non-empty group is the name.
//
//nolint:gochecknoglobals // compiled once
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:build|create|make|generate|scaffold)\b.*?\b(?:named|called)\s+["']([^"'\n]+)["']`),
	regexp.MustCompile(`(?i)\b(?:build|create|make|generate|scaffold)\b.*?\b(?:named|called)\s+([a-z0-9][\w.-]*)`),
	regexp.MustCompile(`(?i)\bproject\s+(?:named|called)\s+(?:["']([^"'\n]+)["']|([a-z0-9][\w.-]*))`),
	regexp.MustCompile(`(?i)["']([^"'\n]+)["']\s+(?:app|application|project|site|service)\b`),
}

// Words dropped by the fallback name derivation, in addition to any word of
// three characters or fewer.
//
//nolint:gochecknoglobals // fixed table
var stopWords = map[string]struct{}{
	"build": {}, "create": {}, "make": {}, "generate": {}, "scaffold": {},
	"want": {}, "need": {}, "please": {}, "simple": {}, "basic": {},
	"application": {}, "that": {}, "with": {}, "this": {}, "from": {},
	"have": {}, "using": {}, "would": {}, "like": {}, "some": {},
	"which": {}, "called": {}, "named": {}, "project": {}, "where": {},
	"should": {}, "could": {}, "their": {}, "allows": {}, "lets": {},
	"users": {}, "website": {},
}

//nolint:gochecknoglobals // compiled once
var nonWordChars = regexp.MustCompile(`[^a-z0-9\s-]+`)

// techRule maps a keyword pattern to the label it contributes to the stack.
type techRule struct {
	label   string
	pattern *regexp.Regexp
}

// Stack detection groups. Within a group the first matching rule wins.
//
//nolint:gochecknoglobals // fixed table
var (
	frontendRules = []techRule{
		{"Next.js", regexp.MustCompile(`(?i)\bnext\.?js\b`)},
		{"Nuxt", regexp.MustCompile(`(?i)\bnuxt(?:\.?js)?\b`)},
		{"SvelteKit", regexp.MustCompile(`(?i)\bsvelte\s*kit\b`)},
		{"Svelte", regexp.MustCompile(`(?i)\bsvelte\b`)},
		{"Astro", regexp.MustCompile(`(?i)\bastro\b`)},
		{"Angular", regexp.MustCompile(`(?i)\bangular\b`)},
		{"React", regexp.MustCompile(`(?i)\breact\b`)},
		{"Vue", regexp.MustCompile(`(?i)\bvue(?:\.?js)?\b`)},
	}

	backendRules = []techRule{
		{"Node", regexp.MustCompile(`(?i)\b(?:node(?:\.?js)?|express|nest\.?js)\b`)},
		{"Python", regexp.MustCompile(`(?i)\b(?:python|fastapi|django|flask)\b`)},
		{"Go", regexp.MustCompile(`(?i)\b(?:golang|gin|go\s+(?:api|backend|server|service))\b`)},
		{"Rust", regexp.MustCompile(`(?i)\b(?:rust|axum|actix)\b`)},
		{"Java", regexp.MustCompile(`(?i)\b(?:java|spring(?:\s*boot)?)\b`)},
		{"Ruby", regexp.MustCompile(`(?i)\b(?:ruby|rails)\b`)},
	}

	databaseRules = []techRule{
		{"Postgres", regexp.MustCompile(`(?i)\bpostgres(?:ql)?\b`)},
		{"MySQL", regexp.MustCompile(`(?i)\bmysql\b`)},
		{"MongoDB", regexp.MustCompile(`(?i)\bmongo(?:db)?\b`)},
		{"SQLite", regexp.MustCompile(`(?i)\bsqlite\b`)},
		{"Redis", regexp.MustCompile(`(?i)\bredis\b`)},
	}
)

// Frontends whose builds deploy to edge hosting.
//
//nolint:gochecknoglobals // fixed table
var edgeFrontends = []string{"Next.js", "Nuxt", "SvelteKit", "Astro"}

// Deploy target identifiers.
const (
	TargetVercel = "vercel"
	TargetDocker = "docker"
	TargetRender = "render"
)

// featureRule maps a keyword pattern to a feature label.
type featureRule struct {
	label   string
	pattern *regexp.Regexp
}

// Feature catalog. Every matching rule contributes its label, in table order.
// This is the only table of feature, database, and auth heuristics; the
// architect and document generators read the plan rather than the prompt.
//
//nolint:gochecknoglobals // fixed table
var featureRules = []featureRule{
	{"authentication", regexp.MustCompile(`(?i)\b(?:login|log[- ]in|sign[- ]?up|sign[- ]?in|auth(?:n|z|entication|enticated?|orization|orized?)?|oauth2?)\b`)},
	{"realtime-messaging", regexp.MustCompile(`(?i)\b(?:chat\w*|messag\w*|real[- ]?time|websockets?)\b`)},
	{"payments", regexp.MustCompile(`(?i)\b(?:pay\w*|stripe|checkout|subscriptions?|billing)\b`)},
	{"analytics-dashboard", regexp.MustCompile(`(?i)\b(?:dashboards?|analytics|charts?|metrics)\b`)},
	{"file-uploads", regexp.MustCompile(`(?i)\b(?:upload\w*|files?|images?|media)\b`)},
	{"search", regexp.MustCompile(`(?i)\b(?:search\w*|filter\w*)\b`)},
	{"notifications", regexp.MustCompile(`(?i)\b(?:notif\w*|emails?|alerts?)\b`)},
	{"admin-panel", regexp.MustCompile(`(?i)\b(?:admin\w*|roles?|permissions?)\b`)},
	{"public-api", regexp.MustCompile(`(?i)\b(?:api|apis|rest|graphql|endpoints?)\b`)},
	{"content-management", regexp.MustCompile(`(?i)\b(?:blogs?|posts?|cms|articles?)\b`)},
	{"task-tracking", regexp.MustCompile(`(?i)\b(?:todos?|to-dos?|tasks?|kanban)\b`)},
	{"internationalization", regexp.MustCompile(`(?i)\b(?:i18n|multilingual|translations?|locali[sz]ation)\b`)},
}

// Enablement heuristics over the tag-stripped prompt.
//
//nolint:gochecknoglobals // compiled once
var (
	needsDatabase = regexp.MustCompile(`(?i)\b(?:stor(?:e|es|ed|ing|age)|sav(?:e|es|ed|ing)|persist\w*|databases?|db|data|users?|accounts?)\b`)
	needsAuth     = regexp.MustCompile(`(?i)\b(?:login|log[- ]in|sign[- ]?up|auth(?:n|z|entication|enticated?|orization|orized?)?|users?|accounts?|profiles?)\b`)
)

// Database labels as they appear in a stack, mapped to plan database types.
//
//nolint:gochecknoglobals // fixed table
var databaseTypes = []struct {
	label string
	kind  string
}{
	{"Postgres", "postgres"},
	{"PostgreSQL", "postgres"},
	{"MySQL", "mysql"},
	{"MongoDB", "mongodb"},
	{"SQLite", "sqlite"},
	{"Redis", "redis"},
}

// SPDX identifiers for common license spellings.
//
//nolint:gochecknoglobals // fixed table
var spdxLicenses = map[string]string{
	"mit":          "MIT",
	"apache":       "Apache-2.0",
	"apache2":      "Apache-2.0",
	"apache-2":     "Apache-2.0",
	"apache-2.0":   "Apache-2.0",
	"gpl":          "GPL-3.0",
	"gpl3":         "GPL-3.0",
	"gpl-3":        "GPL-3.0",
	"gpl-3.0":      "GPL-3.0",
	"lgpl":         "LGPL-3.0",
	"lgpl-3.0":     "LGPL-3.0",
	"agpl":         "AGPL-3.0",
	"agpl-3.0":     "AGPL-3.0",
	"mpl":          "MPL-2.0",
	"mpl-2.0":      "MPL-2.0",
	"bsd":          "BSD-3-Clause",
	"bsd-3":        "BSD-3-Clause",
	"bsd-3-clause": "BSD-3-Clause",
	"bsd-2-clause": "BSD-2-Clause",
	"isc":          "ISC",
	"unlicense":    "Unlicense",
}
