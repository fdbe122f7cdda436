package docs

import (
	"fmt"
	"strings"
	"time"

	"github.com/mrz1836/kodarch/internal/constants"
	"github.com/mrz1836/kodarch/internal/domain"
	"github.com/mrz1836/kodarch/internal/toolchain"
)

// Output file names for each document.
const (
	WhyChoicesFile     = constants.WhyChoicesFileName
	BuildSummaryFile   = constants.BuildSummaryFileName
	DeployPlaybookFile = constants.DeployPlaybookFileName
	SecurityNotesFile  = constants.SecurityNotesFileName
	LicenseFile        = constants.LicenseFileName
)

//nolint:gochecknoglobals // fixed prose tables
var (
	tempoNotes = map[string]string{
		"blitz":      "Speed to a working demo beats polish; the scaffold is minimal and opinionated.",
		"steady":     "The scaffold balances delivery speed with room to grow.",
		"deliberate": "Every layer is laid out up front so the project can be reviewed before it grows.",
	}
	testingNotes = map[string]string{
		domain.TestingMinimal:  "No test suite is generated; the pipeline skips the test phase.",
		domain.TestingStandard: "A smoke test is generated and run after the build.",
		domain.TestingThorough: "Tests are generated alongside the code and are expected to grow with every feature.",
	}
	docsNotes = map[string]string{
		domain.DocsSparse:    "Only the essentials are documented: the README and these notes.",
		domain.DocsStandard:  "The README covers setup and usage; decisions are recorded here.",
		domain.DocsExtensive: "Expect a docs/ directory with architecture notes next to every significant module.",
	}
	securityNotes = map[string]string{
		domain.SecurityBasic:    "Sensible defaults are applied without slowing development down.",
		domain.SecurityHigh:     "Dependencies are audited and secrets are managed outside the repository.",
		domain.SecurityParanoid: "Every input is treated as hostile and every dependency must be justified.",
	}

	securityRecommendations = map[string][]string{
		domain.SecurityBasic: {
			"Keep dependencies up to date.",
			"Serve the app over HTTPS only.",
			"Replace every placeholder secret before the first deploy.",
		},
		domain.SecurityHigh: {
			"Keep dependencies up to date and run a dependency audit in CI.",
			"Serve the app over HTTPS only and set HSTS.",
			"Store secrets in a managed secret store and rotate them quarterly.",
			"Rate-limit authentication and write endpoints.",
			"Send a Content-Security-Policy header.",
		},
		domain.SecurityParanoid: {
			"Pin every dependency by checksum and review each upgrade.",
			"Run static and dynamic analysis on every change.",
			"Write a threat model before adding a feature that handles user data.",
			"Store secrets in a managed secret store, rotate them monthly, and audit every read.",
			"Require mutual TLS between internal services.",
			"Log every privileged action to an append-only audit trail.",
			"Require two reviewers for changes to authentication or authorization code.",
		},
	}
)

type docData struct {
	Plan     *domain.Plan
	Style    *domain.Style
	Commands toolchain.Commands
}

func newDocData(plan *domain.Plan, s *domain.Style) docData {
	return docData{Plan: plan, Style: s, Commands: toolchain.Resolve(s.Toolchain.PackageManager)}
}

// WhyChoices renders the rationale document. Database and authentication
// sections appear only when the plan enables them.
func WhyChoices(plan *domain.Plan, s *domain.Style) (string, error) {
	data := struct {
		docData
		TempoNote    string
		StackNote    string
		DefaultStack string
		TestingNote  string
		DocsNote     string
		SecurityNote string
	}{
		docData:      newDocData(plan, s),
		TempoNote:    tempoNotes[s.Preferences.Tempo],
		StackNote:    stackRationale(plan),
		DefaultStack: defaultStack(s),
		TestingNote:  testingNotes[s.Preferences.Testing],
		DocsNote:     docsNotes[s.Preferences.Documentation],
		SecurityNote: securityNotes[s.Preferences.Security],
	}
	return render("why_choices.md.tmpl", data)
}

func stackRationale(plan *domain.Plan) string {
	if plan.IsFullStack() {
		return "It is a full-stack composition, so the scaffold separates the API from the client."
	}
	return "It is a single-tier project, so everything lives in one source tree."
}

func defaultStack(s *domain.Style) string {
	var parts []string
	for _, p := range []string{s.DefaultStack.Frontend, s.DefaultStack.Backend, s.DefaultStack.Database} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " + ")
}

type phaseRow struct {
	Name    string
	Outcome string
}

// BuildSummary renders the build summary from the plan, style, and log snapshot.
func BuildSummary(plan *domain.Plan, s *domain.Style, entries []domain.LogEntry) (string, error) {
	counts := map[string]int{
		constants.SeveritySuccess.String(): 0,
		constants.SeverityWarning.String(): 0,
		constants.SeverityError.String():   0,
	}
	worst := map[constants.Phase]constants.Severity{}
	var problems []domain.LogEntry
	for _, e := range entries {
		counts[e.Severity.String()]++
		if cur, ok := worst[e.Phase]; !ok || e.Severity.Rank() > cur.Rank() {
			worst[e.Phase] = e.Severity
		}
		if e.Severity != constants.SeveritySuccess {
			problems = append(problems, e)
		}
	}

	var phases []phaseRow
	for _, p := range constants.Phases() {
		if sev, ok := worst[p]; ok {
			phases = append(phases, phaseRow{Name: p.String(), Outcome: sev.String()})
		}
	}

	features := make([]string, len(plan.Features))
	for i, f := range plan.Features {
		features[i] = title(f)
	}

	started := ""
	if len(entries) > 0 {
		started = entries[0].Timestamp.UTC().Format(time.RFC3339)
	}

	data := struct {
		docData
		Features []string
		Phases   []phaseRow
		Counts   map[string]int
		Problems []domain.LogEntry
		Started  string
	}{
		docData:  newDocData(plan, s),
		Features: features,
		Phases:   phases,
		Counts:   counts,
		Problems: problems,
		Started:  started,
	}
	return render("build_summary.md.tmpl", data)
}

type deployTarget struct {
	Title string
	Steps []string
}

func targetPlaybook(target string, plan *domain.Plan, cmds toolchain.Commands) deployTarget {
	switch target {
	case "vercel":
		return deployTarget{Title: "Vercel", Steps: []string{
			"Install the CLI: `npm i -g vercel`.",
			"Link the project: `vercel link`.",
			"Add every key from `.env.example` with `vercel env add`.",
			"Deploy: `vercel --prod`.",
		}}
	case "docker":
		return deployTarget{Title: "Docker", Steps: []string{
			fmt.Sprintf("Build the image: `docker build -t %s .`.", plan.Project),
			fmt.Sprintf("Run it: `docker run --env-file .env -p 8080:8080 %s`.", plan.Project),
			"Push the image to your registry and deploy it to any container host.",
		}}
	case "render":
		return deployTarget{Title: "Render", Steps: []string{
			"Create a new Web Service from the repository.",
			fmt.Sprintf("Build command: `%s && %s`.", cmds.Install, cmds.Build),
			"Add every key from `.env.example` under Environment.",
			"Deploy and watch the service logs for the first boot.",
		}}
	default:
		return deployTarget{Title: title(target), Steps: []string{
			fmt.Sprintf("No playbook is bundled for %s; follow the provider's documentation.", target),
			fmt.Sprintf("Build with `%s` and supply the keys from `.env.example`.", cmds.Build),
		}}
	}
}

// DeployPlaybook renders per-target deployment steps and per-stack local setup.
func DeployPlaybook(plan *domain.Plan, s *domain.Style) (string, error) {
	base := newDocData(plan, s)
	targets := make([]deployTarget, 0, len(plan.Artifact.DeployTargets))
	for _, t := range plan.Artifact.DeployTargets {
		targets = append(targets, targetPlaybook(t, plan, base.Commands))
	}

	data := struct {
		docData
		Prerequisites []string
		DevServers    []string
		Targets       []deployTarget
	}{
		docData:       base,
		Prerequisites: prerequisites(plan, s, base.Commands),
		DevServers:    devServers(plan, base.Commands),
		Targets:       targets,
	}
	return render("deploy_playbook.md.tmpl", data)
}

// SecurityNotes renders the recommendation block for the style's security
// posture. Unknown postures are treated as basic.
func SecurityNotes(plan *domain.Plan, s *domain.Style) (string, error) {
	posture := s.Preferences.Security
	recs, ok := securityRecommendations[posture]
	if !ok {
		posture = domain.SecurityBasic
		recs = securityRecommendations[posture]
	}

	data := struct {
		docData
		Posture         string
		Recommendations []string
	}{
		docData:         newDocData(plan, s),
		Posture:         posture,
		Recommendations: recs,
	}
	return render("security_notes.md.tmpl", data)
}

// License renders the license body for an SPDX identifier. MIT is rendered in
// full. Any other identifier yields a notice pointing at the canonical text,
// and complete is false so the caller can flag the gap.
func License(id, holder string, year int) (body string, complete bool, err error) {
	data := struct {
		ID     string
		Holder string
		Year   int
		URL    string
	}{
		ID:     id,
		Holder: holder,
		Year:   year,
		URL:    fmt.Sprintf("https://spdx.org/licenses/%s.html", id),
	}

	if id == "MIT" {
		body, err = render("license_mit.tmpl", data)
		return body, err == nil, err
	}
	body, err = render("license_notice.tmpl", data)
	return body, false, err
}

// TestReportHTML renders the static test report from the test-phase log entries.
func TestReportHTML(plan *domain.Plan, s *domain.Style, entries []domain.LogEntry) (string, error) {
	var testEntries []domain.LogEntry
	for _, e := range entries {
		if e.Phase == constants.PhaseTest {
			testEntries = append(testEntries, e)
		}
	}

	data := struct {
		Project string
		Style   string
		Testing string
		Runner  string
		Skipped bool
		Entries []domain.LogEntry
	}{
		Project: plan.Project,
		Style:   s.Name,
		Testing: s.Preferences.Testing,
		Runner:  s.Toolchain.TestRunner,
		Skipped: !s.RunsTests(),
		Entries: testEntries,
	}
	return renderHTML("tests_report.html.tmpl", data)
}
