// Package prompt turns a free-text prompt into a domain.Plan.
//
// Parsing is a pure function of the input text and the rule tables in
// rules.go: no clock, no randomness, no environment. It never fails; every
// field falls back to a fixed default.
package prompt

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/mrz1836/kodarch/internal/constants"
	"github.com/mrz1836/kodarch/internal/domain"
	"github.com/mrz1836/kodarch/internal/style"
)

// tags holds the inline directives found in a prompt. Empty means absent.
type tags struct {
	style   string
	license string
	db      string
	deploy  []string
	stack   string
	auth    bool
}

// Parse interprets text as a development plan.
func Parse(text string) domain.Plan {
	t, stripped := extractTags(text)

	plan := domain.Plan{
		Project:     projectName(stripped),
		Description: description(stripped),
		Stack:       t.stack,
		Style:       constants.DefaultStyleName,
		Features:    features(stripped),
	}

	if plan.Stack == "" {
		plan.Stack = inferStack(stripped)
	}

	if t.style != "" && style.IsKnown(t.style) {
		plan.Style = t.style
	}

	plan.Database.Enabled = t.db != "" || needsDatabase.MatchString(stripped)
	if plan.Database.Enabled {
		plan.Database.Type = databaseType(t.db, plan.Stack)
	}

	plan.Auth = domain.AuthSpec{
		Enabled:  t.auth || needsAuth.MatchString(stripped),
		Provider: constants.AuthProvider,
	}

	plan.Artifact = domain.ArtifactSpec{
		Zip:           true,
		License:       normalizeLicense(t.license),
		DeployTargets: t.deploy,
	}
	if len(plan.Artifact.DeployTargets) == 0 {
		plan.Artifact.DeployTargets = inferDeployTargets(plan.Stack)
	}

	return plan
}

// ParseWithStyle parses text and then applies override when it names a catalog style.
// An empty or unknown override leaves the parsed style in place.
func ParseWithStyle(text, override string) domain.Plan {
	plan := Parse(text)
	if name := strings.ToLower(strings.TrimSpace(override)); name != "" && style.IsKnown(name) {
		plan.Style = name
	}
	return plan
}

// StyleTag returns the lowercased value of the prompt's style: directive, or
// "" when there is none. The name is returned whether or not the catalog
// knows it.
func StyleTag(text string) string {
	if m := styleTag.FindStringSubmatch(text); m != nil {
		return strings.ToLower(m[1])
	}
	return ""
}

// extractTags reads every directive and returns the prompt with the tag
// spans removed and whitespace collapsed.
func extractTags(text string) (tags, string) {
	var t tags
	rest := text

	if m := styleTag.FindStringSubmatch(rest); m != nil {
		t.style = strings.ToLower(m[1])
	}
	if m := licenseTag.FindStringSubmatch(rest); m != nil {
		t.license = m[1]
	}
	if m := dbTag.FindStringSubmatch(rest); m != nil {
		t.db = strings.ToLower(m[1])
	}
	if m := deployTag.FindStringSubmatch(rest); m != nil {
		t.deploy = splitTargets(m[1])
	}
	if m := stackTag.FindStringSubmatch(rest); m != nil {
		t.stack = strings.TrimSpace(whitespace.ReplaceAllString(m[1], " "))
	}
	t.auth = authTag.MatchString(rest)

	for _, re := range []*regexp.Regexp{styleTag, licenseTag, dbTag, deployTag, stackTag, authTag} {
		rest = re.ReplaceAllString(rest, " ")
	}
	rest = whitespace.ReplaceAllString(rest, " ")
	rest = danglingPunct.ReplaceAllString(rest, "$1")

	return t, strings.TrimSpace(rest)
}

func splitTargets(raw string) []string {
	var out []string
	for _, part := range listSeparator.Split(strings.TrimSpace(raw), -1) {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" && !slices.Contains(out, part) {
			out = append(out, part)
		}
	}
	return out
}

func projectName(text string) string {
	for _, re := range namePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		for _, group := range m[1:] {
			if name := kebab(group); name != "" {
				return name
			}
		}
	}

	cleaned := nonWordChars.ReplaceAllString(strings.ToLower(text), " ")
	var words []string
	for _, w := range strings.Fields(cleaned) {
		w = strings.Trim(w, "-")
		if utf8.RuneCountInString(w) <= 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		words = append(words, w)
		if len(words) == 2 {
			break
		}
	}
	if name := kebab(strings.Join(words, " ")); name != "" {
		return name
	}
	return constants.DefaultProjectName
}

// kebab lowercases s and joins its alphanumeric runs with single hyphens.
func kebab(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func description(text string) string {
	var first string
	for _, sentence := range sentenceEnd.Split(text, -1) {
		sentence = strings.Trim(sentence, " ,;:")
		if sentence != "" {
			first = sentence
			break
		}
	}
	if first == "" {
		return constants.DefaultDescription
	}
	if utf8.RuneCountInString(first) > constants.MaxDescriptionLength {
		keep := constants.MaxDescriptionLength - utf8.RuneCountInString(constants.TruncationSuffix)
		runes := []rune(first)
		return strings.TrimSpace(string(runes[:keep])) + constants.TruncationSuffix
	}
	return first
}

func inferStack(text string) string {
	var parts []string
	for _, group := range [][]techRule{frontendRules, backendRules, databaseRules} {
		for _, rule := range group {
			if rule.pattern.MatchString(text) {
				parts = append(parts, rule.label)
				break
			}
		}
	}
	if len(parts) == 0 {
		return constants.DefaultStack
	}
	return strings.Join(parts, " + ")
}

func inferDeployTargets(stack string) []string {
	var targets []string
	if domain.StackMentions(stack, edgeFrontends...) {
		targets = append(targets, TargetVercel)
	}
	targets = append(targets, TargetDocker)
	if !domain.StackMentions(stack, "Rust") {
		targets = append(targets, TargetRender)
	}
	return targets
}

func features(text string) []string {
	var out []string
	for _, rule := range featureRules {
		if rule.pattern.MatchString(text) {
			out = append(out, rule.label)
		}
	}
	if len(out) == 0 {
		return []string{constants.PlaceholderFeature}
	}
	return out
}

func databaseType(tag, stack string) string {
	if tag != "" {
		return tag
	}
	for _, d := range databaseTypes {
		if domain.StackMentions(stack, d.label) {
			return d.kind
		}
	}
	return constants.DefaultDatabaseType
}

func normalizeLicense(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return constants.DefaultLicense
	}
	if id, ok := spdxLicenses[strings.ToLower(raw)]; ok {
		return id
	}
	return raw
}
