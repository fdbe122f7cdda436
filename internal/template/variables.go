package template

import (
	"regexp"
	"strings"

	"github.com/mrz1836/kodarch/internal/domain"
)

// varPattern matches {{VARIABLE}} placeholders.
//
//nolint:gochecknoglobals // compiled once
var varPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Placeholder names substituted into template files.
const (
	VarProjectName = "PROJECT_NAME"
	VarDescription = "DESCRIPTION"
	VarStack       = "STACK"
	VarLicense     = "LICENSE"
)

// Variables returns the placeholder values derived from a plan.
func Variables(plan *domain.Plan) map[string]string {
	return map[string]string{
		VarProjectName: plan.Project,
		VarDescription: plan.Description,
		VarStack:       plan.Stack,
		VarLicense:     plan.Artifact.License,
	}
}

// Expand replaces {{NAME}} placeholders with values.
// Unknown placeholders are left as-is.
func Expand(s string, values map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.Trim(match, "{}")
		if val, ok := values[name]; ok {
			return val
		}
		return match
	})
}

// Placeholders returns the distinct placeholder names in s, in order of first use.
func Placeholders(s string) []string {
	var names []string
	seen := map[string]bool{}
	for _, m := range varPattern.FindAllStringSubmatch(s, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
