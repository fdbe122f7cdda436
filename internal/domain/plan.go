// Package domain provides shared domain types for kodarch.
package domain

import "slices"

// Plan is the structured interpretation of a natural-language prompt.
// It is produced once per build and not modified afterwards.
//
// Example JSON representation:
//
//	{
//	    "project": "chat",
//	    "description": "Build a chat app",
//	    "stack": "Next.js + Node",
//	    "style": "hyperforge",
//	    "features": ["realtime-messaging"],
//	    "database": {"enabled": false, "type": ""},
//	    "auth": {"enabled": false, "provider": "supabase"},
//	    "artifact": {"zip": true, "license": "MIT", "deploy_targets": ["vercel", "docker", "render"]}
//	}
type Plan struct {
	// Project is the kebab-case project identifier. Never empty.
	Project string `json:"project"`

	// Description is the first sentence of the prompt, at most 150 runes.
	Description string `json:"description"`

	// Stack is the " + " joined technology composition, e.g. "Next.js + Node + Postgres".
	Stack string `json:"stack"`

	// Style names the catalog entry that parameterizes the build.
	Style string `json:"style"`

	// Features holds feature labels from the fixed catalog. Never empty.
	Features []string `json:"features"`

	// Database describes whether persistence is needed and which engine.
	Database DatabaseSpec `json:"database"`

	// Auth describes whether authentication is needed.
	Auth AuthSpec `json:"auth"`

	// Artifact describes packaging and deployment.
	Artifact ArtifactSpec `json:"artifact"`
}

// DatabaseSpec describes the plan's persistence requirements.
type DatabaseSpec struct {
	Enabled bool   `json:"enabled"`
	Type    string `json:"type"`
}

// AuthSpec describes the plan's authentication requirements.
type AuthSpec struct {
	Enabled  bool   `json:"enabled"`
	Provider string `json:"provider"`
}

// ArtifactSpec describes how the project is packaged and where it deploys.
type ArtifactSpec struct {
	Zip           bool     `json:"zip"`
	License       string   `json:"license"`
	DeployTargets []string `json:"deploy_targets"`
}

// IsFullStack reports whether the stack composes more than one technology.
func (p *Plan) IsFullStack() bool {
	return containsPlus(p.Stack)
}

// HasDeployTarget reports whether target is one of the plan's deploy targets.
func (p *Plan) HasDeployTarget(target string) bool {
	return slices.Contains(p.Artifact.DeployTargets, target)
}

// StackParts splits the stack string on "+" and trims each part.
func (p *Plan) StackParts() []string {
	return splitStack(p.Stack)
}

// Clone returns a deep copy of the plan.
func (p *Plan) Clone() Plan {
	c := *p
	c.Features = slices.Clone(p.Features)
	c.Artifact.DeployTargets = slices.Clone(p.Artifact.DeployTargets)
	return c
}
