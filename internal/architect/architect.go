// Package architect creates the on-disk skeleton of a generated project.
//
// A style with a template directory is scaffolded from its manifest; every
// other style is scaffolded procedurally from the plan. Both strategies end by
// writing why-choices.md. Scaffolding problems are recorded in the build log
// and never stop the build.
package architect

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mrz1836/kodarch/internal/buildlog"
	"github.com/mrz1836/kodarch/internal/constants"
	"github.com/mrz1836/kodarch/internal/docs"
	"github.com/mrz1836/kodarch/internal/domain"
	"github.com/mrz1836/kodarch/internal/errors"
	"github.com/mrz1836/kodarch/internal/fsutil"
	"github.com/mrz1836/kodarch/internal/template"
)

// Strategy names how a project was scaffolded.
type Strategy string

// Scaffolding strategies.
const (
	StrategyTemplate   Strategy = "template"
	StrategyProcedural Strategy = "procedural"
)

// Architect scaffolds projects into a workspace root.
type Architect struct {
	source template.Source
	log    *buildlog.Log
}

// Option configures an Architect.
type Option func(*Architect)

// WithSource sets where style templates are read from. The default is the
// built-in template set.
func WithSource(src template.Source) Option {
	return func(a *Architect) {
		a.source = src
	}
}

// New creates an Architect that records its progress in log.
func New(log *buildlog.Log, opts ...Option) *Architect {
	a := &Architect{
		source: template.Builtin(),
		log:    log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// StrategyFor reports which strategy Generate uses for styleName.
func (a *Architect) StrategyFor(styleName string) Strategy {
	if a.source != nil && a.source.Has(styleName) {
		return StrategyTemplate
	}
	return StrategyProcedural
}

// Generate creates root/<plan.Project> and returns its path. The only error
// is a project directory that cannot be created.
func (a *Architect) Generate(ctx context.Context, plan *domain.Plan, s *domain.Style, root string) (string, error) {
	projectPath, err := fsutil.SafeJoin(root, plan.Project)
	if err != nil {
		return "", errors.Wrapf(err, "invalid project name %q", plan.Project)
	}
	if err := fsutil.EnsureDir(projectPath); err != nil {
		return "", errors.Wrapf(err, "failed to create project directory %s", projectPath)
	}

	logger := zerolog.Ctx(ctx).With().
		Str("component", "architect").
		Str("project", plan.Project).
		Str("style", s.Name).
		Logger()

	strategy := a.StrategyFor(s.Name)
	logger.Info().Str("strategy", string(strategy)).Msg("scaffolding project")

	switch strategy {
	case StrategyTemplate:
		a.fromTemplate(&logger, plan, s, projectPath)
	case StrategyProcedural:
		a.procedural(&logger, plan, s, projectPath)
	}

	a.writeWhyChoices(&logger, plan, s, projectPath)
	return projectPath, nil
}

func (a *Architect) writeWhyChoices(logger *zerolog.Logger, plan *domain.Plan, s *domain.Style, projectPath string) {
	body, err := docs.WhyChoices(plan, s)
	if err == nil {
		_, err = fsutil.WriteFile(projectPath, constants.WhyChoicesFileName, []byte(body))
	}
	if err != nil {
		logger.Warn().Err(err).Msg("failed to write rationale document")
		a.log.Warning(constants.PhaseArchitect, "rationale document not written", map[string]any{"error": err.Error()})
		return
	}
	a.log.Success(constants.PhaseArchitect, fmt.Sprintf("wrote %s", constants.WhyChoicesFileName), nil)
}

func relPath(projectPath, path string) string {
	rel, err := filepath.Rel(projectPath, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
