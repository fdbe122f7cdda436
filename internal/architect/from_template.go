package architect

import (
	"github.com/rs/zerolog"

	"github.com/mrz1836/kodarch/internal/constants"
	"github.com/mrz1836/kodarch/internal/domain"
	"github.com/mrz1836/kodarch/internal/fsutil"
	"github.com/mrz1836/kodarch/internal/template"
)

// fromTemplate copies the style's template files with placeholder
// substitution. A missing or invalid manifest scaffolds nothing.
func (a *Architect) fromTemplate(logger *zerolog.Logger, plan *domain.Plan, s *domain.Style, projectPath string) {
	manifest, err := a.source.Manifest(s.Name)
	if err != nil {
		logger.Error().Err(err).Msg("template manifest unavailable")
		a.log.Error(constants.PhaseArchitect, "template manifest unavailable", map[string]any{
			"style": s.Name,
			"error": err.Error(),
		})
		return
	}

	for _, dir := range manifest.Directories {
		path, err := fsutil.SafeJoin(projectPath, dir)
		if err == nil {
			err = fsutil.EnsureDir(path)
		}
		if err != nil {
			a.log.Warning(constants.PhaseArchitect, "directory not created", map[string]any{
				"path":  dir,
				"error": err.Error(),
			})
		}
	}

	values := template.Variables(plan)
	written := 0
	for _, target := range manifest.Targets() {
		source := manifest.Files[target]
		data, err := a.source.ReadSource(s.Name, source)
		if err != nil {
			logger.Warn().Err(err).Str("target", target).Msg("template source unavailable")
			a.log.Warning(constants.PhaseArchitect, "template file skipped", map[string]any{
				"target": target,
				"source": source,
				"error":  err.Error(),
			})
			continue
		}
		if _, err := fsutil.WriteFile(projectPath, target, []byte(template.Expand(string(data), values))); err != nil {
			a.log.Warning(constants.PhaseArchitect, "template file not written", map[string]any{
				"target": target,
				"error":  err.Error(),
			})
			continue
		}
		written++
	}

	a.log.Success(constants.PhaseArchitect, "scaffolded from template", map[string]any{
		"strategy":    string(StrategyTemplate),
		"files":       written,
		"directories": len(manifest.Directories),
	})
}
