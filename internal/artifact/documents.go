package artifact

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/kodarch/internal/constants"
	"github.com/mrz1836/kodarch/internal/docs"
	"github.com/mrz1836/kodarch/internal/domain"
	"github.com/mrz1836/kodarch/internal/fsutil"
)

// writeDocuments renders the four shipped documents. Each one is independent.
func (a *Artifactizer) writeDocuments(logger *zerolog.Logger, projectPath string, plan *domain.Plan, s *domain.Style, now time.Time) {
	generators := []struct {
		name   string
		render func() (string, error)
	}{
		{constants.BuildSummaryFileName, func() (string, error) { return docs.BuildSummary(plan, s, a.log.Entries()) }},
		{constants.DeployPlaybookFileName, func() (string, error) { return docs.DeployPlaybook(plan, s) }},
		{constants.SecurityNotesFileName, func() (string, error) { return docs.SecurityNotes(plan, s) }},
		{constants.LicenseFileName, func() (string, error) { return a.license(plan, now) }},
	}

	var written []string
	for _, g := range generators {
		body, err := g.render()
		if err == nil {
			_, err = fsutil.WriteFile(projectPath, g.name, []byte(body))
		}
		if err != nil {
			logger.Warn().Err(err).Str("document", g.name).Msg("failed to write document")
			a.log.Warning(constants.PhaseArtifactize, "document not written", map[string]any{
				"document": g.name,
				"error":    err.Error(),
			})
			continue
		}
		written = append(written, g.name)
	}
	a.log.Success(constants.PhaseArtifactize, "documents written", map[string]any{"documents": written})
}

// license renders the license body. Identifiers without a full template get a
// notice and a warning entry.
func (a *Artifactizer) license(plan *domain.Plan, now time.Time) (string, error) {
	holder := a.holder
	if holder == "" {
		holder = "The " + plan.Project + " authors"
	}
	id := plan.Artifact.License
	if id == "" {
		id = constants.DefaultLicense
	}

	body, complete, err := docs.License(id, holder, now.Year())
	if err != nil {
		return "", err
	}
	if !complete {
		a.log.Warning(constants.PhaseArtifactize, "license text not bundled; LICENSE contains a notice only", map[string]any{
			"license": id,
		})
	}
	return body, nil
}
