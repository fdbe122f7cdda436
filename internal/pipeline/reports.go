package pipeline

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mrz1836/kodarch/internal/constants"
	"github.com/mrz1836/kodarch/internal/docs"
	"github.com/mrz1836/kodarch/internal/domain"
	"github.com/mrz1836/kodarch/internal/fsutil"
)

// reports writes the file tree, dependency census, and test report. Each
// report is independent; a failure becomes a warning entry.
func (r *Runner) reports(ctx context.Context, projectPath string, s *domain.Style) {
	logger := zerolog.Ctx(ctx)
	written := make([]string, 0, 3)

	write := func(name string, data []byte) {
		rel := filepath.Join(constants.BuildLogsDir, name)
		if _, err := fsutil.WriteFile(projectPath, rel, data); err != nil {
			logger.Warn().Err(err).Str("report", name).Msg("failed to write report")
			r.log.Warning(constants.PhaseReports, "report not written", map[string]any{
				"report": name,
				"error":  err.Error(),
			})
			return
		}
		written = append(written, name)
	}

	tree, err := fsutil.RenderTree(projectPath, r.excludes)
	if err != nil {
		r.log.Warning(constants.PhaseReports, "file tree not rendered", map[string]any{"error": err.Error()})
	} else {
		write(constants.FileTreeFileName, []byte(tree))
	}

	census := TakeCensus(projectPath)
	data, err := json.MarshalIndent(census, "", "  ")
	if err != nil {
		r.log.Warning(constants.PhaseReports, "dependency census not encoded", map[string]any{"error": err.Error()})
	} else {
		write(constants.DependencyReportFileName, append(data, '\n'))
	}

	plan := &domain.Plan{Project: filepath.Base(projectPath)}
	html, err := docs.TestReportHTML(plan, s, r.log.Entries())
	if err != nil {
		r.log.Warning(constants.PhaseReports, "test report not rendered", map[string]any{"error": err.Error()})
	} else {
		write(constants.TestReportFileName, []byte(html))
	}

	detail := map[string]any{
		"reports":      written,
		"dependencies": census.TotalDependencies,
	}
	if census.Note != "" {
		detail["note"] = census.Note
	}
	r.log.Success(constants.PhaseReports, "reports written", detail)
}
