package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mrz1836/kodarch/internal/config"
	"github.com/mrz1836/kodarch/internal/domain"
	"github.com/mrz1836/kodarch/internal/errors"
	"github.com/mrz1836/kodarch/internal/record"
	"github.com/mrz1836/kodarch/internal/tui"
)

// recordDetail is the JSON shape of "history show".
type recordDetail struct {
	Project  *domain.ProjectRecord  `json:"project"`
	Artifact *domain.ArtifactRecord `json:"artifact,omitempty"`
	Logs     []domain.LogRecord     `json:"logs"`
}

// AddHistoryCommand adds the history command and its show subcommand.
func AddHistoryCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List persisted build records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			store, err := recordStore(cmd)
			if err != nil {
				return err
			}
			list, err := store.ListProjects(ctx)
			if err != nil {
				return err
			}

			out := output(cmd, flags)
			if flags.Output == OutputJSON {
				return out.JSON(list)
			}
			if len(list) == 0 {
				out.Info("no build records yet")
				return nil
			}
			rows := make([][]string, 0, len(list))
			for _, r := range list {
				rows = append(rows, []string{r.ID, r.Plan.Project, r.Style, tui.FormatStatus(r.Status), humanize.Time(r.UpdatedAt)})
			}
			out.Table([]string{"ID", "PROJECT", "STYLE", "STATUS", "UPDATED"}, rows)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one build record with its log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			store, err := recordStore(cmd)
			if err != nil {
				return err
			}
			detail := recordDetail{}
			if detail.Project, err = store.GetProject(ctx, args[0]); err != nil {
				return err
			}
			if detail.Logs, err = store.Logs(ctx, args[0]); err != nil {
				return err
			}
			if art, err := store.GetArtifact(ctx, args[0]); err == nil {
				detail.Artifact = art
			}

			out := output(cmd, flags)
			if flags.Output == OutputJSON {
				return out.JSON(detail)
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s  %s  %s\n", detail.Project.Plan.Project, detail.Project.Style, tui.FormatStatus(detail.Project.Status))
			_, _ = fmt.Fprintf(w, "prompt: %s\n", detail.Project.Prompt)
			if detail.Project.Error != "" {
				_, _ = fmt.Fprintf(w, "error:  %s\n", detail.Project.Error)
			}
			if detail.Artifact != nil {
				_, _ = fmt.Fprintf(w, "archive: %s (%s, sha256 %s)\n",
					detail.Artifact.StoragePath, humanize.Bytes(uint64(max(detail.Artifact.Size, 0))), detail.Artifact.SHA256)
			}
			entries := make([]domain.LogEntry, 0, len(detail.Logs))
			for _, l := range detail.Logs {
				entries = append(entries, l.Entry)
			}
			writeLog(w, entries)
			return nil
		},
	})

	root.AddCommand(cmd)
}

func recordStore(cmd *cobra.Command) (*record.FileStore, error) {
	cfg, err := loadConfig(commandContext(cmd), &config.Config{})
	if err != nil {
		return nil, err
	}
	store, err := newRecords(cfg)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, tui.NewActionableError("build records are disabled",
			"Set 'records.enabled: true' in your kodarch config.").Wrap(errors.ErrRecordNotFound)
	}
	return store, nil
}
