package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mrz1836/kodarch/internal/config"
	"github.com/mrz1836/kodarch/internal/errors"
	"github.com/mrz1836/kodarch/internal/workspace"
)

// defaultPruneAge is how old a kept session must be before prune removes it.
const defaultPruneAge = 24 * time.Hour

// AddSessionsCommand adds the sessions command and its prune subcommand.
func AddSessionsCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List kept build sessions",
		Long: `List build session directories left in the workspace root.

Sessions are removed after each build unless workspace.keep (or --keep)
is set. Use "kodarch sessions prune" to clear old ones.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			mgr, err := sessionManager(cmd)
			if err != nil {
				return err
			}
			list, err := mgr.List(ctx)
			if err != nil {
				return err
			}

			out := output(cmd, flags)
			if flags.Output == OutputJSON {
				return out.JSON(list)
			}
			if len(list) == 0 {
				out.Info("no sessions in " + mgr.Root())
				return nil
			}
			rows := make([][]string, 0, len(list))
			for _, s := range list {
				rows = append(rows, []string{s.ID, s.Label, humanize.Time(s.CreatedAt), strconv.Itoa(s.PID)})
			}
			out.Table([]string{"ID", "PROJECT", "CREATED", "PID"}, rows)
			return nil
		},
	}

	var olderThan time.Duration
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Remove kept sessions older than a cutoff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if olderThan < 0 {
				return errors.NewExitCode2Error(fmt.Errorf("%w: --older-than must not be negative", errors.ErrConfigInvalidWorkspace))
			}
			ctx := commandContext(cmd)
			mgr, err := sessionManager(cmd)
			if err != nil {
				return err
			}
			removed, err := mgr.Prune(ctx, time.Now().Add(-olderThan))
			if err != nil {
				return err
			}

			out := output(cmd, flags)
			if flags.Output == OutputJSON {
				return out.JSON(map[string][]string{"removed": removed})
			}
			out.Success(fmt.Sprintf("removed %d session(s)", len(removed)))
			return nil
		},
	}
	prune.Flags().DurationVar(&olderThan, "older-than", defaultPruneAge, "minimum session age")
	cmd.AddCommand(prune)

	root.AddCommand(cmd)
}

func sessionManager(cmd *cobra.Command) (*workspace.Manager, error) {
	cfg, err := loadConfig(commandContext(cmd), &config.Config{})
	if err != nil {
		return nil, err
	}
	return newSessions(cfg)
}
