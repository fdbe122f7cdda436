package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/kodarch/internal/domain"
	"github.com/mrz1836/kodarch/internal/errors"
	"github.com/mrz1836/kodarch/internal/prompt"
)

// AddParseCommand adds the parse command to the root command.
func AddParseCommand(root *cobra.Command, flags *GlobalFlags) {
	var styleName string

	cmd := &cobra.Command{
		Use:   "parse <prompt...>",
		Short: "Show the plan a prompt would build",
		Long: `Show the plan a prompt would build, without scaffolding anything.

Examples:
  kodarch parse "Build a chat app with login db:sqlite"
  kodarch parse -o json "A dashboard named ops-board deploy:fly"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readPrompt(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return errors.NewExitCode2Error(errors.ErrEmptyPrompt)
			}

			plan := prompt.ParseWithStyle(text, styleName)
			out := output(cmd, flags)
			if flags.Output == OutputJSON {
				return out.JSON(plan)
			}
			out.Table([]string{"FIELD", "VALUE"}, planRows(&plan))
			return nil
		},
	}
	cmd.Flags().StringVar(&styleName, "style", "", "style override")
	root.AddCommand(cmd)
}

func planRows(p *domain.Plan) [][]string {
	db := "none"
	if p.Database.Enabled {
		db = p.Database.Type
	}
	auth := "none"
	if p.Auth.Enabled {
		auth = p.Auth.Provider
	}
	return [][]string{
		{"project", p.Project},
		{"description", p.Description},
		{"stack", p.Stack},
		{"style", p.Style},
		{"features", strings.Join(p.Features, ", ")},
		{"database", db},
		{"auth", auth},
		{"license", p.Artifact.License},
		{"deploy", strings.Join(p.Artifact.DeployTargets, ", ")},
		{"zip", strconv.FormatBool(p.Artifact.Zip)},
	}
}
