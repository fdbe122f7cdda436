package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/kodarch/internal/domain"
	"github.com/mrz1836/kodarch/internal/errors"
	"github.com/mrz1836/kodarch/internal/style"
)

// AddStylesCommand adds the styles command and its show subcommand.
func AddStylesCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "styles",
		Short: "List the build styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list := style.Builtin().List()
			out := output(cmd, flags)
			if flags.Output == OutputJSON {
				return out.JSON(list)
			}
			rows := make([][]string, 0, len(list))
			for i := range list {
				rows = append(rows, styleRow(&list[i]))
			}
			out.Table([]string{"NAME", "TAGLINE", "TESTING", "SECURITY", "DOCS", "TOOLCHAIN", "STACK"}, rows)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Show one style in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := style.Builtin().Lookup(args[0])
			if err != nil {
				return errors.NewExitCode2Error(err)
			}
			if flags.Output == OutputJSON {
				return output(cmd, flags).JSON(s)
			}
			data, err := yaml.Marshal(s)
			if err != nil {
				return fmt.Errorf("failed to encode style: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	root.AddCommand(cmd)
}

func styleRow(s *domain.Style) []string {
	stack := s.DefaultStack.Frontend
	if s.DefaultStack.Backend != "" {
		stack += " + " + s.DefaultStack.Backend
	}
	return []string{
		s.Name,
		s.Tagline,
		s.Preferences.Testing,
		s.Preferences.Security,
		s.Preferences.Documentation,
		s.Toolchain.PackageManager,
		stack,
	}
}
