package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/kodarch/internal/config"
)

// AddConfigCommand adds the config command and its subcommands.
func AddConfigCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect kodarch configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration after merging defaults,
~/.kodarch/config.yaml, ./.kodarch/config.yaml, and KODARCH_* variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(commandContext(cmd), &config.Config{})
			if err != nil {
				return err
			}
			if flags.Output == OutputJSON {
				return output(cmd, flags).JSON(cfg)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			global, err := config.GlobalConfigPath()
			if err != nil {
				return err
			}
			logPath, err := LogFilePath()
			if err != nil {
				return err
			}
			paths := map[string]string{
				"global":  global,
				"project": config.ProjectConfigPath(),
				"log":     logPath,
			}
			if flags.Output == OutputJSON {
				return output(cmd, flags).JSON(paths)
			}
			w := cmd.OutOrStdout()
			for _, k := range []string{"global", "project", "log"} {
				_, _ = fmt.Fprintf(w, "%-8s %s\n", k, paths[k])
			}
			return nil
		},
	})

	root.AddCommand(cmd)
}
