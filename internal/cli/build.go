package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mrz1836/kodarch/internal/build"
	"github.com/mrz1836/kodarch/internal/config"
	"github.com/mrz1836/kodarch/internal/docs"
	"github.com/mrz1836/kodarch/internal/domain"
	"github.com/mrz1836/kodarch/internal/errors"
	"github.com/mrz1836/kodarch/internal/signal"
	"github.com/mrz1836/kodarch/internal/style"
	"github.com/mrz1836/kodarch/internal/tui"
)

// buildOptions holds the build command's flags.
type buildOptions struct {
	style        string
	pick         bool
	summary      bool
	outputDir    string
	keep         bool
	skipCommands bool
	timeout      time.Duration
	templatesDir string
}

// AddBuildCommand adds the build command to the root command.
func AddBuildCommand(root *cobra.Command, flags *GlobalFlags) {
	root.AddCommand(newBuildCmd(flags))
}

func newBuildCmd(flags *GlobalFlags) *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build <prompt...>",
		Short: "Build a project archive from a prompt",
		Long: `Build a project archive from a natural-language prompt.

The prompt may carry inline directives: style:<name>, license:<id>,
db:<engine>, deploy:<t1,t2>, stack:<a + b>, and a bare "auth" line.
Pass "-" to read the prompt from stdin.

Examples:
  kodarch build "Build a chat app"
  kodarch build --style artisan "A recipe site named cookbook with login"
  echo "Build a blog deploy:netlify" | kodarch build -

Exit codes:
  0: Archive created
  1: Build failed
  2: Invalid input`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(commandContext(cmd), cmd, flags, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.style, "style", "", "build style (overrides any style: tag)")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose the style interactively")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "print the build summary when done")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "directory for the archive")
	cmd.Flags().BoolVar(&opts.keep, "keep", false, "keep the build session directory")
	cmd.Flags().BoolVar(&opts.skipCommands, "skip-commands", false, "record install, build, and test as skipped")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "timeout per pipeline phase")
	cmd.Flags().StringVar(&opts.templatesDir, "templates-dir", "", "directory of template overrides")
	cmd.MarkFlagsMutuallyExclusive("style", "pick")

	return cmd
}

func (o *buildOptions) overrides() *config.Config {
	return &config.Config{
		Workspace: config.WorkspaceConfig{Keep: o.keep},
		Output:    config.OutputConfig{Dir: o.outputDir},
		Templates: config.TemplatesConfig{Dir: o.templatesDir},
		Pipeline:  config.PipelineConfig{Timeout: o.timeout, SkipCommands: o.skipCommands},
	}
}

func runBuild(ctx context.Context, cmd *cobra.Command, flags *GlobalFlags, opts *buildOptions, args []string) error {
	out := output(cmd, flags)

	prompt, err := readPrompt(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx, opts.overrides())
	if err != nil {
		return err
	}

	styleName, err := resolveStyle(out, opts)
	if err != nil {
		return err
	}

	var live io.Writer
	if flags.Verbose && flags.Output == OutputText {
		live = cmd.ErrOrStderr()
	}
	svc, err := newService(cfg, live)
	if err != nil {
		return err
	}

	h := signal.NewHandler(ctx)
	defer h.Stop()

	res, buildErr := svc.Build(h.Context(), build.Request{Prompt: prompt, Style: styleName})
	if h.WasInterrupted() {
		buildErr = errors.Wrap(errors.ErrOperationCanceled, "build interrupted")
	}
	if buildErr != nil && res == nil {
		if stderrors.Is(buildErr, errors.ErrEmptyPrompt) {
			return errors.NewExitCode2Error(buildErr)
		}
		return buildErr
	}

	if flags.Output == OutputJSON {
		if err := out.JSON(res); err != nil {
			return err
		}
		return buildErr
	}

	w := cmd.OutOrStdout()
	writeLog(w, res.Logs)
	if buildErr != nil {
		return buildErr
	}

	out.Success(fmt.Sprintf("%s created (%s)", res.ArchivePath, humanize.Bytes(uint64(max(res.ArchiveSize, 0)))))
	out.Info("sha256 " + res.ArchiveSHA256)
	if cfg.Workspace.Keep {
		out.Info("project kept at " + res.ProjectPath)
	}

	if opts.summary {
		md, err := docs.BuildSummary(&res.Plan, res.Style, res.Logs)
		if err != nil {
			out.Warning("build summary unavailable: " + err.Error())
			return nil
		}
		_, _ = fmt.Fprint(w, tui.RenderMarkdown(md))
	}
	return nil
}

// readPrompt joins args, or reads stdin when the only argument is "-".
func readPrompt(in io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read prompt from stdin: %w", err)
		}
		return string(data), nil
	}
	return strings.Join(args, " "), nil
}

// resolveStyle returns the --style value, or the --pick selection.
// An unknown --style warns; the build falls back to the default style.
func resolveStyle(out tui.Output, opts *buildOptions) (string, error) {
	if opts.pick {
		choice, err := pickStyle()
		if err != nil {
			return "", errors.NewExitCode2Error(err)
		}
		return choice, nil
	}
	if opts.style != "" && !style.IsKnown(opts.style) {
		out.Warning(fmt.Sprintf("unknown style %q, using the prompt or default style", opts.style))
	}
	return opts.style, nil
}

func pickStyle() (string, error) {
	catalog := style.Builtin()
	styles := catalog.List()
	choices := make([]tui.Choice, 0, len(styles))
	for _, s := range styles {
		choices = append(choices, tui.Choice{Label: s.Name, Description: s.Tagline, Value: s.Name})
	}
	return tui.Select("Pick a build style", choices, catalog.DefaultName())
}

// writeLog prints one line per build log entry.
func writeLog(w io.Writer, entries []domain.LogEntry) {
	tui.CheckNoColor()
	dim := lipgloss.NewStyle().Foreground(tui.ColorMuted)
	for _, e := range entries {
		mark := lipgloss.NewStyle().Foreground(tui.SeverityColor(e.Severity)).Render(tui.SeverityIcon(e.Severity))
		_, _ = fmt.Fprintf(w, "%s %s %s\n", mark, dim.Render(fmt.Sprintf("%-11s", e.Phase)), e.Message)
	}
}
