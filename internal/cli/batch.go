package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/kodarch/internal/build"
	"github.com/mrz1836/kodarch/internal/config"
	"github.com/mrz1836/kodarch/internal/errors"
	"github.com/mrz1836/kodarch/internal/signal"
	"github.com/mrz1836/kodarch/internal/tui"
)

type batchOptions struct {
	style        string
	outputDir    string
	parallel     int
	keep         bool
	skipCommands bool
	timeout      time.Duration
}

// batchRow is the JSON shape of one batch outcome.
type batchRow struct {
	Prompt string        `json:"prompt"`
	Result *build.Result `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// AddBatchCommand adds the batch command to the root command.
func AddBatchCommand(root *cobra.Command, flags *GlobalFlags) {
	root.AddCommand(newBatchCmd(flags))
}

func newBatchCmd(flags *GlobalFlags) *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Build one archive per prompt in a file",
		Long: `Build one archive per prompt in a file, several at a time.

The file holds one prompt per line. Blank lines and lines starting with #
are skipped. Pass "-" to read prompts from stdin. Each build gets its own
session, so identical prompts never collide.

Exit codes:
  0: Every build produced an archive
  1: At least one build failed
  2: Invalid input`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(commandContext(cmd), cmd, flags, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.style, "style", "", "build style for every prompt")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "directory for the archives")
	cmd.Flags().IntVarP(&opts.parallel, "parallel", "p", 0, "builds to run at once")
	cmd.Flags().BoolVar(&opts.keep, "keep", false, "keep build session directories")
	cmd.Flags().BoolVar(&opts.skipCommands, "skip-commands", false, "record install, build, and test as skipped")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "timeout per pipeline phase")

	return cmd
}

func runBatch(ctx context.Context, cmd *cobra.Command, flags *GlobalFlags, opts *batchOptions, path string) error {
	out := output(cmd, flags)

	prompts, err := readPromptFile(cmd.InOrStdin(), path)
	if err != nil {
		return errors.NewExitCode2Error(err)
	}
	if len(prompts) == 0 {
		return errors.NewExitCode2Error(errors.Wrapf(errors.ErrEmptyPrompt, "no prompts in %s", path))
	}

	cfg, err := loadConfig(ctx, &config.Config{
		Workspace: config.WorkspaceConfig{Keep: opts.keep},
		Output:    config.OutputConfig{Dir: opts.outputDir},
		Pipeline:  config.PipelineConfig{Timeout: opts.timeout, SkipCommands: opts.skipCommands},
		Build:     config.BuildConfig{Parallelism: opts.parallel},
	})
	if err != nil {
		return err
	}

	svc, err := newService(cfg, nil)
	if err != nil {
		return err
	}

	reqs := make([]build.Request, 0, len(prompts))
	for _, p := range prompts {
		reqs = append(reqs, build.Request{Prompt: p, Style: opts.style})
	}

	h := signal.NewHandler(ctx)
	defer h.Stop()

	outcomes := svc.BuildMany(h.Context(), reqs)

	failed := 0
	rows := make([][]string, 0, len(outcomes))
	jsonRows := make([]batchRow, 0, len(outcomes))
	for i, o := range outcomes {
		row := batchRow{Prompt: o.Request.Prompt, Result: o.Result}
		project, styleName, status, detail := "-", "-", "failed", ""
		if o.Result != nil {
			project = o.Result.Plan.Project
			styleName = o.Result.Plan.Style
			status = o.Result.Status.String()
			detail = o.Result.ArchivePath
		}
		if !o.Succeeded() {
			failed++
			if o.Err != nil {
				row.Error = o.Err.Error()
				detail = errors.UserMessage(o.Err)
			}
		}
		jsonRows = append(jsonRows, row)
		rows = append(rows, []string{strconv.Itoa(i + 1), project, styleName, status, detail})
	}

	if flags.Output == OutputJSON {
		if err := out.JSON(jsonRows); err != nil {
			return err
		}
	} else {
		out.Table([]string{"#", "PROJECT", "STYLE", "STATUS", "ARCHIVE / ERROR"}, rows)
		summarizeBatch(out, len(outcomes), failed)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errors.ErrBatchFailed, failed, len(outcomes))
	}
	return nil
}

func summarizeBatch(out tui.Output, total, failed int) {
	if failed == 0 {
		out.Success(fmt.Sprintf("%d archives created", total))
		return
	}
	out.Warning(fmt.Sprintf("%d of %d builds failed", failed, total))
}

// readPromptFile returns the non-blank, non-comment lines of path, or of
// stdin when path is "-".
func readPromptFile(stdin io.Reader, path string) ([]string, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path) //#nosec G304 -- path is a user-supplied prompt file
		if err != nil {
			return nil, fmt.Errorf("failed to open prompt file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var prompts []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		prompts = append(prompts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read prompts: %w", err)
	}
	return prompts, nil
}
