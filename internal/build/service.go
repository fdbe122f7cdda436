// Package build orchestrates one prompt-to-archive build: session, parse,
// style, scaffold, pipeline, artifact, and the persisted lifecycle record.
package build

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/kodarch/internal/architect"
	"github.com/mrz1836/kodarch/internal/artifact"
	"github.com/mrz1836/kodarch/internal/buildlog"
	"github.com/mrz1836/kodarch/internal/clock"
	"github.com/mrz1836/kodarch/internal/constants"
	"github.com/mrz1836/kodarch/internal/domain"
	kerrors "github.com/mrz1836/kodarch/internal/errors"
	"github.com/mrz1836/kodarch/internal/pipeline"
	"github.com/mrz1836/kodarch/internal/process"
	"github.com/mrz1836/kodarch/internal/prompt"
	"github.com/mrz1836/kodarch/internal/record"
	"github.com/mrz1836/kodarch/internal/style"
	"github.com/mrz1836/kodarch/internal/template"
	"github.com/mrz1836/kodarch/internal/workspace"
)

// DefaultOwnerID is recorded when a request names no owner.
const DefaultOwnerID = "local"

// Request is one build request.
type Request struct {
	Prompt  string `json:"prompt"`
	Style   string `json:"style,omitempty"`
	OwnerID string `json:"owner_id,omitempty"`
}

// Result is the outcome of one build.
type Result struct {
	SessionID     string                `json:"session_id"`
	ProjectID     string                `json:"project_id"`
	ArchivePath   string                `json:"archive_path,omitempty"`
	ArchiveSize   int64                 `json:"archive_size,omitempty"`
	ArchiveSHA256 string                `json:"archive_sha256,omitempty"`
	Plan          domain.Plan           `json:"plan"`
	Style         *domain.Style         `json:"style,omitempty"`
	Status        constants.BuildStatus `json:"status"`
	Logs          []domain.LogEntry     `json:"logs"`
	Manifest      *domain.Manifest      `json:"-"`
	ProjectPath   string                `json:"project_path,omitempty"`
}

// Service runs builds. It is safe for concurrent use; each build owns its
// session, log, and project directory.
type Service struct {
	sessions     *workspace.Manager
	catalog      *style.Catalog
	records      record.Store
	templates    template.Source
	runner       process.CommandRunner
	clock        clock.Clock
	newID        func() string
	outputDir    string
	defaultStyle string
	timeout      time.Duration
	skipCommands bool
	version      string
	excludes     []string
	parallelism  int
	liveOutput   io.Writer
}

// Option configures a Service.
type Option func(*Service)

// WithCatalog replaces the built-in style catalog.
func WithCatalog(c *style.Catalog) Option {
	return func(s *Service) { s.catalog = c }
}

// WithRecords persists lifecycle records to store. Without it builds are not recorded.
func WithRecords(store record.Store) Option {
	return func(s *Service) { s.records = store }
}

// WithTemplates sets the template source used by the architect.
func WithTemplates(src template.Source) Option {
	return func(s *Service) { s.templates = src }
}

// WithRunner sets the command runner used by the pipeline.
func WithRunner(r process.CommandRunner) Option {
	return func(s *Service) { s.runner = r }
}

// WithClock sets the clock for log timestamps and manifests.
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithIDGenerator replaces the project ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// WithOutputDir sets where archives are written.
func WithOutputDir(dir string) Option {
	return func(s *Service) { s.outputDir = dir }
}

// WithDefaultStyle sets the style used when neither the request nor the
// prompt names one.
func WithDefaultStyle(name string) Option {
	return func(s *Service) { s.defaultStyle = name }
}

// WithPhaseTimeout bounds each install, build, and test command.
func WithPhaseTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithSkipCommands disables pipeline subprocesses.
func WithSkipCommands(skip bool) Option {
	return func(s *Service) { s.skipCommands = skip }
}

// WithArtifactVersion sets the archive version.
func WithArtifactVersion(v string) Option {
	return func(s *Service) { s.version = v }
}

// WithExcludes sets the manifest and archive exclusion globs.
func WithExcludes(patterns []string) Option {
	return func(s *Service) { s.excludes = patterns }
}

// WithParallelism bounds how many builds BuildMany runs at once.
func WithParallelism(n int) Option {
	return func(s *Service) { s.parallelism = n }
}

// WithLiveOutput streams pipeline command output to w.
func WithLiveOutput(w io.Writer) Option {
	return func(s *Service) { s.liveOutput = w }
}

// NewService creates a Service that places builds in sessions from sessions.
func NewService(sessions *workspace.Manager, opts ...Option) *Service {
	s := &Service{
		sessions:    sessions,
		catalog:     style.Builtin(),
		templates:   template.Builtin(),
		runner:      &process.ShellRunner{},
		clock:       clock.RealClock{},
		newID:       uuid.NewString,
		outputDir:   constants.DistDir,
		timeout:     constants.DefaultPhaseTimeout,
		version:     constants.DefaultArtifactVersion,
		excludes:    constants.DefaultExcludes,
		parallelism: constants.DefaultParallelism,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build runs one request to completion. The returned Result is non-nil
// whenever work started, including failed builds. Errors:
//   - ErrEmptyPrompt before any work for a blank prompt
//   - ErrPackagingFailed when the archive could not be written
//   - the context's error when the build was canceled
func (s *Service) Build(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, kerrors.ErrEmptyPrompt
	}
	if req.OwnerID == "" {
		req.OwnerID = DefaultOwnerID
	}

	styleName, unknownStyle := s.resolveStyle(req)
	plan := prompt.ParseWithStyle(req.Prompt, styleName)
	projectID := s.newID()

	logger := zerolog.Ctx(ctx).With().
		Str("component", "build").
		Str("project_id", projectID).
		Str("project", plan.Project).
		Logger()
	ctx = logger.WithContext(ctx)

	session, err := s.sessions.Create(ctx, plan.Project)
	if err != nil {
		return nil, kerrors.Wrap(err, "failed to create build session")
	}
	defer func() {
		if relErr := s.sessions.Release(ctx, session); relErr != nil {
			logger.Warn().Err(relErr).Str("session_id", session.ID).Msg("failed to release session")
		}
	}()

	res := &Result{
		SessionID: session.ID,
		ProjectID: projectID,
		Plan:      plan,
		Status:    constants.BuildStatusPending,
	}

	log := buildlog.New(
		buildlog.WithClock(s.clock),
		buildlog.WithLogger(logger),
		buildlog.WithSink(s.recordSink(ctx, projectID)),
	)
	defer func() { res.Logs = log.Entries() }()

	s.createRecord(ctx, projectID, req, &plan)
	log.Success(constants.PhaseInit, "build session created", map[string]any{
		"session_id": session.ID,
		"project_id": projectID,
	})
	log.Success(constants.PhaseParse, "prompt parsed", map[string]any{
		"project":  plan.Project,
		"stack":    plan.Stack,
		"style":    plan.Style,
		"features": plan.Features,
	})

	if unknownStyle != "" {
		log.Warning(constants.PhaseParse, "unknown style, using default", map[string]any{
			"requested": unknownStyle,
			"fallback":  plan.Style,
		})
	}

	s.transition(ctx, projectID, constants.BuildStatusBuilding, nil)
	res.Status = constants.BuildStatusBuilding

	st := s.catalog.Load(ctx, plan.Style)
	res.Style = st

	projectPath, err := architect.New(log, architect.WithSource(s.templates)).Generate(ctx, &plan, st, session.Dir())
	if err != nil {
		log.Error(constants.PhaseArchitect, "project directory not created", map[string]any{"error": err.Error()})
		return res, s.fail(ctx, res, log, kerrors.Wrap(kerrors.ErrPackagingFailed, err.Error()))
	}
	res.ProjectPath = projectPath

	exec := process.NewExecutor(s.timeout,
		process.WithRunner(s.runner),
		process.WithClock(s.clock),
		process.WithLiveOutput(s.liveOutput))
	runner := pipeline.New(exec, log,
		pipeline.WithExcludes(s.excludes),
		pipeline.WithSkipCommands(s.skipCommands))
	if err := runner.RunAll(ctx, projectPath, st); err != nil {
		return res, s.fail(ctx, res, log, err)
	}

	out, err := artifact.New(log,
		artifact.WithClock(s.clock),
		artifact.WithVersion(s.version),
		artifact.WithExcludes(s.excludes),
	).Create(ctx, projectPath, &plan, st, s.outputDir)
	if err != nil {
		return res, s.fail(ctx, res, log, err)
	}

	res.ArchivePath = out.ArchivePath
	res.ArchiveSize = out.Size
	res.ArchiveSHA256 = out.SHA256
	res.Manifest = out.Manifest

	log.Success(constants.PhaseComplete, "build completed", map[string]any{"archive": out.ArchivePath})
	s.saveArtifact(ctx, projectID, out)
	s.transition(ctx, projectID, constants.BuildStatusCompleted, func(r *domain.ProjectRecord) {
		r.ArchivePath = out.ArchivePath
	})
	res.Status = constants.BuildStatusCompleted

	logger.Info().
		Str("archive", out.ArchivePath).
		Int64("size", out.Size).
		Msg("build completed")
	return res, nil
}

// fail records the terminal failure and returns err.
func (s *Service) fail(ctx context.Context, res *Result, log *buildlog.Log, err error) error {
	log.Error(constants.PhaseComplete, "build failed", map[string]any{"error": err.Error()})
	s.transition(ctx, res.ProjectID, constants.BuildStatusFailed, func(r *domain.ProjectRecord) {
		r.Error = err.Error()
	})
	res.Status = constants.BuildStatusFailed
	zerolog.Ctx(ctx).Error().Err(err).Msg("build failed")
	return err
}

func (s *Service) createRecord(ctx context.Context, projectID string, req Request, plan *domain.Plan) {
	if s.records == nil {
		return
	}
	now := s.clock.Now()
	rec := &domain.ProjectRecord{
		ID:        projectID,
		OwnerID:   req.OwnerID,
		Prompt:    req.Prompt,
		Plan:      plan.Clone(),
		Style:     plan.Style,
		Status:    constants.BuildStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.records.CreateProject(ctx, rec); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to create project record")
	}
}

// transition moves the persisted record. The in-memory result is the source
// of truth; a record failure only logs.
func (s *Service) transition(ctx context.Context, projectID string, next constants.BuildStatus, mutate func(*domain.ProjectRecord)) {
	if s.records == nil {
		return
	}
	// The record update must land even when the build context was canceled.
	rctx := context.WithoutCancel(ctx)
	if _, err := s.records.Transition(rctx, projectID, next, mutate); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("status", next.String()).Msg("failed to update project record")
	}
}

func (s *Service) saveArtifact(ctx context.Context, projectID string, out *artifact.Result) {
	if s.records == nil {
		return
	}
	rec := &domain.ArtifactRecord{
		ID:          s.newID(),
		ProjectID:   projectID,
		Version:     s.version,
		StoragePath: out.ArchivePath,
		Size:        out.Size,
		SHA256:      out.SHA256,
		Manifest:    out.Manifest,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.records.SaveArtifact(ctx, rec); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to save artifact record")
	}
}

// recordSink mirrors each build log entry into the record store, in order.
func (s *Service) recordSink(ctx context.Context, projectID string) buildlog.Sink {
	if s.records == nil {
		return func(int, domain.LogEntry) {}
	}
	rctx := context.WithoutCancel(ctx)
	return func(seq int, entry domain.LogEntry) {
		err := s.records.AppendLog(rctx, domain.LogRecord{ProjectID: projectID, Seq: seq, Entry: entry})
		if err != nil && !errors.Is(err, context.Canceled) {
			zerolog.Ctx(ctx).Warn().Err(err).Int("seq", seq).Msg("failed to persist log record")
		}
	}
}

// resolveStyle picks the style override for req. Request.Style beats a
// style: tag, which beats the configured default. A name the catalog does
// not know is skipped and returned as unknown so the build log can say so.
func (s *Service) resolveStyle(req Request) (name, unknown string) {
	tag := prompt.StyleTag(req.Prompt)
	for _, requested := range []string{strings.TrimSpace(req.Style), tag} {
		if requested == "" {
			continue
		}
		if s.catalog.Has(requested) {
			return requested, unknown
		}
		if unknown == "" {
			unknown = requested
		}
	}
	return s.defaultStyle, unknown
}
