package build

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Outcome pairs a request with its build result.
type Outcome struct {
	Request Request `json:"request"`
	Result  *Result `json:"result,omitempty"`
	Err     error   `json:"-"`
}

// Succeeded reports whether the build produced an archive.
func (o Outcome) Succeeded() bool {
	return o.Err == nil && o.Result != nil
}

// BuildMany runs every request with at most the configured parallelism.
// Builds are independent: a failure never cancels the others. Outcomes are
// returned in request order.
func (s *Service) BuildMany(ctx context.Context, reqs []Request) []Outcome {
	outcomes := make([]Outcome, len(reqs))

	limit := s.parallelism
	if limit < 1 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, req := range reqs {
		g.Go(func() error {
			res, err := s.Build(ctx, req)
			outcomes[i] = Outcome{Request: req, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range outcomes {
		if !o.Succeeded() {
			failed++
		}
	}
	zerolog.Ctx(ctx).Info().
		Str("component", "build").
		Int("builds", len(reqs)).
		Int("failed", failed).
		Int("parallelism", limit).
		Msg("batch finished")
	return outcomes
}
