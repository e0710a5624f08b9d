package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrOutputConflict indicates two requests of one batch that would write the
// same SVG file.
var ErrOutputConflict = errors.New("pipeline: output path used twice")

// BuildAll builds every request with at most limit builds in flight
// (limit <= 0 means unbounded). Outputs are returned in request order.
// The first failure cancels the builds that have not started yet and is
// returned; outputs of builds that did finish are still filled in.
// Requests that would write the same file are rejected before any build
// starts.
func (b *Builder) BuildAll(ctx context.Context, reqs []Request, limit int) ([]Output, error) {
	if err := checkOutputs(reqs); err != nil {
		return nil, err
	}
	outs := make([]Output, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := b.Build(gctx, req)
			if err != nil {
				return err
			}
			outs[i] = out
			return nil
		})
	}

	err := g.Wait()
	b.log.Debug("batch finished", zap.Int("requests", len(reqs)), zap.Bool("ok", err == nil))
	return outs, err
}

// checkOutputs rejects batches where two written outputs share a path.
func checkOutputs(reqs []Request) error {
	seen := make(map[string]string, len(reqs))
	for _, req := range reqs {
		if req.DryRun {
			continue
		}
		path := filepath.Clean(req.OutputPath())
		if prev, ok := seen[path]; ok {
			return fmt.Errorf("%w: %s from %s and %s", ErrOutputConflict, path, prev, req.Input)
		}
		seen[path] = req.Input
	}
	return nil
}
