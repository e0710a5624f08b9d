package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"marketmap/internal/config"
	"marketmap/internal/pipeline"
	"marketmap/internal/watch"
)

// watchAndRebuild re-renders req whenever its input or the config file
// changes, until ctx is cancelled.
func watchAndRebuild(ctx context.Context, cmd *cobra.Command, a *app, b *pipeline.Builder, req pipeline.Request, overrides func(*config.Config)) error {
	paths := []string{req.Input}
	if a.configPath != "" {
		paths = append(paths, a.configPath)
	}
	w, err := watch.New(paths, watch.DefaultQuiet, a.log)
	if err != nil {
		return err
	}
	a.log.Info("watching for changes", zap.Strings("paths", paths))

	return w.Run(ctx, rebuilder(ctx, cmd, a, b, req, overrides))
}

// rebuilder returns the function run after each burst of changes.
// Command-line overrides are re-applied to every reloaded config. A config
// that no longer loads keeps the last good one; a failed build is logged and
// waits for the next change. Successful rebuilds are reported like the first
// build.
func rebuilder(ctx context.Context, cmd *cobra.Command, a *app, b *pipeline.Builder, req pipeline.Request, overrides func(*config.Config)) func() {
	return func() {
		if a.configPath != "" {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				a.log.Warn("keeping previous configuration", zap.Error(err))
			} else {
				overrides(&cfg)
				req.Config = cfg
			}
		}
		// Build logs its own failures; the next change retries.
		out, err := b.Build(ctx, req)
		if err != nil {
			return
		}
		report(cmd, out)
	}
}
