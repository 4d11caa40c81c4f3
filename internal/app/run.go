// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/dag"
	"github.com/specialistvlad/assetgrid/internal/devserver"
	"github.com/specialistvlad/assetgrid/internal/pipeline"
	"github.com/specialistvlad/assetgrid/internal/reload"
	"github.com/specialistvlad/assetgrid/internal/watcher"
	"golang.org/x/sync/errgroup"
)

var failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)

// Build runs a one-shot build of the given variant. The report is returned
// even when tasks failed; the error then joins their root causes.
func (a *App) Build(ctx context.Context, v pipeline.Variant) (*dag.Report, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Build method started.", "variant", v.String())

	graph, err := pipeline.Build(ctx, a.config, a.registry, v)
	if err != nil {
		return nil, fmt.Errorf("failed to build task graph: %w", err)
	}

	a.logger.Info("🚀 Starting build...", "variant", v.String(), "tasks", graph.Len(), "workers", a.appConfig.WorkerCount)
	start := time.Now()
	report, err := dag.NewExecutor(graph, a.appConfig.WorkerCount).Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("execution failed: %w", err)
	}

	if err := report.Err(); err != nil {
		a.logger.Error("💥 Build failed.",
			"failed", report.WithStatus(dag.Failed),
			"skipped", report.WithStatus(dag.Skipped),
			"duration", time.Since(start).Round(time.Millisecond),
		)
		return report, err
	}

	a.logger.Info("🏁 Build finished.", "outputs", len(report.Outputs()), "duration", time.Since(start).Round(time.Millisecond))
	return report, nil
}

// Watch runs the default build, then serves the output and rebuilds on
// source changes until ctx is cancelled. A failing initial build is reported
// and watching starts anyway.
func (a *App) Watch(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	report, err := a.Build(ctx, pipeline.Default)
	if err != nil {
		if report == nil || ctx.Err() != nil {
			return err
		}
		a.reportFailure(ctx, "build", err)
	}

	channel := reload.NewChannel()
	defer channel.Close()

	rules, err := pipeline.WatchRules(a.config, a.registry)
	if err != nil {
		return err
	}
	w, err := watcher.New(a.config.Source, rules, channel,
		watcher.WithDebounce(a.config.Server.Debounce),
		watcher.WithFailureReporter(a.reportFailure),
	)
	if err != nil {
		return err
	}

	srv := devserver.New(devserver.Options{
		Root: a.config.Output,
		Host: a.config.Server.Host,
		Port: a.config.Server.Port,
	}, channel)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error { return w.Run(gctx) })
	return g.Wait()
}

// reportFailure rings the terminal bell and prints the failure in red.
func (a *App) reportFailure(ctx context.Context, rule string, err error) {
	ctxlog.FromContext(ctx).Error("Rebuild failed.", "rule", rule, "error", err)
	fmt.Fprintf(a.outW, "\a%s\n", failureStyle.Render(fmt.Sprintf("✖ %s: %v", rule, err)))
}
