// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package images optimizes the site's images and derives WebP copies.
//
// Both stages are incremental: a source is processed only when its own output
// file is missing or older than the source.
package images

import (
	"context"
	"runtime"
	"sync"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/fsutil"
	"github.com/specialistvlad/assetgrid/internal/pipeline"
	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/internal/task"
	"golang.org/x/sync/errgroup"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// processFunc turns one source into its output. It is only called for
// sources that are out of date.
type processFunc func(src fsutil.Match, dst string) error

// run applies fn to every source whose output (named by dstFor) is stale,
// at most one goroutine per CPU. Sources for which dstFor returns "" are
// ignored.
func run(ctx context.Context, cfg *config.Model, dstFor func(fsutil.Match) string, fn processFunc) (*task.Result, error) {
	logger := ctxlog.FromContext(ctx)

	sources, err := fsutil.GlobRel(cfg.Source, cfg.Images.Sources...)
	if err != nil {
		return nil, err
	}

	var (
		mu  sync.Mutex
		res = &task.Result{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, src := range sources {
		dst := dstFor(src)
		if dst == "" {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			stale, err := fsutil.Newer(src.Path, dst)
			if err != nil {
				return err
			}
			if !stale {
				mu.Lock()
				res.Skipped = append(res.Skipped, src.Path)
				mu.Unlock()
				return nil
			}
			if err := fn(src, dst); err != nil {
				return err
			}
			mu.Lock()
			res.Outputs = append(res.Outputs, dst)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("Images processed.", "written", len(res.Outputs), "up_to_date", len(res.Skipped))
	return res, nil
}

// Register registers the transforms with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransform(pipeline.StageImages, &registry.RegisteredTransform{
		Description: "Optimize images, never growing a file.",
		New:         NewOptimize,
	})
	r.RegisterTransform(pipeline.StageWebP, &registry.RegisteredTransform{
		Description: "Derive WebP copies of raster images.",
		New:         NewWebP,
	})
}
