// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package styles compiles the site's stylesheets.
//
// Each entry stylesheet (a top-level file whose name does not start with an
// underscore) goes through:
//
//  1. the `sass` binary, for .scss and .sass entries, with an embedded
//     source map;
//  2. an esbuild bundle that inlines @import and adds vendor prefixes for
//     the configured engine targets, keeping an inline source map;
//  3. media-query extraction into `<name>-<label>.css` files;
//  4. an esbuild pass that emits `<name>.css` with an external source map
//     chained back to the authored sources.
package styles

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/fsutil"
	"github.com/specialistvlad/assetgrid/internal/pipeline"
	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// New returns the action that compiles every entry stylesheet.
func New(cfg *config.Model) task.Action {
	return func(ctx context.Context) (*task.Result, error) {
		logger := ctxlog.FromContext(ctx)

		sources, err := fsutil.Glob(cfg.Source, cfg.Styles.Sources...)
		if err != nil {
			return nil, err
		}

		engines, err := parseTargets(cfg.Styles.Targets)
		if err != nil {
			return nil, err
		}

		res := &task.Result{}
		for _, src := range sources {
			if strings.HasPrefix(filepath.Base(src), "_") {
				continue
			}
			outputs, err := compile(ctx, cfg, src, engines)
			if err != nil {
				return nil, err
			}
			res.Outputs = append(res.Outputs, outputs...)
		}

		logger.Debug("Stylesheets compiled.", "files", len(res.Outputs))
		return res, nil
	}
}

// compile runs one entry through the whole chain and returns the files it
// wrote.
func compile(ctx context.Context, cfg *config.Model, src string, engines []engine) ([]string, error) {
	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))

	css, err := preprocess(ctx, cfg, src)
	if err != nil {
		return nil, err
	}

	bundled, err := bundle(css, src, cssOutput(cfg, name), engines)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}

	return write(cfg, src, name, bundled)
}

// Register registers the transform with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransform(pipeline.StageStyles, &registry.RegisteredTransform{
		Description: "Compile, bundle and prefix stylesheets, split media queries.",
		New:         New,
	})
}
