// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package scripts bundles the site's JavaScript entry point and its imports
// into a single file transpiled for older browsers.
package scripts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/fsutil"
	"github.com/specialistvlad/assetgrid/internal/pipeline"
	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

var targets = map[string]api.Target{
	"es5":    api.ES5,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"esnext": api.ESNext,
}

// New returns the action that writes the bundle.
func New(cfg *config.Model) task.Action {
	return func(ctx context.Context) (*task.Result, error) {
		logger := ctxlog.FromContext(ctx)

		target, ok := targets[strings.ToLower(cfg.Scripts.Target)]
		if !ok {
			return nil, fmt.Errorf("unknown script target %q", cfg.Scripts.Target)
		}

		entry := cfg.SourcePath(cfg.Scripts.Entry)
		out := cfg.OutputPath(cfg.Scripts.Dest)

		result := api.Build(api.BuildOptions{
			EntryPoints: []string{entry},
			Bundle:      true,
			Write:       false,
			Outfile:     out,
			Format:      api.FormatIIFE,
			Target:      target,
			LogLevel:    api.LogLevelSilent,
		})
		if len(result.Errors) > 0 {
			formatted := api.FormatMessages(result.Errors, api.FormatMessagesOptions{Kind: api.ErrorMessage})
			return nil, errors.New(strings.TrimSpace(strings.Join(formatted, "\n")))
		}
		for _, w := range result.Warnings {
			logger.Warn("esbuild warning.", "text", w.Text)
		}
		if len(result.OutputFiles) != 1 {
			return nil, fmt.Errorf("esbuild produced %d files, expected one bundle", len(result.OutputFiles))
		}
		if err := fsutil.WriteFile(out, result.OutputFiles[0].Contents); err != nil {
			return nil, err
		}

		logger.Debug("Bundle written.", "entry", entry, "path", out)
		return &task.Result{Outputs: []string{out}}, nil
	}
}

// Register registers the transform with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransform(pipeline.StageScripts, &registry.RegisteredTransform{
		Description: "Bundle and transpile JavaScript.",
		New:         New,
	})
}
