// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package compress minifies built stylesheets and the script bundle in place.
package compress

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/fsutil"
	"github.com/specialistvlad/assetgrid/internal/pipeline"
	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/internal/task"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
)

const (
	mediaCSS = "text/css"
	mediaJS  = "application/javascript"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc(mediaCSS, css.Minify)
	m.AddFunc(mediaJS, js.Minify)
	return m
}

// NewCSS returns the action that minifies every stylesheet in the styles
// destination.
func NewCSS(cfg *config.Model) task.Action {
	m := newMinifier()
	return func(ctx context.Context) (*task.Result, error) {
		files, err := fsutil.Glob(cfg.Output, path.Join(cfg.Styles.Dest, "*.css"))
		if err != nil {
			return nil, err
		}
		return minifyFiles(ctx, m, mediaCSS, files)
	}
}

// NewJS returns the action that minifies the script bundle.
func NewJS(cfg *config.Model) task.Action {
	m := newMinifier()
	return func(ctx context.Context) (*task.Result, error) {
		bundle := cfg.OutputPath(cfg.Scripts.Dest)
		if !fsutil.Exists(bundle) {
			return nil, fmt.Errorf("bundle %s not found", bundle)
		}
		return minifyFiles(ctx, m, mediaJS, []string{bundle})
	}
}

func minifyFiles(ctx context.Context, m *minify.M, mediatype string, files []string) (*task.Result, error) {
	logger := ctxlog.FromContext(ctx)
	res := &task.Result{}
	saved := 0

	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		out, err := m.Bytes(mediatype, data)
		if err != nil {
			return nil, fmt.Errorf("failed to minify %s: %w", f, err)
		}
		if err := fsutil.WriteFile(f, out); err != nil {
			return nil, err
		}
		saved += len(data) - len(out)
		res.Outputs = append(res.Outputs, f)
	}

	logger.Debug("Files minified.", "type", mediatype, "files", len(files), "bytes_saved", saved)
	return res, nil
}

// Register registers the transforms with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransform(pipeline.StageCompressCSS, &registry.RegisteredTransform{
		Description: "Minify stylesheets.",
		New:         NewCSS,
	})
	r.RegisterTransform(pipeline.StageCompressJS, &registry.RegisteredTransform{
		Description: "Minify the script bundle.",
		New:         NewJS,
	})
}
