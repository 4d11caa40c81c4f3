// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package fonts copies the font directory into the output tree unchanged.
package fonts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/otiai10/copy"
	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/fsutil"
	"github.com/specialistvlad/assetgrid/internal/pipeline"
	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// New returns the action that copies the fonts.
func New(cfg *config.Model) task.Action {
	return func(ctx context.Context) (*task.Result, error) {
		logger := ctxlog.FromContext(ctx)
		src := cfg.SourcePath(cfg.Fonts.Source)
		dst := cfg.OutputPath(cfg.Fonts.Dest)

		if !fsutil.Exists(src) {
			logger.Debug("No font directory, nothing to copy.", "path", src)
			return &task.Result{}, nil
		}

		opts := copy.Options{
			Skip: func(_ os.FileInfo, s, _ string) (bool, error) {
				return strings.HasPrefix(filepath.Base(s), "."), nil
			},
		}
		if err := copy.Copy(src, dst, opts); err != nil {
			return nil, fmt.Errorf("failed to copy fonts: %w", err)
		}

		files, err := fsutil.FindFilesByExtension(dst, "")
		if err != nil {
			return nil, err
		}
		logger.Debug("Fonts copied.", "files", len(files))
		return &task.Result{Outputs: files}, nil
	}
}

// Register registers the transform with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransform(pipeline.StageFonts, &registry.RegisteredTransform{
		Description: "Copy fonts.",
		New:         New,
	})
}
