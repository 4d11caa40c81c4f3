// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package clean removes the output directory before a build writes into it.
package clean

import (
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/pipeline"
	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// New returns the action that deletes cfg.Output.
func New(cfg *config.Model) task.Action {
	return func(ctx context.Context) (*task.Result, error) {
		logger := ctxlog.FromContext(ctx)
		if err := os.RemoveAll(cfg.Output); err != nil {
			return nil, fmt.Errorf("failed to remove %s: %w", cfg.Output, err)
		}
		logger.Debug("Output directory removed.", "path", cfg.Output)
		return &task.Result{}, nil
	}
}

// Register registers the transform with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransform(pipeline.StageClean, &registry.RegisteredTransform{
		Description: "Remove the output directory.",
		New:         New,
	})
}
