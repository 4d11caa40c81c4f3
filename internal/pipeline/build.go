// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package pipeline

import (
	"context"
	"fmt"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/dag"
	"github.com/specialistvlad/assetgrid/internal/registry"
)

// Build declares the task graph for the given variant.
func Build(ctx context.Context, cfg *config.Model, reg *registry.Registry, v Variant) (*dag.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	stages := v.Stages()

	if err := reg.ValidateRegistry(ctx, stages); err != nil {
		return nil, err
	}

	g := dag.New()
	for _, name := range stages {
		t, err := reg.Task(name, cfg)
		if err != nil {
			return nil, err
		}
		if err := g.AddTask(t); err != nil {
			return nil, fmt.Errorf("error declaring stage '%s': %w", name, err)
		}
	}

	// clean → {templates, styles, images → webp, favicons, sprite, scripts}
	if err := g.After([]string{StageClean},
		StageTemplates, StageStyles, StageImages, StageFavicons, StageSprite, StageScripts,
	); err != nil {
		return nil, err
	}
	if err := g.Series(StageImages, StageWebP); err != nil {
		return nil, err
	}

	if v >= Min {
		if err := g.Series(StageStyles, StageCompressCSS); err != nil {
			return nil, err
		}
		if err := g.Series(StageScripts, StageCompressJS); err != nil {
			return nil, err
		}
		if err := g.Series(StageClean, StageFonts); err != nil {
			return nil, err
		}
	}
	if v >= Prod {
		if err := g.After([]string{StageTemplates, StageCompressCSS}, StageCritical); err != nil {
			return nil, err
		}
	}

	if err := g.DetectCycles(); err != nil {
		return nil, err
	}

	logger.Debug("Build graph declared.", "variant", v.String(), "tasks", g.Len())
	return g, nil
}
