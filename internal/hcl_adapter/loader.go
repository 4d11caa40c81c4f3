// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package hcl_adapter

import (
	"context"
	"errors"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Load parses the file at path, overlays it on the defaults and validates
// the result.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	model := config.Default()

	if path == "" {
		logger.Debug("No configuration file given, using defaults.")
		return model, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("Configuration file not found, using defaults.", "path", path)
			return model, nil
		}
		return nil, &config.Error{File: path, Err: err}
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, &config.Error{File: path, Err: diags}
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, newEvalContext(), &root); diags.HasErrors() {
		return nil, &config.Error{File: path, Err: diags}
	}

	if err := translate(&root, model); err != nil {
		return nil, &config.Error{File: path, Err: err}
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("Configuration loaded.", "path", path, "source", model.Source, "output", model.Output)
	return model, nil
}
