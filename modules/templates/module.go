// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package templates renders the HTML pages of the site from Go templates.
//
// Every file matching the page patterns becomes `<output>/<name>.html`.
// Partials are parsed into every page, so a page includes one with
// `{{ template "head.tmpl" . }}`. Pages execute with the sprig function set
// and a Page value carrying the configured data.
package templates

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/fsutil"
	"github.com/specialistvlad/assetgrid/internal/pipeline"
	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Page is the value a page template executes with.
type Page struct {
	// Name is the page's file name without extension, e.g. "index".
	Name string
	// Data is the `templates.data` map from the configuration.
	Data map[string]string
}

// New returns the action that renders every page.
func New(cfg *config.Model) task.Action {
	return func(ctx context.Context) (*task.Result, error) {
		logger := ctxlog.FromContext(ctx)

		partials, err := fsutil.Glob(cfg.Source, cfg.Templates.Partials...)
		if err != nil {
			return nil, err
		}
		pages, err := fsutil.Glob(cfg.Source, cfg.Templates.Sources...)
		if err != nil {
			return nil, err
		}

		isPartial := make(map[string]bool, len(partials))
		for _, p := range partials {
			isPartial[p] = true
		}

		base := template.New("").Option("missingkey=error").Funcs(sprig.FuncMap())
		if len(partials) > 0 {
			if base, err = base.ParseFiles(partials...); err != nil {
				return nil, fmt.Errorf("failed to parse partials: %w", err)
			}
		}

		res := &task.Result{}
		for _, page := range pages {
			if isPartial[page] {
				continue
			}
			out, err := render(base, page, cfg)
			if err != nil {
				return nil, err
			}
			res.Outputs = append(res.Outputs, out)
		}

		logger.Debug("Pages rendered.", "pages", len(res.Outputs), "partials", len(partials))
		return res, nil
	}
}

func render(base *template.Template, page string, cfg *config.Model) (string, error) {
	tmpl, err := base.Clone()
	if err != nil {
		return "", err
	}
	// Clone does not carry options over.
	tmpl = tmpl.Option("missingkey=error")
	name := filepath.Base(page)
	if tmpl, err = tmpl.ParseFiles(page); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", page, err)
	}

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, Page{Name: stem, Data: cfg.Templates.Data}); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", page, err)
	}

	out := cfg.OutputPath(stem + ".html")
	if err := fsutil.WriteFile(out, buf.Bytes()); err != nil {
		return "", err
	}
	return out, nil
}

// Register registers the transform with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransform(pipeline.StageTemplates, &registry.RegisteredTransform{
		Description: "Render HTML pages from templates.",
		New:         New,
	})
}
