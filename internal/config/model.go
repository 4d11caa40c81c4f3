// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/specialistvlad/assetgrid/internal/fsutil"
)

// Model is the unified representation of the build configuration.
type Model struct {
	// Source is the root every source pattern is relative to.
	Source string
	// Output is the directory the build writes into and the dev server serves.
	Output string

	Templates Templates
	Styles    Styles
	Images    Images
	Favicons  Favicons
	Sprite    Sprite
	Scripts   Scripts
	Fonts     Fonts
	Server    Server
}

// Templates configures HTML page rendering.
type Templates struct {
	Sources  []string
	Partials []string
	// Data is exposed to every page as `.`.
	Data map[string]string
}

// Styles configures stylesheet compilation.
type Styles struct {
	Sources    []string
	Dest       string
	SassBinary string
	LoadPaths  []string
	// Targets are esbuild engine targets used for vendor prefixing.
	Targets []string
	// MediaQueries maps a media query to the label of the file its rules are
	// extracted into.
	MediaQueries map[string]string
}

// MediaQuery is one entry of Styles.MediaQueries.
type MediaQuery struct {
	Query string
	Label string
}

// SortedMediaQueries returns the media query table in a stable order.
func (s Styles) SortedMediaQueries() []MediaQuery {
	out := make([]MediaQuery, 0, len(s.MediaQueries))
	for q, l := range s.MediaQueries {
		out = append(out, MediaQuery{Query: q, Label: l})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Images configures raster/vector optimization and WebP derivation.
type Images struct {
	Sources     []string
	Dest        string
	JPEGQuality int
}

// Favicons configures favicon generation.
type Favicons struct {
	Source      string
	Dest        string
	Sizes       []int
	CoastOffset int
	AppName     string
}

// Sprite configures the SVG symbol sprite.
type Sprite struct {
	Sources    []string
	Dest       string
	StripAttrs []string
}

// Scripts configures the JavaScript bundle.
type Scripts struct {
	Entry  string
	Dest   string
	Target string
}

// Fonts configures the font copy.
type Fonts struct {
	Source string
	Dest   string
}

// Server configures the dev server and the watcher.
type Server struct {
	Host     string
	Port     int
	Debounce time.Duration
}

// Default returns the configuration used when no file is present.
func Default() *Model {
	return &Model{
		Source: "src",
		Output: "public",
		Templates: Templates{
			Sources:  []string{"views/*.tmpl"},
			Partials: []string{"views/partials/**/*.tmpl"},
			Data:     map[string]string{},
		},
		Styles: Styles{
			Sources:    []string{"scss/*.scss", "scss/*.sass", "scss/*.css"},
			Dest:       "css",
			SassBinary: "sass",
			LoadPaths:  []string{"node_modules"},
			Targets:    []string{"chrome58", "firefox57", "safari11", "edge16"},
			MediaQueries: map[string]string{
				"(min-width: 576px)":  "576px",
				"(min-width: 768px)":  "768px",
				"(min-width: 992px)":  "992px",
				"(min-width: 1200px)": "1200px",
			},
		},
		Images: Images{
			Sources:     []string{"assets/img/**/*"},
			Dest:        "img",
			JPEGQuality: 80,
		},
		Favicons: Favicons{
			Source:      "assets/favicon.png",
			Dest:        "img/favicons",
			Sizes:       []int{16, 32, 48},
			CoastOffset: 25,
			AppName:     "assetgrid",
		},
		Sprite: Sprite{
			Sources:    []string{"assets/icons/*.svg"},
			Dest:       "img/sprite.svg",
			StripAttrs: []string{"fill"},
		},
		Scripts: Scripts{
			Entry:  "js/main.js",
			Dest:   "bundle.js",
			Target: "es2015",
		},
		Fonts: Fonts{
			Source: "assets/fonts",
			Dest:   "fonts",
		},
		Server: Server{
			Host:     "localhost",
			Port:     3000,
			Debounce: 100 * time.Millisecond,
		},
	}
}

// SourcePath resolves a path relative to the source root.
func (m *Model) SourcePath(rel string) string {
	return filepath.Join(m.Source, filepath.FromSlash(rel))
}

// OutputPath resolves a path relative to the output directory.
func (m *Model) OutputPath(rel string) string {
	return filepath.Join(m.Output, filepath.FromSlash(rel))
}

// containsPath reports whether dir is path or one of its ancestors.
func containsPath(dir, path string) bool {
	d, err := filepath.Abs(dir)
	if err != nil {
		return true
	}
	p, err := filepath.Abs(path)
	if err != nil {
		return true
	}
	rel, err := filepath.Rel(d, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Validate checks the model for values the build cannot work with.
func (m *Model) Validate() error {
	var errs []error
	fail := func(field string, err error) {
		errs = append(errs, &Error{Field: field, Err: err})
	}

	if m.Source == "" {
		fail("source", errors.New("must not be empty"))
	}
	if m.Output == "" {
		fail("output", errors.New("must not be empty"))
	}
	if m.Source != "" && m.Output != "" {
		if containsPath(m.Output, m.Source) {
			fail("output", errors.New("must not be or contain the source directory, clean would delete the sources"))
		}
	}

	patterns := map[string][]string{
		"templates.sources":  m.Templates.Sources,
		"templates.partials": m.Templates.Partials,
		"styles.sources":     m.Styles.Sources,
		"images.sources":     m.Images.Sources,
		"sprite.sources":     m.Sprite.Sources,
	}
	for _, field := range sortedFields(patterns) {
		for _, p := range patterns[field] {
			if err := fsutil.ValidatePattern(p); err != nil {
				fail(field, err)
			}
		}
	}

	if m.Images.JPEGQuality < 1 || m.Images.JPEGQuality > 100 {
		fail("images.jpeg_quality", fmt.Errorf("must be between 1 and 100, got %d", m.Images.JPEGQuality))
	}
	if len(m.Favicons.Sizes) == 0 {
		fail("favicons.sizes", errors.New("must not be empty"))
	}
	for _, s := range m.Favicons.Sizes {
		if s <= 0 || s > 256 {
			fail("favicons.sizes", fmt.Errorf("size %d out of range 1..256", s))
		}
	}
	if m.Favicons.CoastOffset < 0 || m.Favicons.CoastOffset >= 50 {
		fail("favicons.coast_offset", fmt.Errorf("must be between 0 and 49 percent, got %d", m.Favicons.CoastOffset))
	}
	if m.Scripts.Entry == "" {
		fail("scripts.entry", errors.New("must not be empty"))
	}
	if m.Server.Port < 0 || m.Server.Port > 65535 {
		fail("server.port", fmt.Errorf("invalid port %d", m.Server.Port))
	}
	if m.Server.Debounce < 0 {
		fail("server.debounce", errors.New("must not be negative"))
	}

	return errors.Join(errs...)
}

func sortedFields(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
