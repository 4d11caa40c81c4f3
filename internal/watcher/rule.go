// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gobwas/glob"
	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/fsutil"
	"github.com/specialistvlad/assetgrid/internal/reload"
	"github.com/specialistvlad/assetgrid/internal/task"
)

// Rule maps a source pattern to the tasks that rebuild its output.
type Rule struct {
	Name string
	// Pattern is a glob relative to the source root using forward slashes.
	// `**` matches any number of directories, including none.
	Pattern string
	Tasks   []*task.Task
	Kind    reload.Kind
}

// compiledRule is a Rule plus its matcher and run-queue state.
type compiledRule struct {
	Rule
	globs []glob.Glob

	trigger func()
	cancel  func()

	mu      sync.Mutex
	ctx     context.Context
	running bool
	pending bool
}

func (r *compiledRule) match(rel string) bool {
	for _, g := range r.globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// compileRule validates a rule against the source root.
func compileRule(root string, rule Rule) (*compiledRule, error) {
	fail := func(err error) error {
		return &config.Error{Field: "watch." + rule.Name, Err: err}
	}

	if rule.Name == "" {
		return nil, fail(errors.New("rule must have a name"))
	}
	if len(rule.Tasks) == 0 {
		return nil, fail(errors.New("rule has no tasks"))
	}
	for _, t := range rule.Tasks {
		if t == nil {
			return nil, fail(errors.New("rule has a nil task"))
		}
	}
	if err := fsutil.ValidatePattern(rule.Pattern); err != nil {
		return nil, fail(err)
	}

	globs, err := compileGlobs(rule.Pattern)
	if err != nil {
		return nil, fail(err)
	}

	base := filepath.Join(root, filepath.FromSlash(fsutil.BaseDir(rule.Pattern)))
	info, err := os.Stat(base)
	if err != nil {
		return nil, fail(fmt.Errorf("base directory of %q: %w", rule.Pattern, err))
	}
	if !info.IsDir() {
		return nil, fail(fmt.Errorf("base of %q is not a directory: %s", rule.Pattern, base))
	}

	return &compiledRule{Rule: rule, globs: globs}, nil
}

// compileGlobs compiles pattern with '/' as separator. gobwas treats `**/` as
// "at least one directory", so every `/**/` also gets a variant without it.
func compileGlobs(pattern string) ([]glob.Glob, error) {
	variants := []string{pattern}
	for i := 0; i < len(variants); i++ {
		if strings.Contains(variants[i], "/**/") {
			variants = append(variants, strings.Replace(variants[i], "/**/", "/", 1))
		}
	}
	if strings.HasPrefix(pattern, "**/") {
		variants = append(variants, strings.TrimPrefix(pattern, "**/"))
	}

	globs := make([]glob.Glob, 0, len(variants))
	for _, v := range variants {
		g, err := glob.Compile(v, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}
