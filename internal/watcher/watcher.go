// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package watcher

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/romdo/go-debounce"
	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/reload"
)

// DefaultDebounce is the coalescing window used when none is configured.
const DefaultDebounce = 100 * time.Millisecond

// ignoredDirs are never added to the watch set.
var ignoredDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".idea":        true,
	".vscode":      true,
	".cache":       true,
}

// FailureFunc is called when a task of a rule fails.
type FailureFunc func(ctx context.Context, rule string, err error)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the coalescing window. Zero or less runs a rule on every
// change.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithFailureReporter replaces the default failure logging.
func WithFailureReporter(fn FailureFunc) Option {
	return func(w *Watcher) { w.onFailure = fn }
}

// Watcher runs rule tasks in response to filesystem changes.
type Watcher struct {
	root      string
	rules     []*compiledRule
	channel   *reload.Channel
	debounce  time.Duration
	onFailure FailureFunc

	runs sync.WaitGroup
}

// New compiles and validates rules against the source root. Every rule's
// pattern must compile and its static base directory must exist.
func New(root string, rules []Rule, channel *reload.Channel, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		root:     root,
		channel:  channel,
		debounce: DefaultDebounce,
		onFailure: func(ctx context.Context, rule string, err error) {
			ctxlog.FromContext(ctx).Error("Rebuild failed.", "rule", rule, "error", err)
		},
	}
	for _, opt := range opts {
		opt(w)
	}

	seen := make(map[string]bool, len(rules))
	for _, rule := range rules {
		cr, err := compileRule(root, rule)
		if err != nil {
			return nil, err
		}
		if seen[rule.Name] {
			return nil, &config.Error{Field: "watch." + rule.Name, Err: errors.New("duplicate rule")}
		}
		seen[rule.Name] = true
		w.rules = append(w.rules, cr)
	}

	for _, r := range w.rules {
		w.arm(r)
	}
	return w, nil
}

// arm installs the rule's debounced trigger.
func (w *Watcher) arm(r *compiledRule) {
	fire := func() { w.schedule(r) }
	if w.debounce <= 0 {
		r.trigger, r.cancel = fire, func() {}
		return
	}
	r.trigger, r.cancel = debounce.New(w.debounce, fire)
}

// Rules returns the names of the compiled rules in table order.
func (w *Watcher) Rules() []string {
	names := make([]string, len(w.rules))
	for i, r := range w.rules {
		names[i] = r.Name
	}
	return names
}

// Dispatch routes a change of the file at rel (relative to the source root)
// to every matching rule and returns their names.
func (w *Watcher) Dispatch(ctx context.Context, rel string) []string {
	rel = filepath.ToSlash(rel)
	var matched []string
	for _, r := range w.rules {
		if !r.match(rel) {
			continue
		}
		r.mu.Lock()
		r.ctx = ctx
		r.mu.Unlock()
		matched = append(matched, r.Name)
		r.trigger()
	}
	if len(matched) > 0 {
		ctxlog.FromContext(ctx).Debug("Change routed.", "path", rel, "rules", matched)
	}
	return matched
}

// schedule starts the rule's run loop, or queues one more run if it is busy.
func (w *Watcher) schedule(r *compiledRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		r.pending = true
		return
	}
	r.running = true
	w.runs.Add(1)
	go w.loop(r)
}

func (w *Watcher) loop(r *compiledRule) {
	defer w.runs.Done()
	for {
		r.mu.Lock()
		ctx := r.ctx
		r.mu.Unlock()

		if ctx.Err() == nil {
			w.run(ctx, r)
		}

		r.mu.Lock()
		if r.pending && ctx.Err() == nil {
			r.pending = false
			r.mu.Unlock()
			continue
		}
		r.pending = false
		r.running = false
		r.mu.Unlock()
		return
	}
}

// run executes the rule's tasks in order and publishes one notification if
// all of them succeed.
func (w *Watcher) run(ctx context.Context, r *compiledRule) {
	ctx = ctxlog.With(ctx, "rule", r.Name)
	logger := ctxlog.FromContext(ctx)
	start := time.Now()

	for _, t := range r.Tasks {
		if _, err := t.Execute(ctx); err != nil {
			w.onFailure(ctx, r.Name, err)
			return
		}
	}

	if w.channel != nil {
		w.channel.Notify(reload.Notification{Kind: r.Kind, Rule: r.Name})
	}
	logger.Info("🔄 Rebuilt.", "kind", r.Kind.String(), "duration", time.Since(start).Round(time.Millisecond))
}

// Wait blocks until no rule is running.
func (w *Watcher) Wait() {
	w.runs.Wait()
}

// Run watches the source root until ctx is cancelled. It fails only if the
// notification backend cannot be started.
func (w *Watcher) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return &Error{Op: "create", Err: err}
	}
	defer fsw.Close()

	dirs, err := w.addTree(ctx, fsw, w.root)
	if err != nil {
		return err
	}
	logger.Info("👀 Watching for changes.", "root", w.root, "directories", dirs, "rules", len(w.rules))

	defer func() {
		for _, r := range w.rules {
			r.cancel()
		}
		w.runs.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Context canceled, stopping file watcher.")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, fsw, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error.", "error", &Error{Op: "event", Err: err})
		}
	}
}

func (w *Watcher) handle(ctx context.Context, fsw *fsnotify.Watcher, event fsnotify.Event) {
	logger := ctxlog.FromContext(ctx)

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	if event.Has(fsnotify.Create) {
		if n, err := w.addTree(ctx, fsw, event.Name); err == nil && n > 0 {
			logger.Debug("Watching new directory.", "path", event.Name, "directories", n)
			w.dispatchTree(ctx, event.Name)
			return
		}
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return
	}
	w.Dispatch(ctx, rel)
}

// dispatchTree routes every file below a newly created directory, which may
// have been moved in with its contents.
func (w *Watcher) dispatchTree(ctx context.Context, dir string) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if rel, err := filepath.Rel(w.root, path); err == nil {
			w.Dispatch(ctx, rel)
		}
		return nil
	})
}

// addTree adds dir and every non-ignored directory below it to the watch set.
// It returns the number of directories added; a regular file adds none.
func (w *Watcher) addTree(ctx context.Context, fsw *fsnotify.Watcher, dir string) (int, error) {
	logger := ctxlog.FromContext(ctx)
	count := 0

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && ignoredDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			logger.Warn("Failed to watch directory.", "path", path, "error", err)
			return nil
		}
		count++
		return nil
	})
	if err != nil {
		return count, &Error{Op: "add", Path: dir, Err: err}
	}
	return count, nil
}
