// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/task"
)

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// RegisteredTransform holds the compiled Go parts of one build stage.
type RegisteredTransform struct {
	Description string
	// New builds the stage's action for the given configuration.
	New func(cfg *config.Model) task.Action
}

// Registry holds all the registered transforms for a single application
// instance.
type Registry struct {
	transforms map[string]*RegisteredTransform
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		transforms: make(map[string]*RegisteredTransform),
	}
}

// RegisterTransform registers the factory for a build stage. Registering the
// same stage twice is a programming error.
func (r *Registry) RegisterTransform(name string, t *RegisteredTransform) {
	if _, exists := r.transforms[name]; exists {
		panic(fmt.Sprintf("transform with name '%s' already registered", name))
	}
	if t == nil || t.New == nil {
		panic(fmt.Sprintf("transform '%s' registered without a factory", name))
	}
	slog.Debug("Registering transform.", "name", name)
	r.transforms[name] = t
}

// Transform returns the registration for a stage.
func (r *Registry) Transform(name string) (*RegisteredTransform, bool) {
	t, ok := r.transforms[name]
	return t, ok
}

// Task builds a ready-to-schedule task for a stage.
func (r *Registry) Task(name string, cfg *config.Model) (*task.Task, error) {
	t, ok := r.transforms[name]
	if !ok {
		return nil, fmt.Errorf("no transform registered for stage '%s'", name)
	}
	return task.New(name, t.Description, t.New(cfg)), nil
}

// Names returns the sorted names of all registered stages.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.transforms))
	for name := range r.transforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
