// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package task defines the uniform contract every file transformation is
// wrapped in: run against the filesystem, then return a Result or an Error.
package task

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/assetgrid/internal/ctxlog"
)

// Action performs one transformation. It reads its sources, writes under the
// output directory and reports the files it produced.
type Action func(ctx context.Context) (*Result, error)

// Result describes the filesystem effect of a completed Action.
type Result struct {
	// Outputs holds every file written by the action.
	Outputs []string
	// Skipped holds sources that were up to date and not reprocessed.
	Skipped []string
}

// Task is a named, immutable unit of work in the build graph.
type Task struct {
	Name        string
	Description string
	Run         Action
}

// New creates a Task.
func New(name, description string, run Action) *Task {
	return &Task{Name: name, Description: description, Run: run}
}

// Execute runs the task's action, logging its lifecycle and wrapping any
// failure in an *Error that names the task.
func (t *Task) Execute(ctx context.Context) (*Result, error) {
	ctx = ctxlog.With(ctx, "task", t.Name)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Task started.")
	start := time.Now()

	res, err := t.Run(ctx)
	if err != nil {
		return nil, &Error{Task: t.Name, Err: err}
	}
	if res == nil {
		res = &Result{}
	}

	logger.Info("Task finished.", "outputs", len(res.Outputs), "skipped", len(res.Skipped), "duration", time.Since(start).Round(time.Millisecond))
	return res, nil
}

// Error is a transform failure: the task that failed and the diagnostic
// reported by the underlying tool.
type Error struct {
	Task string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("task '%s' failed: %v", e.Task, e.Err)
}

// Unwrap returns the underlying tool error.
func (e *Error) Unwrap() error {
	return e.Err
}
