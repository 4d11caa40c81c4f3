// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package watcher

import "fmt"

// Error is a failure of the filesystem notification backend.
type Error struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("watcher %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("watcher %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}
