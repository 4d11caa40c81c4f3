// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import "fmt"

// Error is a configuration failure: a file that does not parse, an unknown
// value, or a path the build cannot use.
type Error struct {
	// File is the configuration file involved, if any.
	File string
	// Field names the offending setting, if known.
	Field string
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.File != "" && e.Field != "":
		return fmt.Sprintf("config %s: %s: %v", e.File, e.Field, e.Err)
	case e.File != "":
		return fmt.Sprintf("config %s: %v", e.File, e.Err)
	case e.Field != "":
		return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
	default:
		return fmt.Sprintf("config: %v", e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}
