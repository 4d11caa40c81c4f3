// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. An empty extension matches every regular file.
// The result is sorted.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Glob resolves doublestar patterns relative to root and returns the matching
// regular files, de-duplicated and sorted. Patterns must stay inside root.
// Meta characters in root itself are taken literally.
func Glob(root string, patterns ...string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		if err := ValidatePattern(pattern); err != nil {
			return nil, err
		}
		matches, err := doublestar.Glob(fsys, path.Clean(filepath.ToSlash(pattern)), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			seen[filepath.Join(root, filepath.FromSlash(m))] = struct{}{}
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

// ValidatePattern rejects absolute patterns and patterns escaping their root.
func ValidatePattern(pattern string) error {
	clean := filepath.Clean(pattern)
	if filepath.IsAbs(clean) {
		return fmt.Errorf("absolute paths not allowed in pattern: %s", pattern)
	}
	if slices.Contains(strings.Split(filepath.ToSlash(clean), "/"), "..") {
		return fmt.Errorf("parent directory references not allowed in pattern: %s", pattern)
	}
	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return fmt.Errorf("malformed pattern: %s", pattern)
	}
	return nil
}

// BaseDir returns the static directory prefix of a pattern, i.e. the part
// before the first path segment containing a meta character.
func BaseDir(pattern string) string {
	base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
	return filepath.FromSlash(base)
}

// Match is a file found by GlobRel.
type Match struct {
	// Path is the file's path including root.
	Path string
	// Rel is the path relative to the static base directory of the pattern
	// that matched it, e.g. "icons/a.png" for "assets/img/**/*".
	Rel string
}

// GlobRel is Glob that also reports each file relative to its pattern's base
// directory, so callers can mirror the source layout under an output
// directory. A file matched by several patterns is reported once, for the
// first of them.
func GlobRel(root string, patterns ...string) ([]Match, error) {
	seen := make(map[string]struct{})
	var out []Match
	for _, pattern := range patterns {
		files, err := Glob(root, pattern)
		if err != nil {
			return nil, err
		}
		base := filepath.Join(root, BaseDir(pattern))
		for _, f := range files {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			rel, err := filepath.Rel(base, f)
			if err != nil {
				return nil, err
			}
			out = append(out, Match{Path: f, Rel: rel})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
