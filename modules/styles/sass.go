// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package styles

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
)

// preprocess returns plain CSS for src, running the sass binary for Sass
// sources and reading plain stylesheets as they are.
func preprocess(ctx context.Context, cfg *config.Model, src string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(src)) {
	case ".scss", ".sass":
		return runSass(ctx, cfg.Styles, src)
	default:
		return os.ReadFile(src)
	}
}

func runSass(ctx context.Context, s config.Styles, src string) ([]byte, error) {
	logger := ctxlog.FromContext(ctx)

	bin, err := exec.LookPath(s.SassBinary)
	if err != nil {
		return nil, fmt.Errorf("sass binary %q not found: %w", s.SassBinary, err)
	}

	args := []string{"--embed-source-map", "--embed-sources", "--load-path=" + filepath.Dir(src)}
	for _, p := range s.LoadPaths {
		args = append(args, "--load-path="+p)
	}
	if strings.EqualFold(filepath.Ext(src), ".sass") {
		args = append(args, "--indented")
	}
	args = append(args, src)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("Running sass.", "args", args)
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("sass %s: %s", src, msg)
	}
	return stdout.Bytes(), nil
}
