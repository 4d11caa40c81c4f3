// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/assetgrid/internal/ctxlog"
)

// ValidateRegistry checks that every required stage has a registered
// transform.
func (r *Registry) ValidateRegistry(ctx context.Context, required []string) error {
	logger := ctxlog.FromContext(ctx)

	var missing []string
	for _, name := range required {
		if _, ok := r.transforms[name]; !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("registry validation failed: no transform registered for stage(s): %s", strings.Join(missing, ", "))
	}

	logger.Debug("Registry validation successful.", "transforms", len(r.transforms))
	return nil
}
