// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package images

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/fsutil"
	"github.com/specialistvlad/assetgrid/internal/task"
)

var rasterExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// NewWebP returns the action that writes `<name>.webp` next to the optimized
// copy of every JPEG and PNG source.
func NewWebP(cfg *config.Model) task.Action {
	return func(ctx context.Context) (*task.Result, error) {
		dstFor := func(src fsutil.Match) string {
			ext := filepath.Ext(src.Rel)
			if !rasterExts[strings.ToLower(ext)] {
				return ""
			}
			rel := strings.TrimSuffix(filepath.ToSlash(src.Rel), ext) + ".webp"
			return cfg.OutputPath(path.Join(cfg.Images.Dest, rel))
		}
		return run(ctx, cfg, dstFor, func(src fsutil.Match, dst string) error {
			data, err := os.ReadFile(src.Path)
			if err != nil {
				return err
			}
			img, ok, err := decodeRaster(data)
			if err != nil {
				return fmt.Errorf("%s: %w", src.Path, err)
			}
			if !ok {
				return fmt.Errorf("%s: not a PNG or JPEG image", src.Path)
			}

			var buf bytes.Buffer
			if err := nativewebp.Encode(&buf, img, nil); err != nil {
				return fmt.Errorf("%s: webp encode: %w", src.Path, err)
			}
			return fsutil.WriteFile(dst, buf.Bytes())
		})
	}
}
