// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/fsutil"
	"github.com/specialistvlad/assetgrid/internal/task"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"
)

// NewOptimize returns the action that writes an optimized copy of every image
// under the images destination, keeping the source layout and format.
func NewOptimize(cfg *config.Model) task.Action {
	m := minify.New()
	m.AddFunc("image/svg+xml", svg.Minify)

	return func(ctx context.Context) (*task.Result, error) {
		dstFor := func(src fsutil.Match) string {
			return cfg.OutputPath(path.Join(cfg.Images.Dest, filepath.ToSlash(src.Rel)))
		}
		return run(ctx, cfg, dstFor, func(src fsutil.Match, dst string) error {
			original, err := os.ReadFile(src.Path)
			if err != nil {
				return err
			}
			optimized, err := optimize(m, original, cfg.Images.JPEGQuality)
			if err != nil {
				return fmt.Errorf("%s: %w", src.Path, err)
			}
			// Never ship a file bigger than its source.
			if optimized == nil || len(optimized) >= len(original) {
				optimized = original
			}
			return fsutil.WriteFile(dst, optimized)
		})
	}
}

// optimize re-encodes data according to its detected type. It returns nil for
// formats it does not handle.
func optimize(m *minify.M, data []byte, quality int) ([]byte, error) {
	mt := mimetype.Detect(data)
	var buf bytes.Buffer

	switch {
	case mt.Is("image/png"):
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, err
		}
	case mt.Is("image/jpeg"):
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	case mt.Is("image/svg+xml"):
		out, err := m.Bytes("image/svg+xml", data)
		if err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, nil
	}
	return buf.Bytes(), nil
}

// decodeRaster decodes a PNG or JPEG; other formats report ok=false.
func decodeRaster(data []byte) (img image.Image, ok bool, err error) {
	mt := mimetype.Detect(data)
	switch {
	case mt.Is("image/png"):
		img, err = png.Decode(bytes.NewReader(data))
	case mt.Is("image/jpeg"):
		img, err = jpeg.Decode(bytes.NewReader(data))
	default:
		return nil, false, nil
	}
	return img, true, err
}
