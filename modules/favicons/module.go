// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package favicons generates the favicon set from one square source image:
// sized PNGs, a multi-resolution favicon.ico, a Coast icon and a manifest
// listing them.
package favicons

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/fsutil"
	"github.com/specialistvlad/assetgrid/internal/pipeline"
	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/internal/task"
	"golang.org/x/sync/errgroup"
)

// coastSize is the edge length of the Coast browser icon.
const coastSize = 228

// Module implements the registry.Module interface for this package.
type Module struct{}

// Icon is one entry of manifest.json.
type Icon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

// Manifest is the generated manifest.json.
type Manifest struct {
	Name  string `json:"name"`
	Icons []Icon `json:"icons"`
}

// New returns the action that generates the favicon set.
func New(cfg *config.Model) task.Action {
	return func(ctx context.Context) (*task.Result, error) {
		logger := ctxlog.FromContext(ctx)
		fc := cfg.Favicons
		dest := func(name string) string { return cfg.OutputPath(path.Join(fc.Dest, name)) }

		src, err := loadSource(cfg.SourcePath(fc.Source))
		if err != nil {
			return nil, err
		}

		pngs := make([][]byte, len(fc.Sizes))
		g, _ := errgroup.WithContext(ctx)
		for i, size := range fc.Sizes {
			g.Go(func() error {
				data, err := encodePNG(resize(src, size))
				if err != nil {
					return err
				}
				pngs[i] = data
				return nil
			})
		}

		var coast []byte
		g.Go(func() error {
			data, err := encodePNG(pad(src, coastSize, fc.CoastOffset))
			coast = data
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		res := &task.Result{}
		manifest := Manifest{Name: fc.AppName}
		put := func(name string, data []byte) error {
			out := dest(name)
			if err := fsutil.WriteFile(out, data); err != nil {
				return err
			}
			res.Outputs = append(res.Outputs, out)
			return nil
		}

		for i, size := range fc.Sizes {
			name := fmt.Sprintf("favicon-%dx%d.png", size, size)
			if err := put(name, pngs[i]); err != nil {
				return nil, err
			}
			manifest.Icons = append(manifest.Icons, Icon{Src: name, Sizes: fmt.Sprintf("%dx%d", size, size), Type: "image/png"})
		}

		ico, err := encodeICO(fc.Sizes, pngs)
		if err != nil {
			return nil, err
		}
		if err := put("favicon.ico", ico); err != nil {
			return nil, err
		}

		coastName := fmt.Sprintf("coast-%dx%d.png", coastSize, coastSize)
		if err := put(coastName, coast); err != nil {
			return nil, err
		}
		manifest.Icons = append(manifest.Icons, Icon{Src: coastName, Sizes: fmt.Sprintf("%dx%d", coastSize, coastSize), Type: "image/png"})

		data, err := json.MarshalIndent(manifest, "", "  ")
		if err != nil {
			return nil, err
		}
		if err := put("manifest.json", append(data, '\n')); err != nil {
			return nil, err
		}

		logger.Debug("Favicons generated.", "files", len(res.Outputs))
		return res, nil
	}
}

func loadSource(p string) (image.Image, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return img, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Register registers the transform with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransform(pipeline.StageFavicons, &registry.RegisteredTransform{
		Description: "Generate favicons, favicon.ico and the icon manifest.",
		New:         New,
	})
}
