// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package styles

import (
	"path"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/cssrules"
	"github.com/specialistvlad/assetgrid/internal/fsutil"
)

// write splits media queries out of css and writes the main stylesheet, its
// source map and one file per extracted media query. src is the entry the
// css was compiled from.
func write(cfg *config.Model, src, name string, css []byte) ([]string, error) {
	rest, media, err := cssrules.ExtractMedia(css, cfg.Styles.MediaQueries)
	if err != nil {
		return nil, err
	}

	var outputs []string
	for _, mq := range cfg.Styles.SortedMediaQueries() {
		body, ok := media[mq.Label]
		if !ok {
			continue
		}
		out := cfg.OutputPath(path.Join(cfg.Styles.Dest, name+"-"+mq.Label+".css"))
		if err := fsutil.WriteFile(out, body); err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}

	cssPath := cssOutput(cfg, name)
	code, sourceMap, err := link(rest, src, cssPath)
	if err != nil {
		return nil, err
	}

	if err := fsutil.WriteFile(cssPath, code); err != nil {
		return nil, err
	}
	mapPath := cssPath + ".map"
	if err := fsutil.WriteFile(mapPath, sourceMap); err != nil {
		return nil, err
	}

	return append([]string{cssPath, mapPath}, outputs...), nil
}

// cssOutput is where the main stylesheet of an entry is written.
func cssOutput(cfg *config.Model, name string) string {
	return cfg.OutputPath(path.Join(cfg.Styles.Dest, name+".css"))
}
