// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package sprite assembles the icon set into one SVG symbol sprite. Every icon
// becomes a `<symbol>` whose id is the icon's file name, so pages reference
// it as `<use href="/img/sprite.svg#name"/>`.
package sprite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/fsutil"
	"github.com/specialistvlad/assetgrid/internal/pipeline"
	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/internal/task"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"
)

const svgNS = "http://www.w3.org/2000/svg"

// Module implements the registry.Module interface for this package.
type Module struct{}

// New returns the action that builds the sprite.
func New(cfg *config.Model) task.Action {
	m := minify.New()
	m.AddFunc("image/svg+xml", svg.Minify)

	return func(ctx context.Context) (*task.Result, error) {
		logger := ctxlog.FromContext(ctx)

		icons, err := fsutil.Glob(cfg.Source, cfg.Sprite.Sources...)
		if err != nil {
			return nil, err
		}
		if len(icons) == 0 {
			logger.Debug("No icons found, sprite not written.")
			return &task.Result{}, nil
		}

		doc := etree.NewDocument()
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
		root := doc.CreateElement("svg")
		root.CreateAttr("xmlns", svgNS)

		ids := make(map[string]string, len(icons))
		for _, icon := range icons {
			id := strings.TrimSuffix(filepath.Base(icon), filepath.Ext(icon))
			if prev, dup := ids[id]; dup {
				return nil, fmt.Errorf("icons %s and %s share the symbol id %q", prev, icon, id)
			}
			ids[id] = icon

			symbol, namespaces, err := toSymbol(icon, id, cfg.Sprite.StripAttrs)
			if err != nil {
				return nil, err
			}
			if err := declare(root, namespaces, icon); err != nil {
				return nil, err
			}
			root.AddChild(symbol)
		}

		raw, err := doc.WriteToBytes()
		if err != nil {
			return nil, err
		}
		minified, err := m.Bytes("image/svg+xml", raw)
		if err != nil {
			return nil, fmt.Errorf("failed to minify sprite: %w", err)
		}

		out := cfg.OutputPath(cfg.Sprite.Dest)
		if err := fsutil.WriteFile(out, minified); err != nil {
			return nil, err
		}

		logger.Debug("Sprite written.", "icons", len(icons), "path", out)
		return &task.Result{Outputs: []string{out}}, nil
	}
}

// toSymbol parses one icon and rewraps its content in a <symbol>. It also
// returns the prefixed namespaces (prefix → URI) the icon's root declares,
// which its content may rely on.
func toSymbol(path, id string, strip []string) (*etree.Element, map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	src := doc.Root()
	if src == nil || src.Tag != "svg" {
		return nil, nil, fmt.Errorf("%s: root element is not <svg>", path)
	}

	namespaces := make(map[string]string)
	for _, attr := range src.Attr {
		if attr.Space == "xmlns" {
			namespaces[attr.Key] = attr.Value
		}
	}

	for _, el := range append([]*etree.Element{src}, src.FindElements("//*")...) {
		for _, attr := range strip {
			el.RemoveAttr(attr)
		}
	}

	symbol := etree.NewElement("symbol")
	symbol.CreateAttr("id", id)
	if vb := viewBox(src); vb != "" {
		symbol.CreateAttr("viewBox", vb)
	}
	for _, child := range src.ChildElements() {
		symbol.AddChild(child)
	}
	return symbol, namespaces, nil
}

// declare adds the namespaces of an icon to the sprite root. Two icons that
// bind one prefix to different URIs cannot share a sprite.
func declare(root *etree.Element, namespaces map[string]string, icon string) error {
	prefixes := make([]string, 0, len(namespaces))
	for prefix := range namespaces {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)

	for _, prefix := range prefixes {
		uri := namespaces[prefix]
		if have := root.SelectAttr("xmlns:" + prefix); have != nil {
			if have.Value != uri {
				return fmt.Errorf("%s: namespace prefix %q is bound to %q, another icon binds it to %q", icon, prefix, uri, have.Value)
			}
			continue
		}
		root.CreateAttr("xmlns:"+prefix, uri)
	}
	return nil
}

// viewBox returns the icon's viewBox, derived from width and height when it
// has none.
func viewBox(el *etree.Element) string {
	if vb := el.SelectAttrValue("viewBox", ""); vb != "" {
		return vb
	}
	w := strings.TrimSuffix(el.SelectAttrValue("width", ""), "px")
	h := strings.TrimSuffix(el.SelectAttrValue("height", ""), "px")
	if w == "" || h == "" {
		return ""
	}
	return fmt.Sprintf("0 0 %s %s", w, h)
}

// Register registers the transform with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransform(pipeline.StageSprite, &registry.RegisteredTransform{
		Description: "Assemble icons into an SVG symbol sprite.",
		New:         New,
	})
}
