// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package critical inlines the above-the-fold CSS of every rendered page.
//
// For each `<output>/*.html` the rules of its local stylesheets that can
// match an element of the page are copied into a `<style>` element in
// `<head>`, and each stylesheet link becomes an asynchronous preload with a
// `<noscript>` fallback.
package critical

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/cssrules"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/fsutil"
	"github.com/specialistvlad/assetgrid/internal/pipeline"
	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/internal/task"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// New returns the action that inlines critical CSS into every page.
func New(cfg *config.Model) task.Action {
	return func(ctx context.Context) (*task.Result, error) {
		logger := ctxlog.FromContext(ctx)

		pages, err := fsutil.Glob(cfg.Output, "*.html")
		if err != nil {
			return nil, err
		}

		res := &task.Result{}
		for _, page := range pages {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			changed, err := inline(cfg.Output, page)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", filepath.Base(page), err)
			}
			if changed {
				res.Outputs = append(res.Outputs, page)
			} else {
				res.Skipped = append(res.Skipped, page)
			}
		}

		logger.Debug("Critical CSS inlined.", "pages", len(res.Outputs), "skipped", len(res.Skipped))
		return res, nil
	}
}

// page is a parsed document together with what inlining needs from it.
type page struct {
	doc   *html.Node
	head  *html.Node
	links []*html.Node
	usage *cssrules.Usage
}

func inline(root, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return false, fmt.Errorf("failed to parse html: %w", err)
	}

	p := &page{doc: doc, usage: cssrules.NewUsage()}
	p.walk(doc)
	if p.head == nil || len(p.links) == 0 {
		return false, nil
	}

	var critical bytes.Buffer
	for _, link := range p.links {
		sheet := resolve(root, filepath.Dir(path), attr(link, "href"))
		src, err := os.ReadFile(sheet)
		if err != nil {
			return false, fmt.Errorf("stylesheet %s: %w", attr(link, "href"), err)
		}
		used, err := cssrules.Critical(src, p.usage)
		if err != nil {
			return false, fmt.Errorf("stylesheet %s: %w", attr(link, "href"), err)
		}
		critical.Write(used)
	}

	style := &html.Node{Type: html.ElementNode, Data: "style", DataAtom: atom.Style}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: critical.String()})
	p.links[0].Parent.InsertBefore(style, p.links[0])

	for _, link := range p.links {
		preload(link)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return false, err
	}
	return true, fsutil.WriteFile(path, buf.Bytes())
}

func (p *page) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Head:
			if p.head == nil {
				p.head = n
			}
		case atom.Noscript:
			return
		case atom.Link:
			if isLocalStylesheet(n) {
				p.links = append(p.links, n)
			}
		}
		p.usage.Add(n.Data, attr(n, "class"), attr(n, "id"))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c)
	}
}

func isLocalStylesheet(n *html.Node) bool {
	if !strings.EqualFold(attr(n, "rel"), "stylesheet") {
		return false
	}
	href := attr(n, "href")
	if href == "" || strings.HasPrefix(href, "//") {
		return false
	}
	u, err := url.Parse(href)
	return err == nil && u.Scheme == "" && u.Host == ""
}

// resolve maps an href to a file: root-relative against the output
// directory, otherwise against the page's directory.
func resolve(root, dir, href string) string {
	u, _ := url.Parse(href)
	p := filepath.FromSlash(u.Path)
	if strings.HasPrefix(u.Path, "/") {
		return filepath.Join(root, p)
	}
	return filepath.Join(dir, p)
}

// preload turns a stylesheet link into a preload that applies itself once
// loaded, followed by a <noscript> copy of the original link.
func preload(link *html.Node) {
	fallback := &html.Node{Type: html.ElementNode, Data: "link", DataAtom: atom.Link}
	fallback.Attr = append(fallback.Attr, link.Attr...)
	noscript := &html.Node{Type: html.ElementNode, Data: "noscript", DataAtom: atom.Noscript}
	noscript.AppendChild(fallback)

	setAttr(link, "rel", "preload")
	setAttr(link, "as", "style")
	setAttr(link, "onload", "this.onload=null;this.rel='stylesheet'")

	if link.NextSibling != nil {
		link.Parent.InsertBefore(noscript, link.NextSibling)
	} else {
		link.Parent.AppendChild(noscript)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// Register registers the transform with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransform(pipeline.StageCritical, &registry.RegisteredTransform{
		Description: "Inline critical CSS into pages.",
		New:         New,
	})
}
