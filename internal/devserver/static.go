// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package devserver

import (
	"bytes"
	_ "embed"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

//go:embed livereload.js
var liveReloadScript string

// serveFile serves a file from the root directory. Directories resolve to
// their index.html; HTML documents get the live-reload client appended to
// their body.
func (s *Server) serveFile(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.Status(http.StatusMethodNotAllowed)
		return
	}

	name := filepath.Join(s.opts.Root, filepath.FromSlash(path.Clean("/"+c.Request.URL.Path)))
	info, err := os.Stat(name)
	if err == nil && info.IsDir() {
		name = filepath.Join(name, "index.html")
		info, err = os.Stat(name)
	}
	if err != nil || info.IsDir() {
		c.String(http.StatusNotFound, "404 page not found")
		return
	}

	if !strings.EqualFold(filepath.Ext(name), ".html") {
		c.File(name)
		return
	}

	data, err := os.ReadFile(name)
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	page, err := injectClient(data)
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// injectClient appends the live-reload script to the document's body.
func injectClient(data []byte) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	body := findBody(doc)
	if body == nil {
		return data, nil
	}
	script := &html.Node{Type: html.ElementNode, Data: "script", DataAtom: atom.Script}
	script.AppendChild(&html.Node{Type: html.TextNode, Data: liveReloadScript})
	body.AppendChild(script)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
