package sprite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Model {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Source = filepath.Join(dir, "src")
	cfg.Output = filepath.Join(dir, "public")
	return cfg
}

func writeIcon(t *testing.T, cfg *config.Model, name, content string) {
	t.Helper()
	p := cfg.SourcePath("assets/icons/" + name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestSprite(t *testing.T) {
	cfg := testConfig(t)
	writeIcon(t, cfg, "star.svg", `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" fill="red">
  <path fill="#000" d="M12 2 L15 9 L22 9 Z"/>
</svg>`)
	writeIcon(t, cfg, "dot.svg", `<svg xmlns="http://www.w3.org/2000/svg" width="10px" height="10">
  <g fill="blue"><circle cx="5" cy="5" r="4"/></g>
</svg>`)

	res, err := New(cfg)(context.Background())
	require.NoError(t, err)
	out := cfg.OutputPath("img/sprite.svg")
	assert.Equal(t, []string{out}, res.Outputs)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromFile(out))
	symbols := doc.FindElements("//symbol")
	require.Len(t, symbols, 2)

	byID := map[string]*etree.Element{}
	for _, s := range symbols {
		byID[s.SelectAttrValue("id", "")] = s
	}
	require.Contains(t, byID, "star")
	require.Contains(t, byID, "dot")
	assert.Equal(t, "0 0 10 10", byID["dot"].SelectAttrValue("viewBox", ""))
	assert.NotEmpty(t, byID["star"].SelectAttrValue("viewBox", ""))
	assert.NotNil(t, byID["star"].FindElement(".//path"))

	for _, el := range doc.FindElements("//*") {
		assert.Nil(t, el.SelectAttr("fill"), "fill stripped from <%s>", el.Tag)
	}
}

func TestSprite_CarriesNamespaceDeclarations(t *testing.T) {
	const xlink = "http://www.w3.org/1999/xlink"
	cfg := testConfig(t)
	writeIcon(t, cfg, "logo.svg", `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="`+xlink+`" viewBox="0 0 8 8">
  <defs><path id="logo-p" d="M0 0 L8 8"/></defs>
  <use xlink:href="#logo-p"/>
</svg>`)
	writeIcon(t, cfg, "mark.svg", `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="`+xlink+`" viewBox="0 0 8 8">
  <use xlink:href="#logo-p"/>
</svg>`)

	_, err := New(cfg)(context.Background())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromFile(cfg.OutputPath("img/sprite.svg")))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, xlink, root.SelectAttrValue("xmlns:xlink", ""))
	uses := doc.FindElements("//use")
	require.Len(t, uses, 2)
	for _, use := range uses {
		assert.Equal(t, "#logo-p", use.SelectAttrValue("xlink:href", ""))
	}
}

func TestSprite_Errors(t *testing.T) {
	t.Run("conflicting namespace prefix", func(t *testing.T) {
		cfg := testConfig(t)
		writeIcon(t, cfg, "a.svg", `<svg xmlns="http://www.w3.org/2000/svg" xmlns:x="urn:a"><path d="M0 0"/></svg>`)
		writeIcon(t, cfg, "b.svg", `<svg xmlns="http://www.w3.org/2000/svg" xmlns:x="urn:b"><path d="M0 0"/></svg>`)
		_, err := New(cfg)(context.Background())
		assert.ErrorContains(t, err, `prefix "x"`)
	})

	t.Run("not svg", func(t *testing.T) {
		cfg := testConfig(t)
		writeIcon(t, cfg, "bad.svg", `<html></html>`)
		_, err := New(cfg)(context.Background())
		assert.ErrorContains(t, err, "not <svg>")
	})

	t.Run("malformed xml", func(t *testing.T) {
		cfg := testConfig(t)
		writeIcon(t, cfg, "bad.svg", `<svg><path></svg>`)
		_, err := New(cfg)(context.Background())
		assert.ErrorContains(t, err, "bad.svg")
	})
}

func TestSprite_NoIcons(t *testing.T) {
	cfg := testConfig(t)
	res, err := New(cfg)(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Outputs)
	assert.NoFileExists(t, cfg.OutputPath("img/sprite.svg"))
}
