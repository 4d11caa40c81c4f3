package templates

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testConfig(t *testing.T) *config.Model {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Source = filepath.Join(dir, "src")
	cfg.Output = filepath.Join(dir, "public")
	cfg.Templates.Data = map[string]string{"title": "Home & Garden"}
	return cfg
}

func TestRender(t *testing.T) {
	cfg := testConfig(t)
	write(t, cfg.SourcePath("views/partials/head.tmpl"), `<head><title>{{ .Data.title }}</title></head>`)
	write(t, cfg.SourcePath("views/index.tmpl"), `<html>{{ template "head.tmpl" . }}<body class="{{ .Name | upper }}"></body></html>`)
	write(t, cfg.SourcePath("views/about.tmpl"), `<p>{{ .Name }}</p>`)

	res, err := New(cfg)(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{cfg.OutputPath("index.html"), cfg.OutputPath("about.html")}, res.Outputs)

	index, err := os.ReadFile(cfg.OutputPath("index.html"))
	require.NoError(t, err)
	assert.Equal(t, `<html><head><title>Home &amp; Garden</title></head><body class="INDEX"></body></html>`, string(index))
	assert.NoFileExists(t, cfg.OutputPath("head.html"))
}

func TestRender_Errors(t *testing.T) {
	t.Run("syntax error", func(t *testing.T) {
		cfg := testConfig(t)
		write(t, cfg.SourcePath("views/index.tmpl"), `{{ if }}`)
		_, err := New(cfg)(context.Background())
		assert.ErrorContains(t, err, "index.tmpl")
	})

	t.Run("missing data key", func(t *testing.T) {
		cfg := testConfig(t)
		write(t, cfg.SourcePath("views/index.tmpl"), `{{ .Data.nope }}`)
		_, err := New(cfg)(context.Background())
		assert.ErrorContains(t, err, "failed to render")
		assert.ErrorContains(t, err, `no entry for key "nope"`)
		assert.NoFileExists(t, cfg.OutputPath("index.html"))
	})

	t.Run("missing data key in partial", func(t *testing.T) {
		cfg := testConfig(t)
		write(t, cfg.SourcePath("views/partials/head.tmpl"), `<title>{{ .Data.subtitle }}</title>`)
		write(t, cfg.SourcePath("views/index.tmpl"), `{{ template "head.tmpl" . }}`)
		_, err := New(cfg)(context.Background())
		assert.ErrorContains(t, err, `no entry for key "subtitle"`)
	})
}

func TestRender_NoPages(t *testing.T) {
	cfg := testConfig(t)
	res, err := New(cfg)(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Outputs)
}
