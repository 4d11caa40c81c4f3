package fonts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

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

func TestFonts(t *testing.T) {
	cfg := testConfig(t)
	for _, rel := range []string{"inter.woff2", "mono/jet.ttf", ".DS_Store"} {
		p := cfg.SourcePath("assets/fonts/" + rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(rel), 0o644))
	}

	res, err := New(cfg)(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		cfg.OutputPath("fonts/inter.woff2"),
		cfg.OutputPath("fonts/mono/jet.ttf"),
	}, res.Outputs)

	data, err := os.ReadFile(cfg.OutputPath("fonts/mono/jet.ttf"))
	require.NoError(t, err)
	assert.Equal(t, "mono/jet.ttf", string(data))
}

func TestFonts_NoSourceDir(t *testing.T) {
	cfg := testConfig(t)
	res, err := New(cfg)(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Outputs)
	assert.NoDirExists(t, cfg.OutputPath("fonts"))
}
