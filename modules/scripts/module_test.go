package scripts

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
	return cfg
}

func TestScripts(t *testing.T) {
	cfg := testConfig(t)
	write(t, cfg.SourcePath("js/inc/utils.js"), "export const double = (n) => n * 2;\n")
	write(t, cfg.SourcePath("js/main.js"), "import { double } from './inc/utils';\nconst answer = double(window.n ?? 21);\nconsole.log(answer);\n")

	res, err := New(cfg)(context.Background())
	require.NoError(t, err)

	out := cfg.OutputPath("bundle.js")
	assert.Equal(t, []string{out}, res.Outputs)

	js, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(js), "double")
	assert.NotContains(t, string(js), "import ", "imports are bundled")
	assert.NotContains(t, string(js), "??", "nullish coalescing is lowered for ES2015")
}

func TestScripts_Errors(t *testing.T) {
	t.Run("missing import", func(t *testing.T) {
		cfg := testConfig(t)
		write(t, cfg.SourcePath("js/main.js"), "import './nope';\n")
		_, err := New(cfg)(context.Background())
		assert.ErrorContains(t, err, "nope")
		assert.NoFileExists(t, cfg.OutputPath("bundle.js"))
	})

	t.Run("unknown target", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Scripts.Target = "es1999"
		_, err := New(cfg)(context.Background())
		assert.ErrorContains(t, err, "unknown script target")
	})
}
