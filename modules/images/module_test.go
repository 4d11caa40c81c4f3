package images

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"
)

func testConfig(t *testing.T) *config.Model {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Source = filepath.Join(dir, "src")
	cfg.Output = filepath.Join(dir, "public")
	return cfg
}

func gradient(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

// fixture writes a PNG saved without compression, a JPEG at maximum quality,
// an SVG with whitespace and a GIF-like blob the optimizer does not touch.
func fixture(t *testing.T, cfg *config.Model) {
	t.Helper()
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.NoCompression}
	require.NoError(t, enc.Encode(&buf, gradient(64, 64)))
	writeFile(t, cfg.SourcePath("assets/img/logo.png"), buf.Bytes())

	buf.Reset()
	require.NoError(t, jpeg.Encode(&buf, gradient(64, 64), &jpeg.Options{Quality: 100}))
	writeFile(t, cfg.SourcePath("assets/img/photos/beach.jpg"), buf.Bytes())

	writeFile(t, cfg.SourcePath("assets/img/icon.svg"), []byte(`<svg xmlns="http://www.w3.org/2000/svg"   width="10"  height="10">
  <!-- comment -->
  <rect  x="0" y="0" width="10" height="10" />
</svg>`))
	writeFile(t, cfg.SourcePath("assets/img/anim.gif"), []byte("GIF89a-not-really"))
}

func TestOptimize(t *testing.T) {
	cfg := testConfig(t)
	fixture(t, cfg)

	res, err := NewOptimize(cfg)(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		cfg.OutputPath("img/logo.png"),
		cfg.OutputPath("img/photos/beach.jpg"),
		cfg.OutputPath("img/icon.svg"),
		cfg.OutputPath("img/anim.gif"),
	}, res.Outputs)

	for _, rel := range []string{"logo.png", "photos/beach.jpg", "icon.svg"} {
		src, err := os.Stat(cfg.SourcePath("assets/img/" + rel))
		require.NoError(t, err)
		dst, err := os.Stat(cfg.OutputPath("img/" + rel))
		require.NoError(t, err)
		assert.Less(t, dst.Size(), src.Size(), "%s should shrink", rel)
	}

	gif, err := os.ReadFile(cfg.OutputPath("img/anim.gif"))
	require.NoError(t, err)
	assert.Equal(t, "GIF89a-not-really", string(gif))

	f, err := os.Open(cfg.OutputPath("img/logo.png"))
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	assert.NoError(t, err, "optimized png stays decodable")
}

func TestOptimize_NeverGrows(t *testing.T) {
	cfg := testConfig(t)
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	require.NoError(t, enc.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	writeFile(t, cfg.SourcePath("assets/img/tiny.png"), buf.Bytes())

	_, err := NewOptimize(cfg)(context.Background())
	require.NoError(t, err)

	out, err := os.ReadFile(cfg.OutputPath("img/tiny.png"))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(out), buf.Len())
}

func TestWebP(t *testing.T) {
	cfg := testConfig(t)
	fixture(t, cfg)

	res, err := NewWebP(cfg)(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		cfg.OutputPath("img/logo.webp"),
		cfg.OutputPath("img/photos/beach.webp"),
	}, res.Outputs)

	f, err := os.Open(cfg.OutputPath("img/logo.webp"))
	require.NoError(t, err)
	defer f.Close()
	img, err := webp.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
}

func TestIncremental(t *testing.T) {
	cfg := testConfig(t)
	fixture(t, cfg)
	ctx := context.Background()

	for _, action := range []func(context.Context) error{
		func(ctx context.Context) error { _, err := NewOptimize(cfg)(ctx); return err },
		func(ctx context.Context) error { _, err := NewWebP(cfg)(ctx); return err },
	} {
		require.NoError(t, action(ctx))
	}

	before, err := os.Stat(cfg.OutputPath("img/logo.webp"))
	require.NoError(t, err)

	res, err := NewOptimize(cfg)(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Outputs, "unchanged sources are not rewritten")
	assert.Len(t, res.Skipped, 4)

	res, err = NewWebP(cfg)(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Outputs)
	assert.Len(t, res.Skipped, 2)

	after, err := os.Stat(cfg.OutputPath("img/logo.webp"))
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())

	// Touching a source makes only that one stale.
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(cfg.SourcePath("assets/img/logo.png"), future, future))
	res, err = NewWebP(cfg)(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{cfg.OutputPath("img/logo.webp")}, res.Outputs)
}

func TestOptimize_CorruptImage(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.SourcePath("assets/img/broken.png"), append([]byte("\x89PNG\r\n\x1a\n"), []byte("garbage")...))

	_, err := NewOptimize(cfg)(context.Background())
	assert.ErrorContains(t, err, "broken.png")
}
