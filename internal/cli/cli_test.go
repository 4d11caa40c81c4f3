package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected *ExitError, got %T: %v", err, err)
	return exitErr.Code
}

func TestExecute_Help(t *testing.T) {
	out := &bytes.Buffer{}
	err := Execute(context.Background(), out, []string{"--help"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "build")
	assert.Contains(t, out.String(), "reload")
}

func TestExecute_UnknownFlag(t *testing.T) {
	err := Execute(context.Background(), &bytes.Buffer{}, []string{"build", "--this-is-not-a-valid-flag"})
	require.Error(t, err)
	assert.Equal(t, ExitUsage, exitCode(t, err))
	assert.Contains(t, err.Error(), "unknown flag")
}

func TestExecute_InvalidLogFormat(t *testing.T) {
	err := Execute(context.Background(), &bytes.Buffer{}, []string{"build", "--log-format", "xml"})
	require.Error(t, err)
	assert.Equal(t, ExitUsage, exitCode(t, err))
	assert.Contains(t, err.Error(), "log-format")
}

func TestExecute_BadConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "assetgrid.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte("unknown_setting = 1\n"), 0o644))

	err := Execute(context.Background(), &bytes.Buffer{}, []string{"build", "--config", cfgPath})
	require.Error(t, err)
	assert.Equal(t, ExitUsage, exitCode(t, err))
}

func TestExecute_BuildFailure(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "assetgrid.hcl")
	hcl := `
source = "` + filepath.ToSlash(filepath.Join(dir, "src")) + `"
output = "` + filepath.ToSlash(filepath.Join(dir, "public")) + `"
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(hcl), 0o644))

	// An empty source tree has no favicon or script entry to build.
	err := Execute(context.Background(), &bytes.Buffer{}, []string{"build", "--config", cfgPath, "--log-level", "error"})
	require.Error(t, err)
	assert.Equal(t, ExitFailure, exitCode(t, err))
}

func TestExecute_ReloadWithoutServer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Execute(ctx, &bytes.Buffer{}, []string{"reload", "--url", "http://127.0.0.1:1"})
	require.Error(t, err)
	assert.Equal(t, ExitFailure, exitCode(t, err))
}

func TestExecute_ReloadRejectsBadURL(t *testing.T) {
	err := Execute(context.Background(), &bytes.Buffer{}, []string{"reload", "--url", "localhost"})
	require.Error(t, err)
	assert.Equal(t, ExitFailure, exitCode(t, err))
	assert.Contains(t, err.Error(), "scheme and host")
}
