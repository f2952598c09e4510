package wheelext

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupRemovesStaleDirectories(t *testing.T) {
	pkgDir := t.TempDir()
	writeFiles(t, pkgDir,
		"build/lib/elbo_sdk/engine.so",
		"elbo_sdk.egg-info/PKG-INFO",
		"pyproject.toml",
		"dist/elbo_sdk-1.0.0-py3-none-any.whl")

	removed, err := Cleanup(pkgDir, "elbo_sdk")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(pkgDir, "build"),
		filepath.Join(pkgDir, "elbo_sdk.egg-info"),
	}, removed)

	assert.NoDirExists(t, filepath.Join(pkgDir, "build"))
	assert.NoDirExists(t, filepath.Join(pkgDir, "elbo_sdk.egg-info"))
	assert.FileExists(t, filepath.Join(pkgDir, "pyproject.toml"))
	assert.FileExists(t, filepath.Join(pkgDir, "dist", "elbo_sdk-1.0.0-py3-none-any.whl"))
}

func TestCleanupTwiceNeverFails(t *testing.T) {
	pkgDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(pkgDir, "build", "temp"), 0o755))

	_, err := Cleanup(pkgDir, "elbo_sdk")
	require.NoError(t, err)

	removed, err := Cleanup(pkgDir, "elbo_sdk")
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestCleanupMissingPackageDir(t *testing.T) {
	removed, err := Cleanup(filepath.Join(t.TempDir(), "absent"), "elbo_sdk")
	require.NoError(t, err)
	assert.Empty(t, removed)
}
