package wheelext

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readZip(t *testing.T, path string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	entries := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		entries[f.Name] = string(data)
	}
	return entries
}

func newWheelFixture(t *testing.T) (*PackageConfig, string) {
	t.Helper()
	root := t.TempDir()
	cfg := &PackageConfig{
		PackageName: "elbo_sdk",
		Version:     "0.0.1",
		PackageDir:  filepath.Join(root, "build_wheel"),
		SourceDir:   filepath.Join(root, "lib"),
		OutputDir:   filepath.Join(root, "dist"),
		PlatformTag: "linux_x86_64",
		GOOS:        "linux",
	}
	writeFiles(t, cfg.PackageDir, "elbo_sdk/__init__.py", "elbo_sdk/notes.txt")
	require.NoError(t, os.WriteFile(filepath.Join(cfg.PackageDir, "pyproject.toml"),
		[]byte("[project]\nname = \"elbo_sdk\"\nversion = \"2.0.0\"\n"), 0o644))
	return cfg, root
}

func TestWheelPackagerBuildsWheel(t *testing.T) {
	cfg, _ := newWheelFixture(t)
	writeFiles(t, cfg.SourceDir, "elbo_sdk_engine.so", "elbo_sdk_shm_manager.so")

	p := NewWheelPackager(cfg, nil)
	status, err := p.BuildArchive(context.Background(), cfg.PackageDir, cfg.OutputDir)
	require.NoError(t, err)
	assert.Equal(t, ExitStatus(0), status)

	wheelPath := filepath.Join(cfg.OutputDir, "elbo_sdk-2.0.0-py3-none-linux_x86_64.whl")
	require.FileExists(t, wheelPath)

	entries := readZip(t, wheelPath)
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"elbo_sdk-2.0.0.dist-info/METADATA",
		"elbo_sdk-2.0.0.dist-info/RECORD",
		"elbo_sdk-2.0.0.dist-info/WHEEL",
		"elbo_sdk/__init__.py",
		"elbo_sdk/elbo_sdk_engine.so",
		"elbo_sdk/elbo_sdk_shm_manager.so",
	}, names)

	assert.Equal(t, "binary:elbo_sdk_engine.so", entries["elbo_sdk/elbo_sdk_engine.so"])
	assert.Contains(t, entries["elbo_sdk-2.0.0.dist-info/WHEEL"], "Tag: py3-none-linux_x86_64")
	assert.Contains(t, entries["elbo_sdk-2.0.0.dist-info/METADATA"], "Version: 2.0.0")

	record := entries["elbo_sdk-2.0.0.dist-info/RECORD"]
	assert.Contains(t, record, "elbo_sdk/elbo_sdk_engine.so,sha256=")
	assert.True(t, strings.HasSuffix(record, "elbo_sdk-2.0.0.dist-info/RECORD,,\n"))
}

func TestWheelPackagerMissingNativeBinary(t *testing.T) {
	cfg, _ := newWheelFixture(t)
	// Discovery sees both suffixes, but the copy step only resolves the native one.
	writeFiles(t, cfg.SourceDir, "elbo_sdk_engine.so", "windows_only.pyd")

	p := NewWheelPackager(cfg, nil)
	status, err := p.BuildArchive(context.Background(), cfg.PackageDir, cfg.OutputDir)
	require.Error(t, err)
	assert.Equal(t, ExitStatus(1), status)

	artifacts, listErr := ListArtifacts(cfg.OutputDir, cfg.PackageName)
	require.NoError(t, listErr)
	assert.Empty(t, artifacts)
}

func TestWheelPackagerFallsBackToConfigVersion(t *testing.T) {
	cfg, _ := newWheelFixture(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.PackageDir, "pyproject.toml")))
	writeFiles(t, cfg.SourceDir, "elbo_sdk_engine.so")

	_, err := NewWheelPackager(cfg, nil).BuildArchive(context.Background(), cfg.PackageDir, cfg.OutputDir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "elbo_sdk-0.0.1-py3-none-linux_x86_64.whl"))
}

func TestDefaultPlatformTag(t *testing.T) {
	testCases := []struct {
		goos, goarch, expected string
	}{
		{"linux", "amd64", "linux_x86_64"},
		{"linux", "arm64", "linux_aarch64"},
		{"darwin", "arm64", "macosx_11_0_arm64"},
		{"darwin", "amd64", "macosx_10_9_x86_64"},
		{"windows", "amd64", "win_amd64"},
		{"windows", "386", "win32"},
		{"plan9", "amd64", "any"},
	}

	for _, tc := range testCases {
		t.Run(tc.goos+"/"+tc.goarch, func(t *testing.T) {
			assert.Equal(t, tc.expected, DefaultPlatformTag(tc.goos, tc.goarch))
		})
	}
}

func TestArtifactPattern(t *testing.T) {
	assert.Equal(t, "elbo_sdk-*.whl", ArtifactPattern("elbo-sdk"))
	assert.Equal(t, "elbo_sdk-*.whl", ArtifactPattern("elbo_sdk"))
}

func wheelEntryNames(t *testing.T, path string) []string {
	t.Helper()
	entries := readZip(t, path)
	names := make([]string, 0, len(entries))
	for name := range entries {
		if !strings.Contains(name, ".dist-info/") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func TestWheelPackagerProjectRootAsPackage(t *testing.T) {
	root := t.TempDir()
	cfg := &PackageConfig{
		PackageName: "elbo_sdk",
		Version:     "1.0.1",
		PackageDir:  filepath.Join(root, "build_wheel"),
		SourceDir:   filepath.Join(root, "lib"),
		OutputDir:   filepath.Join(root, "dist"),
		PlatformTag: "linux_x86_64",
		GOOS:        "linux",
	}
	// build_wheel/ holds __init__.py and setup.py directly, with no elbo_sdk/ subdirectory.
	writeFiles(t, cfg.PackageDir, "__init__.py", "setup.py", "scratch/helper.py")
	writeFiles(t, cfg.SourceDir, "elbo_sdk_engine.so")

	_, err := NewWheelPackager(cfg, nil).BuildArchive(context.Background(), cfg.PackageDir, cfg.OutputDir)
	require.NoError(t, err)

	wheelPath := filepath.Join(cfg.OutputDir, "elbo_sdk-1.0.1-py3-none-linux_x86_64.whl")
	assert.Equal(t, []string{
		"elbo_sdk/__init__.py",
		"elbo_sdk/elbo_sdk_engine.so",
	}, wheelEntryNames(t, wheelPath))
	assert.Equal(t, "binary:__init__.py", readZip(t, wheelPath)["elbo_sdk/__init__.py"])
}

func TestWheelPackagerHonoursPackageDir(t *testing.T) {
	cfg, _ := newWheelFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.PackageDir, "pyproject.toml"),
		[]byte("[project]\nname = \"elbo_sdk\"\nversion = \"2.0.0\"\n\n[tool.setuptools.package-dir]\nelbo_sdk = \"src/elbo\"\n"), 0o644))
	writeFiles(t, cfg.PackageDir, "src/elbo/__init__.py", "src/elbo/ipc/client.py")
	writeFiles(t, cfg.SourceDir, "elbo_sdk_engine.so")

	_, err := NewWheelPackager(cfg, nil).BuildArchive(context.Background(), cfg.PackageDir, cfg.OutputDir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"elbo_sdk/__init__.py",
		"elbo_sdk/elbo_sdk_engine.so",
		"elbo_sdk/ipc/client.py",
	}, wheelEntryNames(t, filepath.Join(cfg.OutputDir, "elbo_sdk-2.0.0-py3-none-linux_x86_64.whl")))
}
