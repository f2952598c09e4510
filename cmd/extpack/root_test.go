package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wheelext "github.com/nwierzbowski/elbo-sdk"
	"github.com/nwierzbowski/elbo-sdk/internal/config"
)

type testEnv struct {
	root   string
	stdout bytes.Buffer
	stderr bytes.Buffer
	app    *app
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{root: t.TempDir()}
	env.app = newApp(&env.stdout, &env.stderr)
	require.NoError(t, os.MkdirAll(filepath.Join(env.root, "build_wheel"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(env.root, "lib"), 0o755))
	return env
}

func (e *testEnv) write(t *testing.T, rel, content string) {
	t.Helper()
	path := filepath.Join(e.root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func (e *testEnv) run(args ...string) error {
	cmd := newRootCommand(e.app)
	cmd.SetArgs(append([]string{"--root", e.root}, args...))
	cmd.SetOut(&e.stdout)
	cmd.SetErr(&e.stderr)
	return cmd.ExecuteContext(context.Background())
}

// fakeWheel is a packager that drops a single wheel into the output directory.
func fakeWheel(name string) func(*config.Config, *wheelext.PackageConfig, *log.Logger) wheelext.Packager {
	return func(*config.Config, *wheelext.PackageConfig, *log.Logger) wheelext.Packager {
		return wheelext.PackagerFunc(func(_ context.Context, _, outDir string) (wheelext.ExitStatus, error) {
			return 0, os.WriteFile(filepath.Join(outDir, name), []byte("wheel"), 0o644)
		})
	}
}

func TestBuildFailsWithoutModules(t *testing.T) {
	env := newTestEnv(t)
	env.app.newPackager = fakeWheel("elbo_sdk-1.0.0-py3-none-any.whl")

	err := env.run()
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.ErrorIs(t, err, wheelext.ErrNoModules)
	assert.Contains(t, env.stdout.String(), "stopped after stage: start")
	assert.NoDirExists(t, filepath.Join(env.root, "dist"))
}

func TestBuildReportsArtifact(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "lib/elbo_sdk_engine"+wheelext.NativeSuffix(), "binary")
	env.app.newPackager = fakeWheel("elbo_sdk-1.0.0-py3-none-any.whl")

	require.NoError(t, env.run("-o", "out", "--report", "report.yaml"))

	out := env.stdout.String()
	assert.Contains(t, out, "Found 1 compiled modules")
	assert.Contains(t, out, "elbo_sdk_engine"+wheelext.NativeSuffix())
	assert.Contains(t, out, "elbo_sdk-1.0.0-py3-none-any.whl")
	assert.FileExists(t, filepath.Join(env.root, "out", "elbo_sdk-1.0.0-py3-none-any.whl"))
	assert.FileExists(t, filepath.Join(env.root, "report.yaml"))
}

func TestBuildPackagerFailure(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "lib/elbo_sdk_engine"+wheelext.NativeSuffix(), "binary")
	env.app.newPackager = func(*config.Config, *wheelext.PackageConfig, *log.Logger) wheelext.Packager {
		return wheelext.PackagerFunc(func(context.Context, string, string) (wheelext.ExitStatus, error) {
			return 1, nil
		})
	}

	err := env.run()
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)

	var pkgErr *wheelext.PackagerError
	assert.ErrorAs(t, err, &pkgErr)
	assert.Contains(t, env.stdout.String(), "Wheel build stopped after stage: cleaned")
}

func TestBuildWithBuiltinPackager(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "lib/elbo_sdk_engine"+wheelext.NativeSuffix(), "binary")
	env.write(t, "build_wheel/pyproject.toml", "[project]\nname = \"elbo_sdk\"\nversion = \"1.2.3\"\n")

	require.NoError(t, env.run("--packager", "builtin"))

	matches, err := filepath.Glob(filepath.Join(env.root, "dist", "elbo_sdk-1.2.3-py3-none-*.whl"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestCleanCommand(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "build_wheel/build/lib/stale.so", "old")

	require.NoError(t, env.run("clean"))
	assert.NoDirExists(t, filepath.Join(env.root, "build_wheel", "build"))
	assert.Contains(t, env.stdout.String(), "Removed")

	env.stdout.Reset()
	require.NoError(t, env.run("clean"))
	assert.Contains(t, env.stdout.String(), "Nothing to clean")
}

func TestInspectCommand(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "lib/elbo_sdk_engine"+wheelext.NativeSuffix(), "binary")

	require.NoError(t, env.run("inspect"))
	assert.Contains(t, env.stdout.String(), "DEVELOPMENT")

	err := env.run("inspect", "--strict")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)

	env.write(t, "lib/elbo_sdk_shm_bridge"+wheelext.NativeSuffix(), "binary")
	env.write(t, "lib/elbo_sdk_shm_manager"+wheelext.NativeSuffix(), "binary")
	env.stdout.Reset()
	require.NoError(t, env.run("inspect", "--strict"))
	assert.Contains(t, env.stdout.String(), "UNKNOWN")
}

func TestGetVersionString(t *testing.T) {
	origVersion, origCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = origVersion, origCommit })

	Version, Commit = "v1.2.3", "abc1234"
	assert.Equal(t, "v1.2.3 (commit: abc1234)", getVersionString())

	Version = "dev"
	assert.Equal(t, "dev (built from source)", getVersionString())
}
