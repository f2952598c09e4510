package wheelext

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// PrecompiledBuilder stages targets by copying an existing binary instead of
// compiling anything.
//
// For target "pkg.mod" it copies <SourceDir>/mod<Suffix> to
// <BuildLib>/pkg/mod<Suffix>. A target that declares sources is a contract
// violation and fails before any filesystem write.
type PrecompiledBuilder struct{}

// Name returns the builder name
func (b *PrecompiledBuilder) Name() string {
	return "Precompiled"
}

// CanBuild accepts every target; targets with sources are rejected by Build.
func (b *PrecompiledBuilder) CanBuild(target Target) bool {
	return true
}

// Build copies the precompiled binary for the target into the staging tree.
func (b *PrecompiledBuilder) Build(ctx context.Context, config *BuildConfig, target Target) (*BuildResult, error) {
	result := &BuildResult{
		Target: target.Name,
		Output: []string{},
	}

	if target.HasSources() {
		err := &ContractViolationError{Target: target.Name, Sources: target.Sources}
		result.Error = err
		return result, err
	}

	if err := ctx.Err(); err != nil {
		result.Error = err
		return result, err
	}

	src := b.sourcePath(config, target)
	dest := extFullPath(config.BuildLib, target.Name, config.Suffix)

	if err := copyFile(src, dest); err != nil {
		err = fmt.Errorf("failed to copy precompiled module for %s: %w", target.Name, err)
		result.Error = err
		return result, err
	}

	level := log.DebugLevel
	if config.Verbose {
		level = log.InfoLevel
	}
	orDiscard(config.Logger).Log(level, "Copied precompiled module", "src", src, "dest", dest)
	result.Output = append(result.Output, fmt.Sprintf("Copied %s to %s", src, dest))
	result.Extensions = []string{dest}
	result.Success = true

	return result, nil
}

// Clean removes the staged binary for the target.
func (b *PrecompiledBuilder) Clean(ctx context.Context, config *BuildConfig, target Target) error {
	return removeIfExists(extFullPath(config.BuildLib, target.Name, config.Suffix))
}

// sourcePath resolves the binary for the target. Without a SourceDir the file
// is looked up relative to the working directory; that mode predates explicit
// source directories and is kept only for old callers.
func (b *PrecompiledBuilder) sourcePath(config *BuildConfig, target Target) string {
	file := simpleName(target.Name) + config.Suffix
	if config.SourceDir == "" {
		orDiscard(config.Logger).Warn("No source directory configured, resolving binary from working directory (deprecated)",
			"module", file)
		return file
	}
	return filepath.Join(config.SourceDir, file)
}
