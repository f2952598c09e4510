package wheelext

import "github.com/charmbracelet/log"

// Target is a build target handed to a Builder.
//
// Stub targets produced by MakeStubTargets always carry an empty Sources list.
// Their presence is a promise that a precompiled binary for the module exists
// in the configured source directory.
type Target struct {
	Name    string   // Fully qualified name, e.g. "elbo_sdk.elbo_sdk_engine"
	Sources []string // Declared source files; empty for stub targets
}

// HasSources reports whether the target declares any source files.
func (t Target) HasSources() bool {
	return len(t.Sources) > 0
}

// BuildResult contains the output and status of a single target build.
//
// After a build completes, this structure provides:
//   - Success status indicating if the build completed without errors
//   - Output lines describing what the builder did
//   - Extensions list of files written into the staging tree
//   - Error information if the build failed
type BuildResult struct {
	Target     string   // Qualified name of the target that was built
	Success    bool     // True if build completed successfully
	Output     []string // Lines of diagnostic output
	Extensions []string // Paths of the staged extension files
	Error      error    // Error if build failed, nil otherwise
}

// BuildConfig controls how extension targets are staged.
//
// Source paths:
//   - SourceDir: Directory holding the precompiled binaries. When empty the
//     binary is resolved relative to the current working directory.
//   - BuildLib: Root of the staging tree the packager archives.
//
// Behaviour:
//   - Suffix: Binary suffix used to resolve and name staged files.
//   - StopOnFailure: Stop after the first failed target.
type BuildConfig struct {
	SourceDir string // Directory containing <module><suffix> binaries
	BuildLib  string // Staging root, e.g. <work>/build/lib
	Suffix    string // Native binary suffix (".so", ".pyd")

	Verbose       bool // Report each copied module at info level instead of debug
	StopOnFailure bool // Stop after the first failed target build

	Logger *log.Logger // Optional; nil discards diagnostics
}

// PackageConfig describes one packaging run.
//
// Paths:
//   - PackageDir: Package root. Cleanup runs here and the packaging tool
//     uses it as its working directory.
//   - SourceDir: Where the native build deposits binaries. Read-only.
//   - OutputDir: Receives the wheel. Created when absent.
//
// Naming:
//   - PackageName: Distribution name, also the artifact prefix.
//   - Namespace: Prefix for stub target names. Defaults to PackageName.
//   - Version, PythonTag, AbiTag, PlatformTag: Wheel filename components.
type PackageConfig struct {
	PackageName string
	Namespace   string
	Version     string

	PackageDir string
	SourceDir  string
	OutputDir  string

	PythonTag   string
	AbiTag      string
	PlatformTag string

	// GOOS overrides the host platform used to resolve the native suffix.
	GOOS string

	// KeepStaleArtifacts leaves wheels from earlier runs in OutputDir.
	// By default they are removed before the packager runs.
	KeepStaleArtifacts bool

	Verbose bool
}

// namespace returns the stub target prefix for the package.
func (c *PackageConfig) namespace() string {
	if c.Namespace != "" {
		return c.Namespace
	}
	return c.PackageName
}
