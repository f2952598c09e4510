package wheelext

import "context"

// Builder defines the interface for staging extension targets.
//
// A Builder plays the part of the packaging tool's extension-building
// command: it is called once per target and must leave the target's compiled
// output at the location the packager archives.
//
// # Builder Lifecycle
//
//  1. CanBuild() - Factory calls this to find the right builder for a target
//  2. Build() - Factory calls this to stage the target
//  3. Clean() - Optional removal of staged output
//
// # Example Implementation
//
//	type LinkBuilder struct{}
//
//	func (b *LinkBuilder) Name() string { return "Link" }
//
//	func (b *LinkBuilder) CanBuild(target Target) bool { return !target.HasSources() }
//
//	func (b *LinkBuilder) Build(ctx context.Context, config *BuildConfig, target Target) (*BuildResult, error) {
//	    // symlink instead of copy
//	}
//
//	func (b *LinkBuilder) Clean(ctx context.Context, config *BuildConfig, target Target) error {
//	    return nil
//	}
//
// Builder implementations should be stateless.
type Builder interface {
	// Name returns the human-readable name of this builder.
	Name() string

	// CanBuild reports whether this builder should handle the target.
	CanBuild(target Target) bool

	// Build stages the target under config.BuildLib.
	//
	// Returns:
	//   - BuildResult with Success=true and Extensions list on success
	//   - BuildResult with Success=false and Error on failure
	Build(ctx context.Context, config *BuildConfig, target Target) (*BuildResult, error)

	// Clean removes whatever Build staged for the target.
	// Returns nil when there is nothing to remove.
	Clean(ctx context.Context, config *BuildConfig, target Target) error
}
