package wheelext

import (
	"context"
	"fmt"
)

// BuilderFactory manages the registration and selection of target builders.
//
// The factory maintains a registry of Builder implementations and provides
// methods to:
//   - Register new builders
//   - Find the appropriate builder for a target
//   - Build every target in sequence
//
// # Usage
//
//	factory := wheelext.NewBuilderFactory()
//	results, err := factory.BuildAllExtensions(ctx, config, targets)
//
// # Builder Selection
//
// Builders are consulted in registration order and the first one whose
// CanBuild() returns true is used.
//
// BuilderFactory is NOT thread-safe for registration.
// Register all builders before use.
type BuilderFactory struct {
	builders []Builder
}

// NewBuilderFactory creates a factory with the PrecompiledBuilder registered.
//
// The PrecompiledBuilder accepts every target, so targets that declare
// sources reach it and fail as contract violations instead of being routed
// elsewhere.
func NewBuilderFactory() *BuilderFactory {
	factory := &BuilderFactory{}
	factory.Register(&PrecompiledBuilder{})
	return factory
}

// Register adds a new builder to the factory.
//
// Builders are checked in the order they are registered.
func (f *BuilderFactory) Register(builder Builder) {
	f.builders = append(f.builders, builder)
}

// BuilderFor returns the first registered builder that accepts the target,
// or an error if none does.
func (f *BuilderFactory) BuilderFor(target Target) (Builder, error) {
	for _, builder := range f.builders {
		if builder.CanBuild(target) {
			return builder, nil
		}
	}

	return nil, fmt.Errorf("no builder found for extension target: %s", target.Name)
}

// ListBuilders returns a copy of all registered builders.
func (f *BuilderFactory) ListBuilders() []Builder {
	return append([]Builder{}, f.builders...)
}

// BuildAllExtensions builds all targets in sequence.
//
// This method processes each target in order:
//  1. Check for context cancellation
//  2. Find the appropriate builder
//  3. Build the target
//  4. Collect the result
//  5. Stop on first failure if config.StopOnFailure is true
//
// Returns one BuildResult per processed target and the first error
// encountered. Even if an error is returned, the results slice contains
// partial results for targets that were processed.
//
// If the context is canceled, processing stops, a BuildResult carrying the
// context error is appended, and the context error is returned.
func (f *BuilderFactory) BuildAllExtensions(ctx context.Context, config *BuildConfig, targets []Target) ([]*BuildResult, error) {
	if len(targets) == 0 {
		return nil, nil
	}

	var results []*BuildResult
	var firstError error

	for _, target := range targets {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if firstError == nil {
				firstError = ctxErr
			}
			results = append(results, &BuildResult{
				Target:  target.Name,
				Success: false,
				Error:   ctxErr,
			})
			break
		}

		builder, err := f.BuilderFor(target)
		if err != nil {
			if firstError == nil {
				firstError = err
			}
			results = append(results, &BuildResult{
				Target:  target.Name,
				Success: false,
				Error:   err,
			})
			if config.StopOnFailure {
				break
			}
			continue
		}

		result, err := builder.Build(ctx, config, target)
		if err != nil {
			if firstError == nil {
				firstError = err
			}
			// Ensure we have a result even if builder didn't return one
			if result == nil {
				result = &BuildResult{
					Target:  target.Name,
					Success: false,
					Error:   err,
				}
			}
		}

		results = append(results, result)

		if !result.Success && config.StopOnFailure {
			break
		}
	}

	return results, firstError
}
