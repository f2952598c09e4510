package wheelext

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoModules is returned when the source directory holds no compiled
	// modules for the native suffix. The native build must be rerun.
	ErrNoModules = errors.New("no compiled modules found")

	// ErrHasSources marks a target that declares source files reaching the
	// copy-only builder.
	ErrHasSources = errors.New("extension declares sources but only precompiled modules are handled")
)

// ContractViolationError names the target that broke the stub contract.
type ContractViolationError struct {
	Target  string
	Sources []string
}

// Error returns the error message for ContractViolationError.
func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("extension %s has sources %v: %v", e.Target, e.Sources, ErrHasSources)
}

// Unwrap returns ErrHasSources.
func (e *ContractViolationError) Unwrap() error {
	return ErrHasSources
}

// PackagerError reports a packaging tool that finished unsuccessfully.
type PackagerError struct {
	Status ExitStatus
	Err    error
}

// Error returns the error message for PackagerError.
func (e *PackagerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wheel build failed (exit status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("wheel build failed (exit status %d)", e.Status)
}

// Unwrap returns the underlying error, if any.
func (e *PackagerError) Unwrap() error {
	return e.Err
}

// BuildError creates a standardized build error with output context.
//
// With error and output:
//
//	Wheel build failed: exit status 1
//
//	Build output:
//	* Building wheel...
//	error: invalid command 'bdist_wheel'
//
// With error but no output only the first line is produced.
func BuildError(builder string, output []string, err error) error {
	outputStr := strings.TrimSpace(strings.Join(output, "\n"))

	var prefix string
	if err != nil {
		prefix = fmt.Sprintf("%s build failed: %v", builder, err)
	} else {
		prefix = fmt.Sprintf("%s build failed", builder)
	}

	if outputStr != "" {
		return fmt.Errorf("%s\n\nBuild output:\n%s", prefix, outputStr)
	}

	return errors.New(prefix)
}
