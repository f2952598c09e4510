package wheelext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ExitStatus is the exit code reported by a packaging tool. Zero is success.
type ExitStatus int

// Packager builds the distributable archive for the package in workDir and
// writes it to outDir.
//
// The returned error describes failures to run the tool at all; a tool that
// ran and failed reports a non-zero ExitStatus. Callers treat either as a
// failed build.
type Packager interface {
	BuildArchive(ctx context.Context, workDir, outDir string) (ExitStatus, error)
}

// PackagerFunc adapts a function to the Packager interface.
type PackagerFunc func(ctx context.Context, workDir, outDir string) (ExitStatus, error)

// BuildArchive calls f(ctx, workDir, outDir).
func (f PackagerFunc) BuildArchive(ctx context.Context, workDir, outDir string) (ExitStatus, error) {
	return f(ctx, workDir, outDir)
}

// CommandPackager runs an external packaging frontend as a subprocess.
//
// The command line is Program, Args, then "--outdir <outDir>", executed with
// workDir as its working directory. The run blocks until the process exits;
// only the context can cut it short.
//
// When Stdout and Stderr are nil the tool's output is captured and attached to
// the returned error instead of being streamed.
type CommandPackager struct {
	Program string
	Args    []string
	Env     map[string]string

	Stdout io.Writer
	Stderr io.Writer
}

// NewPythonBuildPackager returns a packager that runs
// "<python> -m build --wheel --outdir <dir>".
func NewPythonBuildPackager(python string) *CommandPackager {
	if python == "" {
		python = "python3"
	}
	return &CommandPackager{
		Program: python,
		Args:    []string{"-m", "build", "--wheel"},
	}
}

// RequiredTools returns the packaging frontend executable.
func (p *CommandPackager) RequiredTools() []ToolRequirement {
	req := ToolRequirement{Name: p.Program, Purpose: "wheel packaging frontend"}
	if p.Program == "python3" {
		req.Alternatives = []string{"python"}
	}
	return []ToolRequirement{req}
}

// CheckTools verifies that the packaging frontend is on PATH.
func (p *CommandPackager) CheckTools() error {
	return CheckRequiredTools(p.RequiredTools())
}

// BuildArchive runs the packaging command and returns its exit status.
func (p *CommandPackager) BuildArchive(ctx context.Context, workDir, outDir string) (ExitStatus, error) {
	args := append(append([]string{}, p.Args...), "--outdir", outDir)

	//nolint:gosec // Program comes from the operator's configuration
	cmd := exec.CommandContext(ctx, p.Program, args...)
	cmd.Dir = workDir

	cmd.Env = os.Environ()
	for key, value := range p.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}

	var captured bytes.Buffer
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = &captured
	}
	if cmd.Stderr == nil {
		cmd.Stderr = &captured
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return ExitStatus(exitErr.ExitCode()), BuildError("Wheel", splitLines(captured.String()), err)
	}

	return 1, BuildError("Wheel", splitLines(captured.String()),
		fmt.Errorf("failed to run %s %s: %w", p.Program, strings.Join(args, " "), err))
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
