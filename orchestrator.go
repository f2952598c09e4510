package wheelext

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/charmbracelet/log"
)

// State is a step of a packaging run.
type State int

const (
	// StateStart is the initial state, before discovery.
	StateStart State = iota
	// StateValidated means at least one compiled module was found.
	StateValidated
	// StateCleaned means stale build directories were removed.
	StateCleaned
	// StateBuilt means the packager finished successfully.
	StateBuilt
	// StateReported means the artifacts were listed (terminal state).
	StateReported
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateValidated:
		return "validated"
	case StateCleaned:
		return "cleaned"
	case StateBuilt:
		return "built"
	case StateReported:
		return "reported"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Orchestrator drives one packaging run.
//
// A run moves through Start, Validated, Cleaned, Built and Reported. Every
// gate is fatal: no modules, a packager that cannot be found, or a packager
// that fails stop the run and return an error. Nothing is retried.
//
// Wheels of earlier runs are replaced only once the packager succeeds. A
// failed run removes whatever it wrote to the output directory and puts the
// earlier wheels back.
//
// Runs are not re-entrant. Two runs against the same package or output
// directory must not overlap.
type Orchestrator struct {
	Config   *PackageConfig
	Packager Packager
	Logger   *log.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(config *PackageConfig, packager Packager, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		Config:   config,
		Packager: packager,
		Logger:   logger,
	}
}

// Run performs the packaging run. The returned Report is never nil; its State
// is the last state reached, so on failure it tells which gate stopped the run.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	cfg := o.Config
	logger := orDiscard(o.Logger)
	suffix := ExtensionSuffix(hostOS(cfg.GOOS))

	report := &Report{
		State:     StateStart,
		Package:   cfg.PackageName,
		Suffix:    suffix,
		SourceDir: cfg.SourceDir,
		OutputDir: cfg.OutputDir,
	}

	// Start -> Validated
	modules, err := DiscoverModules(cfg.SourceDir, suffix)
	if err != nil {
		return report, err
	}
	if len(modules) == 0 {
		return report, fmt.Errorf("%w in %s: build the native modules first (e.g. ninja -C build-pro)", ErrNoModules, cfg.SourceDir)
	}
	report.Modules = modules
	for _, module := range modules {
		logger.Debug("Found compiled module", "module", module+suffix)
	}
	report.Edition = ProbeModules(cfg.SourceDir, suffix, DefaultBindings).Edition
	report.State = StateValidated

	if checker, ok := o.Packager.(ToolChecker); ok {
		if err := checker.CheckTools(); err != nil {
			return report, fmt.Errorf("packaging tools missing: %w", err)
		}
	}

	// Validated -> Cleaned
	removed, err := Cleanup(cfg.PackageDir, cfg.PackageName)
	if err != nil {
		return report, err
	}
	for _, path := range removed {
		logger.Debug("Removed stale build directory", "path", path)
	}
	report.State = StateCleaned

	// Cleaned -> Built
	outDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return report, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	report.OutputDir = outDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return report, fmt.Errorf("failed to create output directory: %w", err)
	}

	previous, err := ListArtifacts(outDir, cfg.PackageName)
	if err != nil {
		return report, err
	}
	stash := &artifactStash{dir: outDir}
	if !cfg.KeepStaleArtifacts {
		if err := stash.hold(previous); err != nil {
			return report, err
		}
		previous = nil
	}

	logger.Info("Building wheel", "package", cfg.PackageName, "outdir", outDir)
	status, err := o.Packager.BuildArchive(ctx, cfg.PackageDir, outDir)
	if err != nil || status != 0 {
		if status == 0 {
			status = 1
		}
		if discardErr := o.discardNewArtifacts(outDir, previous); discardErr != nil {
			logger.Warn("Could not remove partial artifacts", "err", discardErr)
		}
		if restoreErr := stash.restore(); restoreErr != nil {
			logger.Warn("Could not restore previous artifacts", "err", restoreErr)
		}
		return report, &PackagerError{Status: status, Err: err}
	}
	if err := stash.drop(); err != nil {
		logger.Warn("Could not remove previous artifacts", "err", err)
	}
	report.State = StateBuilt

	// Built -> Reported
	artifacts, err := ListArtifacts(outDir, cfg.PackageName)
	if err != nil {
		return report, err
	}
	report.Artifacts = artifacts
	report.State = StateReported

	return report, nil
}

// discardNewArtifacts removes wheels a failed run left behind. Names in keep
// existed before the run and are left alone.
func (o *Orchestrator) discardNewArtifacts(outDir string, keep []string) error {
	current, err := ListArtifacts(outDir, o.Config.PackageName)
	if err != nil {
		return err
	}

	var errs []error
	for _, name := range current {
		if slices.Contains(keep, name) {
			continue
		}
		path := filepath.Join(outDir, name)
		if err := removeIfExists(path); err != nil {
			errs = append(errs, err)
			continue
		}
		orDiscard(o.Logger).Debug("Removed partial artifact", "path", path)
	}
	return errors.Join(errs...)
}

// artifactStash moves wheels of earlier runs aside while the packager runs.
// They are deleted once the new wheel exists and put back if the build fails.
type artifactStash struct {
	dir    string
	holdAt string
	names  []string
}

func (s *artifactStash) hold(names []string) error {
	if len(names) == 0 {
		return nil
	}
	holdAt, err := os.MkdirTemp(s.dir, ".stale-")
	if err != nil {
		return fmt.Errorf("failed to set aside previous artifacts: %w", err)
	}
	s.holdAt = holdAt

	for _, name := range names {
		if err := os.Rename(filepath.Join(s.dir, name), filepath.Join(holdAt, name)); err != nil {
			return errors.Join(fmt.Errorf("failed to set aside %s: %w", name, err), s.restore())
		}
		s.names = append(s.names, name)
	}
	return nil
}

func (s *artifactStash) restore() error {
	if s.holdAt == "" {
		return nil
	}
	var errs []error
	for _, name := range s.names {
		if err := os.Rename(filepath.Join(s.holdAt, name), filepath.Join(s.dir, name)); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		errs = append(errs, os.Remove(s.holdAt))
		s.holdAt, s.names = "", nil
	}
	return errors.Join(errs...)
}

func (s *artifactStash) drop() error {
	if s.holdAt == "" {
		return nil
	}
	err := os.RemoveAll(s.holdAt)
	s.holdAt, s.names = "", nil
	return err
}

// ListArtifacts returns the sorted file names in dir that look like wheels of
// the named package.
func ListArtifacts(dir, packageName string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, ArtifactPattern(packageName)))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(matches))
	for _, match := range matches {
		names = append(names, filepath.Base(match))
	}
	sort.Strings(names)

	return names, nil
}
