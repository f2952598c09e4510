package wheelext

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Edition values reported by ProbeModules.
const (
	// EditionUnknown means the engine binary carries no edition marker.
	EditionUnknown = "UNKNOWN"
	// EditionDevelopment means the compiled modules could not be found.
	EditionDevelopment = "DEVELOPMENT"

	editionMarker = "PIVOT_EDITION_NAME="
)

// LoadState tags a LoadResult.
type LoadState int

const (
	// LoadStateUnavailable means at least one bound module is missing.
	LoadStateUnavailable LoadState = iota
	// LoadStateLoaded means every bound module was found.
	LoadStateLoaded
)

// String returns the state name.
func (s LoadState) String() string {
	switch s {
	case LoadStateLoaded:
		return "loaded"
	case LoadStateUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("LoadState(%d)", int(s))
	}
}

// ModuleBinding maps a compiled module name to the public alias consumers use.
type ModuleBinding struct {
	Module string
	Alias  string
}

// DefaultBindings are the modules the runtime package imports. The first
// binding is the engine, whose binary carries the edition marker.
var DefaultBindings = []ModuleBinding{
	{Module: "elbo_sdk_engine", Alias: "engine"},
	{Module: "elbo_sdk_shm_bridge", Alias: "_shm_bridge"},
	{Module: "elbo_sdk_shm_manager", Alias: "shm_manager"},
}

// LoadResult is the outcome of probing a directory for the compiled modules.
// Callers branch on State; Modules is only set when loaded, Reason only when
// unavailable.
type LoadResult struct {
	State   LoadState
	Modules map[string]string // alias -> binary path
	Edition string
	Reason  string
}

// Loaded reports whether every bound module was found.
func (r LoadResult) Loaded() bool {
	return r.State == LoadStateLoaded
}

// loaded builds a successful LoadResult. An empty edition becomes
// EditionUnknown.
func loaded(modules map[string]string, edition string) LoadResult {
	if edition == "" {
		edition = EditionUnknown
	}
	return LoadResult{State: LoadStateLoaded, Modules: modules, Edition: edition}
}

func unavailable(reason string) LoadResult {
	return LoadResult{State: LoadStateUnavailable, Edition: EditionDevelopment, Reason: reason}
}

// ProbeModules checks dir for <module><suffix> for every binding.
//
// A missing module degrades to an Unavailable result rather than an error so
// development checkouts without native builds still work. The edition is read
// from a PIVOT_EDITION_NAME=<value> marker in the first binding's binary.
func ProbeModules(dir, suffix string, bindings []ModuleBinding) LoadResult {
	if len(bindings) == 0 {
		bindings = DefaultBindings
	}

	modules := make(map[string]string, len(bindings))
	for _, binding := range bindings {
		path := filepath.Join(dir, binding.Module+suffix)
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return unavailable(fmt.Sprintf("compiled module %s not found in %s", binding.Module, dir))
			}
			return unavailable(err.Error())
		}
		if !info.Mode().IsRegular() {
			return unavailable(fmt.Sprintf("%s is not a regular file", path))
		}
		modules[binding.Alias] = path
	}

	edition, err := readEdition(modules[bindings[0].Alias])
	if err != nil {
		return unavailable(err.Error())
	}

	return loaded(modules, edition)
}

// readEdition scans a binary for the edition marker. The value runs until the
// first NUL, newline, or quote. A binary without the marker yields "".
func readEdition(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	i := bytes.Index(data, []byte(editionMarker))
	if i < 0 {
		return "", nil
	}
	value := data[i+len(editionMarker):]
	if end := bytes.IndexAny(value, "\x00\n\r\""); end >= 0 {
		value = value[:end]
	}
	return string(bytes.TrimSpace(value)), nil
}
