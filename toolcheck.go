package wheelext

import (
	"fmt"
	"os/exec"
	"strings"
)

// ToolChecker is an optional interface for packagers that depend on external
// executables.
//
// The Orchestrator calls CheckTools right after discovery, ahead of Cleanup
// and the output directory, so a missing interpreter leaves the package
// directory and any earlier wheels untouched.
//
//	if checker, ok := packager.(ToolChecker); ok {
//	    if err := checker.CheckTools(); err != nil {
//	        return fmt.Errorf("packaging tools missing: %w", err)
//	    }
//	}
type ToolChecker interface {
	// RequiredTools returns the list of tools this packager needs.
	RequiredTools() []ToolRequirement

	// CheckTools returns nil if all required tools are found, or an error
	// naming the missing ones. Optional tools never cause errors.
	CheckTools() error
}

// ToolRequirement describes an executable dependency.
//
// Tool with alternatives:
//
//	ToolRequirement{
//	    Name:         "python3",
//	    Alternatives: []string{"python"},
//	    Purpose:      "wheel packaging frontend",
//	}
type ToolRequirement struct {
	// Name is the primary tool binary name (e.g., "python3").
	Name string

	// Alternatives can satisfy the requirement when Name is missing.
	Alternatives []string

	// Optional tools are checked but never cause an error.
	Optional bool

	// Purpose is a human-readable description of why this tool is needed.
	Purpose string
}

// CheckToolAvailable checks if a tool is available in the system PATH.
func CheckToolAvailable(tool string) error {
	if _, err := exec.LookPath(tool); err != nil {
		return fmt.Errorf("%s not found in PATH", tool)
	}
	return nil
}

// available reports whether the tool or one of its alternatives is on PATH.
func (r ToolRequirement) available() bool {
	for _, name := range append([]string{r.Name}, r.Alternatives...) {
		if CheckToolAvailable(name) == nil {
			return true
		}
	}
	return false
}

// String names the tool and, when set, its purpose.
func (r ToolRequirement) String() string {
	if r.Purpose == "" {
		return r.Name
	}
	return fmt.Sprintf("%s (%s)", r.Name, r.Purpose)
}

// CheckRequiredTools reports every non-optional requirement that neither the
// tool nor any alternative satisfies.
//
// One missing tool:
//
//	python3 (wheel packaging frontend) not found in PATH
//
// Several:
//
//	missing required tools: python3 (wheel packaging frontend), sh
func CheckRequiredTools(requirements []ToolRequirement) error {
	var missing []string
	for _, req := range requirements {
		if req.Optional || req.available() {
			continue
		}
		missing = append(missing, req.String())
	}

	switch len(missing) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("%s not found in PATH", missing[0])
	default:
		return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
	}
}
