package wheelext

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ProjectMetadata is the subset of pyproject.toml the packager reads.
type ProjectMetadata struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`

	// PackageDirs is [tool.setuptools] package-dir: package name to source
	// directory, relative to the project root.
	PackageDirs map[string]string `toml:"-"`
}

type pyproject struct {
	Project ProjectMetadata `toml:"project"`
	Tool    struct {
		Setuptools struct {
			PackageDir map[string]string `toml:"package-dir"`
		} `toml:"setuptools"`
	} `toml:"tool"`
}

// ReadProjectMetadata loads the [project] table and the setuptools package-dir
// mapping from dir/pyproject.toml.
// A missing file yields zero metadata and no error.
func ReadProjectMetadata(dir string) (ProjectMetadata, error) {
	path := filepath.Join(dir, "pyproject.toml")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ProjectMetadata{}, nil
		}
		return ProjectMetadata{}, err
	}

	var doc pyproject
	if err := toml.Unmarshal(data, &doc); err != nil {
		return ProjectMetadata{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	meta := doc.Project
	meta.PackageDirs = doc.Tool.Setuptools.PackageDir
	return meta, nil
}
