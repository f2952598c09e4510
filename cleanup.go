package wheelext

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// StaleDirs returns the directory names a previous packaging run leaves in
// the package root: the build workspace and the egg-info metadata.
func StaleDirs(packageName string) []string {
	return []string{"build", packageName + ".egg-info"}
}

// Cleanup removes the stale build directories of packageName from
// packageDir. Entries that do not exist are skipped, so running it twice is
// harmless. It returns the paths it actually removed.
func Cleanup(packageDir, packageName string) ([]string, error) {
	var removed []string

	for _, name := range StaleDirs(packageName) {
		path := filepath.Join(packageDir, name)
		if _, err := os.Lstat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return removed, fmt.Errorf("failed to inspect %s: %w", path, err)
		}

		if err := os.RemoveAll(path); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed = append(removed, path)
	}

	return removed, nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
