package wheelext

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
)

// DiscoverModules returns the sorted, distinct module names found in dir.
//
// A module is any regular file whose name ends with one of the given
// suffixes; its name is the file name with the suffix removed. When no
// suffixes are given, KnownSuffixes is used. Matching is case-sensitive.
//
// A missing directory is not an error: the result is simply empty.
func DiscoverModules(dir string, suffixes ...string) ([]string, error) {
	if len(suffixes) == 0 {
		suffixes = KnownSuffixes
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to scan %s for compiled modules: %w", dir, err)
	}

	seen := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name, ok := moduleName(entry.Name(), suffixes); ok {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// moduleName strips the first matching suffix from filename.
func moduleName(filename string, suffixes []string) (string, bool) {
	for _, suffix := range suffixes {
		if suffix == "" || !strings.HasSuffix(filename, suffix) {
			continue
		}
		if stem := strings.TrimSuffix(filename, suffix); stem != "" {
			return stem, true
		}
	}
	return "", false
}
