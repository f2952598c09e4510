package wheelext

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// extFullPath returns where the packager expects the compiled output of the
// qualified target: each dotted segment but the last becomes a directory under
// buildLib, and the last segment is the file stem.
func extFullPath(buildLib, qualified, suffix string) string {
	parts := strings.Split(qualified, ".")
	parts[len(parts)-1] += suffix
	return filepath.Join(append([]string{buildLib}, parts...)...)
}

// simpleName returns the last segment of a dotted target name.
func simpleName(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

// copyFile copies srcPath to destPath, creating missing parent directories.
// Permission bits and the modification time of the source are carried over.
// The source is checked before anything is written, so a missing source
// leaves no trace at the destination.
func copyFile(srcPath, destPath string) error {
	info, err := os.Stat(srcPath)
	if err != nil {
		return err
	}

	dir := filepath.Dir(destPath)
	if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
		return mkErr
	}

	in, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	if err = out.Close(); err != nil {
		return err
	}

	// OpenFile is subject to the umask and leaves an existing file's mode alone.
	if err = os.Chmod(destPath, info.Mode().Perm()); err != nil {
		return err
	}

	return os.Chtimes(destPath, info.ModTime(), info.ModTime())
}
