package wheelext

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

const wheelGenerator = "extpack"

// WheelPackager is the built-in packaging tool.
//
// It performs the same steps a setuptools build with a precompiled build_ext
// override would: discover modules in the source directory (both known
// suffixes), declare stub targets for them, let the BuilderFactory stage each
// one under <workDir>/build/lib, and archive the staging tree as a wheel.
type WheelPackager struct {
	Config  *PackageConfig
	Factory *BuilderFactory
	Logger  *log.Logger
}

// NewWheelPackager creates a WheelPackager using the standard factory.
func NewWheelPackager(config *PackageConfig, logger *log.Logger) *WheelPackager {
	return &WheelPackager{
		Config:  config,
		Factory: NewBuilderFactory(),
		Logger:  logger,
	}
}

// BuildArchive stages every discovered module and writes the wheel to outDir.
// Any staging failure aborts the build with status 1 and no wheel.
func (p *WheelPackager) BuildArchive(ctx context.Context, workDir, outDir string) (ExitStatus, error) {
	logger := orDiscard(p.Logger)

	meta, err := ReadProjectMetadata(workDir)
	if err != nil {
		return 1, err
	}
	name, version := p.distribution(meta)

	modules, err := DiscoverModules(p.Config.SourceDir, KnownSuffixes...)
	if err != nil {
		return 1, err
	}
	targets := MakeStubTargets(modules, p.Config.namespace())

	buildLib := filepath.Join(workDir, "build", "lib")
	buildConfig := &BuildConfig{
		SourceDir:     p.Config.SourceDir,
		BuildLib:      buildLib,
		Suffix:        ExtensionSuffix(hostOS(p.Config.GOOS)),
		Verbose:       p.Config.Verbose,
		StopOnFailure: true,
		Logger:        p.Logger,
	}

	if _, err := p.Factory.BuildAllExtensions(ctx, buildConfig, targets); err != nil {
		return 1, err
	}

	if err := p.stagePythonSources(workDir, buildLib, meta); err != nil {
		return 1, err
	}

	wheelPath := filepath.Join(outDir, wheelFilename(name, version, p.tags()))
	if err := writeWheel(wheelPath, buildLib, name, version, p.tags()); err != nil {
		return 1, err
	}

	logger.Info("Wrote wheel", "path", wheelPath, "extensions", len(targets))
	return 0, nil
}

func (p *WheelPackager) distribution(meta ProjectMetadata) (name, version string) {
	name = p.Config.PackageName
	if name == "" {
		name = meta.Name
	}
	version = meta.Version
	if version == "" {
		version = p.Config.Version
	}
	if version == "" {
		version = "0.0.0"
	}
	return name, version
}

type wheelTags struct {
	python, abi, platform string
}

func (p *WheelPackager) tags() wheelTags {
	t := wheelTags{
		python:   p.Config.PythonTag,
		abi:      p.Config.AbiTag,
		platform: p.Config.PlatformTag,
	}
	if t.python == "" {
		t.python = "py3"
	}
	if t.abi == "" {
		t.abi = "none"
	}
	if t.platform == "" {
		t.platform = DefaultPlatformTag(hostOS(p.Config.GOOS), runtime.GOARCH)
	}
	return t
}

// pythonSourceDir finds the package's Python sources. In order: the
// setuptools package-dir entry for the package, <workDir>/<package>, and
// finally workDir itself, which is the layout where the project root is the
// package.
func (p *WheelPackager) pythonSourceDir(workDir string, meta ProjectMetadata) string {
	if rel, ok := meta.PackageDirs[p.Config.PackageName]; ok {
		return filepath.Join(workDir, filepath.FromSlash(rel))
	}
	if info, err := os.Stat(filepath.Join(workDir, p.Config.PackageName)); err == nil && info.IsDir() {
		return filepath.Join(workDir, p.Config.PackageName)
	}
	return workDir
}

// stagePythonSources copies the package's *.py files next to the staged
// extensions. When the sources live in the project root only its top-level
// modules are taken, without setup.py.
func (p *WheelPackager) stagePythonSources(workDir, buildLib string, meta ProjectMetadata) error {
	srcDir := p.pythonSourceDir(workDir, meta)
	if info, err := os.Stat(srcDir); err != nil || !info.IsDir() {
		return nil
	}
	atRoot := filepath.Clean(srcDir) == filepath.Clean(workDir)

	destRoot := filepath.Join(append([]string{buildLib}, strings.Split(p.Config.namespace(), ".")...)...)
	logger := orDiscard(p.Logger)

	return filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if atRoot && path != srcDir {
				return fs.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".py" || (atRoot && d.Name() == "setup.py") {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		logger.Debug("Staging Python source", "file", rel)
		return copyFile(path, filepath.Join(destRoot, rel))
	})
}

// DefaultPlatformTag maps a GOOS/GOARCH pair to a wheel platform tag.
func DefaultPlatformTag(goos, goarch string) string {
	arch := map[string]string{
		"amd64": "x86_64",
		"arm64": "aarch64",
		"386":   "i686",
	}[goarch]
	if arch == "" {
		arch = goarch
	}

	switch strings.ToLower(goos) {
	case "linux":
		return "linux_" + arch
	case "darwin":
		if goarch == "arm64" {
			return "macosx_11_0_arm64"
		}
		return "macosx_10_9_" + arch
	case platformWindows:
		if goarch == "386" {
			return "win32"
		}
		return "win_" + goarch
	default:
		return "any"
	}
}

func hostOS(goos string) string {
	if goos == "" {
		return runtime.GOOS
	}
	return goos
}

func wheelFilename(name, version string, t wheelTags) string {
	return fmt.Sprintf("%s-%s-%s-%s-%s.whl", normalizeDistName(name), version, t.python, t.abi, t.platform)
}

// ArtifactPattern returns the glob matching wheels of the named distribution.
func ArtifactPattern(name string) string {
	return normalizeDistName(name) + "-*.whl"
}

func normalizeDistName(name string) string {
	return strings.NewReplacer("-", "_", ".", "_").Replace(name)
}

// writeWheel archives root into wheelPath and appends the .dist-info files.
// A partially written wheel is removed on failure.
func writeWheel(wheelPath, root, name, version string, t wheelTags) (err error) {
	if err := os.MkdirAll(filepath.Dir(wheelPath), 0o755); err != nil {
		return err
	}

	file, err := os.Create(wheelPath)
	if err != nil {
		return fmt.Errorf("failed to create wheel: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(wheelPath)
		}
	}()
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	zw := zip.NewWriter(file)
	defer func() {
		if closeErr := zw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	var record bytes.Buffer
	add := func(zipPath string, data []byte, mode fs.FileMode) error {
		header := &zip.FileHeader{Name: zipPath, Method: zip.Deflate}
		header.SetMode(mode)
		w, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("failed to create wheel entry %s: %w", zipPath, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write wheel entry %s: %w", zipPath, err)
		}
		sum := sha256.Sum256(data)
		fmt.Fprintf(&record, "%s,sha256=%s,%d\n", zipPath, base64.RawURLEncoding.EncodeToString(sum[:]), len(data))
		return nil
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrNotExist) && path == root {
				return fs.SkipDir
			}
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return add(filepath.ToSlash(rel), data, info.Mode().Perm())
	})
	if walkErr != nil {
		return fmt.Errorf("failed to archive %s: %w", root, walkErr)
	}

	distInfo := fmt.Sprintf("%s-%s.dist-info", normalizeDistName(name), version)

	metadata := fmt.Sprintf("Metadata-Version: 2.1\nName: %s\nVersion: %s\n", name, version)
	if err := add(distInfo+"/METADATA", []byte(metadata), 0o644); err != nil {
		return err
	}

	wheel := fmt.Sprintf("Wheel-Version: 1.0\nGenerator: %s\nRoot-Is-Purelib: false\nTag: %s-%s-%s\n",
		wheelGenerator, t.python, t.abi, t.platform)
	if err := add(distInfo+"/WHEEL", []byte(wheel), 0o644); err != nil {
		return err
	}

	recordPath := distInfo + "/RECORD"
	fmt.Fprintf(&record, "%s,,\n", recordPath)
	header := &zip.FileHeader{Name: recordPath, Method: zip.Deflate}
	header.SetMode(0o644)
	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create wheel entry %s: %w", recordPath, err)
	}
	_, err = w.Write(record.Bytes())
	return err
}
