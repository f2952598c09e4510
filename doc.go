// Package wheelext packages precompiled native extension modules into a
// distributable wheel.
//
// Nothing is compiled here. An external native build (CMake, Ninja) deposits
// <module>.so or <module>.pyd files into a source directory; this package
// discovers them, declares a source-less stub target for each, and routes every
// stub through a copy-only builder that places the binary where the packaging
// tool expects it.
//
// # Pipeline
//
//	Orchestrator
//	├── DiscoverModules   (suffix filtered, sorted, deduplicated)
//	├── Cleanup           (build/, <package>.egg-info)
//	└── Packager
//	    ├── CommandPackager  (python -m build --wheel)
//	    └── WheelPackager    (built-in)
//	        ├── MakeStubTargets
//	        └── BuilderFactory → PrecompiledBuilder (copy step)
//
// # Basic Usage
//
//	cfg := &wheelext.PackageConfig{
//	    PackageName: "elbo_sdk",
//	    PackageDir:  "build_wheel",
//	    SourceDir:   "lib",
//	    OutputDir:   "dist",
//	}
//
//	orch := wheelext.NewOrchestrator(cfg, wheelext.NewPythonBuildPackager("python3"), logger)
//	report, err := orch.Run(ctx)
//
// Every failure is fatal for the run: a missing binary, a stub target that
// declares sources, or a non-zero exit from the packaging tool all abort
// without producing a usable artifact.
package wheelext
