package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	wheelext "github.com/nwierzbowski/elbo-sdk"
	"github.com/nwierzbowski/elbo-sdk/internal/config"
)

// app carries per-invocation state shared by the commands.
type app struct {
	v       *viper.Viper
	cfgFile string

	stdout io.Writer
	stderr io.Writer

	// newPackager selects the packaging tool; tests replace it.
	newPackager func(cfg *config.Config, pc *wheelext.PackageConfig, logger *log.Logger) wheelext.Packager
}

func newApp(stdout, stderr io.Writer) *app {
	a := &app{
		v:      config.New(),
		stdout: stdout,
		stderr: stderr,
	}
	a.newPackager = a.defaultPackager
	return a
}

// defaultPackager streams the packaging tool's output straight to the console.
func (a *app) defaultPackager(cfg *config.Config, pc *wheelext.PackageConfig, logger *log.Logger) wheelext.Packager {
	if cfg.Packager == config.PackagerBuiltin {
		return wheelext.NewWheelPackager(pc, logger)
	}
	p := wheelext.NewPythonBuildPackager(cfg.Python)
	p.Stdout = a.stdout
	p.Stderr = a.stderr
	return p
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "extpack",
		Short: "Package precompiled native extension modules into a wheel",
		Long: TitleStyle.Render("extpack") + SubtitleStyle.Render(" - wheels from precompiled extension modules") + `

extpack does not compile anything. It expects the native build (CMake/Ninja)
to have placed <module>.so or <module>.pyd files in the source directory,
clears stale build state in the package directory, and runs the packaging
tool to produce a wheel in the output directory.

` + SubtitleStyle.Render("Examples:") + `
  extpack                        Build into ./dist
  extpack -o ../pivot/wheels     Build into another directory
  extpack --packager builtin     Build without a Python toolchain
  extpack inspect                Show which compiled modules are present
  extpack clean                  Remove stale build directories`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runBuild,
	}

	pflags := rootCmd.PersistentFlags()
	pflags.StringVar(&a.cfgFile, "config", "", "config file (default is <root>/extpack.yaml)")
	pflags.String("root", ".", "directory other relative paths are resolved against")
	pflags.String("package-dir", "", "package root holding pyproject.toml (default build_wheel)")
	pflags.String("source-dir", "", "directory with the precompiled modules (default lib)")
	pflags.BoolP("verbose", "v", false, "enable verbose output")

	flags := rootCmd.Flags()
	flags.StringP("output-dir", "o", "", "output directory for the wheel (default dist)")
	flags.String("packager", "", "packaging tool: command or builtin (default command)")
	flags.String("python", "", "python interpreter used by the command packager (default python3)")
	flags.Bool("keep-stale", false, "keep wheels from earlier runs in the output directory")
	flags.String("report", "", "write a YAML build report to this file")

	_ = a.v.BindPFlag("root", pflags.Lookup("root"))
	_ = a.v.BindPFlag("package_dir", pflags.Lookup("package-dir"))
	_ = a.v.BindPFlag("source_dir", pflags.Lookup("source-dir"))
	_ = a.v.BindPFlag("verbose", pflags.Lookup("verbose"))
	_ = a.v.BindPFlag("output_dir", flags.Lookup("output-dir"))
	_ = a.v.BindPFlag("packager", flags.Lookup("packager"))
	_ = a.v.BindPFlag("python", flags.Lookup("python"))
	_ = a.v.BindPFlag("keep_stale_artifacts", flags.Lookup("keep-stale"))
	_ = a.v.BindPFlag("report", flags.Lookup("report"))

	rootCmd.AddCommand(newCleanCommand(a))
	rootCmd.AddCommand(newInspectCommand(a))

	return rootCmd
}

func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return nil, &ExitError{Code: 1, Err: err}
	}
	return cfg, nil
}

func (a *app) runBuild(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	logger := wheelext.NewLogger(a.stderr, cfg.Verbose)
	if used := a.v.ConfigFileUsed(); used != "" {
		logger.Debug("Using config file", "path", used)
	}

	pc := cfg.PackageConfig()
	orch := wheelext.NewOrchestrator(pc, a.newPackager(cfg, pc, logger), logger)
	report, runErr := orch.Run(cmd.Context())

	if cfg.Report != "" {
		if err := report.WriteYAML(cfg.Resolve(cfg.Report)); err != nil {
			logger.Warn("Could not write build report", "err", err)
		}
	}

	if len(report.Modules) > 0 {
		fmt.Fprintln(a.stdout, TitleStyle.Render(fmt.Sprintf("Found %d compiled modules:", len(report.Modules))))
		for _, module := range report.Modules {
			fmt.Fprintln(a.stdout, ItemStyle.Render(module+report.Suffix))
		}
	}

	// fang renders the error itself.
	if runErr != nil {
		fmt.Fprintln(a.stdout, ErrorStyle.Render("Wheel build stopped after stage: "+report.State.String()))
		return &ExitError{Code: 1, Err: runErr}
	}

	fmt.Fprintln(a.stdout, SuccessStyle.Render("\nWheel built successfully in "+report.OutputDir))
	for _, artifact := range report.Artifacts {
		fmt.Fprintln(a.stdout, ItemStyle.Render(artifact))
	}

	return nil
}
