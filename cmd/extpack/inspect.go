package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	wheelext "github.com/nwierzbowski/elbo-sdk"
)

func newInspectCommand(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "inspect [dir]",
		Short: "Check which compiled SDK modules are present",
		Long: `Probe a directory (the source directory by default) for the compiled
engine, shared-memory bridge and shared-memory manager modules, the way the
runtime package loads them. Missing modules are reported as DEVELOPMENT mode
rather than an error unless --strict is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			dir := cfg.PackageConfig().SourceDir
			if len(args) == 1 {
				dir = args[0]
			}

			result := wheelext.ProbeModules(dir, wheelext.NativeSuffix(), wheelext.DefaultBindings)
			printLoadResult(a, dir, result)

			if strict && !result.Loaded() {
				return &ExitError{Code: 1, Err: fmt.Errorf("compiled modules unavailable: %s", result.Reason)}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any module is missing")
	return cmd
}

func printLoadResult(a *app, dir string, result wheelext.LoadResult) {
	fmt.Fprintln(a.stdout, TitleStyle.Render("Modules in "+dir))

	switch result.State {
	case wheelext.LoadStateLoaded:
		aliases := make([]string, 0, len(result.Modules))
		for alias := range result.Modules {
			aliases = append(aliases, alias)
		}
		sort.Strings(aliases)
		for _, alias := range aliases {
			fmt.Fprintln(a.stdout, ItemStyle.Render(alias+" → "+result.Modules[alias]))
		}
		fmt.Fprintln(a.stdout, SuccessStyle.Render("Edition: "+result.Edition))
	default:
		fmt.Fprintln(a.stdout, WarningStyle.Render("Unavailable: "+result.Reason))
		fmt.Fprintln(a.stdout, WarningStyle.Render("Edition: "+result.Edition))
	}
}
