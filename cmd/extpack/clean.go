package main

import (
	"fmt"

	"github.com/spf13/cobra"

	wheelext "github.com/nwierzbowski/elbo-sdk"
)

func newCleanCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove stale build directories from the package root",
		Long: `Remove the build/ workspace and <package>.egg-info metadata left in the
package root by a previous run. The output and source directories are not
touched. Running it with nothing to clean succeeds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			pc := cfg.PackageConfig()
			removed, err := wheelext.Cleanup(pc.PackageDir, pc.PackageName)
			if err != nil {
				return &ExitError{Code: 1, Err: err}
			}

			if len(removed) == 0 {
				fmt.Fprintln(a.stdout, SubtitleStyle.Render("Nothing to clean in "+pc.PackageDir))
				return nil
			}
			for _, path := range removed {
				fmt.Fprintln(a.stdout, SuccessStyle.Render("Removed ")+path)
			}
			return nil
		},
	}
}
