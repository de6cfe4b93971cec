package cmd

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const repositorySlug = "s0up4200/hassctl"

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records build information injected by main.
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = v
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	// Needs neither config nor a client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "hassctl %s (built %s)\n", version, buildTime)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:               "update",
	Short:             "Update hassctl to the latest release",
	Args:              cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		current, err := semver.ParseTolerant(version)
		if err != nil {
			return fmt.Errorf("cannot update a development build (%s)", version)
		}

		latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repositorySlug))
		if err != nil {
			return fmt.Errorf("failed to check for updates: %w", err)
		}
		if !found || latest.LessOrEqual(current.String()) {
			fmt.Fprintf(cmd.OutOrStdout(), "hassctl %s is up to date\n", current)
			return nil
		}

		exe, err := selfupdate.ExecutablePath()
		if err != nil {
			return fmt.Errorf("could not locate executable: %w", err)
		}
		if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
			return fmt.Errorf("failed to update: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Updated hassctl %s -> %s\n", current, latest.Version())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd, updateCmd)
}
