package cmd

import (
	"fmt"
	"os"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const updateRepo = "mcptool/mcptool"

func newSelfUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selfupdate",
		Short: "Update mcptool to the latest release",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newOutput()

			latest, found, err := selfupdate.DetectLatest(cmd.Context(), selfupdate.ParseSlug(updateRepo))
			if err != nil {
				return fmt.Errorf("error occurred while detecting version: %w", err)
			}
			if !found {
				return fmt.Errorf("latest version could not be found from repository %s", updateRepo)
			}

			if latest.LessOrEqual(version) {
				out.Text("Current version (%s) is the latest", version)
				return nil
			}

			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("could not locate executable path: %w", err)
			}

			out.Text("Updating to version %s", latest.Version())
			if err := selfupdate.UpdateTo(cmd.Context(), latest.AssetURL, latest.AssetName, exe); err != nil {
				return fmt.Errorf("error occurred while updating binary: %w", err)
			}

			out.TraceSuccess("Successfully updated to version %s", latest.Version())
			return nil
		},
	}
}
