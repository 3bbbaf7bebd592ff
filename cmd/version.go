package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"srhbot/content"
)

// Version is set via ldflags at build time.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of srhbot and its embedded content",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := content.Load(content.Embedded())
		if err != nil {
			return fmt.Errorf("loading embedded content: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "srhbot %s (content %s)\n", Version, b.Version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
