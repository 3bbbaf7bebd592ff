package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"srhbot/content"
)

var validateDir string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a content directory before deploying it",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := content.LoadDir(validateDir)
		out := cmd.OutOrStdout()
		if err != nil {
			var verr *content.ValidationError
			if errors.As(err, &verr) {
				fmt.Fprintf(out, "%d problems found:\n", len(verr.Problems))
				for _, p := range verr.Problems {
					fmt.Fprintf(out, "  - %s\n", p)
				}
				return errors.New("content is invalid")
			}
			return err
		}
		fmt.Fprintf(out, "OK: content %s, %d topics, %d hotlines\n", b.Version, b.Tables.TopicCount(), len(b.Hotlines))
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateDir, "dir", "", "content directory layered over the embedded content")
	rootCmd.AddCommand(validateCmd)
}
