package cmd

import "github.com/spf13/cobra"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "srhbot",
	Short: "Sexual and reproductive health chatbot for young people",
	Long: `srhbot answers sexual and reproductive health questions from young people.
Every message is screened for crisis language first, then for requests for
professional help, and is otherwise answered from curated, age-appropriate
content rendered in the user's chosen tone.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: config/config.yaml if present)")
}
