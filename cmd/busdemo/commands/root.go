package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "busdemo",
	Short: "Inspect message bus dispatch order from the command line",
	Long: `busdemo registers a small demo handler set against a fresh bus and
emits one message of the requested category, printing the observed
visit trace (interceptors, GlobalAcceptAll, handlers, post-processors, in
pipeline order).`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(emitCmd)
}
