package cmd

import (
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <level-id>",
	Short: "Start the TUI directly on a level",
	Long: `Start the TUI on the given level. The level must be unlocked and at
least one life must be left. Run "academy levels" to list level ids.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, args[0])
	},
}
