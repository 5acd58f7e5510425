package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the learner profile and all recorded events",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Print("This deletes all progress, sessions and LLM history. Continue? [y/N] ")
			answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			switch strings.ToLower(strings.TrimSpace(answer)) {
			case "y", "yes":
			default:
				fmt.Println("Aborted.")
				return nil
			}
		}

		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.store.Reset(env.ctx); err != nil {
			return fmt.Errorf("reset store: %w", err)
		}
		if err := env.profiles.Reset(env.ctx); err != nil {
			return fmt.Errorf("reset profile: %w", err)
		}
		env.log.Info().Msg("learner data reset")
		fmt.Println("✓ Progress reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
