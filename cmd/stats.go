package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nu9ve/academy/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the learner profile and recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		if _, err := env.profiles.Refresh(env.ctx); err != nil {
			return err
		}
		pcfg := env.profiles.Config()
		p := env.profiles.Profile()

		fmt.Println("Profile")
		fmt.Println(strings.Repeat("─", 40))
		fmt.Printf("  Lives:        %d/%d", p.Lives, pcfg.MaxLives)
		if p.Lives < pcfg.MaxLives {
			fmt.Printf("  (next in %s)", p.NextLifeIn(pcfg, time.Now()).Round(time.Second))
		}
		fmt.Println()
		fmt.Printf("  Coins:        %d\n", p.Coins)
		fmt.Printf("  XP:           %d (level %d, %d/%d)\n", p.XP, p.PlayerLevel(pcfg), p.LevelProgress(pcfg), pcfg.XPPerLevel)
		fmt.Printf("  Completed:    %d/%d levels\n", p.Completed(), len(env.catalog.Levels()))

		limit, _ := cmd.Flags().GetInt("limit")
		sessions, err := env.store.EventRepo().QuerySessionSummaries(env.ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		fmt.Println()
		if len(sessions) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		fmt.Println("Recent sessions")
		fmt.Println(strings.Repeat("─", 86))
		fmt.Printf("  %-16s  %-24s  %-8s  %6s  %8s  %-9s  %6s\n", "Time", "Level", "Mode", "Score", "Mistakes", "Medal", "Secs")
		for _, s := range sessions {
			fmt.Printf("  %-16s  %-24s  %-8s  %6d  %8d  %-9s  %6d\n",
				s.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(s.LevelID, 24),
				s.Mode,
				s.Score,
				s.Mistakes,
				s.Medal,
				s.DurationSecs,
			)
		}

		levelID, _ := cmd.Flags().GetString("level")
		if levelID == "" {
			return nil
		}
		acc, err := env.store.EventRepo().ItemAccuracy(env.ctx, levelID)
		if err != nil {
			return fmt.Errorf("query accuracy: %w", err)
		}
		fmt.Println()
		fmt.Printf("Item accuracy for %s\n", levelID)
		fmt.Println(strings.Repeat("─", 50))
		for _, a := range acc {
			fmt.Printf("  %-24s  %3d/%-3d  %5.1f%%\n", truncate(a.ItemID, 24), a.Correct, a.Attempts, a.Rate()*100)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("limit", 10, "Number of recent sessions to show")
	statsCmd.Flags().String("level", "", "Also show per-item accuracy for this level id")
}
