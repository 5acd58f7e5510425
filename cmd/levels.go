package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List levels with lock, completion and best medal",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		courseFilter, _ := cmd.Flags().GetString("course")
		p := env.profiles.Profile()

		for _, course := range env.catalog.Courses() {
			if courseFilter != "" && course.ID != courseFilter {
				continue
			}
			fmt.Printf("%s (%s)\n", course.Title, course.ID)
			fmt.Println(strings.Repeat("─", 78))
			fmt.Printf("  %-24s  %-30s  %-11s  %-6s  %s\n", "ID", "Title", "Type", "Items", "Status")

			for _, l := range course.Levels {
				status := "locked"
				switch rec := p.Record(l.ID); {
				case rec != nil:
					status = fmt.Sprintf("%s, best %d", rec.BestMedal.DisplayName(), rec.BestScore)
				case p.IsUnlocked(l.ID):
					status = "open"
				}
				fmt.Printf("  %-24s  %-30s  %-11s  %-6d  %s\n",
					truncate(l.ID, 24), truncate(l.Title, 30), l.Type.DisplayName(), len(l.Items), status)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	levelsCmd.Flags().String("course", "", "Only list levels of this course id")
}
