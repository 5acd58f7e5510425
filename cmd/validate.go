package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nu9ve/academy/internal/content"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|dir>...",
	Short: "Validate level or course JSON files",
	Long: `Check content files against the level schema and the structural rules
(exactly one correct option per item, unique item ids, non-negative points).
Directories are scanned for *.json files.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var paths []string
		for _, arg := range args {
			expanded, err := expandContentPath(arg)
			if err != nil {
				return err
			}
			paths = append(paths, expanded...)
		}

		var failed int
		for _, p := range paths {
			c, err := content.LoadFile(p)
			if err != nil {
				failed++
				fmt.Printf("✗ %s\n", p)
				printContentError(err)
				continue
			}
			items := 0
			for _, l := range c.Levels {
				items += len(l.Items)
			}
			fmt.Printf("✓ %s  (%d levels, %d items)\n", p, len(c.Levels), items)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d files invalid", failed, len(paths))
		}
		return nil
	},
}

func expandContentPath(p string) ([]string, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{p}, nil
	}
	matches, err := filepath.Glob(filepath.Join(p, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no .json files in %s", p)
	}
	return matches, nil
}

func printContentError(err error) {
	var ce *content.ContentError
	if errors.As(err, &ce) {
		for _, pr := range ce.Problems {
			if pr.ItemID != "" {
				fmt.Printf("    %s/%s: %s\n", ce.LevelID, pr.ItemID, pr.Message)
			} else {
				fmt.Printf("    %s: %s\n", ce.LevelID, pr.Message)
			}
		}
		return
	}
	fmt.Printf("    %v\n", err)
}
