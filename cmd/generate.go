package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nu9ve/academy/internal/content"
	"github.com/nu9ve/academy/internal/levelgen"
	"github.com/nu9ve/academy/internal/llm"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new level with an LLM",
	Long: `Ask the configured LLM provider for a new level on a topic, validate it,
and write it to the content directory where the TUI picks it up.

The provider comes from the llm config section or ACADEMY_LLM_PROVIDER with
ACADEMY_<PROVIDER>_API_KEY. Without either, the standard GEMINI_API_KEY,
OPENAI_API_KEY, ANTHROPIC_API_KEY and OPENROUTER_API_KEY are checked.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("topic", "", "Communication skill the level practises (required)")
	generateCmd.Flags().String("type", string(content.TypeQuiz), "Level type: roleplay, quiz, story, interactive, video")
	generateCmd.Flags().Int("items", 5, "Number of items")
	generateCmd.Flags().String("language", "es", "Language of the generated text (es, en, pt)")
	generateCmd.Flags().String("course", content.DefaultCourseID, "Course id stamped on the level")
	generateCmd.Flags().StringP("out", "o", "", "Output file (default <content_dir>/<level-id>.json, - for stdout)")
	_ = generateCmd.MarkFlagRequired("topic")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	levelType, _ := cmd.Flags().GetString("type")
	items, _ := cmd.Flags().GetInt("items")
	language, _ := cmd.Flags().GetString("language")
	courseID, _ := cmd.Flags().GetString("course")
	out, _ := cmd.Flags().GetString("out")

	env, err := openEnv(cmd, envOptions{})
	if err != nil {
		return err
	}
	defer env.Close()

	llmCfg := env.cfg.LLM
	if !llmCfg.HasKey() {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			return fmt.Errorf("LLM provider: %w", llmCfg.Validate())
		}
		llmCfg = discovered
	}
	client, err := llm.Open(env.ctx, llmCfg, env.store.EventRepo())
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	var ids, titles []string
	for _, l := range env.catalog.Levels() {
		ids = append(ids, l.ID)
		titles = append(titles, l.Title)
		for _, it := range l.Items {
			ids = append(ids, it.ID)
		}
	}

	fmt.Fprintf(os.Stderr, "Generating %s level on %q with %s (%s)...\n",
		levelType, topic, client.Vendor(), client.Model(llm.PurposeLevelDraft))
	gen := levelgen.New(client, levelgen.DefaultConfig())
	res, err := gen.Generate(env.ctx, levelgen.Input{
		Topic:          topic,
		Type:           content.LevelType(levelType),
		Items:          items,
		Language:       language,
		CourseID:       courseID,
		ExistingIDs:    ids,
		ExistingTitles: titles,
	})
	if err != nil {
		return err
	}
	lvl := res.Level

	data, err := json.MarshalIndent(lvl, "", "  ")
	if err != nil {
		return fmt.Errorf("encode level: %w", err)
	}
	data = append(data, '\n')

	if out == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			return err
		}
		printGenerationCost(res)
		return nil
	}
	if out == "" {
		dir, err := contentDir(env.cfg)
		if err != nil {
			return err
		}
		out = filepath.Join(dir, lvl.ID+".json")
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create content dir: %w", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write level: %w", err)
	}

	fmt.Printf("✓ %s: %s (%d items)\n", lvl.ID, lvl.Title, len(lvl.Items))
	fmt.Printf("  written to %s\n", out)
	printGenerationCost(res)
	return nil
}

// printGenerationCost reports attempts and token spend on stderr so it never
// mixes with a level written to stdout.
func printGenerationCost(res *levelgen.Result) {
	plural := "s"
	if res.Attempts == 1 {
		plural = ""
	}
	fmt.Fprintf(os.Stderr, "  %d attempt%s, %d in / %d out tokens",
		res.Attempts, plural, res.Usage.InputTokens, res.Usage.OutputTokens)
	if mc := llm.LookupCost(res.Model); mc != nil {
		fmt.Fprintf(os.Stderr, ", about %s", formatCost(mc.Cost(res.Usage.InputTokens, res.Usage.OutputTokens)))
	}
	fmt.Fprintln(os.Stderr)
}
