package levelgen

import (
	"fmt"
	"strings"

	"github.com/nu9ve/academy/internal/content"
)

const systemPrompt = `You design short interactive lessons that teach effective communication to adults.

Rules:
- Produce one level as a JSON object matching the schema.
- Every item has between 2 and 4 options and exactly one option with "correct": true.
- Distractors must be plausible habits people really fall into, not jokes.
- Points are 0 for wrong options and 10 to 20 for the correct one.
- Each option's "feedback" explains in one sentence why the choice helps or hurts.
- Give every item a short hint that nudges without revealing the answer.
- For roleplay levels, set "principle" on each option to the communication principle it shows.
- For roleplay and story levels, write the items as consecutive scenes and set "has_continuity" to true; put the opening scene in "story".
- Vary which option position is correct across items.
- Use lowercase kebab-case IDs. Item IDs start with a short prefix derived from the level ID.`

func languageName(code string) string {
	switch strings.ToLower(code) {
	case "", "es":
		return "Spanish"
	case "en":
		return "English"
	case "pt":
		return "Portuguese"
	default:
		return code
	}
}

// buildUserMessage renders the generation request.
func buildUserMessage(in Input, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", in.Topic)
	fmt.Fprintf(&b, "Level type: %s\n", in.Type)
	fmt.Fprintf(&b, "Number of items: %d\n", in.Items)
	fmt.Fprintf(&b, "Language: %s\n", languageName(in.Language))
	fmt.Fprintf(&b, "Continuity: %t\n", wantsContinuity(in.Type))

	b.WriteString("\nLevels that already exist:\n")
	b.WriteString(buildTitles(in.ExistingTitles, cfg.MaxTitles))

	if len(in.ExistingIDs) > 0 {
		b.WriteString("\n\nDo not use these IDs: ")
		b.WriteString(strings.Join(in.ExistingIDs, ", "))
	}
	return b.String()
}

// buildRepairMessage asks for a fresh draft that avoids the reason the
// previous one was rejected.
func buildRepairMessage(in Input, cfg Config, rejected string) string {
	var b strings.Builder
	b.WriteString(buildUserMessage(in, cfg))
	b.WriteString("\n\nYour previous draft was rejected: ")
	b.WriteString(rejected)
	b.WriteString("\nReturn the whole level again with that problem fixed.")
	return b.String()
}

// buildTitles lists the most recent titles, or "None".
func buildTitles(titles []string, max int) string {
	if len(titles) == 0 {
		return "None"
	}
	if max > 0 && len(titles) > max {
		titles = titles[len(titles)-max:]
	}
	var b strings.Builder
	for i, t := range titles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t)
	}
	return strings.TrimRight(b.String(), "\n")
}

func wantsContinuity(t content.LevelType) bool {
	return t == content.TypeRoleplay || t == content.TypeStory
}
