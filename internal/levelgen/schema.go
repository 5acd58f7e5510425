package levelgen

import (
	"github.com/nu9ve/academy/internal/content"
	"github.com/nu9ve/academy/internal/llm"
)

// LevelSchema is the response schema: the same document accepted by
// content.ParseLevel.
var LevelSchema = &llm.Schema{
	Name:        "course-level",
	Description: "A multiple-choice lesson level with items, options, hints and feedback",
	Definition:  content.LevelDefinition(),
}
