package levelgen

import (
	"testing"

	"github.com/nu9ve/academy/internal/content"
)

func spreadLevel(correct ...int) *content.Level {
	l := &content.Level{ID: "l", Type: content.TypeQuiz}
	for i, c := range correct {
		it := content.Item{ID: string(rune('a' + i)), Prompt: "p"}
		for j := 0; j < 3; j++ {
			it.Options = append(it.Options, content.Option{Text: "o", Correct: j == c})
		}
		l.Items = append(l.Items, it)
	}
	return l
}

func TestAnswerSpreadValidator(t *testing.T) {
	v := &AnswerSpreadValidator{}
	tests := []struct {
		name    string
		correct []int
		wantErr bool
	}{
		{"all first", []int{0, 0, 0}, true},
		{"varied", []int{0, 1, 0}, false},
		{"too few items to judge", []int{2, 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(spreadLevel(tt.correct...), Input{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUniqueIDValidator(t *testing.T) {
	v := &UniqueIDValidator{}
	l := spreadLevel(0, 1)

	if err := v.Validate(l, Input{ExistingIDs: []string{"other"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v.Validate(l, Input{ExistingIDs: []string{"l"}}); err == nil {
		t.Fatal("expected level ID clash")
	}
	if err := v.Validate(l, Input{ExistingIDs: []string{"b"}}); err == nil {
		t.Fatal("expected item ID clash")
	}
}

func TestBuildTitles(t *testing.T) {
	if got := buildTitles(nil, 5); got != "None" {
		t.Fatalf("got %q", got)
	}
	got := buildTitles([]string{"a", "b", "c"}, 2)
	if got != "1. b\n2. c" {
		t.Fatalf("got %q", got)
	}
}
