package prompt

import (
	"strings"
	"testing"
)

func TestLoadPromptSet(t *testing.T) {
	t.Parallel()

	set := LoadPromptSet()
	if !strings.Contains(set.Assistant, "{today}") {
		t.Fatal("assistant prompt must expose the {today} variable")
	}
	if !strings.Contains(set.Answer, "{context}") {
		t.Fatal("answer prompt must expose the {context} variable")
	}
	if set.Answer != strings.TrimSpace(set.Answer) {
		t.Fatal("prompts must be trimmed")
	}
}
