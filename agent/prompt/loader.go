package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/assistant.txt
	assistantRaw string

	//go:embed template/answer.txt
	answerRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Assistant string
	Answer    string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Assistant: strings.TrimSpace(assistantRaw),
		Answer:    strings.TrimSpace(answerRaw),
	}
}
