package contract

import (
	statex "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/state"
)

type AgentType string

const (
	AgentTypeAssistant AgentType = "assistant"
	AgentTypeAnswer    AgentType = "answer"
)

// Dataset is the output of a DataSource: tabular rows plus free text.
type Dataset struct {
	CatalogRows  []statex.Row `json:"catalog_rows"`
	ScheduleRows []statex.Row `json:"schedule_rows"`
	Info         string       `json:"info"`
}

type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult is the uniform tool output. Text is always human readable; on
// failure it starts with "Error:" and Error holds the machine-readable kind.
type ToolResult struct {
	Tool  string `json:"tool"`
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// Failed reports whether the tool call was rejected.
func (r ToolResult) Failed() bool {
	return r.Error != ""
}
