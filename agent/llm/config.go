package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/contract"
	openrouterx "github.com/tanpawarit/Chative-Restaurant-Ordering/pkg/openrouter"
)

const (
	BackendEino   = "eino"
	BackendOpenAI = "openai"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	AssistantModel       string  `envconfig:"ASSISTANT_MODEL" split_words:"true"`
	AnswerModel          string  `envconfig:"ANSWER_MODEL" split_words:"true"`
	AssistantTemperature float32 `envconfig:"ASSISTANT_TEMPERATURE" split_words:"true" default:"-1"`
	AnswerTemperature    float32 `envconfig:"ANSWER_TEMPERATURE" split_words:"true" default:"0.2"`

	// AnswerBackend selects how answerQuestion talks to the model: eino or openai.
	AnswerBackend   string `envconfig:"ANSWER_BACKEND" split_words:"true" default:"eino"`
	ContextMaxChars int    `envconfig:"CONTEXT_MAX_CHARS" split_words:"true" default:"6000"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	switch c.backend() {
	case BackendEino, BackendOpenAI:
	default:
		return fmt.Errorf("%w: unsupported answer backend %q", contractx.ErrValidation, c.AnswerBackend)
	}
	if c.ContextMaxChars <= 0 {
		return fmt.Errorf("%w: context max chars must be > 0", contractx.ErrValidation)
	}
	return nil
}

func (c Config) backend() string {
	b := strings.ToLower(strings.TrimSpace(c.AnswerBackend))
	if b == "" {
		return BackendEino
	}
	return b
}

// OpenRouterFor resolves the model settings for one agent role, falling back
// to the shared defaults when the role has no override.
func (c Config) OpenRouterFor(agentType contractx.AgentType) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch agentType {
	case contractx.AgentTypeAssistant:
		if v := strings.TrimSpace(c.AssistantModel); v != "" {
			modelName = v
		}
		if c.AssistantTemperature >= 0 {
			temp = c.AssistantTemperature
		}
	case contractx.AgentTypeAnswer:
		if v := strings.TrimSpace(c.AnswerModel); v != "" {
			modelName = v
		}
		if c.AnswerTemperature >= 0 {
			temp = c.AnswerTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
