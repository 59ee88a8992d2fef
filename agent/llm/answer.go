package llm

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/openai/openai-go"
	contractx "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/contract"
	promptx "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/prompt"
	openrouterx "github.com/tanpawarit/Chative-Restaurant-Ordering/pkg/openrouter"
)

// contextVar is the placeholder in the answer prompt replaced by the selected info text.
const contextVar = "{context}"

var (
	_ contractx.Answerer = (*GraphAnswerer)(nil)
	_ contractx.Answerer = (*OpenAIAnswerer)(nil)
)

// NewAnswerer builds the answerer selected by cfg.AnswerBackend.
func NewAnswerer(ctx context.Context, cfg Config, prompts promptx.PromptSet) (contractx.Answerer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(prompts.Answer) == "" {
		return nil, fmt.Errorf("%w: answer prompt", contractx.ErrPromptMissing)
	}

	modelCfg := cfg.OpenRouterFor(contractx.AgentTypeAnswer)
	switch cfg.backend() {
	case BackendOpenAI:
		client, err := openrouterx.NewClient(modelCfg)
		if err != nil {
			return nil, fmt.Errorf("%w: create answer client: %v", contractx.ErrModelInvoke, err)
		}
		return NewOpenAIAnswerer(client, modelCfg.Model, modelCfg.Temperature, prompts.Answer, cfg.ContextMaxChars), nil
	default:
		chatModel, err := modelCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: create answer model: %v", contractx.ErrModelInvoke, err)
		}
		return NewGraphAnswerer(ctx, chatModel, prompts.Answer, cfg.ContextMaxChars)
	}
}

// GraphAnswerer answers through an eino prompt -> model graph.
type GraphAnswerer struct {
	runner   compose.Runnable[map[string]any, *schema.Message]
	maxChars int
}

func NewGraphAnswerer(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string, maxChars int) (*GraphAnswerer, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: answer prompt", contractx.ErrPromptMissing)
	}

	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{question}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add answer prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add answer model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add answer edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add answer edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add answer edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("answer.graph"))
	if err != nil {
		return nil, fmt.Errorf("compile answer graph: %w", err)
	}
	return &GraphAnswerer{runner: runner, maxChars: maxChars}, nil
}

func (a *GraphAnswerer) Answer(ctx context.Context, question string, info string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: question is required", contractx.ErrValidation)
	}

	msg, err := a.runner.Invoke(ctx, map[string]any{
		"context":  SelectContext(info, question, a.maxChars),
		"question": question,
	})
	if err != nil {
		return "", fmt.Errorf("%w: answer invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("%w: empty answer", contractx.ErrSchemaViolation)
	}
	return strings.TrimSpace(msg.Content), nil
}

// OpenAIAnswerer answers with a single chat completion through the OpenAI SDK.
type OpenAIAnswerer struct {
	client       *openai.Client
	model        string
	temperature  float32
	systemPrompt string
	maxChars     int
}

func NewOpenAIAnswerer(client *openai.Client, model string, temperature float32, systemPrompt string, maxChars int) *OpenAIAnswerer {
	return &OpenAIAnswerer{
		client:       client,
		model:        strings.TrimSpace(model),
		temperature:  temperature,
		systemPrompt: systemPrompt,
		maxChars:     maxChars,
	}
}

func (a *OpenAIAnswerer) Answer(ctx context.Context, question string, info string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: question is required", contractx.ErrValidation)
	}
	if a.client == nil {
		return "", fmt.Errorf("%w: openai client is nil", contractx.ErrValidation)
	}

	system := strings.ReplaceAll(a.systemPrompt, contextVar, SelectContext(info, question, a.maxChars))
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(a.model),
		Temperature: openai.Float(float64(a.temperature)),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(question),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", contractx.ErrModelInvoke, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: empty answer", contractx.ErrSchemaViolation)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
