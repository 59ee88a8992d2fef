package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/contract"
	toolx "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/tool"
)

const DefaultMaxSteps = 8

var ErrInvalidMessage = errors.New("message is empty")

type Option func(*Assistant)

// WithMaxSteps bounds the model round trips spent on one user message.
func WithMaxSteps(n int) Option {
	return func(a *Assistant) {
		if n > 0 {
			a.maxSteps = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Assistant) {
		if now != nil {
			a.now = now
		}
	}
}

// Assistant drives one conversation: it lets the model call restaurant tools
// until the model produces a plain reply.
type Assistant struct {
	runner   compose.Runnable[map[string]any, *schema.Message]
	execute  toolx.Executor
	allowed  map[string]struct{}
	maxSteps int
	now      func() time.Time

	mu      sync.Mutex
	history []*schema.Message
}

func New(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	systemPrompt string,
	toolbox *toolx.Toolbox,
	opts ...Option,
) (*Assistant, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if toolbox == nil {
		return nil, errors.New("toolbox is required")
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: assistant prompt", contractx.ErrPromptMissing)
	}

	infos, execute := toolbox.Build()
	toolModel, err := chatModel.WithTools(infos)
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools for assistant: %v", contractx.ErrModelInvoke, err)
	}
	runner, err := compileChatGraph(ctx, toolModel, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}

	allowed := make(map[string]struct{}, len(infos))
	for _, info := range infos {
		if info == nil || strings.TrimSpace(info.Name) == "" {
			continue
		}
		allowed[info.Name] = struct{}{}
	}

	a := &Assistant{
		runner:   runner,
		execute:  execute,
		allowed:  allowed,
		maxSteps: DefaultMaxSteps,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a, nil
}

// HandleMessage processes one user message and returns the assistant's reply.
// Messages are handled one at a time.
func (a *Assistant) HandleMessage(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrInvalidMessage
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// A failed turn leaves no partial transcript behind.
	mark := len(a.history)
	fail := func(err error) (string, error) {
		a.history = a.history[:mark]
		return "", err
	}

	a.history = append(a.history, schema.UserMessage(text))
	today := a.now().Format("2006-01-02 (Monday)")

	for step := 0; step < a.maxSteps; step++ {
		msg, err := a.runner.Invoke(ctx, map[string]any{
			"today":    today,
			historyKey: a.history,
		})
		if err != nil {
			return fail(fmt.Errorf("%w: assistant invoke: %v", contractx.ErrModelInvoke, err))
		}
		if msg == nil {
			return fail(fmt.Errorf("%w: empty assistant response", contractx.ErrSchemaViolation))
		}
		a.history = append(a.history, msg)

		if len(msg.ToolCalls) == 0 {
			reply := strings.TrimSpace(msg.Content)
			if reply == "" {
				return fail(fmt.Errorf("%w: assistant reply is empty", contractx.ErrSchemaViolation))
			}
			return reply, nil
		}

		for _, call := range msg.ToolCalls {
			result, err := a.runToolCall(ctx, call)
			if err != nil {
				return fail(err)
			}
			a.history = append(a.history, schema.ToolMessage(result.Text, call.ID))
		}
	}

	log.Warn().Int("max_steps", a.maxSteps).Msg("assistant exhausted tool steps")
	return fail(fmt.Errorf("%w: no reply after %d steps", contractx.ErrSchemaViolation, a.maxSteps))
}

func (a *Assistant) runToolCall(ctx context.Context, call schema.ToolCall) (contractx.ToolResult, error) {
	req, err := toToolRequest(call)
	if err != nil {
		return contractx.ToolResult{
			Tool:  strings.TrimSpace(call.Function.Name),
			Text:  fmt.Sprintf("Error: %v", err),
			Error: toolx.KindInvalidArgument,
		}, nil
	}
	if _, ok := a.allowed[req.Tool]; !ok {
		log.Warn().Str("tool", req.Tool).Msg("model requested unknown tool")
		return contractx.ToolResult{
			Tool:  req.Tool,
			Text:  fmt.Sprintf("Error: tool=%s does not exist.", req.Tool),
			Error: toolx.KindUnavailable,
		}, nil
	}
	return a.execute(ctx, req.Tool, req.Args)
}

// Reset forgets the conversation. Session state is untouched.
func (a *Assistant) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = nil
}

// History returns a copy of the conversation so far.
func (a *Assistant) History() []*schema.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*schema.Message, len(a.history))
	copy(out, a.history)
	return out
}

func toToolRequest(call schema.ToolCall) (contractx.ToolRequest, error) {
	tool := strings.TrimSpace(call.Function.Name)
	if tool == "" {
		return contractx.ToolRequest{}, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
	}

	args := map[string]any{}
	rawArgs := strings.TrimSpace(call.Function.Arguments)
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return contractx.ToolRequest{}, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrSchemaViolation, tool, err)
		}
	}
	return contractx.ToolRequest{Tool: tool, Args: args}, nil
}
