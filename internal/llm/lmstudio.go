package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/javiermolinar/timegrid/internal/debuglog"
)

const defaultLMStudioBaseURL = "http://localhost:1234/v1"

// LMStudioClient talks to LM Studio's OpenAI-compatible server.
type LMStudioClient struct {
	api     openai.Client
	model   string
	baseURL string
}

// NewLMStudioClient creates a client for model at baseURL (default
// localhost:1234/v1). LM Studio ignores the key unless one is configured, so
// LMSTUDIO_API_KEY or OPENAI_API_KEY are optional.
func NewLMStudioClient(model, baseURL string) (*LMStudioClient, error) {
	if baseURL == "" {
		baseURL = defaultLMStudioBaseURL
	}
	key := os.Getenv("LMSTUDIO_API_KEY")
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		key = "lm-studio"
	}

	return &LMStudioClient{
		api:     openai.NewClient(option.WithBaseURL(baseURL), option.WithAPIKey(key)),
		model:   model,
		baseURL: baseURL,
	}, nil
}

func (c *LMStudioClient) Chat(ctx context.Context, messages []Message) (string, error) {
	start := time.Now()
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    openaiMessages(messages),
		Temperature: openai.Float(placementTemperature),
	})
	debuglog.Log("LLM_CALL", map[string]any{
		"provider": ProviderLMStudio,
		"model":    c.model,
		"turns":    len(messages),
		"ms":       time.Since(start).Milliseconds(),
		"ok":       err == nil,
	})
	if err != nil {
		return "", fmt.Errorf("lmstudio: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("lmstudio: empty reply")
	}
	return resp.Choices[0].Message.Content, nil
}

// ChatJSON relies on the prompt for JSON output; LM Studio's json_object
// mode depends on the loaded model.
func (c *LMStudioClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	reply, err := c.Chat(ctx, messages)
	if err != nil {
		return err
	}
	return decodeReply(ProviderLMStudio, reply, result)
}

func openaiMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
