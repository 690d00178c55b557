package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/javiermolinar/timegrid/internal/debuglog"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// placementTemperature keeps proposals close to deterministic.
const placementTemperature = 0.2

// OllamaClient talks to a local Ollama server through langchaingo.
type OllamaClient struct {
	llm     *ollama.LLM
	model   string
	baseURL string
}

// NewOllamaClient creates a client for model at baseURL (default
// localhost:11434).
func NewOllamaClient(model, baseURL string) (*OllamaClient, error) {
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	l, err := ollama.New(ollama.WithModel(model), ollama.WithServerURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("ollama: creating client: %w", err)
	}
	return &OllamaClient{llm: l, model: model, baseURL: baseURL}, nil
}

func (c *OllamaClient) Chat(ctx context.Context, messages []Message) (string, error) {
	return c.generate(ctx, messages, false)
}

func (c *OllamaClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	reply, err := c.generate(ctx, messages, true)
	if err != nil {
		return err
	}
	return decodeReply(ProviderOllama, reply, result)
}

func (c *OllamaClient) generate(ctx context.Context, messages []Message, jsonMode bool) (string, error) {
	opts := []llms.CallOption{llms.WithModel(c.model), llms.WithTemperature(placementTemperature)}
	if jsonMode {
		opts = append(opts, llms.WithJSONMode())
	}

	start := time.Now()
	resp, err := c.llm.GenerateContent(ctx, langchainMessages(messages), opts...)
	debuglog.Log("LLM_CALL", map[string]any{
		"provider": ProviderOllama,
		"model":    c.model,
		"turns":    len(messages),
		"ms":       time.Since(start).Milliseconds(),
		"ok":       err == nil,
	})
	if err != nil {
		return "", fmt.Errorf("ollama: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ollama: empty reply")
	}
	return resp.Choices[0].Content, nil
}

func langchainMessages(messages []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		role := llms.ChatMessageTypeHuman
		switch m.Role {
		case RoleSystem:
			role = llms.ChatMessageTypeSystem
		case RoleAssistant:
			role = llms.ChatMessageTypeAI
		}
		out = append(out, llms.TextParts(role, m.Content))
	}
	return out
}
