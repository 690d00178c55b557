// Package llm provides chat clients for local LLM providers and the prompt
// used to ask them for task placements.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a placement conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is a chat model. Both providers run locally.
type Client interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	// ChatJSON decodes the reply into result, tolerating code fences and
	// surrounding prose.
	ChatJSON(ctx context.Context, messages []Message, result any) error
}

// decodeReply unmarshals the JSON payload of a model reply.
func decodeReply(provider, reply string, result any) error {
	if err := json.Unmarshal([]byte(extractJSON(reply)), result); err != nil {
		return fmt.Errorf("%s: parsing JSON reply: %w (reply: %s)", provider, err, reply)
	}
	return nil
}
