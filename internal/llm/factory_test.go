package llm

import (
	"errors"
	"testing"

	"github.com/javiermolinar/timegrid/internal/apperr"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		provider string
		baseURL  string
		wantType string
		wantURL  string
	}{
		{provider: "", wantType: ProviderOllama, wantURL: defaultOllamaBaseURL},
		{provider: " Ollama ", wantType: ProviderOllama, wantURL: defaultOllamaBaseURL},
		{provider: "ollama", baseURL: "http://gpu-box:11434", wantType: ProviderOllama, wantURL: "http://gpu-box:11434"},
		{provider: "lmstudio", wantType: ProviderLMStudio, wantURL: defaultLMStudioBaseURL},
		{provider: "LM-Studio", wantType: ProviderLMStudio, wantURL: defaultLMStudioBaseURL},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			client, err := NewClient(tt.provider, "llama3.1", tt.baseURL)
			if err != nil {
				t.Fatalf("NewClient(%q): %v", tt.provider, err)
			}
			switch c := client.(type) {
			case *OllamaClient:
				if tt.wantType != ProviderOllama || c.baseURL != tt.wantURL {
					t.Errorf("got ollama at %q, want %s at %q", c.baseURL, tt.wantType, tt.wantURL)
				}
			case *LMStudioClient:
				if tt.wantType != ProviderLMStudio || c.baseURL != tt.wantURL {
					t.Errorf("got lmstudio at %q, want %s at %q", c.baseURL, tt.wantType, tt.wantURL)
				}
			default:
				t.Fatalf("unexpected client %T", client)
			}
		})
	}
}

func TestNewClient_Errors(t *testing.T) {
	if _, err := NewClient("copilot", "gpt-4o", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("unsupported provider: expected validation error, got %v", err)
	}
	if _, err := NewClient("ollama", " ", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("empty model: expected validation error, got %v", err)
	}
}

func TestDecodeReply(t *testing.T) {
	var got struct {
		Placements []struct {
			TaskID string `json:"task_id"`
		} `json:"placements"`
	}
	reply := "Sure!\n```json\n{\"placements\": [{\"task_id\": \"abc\"}]}\n```"
	if err := decodeReply(ProviderOllama, reply, &got); err != nil {
		t.Fatalf("decodeReply: %v", err)
	}
	if len(got.Placements) != 1 || got.Placements[0].TaskID != "abc" {
		t.Errorf("unexpected decode: %+v", got)
	}

	if err := decodeReply(ProviderOllama, "no json here", &got); err == nil {
		t.Error("expected error for reply without JSON")
	}
}
