package llm

import "testing"

func TestExtractJSON(t *testing.T) {
	placement := `{"placements":[{"task_id":"a1","start":"09:30"}]}`
	tests := map[string]struct{ in, want string }{
		"bare object":       {placement, placement},
		"bare array":        {`[{"task_id":"a1"}]`, `[{"task_id":"a1"}]`},
		"prose before":      {"Sure, here you go: " + placement, placement},
		"prose around":      {"Plan:\n" + placement + "\nGood luck!", placement},
		"json fence":        {"```json\n" + placement + "\n```", placement},
		"plain fence":       {"```\n" + placement + "\n```", placement},
		"fence after prose": {"I placed one task.\n\n```json\n" + placement + "\n```\nanything else?", placement},
		"nested braces":     {`x {"a":{"b":[1,{"c":2}]}} y`, `{"a":{"b":[1,{"c":2}]}}`},
		"no json":           {"cannot help with that", "cannot help with that"},
		"unterminated":      {`{"placements": [`, `{"placements": [`},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := extractJSON(tt.in); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
