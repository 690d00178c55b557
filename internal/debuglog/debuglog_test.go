package debuglog

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLog_Disabled(t *testing.T) {
	if err := Init(false, ""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	Log("IGNORED", map[string]any{"a": 1})
	if Enabled() {
		t.Error("expected logger to be disabled")
	}
}

func TestLog_WritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(nil) })

	Log("BLOCK_CREATE", map[string]any{"id": "b1"})
	Error("copy day", errors.New("disk full"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if first["event"] != "BLOCK_CREATE" || first["id"] != "b1" {
		t.Errorf("unexpected entry: %v", first)
	}
	if first["seq"].(float64) != 1 {
		t.Errorf("expected seq 1, got %v", first["seq"])
	}
	if !strings.Contains(lines[1], "disk full") {
		t.Errorf("expected error entry, got %q", lines[1])
	}
}

func TestInit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	if err := Init(true, path); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	Log("PING", nil)
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	for _, want := range []string{"DEBUG_START", "PING", "DEBUG_END"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log missing %s: %s", want, data)
		}
	}
}
