// Package debuglog writes JSON-lines debug events to a file when --debug is set.
package debuglog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// DefaultPath is the fixed path for debug logs.
const DefaultPath = "timegrid-debug.log"

// Logger logs store mutations, drag gestures and errors.
type Logger struct {
	mu      sync.Mutex
	w       io.Writer
	closer  io.Closer
	enabled bool
	seq     int
}

// Global logger instance; disabled until Init is called with enabled=true.
var std = &Logger{}

// Init enables logging to path (DefaultPath when empty).
func Init(enabled bool, path string) error {
	if !enabled {
		std = &Logger{}
		return nil
	}
	if path == "" {
		path = DefaultPath
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}

	std = &Logger{w: f, closer: f, enabled: true}
	std.log("DEBUG_START", map[string]any{
		"log_file": path,
		"time":     time.Now().Format(time.RFC3339),
	})
	return nil
}

// SetOutput routes the global logger to w. Used by tests.
func SetOutput(w io.Writer) {
	std = &Logger{w: w, enabled: w != nil}
}

// Close flushes the end marker and closes the log file.
func Close() {
	if std == nil || !std.enabled {
		return
	}
	std.log("DEBUG_END", map[string]any{
		"time": time.Now().Format(time.RFC3339),
	})
	if std.closer != nil {
		_ = std.closer.Close()
	}
	std = &Logger{}
}

// Enabled reports whether events are being written.
func Enabled() bool {
	return std != nil && std.enabled
}

// Log writes a structured event.
func Log(event string, data map[string]any) {
	std.log(event, data)
}

// Error logs err under the given context.
func Error(context string, err error) {
	if err == nil || !Enabled() {
		return
	}
	std.log("ERROR", map[string]any{
		"context": context,
		"error":   err.Error(),
	})
}

func (l *Logger) log(event string, data map[string]any) {
	if l == nil || !l.enabled || l.w == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	entry := map[string]any{
		"seq":   l.seq,
		"ts":    time.Now().Format("15:04:05.000"),
		"event": event,
	}
	for k, v := range data {
		entry[k] = v
	}

	b, _ := json.Marshal(entry)
	_, _ = fmt.Fprintf(l.w, "%s\n", b)
}
