package apperr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "validation", err: fmt.Errorf("%w: empty title", ErrValidation), want: "validation"},
		{name: "not found", err: fmt.Errorf("block 7: %w", ErrNotFound), want: "not_found"},
		{name: "empty source", err: ErrEmptySource, want: "empty_source"},
		{name: "persistence", err: Persistence("insert", errors.New("disk full")), want: "persistence"},
		{name: "foreign", err: errors.New("boom"), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.want {
				t.Errorf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPersistence_KeepsExistingKind(t *testing.T) {
	err := fmt.Errorf("%w: block x", ErrNotFound)
	if got := Persistence("update", err); got != err {
		t.Errorf("expected error to pass through unchanged, got %v", got)
	}
}

func TestPersistence_Timeout(t *testing.T) {
	err := Persistence("list blocks", context.DeadlineExceeded)
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout wording, got %q", err.Error())
	}
	if !Retryable(err) {
		t.Error("expected timeout to be retryable")
	}
}

func TestMessage(t *testing.T) {
	if got := Message(nil); got != "" {
		t.Errorf("Message(nil) = %q, want empty", got)
	}
	msg := Message(fmt.Errorf("%w: create Monday blocks first", ErrEmptySource))
	if !strings.Contains(msg, "create Monday blocks first") {
		t.Errorf("unexpected message %q", msg)
	}
	if !strings.Contains(Message(Persistence("x", errors.New("net"))), "try again") {
		t.Error("expected retry hint for persistence errors")
	}
}
