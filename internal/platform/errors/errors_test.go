package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	t.Parallel()

	base := New(CodeNotFound, "conflict record not found")
	wrapped := fmt.Errorf("resolve master decision: %w", base)

	if !errors.Is(wrapped, New(CodeNotFound, "different message")) {
		t.Fatal("expected errors with the same code to match")
	}
	if errors.Is(wrapped, New(CodePersistenceError, "conflict record not found")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapExposesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	err := Wrap(CodePersistenceError, "save pending conflict", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable")
	}
	if err.Error() != "save pending conflict" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestWithMetadata(t *testing.T) {
	t.Parallel()

	err := WithMetadata(CodeUnknownConflictType, "no rule for type", map[string]string{"type": "item_dispute"})
	if err.Metadata["type"] != "item_dispute" {
		t.Fatalf("expected metadata to carry the conflict type, got %v", err.Metadata)
	}
}
