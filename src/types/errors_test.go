package types

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorIsKind(t *testing.T) {
	err := Errorf(ErrFormat, "setAxisType", "need origin;format, got %q", "")
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
	if errors.Is(err, ErrData) {
		t.Fatalf("format error must not match ErrData")
	}
	wrapped := fmt.Errorf("axis 0: %w", err)
	if !errors.Is(wrapped, ErrFormat) {
		t.Fatalf("wrapped error lost its kind: %v", wrapped)
	}
}

func TestErrorUnwrapCause(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrIO, "load", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
	if !strings.Contains(err.Error(), "unexpected EOF") || !strings.Contains(err.Error(), "load") {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
