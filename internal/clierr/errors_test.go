package clierr

import (
	"errors"
	"testing"
)

func TestWrapPreservesUnderlyingCause(t *testing.T) {
	root := errors.New("disk full")
	wrapped := Wrap(root, "failed to write config")

	if !errors.Is(wrapped, root) {
		t.Fatalf("expected Unwrap chain to reach root cause")
	}
	if wrapped.Error() != "failed to write config: disk full" {
		t.Fatalf("unexpected message: %q", wrapped.Error())
	}
}

func TestWrapOfCLIErrorChainsMessages(t *testing.T) {
	root := errors.New("boom")
	inner := Wrap(root, "inner failed")
	outer := Wrap(inner, "outer failed")

	if outer.OriginalErr != root {
		t.Fatalf("expected original cause to survive double wrap, got %v", outer.OriginalErr)
	}
	want := "outer failed: inner failed: boom"
	if outer.Error() != want {
		t.Fatalf("Error() = %q, want %q", outer.Error(), want)
	}
}
