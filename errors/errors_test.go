package errors

import (
	"fmt"
	"testing"
)

func TestDotkitError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeLinkConflict, "destination occupied")
	if err.Code != ErrCodeLinkConflict {
		t.Errorf("expected code %s, got %s", ErrCodeLinkConflict, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeCommandFailed, "command failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	// Test Is function
	if !Is(wrapped, ErrCodeCommandFailed) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeLinkConflict) {
		t.Error("Is should return false for non-matching code")
	}

	// Test WithDetail
	detailed := err.WithDetail("destination", "~/.vimrc").WithDetail("attempts", 3)
	if detailed.Details["destination"] != "~/.vimrc" {
		t.Error("WithDetail should add details")
	}
}

func TestErrorConstructors(t *testing.T) {
	// Test SourceMissing
	err := SourceMissing("/dotfiles/vimrc")
	if err.Code != ErrCodeSourceMissing {
		t.Errorf("expected code %s, got %s", ErrCodeSourceMissing, err.Code)
	}
	if err.Details["source"] != "/dotfiles/vimrc" {
		t.Error("SourceMissing should include source detail")
	}

	// Test PathEscape
	err = PathEscape("../outside", "/home/user")
	if err.Code != ErrCodePathEscape {
		t.Errorf("expected code %s, got %s", ErrCodePathEscape, err.Code)
	}
	if err.Details["root"] != "/home/user" {
		t.Error("PathEscape should include root detail")
	}
}
