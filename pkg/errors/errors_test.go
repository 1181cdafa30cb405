package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidSchema, "not a JSON object: %s", "well.json")
	want := "INVALID_SCHEMA: not a JSON object: well.json"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	wrapped := Wrap(ErrCodeStore, err, "save graph %s", "abc")
	if got := wrapped.Error(); got != "STORE_ERROR: save graph abc: "+want {
		t.Errorf("wrapped Error() = %q", got)
	}
}

func TestIsAndGetCode(t *testing.T) {
	base := New(ErrCodeGraphNotFound, "graph abc")
	chained := fmt.Errorf("handler: %w", base)

	if !Is(chained, ErrCodeGraphNotFound) {
		t.Error("Is() should find the code through wrapping")
	}
	if Is(chained, ErrCodeCache) {
		t.Error("Is() matched the wrong code")
	}
	if got := GetCode(chained); got != ErrCodeGraphNotFound {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeGraphNotFound)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeCache, cause, "write entry")
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should reach the cause through Unwrap")
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidPath, "schema directory missing")
	if got := UserMessage(err); got != "schema directory missing" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(stderrors.New("boom")); got != "boom" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
