package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestErrorClass_String(t *testing.T) {
	tests := []struct {
		class    ErrorClass
		expected string
	}{
		{ErrorTransient, "transient"},
		{ErrorInvalid, "invalid"},
		{ErrorFatal, "fatal"},
		{ErrorClass(999), "unknown"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			result := test.class.String()
			if result != test.expected {
				t.Errorf("expected %s, got %s", test.expected, result)
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection timeout", ErrConnectionTimeout, true},
		{"connection lost", ErrConnectionLost, true},
		{"storage unavailable", ErrStorageUnavailable, true},
		{"rate limited", ErrRateLimited, true},
		{"timeout in message", fmt.Errorf("operation timeout occurred"), true},
		{"network error", fmt.Errorf("network connection failed"), true},
		{"classified transient", &ClassifiedError{Class: ErrorTransient, Err: fmt.Errorf("test")}, true},
		{"classified fatal", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("test")}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsTransient(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"invalid config", ErrInvalidConfig, true},
		{"missing config", ErrMissingConfig, true},
		{"quota exceeded", ErrQuotaExceeded, false},
		{"classified invalid", &ClassifiedError{Class: ErrorInvalid, Err: fmt.Errorf("test")}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsInvalid(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorClass
	}{
		{"nil error", nil, ErrorTransient},
		{"transient", ErrConnectionLost, ErrorTransient},
		{"invalid", ErrInvalidConfig, ErrorInvalid},
		{"fatal", ErrQuotaExceeded, ErrorFatal},
		{"unknown defaults transient", fmt.Errorf("something odd"), ErrorTransient},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Classify(test.err); got != test.expected {
				t.Errorf("expected %v, got %v", test.expected, got)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	base := fmt.Errorf("boom")
	wrapped := Wrap(base, "sqlstore", "Query", "select documents")
	if wrapped == nil {
		t.Fatal("expected non-nil wrapped error")
	}
	expected := "sqlstore.Query: select documents failed: boom"
	if wrapped.Error() != expected {
		t.Errorf("expected %q, got %q", expected, wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should unwrap to base")
	}
	if Wrap(nil, "a", "b", "c") != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestWrapClassified(t *testing.T) {
	base := fmt.Errorf("boom")

	if got := WrapTransient(base, "c", "m", "a"); !IsTransient(got) {
		t.Error("WrapTransient result should classify transient")
	}
	if got := WrapInvalid(base, "c", "m", "a"); !IsInvalid(got) {
		t.Error("WrapInvalid result should classify invalid")
	}
	if got := WrapFatal(base, "c", "m", "a"); !IsFatal(got) {
		t.Error("WrapFatal result should classify fatal")
	}
	if WrapTransient(nil, "c", "m", "a") != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestNewStructured_UnknownCode(t *testing.T) {
	base := fmt.Errorf("boom")
	se := NewStructured(base, "events/123", 3)

	if se.Code != CodeUnknown {
		t.Errorf("expected code %q, got %q", CodeUnknown, se.Code)
	}
	if se.Message != "boom" {
		t.Errorf("expected message from underlying error, got %q", se.Message)
	}
	if se.Path != "events/123" {
		t.Errorf("expected path preserved, got %q", se.Path)
	}
	if se.RetryCount != 3 {
		t.Errorf("expected retryCount 3, got %d", se.RetryCount)
	}
	if se.Timestamp.IsZero() || time.Since(se.Timestamp) > time.Minute {
		t.Errorf("expected recent timestamp, got %v", se.Timestamp)
	}
	if !errors.Is(se, base) {
		t.Error("structured error should unwrap to the original failure")
	}
}

type taggedError struct{ msg string }

func (e *taggedError) Error() string     { return e.msg }
func (e *taggedError) ErrorCode() string { return "permission-denied" }

func TestNewStructured_CoderPassThrough(t *testing.T) {
	se := NewStructured(&taggedError{msg: "nope"}, "users/alice", 0)
	if se.Code != "permission-denied" {
		t.Errorf("expected code from Coder, got %q", se.Code)
	}

	// Wrapped coders are still discovered.
	wrapped := fmt.Errorf("outer: %w", &taggedError{msg: "nope"})
	se = NewStructured(wrapped, "users/alice", 1)
	if se.Code != "permission-denied" {
		t.Errorf("expected code through wrap chain, got %q", se.Code)
	}
}

func TestNewStructured_ClassifiedCode(t *testing.T) {
	base := WrapTransient(fmt.Errorf("flaky"), "natskv", "Query", "list keys")
	se := NewStructured(base, "tickets", 2)
	if se.Code != "transient" {
		t.Errorf("expected class-derived code, got %q", se.Code)
	}
}

func TestNewStructured_RefinalizePreservesCode(t *testing.T) {
	first := NewStructured(&taggedError{msg: "nope"}, "a", 1)
	second := NewStructured(first, "a", 2)
	if second.Code != "permission-denied" {
		t.Errorf("expected code preserved across re-finalization, got %q", second.Code)
	}
	if second.RetryCount != 2 {
		t.Errorf("expected updated retryCount, got %d", second.RetryCount)
	}
}

func TestStructuredError_Error(t *testing.T) {
	se := NewStructured(fmt.Errorf("boom"), "events", 1)
	msg := se.Error()
	for _, want := range []string{CodeUnknown, "boom", "events", "retries=1"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}
