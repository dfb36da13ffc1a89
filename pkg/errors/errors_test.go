package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodePackageNotFound, "package %q is not in the index", "afw")

	if err.Code != ErrCodePackageNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodePackageNotFound)
	}
	if err.Message != `package "afw" is not in the index` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("Cause = %v, want nil", err.Cause)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "fetch %s", "http://example.com")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error does not match its cause via errors.Is")
	}
	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want cause", err.Unwrap())
	}
}

func TestErrorString(t *testing.T) {
	plain := New(ErrCodeTimeout, "deadline exceeded")
	if got := plain.Error(); got != "TIMEOUT: deadline exceeded" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := Wrap(ErrCodeNetwork, stderrors.New("EOF"), "fetch failed")
	if got := wrapped.Error(); got != "NETWORK_ERROR: fetch failed: EOF" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeNetwork, "boom")

	if !Is(err, ErrCodeNetwork) {
		t.Error("Is() = false for matching code")
	}
	if Is(err, ErrCodeTimeout) {
		t.Error("Is() = true for non-matching code")
	}
	if Is(stderrors.New("plain"), ErrCodeNetwork) {
		t.Error("Is() = true for a plain error")
	}
}

func TestIsThroughWrapping(t *testing.T) {
	inner := New(ErrCodePackageNotFound, "missing")
	outer := fmt.Errorf("resolve: %w", inner)

	if !Is(outer, ErrCodePackageNotFound) {
		t.Error("Is() should find the code through fmt.Errorf wrapping")
	}
	if GetCode(outer) != ErrCodePackageNotFound {
		t.Errorf("GetCode() = %q, want PACKAGE_NOT_FOUND", GetCode(outer))
	}
}

func TestGetCodePlainError(t *testing.T) {
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode() = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	coded := New(ErrCodeInvalidPackage, "package name cannot be empty")
	if got := UserMessage(coded); got != "package name cannot be empty" {
		t.Errorf("UserMessage() = %q", got)
	}

	plain := stderrors.New("something broke")
	if got := UserMessage(plain); got != "something broke" {
		t.Errorf("UserMessage() = %q", got)
	}
}
