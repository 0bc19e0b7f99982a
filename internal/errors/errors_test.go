package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestSprigError_Error(t *testing.T) {
	err := &SprigError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "prompt not found",
	}

	expected := "NOT_FOUND: prompt not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("id is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "id is required" {
		t.Errorf("Message = %q, want %q", err.Message, "id is required")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("01HX")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["id"] != "01HX" {
		t.Errorf("Details[id] = %v, want %q", err.Details["id"], "01HX")
	}
}

func TestNewConflict(t *testing.T) {
	err := NewConflict("ids already exist", []string{"a", "b"})

	if err.Code != ErrConflict {
		t.Errorf("Code = %q, want %q", err.Code, ErrConflict)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
	if ids, ok := err.Details["ids"].([]string); !ok || len(ids) != 2 {
		t.Errorf("Details[ids] = %v, want [a b]", err.Details["ids"])
	}
}

func TestNewCorruptData(t *testing.T) {
	cause := fmt.Errorf("unexpected end of JSON input")
	err := NewCorruptData("record 2: missing field \"id\"", cause)

	if err.Code != ErrCorruptData {
		t.Errorf("Code = %q, want %q", err.Code, ErrCorruptData)
	}
	if err.Message != "stored prompt collection is corrupt: record 2: missing field \"id\"" {
		t.Errorf("Message = %q", err.Message)
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestNewIO(t *testing.T) {
	cause := fmt.Errorf("open /home/user/.sprig/store/prompts.json: disk on fire")
	err := NewIO("set", "prompts", cause)

	if err.Message != `storage set "prompts" failed` {
		t.Errorf("Message = %q", err.Message)
	}
	if strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("Error() leaks the cause: %q", err.Error())
	}
	if err.Code != ErrIO {
		t.Errorf("Code = %q, want %q", err.Code, ErrIO)
	}
	if err.Status != 503 {
		t.Errorf("Status = %d, want 503", err.Status)
	}
	if err.Details["op"] != "set" || err.Details["key"] != "prompts" {
		t.Errorf("Details = %v", err.Details)
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap() did not return the cause")
	}
}

func TestNewInternal(t *testing.T) {
	t.Run("with error", func(t *testing.T) {
		originalErr := fmt.Errorf("database connection failed")
		err := NewInternal(originalErr)

		if err.Code != ErrInternal {
			t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
		}
		if err.Status != 500 {
			t.Errorf("Status = %d, want 500", err.Status)
		}
		// Message should be generic (not leak internal details)
		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		if err.Details["internal_error"] != "database connection failed" {
			t.Errorf("Details[internal_error] = %q, want %q", err.Details["internal_error"], "database connection failed")
		}
	})

	t.Run("with nil", func(t *testing.T) {
		err := NewInternal(nil)

		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		if err.Details == nil {
			t.Error("Details should not be nil")
		}
	})
}

func TestIs(t *testing.T) {
	t.Run("matching code", func(t *testing.T) {
		err := NewNotFound("test")
		if !Is(err, ErrNotFound) {
			t.Error("Is() = false, want true")
		}
	})

	t.Run("non-matching code", func(t *testing.T) {
		err := NewNotFound("test")
		if Is(err, ErrIO) {
			t.Error("Is() = true, want false")
		}
	})

	t.Run("non-SprigError", func(t *testing.T) {
		err := fmt.Errorf("plain error")
		if Is(err, ErrNotFound) {
			t.Error("Is() = true, want false for non-SprigError")
		}
	})

	t.Run("wrapped SprigError", func(t *testing.T) {
		inner := NewCorruptData("bad", nil)
		wrapped := fmt.Errorf("load: %w", inner)
		if !Is(wrapped, ErrCorruptData) {
			t.Error("Is() = false, want true for wrapped SprigError")
		}
		sErr, ok := As(wrapped)
		if !ok || sErr != inner {
			t.Error("As() did not find the wrapped SprigError")
		}
	})
}
