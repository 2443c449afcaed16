package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", NotFound("user not found: %s", "u1"), KindNotFound},
		{"invalid state", InvalidState("already paid"), KindInvalidState},
		{"invalid input", InvalidInput("bad amount"), KindInvalidInput},
		{"conflict", Conflict("duplicate row"), KindConflict},
		{"plain error", errors.New("boom"), KindUnknown},
		{"nil", nil, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed: period_states.group_id")
	err := Wrap(KindConflict, cause, "period state already exists")

	if KindOf(err) != KindConflict {
		t.Errorf("KindOf = %s, want conflict", KindOf(err))
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}

	// The kind survives further fmt wrapping up the call stack.
	outer := fmt.Errorf("confirm member: %w", err)
	if KindOf(outer) != KindConflict {
		t.Errorf("KindOf through fmt wrap = %s, want conflict", KindOf(outer))
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(NotFound("gone")) {
		t.Error("IsNotFound should match a NotFound error")
	}
	if IsNotFound(InvalidInput("bad")) {
		t.Error("IsNotFound should not match other kinds")
	}
}
