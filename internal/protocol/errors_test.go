package protocol

import (
	"errors"
	"testing"
)

func TestIsKnownCode(t *testing.T) {
	cases := []string{
		"",
		ErrProtoBadRequest,
		ErrSchema,
		ErrUnknownType,
		ErrBadRequest,
		ErrUnknownItem,
		ErrInternal,
	}
	for _, c := range cases {
		if !IsKnownCode(c) {
			t.Fatalf("expected known code: %q", c)
		}
	}
	if IsKnownCode("E_NOT_DEFINED") {
		t.Fatalf("expected unknown code rejected")
	}
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := newError(ErrSchema, "travel", inner)
	if !errors.Is(err, inner) {
		t.Fatalf("expected wrapped error")
	}
	var pe *Error
	if !errors.As(err, &pe) || pe.Code != ErrSchema {
		t.Fatalf("expected *Error with code %s, got %v", ErrSchema, err)
	}
}
