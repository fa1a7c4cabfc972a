package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorStateResetIsIdempotent(t *testing.T) {
	var s ErrorState
	s.Set(errors.New("boom"))

	s.Reset()
	once := s
	s.Reset()

	if s != once {
		t.Errorf("second Reset changed the state: %+v vs %+v", s, once)
	}
	if s.Error() != "" || s.Number() != 0 || s.Err() != nil {
		t.Errorf("state not cleared: %q %d %v", s.Error(), s.Number(), s.Err())
	}
}

func TestErrorStateFirstWins(t *testing.T) {
	var s ErrorState
	first := &Error{Message: "first", Code: 1062}
	second := &Error{Message: "second", Code: 1146}

	if got := s.Set(first); got != first {
		t.Errorf("Set returned %v, want the first error", got)
	}
	if got := s.Set(second); got != first {
		t.Errorf("second Set returned %v, want the first error", got)
	}
	if s.Description() != "first" || s.Code() != 1062 {
		t.Errorf("recorded %q (%d), want first (1062)", s.Description(), s.Code())
	}

	s.Reset()
	s.Set(second)
	if s.Description() != "second" {
		t.Errorf("after Reset recorded %q, want second", s.Description())
	}
}

func TestErrorStateFormatting(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantError  string
		wantNumber int
	}{
		{"generic", ErrNoConnection, "No connection", -1},
		{"plain error", errors.New("plain"), "plain", -1},
		{"engine code", &Error{Message: "Duplicate entry", Code: 1062}, "Duplicate entry (#1062)", 1062},
		{"negative engine code", &Error{Message: "odd", Code: -999}, "odd (#-999)", -999},
		{"code without message", &Error{Code: 2006}, "Unknown Error (#2006)", 2006},
		{"nil error", nil, "Unknown Error (#-1)", -1},
		{"wrapped", fmt.Errorf("select: %w", ErrInvalidLimit), "select: Invalid LIMIT clause specified", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s ErrorState
			s.Set(tt.err)
			if got := s.Error(); got != tt.wantError {
				t.Errorf("Error() = %q, want %q", got, tt.wantError)
			}
			if got := s.Number(); got != tt.wantNumber {
				t.Errorf("Number() = %d, want %d", got, tt.wantNumber)
			}
		})
	}
}

func TestErrorStateErrKeepsIdentity(t *testing.T) {
	var s ErrorState
	s.Set(fmt.Errorf("BuildSelect: %w", ErrInvalidLimit))
	if !errors.Is(s.Err(), ErrInvalidLimit) {
		t.Errorf("Err() = %v, want it to wrap ErrInvalidLimit", s.Err())
	}

	s.Reset()
	s.Set(nil)
	if s.Err() == nil {
		t.Fatal("Err() = nil after recording a nil error")
	}
	if CodeOf(s.Err()) != CodeGeneric {
		t.Errorf("CodeOf(Err()) = %d, want %d", CodeOf(s.Err()), CodeGeneric)
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(errors.New("x")); got != CodeGeneric {
		t.Errorf("plain error code = %d", got)
	}
	if got := CodeOf(fmt.Errorf("wrap: %w", &Error{Message: "x", Code: 19})); got != 19 {
		t.Errorf("wrapped code = %d, want 19", got)
	}
}
