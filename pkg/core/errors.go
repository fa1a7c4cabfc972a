package core

import (
	"errors"
	"strconv"
)

// CodeGeneric is the code recorded for failures raised by this package
// rather than reported by a database engine.
const CodeGeneric = -1

// Error is a failure carrying a numeric code. Engine failures keep the
// driver's error number; everything else uses CodeGeneric.
type Error struct {
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// ErrorCode returns the numeric code of the failure.
func (e *Error) ErrorCode() int { return e.Code }

// NewError builds a generic failure with the given message.
func NewError(message string) *Error {
	return &Error{Message: message, Code: CodeGeneric}
}

var (
	ErrNoConnection     = NewError("No connection")
	ErrNoResults        = NewError("No query results exist")
	ErrReadPastEnd      = NewError("Cannot read past the end of the records")
	ErrRowRange         = NewError("Row number is greater than the total number of rows")
	ErrSeekRange        = NewError("Seek parameter is greater than the total number of rows")
	ErrNoMoreRows       = NewError("No more rows in the result set")
	ErrReleased         = NewError("Result set has already been released")
	ErrColumnNotFound   = NewError("Column name not found")
	ErrNoColumn         = NewError("The specified column or table does not exist, or no data was returned")
	ErrInTransaction    = NewError("Already in transaction")
	ErrNotInTransaction = NewError("Not in a transaction")
	ErrRollback         = NewError("Could not rollback transaction")
	ErrInvalidLimit     = NewError("Invalid LIMIT clause specified")
	ErrInvalidKey       = NewError("Invalid key specified")
	ErrInvalidValue     = NewError("Invalid value specified")
	ErrInvalidValues    = NewError("Invalid/Empty values specified")
	ErrUnsupportedShape = NewError("Unsupported column or filter shape")
	ErrInvalidType      = NewError("Invalid data type specified")
	ErrStatistics       = NewError("Failed to obtain database statistics")
	ErrUnsupported      = NewError("Operation not supported by the database engine")
)

type coded interface {
	ErrorCode() int
}

// CodeOf extracts the numeric code carried by err, or CodeGeneric when err
// carries none.
func CodeOf(err error) int {
	var c coded
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return CodeGeneric
}

// ErrorState is a single first-error-wins record. It is reset at the start
// of every public operation and filled by the first failure of that
// operation; later failures in the same operation are ignored.
type ErrorState struct {
	description string
	code        int
	err         error
}

// Reset clears the record.
func (s *ErrorState) Reset() {
	s.description = ""
	s.code = 0
	s.err = nil
}

// Set records err unless a failure is already recorded, and returns the
// recorded failure so call sites can write `return s.Set(err)`.
func (s *ErrorState) Set(err error) error {
	if s.Number() == 0 {
		if err == nil {
			s.code = CodeGeneric
		} else {
			s.description = err.Error()
			s.code = CodeOf(err)
			if s.code == 0 {
				s.code = CodeGeneric
			}
			s.err = err
		}
	}
	return s.Err()
}

// Description returns the raw recorded message.
func (s *ErrorState) Description() string { return s.description }

// Code returns the raw recorded code.
func (s *ErrorState) Code() int { return s.code }

// Error renders the record for humans. A code without a message becomes
// "Unknown Error (#N)"; engine codes are appended to the message.
func (s *ErrorState) Error() string {
	if s.description == "" {
		if s.code != 0 {
			return "Unknown Error (#" + strconv.Itoa(s.code) + ")"
		}
		return ""
	}
	if s.code > 0 || s.code < CodeGeneric {
		return s.description + " (#" + strconv.Itoa(s.code) + ")"
	}
	return s.description
}

// Number returns the recorded code. A message without a code reports
// CodeGeneric.
func (s *ErrorState) Number() int {
	if s.description != "" && s.code == 0 {
		return CodeGeneric
	}
	return s.code
}

// Err returns the recorded failure, or nil when nothing is recorded. The
// original error is returned so callers can match it with errors.Is.
func (s *ErrorState) Err() error {
	if s.Number() == 0 {
		return nil
	}
	if s.err != nil {
		return s.err
	}
	return &Error{Message: s.Error(), Code: s.Number()}
}
