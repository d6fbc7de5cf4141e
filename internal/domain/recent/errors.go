package recent

import (
	"errors"
	"fmt"
)

// Domain errors

type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Predefined domain errors

const codeEntryNotFound = "RECENT_ENTRY_NOT_FOUND"

func ErrEntryNotFound(id string) *DomainError {
	return &DomainError{
		Code:    codeEntryNotFound,
		Message: fmt.Sprintf("recent repository entry %s not found", id),
	}
}

// IsEntryNotFound reports whether err is the entry-not-found domain error.
func IsEntryNotFound(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == codeEntryNotFound
}

func ErrInvalidEntryData(field string, err error) *DomainError {
	return &DomainError{
		Code:    "INVALID_RECENT_ENTRY",
		Message: fmt.Sprintf("invalid %s", field),
		Err:     err,
	}
}
