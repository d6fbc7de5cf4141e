package branch

import "fmt"

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

func ErrInvalidHandle(field string, err error) *DomainError {
	return &DomainError{
		Code:    "INVALID_REPOSITORY_HANDLE",
		Message: fmt.Sprintf("invalid %s", field),
		Err:     err,
	}
}

func ErrInvalidTargets(err error) *DomainError {
	return &DomainError{
		Code:    "INVALID_TARGETS",
		Message: "invalid target branch configuration",
		Err:     err,
	}
}

// ProviderError wraps any failed call to the hosted Git provider. It is
// fatal at branch enumeration, degraded everywhere in the comparator
// cascade, and surfaced verbatim for direct actions such as deletion.
type ProviderError struct {
	Provider string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
