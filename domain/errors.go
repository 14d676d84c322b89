package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedCreditType = errors.New("unsupported credit type")
	ErrInvalidDuration       = errors.New("duration must be a positive number of months")
)

// ValidationError aggregates every business constraint a request violates.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, " ")
}

type UnsupportedCreditTypeError struct {
	CreditType CreditType
}

func (e *UnsupportedCreditTypeError) Error() string {
	return fmt.Sprintf("unsupported credit type %q", string(e.CreditType))
}

func (e *UnsupportedCreditTypeError) Is(target error) bool {
	return target == ErrUnsupportedCreditType
}
