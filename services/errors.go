package services

import (
	"errors"
	"fmt"
)

// ErrInsufficientPoints is a domain rejection, not a store fault.
var ErrInsufficientPoints = errors.New("not enough loyalty points")

// ValidationError rejects bad input before any store call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PartialRedeemError reports that points were already deducted but the order
// record insert failed. Callers must warn the customer instead of retrying
// the whole redemption.
type PartialRedeemError struct {
	Points int
	Err    error
}

func (e *PartialRedeemError) Error() string {
	return fmt.Sprintf("points deducted but order record failed: %v", e.Err)
}

func (e *PartialRedeemError) Unwrap() error {
	return e.Err
}
