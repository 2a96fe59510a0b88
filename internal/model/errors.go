package model

import (
	"errors"
	"fmt"
)

var (
	ErrMatchExists   = errors.New("match already exists")
	ErrMatchNotFound = errors.New("match not found")
)

// ValidationError reports missing or malformed telemetry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid telemetry: %s: %s", e.Field, e.Reason)
}

// DataIntegrityError reports telemetry that is well-formed but contradicts itself,
// such as a team identifier that is neither Red nor Blue.
type DataIntegrityError struct {
	Field string
	Value string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity: unexpected %s %q", e.Field, e.Value)
}

// ConsistencyError reports an aggregate counter that would go negative on reverse,
// which means an apply/reverse pair does not match.
type ConsistencyError struct {
	Scope string
	Field string
	Value int
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("aggregate consistency: %s %s would become %d", e.Scope, e.Field, e.Value)
}
