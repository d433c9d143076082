package auctiontypes

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("missing or invalid credential")
	ErrLearning            = errors.New("learning failure")
	ErrInsufficientSamples = errors.New("not enough transitions to sample")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return ValidationError{Field: field, Reason: reason}
}

func AuctionNotFound(id string) error {
	return fmt.Errorf("auction %q: %w", id, ErrNotFound)
}

func AgentNotFound(id string) error {
	return fmt.Errorf("agent %q: %w", id, ErrNotFound)
}
