package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors
var (
	ErrInvalidDescription = errors.New("invalid description")
	ErrMetadataTooLarge   = errors.New("metadata size exceeds limit")
	ErrInvalidEventType   = errors.New("unknown event type")
)

// Validation constants
const (
	MaxDescriptionLength = 500
	MaxMetadataSize      = 10240 // 10KB
)

// ValidateAmount validates a mutation amount. Every ledger operation takes
// a positive magnitude; the sign is derived from the event type.
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateDescription validates an event description.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidDescription, MaxDescriptionLength)
	}
	return nil
}

// ValidateMetadata bounds the size of the opaque metadata blob. Contents
// are passed through untouched.
func ValidateMetadata(metadata map[string]any) error {
	if metadata == nil {
		return nil
	}

	size := 0
	for k, v := range metadata {
		size += len(k)
		size += len(fmt.Sprintf("%v", v))
	}

	if size > MaxMetadataSize {
		return fmt.Errorf("%w: %d bytes over limit of %d bytes", ErrMetadataTooLarge, size, MaxMetadataSize)
	}

	return nil
}

// ValidateEventType validates a caller-supplied event type string.
func ValidateEventType(t string) (EventType, error) {
	et := EventType(strings.ToLower(strings.TrimSpace(t)))
	if !et.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidEventType, t)
	}
	return et, nil
}

// ValidatePagination clamps pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const maxPageSize = 200
	const defaultPageSize = 50

	if limit <= 0 {
		limit = defaultPageSize
	}

	if limit > maxPageSize {
		limit = maxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
