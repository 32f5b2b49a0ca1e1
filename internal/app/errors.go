package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/see/internal/ports/primary"
	"github.com/example/see/internal/ports/secondary"
)

// inputError is a refused guard or validation failure. It matches
// primary.ErrInvalidInput while keeping the guard's message.
type inputError struct {
	reason string
}

func (e *inputError) Error() string { return e.reason }

func (e *inputError) Unwrap() error { return primary.ErrInvalidInput }

func invalidInput(format string, args ...any) error {
	return &inputError{reason: fmt.Sprintf(format, args...)}
}

// refused converts a guard reason into an input error.
func refused(reason string) error {
	return &inputError{reason: reason}
}

// lookupEngagement loads an engagement, reporting absence as ok=false
// instead of an error so guards can phrase the refusal.
func lookupEngagement(ctx context.Context, repo secondary.EngagementRepository, engagementID string) (*secondary.EngagementRecord, bool, error) {
	record, err := repo.GetByID(ctx, engagementID)
	if errors.Is(err, secondary.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to validate engagement: %w", err)
	}
	return record, true, nil
}
