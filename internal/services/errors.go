// Package services defines the business logic for discovery sessions. This
// file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import (
	"errors"
	"fmt"

	"github.com/tbourn/go-style-backend/internal/domain"
)

var (
	// ErrSessionNotFound indicates that the requested session does not
	// exist (or was discarded as stale).
	ErrSessionNotFound = errors.New("session not found")

	// ErrRationaleTooShort is returned when a choice rationale has fewer
	// than MinRationaleRunes characters after trimming.
	ErrRationaleTooShort = errors.New("rationale too short")

	// ErrRationaleTooLong is returned when a choice rationale exceeds
	// MaxRationaleRunes characters after trimming.
	ErrRationaleTooLong = errors.New("rationale too long")

	// ErrMissingStyleTags is returned when a submitted choice carries no
	// style tags; every selected item must have at least a primary tag.
	ErrMissingStyleTags = errors.New("choice has no style tags")

	// ErrNoAlternative is returned by RejectRecommendation when no
	// second-best style exists; the caller decides whether to restart.
	ErrNoAlternative = errors.New("no alternative recommendation available")

	// ErrNoRecommendation indicates the session has not converged yet, so
	// there is no recommended style to build a display set for.
	ErrNoRecommendation = errors.New("session has no recommendation yet")
)

// InvalidTransitionError reports a phase-inappropriate action. It is a
// programming error in the caller: the state machine never silently no-ops,
// and no partial state mutation occurs.
type InvalidTransitionError struct {
	Phase  domain.Phase
	Action string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s not allowed in phase %s", e.Action, e.Phase)
}

// invalidTransition builds the error for an action attempted in phase.
func invalidTransition(phase domain.Phase, action string) error {
	return &InvalidTransitionError{Phase: phase, Action: action}
}
