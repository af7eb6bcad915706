package service

import (
	"errors"
	"fmt"

	"github.com/forgo/vidgram/internal/model"
)

// Centralized service layer errors.
// Each one wraps a model sentinel where one applies, so callers can branch
// on the taxonomy with errors.Is and still print a specific message.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", model.ErrUnauthenticated)
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidResetToken  = errors.New("reset token is invalid or expired")
)

// ===== Relationship Errors =====
var (
	ErrTargetRequired       = fmt.Errorf("%w: target id is required", model.ErrValidationFailed)
	ErrCannotFollowSelf     = fmt.Errorf("%w: cannot follow yourself", model.ErrValidationFailed)
	ErrFollowRequestPending = fmt.Errorf("%w: follow request already pending", model.ErrValidationFailed)
	ErrActionDeclined       = fmt.Errorf("%w: server declined the action", model.ErrActionFailed)
)

// ===== Follow Request Errors =====
var (
	ErrRequestIDRequired    = fmt.Errorf("%w: request id is required", model.ErrValidationFailed)
	ErrInvalidRequestAction = fmt.Errorf("%w: action must be approve or reject", model.ErrValidationFailed)
)

// ===== Profile Errors =====
var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrNotProfileOwner  = errors.New("only the owner can edit this profile")
	ErrProfileIDMissing = fmt.Errorf("%w: profile id is required", model.ErrValidationFailed)
)
