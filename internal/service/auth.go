package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/forgo/vidgram/internal/model"
)

// AuthAPI defines the unauthenticated account endpoints
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*model.LoginResponse, error)
	Register(ctx context.Context, req *model.RegisterRequest) (*model.MessageResponse, error)
	ForgotPassword(ctx context.Context, email string) (*model.MessageResponse, error)
	ResetPassword(ctx context.Context, token, newPassword string) (*model.MessageResponse, error)
}

// AuthService handles sign-in, sign-up and password recovery
type AuthService struct {
	api     AuthAPI
	session  SessionManager
	onLogout []func()
	logger   *slog.Logger
}

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	API     AuthAPI
	Session SessionManager
	// OnLogout runs after the session ends, to drop per-viewer state
	OnLogout []func()
	Logger   *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		api:      cfg.API,
		session:  cfg.Session,
		onLogout: cfg.OnLogout,
		logger:   logger,
	}
}

// Login checks credentials with the backend and starts the session
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.Identity, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	resp, err := s.api.Login(ctx, req.Email, req.Password)
	if err != nil {
		if model.IsStatus(err, http.StatusUnauthorized) || model.IsStatus(err, http.StatusBadRequest) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: login: %w", model.ErrActionFailed, err)
	}
	if resp.Token == "" || resp.User.ID == "" {
		return nil, fmt.Errorf("%w: login response is missing the token or user", model.ErrActionFailed)
	}

	if err := s.session.Login(ctx, resp.Token, resp.User); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrActionFailed, err)
	}

	identity, err := s.session.Identity()
	if err != nil {
		return nil, err
	}
	return identity, nil
}

// Logout ends the session and forgets the stored token
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.session.Logout(ctx); err != nil {
		return fmt.Errorf("%w: %w", model.ErrActionFailed, err)
	}
	for _, fn := range s.onLogout {
		fn()
	}
	s.logger.Info("logged out")
	return nil
}

// Register validates the sign-up form and submits it
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.MessageResponse, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	resp, err := s.api.Register(ctx, req)
	if err != nil {
		if model.IsStatus(err, http.StatusConflict) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("%w: register: %w", model.ErrActionFailed, err)
	}

	s.logger.Info("account registered", slog.String("email", req.Email))
	return resp, nil
}

// ForgotPassword asks the backend to mail a reset link to req.Email
func (s *AuthService) ForgotPassword(ctx context.Context, req model.ForgotPasswordRequest) (*model.MessageResponse, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	resp, err := s.api.ForgotPassword(ctx, req.Email)
	if err != nil {
		if model.IsStatus(err, http.StatusBadRequest) || model.IsStatus(err, http.StatusNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: forgot password: %w", model.ErrActionFailed, err)
	}
	return resp, nil
}

// ResetPassword sets a new password with the mailed token
func (s *AuthService) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) (*model.MessageResponse, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	resp, err := s.api.ResetPassword(ctx, req.Token, req.NewPassword)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusGone) {
			return nil, ErrInvalidResetToken
		}
		return nil, fmt.Errorf("%w: reset password: %w", model.ErrActionFailed, err)
	}
	return resp, nil
}
