package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/forgo/vidgram/internal/model"
)

func setupAuthService(t *testing.T) (*AuthService, *mockAuthAPI, *mockSession) {
	t.Helper()
	api := &mockAuthAPI{
		loginResp: &model.LoginResponse{
			Token: "tok",
			User:  model.Identity{ID: "u1", Name: "Ana", Email: "ana@example.com"},
		},
	}
	sess := newAnonymousSession()
	svc := NewAuthService(AuthServiceConfig{API: api, Session: sess})
	return svc, api, sess
}

func validRegisterRequest() *model.RegisterRequest {
	return &model.RegisterRequest{
		Name:            "Ana Maria",
		Email:           "ana@example.com",
		Password:        "Secret1!",
		ConfirmPassword: "Secret1!",
		Address:         "12 Long Street, Springfield",
		Phone:           "5551234567",
		AccountType:     model.VisibilityPublic,
		ProfilePicture: &model.Attachment{
			Filename:    "ana.png",
			ContentType: "image/png",
			Body:        strings.NewReader("png"),
		},
	}
}

// ============================================================================
// Login
// ============================================================================

func TestAuthService_Login(t *testing.T) {
	svc, api, sess := setupAuthService(t)

	identity, err := svc.Login(context.Background(), model.LoginRequest{Email: " ana@example.com ", Password: "Secret1!"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.ID != "u1" {
		t.Errorf("expected identity u1, got %s", identity.ID)
	}
	if api.lastEmail != "ana@example.com" {
		t.Errorf("expected trimmed email, got %q", api.lastEmail)
	}
	if token, _ := sess.BearerToken(); token != "tok" {
		t.Errorf("expected session token tok, got %q", token)
	}
}

func TestAuthService_LoginValidation(t *testing.T) {
	svc, api, _ := setupAuthService(t)

	_, err := svc.Login(context.Background(), model.LoginRequest{Email: "not-an-email"})
	if !errors.Is(err, model.ErrValidationFailed) {
		t.Fatalf("expected validation failure, got %v", err)
	}
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *model.ValidationError, got %T", err)
	}
	if _, ok := verr.Field("email"); !ok {
		t.Error("expected an email error")
	}
	if _, ok := verr.Field("password"); !ok {
		t.Error("expected a password error")
	}
	if api.loginCalls != 0 {
		t.Errorf("expected no network call, got %d", api.loginCalls)
	}
}

func TestAuthService_LoginRejected(t *testing.T) {
	svc, api, sess := setupAuthService(t)
	api.loginErr = apiError(http.StatusUnauthorized)

	_, err := svc.Login(context.Background(), model.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if !errors.Is(err, model.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := sess.Identity(); err == nil {
		t.Error("session must stay anonymous")
	}
}

func TestAuthService_LoginPersistFailure(t *testing.T) {
	svc, _, sess := setupAuthService(t)
	sess.loginErr = errors.New("disk full")

	_, err := svc.Login(context.Background(), model.LoginRequest{Email: "ana@example.com", Password: "Secret1!"})
	if !errors.Is(err, model.ErrActionFailed) {
		t.Errorf("expected ErrActionFailed, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, sess := setupAuthService(t)
	if _, err := svc.Login(context.Background(), model.LoginRequest{Email: "ana@example.com", Password: "Secret1!"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Logout(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := sess.BearerToken(); !errors.Is(err, model.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated after logout, got %v", err)
	}
}

func TestAuthService_Logout_ClearsTracker(t *testing.T) {
	_, api, sess := setupAuthService(t)
	relAPI := newMockRelationshipAPI()
	relAPI.snapshot = model.RelationshipSnapshot{Following: []string{"a"}, Pending: []string{"b"}}
	tracker := NewTracker(TrackerConfig{API: relAPI})
	svc := NewAuthService(AuthServiceConfig{API: api, Session: sess, OnLogout: []func(){tracker.Clear}})
	ctx := context.Background()

	if _, err := svc.Login(ctx, model.LoginRequest{Email: "ana@example.com", Password: "Secret1!"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tracker.Reconcile(ctx, sess); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracker.Following()) != 1 || len(tracker.Pending()) != 1 {
		t.Fatalf("expected reconciled sets, got %v / %v", tracker.Following(), tracker.Pending())
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracker.Following()) != 0 || len(tracker.Pending()) != 0 {
		t.Errorf("expected logout to clear relationships, got %v / %v", tracker.Following(), tracker.Pending())
	}
}

// ============================================================================
// Register
// ============================================================================

func TestAuthService_Register(t *testing.T) {
	svc, api, _ := setupAuthService(t)

	if _, err := svc.Register(context.Background(), validRegisterRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.registerCalls != 1 {
		t.Errorf("expected one call, got %d", api.registerCalls)
	}
}

func TestAuthService_RegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.RegisterRequest)
		field  string
	}{
		{"short name", func(r *model.RegisterRequest) { r.Name = "Al" }, "name"},
		{"digits in name", func(r *model.RegisterRequest) { r.Name = "Ana 2" }, "name"},
		{"bad email", func(r *model.RegisterRequest) { r.Email = "ana@" }, "email"},
		{"weak password", func(r *model.RegisterRequest) { r.Password, r.ConfirmPassword = "password", "password" }, "password"},
		{"mismatched confirm", func(r *model.RegisterRequest) { r.ConfirmPassword = "Secret2!" }, "confirm_password"},
		{"short phone", func(r *model.RegisterRequest) { r.Phone = "12345" }, "phoneno"},
		{"short address", func(r *model.RegisterRequest) { r.Address = "Nowhere" }, "address"},
		{"bad account type", func(r *model.RegisterRequest) { r.AccountType = "secret" }, "accountType"},
		{"missing picture", func(r *model.RegisterRequest) { r.ProfilePicture = nil }, "profile_pic"},
		{"gif picture", func(r *model.RegisterRequest) { r.ProfilePicture.ContentType = "image/gif" }, "profile_pic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, api, _ := setupAuthService(t)
			req := validRegisterRequest()
			tt.mutate(req)

			_, err := svc.Register(context.Background(), req)
			var verr *model.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := verr.Field(tt.field); !ok {
				t.Errorf("expected error on %q, got %+v", tt.field, verr.Errors)
			}
			if api.registerCalls != 0 {
				t.Errorf("expected no network call")
			}
		})
	}
}

func TestAuthService_RegisterConflict(t *testing.T) {
	svc, api, _ := setupAuthService(t)
	api.registerErr = apiError(http.StatusConflict)

	_, err := svc.Register(context.Background(), validRegisterRequest())
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

// ============================================================================
// Password Recovery
// ============================================================================

func TestAuthService_ForgotPassword(t *testing.T) {
	svc, api, _ := setupAuthService(t)
	ctx := context.Background()

	if _, err := svc.ForgotPassword(ctx, model.ForgotPasswordRequest{Email: ""}); !errors.Is(err, model.ErrValidationFailed) {
		t.Errorf("empty email: expected validation failure, got %v", err)
	}

	if _, err := svc.ForgotPassword(ctx, model.ForgotPasswordRequest{Email: "ana@example.com"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	api.forgotErr = apiError(http.StatusBadRequest)
	if _, err := svc.ForgotPassword(ctx, model.ForgotPasswordRequest{Email: "ghost@example.com"}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_ResetPassword(t *testing.T) {
	tests := []struct {
		name    string
		req     model.ResetPasswordRequest
		wantErr error
	}{
		{"valid", model.ResetPasswordRequest{Token: "t", NewPassword: "Newpass1!", ConfirmPassword: "Newpass1!"}, nil},
		{"long password allowed", model.ResetPasswordRequest{Token: "t", NewPassword: "Averyveryverylongpassword12345678!", ConfirmPassword: "Averyveryverylongpassword12345678!"}, nil},
		{"missing token", model.ResetPasswordRequest{NewPassword: "Newpass1!", ConfirmPassword: "Newpass1!"}, model.ErrValidationFailed},
		{"common password", model.ResetPasswordRequest{Token: "t", NewPassword: "password", ConfirmPassword: "password"}, model.ErrValidationFailed},
		{"mismatch", model.ResetPasswordRequest{Token: "t", NewPassword: "Newpass1!", ConfirmPassword: "Newpass2!"}, model.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, api, _ := setupAuthService(t)
			_, err := svc.ResetPassword(context.Background(), tt.req)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if api.lastPassword != tt.req.NewPassword {
					t.Errorf("expected password to be sent")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAuthService_ResetPasswordBadToken(t *testing.T) {
	svc, api, _ := setupAuthService(t)
	api.resetErr = apiError(http.StatusBadRequest)

	_, err := svc.ResetPassword(context.Background(), model.ResetPasswordRequest{Token: "stale", NewPassword: "Newpass1!", ConfirmPassword: "Newpass1!"})
	if !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("expected ErrInvalidResetToken, got %v", err)
	}
}
