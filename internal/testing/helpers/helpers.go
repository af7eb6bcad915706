package helpers

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/forgo/vidgram/internal/model"
	"github.com/forgo/vidgram/pkg/jwt"
)

// ============================================================================
// JWT Helpers
// ============================================================================

// JWTHelper signs RS256 tokens shaped like the backend's
type JWTHelper struct {
	privateKey *rsa.PrivateKey
	issuer     string
}

// NewJWTHelper creates a JWT helper with an in-memory key
func NewJWTHelper(t *testing.T) *JWTHelper {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("helpers: failed to generate RSA key: %v", err)
	}

	return &JWTHelper{
		privateKey: privateKey,
		issuer:     "vidgram-test",
	}
}

// GenerateToken creates a token valid for an hour
func (h *JWTHelper) GenerateToken(t *testing.T, identity model.Identity) string {
	t.Helper()
	return h.sign(t, identity, time.Now().Add(time.Hour))
}

// GenerateExpiredToken creates a token that expired an hour ago
func (h *JWTHelper) GenerateExpiredToken(t *testing.T, identity model.Identity) string {
	t.Helper()
	return h.sign(t, identity, time.Now().Add(-time.Hour))
}

func (h *JWTHelper) sign(t *testing.T, identity model.Identity, expires time.Time) string {
	t.Helper()

	claims := jwt.Claims{
		UserID: identity.ID,
		Name:   identity.Name,
		Email:  identity.Email,
	}
	claims.Issuer = h.issuer
	claims.IssuedAt = gojwt.NewNumericDate(expires.Add(-2 * time.Hour))
	claims.ExpiresAt = jwt.NewExpiry(expires)

	token, err := jwt.Sign(gojwt.SigningMethodRS256, h.privateKey, claims)
	if err != nil {
		t.Fatalf("helpers: failed to sign token: %v", err)
	}
	return token
}

// Decoder returns a decoder that verifies this helper's tokens
func (h *JWTHelper) Decoder() *jwt.Decoder {
	return jwt.NewTestDecoder(&h.privateKey.PublicKey, time.Now)
}

// WritePublicKey writes the PEM public key to a temp file and returns its path
func (h *JWTHelper) WritePublicKey(t *testing.T) string {
	t.Helper()

	der, err := x509.MarshalPKIXPublicKey(&h.privateKey.PublicKey)
	if err != nil {
		t.Fatalf("helpers: failed to marshal public key: %v", err)
	}

	path := filepath.Join(t.TempDir(), "public.pem")
	data := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("helpers: failed to write public key: %v", err)
	}
	return path
}

// ============================================================================
// Assertion Helpers
// ============================================================================

// AssertErrorIs fails the test unless errors.Is(err, target)
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("expected error %v, got %v", target, err)
	}
}

// AssertFieldError fails the test unless err is a validation error on field
func AssertFieldError(t *testing.T, err error, field string) {
	t.Helper()

	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := verr.Field(field); !ok {
		t.Errorf("expected validation error on field %q, got %+v", field, verr.Errors)
	}
}

// AssertIDs fails the test unless items carry exactly ids, in order
func AssertIDs(t *testing.T, items []model.CollectionItem, ids ...string) {
	t.Helper()

	got := ItemIDs(items)
	if len(got) != len(ids) {
		t.Fatalf("expected %d items %v, got %d %v", len(ids), ids, len(got), got)
	}
	for i := range ids {
		if got[i] != ids[i] {
			t.Errorf("item %d: expected %q, got %q", i, ids[i], got[i])
		}
	}
}

// ============================================================================
// Utility Helpers
// ============================================================================

// ItemIDs returns the ids of items, in order
func ItemIDs(items []model.CollectionItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

// Ctx returns a context cancelled when the test ends or after 10 seconds
func Ctx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// DiscardLogger returns a logger that drops everything
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
