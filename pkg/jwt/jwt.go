package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidKey       = errors.New("invalid key")
)

// Claims are the claims the backend puts in a session token
type Claims struct {
	UserID string `json:"id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`

	gojwt.RegisteredClaims
}

// ExpiresAtTime returns the expiry, or the zero time if the token has none
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Valid checks the expiry against now, allowing leeway for clock skew
func (c *Claims) Valid(now time.Time, leeway time.Duration) error {
	if c.UserID == "" {
		return fmt.Errorf("%w: missing id claim", ErrInvalidToken)
	}
	exp := c.ExpiresAtTime()
	if !exp.IsZero() && now.After(exp.Add(leeway)) {
		return ErrTokenExpired
	}
	return nil
}

// Decoder reads session tokens. With a public key it verifies RS256
// signatures; without one it only decodes the claims, which is enough to
// recover the identity of a token this client was handed by the backend.
type Decoder struct {
	publicKey *rsa.PublicKey
	leeway    time.Duration
	now       func() time.Time
}

// Config holds decoder configuration
type Config struct {
	PublicKeyPath string
	Leeway        time.Duration
}

// NewDecoder creates a decoder, loading the public key if a path is set
func NewDecoder(cfg Config) (*Decoder, error) {
	d := &Decoder{
		leeway: cfg.Leeway,
		now:    time.Now,
	}

	if cfg.PublicKeyPath != "" {
		key, err := loadPublicKey(cfg.PublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load public key: %w", err)
		}
		d.publicKey = key
	}

	return d, nil
}

// NewUnverifiedDecoder creates a decode-only decoder using the system clock
func NewUnverifiedDecoder() *Decoder {
	return &Decoder{now: time.Now}
}

// NewTestDecoder creates a decoder with an in-memory key and a fixed clock.
// A nil key gives a decode-only decoder; a nil clock uses time.Now.
func NewTestDecoder(publicKey *rsa.PublicKey, now func() time.Time) *Decoder {
	if now == nil {
		now = time.Now
	}
	return &Decoder{publicKey: publicKey, now: now}
}

// Verifies reports whether the decoder checks signatures
func (d *Decoder) Verifies() bool {
	return d.publicKey != nil
}

// Decode returns the claims of tokenString. Expired tokens fail with
// ErrTokenExpired.
func (d *Decoder) Decode(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}

	if d.publicKey == nil {
		if _, _, err := gojwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	} else {
		_, err := gojwt.ParseWithClaims(tokenString, claims, func(*gojwt.Token) (interface{}, error) {
			return d.publicKey, nil
		},
			gojwt.WithValidMethods([]string{gojwt.SigningMethodRS256.Alg()}),
			gojwt.WithLeeway(d.leeway),
			gojwt.WithTimeFunc(d.now),
		)
		switch {
		case err == nil:
		case errors.Is(err, gojwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}

	if err := claims.Valid(d.now(), d.leeway); err != nil {
		return nil, err
	}
	return claims, nil
}

// Sign creates a token with the given method and key. The client never
// issues tokens; this exists for tests and local tooling.
func Sign(method gojwt.SigningMethod, key interface{}, claims Claims) (string, error) {
	signed, err := gojwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign: %w", err)
	}
	return signed, nil
}

// NewExpiry is a convenience for building the exp claim
func NewExpiry(t time.Time) *gojwt.NumericDate {
	return gojwt.NewNumericDate(t)
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	key, err := gojwt.ParseRSAPublicKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return key, nil
}
