package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/forgo/vidgram/internal/model"
)

// Session is the view of the signed-in identity the services need. The
// bearer token is read through it on every call.
type Session interface {
	Identity() (*model.Identity, error)
	BearerToken() (string, error)
	Expire(ctx context.Context)
}

// SessionManager is a Session that can also be started and ended
type SessionManager interface {
	Session
	Login(ctx context.Context, token string, identity model.Identity) error
	Logout(ctx context.Context) error
}

// checkAuth fails with ErrUnauthenticated before any network call is made
func checkAuth(sess Session) (*model.Identity, error) {
	if sess == nil {
		return nil, model.ErrUnauthenticated
	}
	if _, err := sess.BearerToken(); err != nil {
		return nil, err
	}
	return sess.Identity()
}

// classify maps a client error onto the taxonomy. A 401 from the server ends
// the session and surfaces as ErrUnauthenticated; any other failure is
// wrapped in class.
func classify(ctx context.Context, sess Session, class error, op string, err error) error {
	if model.IsStatus(err, http.StatusUnauthorized) {
		sess.Expire(ctx)
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, model.ErrUnauthenticated) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", class, op, err)
}
