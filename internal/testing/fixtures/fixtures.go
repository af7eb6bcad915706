package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/forgo/vidgram/internal/client"
	"github.com/forgo/vidgram/internal/model"
	"github.com/forgo/vidgram/internal/repository"
	"github.com/forgo/vidgram/internal/session"
	"github.com/forgo/vidgram/internal/testing/fakeapi"
	"github.com/forgo/vidgram/internal/testing/helpers"
)

// Factory seeds accounts into a fake backend and builds clients and
// sessions that talk to it
type Factory struct {
	api *fakeapi.Server
}

// New creates a new fixture factory
func New(api *fakeapi.Server) *Factory {
	return &Factory{api: api}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ============================================================================
// User Fixtures
// ============================================================================

// UserOpts customizes user creation
type UserOpts struct {
	ID       string
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
	Private  bool
}

// WithID fixes the user id
func WithID(id string) func(*UserOpts) {
	return func(o *UserOpts) { o.ID = id }
}

// WithName sets the display name
func WithName(name string) func(*UserOpts) {
	return func(o *UserOpts) { o.Name = name }
}

// WithEmail sets the email
func WithEmail(email string) func(*UserOpts) {
	return func(o *UserOpts) { o.Email = email }
}

// WithPassword sets the password
func WithPassword(pw string) func(*UserOpts) {
	return func(o *UserOpts) { o.Password = pw }
}

// WithPrivate makes the account private
func WithPrivate() func(*UserOpts) {
	return func(o *UserOpts) { o.Private = true }
}

// CreateUser creates a user with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *fakeapi.User {
	t.Helper()

	suffix := randomID()
	o := &UserOpts{
		Name:     "user_" + suffix,
		Email:    fmt.Sprintf("user_%s@test.local", suffix),
		Password: "Secret1!",
		Phone:    "5551234567",
		Address:  "1 Test Street, Springfield",
	}
	for _, fn := range opts {
		fn(o)
	}

	visibility := model.VisibilityPublic
	if o.Private {
		visibility = model.VisibilityPrivate
	}

	return f.api.AddUser(fakeapi.User{
		ID:          o.ID,
		Name:        o.Name,
		Email:       o.Email,
		Password:    o.Password,
		Phone:       o.Phone,
		Address:     o.Address,
		AccountType: visibility,
		ProfilePic:  "uploads/" + suffix + ".png",
	})
}

// CreateUsers creates n public users
func (f *Factory) CreateUsers(t *testing.T, n int) []*fakeapi.User {
	t.Helper()
	users := make([]*fakeapi.User, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, f.CreateUser(t))
	}
	return users
}

// Identity returns the identity a login as u would yield
func Identity(u *fakeapi.User) model.Identity {
	return model.Identity{ID: u.ID, Name: u.Name, Email: u.Email}
}

// ============================================================================
// Client and Session Fixtures
// ============================================================================

// Client returns an API client pointed at the fake backend
func (f *Factory) Client(t *testing.T) *client.Client {
	t.Helper()

	c, err := client.New(client.Config{
		BaseURL: f.api.URL,
		Timeout: 5 * time.Second,
		Logger:  helpers.DiscardLogger(),
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create client: %v", err)
	}
	return c
}

// Session returns a session signed in as u, backed by a memory store
func (f *Factory) Session(t *testing.T, u *fakeapi.User) *session.Session {
	t.Helper()

	sess := session.New(session.Config{
		Store:  repository.NewMemoryTokenStore(),
		Logger: helpers.DiscardLogger(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sess.Login(ctx, f.api.IssueToken(u.ID), Identity(u)); err != nil {
		t.Fatalf("fixtures: failed to start session: %v", err)
	}
	return sess
}

// AnonymousSession returns a signed-out session backed by a memory store
func (f *Factory) AnonymousSession(t *testing.T) *session.Session {
	t.Helper()
	return session.New(session.Config{
		Store:  repository.NewMemoryTokenStore(),
		Logger: helpers.DiscardLogger(),
	})
}
