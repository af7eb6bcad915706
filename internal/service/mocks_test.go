package service

import (
	"context"
	"net/http"
	"sync"

	"github.com/forgo/vidgram/internal/client"
	"github.com/forgo/vidgram/internal/model"
)

// ============================================================================
// Session
// ============================================================================

type mockSession struct {
	mu       sync.Mutex
	identity *model.Identity
	expired  int
	loginErr error
}

func newMockSession(id string) *mockSession {
	return &mockSession{identity: &model.Identity{ID: id, Name: "Viewer " + id, Token: "token-" + id}}
}

func newAnonymousSession() *mockSession {
	return &mockSession{}
}

func (m *mockSession) Identity() (*model.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return nil, model.ErrUnauthenticated
	}
	cp := *m.identity
	return &cp, nil
}

func (m *mockSession) BearerToken() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return "", model.ErrUnauthenticated
	}
	return m.identity.Token, nil
}

func (m *mockSession) Expire(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identity = nil
	m.expired++
}

func (m *mockSession) Login(ctx context.Context, token string, identity model.Identity) error {
	if m.loginErr != nil {
		return m.loginErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	identity.Token = token
	m.identity = &identity
	return nil
}

func (m *mockSession) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identity = nil
	return nil
}

func (m *mockSession) expiredCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expired
}

// gate holds a mock call open until released
type gate struct {
	started chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{started: make(chan struct{}, 16), release: make(chan struct{})}
}

func (g *gate) wait(ctx context.Context) {
	if g == nil {
		return
	}
	g.started <- struct{}{}
	select {
	case <-g.release:
	case <-ctx.Done():
	}
}

func apiError(status int) error {
	return model.NewAPIError(status, http.StatusText(status))
}

// ============================================================================
// Collections
// ============================================================================

type mockCollectionAPI struct {
	mu        sync.Mutex
	users     []model.CollectionItem
	followers map[string][]model.CollectionItem
	following map[string][]model.CollectionItem
	errs      []error
	gate      *gate

	calls  int
	pages  []int
	limits []int
	owners []string
}

func newMockCollectionAPI() *mockCollectionAPI {
	return &mockCollectionAPI{
		followers: make(map[string][]model.CollectionItem),
		following: make(map[string][]model.CollectionItem),
	}
}

func (m *mockCollectionAPI) page(ctx context.Context, auth client.Authorizer, owner string, all func() []model.CollectionItem, page, limit int) ([]model.CollectionItem, error) {
	if _, err := auth.BearerToken(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.calls++
	m.pages = append(m.pages, page)
	m.limits = append(m.limits, limit)
	m.owners = append(m.owners, owner)
	g := m.gate
	m.mu.Unlock()

	g.wait(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		if err != nil {
			return nil, err
		}
	}

	items := all()
	start := (page - 1) * limit
	if start >= len(items) {
		return []model.CollectionItem{}, nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return append([]model.CollectionItem(nil), items[start:end]...), nil
}

func (m *mockCollectionAPI) ListUsers(ctx context.Context, auth client.Authorizer, page, limit int) ([]model.CollectionItem, error) {
	return m.page(ctx, auth, "", func() []model.CollectionItem { return m.users }, page, limit)
}

func (m *mockCollectionAPI) ListFollowers(ctx context.Context, auth client.Authorizer, ownerID string, page, limit int) ([]model.CollectionItem, error) {
	return m.page(ctx, auth, ownerID, func() []model.CollectionItem { return m.followers[ownerID] }, page, limit)
}

func (m *mockCollectionAPI) ListFollowing(ctx context.Context, auth client.Authorizer, ownerID string, page, limit int) ([]model.CollectionItem, error) {
	return m.page(ctx, auth, ownerID, func() []model.CollectionItem { return m.following[ownerID] }, page, limit)
}

func (m *mockCollectionAPI) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockCollectionAPI) failNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, err)
}

func (m *mockCollectionAPI) rename(id, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			m.users[i].Name = name
		}
	}
}

// ============================================================================
// Relationships
// ============================================================================

type mockRelationshipAPI struct {
	mu        sync.Mutex
	snapshot  model.RelationshipSnapshot
	snapErr   error
	followErr error
	decline   bool
	gate      *gate
	commands  []model.FollowCommand
}

func newMockRelationshipAPI() *mockRelationshipAPI {
	return &mockRelationshipAPI{}
}

func (m *mockRelationshipAPI) Relationships(ctx context.Context, auth client.Authorizer, viewerID string) (*model.RelationshipSnapshot, error) {
	if _, err := auth.BearerToken(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapErr != nil {
		return nil, m.snapErr
	}
	snap := m.snapshot
	return &snap, nil
}

func (m *mockRelationshipAPI) Follow(ctx context.Context, auth client.Authorizer, cmd model.FollowCommand) (*model.FollowResult, error) {
	if _, err := auth.BearerToken(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.commands = append(m.commands, cmd)
	g := m.gate
	m.mu.Unlock()

	g.wait(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.followErr != nil {
		return nil, m.followErr
	}
	if m.decline {
		return &model.FollowResult{Success: false, Message: "not allowed"}, nil
	}
	return &model.FollowResult{Success: true}, nil
}

func (m *mockRelationshipAPI) sent() []model.FollowCommand {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.FollowCommand(nil), m.commands...)
}

// ============================================================================
// Follow Requests
// ============================================================================

type mockFollowRequestAPI struct {
	mu        sync.Mutex
	requests  []model.FollowRequest
	loadErr   error
	handleErr error
	gate      *gate
	handled   []string
	actions   []model.RequestAction
	owners    []string
}

func (m *mockFollowRequestAPI) FollowRequests(ctx context.Context, auth client.Authorizer, ownerID string) ([]model.FollowRequest, error) {
	if _, err := auth.BearerToken(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]model.FollowRequest(nil), m.requests...), nil
}

func (m *mockFollowRequestAPI) HandleFollowRequest(ctx context.Context, auth client.Authorizer, requestID, ownerID string, action model.RequestAction) (*model.FollowResult, error) {
	if _, err := auth.BearerToken(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.handled = append(m.handled, requestID)
	m.actions = append(m.actions, action)
	m.owners = append(m.owners, ownerID)
	g := m.gate
	m.mu.Unlock()

	g.wait(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handleErr != nil {
		return nil, m.handleErr
	}
	return &model.FollowResult{Success: true}, nil
}

// ============================================================================
// Auth
// ============================================================================

type mockAuthAPI struct {
	loginResp   *model.LoginResponse
	loginErr    error
	registerErr error
	forgotErr   error
	resetErr    error

	loginCalls    int
	registerCalls int
	lastEmail     string
	lastToken     string
	lastPassword  string
}

func (m *mockAuthAPI) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	m.loginCalls++
	m.lastEmail = email
	m.lastPassword = password
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return m.loginResp, nil
}

func (m *mockAuthAPI) Register(ctx context.Context, req *model.RegisterRequest) (*model.MessageResponse, error) {
	m.registerCalls++
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	return &model.MessageResponse{Message: "Registered successfully"}, nil
}

func (m *mockAuthAPI) ForgotPassword(ctx context.Context, email string) (*model.MessageResponse, error) {
	m.lastEmail = email
	if m.forgotErr != nil {
		return nil, m.forgotErr
	}
	return &model.MessageResponse{Message: "Reset link sent"}, nil
}

func (m *mockAuthAPI) ResetPassword(ctx context.Context, token, newPassword string) (*model.MessageResponse, error) {
	m.lastToken = token
	m.lastPassword = newPassword
	if m.resetErr != nil {
		return nil, m.resetErr
	}
	return &model.MessageResponse{Message: "Password reset successful"}, nil
}

// ============================================================================
// Profile and Posts
// ============================================================================

type mockProfileAPI struct {
	profiles  map[string]*model.ProfileRecord
	getErr    error
	updateErr error
	lastReq   *model.UpdateProfileRequest
}

func newMockProfileAPI() *mockProfileAPI {
	return &mockProfileAPI{profiles: make(map[string]*model.ProfileRecord)}
}

func (m *mockProfileAPI) GetProfile(ctx context.Context, auth client.Authorizer, id string) (*model.ProfileRecord, error) {
	if _, err := auth.BearerToken(); err != nil {
		return nil, err
	}
	if m.getErr != nil {
		return nil, m.getErr
	}
	rec, ok := m.profiles[id]
	if !ok {
		return nil, apiError(http.StatusNotFound)
	}
	cp := *rec
	return &cp, nil
}

func (m *mockProfileAPI) UpdateProfile(ctx context.Context, auth client.Authorizer, id string, req *model.UpdateProfileRequest) (*model.ProfileRecord, error) {
	if _, err := auth.BearerToken(); err != nil {
		return nil, err
	}
	cp := *req
	m.lastReq = &cp
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	rec := m.profiles[id]
	if rec == nil {
		rec = &model.ProfileRecord{ID: id}
		m.profiles[id] = rec
	}
	rec.Username = req.Username
	rec.Email = req.Email
	rec.AccountType = req.AccountType
	rec.Phone = req.Phone
	rec.Address = req.Address
	out := *rec
	return &out, nil
}

type mockPostAPI struct {
	posts     []model.Post
	uploadErr error
	feedErr   error
	uploads   int
}

func (m *mockPostAPI) UploadPost(ctx context.Context, auth client.Authorizer, req *model.UploadPostRequest) (*model.MessageResponse, error) {
	if _, err := auth.BearerToken(); err != nil {
		return nil, err
	}
	m.uploads++
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.posts = append([]model.Post{{Description: req.Description}}, m.posts...)
	return &model.MessageResponse{Message: "Post uploaded"}, nil
}

func (m *mockPostAPI) Feed(ctx context.Context, auth client.Authorizer) ([]model.Post, error) {
	if _, err := auth.BearerToken(); err != nil {
		return nil, err
	}
	if m.feedErr != nil {
		return nil, m.feedErr
	}
	return m.posts, nil
}
