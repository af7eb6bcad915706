// Package fakeapi runs an in-memory vidgram backend for tests.
//
// The server speaks the same routes and JSON shapes as the real backend, and
// adds hooks to inject failures, hold requests in flight, and count calls.
//
// Usage:
//
//	api := fakeapi.New(t)
//	ana := api.AddUser(fakeapi.User{Name: "Ana", Email: "ana@example.com"})
//	token := api.IssueToken(ana.ID)
//
//	api.FailNext(fakeapi.RouteFollow, http.StatusInternalServerError)
//	release := api.Hold(fakeapi.RouteFollow)
//	defer release()
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/forgo/vidgram/internal/model"
	"github.com/forgo/vidgram/pkg/jwt"
)

// Route patterns, usable with FailNext, Hold and Calls
const (
	RouteLogin          = "/api/user/login"
	RouteRegister       = "/api/user/register"
	RouteForgotPassword = "/api/user/forgot-password"
	RouteResetPassword  = "/api/user/reset-password"
	RouteUsers          = "/api/user/auth/get-users"
	RouteRelationships  = "/api/user/auth/request/{id}"
	RouteFollow         = "/api/user/auth/follow"
	RouteFollowRequests = "/api/user/auth/follow-req/{id}"
	RouteHandleRequest  = "/api/user/auth/handle-follow-req/{id}"
	RouteProfile        = "/api/user/auth/profile/{id}"
	RouteProfileUpdate  = "/api/user/auth/profile-update/{id}"
	RouteFollowers      = "/api/user/auth/followers/{id}"
	RouteFollowings     = "/api/user/auth/followings/{id}"
	RoutePosts          = "/api/user/auth/posts"
	RouteFeed           = "/api/user/auth/getpost"
)

// TokenSecret signs the tokens the fake backend issues
const TokenSecret = "fakeapi-secret"

// User is a backend account
type User struct {
	ID          string
	Name        string
	Email       string
	Password    string
	Phone       string
	Address     string
	AccountType model.Visibility
	ProfilePic  string
}

type followRequest struct {
	id   string
	from string
	to   string
}

// Server is an in-memory backend
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	users       []*User
	byID        map[string]*User
	tokens      map[string]string
	following   map[string][]string
	requests    []followRequest
	posts       []model.Post
	resetTokens map[string]string
	seq         int

	calls       map[string]int
	failures    map[string][]int
	holds       map[string]chan struct{}
	lastHeaders map[string]http.Header
	declineNext map[string]bool
}

// New starts a fake backend that is closed when the test ends
func New(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		byID:        make(map[string]*User),
		tokens:      make(map[string]string),
		following:   make(map[string][]string),
		resetTokens: make(map[string]string),
		calls:       make(map[string]int),
		failures:    make(map[string][]int),
		holds:       make(map[string]chan struct{}),
		lastHeaders: make(map[string]http.Header),
		declineNext: make(map[string]bool),
	}

	r := chi.NewRouter()
	r.Post(RouteLogin, s.wrap(RouteLogin, false, s.handleLogin))
	r.Post(RouteRegister, s.wrap(RouteRegister, false, s.handleRegister))
	r.Post(RouteForgotPassword, s.wrap(RouteForgotPassword, false, s.handleForgotPassword))
	r.Post(RouteResetPassword, s.wrap(RouteResetPassword, false, s.handleResetPassword))
	r.Get(RouteUsers, s.wrap(RouteUsers, true, s.handleUsers))
	r.Get(RouteRelationships, s.wrap(RouteRelationships, true, s.handleRelationships))
	r.Post(RouteFollow, s.wrap(RouteFollow, true, s.handleFollow))
	r.Get(RouteFollowRequests, s.wrap(RouteFollowRequests, true, s.handleFollowRequests))
	r.Post(RouteHandleRequest, s.wrap(RouteHandleRequest, true, s.handleRequestAction))
	r.Get(RouteProfile, s.wrap(RouteProfile, true, s.handleProfile))
	r.Put(RouteProfileUpdate, s.wrap(RouteProfileUpdate, true, s.handleProfileUpdate))
	r.Get(RouteFollowers, s.wrap(RouteFollowers, true, s.handleFollowers))
	r.Get(RouteFollowings, s.wrap(RouteFollowings, true, s.handleFollowings))
	r.Post(RoutePosts, s.wrap(RoutePosts, true, s.handleUploadPost))
	r.Get(RouteFeed, s.wrap(RouteFeed, true, s.handleFeed))

	s.Server = httptest.NewServer(r)
	t.Cleanup(func() {
		s.mu.Lock()
		for route, ch := range s.holds {
			close(ch)
			delete(s.holds, route)
		}
		s.mu.Unlock()
		s.Server.Close()
	})
	return s
}

// ============================================================================
// Seeding and Inspection
// ============================================================================

// AddUser creates an account; empty ID, password or account type get defaults
func (s *Server) AddUser(u User) *User {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	if u.ID == "" {
		u.ID = fmt.Sprintf("u%d", s.seq)
	}
	if u.Password == "" {
		u.Password = "Secret1!"
	}
	if u.AccountType == "" {
		u.AccountType = model.VisibilityPublic
	}
	user := u
	s.users = append(s.users, &user)
	s.byID[user.ID] = &user
	return &user
}

// AddUsers creates n public users named "User 1".."User n"
func (s *Server) AddUsers(n int) []*User {
	out := make([]*User, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, s.AddUser(User{
			Name:  fmt.Sprintf("User %d", i),
			Email: fmt.Sprintf("user%d@example.com", i),
		}))
	}
	return out
}

// RenameUser changes a user's name, simulating a concurrent edit
func (s *Server) RenameUser(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[id]; ok {
		u.Name = name
	}
}

// IssueToken returns a signed session token for userID
func (s *Server) IssueToken(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueTokenLocked(userID)
}

func (s *Server) issueTokenLocked(userID string) string {
	u := s.byID[userID]
	claims := jwt.Claims{UserID: userID}
	if u != nil {
		claims.Name = u.Name
		claims.Email = u.Email
	}
	claims.ExpiresAt = jwt.NewExpiry(time.Now().Add(time.Hour))
	claims.IssuedAt = gojwt.NewNumericDate(time.Now())
	s.seq++
	claims.RegisteredClaims.ID = strconv.Itoa(s.seq)

	token, err := jwt.Sign(gojwt.SigningMethodHS256, []byte(TokenSecret), claims)
	if err != nil {
		panic(fmt.Sprintf("fakeapi: sign token: %v", err))
	}
	s.tokens[token] = userID
	return token
}

// RevokeTokens invalidates every issued token, so the next call gets a 401
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]string)
}

// SetFollowing makes follower follow each target
func (s *Server) SetFollowing(follower string, targets ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range targets {
		s.addFollowLocked(follower, t)
	}
}

// AddFollowRequest records a pending request from -> to and returns its id
func (s *Server) AddFollowRequest(from, to string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addRequestLocked(from, to)
}

// Following returns the ids follower follows
func (s *Server) Following(follower string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.following[follower]...)
}

// PendingFrom returns the ids from has outstanding requests to
func (s *Server) PendingFrom(from string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, r := range s.requests {
		if r.from == from {
			out = append(out, r.to)
		}
	}
	return out
}

// Posts returns the stored posts, oldest first
func (s *Server) Posts() []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Post(nil), s.posts...)
}

// ResetTokenFor returns the reset token mailed to email
func (s *Server) ResetTokenFor(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, e := range s.resetTokens {
		if e == email {
			return token
		}
	}
	return ""
}

// User returns the account with id
func (s *Server) User(id string) *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[id]; ok {
		cp := *u
		return &cp
	}
	return nil
}

// ============================================================================
// Hooks
// ============================================================================

// FailNext makes the next call to route answer with status
func (s *Server) FailNext(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = append(s.failures[route], status)
}

// DeclineNext makes the next follow-style call answer {"success": false}
func (s *Server) DeclineNext(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.declineNext[route] = true
}

// Hold blocks calls to route until the returned release func is called
func (s *Server) Hold(route string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.holds[route] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.holds[route] == ch {
				delete(s.holds, route)
				close(ch)
			}
			s.mu.Unlock()
		})
	}
}

// Calls returns how many requests reached route
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// LastHeaders returns the headers of the most recent call to route
func (s *Server) LastHeaders(route string) http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastHeaders[route]
}

type authedHandler func(w http.ResponseWriter, r *http.Request, userID string)

func (s *Server) wrap(route string, requireAuth bool, h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[route]++
		s.lastHeaders[route] = r.Header.Clone()
		hold := s.holds[route]
		var status int
		if queue := s.failures[route]; len(queue) > 0 {
			status, s.failures[route] = queue[0], queue[1:]
		}
		s.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}

		if status != 0 {
			writeMessage(w, status, http.StatusText(status))
			return
		}

		var userID string
		if requireAuth {
			parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeMessage(w, http.StatusUnauthorized, "Missing token")
				return
			}
			s.mu.Lock()
			id, ok := s.tokens[parts[1]]
			s.mu.Unlock()
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			userID = id
		}

		h(w, r, userID)
	}
}

// ============================================================================
// Auth Handlers
// ============================================================================

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, _ string) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, req.Email) && u.Password == req.Password {
			token := s.issueTokenLocked(u.ID)
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"message": "Login successful",
				"token":   token,
				"user":    map[string]string{"id": u.ID, "name": u.Name, "email": u.Email},
			})
			return
		}
	}
	writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request, _ string) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid form")
		return
	}
	email := r.FormValue("email")
	if email == "" || r.FormValue("name") == "" || r.FormValue("password") == "" {
		writeMessage(w, http.StatusBadRequest, "Missing fields")
		return
	}
	_, header, err := r.FormFile("profile_pic")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Profile picture is required")
		return
	}

	s.mu.Lock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			s.mu.Unlock()
			writeMessage(w, http.StatusConflict, "Email already exists")
			return
		}
	}
	s.mu.Unlock()

	s.AddUser(User{
		Name:        r.FormValue("name"),
		Email:       email,
		Password:    r.FormValue("password"),
		Phone:       r.FormValue("phoneno"),
		Address:     r.FormValue("address"),
		AccountType: model.ParseVisibility(r.FormValue("accountType")),
		ProfilePic:  "uploads/" + header.Filename,
	})
	writeMessage(w, http.StatusOK, "Registered successfully")
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request, _ string) {
	var req model.ForgotPasswordRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, req.Email) {
			s.seq++
			s.resetTokens[fmt.Sprintf("reset-%d", s.seq)] = u.Email
			writeMessage(w, http.StatusOK, "Reset link sent to your email")
			return
		}
	}
	writeMessage(w, http.StatusBadRequest, "User not found")
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request, _ string) {
	var req model.ResetPasswordRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.resetTokens[req.Token]
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid or expired token")
		return
	}
	delete(s.resetTokens, req.Token)
	for _, u := range s.users {
		if u.Email == email {
			u.Password = req.NewPassword
		}
	}
	writeMessage(w, http.StatusOK, "Password reset successful")
}

// ============================================================================
// Collection Handlers
// ============================================================================

func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

func paginate[T any](all []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(all) {
		return []T{}
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request, _ string) {
	page, limit := pageParams(r)

	s.mu.Lock()
	all := make([]map[string]string, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, map[string]string{
			"id":           u.ID,
			"name":         u.Name,
			"email":        u.Email,
			"account_type": string(u.AccountType),
			"profile_pic":  u.ProfilePic,
		})
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{"users": paginate(all, page, limit)})
}

func (s *Server) summaries(ids []string) []map[string]string {
	out := make([]map[string]string, 0, len(ids))
	for _, id := range ids {
		u, ok := s.byID[id]
		if !ok {
			continue
		}
		out = append(out, map[string]string{
			"id":          u.ID,
			"username":    u.Name,
			"accountType": string(u.AccountType),
			"profile_pic": u.ProfilePic,
		})
	}
	return out
}

func (s *Server) handleFollowers(w http.ResponseWriter, r *http.Request, _ string) {
	owner := chi.URLParam(r, "id")
	page, limit := pageParams(r)

	s.mu.Lock()
	var ids []string
	for _, u := range s.users {
		if contains(s.following[u.ID], owner) {
			ids = append(ids, u.ID)
		}
	}
	list := s.summaries(ids)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{"followers": paginate(list, page, limit)})
}

func (s *Server) handleFollowings(w http.ResponseWriter, r *http.Request, _ string) {
	owner := chi.URLParam(r, "id")
	page, limit := pageParams(r)

	s.mu.Lock()
	list := s.summaries(s.following[owner])
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{"following": paginate(list, page, limit)})
}

// ============================================================================
// Relationship Handlers
// ============================================================================

func (s *Server) handleRelationships(w http.ResponseWriter, r *http.Request, _ string) {
	viewer := chi.URLParam(r, "id")

	s.mu.Lock()
	following := append([]string{}, s.following[viewer]...)
	pending := []string{}
	for _, req := range s.requests {
		if req.from == viewer {
			pending = append(pending, req.to)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, model.RelationshipSnapshot{Following: following, Pending: pending})
}

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request, userID string) {
	var cmd model.FollowCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid body")
		return
	}
	if cmd.ActorID != userID {
		writeMessage(w, http.StatusForbidden, "Actor does not match token")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.declineNext[RouteFollow] {
		delete(s.declineNext, RouteFollow)
		writeJSON(w, http.StatusOK, model.FollowResult{Success: false, Message: "Action not allowed"})
		return
	}
	if _, ok := s.byID[cmd.TargetID]; !ok {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}

	switch cmd.Action {
	case model.FollowActionFollow:
		if cmd.IsRequest {
			s.addRequestLocked(cmd.ActorID, cmd.TargetID)
			writeJSON(w, http.StatusOK, model.FollowResult{Success: true, Message: "Follow request sent"})
			return
		}
		s.addFollowLocked(cmd.ActorID, cmd.TargetID)
		writeJSON(w, http.StatusOK, model.FollowResult{Success: true, Message: "Followed"})
	case model.FollowActionUnfollow:
		s.following[cmd.ActorID] = remove(s.following[cmd.ActorID], cmd.TargetID)
		s.removeRequestsLocked(cmd.ActorID, cmd.TargetID)
		writeJSON(w, http.StatusOK, model.FollowResult{Success: true, Message: "Unfollowed"})
	default:
		writeMessage(w, http.StatusBadRequest, "Unknown action")
	}
}

func (s *Server) handleFollowRequests(w http.ResponseWriter, r *http.Request, userID string) {
	owner := chi.URLParam(r, "id")
	if owner != userID {
		writeMessage(w, http.StatusForbidden, "Not your inbox")
		return
	}

	s.mu.Lock()
	out := []model.FollowRequest{}
	for _, req := range s.requests {
		if req.to != owner {
			continue
		}
		fr := model.FollowRequest{ID: req.id}
		if u, ok := s.byID[req.from]; ok {
			fr.Username = u.Name
			fr.AvatarURL = u.ProfilePic
		}
		out = append(out, fr)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{"pendingRequests": out})
}

func (s *Server) handleRequestAction(w http.ResponseWriter, r *http.Request, userID string) {
	requestID := chi.URLParam(r, "id")
	var body struct {
		OwnerID string              `json:"ownerId"`
		Action  model.RequestAction `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !body.Action.IsValid() {
		writeMessage(w, http.StatusBadRequest, "Invalid body")
		return
	}
	if body.OwnerID != userID {
		writeMessage(w, http.StatusForbidden, "Not your request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, req := range s.requests {
		if req.id != requestID || req.to != body.OwnerID {
			continue
		}
		s.requests = append(s.requests[:i], s.requests[i+1:]...)
		if body.Action == model.RequestActionApprove {
			s.addFollowLocked(req.from, req.to)
		}
		writeJSON(w, http.StatusOK, map[string]string{})
		return
	}
	writeMessage(w, http.StatusNotFound, "Request not found")
}

// ============================================================================
// Profile Handlers
// ============================================================================

func (s *Server) profileLocked(u *User) model.ProfileRecord {
	followers := 0
	for _, targets := range s.following {
		if contains(targets, u.ID) {
			followers++
		}
	}
	return model.ProfileRecord{
		ID:             u.ID,
		Username:       u.Name,
		Email:          u.Email,
		AccountType:    u.AccountType,
		Phone:          u.Phone,
		Address:        u.Address,
		AvatarURL:      u.ProfilePic,
		FollowersCount: followers,
		FollowingCount: len(s.following[u.ID]),
	}
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, _ string) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, s.profileLocked(u))
}

func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request, userID string) {
	id := chi.URLParam(r, "id")
	var req model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid body")
		return
	}
	if id != userID || req.ActorID != userID {
		writeMessage(w, http.StatusForbidden, "You can only edit your own profile")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	u.Name = req.Username
	u.Email = req.Email
	u.AccountType = model.ParseVisibility(string(req.AccountType))
	u.Phone = req.Phone
	u.Address = req.Address
	writeJSON(w, http.StatusOK, s.profileLocked(u))
}

// ============================================================================
// Post Handlers
// ============================================================================

func (s *Server) handleUploadPost(w http.ResponseWriter, r *http.Request, userID string) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid form")
		return
	}
	files := r.MultipartForm.File["videos"]
	if len(files) == 0 {
		writeMessage(w, http.StatusBadRequest, "No videos uploaded")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	post := model.Post{
		ID:          fmt.Sprintf("p%d", s.seq),
		UserID:      userID,
		Description: r.FormValue("description"),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	for _, f := range files {
		post.Videos = append(post.Videos, "uploads/"+f.Filename)
	}
	if u, ok := s.byID[userID]; ok {
		post.AuthorName = u.Name
		post.AuthorPic = u.ProfilePic
	}
	s.posts = append(s.posts, post)
	writeMessage(w, http.StatusOK, "Post uploaded")
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request, _ string) {
	s.mu.Lock()
	feed := append([]model.Post(nil), s.posts...)
	s.mu.Unlock()

	for i, j := 0, len(feed)-1; i < j; i, j = i+1, j-1 {
		feed[i], feed[j] = feed[j], feed[i]
	}
	writeJSON(w, http.StatusOK, feed)
}

// ============================================================================
// Helpers
// ============================================================================

func (s *Server) addFollowLocked(follower, target string) {
	if !contains(s.following[follower], target) {
		s.following[follower] = append(s.following[follower], target)
	}
	s.removeRequestsLocked(follower, target)
}

func (s *Server) addRequestLocked(from, to string) string {
	for _, r := range s.requests {
		if r.from == from && r.to == to {
			return r.id
		}
	}
	s.seq++
	id := fmt.Sprintf("req%d", s.seq)
	s.requests = append(s.requests, followRequest{id: id, from: from, to: to})
	return id
}

func (s *Server) removeRequestsLocked(from, to string) {
	kept := s.requests[:0]
	for _, r := range s.requests {
		if r.from == from && r.to == to {
			continue
		}
		kept = append(kept, r)
	}
	s.requests = kept
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.MessageResponse{Message: message})
}
