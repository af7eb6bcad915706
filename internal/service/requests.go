package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/forgo/vidgram/internal/client"
	"github.com/forgo/vidgram/internal/model"
)

// FollowRequestAPI defines the owner-side follow request endpoints
type FollowRequestAPI interface {
	FollowRequests(ctx context.Context, auth client.Authorizer, ownerID string) ([]model.FollowRequest, error)
	HandleFollowRequest(ctx context.Context, auth client.Authorizer, requestID, ownerID string, action model.RequestAction) (*model.FollowResult, error)
}

// RequestInboxConfig holds configuration for the request inbox
type RequestInboxConfig struct {
	API    FollowRequestAPI
	Logger *slog.Logger
}

// RequestInbox is a private owner's list of incoming follow requests. It
// only touches the owner's own data and never the viewer-side tracker.
type RequestInbox struct {
	api    FollowRequestAPI
	logger *slog.Logger

	mu             sync.Mutex
	requests       []model.FollowRequest
	followersCount int
	inFlight       map[string]struct{}
}

// NewRequestInbox creates an empty request inbox
func NewRequestInbox(cfg RequestInboxConfig) *RequestInbox {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RequestInbox{
		api:      cfg.API,
		logger:   logger,
		inFlight: make(map[string]struct{}),
	}
}

// Load fetches the signed-in owner's pending requests
func (r *RequestInbox) Load(ctx context.Context, sess Session) ([]model.FollowRequest, error) {
	owner, err := checkAuth(sess)
	if err != nil {
		return nil, err
	}

	reqs, err := r.api.FollowRequests(ctx, sess, owner.ID)
	if err != nil {
		return nil, classify(ctx, sess, model.ErrLoadFailed, "load follow requests", err)
	}

	r.mu.Lock()
	r.requests = append([]model.FollowRequest(nil), reqs...)
	r.mu.Unlock()

	return r.Requests(), nil
}

// Handle approves or rejects requestID. On confirmed success the request
// leaves the inbox, and an approval adds one to the followers count.
func (r *RequestInbox) Handle(ctx context.Context, sess Session, requestID string, action model.RequestAction) error {
	if requestID == "" {
		return ErrRequestIDRequired
	}
	if !action.IsValid() {
		return ErrInvalidRequestAction
	}
	owner, err := checkAuth(sess)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if _, busy := r.inFlight[requestID]; busy {
		r.mu.Unlock()
		return fmt.Errorf("%s request %s: %w", action, requestID, model.ErrAlreadyInFlight)
	}
	r.inFlight[requestID] = struct{}{}
	r.mu.Unlock()

	res, callErr := r.api.HandleFollowRequest(ctx, sess, requestID, owner.ID, action)

	r.mu.Lock()
	delete(r.inFlight, requestID)
	ok := callErr == nil && res != nil && res.Success
	if ok {
		r.removeLocked(requestID)
		if action == model.RequestActionApprove {
			r.followersCount++
		}
	}
	r.mu.Unlock()

	if callErr != nil {
		return classify(ctx, sess, model.ErrActionFailed, fmt.Sprintf("%s request %s", action, requestID), callErr)
	}
	if !ok {
		return fmt.Errorf("%s request %s: %w", action, requestID, ErrActionDeclined)
	}

	r.logger.Info("follow request handled",
		slog.String("request_id", requestID),
		slog.String("action", string(action)),
	)
	return nil
}

func (r *RequestInbox) removeLocked(requestID string) {
	kept := r.requests[:0]
	for _, req := range r.requests {
		if req.ID != requestID {
			kept = append(kept, req)
		}
	}
	r.requests = kept
}

// Requests returns the pending requests in server order
func (r *RequestInbox) Requests() []model.FollowRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.FollowRequest(nil), r.requests...)
}

// SetFollowersCount seeds the count, usually from the owner's profile
func (r *RequestInbox) SetFollowersCount(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.followersCount = n
}

// FollowersCount returns the owner's followers count
func (r *RequestInbox) FollowersCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.followersCount
}
