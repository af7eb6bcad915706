package client

import (
	"context"
	"net/http"

	"github.com/forgo/vidgram/internal/model"
)

// Relationships returns the viewer's outgoing follows and pending requests
func (c *Client) Relationships(ctx context.Context, auth Authorizer, viewerID string) (*model.RelationshipSnapshot, error) {
	var resp model.RelationshipSnapshot
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/api/user/auth/request/{id}",
		path:   "/api/user/auth/request/" + escapeID(viewerID),
		auth:   auth,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Follow sends a follow, unfollow or follow request
func (c *Client) Follow(ctx context.Context, auth Authorizer, cmd model.FollowCommand) (*model.FollowResult, error) {
	body, err := jsonBody(cmd)
	if err != nil {
		return nil, err
	}

	var resp model.FollowResult
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/user/auth/follow",
		body:        body,
		contentType: "application/json",
		auth:        auth,
		idempotent:  true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// FollowRequests returns the incoming requests on a private owner's inbox
func (c *Client) FollowRequests(ctx context.Context, auth Authorizer, ownerID string) ([]model.FollowRequest, error) {
	var resp struct {
		PendingRequests []model.FollowRequest `json:"pendingRequests"`
	}
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/api/user/auth/follow-req/{id}",
		path:   "/api/user/auth/follow-req/" + escapeID(ownerID),
		auth:   auth,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.PendingRequests, nil
}

// HandleFollowRequest approves or rejects an incoming request. The endpoint
// answers with an empty body on success, which is reported as Success.
func (c *Client) HandleFollowRequest(ctx context.Context, auth Authorizer, requestID, ownerID string, action model.RequestAction) (*model.FollowResult, error) {
	body, err := jsonBody(struct {
		OwnerID string              `json:"ownerId"`
		Action  model.RequestAction `json:"action"`
	}{OwnerID: ownerID, Action: action})
	if err != nil {
		return nil, err
	}

	resp := model.FollowResult{Success: true}
	err = c.do(ctx, request{
		method:      http.MethodPost,
		route:       "/api/user/auth/handle-follow-req/{id}",
		path:        "/api/user/auth/handle-follow-req/" + escapeID(requestID),
		body:        body,
		contentType: "application/json",
		auth:        auth,
		idempotent:  true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
