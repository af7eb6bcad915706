package client

import (
	"context"
	"net/http"

	"github.com/forgo/vidgram/internal/model"
)

// GetProfile returns the profile of id
func (c *Client) GetProfile(ctx context.Context, auth Authorizer, id string) (*model.ProfileRecord, error) {
	var resp model.ProfileRecord
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/api/user/auth/profile/{id}",
		path:   "/api/user/auth/profile/" + escapeID(id),
		auth:   auth,
	}, &resp)
	if err != nil {
		return nil, err
	}
	resp.AccountType = model.ParseVisibility(string(resp.AccountType))
	return &resp, nil
}

// UpdateProfile saves the owner's edits and returns the updated profile
func (c *Client) UpdateProfile(ctx context.Context, auth Authorizer, id string, req *model.UpdateProfileRequest) (*model.ProfileRecord, error) {
	body, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	var resp model.ProfileRecord
	err = c.do(ctx, request{
		method:      http.MethodPut,
		route:       "/api/user/auth/profile-update/{id}",
		path:        "/api/user/auth/profile-update/" + escapeID(id),
		body:        body,
		contentType: "application/json",
		auth:        auth,
	}, &resp)
	if err != nil {
		return nil, err
	}
	resp.AccountType = model.ParseVisibility(string(resp.AccountType))
	return &resp, nil
}
