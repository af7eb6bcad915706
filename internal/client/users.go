package client

import (
	"context"
	"net/http"

	"github.com/forgo/vidgram/internal/model"
)

// userDTO is a user as the collection endpoints send it. The endpoints
// disagree on field names, so both spellings are accepted.
type userDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	AccountType    string `json:"account_type"`
	AccountTypeAlt string `json:"accountType"`
	ProfilePic     string `json:"profile_pic"`
}

func (u userDTO) toItem() model.CollectionItem {
	name := u.Name
	if name == "" {
		name = u.Username
	}
	accountType := u.AccountType
	if accountType == "" {
		accountType = u.AccountTypeAlt
	}
	return model.CollectionItem{
		ID:         u.ID,
		Name:       name,
		Email:      u.Email,
		Visibility: model.ParseVisibility(accountType),
		AvatarURL:  u.ProfilePic,
	}
}

func toItems(dtos []userDTO) []model.CollectionItem {
	items := make([]model.CollectionItem, 0, len(dtos))
	for _, d := range dtos {
		items = append(items, d.toItem())
	}
	return items
}

// ListUsers returns one page of the user directory
func (c *Client) ListUsers(ctx context.Context, auth Authorizer, page, limit int) ([]model.CollectionItem, error) {
	var resp struct {
		Users []userDTO `json:"users"`
	}
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/user/auth/get-users",
		query:  pageQuery(page, limit),
		auth:   auth,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return toItems(resp.Users), nil
}

// ListFollowers returns one page of ownerID's followers
func (c *Client) ListFollowers(ctx context.Context, auth Authorizer, ownerID string, page, limit int) ([]model.CollectionItem, error) {
	var resp struct {
		Followers []userDTO `json:"followers"`
	}
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/api/user/auth/followers/{id}",
		path:   "/api/user/auth/followers/" + escapeID(ownerID),
		query:  pageQuery(page, limit),
		auth:   auth,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return toItems(resp.Followers), nil
}

// ListFollowing returns one page of the users ownerID follows
func (c *Client) ListFollowing(ctx context.Context, auth Authorizer, ownerID string, page, limit int) ([]model.CollectionItem, error) {
	var resp struct {
		Following []userDTO `json:"following"`
	}
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/api/user/auth/followings/{id}",
		path:   "/api/user/auth/followings/" + escapeID(ownerID),
		query:  pageQuery(page, limit),
		auth:   auth,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return toItems(resp.Following), nil
}
