package client

import (
	"context"
	"net/http"

	"github.com/forgo/vidgram/internal/model"
)

// UploadPost sends a post as multipart: one "videos" part per file
func (c *Client) UploadPost(ctx context.Context, auth Authorizer, req *model.UploadPostRequest) (*model.MessageResponse, error) {
	files := make([]filePart, 0, len(req.Videos))
	for _, v := range req.Videos {
		files = append(files, filePart{field: "videos", file: v})
	}
	body, contentType := multipartBody(map[string]string{"description": req.Description}, files)

	var resp model.MessageResponse
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/user/auth/posts",
		body:        body,
		contentType: contentType,
		auth:        auth,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Feed returns the video feed, newest first as ordered by the backend
func (c *Client) Feed(ctx context.Context, auth Authorizer) ([]model.Post, error) {
	var posts []model.Post
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/user/auth/getpost",
		auth:   auth,
	}, &posts)
	if err != nil {
		return nil, err
	}
	return posts, nil
}
