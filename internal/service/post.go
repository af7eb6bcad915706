package service

import (
	"context"
	"log/slog"

	"github.com/forgo/vidgram/internal/client"
	"github.com/forgo/vidgram/internal/model"
)

// PostAPI defines the post endpoints
type PostAPI interface {
	UploadPost(ctx context.Context, auth client.Authorizer, req *model.UploadPostRequest) (*model.MessageResponse, error)
	Feed(ctx context.Context, auth client.Authorizer) ([]model.Post, error)
}

// PostService handles video uploads and the feed
type PostService struct {
	api           PostAPI
	maxVideoBytes int64
	logger        *slog.Logger
}

// PostServiceConfig holds configuration for the post service
type PostServiceConfig struct {
	API           PostAPI
	MaxVideoBytes int64 // 0 uses model.DefaultMaxVideoBytes
	Logger        *slog.Logger
}

// NewPostService creates a new post service
func NewPostService(cfg PostServiceConfig) *PostService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxBytes := cfg.MaxVideoBytes
	if maxBytes <= 0 {
		maxBytes = model.DefaultMaxVideoBytes
	}
	return &PostService{
		api:           cfg.API,
		maxVideoBytes: maxBytes,
		logger:        logger,
	}
}

// Upload validates the videos and publishes the post
func (s *PostService) Upload(ctx context.Context, sess Session, req *model.UploadPostRequest) (*model.MessageResponse, error) {
	if _, err := checkAuth(sess); err != nil {
		return nil, err
	}
	if errs := req.Validate(s.maxVideoBytes); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	resp, err := s.api.UploadPost(ctx, sess, req)
	if err != nil {
		return nil, classify(ctx, sess, model.ErrActionFailed, "upload post", err)
	}

	s.logger.Info("post uploaded", slog.Int("videos", len(req.Videos)))
	return resp, nil
}

// Feed returns the posts, newest first
func (s *PostService) Feed(ctx context.Context, sess Session) ([]model.Post, error) {
	if _, err := checkAuth(sess); err != nil {
		return nil, err
	}

	posts, err := s.api.Feed(ctx, sess)
	if err != nil {
		return nil, classify(ctx, sess, model.ErrLoadFailed, "load feed", err)
	}
	return posts, nil
}
