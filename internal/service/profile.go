package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/forgo/vidgram/internal/client"
	"github.com/forgo/vidgram/internal/model"
)

// ProfileAPI defines the profile endpoints
type ProfileAPI interface {
	GetProfile(ctx context.Context, auth client.Authorizer, id string) (*model.ProfileRecord, error)
	UpdateProfile(ctx context.Context, auth client.Authorizer, id string, req *model.UpdateProfileRequest) (*model.ProfileRecord, error)
}

// ProfileService handles profile viewing and editing
type ProfileService struct {
	api    ProfileAPI
	logger *slog.Logger
}

// ProfileServiceConfig holds configuration for the profile service
type ProfileServiceConfig struct {
	API    ProfileAPI
	Logger *slog.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(cfg ProfileServiceConfig) *ProfileService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{
		api:    cfg.API,
		logger: logger,
	}
}

// Get returns profile id as the signed-in viewer may see it. An empty id
// means the viewer's own profile.
func (s *ProfileService) Get(ctx context.Context, sess Session, id string) (*model.ProfileView, error) {
	viewer, err := checkAuth(sess)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = viewer.ID
	}

	rec, err := s.api.GetProfile(ctx, sess, id)
	if err != nil {
		if model.IsStatus(err, http.StatusNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, classify(ctx, sess, model.ErrLoadFailed, "load profile "+id, err)
	}

	return rec.ViewFor(viewer.ID), nil
}

// Update saves the owner's edits. Only the owner may edit a profile.
func (s *ProfileService) Update(ctx context.Context, sess Session, id string, req model.UpdateProfileRequest) (*model.ProfileView, error) {
	viewer, err := checkAuth(sess)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, ErrProfileIDMissing
	}
	if id != viewer.ID {
		return nil, ErrNotProfileOwner
	}

	req.Phone = model.NormalizePhone(req.Phone)
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}
	req.ActorID = viewer.ID

	rec, err := s.api.UpdateProfile(ctx, sess, id, &req)
	if err != nil {
		if model.IsStatus(err, http.StatusForbidden) {
			return nil, ErrNotProfileOwner
		}
		return nil, classify(ctx, sess, model.ErrActionFailed, fmt.Sprintf("update profile %s", id), err)
	}

	s.logger.Info("profile updated", slog.String("user_id", id))
	return rec.ViewFor(viewer.ID), nil
}
