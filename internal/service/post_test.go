package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/forgo/vidgram/internal/model"
)

func video(name string, size int64) model.Attachment {
	return model.Attachment{
		Filename:    name,
		ContentType: model.VideoContentType,
		Size:        size,
		Body:        strings.NewReader("mp4"),
	}
}

func TestPostService_Upload(t *testing.T) {
	api := &mockPostAPI{}
	svc := NewPostService(PostServiceConfig{API: api})

	_, err := svc.Upload(context.Background(), newMockSession("me"), &model.UploadPostRequest{
		Description: "sunset",
		Videos:      []model.Attachment{video("a.mp4", 1024), video("b.mp4", 2048)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.uploads != 1 {
		t.Errorf("expected one upload, got %d", api.uploads)
	}
}

func TestPostService_UploadValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   *model.UploadPostRequest
		field string
	}{
		{"blank description", &model.UploadPostRequest{Description: "  ", Videos: []model.Attachment{video("a.mp4", 1)}}, "description"},
		{"no videos", &model.UploadPostRequest{Description: "x"}, "videos"},
		{"too large", &model.UploadPostRequest{Description: "x", Videos: []model.Attachment{video("big.mp4", 11 << 20)}}, "videos[0]"},
		{"not mp4", &model.UploadPostRequest{Description: "x", Videos: []model.Attachment{video("a.mp4", 1), {Filename: "b.mov", ContentType: "video/quicktime", Size: 1}}}, "videos[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &mockPostAPI{}
			svc := NewPostService(PostServiceConfig{API: api, MaxVideoBytes: 10 << 20})

			_, err := svc.Upload(context.Background(), newMockSession("me"), tt.req)
			var verr *model.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := verr.Field(tt.field); !ok {
				t.Errorf("expected error on %s, got %+v", tt.field, verr.Errors)
			}
			if api.uploads != 0 {
				t.Error("expected no upload")
			}
		})
	}
}

func TestPostService_UploadFailure(t *testing.T) {
	api := &mockPostAPI{uploadErr: apiError(http.StatusInternalServerError)}
	svc := NewPostService(PostServiceConfig{API: api})

	_, err := svc.Upload(context.Background(), newMockSession("me"), &model.UploadPostRequest{
		Description: "x",
		Videos:      []model.Attachment{video("a.mp4", 1)},
	})
	if !errors.Is(err, model.ErrActionFailed) {
		t.Errorf("expected ErrActionFailed, got %v", err)
	}
}

func TestPostService_Feed(t *testing.T) {
	api := &mockPostAPI{posts: []model.Post{{Description: "newest"}, {Description: "older"}}}
	svc := NewPostService(PostServiceConfig{API: api})
	ctx := context.Background()

	posts, err := svc.Feed(ctx, newMockSession("me"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 2 || posts[0].Description != "newest" {
		t.Errorf("expected server order, got %+v", posts)
	}

	if _, err := svc.Feed(ctx, newAnonymousSession()); !errors.Is(err, model.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}

	api.feedErr = apiError(http.StatusBadGateway)
	if _, err := svc.Feed(ctx, newMockSession("me")); !errors.Is(err, model.ErrLoadFailed) {
		t.Errorf("expected ErrLoadFailed, got %v", err)
	}
}
