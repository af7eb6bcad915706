package model

import (
	"fmt"
	"strings"
)

// Post limits
const (
	DefaultMaxVideoBytes int64 = 500 * 1024 * 1024
	VideoContentType           = "video/mp4"
)

// Post is a video post in the feed
type Post struct {
	ID          string   `json:"post_id"`
	UserID      string   `json:"user_id,omitempty"`
	Description string   `json:"description"`
	Videos      []string `json:"videos"`
	AuthorName  string   `json:"name"`
	AuthorPic   string   `json:"profile_pic,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
}

// UploadPostRequest is a new post with one or more videos
type UploadPostRequest struct {
	Description string
	Videos      []Attachment
}

// Validate checks the upload against the size and format limits.
// maxBytes <= 0 uses DefaultMaxVideoBytes.
func (r *UploadPostRequest) Validate(maxBytes int64) []FieldError {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxVideoBytes
	}

	var errors []FieldError

	if strings.TrimSpace(r.Description) == "" {
		errors = append(errors, FieldError{
			Field:   "description",
			Message: "description is required",
		})
	}

	if len(r.Videos) == 0 {
		errors = append(errors, FieldError{
			Field:   "videos",
			Message: "select at least one video",
		})
	}

	for i, v := range r.Videos {
		field := fmt.Sprintf("videos[%d]", i)
		if !strings.EqualFold(v.ContentType, VideoContentType) {
			errors = append(errors, FieldError{
				Field:   field,
				Message: fmt.Sprintf("%s is not an MP4 video", v.Filename),
			})
		}
		if v.Size > maxBytes {
			errors = append(errors, FieldError{
				Field:   field,
				Message: fmt.Sprintf("%s exceeds the %d MB limit", v.Filename, maxBytes/(1024*1024)),
			})
		}
	}

	return errors
}
