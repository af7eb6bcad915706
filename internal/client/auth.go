package client

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/forgo/vidgram/internal/model"
)

// Login exchanges credentials for a token and the user's identity
func (c *Client) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	body, err := jsonBody(model.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var resp model.LoginResponse
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/user/login",
		body:        body,
		contentType: "application/json",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register submits the sign-up form as multipart, profile picture included
func (c *Client) Register(ctx context.Context, req *model.RegisterRequest) (*model.MessageResponse, error) {
	fields := map[string]string{
		"name":        req.Name,
		"email":       req.Email,
		"password":    req.Password,
		"address":     req.Address,
		"phoneno":     req.Phone,
		"accountType": string(req.AccountType),
	}

	var files []filePart
	if req.ProfilePicture != nil {
		files = append(files, filePart{field: "profile_pic", file: *req.ProfilePicture})
	}

	body, contentType := multipartBody(fields, files)

	var resp model.MessageResponse
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/user/register",
		body:        body,
		contentType: contentType,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ForgotPassword asks the backend to mail a reset link
func (c *Client) ForgotPassword(ctx context.Context, email string) (*model.MessageResponse, error) {
	body, err := jsonBody(model.ForgotPasswordRequest{Email: email})
	if err != nil {
		return nil, err
	}

	var resp model.MessageResponse
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/user/forgot-password",
		body:        body,
		contentType: "application/json",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResetPassword sets a new password using the mailed token
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (*model.MessageResponse, error) {
	body, err := jsonBody(model.ResetPasswordRequest{Token: token, NewPassword: newPassword})
	if err != nil {
		return nil, err
	}

	var resp model.MessageResponse
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/user/reset-password",
		body:        body,
		contentType: "application/json",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

type filePart struct {
	field string
	file  model.Attachment
}

// multipartBody streams a multipart form through a pipe so large videos are
// never buffered in memory
func multipartBody(fields map[string]string, files []filePart) (io.Reader, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeMultipart(mw, fields, files)
		if closeErr := mw.Close(); err == nil {
			err = closeErr
		}
		pw.CloseWithError(err)
	}()

	return pr, mw.FormDataContentType()
}

func writeMultipart(mw *multipart.Writer, fields map[string]string, files []filePart) error {
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.field, escapeQuotes(f.file.Filename)))
		contentType := f.file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)

		part, err := mw.CreatePart(h)
		if err != nil {
			return fmt.Errorf("failed to create part %s: %w", f.field, err)
		}
		if f.file.Body == nil {
			continue
		}
		if _, err := io.Copy(part, f.file.Body); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.file.Filename, err)
		}
	}
	return nil
}

func escapeQuotes(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '"' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
