package model

import (
	"io"
	"strings"
)

// Accepted profile picture content types
var profilePictureTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// Attachment is a file sent as a multipart part
type Attachment struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// Validate checks the login form before it is sent
func (r *LoginRequest) Validate() []FieldError {
	r.Email = strings.TrimSpace(r.Email)
	return validateStruct(r)
}

// LoginResponse is the backend's answer to a successful login
type LoginResponse struct {
	Token   string   `json:"token"`
	User    Identity `json:"user"`
	Message string   `json:"message,omitempty"`
}

// RegisterRequest is the sign-up form
type RegisterRequest struct {
	Name            string      `form:"name" validate:"required,min=3,max=30,alphaspace"`
	Email           string      `form:"email" validate:"required,email"`
	Password        string      `form:"password" validate:"required,password"`
	ConfirmPassword string      `form:"confirm_password" validate:"required,eqfield=Password"`
	Address         string      `form:"address" validate:"required,address"`
	Phone           string      `form:"phoneno" validate:"required,phone"`
	AccountType     Visibility  `form:"accountType" validate:"required,oneof=public private"`
	ProfilePicture  *Attachment `form:"profile_pic" validate:"required"`
}

// Validate checks the sign-up form before it is sent
func (r *RegisterRequest) Validate() []FieldError {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)

	errs := validateStruct(r)

	if r.ProfilePicture != nil {
		ct := strings.ToLower(r.ProfilePicture.ContentType)
		if !profilePictureTypes[ct] {
			errs = append(errs, FieldError{
				Field:   "profile_pic",
				Message: "profile picture must be a JPEG or PNG image",
			})
		}
	}

	return errs
}

// ForgotPasswordRequest asks the backend to mail a reset link
type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

// Validate checks the email before it is sent
func (r *ForgotPasswordRequest) Validate() []FieldError {
	r.Email = strings.TrimSpace(r.Email)
	return validateStruct(r)
}

// ResetPasswordRequest sets a new password using the mailed token
type ResetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"-"`
}

// Validate checks the reset form. The reset policy has no upper length bound
// and also rejects common passwords.
func (r *ResetPasswordRequest) Validate() []FieldError {
	var errors []FieldError

	if strings.TrimSpace(r.Token) == "" {
		errors = append(errors, FieldError{
			Field:   "token",
			Message: "reset token is missing",
		})
	}

	password := strings.TrimSpace(r.NewPassword)
	confirm := strings.TrimSpace(r.ConfirmPassword)

	switch {
	case password == "" || confirm == "":
		errors = append(errors, FieldError{
			Field:   "new_password",
			Message: "both password fields are required",
		})
	case IsCommonPassword(password):
		errors = append(errors, FieldError{
			Field:   "new_password",
			Message: "this password is too common, choose a stronger one",
		})
	default:
		if msg := PasswordPolicyError(password, 0); msg != "" {
			errors = append(errors, FieldError{
				Field:   "new_password",
				Message: msg,
			})
		}
	}

	if password != "" && confirm != "" && password != confirm {
		errors = append(errors, FieldError{
			Field:   "confirm_password",
			Message: "passwords do not match",
		})
	}

	if len(errors) == 0 {
		r.NewPassword = password
	}
	return errors
}

// MessageResponse is the backend's generic {message} body
type MessageResponse struct {
	Message string `json:"message"`
}
