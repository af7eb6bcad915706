package model

import "strings"

// ProfileRecord is a user's profile as returned by the backend
type ProfileRecord struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email,omitempty"`
	AccountType    Visibility `json:"accountType"`
	Phone          string     `json:"phoneNo,omitempty"`
	Address        string     `json:"address,omitempty"`
	AvatarURL      string     `json:"profile_pic,omitempty"`
	FollowersCount int        `json:"FollowersCount"`
	FollowingCount int        `json:"FollowingCount"`
}

// IsPrivate returns true if the profile is private
func (p *ProfileRecord) IsPrivate() bool {
	return p.AccountType == VisibilityPrivate
}

// ProfileView is a profile prepared for a specific viewer
type ProfileView struct {
	ProfileRecord
	IsOwner        bool `json:"is_owner"`
	ContactVisible bool `json:"contact_visible"`
}

// ViewFor applies the privacy rules for viewerID. Contact details (email,
// phone, address) are shown to the owner, or to anyone when the profile is public.
func (p *ProfileRecord) ViewFor(viewerID string) *ProfileView {
	view := &ProfileView{
		ProfileRecord: *p,
		IsOwner:       viewerID != "" && viewerID == p.ID,
	}
	view.ContactVisible = view.IsOwner || !p.IsPrivate()
	if !view.ContactVisible {
		view.Email = ""
		view.Phone = ""
		view.Address = ""
	}
	return view
}

// UpdateProfileRequest is the owner's profile edit form
type UpdateProfileRequest struct {
	Username    string     `json:"username" form:"username" validate:"required,min=3,max=30"`
	Email       string     `json:"email" form:"email" validate:"required,email"`
	AccountType Visibility `json:"accountType" form:"accountType" validate:"required,oneof=public private"`
	Phone       string     `json:"phoneNo" form:"phoneNo" validate:"omitempty,phone"`
	Address     string     `json:"address" form:"address" validate:"omitempty,address"`
	ActorID     string     `json:"loggedInUserId" form:"-"`
}

// Validate checks the edit form before it is sent
func (r *UpdateProfileRequest) Validate() []FieldError {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	r.Address = strings.TrimSpace(r.Address)
	r.AccountType = Visibility(strings.ToLower(string(r.AccountType)))
	return validateStruct(r)
}

// NormalizePhone returns the phone number with a single leading "+"
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	return "+" + strings.TrimLeft(phone, "+")
}

// ProfileFromRecord seeds an edit form from the current profile
func ProfileFromRecord(p *ProfileRecord) UpdateProfileRequest {
	return UpdateProfileRequest{
		Username:    p.Username,
		Email:       p.Email,
		AccountType: p.AccountType,
		Phone:       strings.TrimPrefix(p.Phone, "+"),
		Address:     p.Address,
	}
}
