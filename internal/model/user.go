package model

import "strings"

// Visibility is a profile's account type
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// ParseVisibility normalises the backend's account type.
// The backend is inconsistent about case; anything not private is public.
func ParseVisibility(s string) Visibility {
	if strings.EqualFold(strings.TrimSpace(s), string(VisibilityPrivate)) {
		return VisibilityPrivate
	}
	return VisibilityPublic
}

// IsValid returns true if v is a known visibility
func (v Visibility) IsValid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Identity is the signed-in user as known to the session
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"-"`
}

// CollectionItem is one user in a paged collection (directory, followers, followings)
type CollectionItem struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	Visibility Visibility `json:"account_type"`
	AvatarURL  string     `json:"profile_pic,omitempty"`
}

// IsPrivate returns true if the item's account is private
func (c CollectionItem) IsPrivate() bool {
	return c.Visibility == VisibilityPrivate
}

// Cursor is the number of items consumed from a collection so far
type Cursor struct {
	Offset int `json:"offset"`
}

// Page returns the 1-based page number the cursor points at
func (c Cursor) Page(pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	return c.Offset/pageSize + 1
}

// Advance returns the cursor moved past n fetched items
func (c Cursor) Advance(n int) Cursor {
	return Cursor{Offset: c.Offset + n}
}
