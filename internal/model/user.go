package model

import "errors"

// SessionUser is the authenticated user snapshot carried by the session
// cookie. It mirrors the backend's session payload; loaders and actions read
// it once at entry and never refresh it mid-operation.
type SessionUser struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	ProfileImage *string `json:"profileImage,omitempty"`
	UsersTags    []Tag   `json:"usersTags,omitempty"`
}

// UserSummary is the lightweight user shape embedded in member, attendee and
// comment-author lists.
type UserSummary struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	ProfileImage *string `json:"profileImage,omitempty"`
}

// Tag is an interest tag a user can attach to their profile.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SignupForm holds the submitted account-creation fields.
type SignupForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Bio             string
	TagIDs          []string
	HasImage        bool
}

// ProfileForm holds the submitted profile-update fields.
type ProfileForm struct {
	Username string
	Bio      string
	HasImage bool
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrSessionRequired is returned when an operation needs an
	// authenticated user and none is present
	ErrSessionRequired = errors.New("authentication required")
)
