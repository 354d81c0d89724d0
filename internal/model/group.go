package model

import "errors"

// Group represents a community group. The backend is the writer of record;
// this is a transient client-side mirror.
type Group struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	About       string        `json:"about"`
	City        string        `json:"city"`
	State       string        `json:"state"`
	Type        string        `json:"type"`
	OrganizerID int64         `json:"organizerId"`
	Members     []UserSummary `json:"members,omitempty"`
	Events      []Event       `json:"events,omitempty"`
	GroupImage  []Image       `json:"groupImage,omitempty"`
}

// Image is a stored image record attached to a group or event.
type Image struct {
	ID      int64  `json:"id"`
	URL     string `json:"url"`
	Preview bool   `json:"preview"`
}

// GroupForm holds the submitted group fields prior to validation.
type GroupForm struct {
	Name     string
	About    string
	City     string
	State    string
	Type     string
	HasImage bool
}

// Group field limits
const (
	GroupNameMin  = 3
	GroupNameMax  = 50
	GroupAboutMin = 20
	GroupAboutMax = 150
	GroupCityMin  = 3
	GroupCityMax  = 30
	GroupStateLen = 2
)

var (
	ErrGroupNotFound = errors.New("group not found")

	// ErrNotOrganizer is returned when a user who is not the group's
	// organizer attempts an organizer-only operation
	ErrNotOrganizer = errors.New("not the organizer of this group")
)
