package model

import (
	"errors"
	"time"
)

// Event represents a group event.
type Event struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Type         string        `json:"type"`
	Capacity     int           `json:"capacity"`
	NumAttendees int           `json:"numAttendees"`
	StartDate    time.Time     `json:"startDate"`
	EndDate      time.Time     `json:"endDate"`
	GroupID      int64         `json:"groupId"`
	Organizer    *UserSummary  `json:"organizer,omitempty"`
	VenueInfo    *Venue        `json:"venueInfo,omitempty"`
	Attendees    []UserSummary `json:"attendees,omitempty"`
	EventImage   []Image       `json:"eventImage,omitempty"`
}

// Venue is the optional location record for an in-person event.
type Venue struct {
	ID      int64  `json:"id"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
}

// EventForm holds the submitted event fields prior to validation. Capacity
// and the dates stay raw strings until the validator parses them.
type EventForm struct {
	Name        string
	Description string
	Type        string
	Capacity    string
	StartDate   string
	EndDate     string
	HasImage    bool
}

// Event field limits
const (
	EventNameMin        = 5
	EventNameMax        = 50
	EventDescriptionMin = 50
	EventDescriptionMax = 150
	EventCapacityMin    = 2
	EventCapacityMax    = 300
)

var ErrEventNotFound = errors.New("event not found")
