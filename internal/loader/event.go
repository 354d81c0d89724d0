package loader

import (
	"context"
	"fmt"
	"strings"

	"mencrytoo/internal/model"
	"mencrytoo/internal/nav"
)

// EventsPage is the events list payload.
type EventsPage struct {
	Events []model.Event `json:"events"`
	Error  string        `json:"error,omitempty"`
}

// EventDetailPage is the event detail payload: the event and its parent
// group. The group fetch depends on the event's groupId, so the two are
// sequential.
type EventDetailPage struct {
	Event       model.Event `json:"event"`
	Group       model.Group `json:"group"`
	IsOrganizer bool        `json:"isOrganizer"`
	IsAttending bool        `json:"isAttending"`
}

// EventEditPage is the payload for the organizer-only event edit form.
type EventEditPage struct {
	Event model.Event `json:"event"`
	Group model.Group `json:"group"`
}

// NewEventPage is the payload for the create-event form under a group.
type NewEventPage struct {
	Group model.Group `json:"group"`
}

// Events loads the events list, normalizing whichever shape the backend
// answers with and degrading to an empty page on failure.
func (l *Loaders) Events(ctx context.Context, req Request) nav.Intent {
	var events []model.Event

	hit, err := l.cache.Get(ctx, "events", &events)
	if err != nil || !hit {
		if err := l.api.GetList(ctx, "/api/events", req.Cookie, "events", &events); err != nil {
			return nav.Render(EventsPage{Events: []model.Event{}, Error: degradeMessage(err)})
		}
		if events == nil {
			events = []model.Event{}
		}
		_ = l.cache.Set(ctx, "events", events)
	}

	return nav.Render(EventsPage{Events: filterEvents(events, req.Query.Get("type"), req.Query.Get("q"))})
}

// EventDetail loads an event and then its parent group.
func (l *Loaders) EventDetail(ctx context.Context, req Request, eventID int64) nav.Intent {
	key := fmt.Sprintf("event-%d", eventID)

	var page EventDetailPage
	hit, err := l.cache.Get(ctx, key, &page)
	if err != nil || !hit {
		if err := l.api.Get(ctx, fmt.Sprintf("/api/events/%d", eventID), req.Cookie, &page.Event); err != nil {
			return redirectFailure(missing(err, model.ErrEventNotFound), "/events")
		}
		if err := l.api.Get(ctx, fmt.Sprintf("/api/groups/%d", page.Event.GroupID), req.Cookie, &page.Group); err != nil {
			return redirectFailure(missing(err, model.ErrGroupNotFound), "/events")
		}
		_ = l.cache.Set(ctx, key, page)
	}

	page.IsOrganizer = authorize(req.User, page.Group.OrganizerID)
	page.IsAttending = isAttending(page.Event, req.User)
	return nav.Render(page)
}

// EventEdit loads the edit form for an event. Edit rights belong to the
// parent group's organizer; everyone else is sent back to the event detail
// page.
func (l *Loaders) EventEdit(ctx context.Context, req Request, eventID int64) nav.Intent {
	var event model.Event
	if err := l.api.Get(ctx, fmt.Sprintf("/api/events/%d", eventID), req.Cookie, &event); err != nil {
		return redirectFailure(missing(err, model.ErrEventNotFound), "/events")
	}

	var group model.Group
	if err := l.api.Get(ctx, fmt.Sprintf("/api/groups/%d", event.GroupID), req.Cookie, &group); err != nil {
		return redirectFailure(missing(err, model.ErrGroupNotFound), "/events")
	}

	if !authorize(req.User, group.OrganizerID) {
		return redirectFailure(model.ErrNotOrganizer, eventPath(eventID))
	}

	return nav.Render(EventEditPage{Event: event, Group: group})
}

// NewEvent loads the create-event form for a group. Only the organizer may
// add events to a group.
func (l *Loaders) NewEvent(ctx context.Context, req Request, groupID int64) nav.Intent {
	var group model.Group
	if err := l.api.Get(ctx, fmt.Sprintf("/api/groups/%d", groupID), req.Cookie, &group); err != nil {
		return redirectFailure(missing(err, model.ErrGroupNotFound), "/groups")
	}

	if !authorize(req.User, group.OrganizerID) {
		return redirectFailure(model.ErrNotOrganizer, groupPath(groupID))
	}

	return nav.Render(NewEventPage{Group: group})
}

func filterEvents(events []model.Event, eventType, query string) []model.Event {
	if eventType == "" && query == "" {
		return events
	}

	query = strings.ToLower(query)
	filtered := make([]model.Event, 0, len(events))
	for _, e := range events {
		if eventType != "" && !strings.EqualFold(e.Type, eventType) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(e.Name), query) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func isAttending(event model.Event, user *model.SessionUser) bool {
	if user == nil {
		return false
	}
	for _, a := range event.Attendees {
		if a.ID == user.ID {
			return true
		}
	}
	return false
}
