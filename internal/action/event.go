package action

import (
	"context"
	"fmt"
	"net/url"

	"mencrytoo/internal/api"
	"mencrytoo/internal/model"
	"mencrytoo/internal/validate"
)

func eventFormFrom(sub Submission) model.EventForm {
	_, hasImage := findUpload(sub, "image")
	return model.EventForm{
		Name:        sub.Fields.Get("name"),
		Description: sub.Fields.Get("description"),
		Type:        sub.Fields.Get("type"),
		Capacity:    sub.Fields.Get("capacity"),
		StartDate:   sub.Fields.Get("startDate"),
		EndDate:     sub.Fields.Get("endDate"),
		HasImage:    hasImage,
	}
}

func eventFields(f model.EventForm) url.Values {
	return url.Values{
		"name":        {f.Name},
		"description": {f.Description},
		"type":        {f.Type},
		"capacity":    {f.Capacity},
		"startDate":   {f.StartDate},
		"endDate":     {f.EndDate},
	}
}

// eventCacheKeys is the family an event mutation touches: the event itself,
// the events list, and the owning group's detail (its event list is embedded
// there). Without a groupId the whole group family is swept.
func eventCacheKeys(sub Submission, eventID int64) []string {
	keys := []string{fmt.Sprintf("event-%d", eventID), "events"}
	if groupID, ok := optionalID(sub, "groupId"); ok {
		keys = append(keys, fmt.Sprintf("group-%d", groupID), "groups")
	} else {
		keys = append(keys, "group")
	}
	return keys
}

func (d *Dispatcher) createEvent(ctx context.Context, sub Submission) Result {
	if _, res := requireUser(sub); res != nil {
		return *res
	}
	groupID, res := requireID(sub, "groupId")
	if res != nil {
		return *res
	}

	form := eventFormFrom(sub)
	if errs := validate.Event(form, true); !errs.Valid() {
		return Result{Errors: errs}
	}

	file, res := d.requireImage(sub, "image")
	if res != nil {
		return *res
	}

	var created model.Event
	if err := d.api.PostMultipart(ctx, fmt.Sprintf("/api/groups/%d/events/new", groupID), sub.Cookie, eventFields(form), []api.File{*file}, &created); err != nil {
		return d.fail(err)
	}

	d.invalidate(ctx, "events", fmt.Sprintf("group-%d", groupID), "groups")
	return Result{Redirect: fmt.Sprintf("/events/%d", created.ID)}
}

func (d *Dispatcher) editEvent(ctx context.Context, sub Submission) Result {
	if _, res := requireUser(sub); res != nil {
		return *res
	}
	eventID, res := requireID(sub, "eventId")
	if res != nil {
		return *res
	}

	form := eventFormFrom(sub)
	if errs := validate.Event(form, false); !errs.Valid() {
		return Result{Errors: errs}
	}

	file, res := d.prepareImage(sub, "image")
	if res != nil {
		return *res
	}
	var files []api.File
	if file != nil {
		files = append(files, *file)
	}

	if err := d.api.PostMultipart(ctx, fmt.Sprintf("/api/events/%d/edit", eventID), sub.Cookie, eventFields(form), files, nil); err != nil {
		return d.fail(err)
	}

	d.invalidate(ctx, eventCacheKeys(sub, eventID)...)
	return Result{Redirect: fmt.Sprintf("/events/%d", eventID)}
}

func (d *Dispatcher) deleteEvent(ctx context.Context, sub Submission) Result {
	if _, res := requireUser(sub); res != nil {
		return *res
	}
	eventID, res := requireID(sub, "eventId")
	if res != nil {
		return *res
	}

	if err := d.api.Delete(ctx, fmt.Sprintf("/api/events/%d", eventID), sub.Cookie, nil); err != nil {
		return d.fail(err)
	}

	d.invalidate(ctx, eventCacheKeys(sub, eventID)...)
	if groupID, ok := optionalID(sub, "groupId"); ok {
		return Result{Redirect: fmt.Sprintf("/groups/%d", groupID)}
	}
	return Result{Redirect: "/events"}
}

func (d *Dispatcher) attendEvent(ctx context.Context, sub Submission) Result {
	user, res := requireUser(sub)
	if res != nil {
		return *res
	}
	eventID, res := requireID(sub, "eventId")
	if res != nil {
		return *res
	}

	body := map[string]int64{"event_id": eventID, "user_id": user.ID}
	if err := d.api.PostJSON(ctx, fmt.Sprintf("/api/events/%d/attend-event", eventID), sub.Cookie, body, nil); err != nil {
		return d.fail(err)
	}

	// The group detail page embeds the event's attendee count, so the owning
	// group family is swept too.
	d.invalidate(ctx, eventCacheKeys(sub, eventID)...)
	return Result{Redirect: fmt.Sprintf("/events/%d", eventID)}
}

func (d *Dispatcher) leaveEvent(ctx context.Context, sub Submission) Result {
	user, res := requireUser(sub)
	if res != nil {
		return *res
	}
	eventID, res := requireID(sub, "eventId")
	if res != nil {
		return *res
	}

	attendeeID, ok := optionalID(sub, "attendeeId")
	if !ok {
		attendeeID = user.ID
	}

	if err := d.api.Delete(ctx, fmt.Sprintf("/api/events/%d/leave-event/%d", eventID, attendeeID), sub.Cookie, nil); err != nil {
		return d.fail(err)
	}

	d.invalidate(ctx, eventCacheKeys(sub, eventID)...)
	return Result{Redirect: fmt.Sprintf("/events/%d", eventID)}
}
