package action

import (
	"context"
	"fmt"
	"net/url"

	"mencrytoo/internal/api"
)

// Image CRUD for groups and events. Add posts to the owning resource's image
// collection; edit and delete address the image record directly. Every
// mutation sweeps the owning resource's cache family so the next load shows
// the server's state; no full-page reload is ever forced.

func (d *Dispatcher) addGroupImage(ctx context.Context, sub Submission) Result {
	if _, res := requireUser(sub); res != nil {
		return *res
	}
	groupID, res := requireID(sub, "groupId")
	if res != nil {
		return *res
	}

	file, res := d.requireImage(sub, "image")
	if res != nil {
		return *res
	}

	fields := url.Values{"preview": {sub.Fields.Get("preview")}}
	if err := d.api.PostMultipart(ctx, fmt.Sprintf("/api/groups/%d/images", groupID), sub.Cookie, fields, []api.File{*file}, nil); err != nil {
		return d.fail(err)
	}

	d.invalidate(ctx, fmt.Sprintf("group-%d", groupID), "groups")
	return Result{Redirect: fmt.Sprintf("/groups/%d", groupID)}
}

func (d *Dispatcher) editGroupImage(ctx context.Context, sub Submission) Result {
	if _, res := requireUser(sub); res != nil {
		return *res
	}
	imageID, res := requireID(sub, "imageId")
	if res != nil {
		return *res
	}
	groupID, res := requireID(sub, "groupId")
	if res != nil {
		return *res
	}

	file, res := d.requireImage(sub, "image")
	if res != nil {
		return *res
	}

	fields := url.Values{"preview": {sub.Fields.Get("preview")}}
	if err := d.api.PostMultipart(ctx, fmt.Sprintf("/api/group-images/%d", imageID), sub.Cookie, fields, []api.File{*file}, nil); err != nil {
		return d.fail(err)
	}

	d.invalidate(ctx, fmt.Sprintf("group-%d", groupID), "groups")
	return Result{Redirect: fmt.Sprintf("/groups/%d", groupID)}
}

func (d *Dispatcher) deleteGroupImage(ctx context.Context, sub Submission) Result {
	if _, res := requireUser(sub); res != nil {
		return *res
	}
	imageID, res := requireID(sub, "imageId")
	if res != nil {
		return *res
	}
	groupID, res := requireID(sub, "groupId")
	if res != nil {
		return *res
	}

	if err := d.api.Delete(ctx, fmt.Sprintf("/api/group-images/%d", imageID), sub.Cookie, nil); err != nil {
		return d.fail(err)
	}

	d.invalidate(ctx, fmt.Sprintf("group-%d", groupID), "groups")
	return Result{Redirect: fmt.Sprintf("/groups/%d", groupID)}
}

func (d *Dispatcher) addEventImage(ctx context.Context, sub Submission) Result {
	if _, res := requireUser(sub); res != nil {
		return *res
	}
	eventID, res := requireID(sub, "eventId")
	if res != nil {
		return *res
	}

	file, res := d.requireImage(sub, "image")
	if res != nil {
		return *res
	}

	fields := url.Values{"preview": {sub.Fields.Get("preview")}}
	if err := d.api.PostMultipart(ctx, fmt.Sprintf("/api/events/%d/images", eventID), sub.Cookie, fields, []api.File{*file}, nil); err != nil {
		return d.fail(err)
	}

	d.invalidate(ctx, fmt.Sprintf("event-%d", eventID), "events")
	return Result{Redirect: fmt.Sprintf("/events/%d", eventID)}
}

func (d *Dispatcher) editEventImage(ctx context.Context, sub Submission) Result {
	if _, res := requireUser(sub); res != nil {
		return *res
	}
	imageID, res := requireID(sub, "imageId")
	if res != nil {
		return *res
	}
	eventID, res := requireID(sub, "eventId")
	if res != nil {
		return *res
	}

	file, res := d.requireImage(sub, "image")
	if res != nil {
		return *res
	}

	fields := url.Values{"preview": {sub.Fields.Get("preview")}}
	if err := d.api.PostMultipart(ctx, fmt.Sprintf("/api/event-images/%d", imageID), sub.Cookie, fields, []api.File{*file}, nil); err != nil {
		return d.fail(err)
	}

	d.invalidate(ctx, fmt.Sprintf("event-%d", eventID), "events")
	return Result{Redirect: fmt.Sprintf("/events/%d", eventID)}
}

func (d *Dispatcher) deleteEventImage(ctx context.Context, sub Submission) Result {
	if _, res := requireUser(sub); res != nil {
		return *res
	}
	imageID, res := requireID(sub, "imageId")
	if res != nil {
		return *res
	}
	eventID, res := requireID(sub, "eventId")
	if res != nil {
		return *res
	}

	if err := d.api.Delete(ctx, fmt.Sprintf("/api/event-images/%d", imageID), sub.Cookie, nil); err != nil {
		return d.fail(err)
	}

	d.invalidate(ctx, fmt.Sprintf("event-%d", eventID), "events")
	return Result{Redirect: fmt.Sprintf("/events/%d", eventID)}
}
