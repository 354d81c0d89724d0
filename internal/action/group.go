package action

import (
	"context"
	"fmt"
	"net/url"

	"mencrytoo/internal/api"
	"mencrytoo/internal/model"
	"mencrytoo/internal/validate"
)

func groupFormFrom(sub Submission) model.GroupForm {
	_, hasImage := findUpload(sub, "image")
	return model.GroupForm{
		Name:     sub.Fields.Get("name"),
		About:    sub.Fields.Get("about"),
		City:     sub.Fields.Get("city"),
		State:    sub.Fields.Get("state"),
		Type:     sub.Fields.Get("type"),
		HasImage: hasImage,
	}
}

func groupFields(f model.GroupForm) url.Values {
	return url.Values{
		"name":  {f.Name},
		"about": {f.About},
		"city":  {f.City},
		"state": {f.State},
		"type":  {f.Type},
	}
}

func (d *Dispatcher) createGroup(ctx context.Context, sub Submission) Result {
	if _, res := requireUser(sub); res != nil {
		return *res
	}

	form := groupFormFrom(sub)
	if errs := validate.Group(form, true); !errs.Valid() {
		return Result{Errors: errs}
	}

	file, res := d.requireImage(sub, "image")
	if res != nil {
		return *res
	}

	var created model.Group
	if err := d.api.PostMultipart(ctx, "/api/groups/new", sub.Cookie, groupFields(form), []api.File{*file}, &created); err != nil {
		return d.fail(err)
	}

	d.invalidate(ctx, "groups", "profile")
	return Result{Redirect: fmt.Sprintf("/groups/%d", created.ID)}
}

func (d *Dispatcher) editGroup(ctx context.Context, sub Submission) Result {
	if _, res := requireUser(sub); res != nil {
		return *res
	}
	groupID, res := requireID(sub, "groupId")
	if res != nil {
		return *res
	}

	form := groupFormFrom(sub)
	if errs := validate.Group(form, false); !errs.Valid() {
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

	if err := d.api.PostMultipart(ctx, fmt.Sprintf("/api/groups/%d/edit", groupID), sub.Cookie, groupFields(form), files, nil); err != nil {
		return d.fail(err)
	}

	d.invalidate(ctx, fmt.Sprintf("group-%d", groupID), "groups")
	return Result{Redirect: fmt.Sprintf("/groups/%d", groupID)}
}

func (d *Dispatcher) deleteGroup(ctx context.Context, sub Submission) Result {
	if _, res := requireUser(sub); res != nil {
		return *res
	}
	groupID, res := requireID(sub, "groupId")
	if res != nil {
		return *res
	}

	if err := d.api.Delete(ctx, fmt.Sprintf("/api/groups/%d/delete", groupID), sub.Cookie, nil); err != nil {
		return d.fail(err)
	}

	// Deleting a group also removes its events from every list.
	d.invalidate(ctx, fmt.Sprintf("group-%d", groupID), "groups", "events", "profile")
	return Result{Redirect: "/groups"}
}

func (d *Dispatcher) joinGroup(ctx context.Context, sub Submission) Result {
	user, res := requireUser(sub)
	if res != nil {
		return *res
	}
	groupID, res := requireID(sub, "groupId")
	if res != nil {
		return *res
	}

	body := map[string]int64{"group_id": groupID, "user_id": user.ID}
	if err := d.api.PostJSON(ctx, fmt.Sprintf("/api/groups/%d/join-group", groupID), sub.Cookie, body, nil); err != nil {
		return d.fail(err)
	}

	// The groups list embeds member counts.
	d.invalidate(ctx, fmt.Sprintf("group-%d", groupID), "groups", "profile")
	return Result{Redirect: fmt.Sprintf("/groups/%d", groupID)}
}

func (d *Dispatcher) leaveGroup(ctx context.Context, sub Submission) Result {
	user, res := requireUser(sub)
	if res != nil {
		return *res
	}
	groupID, res := requireID(sub, "groupId")
	if res != nil {
		return *res
	}

	// Leaving on someone's behalf (organizer removing a member) carries an
	// explicit memberId; otherwise the member is the session user.
	memberID, ok := optionalID(sub, "memberId")
	if !ok {
		memberID = user.ID
	}

	if err := d.api.Delete(ctx, fmt.Sprintf("/api/groups/%d/leave-group/%d", groupID, memberID), sub.Cookie, nil); err != nil {
		return d.fail(err)
	}

	d.invalidate(ctx, fmt.Sprintf("group-%d", groupID), "groups", "profile")
	return Result{Redirect: fmt.Sprintf("/groups/%d", groupID)}
}
