package action

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"mencrytoo/internal/api"
	"mencrytoo/internal/model"
	"mencrytoo/internal/validate"
)

func contactFormFrom(sub Submission) model.ContactForm {
	return model.ContactForm{
		FirstName: sub.Fields.Get("firstName"),
		LastName:  sub.Fields.Get("lastName"),
		Email:     sub.Fields.Get("email"),
		Phone:     sub.Fields.Get("phone"),
		Subject:   sub.Fields.Get("subject"),
		Message:   sub.Fields.Get("message"),
	}
}

func contactBody(f model.ContactForm) map[string]string {
	return map[string]string{
		"firstName": f.FirstName,
		"lastName":  f.LastName,
		"email":     f.Email,
		"phone":     f.Phone,
		"subject":   f.Subject,
		"message":   f.Message,
	}
}

func (d *Dispatcher) createContact(ctx context.Context, sub Submission) Result {
	form := contactFormFrom(sub)
	if errs := validate.Contact(form); !errs.Valid() {
		return Result{Errors: errs}
	}

	if err := d.api.PostJSON(ctx, "/api/contact/", sub.Cookie, contactBody(form), nil); err != nil {
		return d.fail(err)
	}

	return Result{Redirect: "/"}
}

func (d *Dispatcher) createPartnership(ctx context.Context, sub Submission) Result {
	form := contactFormFrom(sub)
	if errs := validate.Contact(form); !errs.Valid() {
		return Result{Errors: errs}
	}

	if err := d.api.PostJSON(ctx, "/api/partnerships/", sub.Cookie, contactBody(form), nil); err != nil {
		return d.fail(err)
	}

	return Result{Redirect: "/"}
}

func (d *Dispatcher) addTags(ctx context.Context, sub Submission) Result {
	user, res := requireUser(sub)
	if res != nil {
		return *res
	}

	tags := sub.Fields["tags"]
	if len(tags) == 0 {
		return Result{Status: http.StatusBadRequest, Message: "missing required field: tags"}
	}

	body := map[string]any{"tags": tags}
	if err := d.api.PostJSON(ctx, fmt.Sprintf("/api/users/%d/tags", user.ID), sub.Cookie, body, nil); err != nil {
		return d.fail(err)
	}

	d.invalidate(ctx, "profile")
	return Result{Redirect: "/profile"}
}

// updateProfile edits the session user's profile and reissues the session
// cookie so the snapshot matches what the server now holds.
func (d *Dispatcher) updateProfile(ctx context.Context, sub Submission) Result {
	user, res := requireUser(sub)
	if res != nil {
		return *res
	}

	form := model.ProfileForm{
		Username: sub.Fields.Get("username"),
		Bio:      sub.Fields.Get("bio"),
	}
	_, form.HasImage = findUpload(sub, "image")

	if errs := validate.Profile(form); !errs.Valid() {
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

	fields := url.Values{
		"username": {form.Username},
		"bio":      {form.Bio},
	}

	var updated model.SessionUser
	if err := d.api.PostMultipart(ctx, fmt.Sprintf("/api/users/%d/edit", user.ID), sub.Cookie, fields, files, &updated); err != nil {
		return d.fail(err)
	}

	d.invalidate(ctx, "profile", "posts")

	result := Result{Redirect: "/profile"}
	if cookie, err := d.sessions.Issue(&updated); err == nil {
		result.SetCookies = []*http.Cookie{cookie}
	}
	return result
}

// deleteProfile removes the account, drops the whole view cache and ends the
// session.
func (d *Dispatcher) deleteProfile(ctx context.Context, sub Submission) Result {
	user, res := requireUser(sub)
	if res != nil {
		return *res
	}

	if err := d.api.Delete(ctx, fmt.Sprintf("/api/users/%d/delete", user.ID), sub.Cookie, nil); err != nil {
		return d.fail(err)
	}

	d.invalidate(ctx, "")
	return Result{
		Redirect:   "/",
		SetCookies: []*http.Cookie{d.sessions.Clear()},
	}
}
