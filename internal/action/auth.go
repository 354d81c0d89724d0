package action

import (
	"context"
	"log"
	"net/http"
	"net/url"

	"mencrytoo/internal/api"
	"mencrytoo/internal/model"
	"mencrytoo/internal/validate"
)

// signup creates an account. The backend answers the created session user
// and its own session cookie; both the relayed backend cookie and the
// gateway's session cookie ride back on the result.
func (d *Dispatcher) signup(ctx context.Context, sub Submission) Result {
	form := model.SignupForm{
		Username:        sub.Fields.Get("username"),
		Email:           sub.Fields.Get("email"),
		Password:        sub.Fields.Get("password"),
		ConfirmPassword: sub.Fields.Get("confirmPassword"),
		Bio:             sub.Fields.Get("bio"),
		TagIDs:          sub.Fields["userTags"],
	}
	_, form.HasImage = findUpload(sub, "image")

	if errs := validate.Signup(form); !errs.Valid() {
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
		"email":    {form.Email},
		"password": {form.Password},
		"bio":      {form.Bio},
	}
	// userTags is a repeated field, one entry per selected tag.
	for _, tag := range form.TagIDs {
		fields.Add("userTags", tag)
	}

	var user model.SessionUser
	upstream, err := d.api.PostMultipartCookies(ctx, "/api/auth/signup", sub.Cookie, fields, files, &user)
	if err != nil {
		return d.fail(err)
	}

	return d.establishSession(&user, upstream, "/profile")
}

func (d *Dispatcher) login(ctx context.Context, sub Submission) Result {
	credential := sub.Fields.Get("credential")
	password := sub.Fields.Get("password")
	if credential == "" {
		return Result{Status: http.StatusBadRequest, Message: "missing required field: credential"}
	}
	if password == "" {
		return Result{Status: http.StatusBadRequest, Message: "missing required field: password"}
	}

	body := map[string]string{"credential": credential, "password": password}

	var user model.SessionUser
	upstream, err := d.api.PostJSONCookies(ctx, "/api/auth/login", sub.Cookie, body, &user)
	if err != nil {
		return d.fail(err)
	}

	return d.establishSession(&user, upstream, "/")
}

// logout ends both sessions. The backend call is best-effort: the gateway
// session is cleared even when the backend is unreachable, so the user is
// never stuck logged in locally.
func (d *Dispatcher) logout(ctx context.Context, sub Submission) Result {
	if err := d.api.PostJSON(ctx, "/api/auth/logout", sub.Cookie, nil, nil); err != nil {
		log.Printf("[Action] logout: backend call failed, clearing local session anyway: %v", err)
	}

	d.invalidate(ctx, "profile")
	return Result{
		Redirect:   "/",
		SetCookies: []*http.Cookie{d.sessions.Clear()},
	}
}

func (d *Dispatcher) establishSession(user *model.SessionUser, upstream []*http.Cookie, redirect string) Result {
	cookies := upstream
	if sessionCookie, err := d.sessions.Issue(user); err == nil {
		cookies = append(cookies, sessionCookie)
	} else {
		log.Printf("[Action] establishSession: issue cookie failed: %v", err)
	}
	return Result{Redirect: redirect, SetCookies: cookies}
}
