// Package action holds the form-submission handlers. One dispatcher
// multiplexes every operation via the intent carried in the form data. Each
// handler runs the same pipeline: check identifiers, validate fields, perform
// exactly one mutating HTTP call, invalidate the touched cache families, and
// return a navigation result. The order mutation -> invalidation -> navigation
// is fixed; invalidating before the server confirms would leave the cache
// promising state the server may have rejected.
package action

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"mencrytoo/internal/api"
	"mencrytoo/internal/cache"
	"mencrytoo/internal/media"
	"mencrytoo/internal/model"
	"mencrytoo/internal/session"
	"mencrytoo/internal/validate"
)

// Upload is a raw file received with a form submission.
type Upload struct {
	Field    string
	Filename string
	Data     []byte
}

// Submission is one form submission as handed over by the transport layer.
// User is a snapshot taken when the request arrived.
type Submission struct {
	Intent  Intent
	Cookie  string
	User    *model.SessionUser
	Fields  url.Values
	Uploads []Upload
}

// Result is the terminal state of a submission.
//
//	Errors set            -> invalid: field messages for inline rendering
//	Status/Message set    -> failed: banner message with an HTTP-ish status
//	Redirect set          -> succeeded: navigate there
//	Data set              -> succeeded in place: render this payload
type Result struct {
	Redirect   string
	Data       any
	Errors     validate.FieldErrors
	Status     int
	Message    string
	SetCookies []*http.Cookie
}

type handlerFunc func(d *Dispatcher, ctx context.Context, sub Submission) Result

// Dispatcher wires the dependencies shared by all action handlers.
type Dispatcher struct {
	api      *api.Client
	cache    cache.Store
	sessions *session.Manager
	images   *media.Processor
}

func NewDispatcher(apiClient *api.Client, store cache.Store, sessions *session.Manager, images *media.Processor) *Dispatcher {
	return &Dispatcher{
		api:      apiClient,
		cache:    store,
		sessions: sessions,
		images:   images,
	}
}

// Dispatch routes a submission to its intent handler.
func (d *Dispatcher) Dispatch(ctx context.Context, sub Submission) Result {
	h, ok := handlers[sub.Intent]
	if !ok {
		log.Printf("[Action] Dispatch FAILED: unknown intent=%q", sub.Intent)
		return Result{Status: http.StatusBadRequest, Message: fmt.Sprintf("unknown intent %q", sub.Intent)}
	}

	res := h(d, ctx, sub)
	switch {
	case len(res.Errors) > 0:
		log.Printf("[Action] %s INVALID: fields=%d", sub.Intent, len(res.Errors))
	case res.Status != 0:
		log.Printf("[Action] %s FAILED: status=%d msg=%s", sub.Intent, res.Status, res.Message)
	default:
		log.Printf("[Action] %s OK: redirect=%s", sub.Intent, res.Redirect)
	}
	return res
}

// fail converts a mutation error into a failure result. Structured backend
// errors keep their status and message; anything else is a network-class
// failure surfaced with a generic banner.
func (d *Dispatcher) fail(err error) Result {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = "something went wrong"
		}
		return Result{Status: apiErr.Status, Message: msg}
	}
	return Result{Status: http.StatusBadGateway, Message: "network error, please try again"}
}

// invalidate clears the cache families touched by a successful mutation.
// Runs synchronously, always before the navigation result is returned.
func (d *Dispatcher) invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := d.cache.Clear(ctx, key); err != nil {
			log.Printf("[Action] Invalidate FAILED: key=%s err=%v", key, err)
		}
	}
}

// requireUser enforces an authenticated session.
func requireUser(sub Submission) (*model.SessionUser, *Result) {
	if sub.User == nil {
		return nil, &Result{Status: http.StatusUnauthorized, Message: "authentication required"}
	}
	return sub.User, nil
}

// requireID parses a required identifying field. A missing or malformed id
// is a programming/integration error: fail fast, name the field, never
// attempt a partial mutation.
func requireID(sub Submission, field string) (int64, *Result) {
	raw := sub.Fields.Get(field)
	if raw == "" {
		return 0, &Result{Status: http.StatusBadRequest, Message: "missing required field: " + field}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &Result{Status: http.StatusBadRequest, Message: "invalid value for field: " + field}
	}
	return id, nil
}

// optionalID parses an identifying field that may be absent.
func optionalID(sub Submission, field string) (int64, bool) {
	id, err := strconv.ParseInt(sub.Fields.Get(field), 10, 64)
	return id, err == nil
}

// findUpload returns the raw upload submitted under field, if any.
func findUpload(sub Submission, field string) (Upload, bool) {
	for _, u := range sub.Uploads {
		if u.Field == field && len(u.Data) > 0 {
			return u, true
		}
	}
	return Upload{}, false
}

// prepareImage normalizes the upload under field for forwarding. Returns a
// nil file when no upload was submitted.
func (d *Dispatcher) prepareImage(sub Submission, field string) (*api.File, *Result) {
	raw, ok := findUpload(sub, field)
	if !ok {
		return nil, nil
	}

	file, err := d.images.Prepare(raw.Field, raw.Filename, bytes.NewReader(raw.Data))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrFileTooLarge):
			return nil, &Result{Status: http.StatusBadRequest, Message: "image exceeds the maximum upload size"}
		case errors.Is(err, model.ErrInvalidImageType):
			return nil, &Result{Status: http.StatusBadRequest, Message: "unsupported image type"}
		default:
			return nil, &Result{Status: http.StatusInternalServerError, Message: "failed to process image"}
		}
	}
	return &file, nil
}

// requireImage is prepareImage for intents where the upload is mandatory.
func (d *Dispatcher) requireImage(sub Submission, field string) (*api.File, *Result) {
	if _, ok := findUpload(sub, field); !ok {
		return nil, &Result{Status: http.StatusBadRequest, Message: "missing required field: " + field}
	}
	return d.prepareImage(sub, field)
}
