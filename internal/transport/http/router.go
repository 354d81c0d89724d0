package http

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mencrytoo/internal/action"
	"mencrytoo/internal/httputil"
	"mencrytoo/internal/loader"
	"mencrytoo/internal/nav"
	"mencrytoo/internal/session"
	sessionmw "mencrytoo/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	Loaders       *loader.Loaders
	Actions       *action.Dispatcher
	Sessions      *session.Manager
	MaxUploadSize int64
}

// NewRouter creates and configures a new Chi router. GET routes run a
// loader; form POSTs run the action dispatcher keyed by the submitted
// intent.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(sessionmw.SessionMiddleware(cfg.Sessions))

	h := &routeHandlers{cfg: cfg}

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Page loaders
	r.Get("/groups", h.load(cfg.Loaders.Groups))
	r.Get("/groups/{id}", h.loadID(cfg.Loaders.GroupDetail))
	r.Get("/groups/{id}/edit", h.loadID(cfg.Loaders.GroupEdit))
	r.Get("/groups/{id}/events/new", h.loadID(cfg.Loaders.NewEvent))
	r.Get("/events", h.load(cfg.Loaders.Events))
	r.Get("/events/{id}", h.loadID(cfg.Loaders.EventDetail))
	r.Get("/events/{id}/edit", h.loadID(cfg.Loaders.EventEdit))
	r.Get("/posts", h.load(cfg.Loaders.Posts))
	r.Get("/posts/{id}", h.loadID(cfg.Loaders.PostDetail))
	r.Get("/profile", h.load(cfg.Loaders.Profile))
	r.Get("/tags", h.load(cfg.Loaders.Tags))

	// Form submissions. One endpoint multiplexes every intent; the auth
	// aliases pin the intent for plain HTML forms.
	r.Post("/actions", h.act(""))
	r.Post("/auth/signup", h.act(action.IntentSignup))
	r.Post("/auth/login", h.act(action.IntentLogin))
	r.Post("/auth/logout", h.act(action.IntentLogout))

	return r
}

type routeHandlers struct {
	cfg RouterConfig
}

// loaderRequest snapshots the request context a loader runs under.
func (h *routeHandlers) loaderRequest(r *http.Request) loader.Request {
	user, _ := sessionmw.GetUserFromContext(r.Context())
	return loader.Request{
		Cookie: r.Header.Get("Cookie"),
		User:   user,
		Query:  r.URL.Query(),
	}
}

func (h *routeHandlers) load(fn func(context.Context, loader.Request) nav.Intent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeIntent(w, r, fn(r.Context(), h.loaderRequest(r)))
	}
}

func (h *routeHandlers) loadID(fn func(context.Context, loader.Request, int64) nav.Intent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httputil.WriteBadRequest(w, "Invalid id")
			return
		}
		writeIntent(w, r, fn(r.Context(), h.loaderRequest(r), id))
	}
}

// writeIntent executes a navigation value: redirect, or render the payload.
func writeIntent(w http.ResponseWriter, r *http.Request, intent nav.Intent) {
	if intent.IsRedirect() {
		http.Redirect(w, r, intent.Path, http.StatusSeeOther)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, intent.Data)
}

// act builds a Submission from the posted form and dispatches it. A forced
// intent overrides the form's own intent field.
func (h *routeHandlers) act(forced action.Intent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, err := h.parseSubmission(w, r)
		if err != nil {
			httputil.WriteBadRequest(w, "Invalid form data")
			return
		}
		if forced != "" {
			sub.Intent = forced
		}

		writeResult(w, r, h.cfg.Actions.Dispatch(r.Context(), sub))
	}
}

func (h *routeHandlers) parseSubmission(w http.ResponseWriter, r *http.Request) (action.Submission, error) {
	user, _ := sessionmw.GetUserFromContext(r.Context())
	sub := action.Submission{
		Cookie: r.Header.Get("Cookie"),
		User:   user,
	}

	maxSize := h.cfg.MaxUploadSize + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		if err != http.ErrNotMultipart {
			return sub, err
		}
		if err := r.ParseForm(); err != nil {
			return sub, err
		}
		sub.Fields = r.PostForm
		sub.Intent = action.Intent(sub.Fields.Get("intent"))
		return sub, nil
	}

	sub.Fields = r.MultipartForm.Value
	sub.Intent = action.Intent(sub.Fields.Get("intent"))

	for field, headers := range r.MultipartForm.File {
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				return sub, err
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				return sub, err
			}
			sub.Uploads = append(sub.Uploads, action.Upload{
				Field:    field,
				Filename: header.Filename,
				Data:     data,
			})
		}
	}

	return sub, nil
}

// writeResult executes an action result: cookies first, then field errors,
// failure banner, redirect, or in-place payload.
func writeResult(w http.ResponseWriter, r *http.Request, res action.Result) {
	for _, cookie := range res.SetCookies {
		http.SetCookie(w, cookie)
	}

	switch {
	case len(res.Errors) > 0:
		httputil.WriteFieldErrors(w, res.Errors)
	case res.Status != 0:
		writeFailure(w, res.Status, res.Message)
	case res.Redirect != "":
		http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
	default:
		httputil.WriteJSON(w, http.StatusOK, res.Data)
	}
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	switch status {
	case http.StatusBadRequest:
		httputil.WriteBadRequest(w, message)
	case http.StatusUnauthorized:
		httputil.WriteUnauthorized(w, message)
	case http.StatusInternalServerError:
		httputil.WriteInternalError(w, message)
	case http.StatusBadGateway:
		httputil.WriteError(w, status, httputil.ErrCodeUpstream, message)
	default:
		httputil.WriteError(w, status, httputil.ErrCodeRequestFailed, message)
	}
}
