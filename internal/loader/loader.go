// Package loader holds the per-route data loaders. A loader assembles
// everything one page needs: it consults the view cache, fetches from the
// backend (in parallel where the fetches are independent), applies the
// authorization guard on edit routes, and returns a nav.Intent. Loaders never
// let a failure escape as an error when a graceful redirect is possible.
package loader

import (
	"errors"
	"fmt"
	"net/url"

	"mencrytoo/internal/api"
	"mencrytoo/internal/cache"
	"mencrytoo/internal/model"
	"mencrytoo/internal/nav"
)

// Loaders bundles the dependencies every route loader needs.
type Loaders struct {
	api   *api.Client
	cache cache.Store
}

func New(apiClient *api.Client, store cache.Store) *Loaders {
	return &Loaders{
		api:   apiClient,
		cache: store,
	}
}

// Request is the per-invocation context a loader runs under. User is a
// snapshot taken when the request arrived; it is never re-read mid-load.
type Request struct {
	Cookie string             // browser cookies, forwarded to the backend
	User   *model.SessionUser // nil when logged out
	Query  url.Values
}

// authorize is the authorization guard: a mutation or edit view is permitted
// only when the session user owns the resource.
func authorize(user *model.SessionUser, ownerID int64) bool {
	return user != nil && user.ID == ownerID
}

// failure classes for the loader error taxonomy.
const (
	failNetwork      = "network"
	failUnauthorized = "unauthorized"
	failUnknown      = "unknown"
)

// classify maps a fetch error onto the taxonomy. Anything that is not a
// structured backend response counts as a network failure.
func classify(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case 401, 403:
			return failUnauthorized
		default:
			return failUnknown
		}
	}
	return failNetwork
}

// missing marks a 404 from a fetch with the sentinel for the resource that
// was being loaded, so redirectFailure can switch on errors.Is.
func missing(err error, notFound error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status == 404 {
		return fmt.Errorf("%w: %v", notFound, err)
	}
	return err
}

// redirectFailure converts a failure on a required resource into the
// redirect the taxonomy prescribes: missing resources go to the list view
// naming what is gone, authorization failures carry the unauthorized code,
// everything else its class code.
func redirectFailure(err error, listPath string) nav.Intent {
	switch {
	case errors.Is(err, model.ErrGroupNotFound):
		return nav.RedirectError(listPath, "group-not-found")
	case errors.Is(err, model.ErrEventNotFound):
		return nav.RedirectError(listPath, "event-not-found")
	case errors.Is(err, model.ErrPostNotFound):
		return nav.RedirectError(listPath, "post-not-found")
	case errors.Is(err, model.ErrUserNotFound):
		return nav.RedirectError(listPath, "user-not-found")
	case errors.Is(err, model.ErrSessionRequired), errors.Is(err, model.ErrNotOrganizer):
		return nav.RedirectError(listPath, failUnauthorized)
	}
	return nav.RedirectError(listPath, classify(err))
}

// degradeMessage is the banner text for list pages that render empty instead
// of redirecting.
func degradeMessage(err error) string {
	if classify(err) == failNetwork {
		return "network error, please try again"
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "something went wrong"
}

func groupPath(id int64) string {
	return fmt.Sprintf("/groups/%d", id)
}

func eventPath(id int64) string {
	return fmt.Sprintf("/events/%d", id)
}
