// Package nav defines the navigation value loaders and actions hand back to
// the transport layer. Redirects are data, not side effects: the core never
// touches the response writer, so any rendering layer can interpret the
// result.
package nav

import "net/url"

// Intent tells the rendering layer what to do next: render Data in place, or
// redirect to Path.
type Intent struct {
	Path string // non-empty means redirect
	Data any    // payload to render when Path is empty
}

// Render returns an Intent that renders data in place.
func Render(data any) Intent {
	return Intent{Data: data}
}

// Redirect returns an Intent that navigates to path.
func Redirect(path string) Intent {
	return Intent{Path: path}
}

// RedirectError navigates to path with a machine-readable error code in the
// query string, e.g. /events/7?error=unauthorized. The destination page
// translates the code into a banner; failures stay recoverable navigation
// events.
func RedirectError(path, code string) Intent {
	return Intent{Path: path + "?error=" + url.QueryEscape(code)}
}

// IsRedirect reports whether the intent navigates away.
func (i Intent) IsRedirect() bool {
	return i.Path != ""
}
