// Package session manages the browser session cookie that carries the
// Firebase session token between requests. The cookie value is opaque to
// this package; minting and verification live in the auth package.
package session

import (
	"net/http"
	"time"
)

// CookieName is the name of the session cookie
const CookieName = "session"

// Options defines how session cookies are issued
type Options struct {
	// Secure marks the cookie Secure. Should be true in production.
	Secure bool

	// Path defaults to "/" when empty
	Path string
}

// normalize applies defaults without breaking callers
func (o Options) normalize() Options {
	if o.Path == "" {
		o.Path = "/"
	}
	return o
}

// Write issues the session cookie with a fixed max-age
func Write(w http.ResponseWriter, value string, ttl time.Duration, opts Options) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     opts.Path,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear removes the session cookie from the client
func Clear(w http.ResponseWriter, opts Options) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     opts.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read returns the session cookie value from the request, or "" if absent
func Read(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
