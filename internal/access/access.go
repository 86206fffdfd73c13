// Package access decides whether a session may open a protected page.
package access

import (
	"strings"

	"hotel-booking-backend/internal/session"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
	AdminPath     = "/dashboard/admin"
)

// Decision is the outcome of Authorize. An empty RedirectTo means allow.
type Decision struct {
	RedirectTo string
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool { return d.RedirectTo == "" }

// Allow lets the request through.
var Allow = Decision{}

// RedirectTo sends the request elsewhere.
func RedirectTo(path string) Decision { return Decision{RedirectTo: path} }

// Authorize applies the page policy: no session goes to the login page and
// a non-admin asking for the admin area is sent to its own dashboard.
func Authorize(sess *session.Session, path string) Decision {
	if sess == nil {
		return RedirectTo(LoginPath)
	}
	if IsAdminPath(path) && !sess.IsAdmin() {
		return RedirectTo(DashboardPath)
	}
	return Allow
}

// IsAdminPath reports whether path lies in the admin area. Only whole path
// segments match, so /dashboard/administrator is not admin.
func IsAdminPath(path string) bool {
	path = strings.TrimSuffix(path, "/")
	return path == AdminPath || strings.HasPrefix(path, AdminPath+"/")
}
