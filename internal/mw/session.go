package mw

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-booking-backend/internal/access"
	"hotel-booking-backend/internal/session"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

const sessionKey = "hotel.session"

// SessionResolver is the part of session.Manager the middleware uses.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) *session.Session
	Refresh(ctx context.Context, sess *session.Session) (string, error)
}

// Cookies writes the session cookie.
type Cookies struct {
	Secure bool
}

// Set stores token in the session cookie until expiresAt.
func (ck Cookies) Set(c *gin.Context, token string, expiresAt time.Time) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   ck.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear removes the session cookie.
func (ck Cookies) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   ck.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Sessions resolves the session cookie, if any, and stores the session on
// the request. A session that was renewed gets a fresh cookie.
func Sessions(resolver SessionResolver, cookies Cookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		sess := resolver.Resolve(c.Request.Context(), token)
		if sess == nil {
			cookies.Clear(c)
			c.Next()
			return
		}

		fresh, err := resolver.Refresh(c.Request.Context(), sess)
		if err != nil {
			log.Printf("refresh session %s: %v", sess.ID, err)
		} else if fresh != "" {
			cookies.Set(c, fresh, sess.ExpiresAt)
		}

		SetSession(c, sess)
		c.Next()
	}
}

// SetSession attaches sess to the request.
func SetSession(c *gin.Context, sess *session.Session) {
	c.Set(sessionKey, sess)
}

// CurrentSession returns the session resolved for this request, or nil.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}

// RequirePage gates dashboard pages. Failing requests are redirected before
// any handler runs.
func RequirePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := access.Authorize(CurrentSession(c), c.Request.URL.Path)
		if !decision.Allowed() {
			c.Redirect(http.StatusSeeOther, decision.RedirectTo)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSession rejects API calls without a session.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentSession(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please log in to continue."})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects API calls that are not made by an admin.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		switch {
		case sess == nil:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please log in to continue."})
		case !sess.IsAdmin():
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unauthorized action."})
		default:
			c.Next()
		}
	}
}
