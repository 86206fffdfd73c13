package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-booking-backend/internal/auth"
	"hotel-booking-backend/internal/mw"
)

func (h *Handler) startSession(c *gin.Context, login *auth.Login) {
	h.cookies.Set(c, login.Token, login.Session.ExpiresAt)
	c.JSON(http.StatusOK, gin.H{
		"redirect": login.Redirect,
		"role":     login.Session.Role,
	})
}

// GuestLogin handles POST /api/auth/guest.
func (h *Handler) GuestLogin(c *gin.Context) {
	var in auth.GuestLoginInput
	if !bind(c, &in) {
		return
	}
	login, err := h.Auth.GuestLogin(c.Request.Context(), in)
	if err != nil {
		fail(c, "guest login", err)
		return
	}
	h.startSession(c, login)
}

// AdminLogin handles POST /api/auth/admin.
func (h *Handler) AdminLogin(c *gin.Context) {
	var in auth.AdminLoginInput
	if !bind(c, &in) {
		return
	}
	login, err := h.Auth.AdminLogin(c.Request.Context(), in)
	if err != nil {
		fail(c, "admin login", err)
		return
	}
	h.startSession(c, login)
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(c *gin.Context) {
	var in auth.RegisterInput
	if !bind(c, &in) {
		return
	}
	login, err := h.Auth.Register(c.Request.Context(), in)
	if err != nil {
		fail(c, "register admin", err)
		return
	}
	h.startSession(c, login)
}

// Logout handles POST /api/auth/logout. It always clears the cookie.
func (h *Handler) Logout(c *gin.Context) {
	if token, err := c.Cookie(mw.CookieName); err == nil && token != "" {
		if err := h.Sessions.Destroy(c.Request.Context(), token); err != nil {
			log.Printf("logout: %v", err)
		}
	}
	h.cookies.Clear(c)
	c.JSON(http.StatusOK, gin.H{"redirect": "/login"})
}

type sessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	Role          string     `json:"role,omitempty"`
	SubjectID     string     `json:"subjectId,omitempty"`
	Email         string     `json:"email,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

// GetSession handles GET /api/auth/session.
func (h *Handler) GetSession(c *gin.Context) {
	sess := mw.CurrentSession(c)
	if sess == nil {
		c.JSON(http.StatusOK, sessionResponse{})
		return
	}
	c.JSON(http.StatusOK, sessionResponse{
		Authenticated: true,
		Role:          string(sess.Role),
		SubjectID:     sess.SubjectID,
		Email:         sess.Email,
		ExpiresAt:     &sess.ExpiresAt,
	})
}

// UpdateProfile handles PUT /api/profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var in auth.ProfileInput
	if !bind(c, &in) {
		return
	}
	sess := mw.CurrentSession(c)
	if err := h.Auth.UpdateProfile(c.Request.Context(), sess, in); err != nil {
		fail(c, "update profile", err)
		return
	}
	profile, err := h.Auth.Profile(c.Request.Context(), sess)
	if err != nil {
		fail(c, "load profile", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
