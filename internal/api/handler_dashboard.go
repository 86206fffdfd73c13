package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking-backend/internal/access"
	"hotel-booking-backend/internal/mw"
)

// GuestDashboard handles GET /dashboard. Admins are sent to their own
// dashboard; guests see only their own booking.
func (h *Handler) GuestDashboard(c *gin.Context) {
	sess := mw.CurrentSession(c)
	if sess.IsAdmin() {
		c.Redirect(http.StatusSeeOther, access.AdminPath)
		return
	}

	ctx := c.Request.Context()
	profile, err := h.Auth.Profile(ctx, sess)
	if err != nil {
		fail(c, "guest dashboard profile", err)
		return
	}
	bookings, err := h.Bookings.ForSession(ctx, sess)
	if err != nil {
		fail(c, "guest dashboard bookings", err)
		return
	}
	inbox, err := h.Notifications.Inbox(ctx, sess.SubjectID, inboxLimit)
	if err != nil {
		fail(c, "guest dashboard notifications", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile":       profile,
		"bookings":      bookings,
		"notifications": inbox,
	})
}

// AdminDashboard handles GET /dashboard/admin.
func (h *Handler) AdminDashboard(c *gin.Context) {
	sess := mw.CurrentSession(c)
	ctx := c.Request.Context()

	profile, err := h.Auth.Profile(ctx, sess)
	if err != nil {
		fail(c, "admin dashboard profile", err)
		return
	}
	stats, err := h.Bookings.AdminStats(ctx)
	if err != nil {
		fail(c, "admin dashboard stats", err)
		return
	}
	messages, err := h.Contact.List(ctx, sess)
	if err != nil {
		fail(c, "admin dashboard messages", err)
		return
	}
	activity, err := h.Notifications.Inbox(ctx, sess.SubjectID, inboxLimit)
	if err != nil {
		fail(c, "admin dashboard activity", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile":        profile,
		"stats":          stats,
		"unreadMessages": messages.Unread,
		"activity":       activity,
	})
}

// ProfilePage handles GET /dashboard/profile.
func (h *Handler) ProfilePage(c *gin.Context) {
	profile, err := h.Auth.Profile(c.Request.Context(), mw.CurrentSession(c))
	if err != nil {
		fail(c, "profile page", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
