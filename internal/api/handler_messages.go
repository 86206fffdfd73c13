package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking-backend/internal/contact"
	"hotel-booking-backend/internal/mw"
	"hotel-booking-backend/internal/textgen"
)

// SubmitContact handles POST /api/contact.
func (h *Handler) SubmitContact(c *gin.Context) {
	var in contact.Input
	if !bind(c, &in) {
		return
	}
	if _, err := h.Contact.Submit(c.Request.Context(), in); err != nil {
		fail(c, "submit contact message", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// ListMessages handles GET /api/admin/messages.
func (h *Handler) ListMessages(c *gin.Context) {
	inbox, err := h.Contact.List(c.Request.Context(), mw.CurrentSession(c))
	if err != nil {
		fail(c, "list contact messages", err)
		return
	}
	c.JSON(http.StatusOK, inbox)
}

func (h *Handler) MarkMessageRead(c *gin.Context) {
	if err := h.Contact.MarkRead(c.Request.Context(), mw.CurrentSession(c), c.Param("id")); err != nil {
		fail(c, "mark contact message read", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListNotifications handles GET /api/notifications.
func (h *Handler) ListNotifications(c *gin.Context) {
	inbox, err := h.Notifications.Inbox(c.Request.Context(), mw.CurrentSession(c).SubjectID, inboxLimit)
	if err != nil {
		fail(c, "list notifications", err)
		return
	}
	c.JSON(http.StatusOK, inbox)
}

// MarkNotificationRead handles POST /api/notifications/:id/read.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	if err := h.Notifications.MarkRead(c.Request.Context(), mw.CurrentSession(c).SubjectID, c.Param("id")); err != nil {
		fail(c, "mark notification read", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllNotificationsRead handles POST /api/notifications/read.
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	if err := h.Notifications.MarkAllReadForUser(c.Request.Context(), mw.CurrentSession(c).SubjectID); err != nil {
		fail(c, "mark notifications read", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Recommendations handles POST /api/recommendations.
func (h *Handler) Recommendations(c *gin.Context) {
	var in textgen.RecommendationInput
	if !bind(c, &in) {
		return
	}
	text, err := h.Assistant.Recommendations(c.Request.Context(), in)
	if err != nil {
		fail(c, "recommendations", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": text})
}

// BookingAssistant handles POST /api/assistant/booking.
func (h *Handler) BookingAssistant(c *gin.Context) {
	var in textgen.BookingQuestion
	if !bind(c, &in) {
		return
	}
	text, err := h.Assistant.BookingAnswer(c.Request.Context(), mw.CurrentSession(c), in)
	if err != nil {
		fail(c, "booking assistant", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": text})
}

// RoomDescription handles POST /api/admin/rooms/description.
func (h *Handler) RoomDescription(c *gin.Context) {
	var in textgen.DescriptionInput
	if !bind(c, &in) {
		return
	}
	text, err := h.Assistant.RoomDescription(c.Request.Context(), mw.CurrentSession(c), in)
	if err != nil {
		fail(c, "room description", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"description": text})
}
