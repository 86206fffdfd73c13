package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking-backend/internal/booking"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/mw"
	"hotel-booking-backend/internal/store"
)

// SubmitBooking handles POST /api/bookings.
func (h *Handler) SubmitBooking(c *gin.Context) {
	var in booking.SubmitInput
	if !bind(c, &in) {
		return
	}
	b, err := h.Bookings.Submit(c.Request.Context(), in)
	if err != nil {
		fail(c, "submit booking", err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// RoomAvailability handles GET /api/rooms/:id/availability.
func (h *Handler) RoomAvailability(c *gin.Context) {
	q, err := h.Bookings.Quote(c.Request.Context(), c.Param("id"), c.Query("checkIn"), c.Query("checkOut"))
	if err != nil {
		fail(c, "quote stay", err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// CancelBooking handles POST /api/bookings/:id/cancel for the guest who
// owns the booking.
func (h *Handler) CancelBooking(c *gin.Context) {
	b, err := h.Bookings.CancelOwn(c.Request.Context(), mw.CurrentSession(c), c.Param("id"))
	if err != nil {
		fail(c, "cancel booking", err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListBookings handles GET /api/admin/bookings.
func (h *Handler) ListBookings(c *gin.Context) {
	filter := store.BookingFilter{RoomID: c.Query("roomId")}
	if status := model.BookingStatus(c.Query("status")); status != "" {
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown booking status.", "field": "status"})
			return
		}
		filter.Statuses = []model.BookingStatus{status}
	}
	bookings, err := h.Bookings.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, "list bookings", err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

type statusRequest struct {
	Status model.BookingStatus `json:"status" binding:"required"`
}

// SetBookingStatus handles PUT /api/admin/bookings/:id/status.
func (h *Handler) SetBookingStatus(c *gin.Context) {
	var req statusRequest
	if !bind(c, &req) {
		return
	}
	b, err := h.Bookings.SetStatus(c.Request.Context(), mw.CurrentSession(c), c.Param("id"), req.Status)
	if err != nil {
		fail(c, "set booking status", err)
		return
	}
	c.JSON(http.StatusOK, b)
}
