package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/mw"
	"hotel-booking-backend/internal/store"
)

type putSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	P256DH   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
}

// PutSubscription registers the caller's browser for push notifications.
func (h *Handler) PutSubscription(c *gin.Context) {
	var req putSubscriptionRequest
	if !bind(c, &req) {
		return
	}

	subscription := model.PushSubscription{
		Endpoint: req.Endpoint,
		UserID:   mw.CurrentSession(c).SubjectID,
		P256DH:   req.P256DH,
		Auth:     req.Auth,
	}
	if err := h.Store.SavePushSubscription(c.Request.Context(), &subscription); err != nil {
		fail(c, "save push subscription", err)
		return
	}

	c.Status(http.StatusCreated)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription removes one of the caller's subscriptions. Deleting an
// unknown endpoint succeeds.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	var req deleteSubscriptionRequest
	if !bind(c, &req) {
		return
	}

	sub, ok := h.ownSubscription(c, req.Endpoint)
	if !ok {
		return
	}
	if sub == nil {
		c.Status(http.StatusNoContent)
		return
	}
	if err := h.Store.DeletePushSubscription(c.Request.Context(), req.Endpoint); err != nil {
		fail(c, "delete push subscription", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSubscription reports whether the endpoint is registered to the caller.
func (h *Handler) GetSubscription(c *gin.Context) {
	endpoint := c.Query("endpoint")
	if endpoint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endpoint is required"})
		return
	}

	sub, ok := h.ownSubscription(c, endpoint)
	if !ok {
		return
	}
	if sub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"endpoint": sub.Endpoint, "subscribed": true})
}

// ownSubscription loads endpoint if it belongs to the caller. Another
// user's subscription is reported as absent. ok is false when a response
// has already been written.
func (h *Handler) ownSubscription(c *gin.Context, endpoint string) (*model.PushSubscription, bool) {
	sub, err := h.Store.GetPushSubscription(c.Request.Context(), endpoint)
	if errors.Is(err, store.ErrNotFound) {
		return nil, true
	}
	if err != nil {
		fail(c, "get push subscription", err)
		return nil, false
	}
	if sub.UserID != mw.CurrentSession(c).SubjectID {
		return nil, true
	}
	return sub, true
}
