package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"hotel-booking-backend/internal/apperr"
	"hotel-booking-backend/internal/auth"
	"hotel-booking-backend/internal/booking"
	"hotel-booking-backend/internal/catalog"
	"hotel-booking-backend/internal/contact"
	"hotel-booking-backend/internal/mw"
	"hotel-booking-backend/internal/notification"
	"hotel-booking-backend/internal/session"
	"hotel-booking-backend/internal/store"
	"hotel-booking-backend/internal/textgen"
)

// Services are the dependencies of the API handlers.
type Services struct {
	Store         store.Store
	Sessions      *session.Manager
	Auth          *auth.Service
	Bookings      *booking.Service
	Catalog       *catalog.Service
	Contact       *contact.Service
	Notifications *notification.Service
	Assistant     *textgen.Assistant
	WebPush       *webpush.Options
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	Services
	cookies mw.Cookies
}

// NewHandler creates a new API handler.
func NewHandler(svc Services, cookies mw.Cookies) *Handler {
	return &Handler{Services: svc, cookies: cookies}
}

const inboxLimit = 20

// bind decodes the JSON body into dst, answering 400 on malformed input.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return false
	}
	return true
}

// fail writes err as a JSON error. Business failures carry their own
// message; infrastructure failures are logged under op and reported
// generically.
func fail(c *gin.Context, op string, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		log.Printf("%s: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperr.ErrUpstream.Message})
		return
	}

	switch appErr.Kind {
	case apperr.KindValidation:
		body := gin.H{"error": appErr.Message}
		if appErr.Field != "" {
			body["field"] = appErr.Field
		}
		c.JSON(http.StatusBadRequest, body)
	case apperr.KindRoomUnavailable:
		c.JSON(http.StatusConflict, gin.H{"error": appErr.Message})
	case apperr.KindUnauthorized:
		status := http.StatusUnauthorized
		if mw.CurrentSession(c) != nil {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": appErr.Message})
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": appErr.Message})
	case apperr.KindUpstream:
		log.Printf("%s: %v", op, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": appErr.Message})
	default:
		log.Printf("%s: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperr.ErrUpstream.Message})
	}
}
