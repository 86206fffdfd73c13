package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"hotel-booking-backend/internal/mw"
)

// RouterOptions tune the middleware in front of the handlers.
type RouterOptions struct {
	RateLimit        rate.Limit
	RateBurst        int
	LoginLimitPerMin float64
	CacheTTL         time.Duration
	SecureCookies    bool
}

// NewRouter creates and configures a new Gin router.
func NewRouter(svc Services, opts RouterOptions) *gin.Engine {
	r := gin.Default()

	cookies := mw.Cookies{Secure: opts.SecureCookies}
	handler := NewHandler(svc, cookies)
	r.Use(mw.Sessions(svc.Sessions, cookies))

	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Minute
	}
	cacheStore := cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	caching := mw.Cache(cacheStore, opts.CacheTTL)
	loginLimiter := mw.PerMinute(opts.LoginLimitPerMin)

	// Dashboard pages redirect instead of failing.
	pages := r.Group("/dashboard", mw.RequirePage())
	{
		pages.GET("", handler.GuestDashboard)
		pages.GET("/admin", handler.AdminDashboard)
		pages.GET("/profile", handler.ProfilePage)
	}

	api := r.Group("/api")
	api.Use(mw.RateLimiter(opts.RateLimit, opts.RateBurst), mw.Invalidate(cacheStore))
	{
		api.GET("/rooms", caching, handler.ListRooms)
		api.GET("/rooms/search", caching, handler.SearchRooms)
		api.GET("/rooms/:id", caching, handler.GetRoom)
		api.GET("/rooms/:id/availability", handler.RoomAvailability)
		api.GET("/amenities", caching, handler.ListAmenities)
		api.GET("/attractions", caching, handler.ListAttractions)
		api.POST("/bookings", handler.SubmitBooking)
		api.POST("/contact", handler.SubmitContact)
		api.POST("/recommendations", handler.Recommendations)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		authGroup := api.Group("/auth")
		authGroup.POST("/guest", loginLimiter, handler.GuestLogin)
		authGroup.POST("/admin", loginLimiter, handler.AdminLogin)
		authGroup.POST("/register", loginLimiter, handler.Register)
		authGroup.POST("/logout", handler.Logout)
		authGroup.GET("/session", handler.GetSession)

		user := api.Group("", mw.RequireSession())
		user.GET("/subscriptions", handler.GetSubscription)
		user.PUT("/subscriptions", handler.PutSubscription)
		user.DELETE("/subscriptions", handler.DeleteSubscription)
		user.GET("/notifications", handler.ListNotifications)
		user.POST("/notifications/read", handler.MarkAllNotificationsRead)
		user.POST("/notifications/:id/read", handler.MarkNotificationRead)
		user.POST("/bookings/:id/cancel", handler.CancelBooking)
		user.POST("/assistant/booking", handler.BookingAssistant)
		user.PUT("/profile", handler.UpdateProfile)

		admin := api.Group("/admin", mw.RequireAdmin())
		admin.GET("/bookings", handler.ListBookings)
		admin.PUT("/bookings/:id/status", handler.SetBookingStatus)
		admin.PUT("/rooms", handler.SaveRoom)
		admin.DELETE("/rooms/:id", handler.DeleteRoom)
		admin.POST("/rooms/description", handler.RoomDescription)
		admin.PUT("/amenities", handler.SaveAmenity)
		admin.DELETE("/amenities/:id", handler.DeleteAmenity)
		admin.GET("/messages", handler.ListMessages)
		admin.POST("/messages/:id/read", handler.MarkMessageRead)
	}

	return r
}
