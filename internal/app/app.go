// Package app wires the stores, services and HTTP router together.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"hotel-booking-backend/config"
	"hotel-booking-backend/internal/api"
	"hotel-booking-backend/internal/auth"
	"hotel-booking-backend/internal/booking"
	"hotel-booking-backend/internal/catalog"
	"hotel-booking-backend/internal/contact"
	"hotel-booking-backend/internal/notification"
	"hotel-booking-backend/internal/session"
	"hotel-booking-backend/internal/store"
	"hotel-booking-backend/internal/textgen"
)

// App is the assembled backend.
type App struct {
	Store    store.Store
	Sessions *session.Manager
	Auth     *auth.Service
	Bookings *booking.Service
	Router   *gin.Engine

	sweeper    *session.Sweeper
	workerPool *notification.WorkerPool
}

// New builds the application on an initialized database. It fails when
// the session secret is missing.
func New(cfg *config.Config, gdb *gorm.DB) (*App, error) {
	st := store.NewGormStore(gdb)

	sessions, err := session.NewManager(st, cfg.Session.Secret, cfg.Session.TTL, session.WithSliding(cfg.Session.Sliding))
	if err != nil {
		return nil, fmt.Errorf("session manager: %w", err)
	}

	authSvc, err := auth.NewService(st, sessions, cfg.Auth.InviteCode, cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}
	if cfg.Auth.InviteCode == "" {
		log.Println("admin invite code not set; admin registration is disabled")
	}

	a := &App{
		Store:    st,
		Sessions: sessions,
		Auth:     authSvc,
		sweeper:  session.NewSweeper(st, cfg.Session.SweepInterval),
	}

	var webpushOptions *webpush.Options
	var notifications *notification.Service
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		a.workerPool = notification.NewWorkerPool(cfg.WorkerPool.Size, st, webpushOptions)
		notifications = notification.NewService(st, a.workerPool)
	} else {
		log.Println("VAPID keys not configured; web push is disabled")
		notifications = notification.NewService(st, nil)
	}

	loc := cfg.Server.Location
	a.Bookings = booking.NewService(st, notifications, loc)

	a.Router = api.NewRouter(api.Services{
		Store:         st,
		Sessions:      sessions,
		Auth:          authSvc,
		Bookings:      a.Bookings,
		Catalog:       catalog.NewService(st, loc),
		Contact:       contact.NewService(st, notifications),
		Notifications: notifications,
		Assistant:     textgen.NewAssistant(textgen.NewClient(cfg.TextGen), st),
		WebPush:       webpushOptions,
	}, api.RouterOptions{
		RateLimit:        rate.Limit(cfg.Server.RateLimitPerSec),
		RateBurst:        cfg.Server.RateLimitBurst,
		LoginLimitPerMin: cfg.Server.LoginLimitPerMin,
		CacheTTL:         cfg.Server.CacheTTL(),
		SecureCookies:    cfg.Server.SecureCookies,
	})
	return a, nil
}

// Start seeds the configured admin and launches the background workers.
// They stop when ctx is cancelled.
func (a *App) Start(ctx context.Context, seed config.SeedAdmin) error {
	if seed.Email != "" {
		if err := a.Auth.EnsureAdmin(ctx, seed.Email, seed.Password, seed.Name); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}
	if a.workerPool != nil {
		a.workerPool.Start(ctx)
	}
	go a.sweeper.Run(ctx)
	return nil
}
