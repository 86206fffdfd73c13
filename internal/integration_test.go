package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-booking-backend/config"
	"hotel-booking-backend/internal/app"
	"hotel-booking-backend/internal/db"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/notification"
	"hotel-booking-backend/internal/store"
)

type harness struct {
	t      *testing.T
	app    *app.App
	server *httptest.Server
	roomID string
}

func newHarness(t *testing.T, dbName string) *harness {
	t.Helper()

	cfg := &config.Config{}
	cfg.Database = config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file:" + dbName + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
		Seed:         true,
	}
	cfg.Session.Secret = "integration-secret"
	cfg.Auth.InviteCode = "giftInn2025"
	cfg.Auth.BcryptCost = 4
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.LoginLimitPerMin = 1000
	require.NoError(t, cfg.ApplyDefaults())

	gormDB, err := db.Init(&cfg.Database)
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	t.Cleanup(func() { sqlDB.Close() })

	a, err := app.New(cfg, gormDB)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, a.Start(ctx, config.SeedAdmin{Email: "frontdesk@giftinn.example", Password: "s3cret-pass", Name: "Front Desk"}))

	server := httptest.NewServer(a.Router)
	t.Cleanup(server.Close)

	rooms, err := a.Store.ListRooms(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, rooms, "seeded catalog")

	return &harness{t: t, app: a, server: server, roomID: rooms[0].ID}
}

// client keeps its own cookie, like one browser.
type client struct {
	h      *harness
	cookie *http.Cookie
}

func (h *harness) client() *client { return &client{h: h} }

func (c *client) do(method, path string, body any) (int, []byte) {
	t := c.h.t
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.h.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	httpClient := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	for _, ck := range resp.Cookies() {
		if ck.Name == "session" {
			if ck.Value == "" {
				c.cookie = nil
			} else {
				c.cookie = ck
			}
		}
	}
	var out bytes.Buffer
	_, _ = out.ReadFrom(resp.Body)
	return resp.StatusCode, out.Bytes()
}

func bookingRequest(roomID, checkIn, checkOut string) map[string]any {
	return map[string]any{
		"roomId":        roomID,
		"guestName":     "Grace Hopper",
		"guestIdNumber": "GH-1906",
		"phoneNumber":   "5550100100",
		"checkIn":       checkIn,
		"checkOut":      checkOut,
	}
}

// TestBookingLifecycle walks a stay from submission through confirmation,
// guest cancellation and rebooking of the freed dates.
func TestBookingLifecycle(t *testing.T) {
	h := newHarness(t, "lifecycle")
	visitor := h.client()

	// 1. A visitor books three nights.
	status, body := visitor.do(http.MethodPost, "/api/bookings", bookingRequest(h.roomID, "2024-02-01", "2024-02-04"))
	require.Equal(t, http.StatusCreated, status, string(body))
	var booking model.Booking
	require.NoError(t, json.Unmarshal(body, &booking))

	// 2. The admin logs in, sees the new-booking notification and confirms.
	admin := h.client()
	status, body = admin.do(http.MethodPost, "/api/auth/admin", map[string]string{"email": "frontdesk@giftinn.example", "password": "s3cret-pass"})
	require.Equal(t, http.StatusOK, status, string(body))

	var inbox notification.Inbox
	status, body = admin.do(http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &inbox))
	require.Len(t, inbox.Notifications, 1)
	assert.Contains(t, inbox.Notifications[0].Message, "New booking for")
	assert.Equal(t, "/dashboard/admin?tab=bookings", inbox.Notifications[0].Href)

	status, body = admin.do(http.MethodPut, "/api/admin/bookings/"+booking.ID+"/status", map[string]string{"status": "Confirmed"})
	require.Equal(t, http.StatusOK, status, string(body))

	// 3. The guest logs in with the booking details and sees the confirmation.
	guest := h.client()
	status, body = guest.do(http.MethodPost, "/api/auth/guest", map[string]string{
		"guestName": "Grace Hopper", "guestIdNumber": "GH-1906", "phoneNumber": "5550100100",
	})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.JSONEq(t, `{"redirect":"/dashboard","role":"guest"}`, string(body))

	status, body = guest.do(http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &inbox))
	require.Len(t, inbox.Notifications, 1)
	assert.Contains(t, inbox.Notifications[0].Message, "has been confirmed.")
	assert.Equal(t, int64(1), inbox.Unread)

	status, _ = guest.do(http.MethodPost, "/api/notifications/read", nil)
	require.Equal(t, http.StatusNoContent, status)

	// 4. The guest cannot reach the admin area, then cancels.
	status, _ = guest.do(http.MethodGet, "/dashboard/admin", nil)
	assert.Equal(t, http.StatusSeeOther, status)

	status, body = guest.do(http.MethodPost, "/api/bookings/"+booking.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, status, string(body))

	stored, err := h.app.Store.GetBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, stored.Status)

	// 5. The freed dates can be booked again.
	other := h.client()
	status, body = other.do(http.MethodPost, "/api/bookings", bookingRequest(h.roomID, "2024-02-01", "2024-02-04"))
	assert.Equal(t, http.StatusCreated, status, string(body))

	// 6. Re-confirming the cancelled booking would now double-book.
	status, _ = admin.do(http.MethodPut, "/api/admin/bookings/"+booking.ID+"/status", map[string]string{"status": "Confirmed"})
	assert.Equal(t, http.StatusConflict, status)
}

func TestConcurrentDoubleBooking(t *testing.T) {
	h := newHarness(t, "double_booking")

	const attempts = 8
	var wg sync.WaitGroup
	codes := make(chan int, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// every stay covers the night of 2024-06-05
			checkIn := []string{"2024-06-01", "2024-06-03", "2024-06-05", "2024-06-04"}[i%4]
			status, _ := h.client().do(http.MethodPost, "/api/bookings", bookingRequest(h.roomID, checkIn, "2024-06-06"))
			codes <- status
		}(i)
	}
	wg.Wait()
	close(codes)

	created := 0
	for code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
		default:
			t.Errorf("unexpected status %d", code)
		}
	}
	assert.Equal(t, 1, created)

	active, err := h.app.Store.ListBookings(context.Background(), store.BookingFilter{
		RoomID:   h.roomID,
		Statuses: model.ActiveStatuses,
	})
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
