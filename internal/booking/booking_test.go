package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-booking-backend/config"
	"hotel-booking-backend/internal/apperr"
	"hotel-booking-backend/internal/db"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/session"
	"hotel-booking-backend/internal/store"
)

type sent struct {
	userID  string // "*admins*" for fan-out
	message string
	href    string
}

// recordingNotifier remembers every notification it was asked to send.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sent
}

func (r *recordingNotifier) Notify(ctx context.Context, userID, message, href string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sent{userID: userID, message: message, href: href})
	return nil
}

func (r *recordingNotifier) NotifyAllAdmins(ctx context.Context, message, href string) error {
	return r.Notify(ctx, "*admins*", message, href)
}

func (r *recordingNotifier) to(userID string) []sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []sent
	for _, s := range r.sent {
		if s.userID == userID {
			out = append(out, s)
		}
	}
	return out
}

type fixture struct {
	store    store.Store
	notifier *recordingNotifier
	svc      *Service
	room     *model.Room
	admin    *session.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := db.Init(&config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file:" + name + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	sqlDB, _ := gdb.DB()
	t.Cleanup(func() { sqlDB.Close() })

	st := store.NewGormStore(gdb)
	room := &model.Room{Name: "Deluxe Queen Room", Description: "A beautifully appointed room.", Price: 150}
	require.NoError(t, st.CreateRoom(context.Background(), room))

	notifier := &recordingNotifier{}
	return &fixture{
		store:    st,
		notifier: notifier,
		svc:      NewService(st, notifier, time.UTC),
		room:     room,
		admin:    &session.Session{ID: "s-admin", Role: model.RoleAdmin, SubjectID: "admin-1"},
	}
}

func (f *fixture) input(checkIn, checkOut string) SubmitInput {
	return SubmitInput{
		RoomID:        f.room.ID,
		GuestName:     "Ann Lee",
		GuestIDNumber: "A1234",
		PhoneNumber:   "0123456789",
		CheckIn:       checkIn,
		CheckOut:      checkOut,
	}
}

func (f *fixture) countBookings(t *testing.T) int {
	t.Helper()
	all, err := f.store.ListBookings(context.Background(), store.BookingFilter{})
	require.NoError(t, err)
	return len(all)
}

func appKind(err error) apperr.Kind { return apperr.KindOf(err) }

func TestSubmit_TotalIsNightsTimesPrice(t *testing.T) {
	f := newFixture(t)

	booking, err := f.svc.Submit(context.Background(), f.input("2024-03-01", "2024-03-04"))
	require.NoError(t, err)
	assert.Equal(t, 450.0, booking.Total)
	assert.Equal(t, model.StatusPending, booking.Status)
	assert.Equal(t, "Deluxe Queen Room", booking.RoomName)

	admins := f.notifier.to("*admins*")
	require.Len(t, admins, 1)
	assert.Equal(t, "New booking for Deluxe Queen Room by Ann Lee.", admins[0].message)
	assert.Equal(t, "/dashboard/admin?tab=bookings", admins[0].href)
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t)

	testCases := []struct {
		name      string
		mutate    func(in *SubmitInput)
		wantField string
	}{
		{name: "zero-night stay", mutate: func(in *SubmitInput) { in.CheckOut = in.CheckIn }, wantField: "checkOut"},
		{name: "check-out before check-in", mutate: func(in *SubmitInput) { in.CheckIn, in.CheckOut = "2024-03-04", "2024-03-01" }, wantField: "checkOut"},
		{name: "short name", mutate: func(in *SubmitInput) { in.GuestName = "A" }, wantField: "guestName"},
		{name: "short id number", mutate: func(in *SubmitInput) { in.GuestIDNumber = "123" }, wantField: "guestIdNumber"},
		{name: "short phone", mutate: func(in *SubmitInput) { in.PhoneNumber = "12345" }, wantField: "phoneNumber"},
		{name: "missing room", mutate: func(in *SubmitInput) { in.RoomID = " " }, wantField: "roomId"},
		{name: "unparseable date", mutate: func(in *SubmitInput) { in.CheckIn = "next tuesday" }, wantField: "checkIn"},
		{name: "stale total", mutate: func(in *SubmitInput) { v := 300.0; in.Total = &v }, wantField: "total"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := f.input("2024-03-01", "2024-03-04")
			tc.mutate(&in)

			_, err := f.svc.Submit(context.Background(), in)
			var appErr *apperr.Error
			require.True(t, errors.As(err, &appErr), "got %v", err)
			assert.Equal(t, apperr.KindValidation, appErr.Kind)
			assert.Equal(t, tc.wantField, appErr.Field)
		})
	}

	assert.Equal(t, 0, f.countBookings(t), "failed submissions must not write")
	assert.Empty(t, f.notifier.to("*admins*"))
}

func TestSubmit_MatchingTotalAccepted(t *testing.T) {
	f := newFixture(t)
	in := f.input("2024-03-01", "2024-03-04")
	shown := 450.0
	in.Total = &shown

	_, err := f.svc.Submit(context.Background(), in)
	assert.NoError(t, err)
}

func TestSubmit_UnknownRoom(t *testing.T) {
	f := newFixture(t)
	in := f.input("2024-03-01", "2024-03-04")
	in.RoomID = "missing"

	_, err := f.svc.Submit(context.Background(), in)
	assert.Equal(t, apperr.KindNotFound, appKind(err))
}

func TestSubmit_OverlapRejectedWithoutWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Submit(ctx, f.input("2024-01-10", "2024-01-15"))
	require.NoError(t, err)

	testCases := []struct {
		name      string
		checkIn   string
		checkOut  string
		wantError bool
	}{
		{name: "inside existing stay", checkIn: "2024-01-12", checkOut: "2024-01-18", wantError: true},
		{name: "covers existing stay", checkIn: "2024-01-01", checkOut: "2024-01-20", wantError: true},
		{name: "check-in on existing check-out", checkIn: "2024-01-15", checkOut: "2024-01-20"},
		{name: "check-out on existing check-in", checkIn: "2024-01-01", checkOut: "2024-01-10"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			before := f.countBookings(t)
			_, err := f.svc.Submit(ctx, f.input(tc.checkIn, tc.checkOut))
			if tc.wantError {
				assert.True(t, errors.Is(err, apperr.ErrRoomUnavailable))
				assert.Equal(t, before, f.countBookings(t))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCancellationFreesRoom(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.Submit(ctx, f.input("2024-02-01", "2024-02-05"))
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, f.input("2024-02-01", "2024-02-05"))
	require.True(t, errors.Is(err, apperr.ErrRoomUnavailable))

	guest := &session.Session{ID: "s-guest", Role: model.RoleGuest, SubjectID: first.ID}
	cancelled, err := f.svc.CancelOwn(ctx, guest, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)

	again, err := f.svc.Submit(ctx, f.input("2024-02-01", "2024-02-05"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, again.ID)
}

func TestConcurrentSubmissionsNeverDoubleBook(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ranges := [][2]string{
		{"2024-06-01", "2024-06-05"},
		{"2024-06-03", "2024-06-07"},
		{"2024-06-04", "2024-06-06"},
		{"2024-06-05", "2024-06-08"},
		{"2024-06-01", "2024-06-10"},
		{"2024-06-07", "2024-06-09"},
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var succeeded, unavailable int
	for i := 0; i < 4; i++ {
		for _, r := range ranges {
			wg.Add(1)
			go func(checkIn, checkOut string) {
				defer wg.Done()
				_, err := f.svc.Submit(ctx, f.input(checkIn, checkOut))
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					succeeded++
				case errors.Is(err, apperr.ErrRoomUnavailable):
					unavailable++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(r[0], r[1])
		}
	}
	wg.Wait()

	assert.GreaterOrEqual(t, succeeded, 1)
	assert.Equal(t, 4*len(ranges), succeeded+unavailable)

	all, err := f.store.ListBookings(ctx, store.BookingFilter{Statuses: model.ActiveStatuses})
	require.NoError(t, err)
	assert.Len(t, all, succeeded)
	assertNoOverlaps(t, all)
}

func assertNoOverlaps(t *testing.T, bookings []model.Booking) {
	t.Helper()
	for i := range bookings {
		for j := i + 1; j < len(bookings); j++ {
			a, b := bookings[i], bookings[j]
			if a.RoomID != b.RoomID {
				continue
			}
			ok := !a.CheckOut.After(b.CheckIn) || !b.CheckOut.After(a.CheckIn)
			assert.True(t, ok, fmt.Sprintf("bookings %s [%s,%s) and %s [%s,%s) overlap",
				a.ID, a.CheckIn.Format("2006-01-02"), a.CheckOut.Format("2006-01-02"),
				b.ID, b.CheckIn.Format("2006-01-02"), b.CheckOut.Format("2006-01-02")))
		}
	}
}

func TestSetStatus_IdempotentTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	booking, err := f.svc.Submit(ctx, f.input("2024-03-01", "2024-03-04"))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		got, err := f.svc.SetStatus(ctx, f.admin, booking.ID, model.StatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, model.StatusConfirmed, got.Status)
	}

	stored, err := f.store.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, stored.Status)

	guest := f.notifier.to(booking.ID)
	require.Len(t, guest, 2, "one guest notification per call")
	assert.Equal(t, "Your booking for Deluxe Queen Room has been confirmed.", guest[0].message)
	assert.Equal(t, "/dashboard", guest[0].href)

	self := f.notifier.to("admin-1")
	require.Len(t, self, 2)
	assert.Equal(t, "You confirmed the booking for Ann Lee.", self[0].message)
}

func TestSetStatus_Authorization(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	booking, err := f.svc.Submit(ctx, f.input("2024-03-01", "2024-03-04"))
	require.NoError(t, err)

	guest := &session.Session{Role: model.RoleGuest, SubjectID: booking.ID}
	_, err = f.svc.SetStatus(ctx, guest, booking.ID, model.StatusConfirmed)
	assert.Equal(t, apperr.KindUnauthorized, appKind(err))

	_, err = f.svc.SetStatus(ctx, nil, booking.ID, model.StatusConfirmed)
	assert.Equal(t, apperr.KindUnauthorized, appKind(err))

	_, err = f.svc.SetStatus(ctx, f.admin, booking.ID, model.BookingStatus("Teleported"))
	assert.Equal(t, apperr.KindValidation, appKind(err))

	_, err = f.svc.SetStatus(ctx, f.admin, "missing", model.StatusConfirmed)
	assert.Equal(t, apperr.KindNotFound, appKind(err))
}

func TestSetStatus_ReactivationCannotDoubleBook(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.Submit(ctx, f.input("2024-04-01", "2024-04-05"))
	require.NoError(t, err)
	_, err = f.svc.SetStatus(ctx, f.admin, first.ID, model.StatusCancelled)
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, f.input("2024-04-03", "2024-04-06"))
	require.NoError(t, err)

	_, err = f.svc.SetStatus(ctx, f.admin, first.ID, model.StatusPending)
	assert.True(t, errors.Is(err, apperr.ErrRoomUnavailable))

	active, err := f.store.ListBookings(ctx, store.BookingFilter{Statuses: model.ActiveStatuses})
	require.NoError(t, err)
	assertNoOverlaps(t, active)
}

func TestCancelOwn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	mine, err := f.svc.Submit(ctx, f.input("2024-05-01", "2024-05-03"))
	require.NoError(t, err)
	other, err := f.svc.Submit(ctx, f.input("2024-05-10", "2024-05-12"))
	require.NoError(t, err)

	guest := &session.Session{Role: model.RoleGuest, SubjectID: mine.ID}

	_, err = f.svc.CancelOwn(ctx, guest, other.ID)
	assert.Equal(t, apperr.KindUnauthorized, appKind(err))
	_, err = f.svc.CancelOwn(ctx, f.admin, mine.ID)
	assert.Equal(t, apperr.KindUnauthorized, appKind(err))
	_, err = f.svc.CancelOwn(ctx, nil, mine.ID)
	assert.Equal(t, apperr.KindUnauthorized, appKind(err))

	before := len(f.notifier.to("*admins*"))
	_, err = f.svc.CancelOwn(ctx, guest, mine.ID)
	require.NoError(t, err)
	admins := f.notifier.to("*admins*")
	require.Len(t, admins, before+1)
	assert.Equal(t, "Guest Ann Lee cancelled their booking for Deluxe Queen Room.", admins[len(admins)-1].message)

	// Cancelling again is a no-op.
	_, err = f.svc.CancelOwn(ctx, guest, mine.ID)
	require.NoError(t, err)
	assert.Len(t, f.notifier.to("*admins*"), before+1)

	stillOther, err := f.store.GetBooking(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, stillOther.Status)
}

func TestQuote(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	q, err := f.svc.Quote(ctx, f.room.ID, "2024-03-01", "2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, 3, q.Nights)
	assert.Equal(t, 450.0, q.Total)
	assert.True(t, q.Available)

	_, err = f.svc.Submit(ctx, f.input("2024-03-02", "2024-03-03"))
	require.NoError(t, err)

	q, err = f.svc.Quote(ctx, f.room.ID, "2024-03-01", "2024-03-04")
	require.NoError(t, err)
	assert.False(t, q.Available)

	_, err = f.svc.Quote(ctx, f.room.ID, "2024-03-04", "2024-03-04")
	assert.Equal(t, apperr.KindValidation, appKind(err))
}

func TestForSession_GuestSeesOnlyOwnBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	mine, err := f.svc.Submit(ctx, f.input("2024-05-01", "2024-05-03"))
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, f.input("2024-05-10", "2024-05-12"))
	require.NoError(t, err)

	own, err := f.svc.ForSession(ctx, &session.Session{Role: model.RoleGuest, SubjectID: mine.ID})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, mine.ID, own[0].ID)

	all, err := f.svc.ForSession(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// A guest whose booking vanished sees nothing, not somebody else's stay.
	_, err = f.svc.ForSession(ctx, &session.Session{Role: model.RoleGuest, SubjectID: "gone"})
	assert.Equal(t, apperr.KindNotFound, appKind(err))
}

func TestSummarize(t *testing.T) {
	mk := func(status model.BookingStatus, checkIn string, total float64) model.Booking {
		in, _ := time.Parse("2006-01-02", checkIn)
		return model.Booking{Status: status, CheckIn: in, CheckOut: in.AddDate(0, 0, 1), Total: total}
	}
	bookings := []model.Booking{
		mk(model.StatusConfirmed, "2024-01-05", 100),
		mk(model.StatusConfirmed, "2024-01-20", 50),
		mk(model.StatusConfirmed, "2024-03-01", 200),
		mk(model.StatusConfirmed, "2023-03-01", 999),
		mk(model.StatusPending, "2024-03-01", 300),
		mk(model.StatusCancelled, "2024-03-01", 400),
	}

	stats := summarize(bookings, 2024)
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 4, stats.ByStatus[model.StatusConfirmed])
	assert.Equal(t, 1, stats.ByStatus[model.StatusPending])
	assert.Equal(t, 1, stats.ByStatus[model.StatusCancelled])
	assert.Equal(t, 1349.0, stats.TotalRevenue)
	require.Len(t, stats.RevenueByMonth, 12)
	assert.Equal(t, MonthRevenue{Month: "Jan", Revenue: 150}, stats.RevenueByMonth[0])
	assert.Equal(t, MonthRevenue{Month: "Mar", Revenue: 200}, stats.RevenueByMonth[2])
	assert.Len(t, stats.Recent, 5)
}

func TestRoomLocks_ReleaseEntries(t *testing.T) {
	locks := newRoomLocks()
	unlock := locks.Lock("r1")
	unlock()
	assert.Empty(t, locks.locks)
}

type failingNotifier struct{}

func (failingNotifier) Notify(ctx context.Context, userID, message, href string) error {
	return errors.New("notifications table unavailable")
}

func (failingNotifier) NotifyAllAdmins(ctx context.Context, message, href string) error {
	return errors.New("notifications table unavailable")
}

func TestNotificationFailureDoesNotUndoWrites(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.svc.notifier = failingNotifier{}

	b, err := f.svc.Submit(ctx, f.input("2024-09-01", "2024-09-03"))
	require.NoError(t, err)
	assert.Equal(t, 1, f.countBookings(t))

	confirmed, err := f.svc.SetStatus(ctx, f.admin, b.ID, model.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, confirmed.Status)

	guest := &session.Session{Role: model.RoleGuest, SubjectID: b.ID}
	cancelled, err := f.svc.CancelOwn(ctx, guest, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
}
