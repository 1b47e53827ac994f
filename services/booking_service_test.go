package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"hotel-manager/models"
)

func newBookingFixture(t *testing.T) (*RoomService, *BookingService, *recordingNotifier) {
	t.Helper()
	db := newTestDB(t)
	n := newRecordingNotifier()
	return NewRoomService(db), NewBookingService(db, n), n
}

func TestCreateBookingOccupiesRoom(t *testing.T) {
	ctx := context.Background()
	rooms, bookings, notes := newBookingFixture(t)
	room := mustRoom(t, rooms, "101", 100.0)

	b, err := bookings.Create(ctx, BookingInput{
		GuestName:  "Alice",
		GuestEmail: "alice@x.com",
		RoomID:     room.ID,
		CheckIn:    day("2024-01-01"),
		CheckOut:   day("2024-01-04"),
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if b.TotalAmount != 300.0 {
		t.Errorf("total = %v, want 300", b.TotalAmount)
	}
	if b.Status != models.BookingBooked {
		t.Errorf("status = %q, want Booked", b.Status)
	}

	got, err := rooms.Get(ctx, room.ID)
	if err != nil {
		t.Fatalf("get room: %v", err)
	}
	if got.Status != models.RoomOccupied {
		t.Errorf("room status = %q, want Occupied", got.Status)
	}
	if got.ActiveBookingID == nil || *got.ActiveBookingID != b.ID {
		t.Errorf("active booking = %v, want %d", got.ActiveBookingID, b.ID)
	}

	bookings.Wait()
	select {
	case e := <-notes.events:
		if e.GuestEmail != "alice@x.com" || e.BookingID != b.ID || e.RoomNumber != "101" {
			t.Errorf("unexpected confirmation %+v", e)
		}
		if e.CheckIn != "2024-01-01" || e.CheckOut != "2024-01-04" || e.Nights != 3 {
			t.Errorf("unexpected stay in confirmation %+v", e)
		}
	default:
		t.Error("no confirmation dispatched")
	}
}

func TestCheckOutReleasesRoomAndKeepsTotal(t *testing.T) {
	ctx := context.Background()
	rooms, bookings, _ := newBookingFixture(t)
	room := mustRoom(t, rooms, "101", 100.0)

	b, err := bookings.Create(ctx, BookingInput{
		GuestName: "Alice", GuestEmail: "alice@x.com", RoomID: room.ID,
		CheckIn: day("2024-01-01"), CheckOut: day("2024-01-04"),
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	out, changed, err := bookings.CheckOut(ctx, b.ID)
	if err != nil {
		t.Fatalf("check out: %v", err)
	}
	if !changed {
		t.Error("check out reported no change")
	}
	if out.Status != models.BookingCheckedOut {
		t.Errorf("status = %q, want Checked Out", out.Status)
	}
	if out.TotalAmount != 300.0 {
		t.Errorf("total = %v, want 300", out.TotalAmount)
	}

	got, _ := rooms.Get(ctx, room.ID)
	if got.Status != models.RoomAvailable {
		t.Errorf("room status = %q, want Available", got.Status)
	}
	if got.ActiveBookingID != nil {
		t.Errorf("active booking = %d, want none", *got.ActiveBookingID)
	}

	// a second check-out changes nothing
	again, changed, err := bookings.CheckOut(ctx, b.ID)
	if err != nil {
		t.Fatalf("second check out: %v", err)
	}
	if changed || again.Status != models.BookingCheckedOut {
		t.Errorf("second check out changed=%v status=%q", changed, again.Status)
	}
}

func TestCheckInOnlyFromBooked(t *testing.T) {
	ctx := context.Background()
	rooms, bookings, _ := newBookingFixture(t)
	room := mustRoom(t, rooms, "101", 80)

	b, err := bookings.Create(ctx, BookingInput{
		GuestName: "Bob", GuestEmail: "bob@x.com", RoomID: room.ID,
		CheckIn: day("2024-02-01"), CheckOut: day("2024-02-02"),
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	in, changed, err := bookings.CheckIn(ctx, b.ID)
	if err != nil || !changed || in.Status != models.BookingCheckedIn {
		t.Fatalf("check in: status=%q changed=%v err=%v", in.Status, changed, err)
	}

	again, changed, err := bookings.CheckIn(ctx, b.ID)
	if err != nil {
		t.Fatalf("repeat check in: %v", err)
	}
	if changed || again.Status != models.BookingCheckedIn {
		t.Errorf("repeat check in changed=%v status=%q", changed, again.Status)
	}

	if _, _, err := bookings.CheckOut(ctx, b.ID); err != nil {
		t.Fatalf("check out: %v", err)
	}
	after, changed, err := bookings.CheckIn(ctx, b.ID)
	if err != nil {
		t.Fatalf("check in after check out: %v", err)
	}
	if changed || after.Status != models.BookingCheckedOut {
		t.Errorf("check in after check out changed=%v status=%q", changed, after.Status)
	}
}

func TestTotalIgnoresLaterPriceChanges(t *testing.T) {
	ctx := context.Background()
	rooms, bookings, _ := newBookingFixture(t)
	room := mustRoom(t, rooms, "201", 250)

	b, err := bookings.Create(ctx, BookingInput{
		GuestName: "Carol", GuestEmail: "carol@x.com", RoomID: room.ID,
		CheckIn: day("2024-03-10"), CheckOut: day("2024-03-12"),
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	price := 999.0
	if _, err := rooms.Update(ctx, room.ID, RoomUpdate{PricePerNight: &price}); err != nil {
		t.Fatalf("update price: %v", err)
	}

	got, err := bookings.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if got.TotalAmount != 500 {
		t.Errorf("total = %v, want 500", got.TotalAmount)
	}
	if got.Room == nil || got.Room.PricePerNight != 999 {
		t.Errorf("room not preloaded with new price: %+v", got.Room)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	ctx := context.Background()
	rooms, bookings, _ := newBookingFixture(t)
	room := mustRoom(t, rooms, "101", 100)

	cases := map[string]BookingInput{
		"same day":        {GuestName: "A", GuestEmail: "a@x.com", RoomID: room.ID, CheckIn: day("2024-01-02"), CheckOut: day("2024-01-02")},
		"reversed dates":  {GuestName: "A", GuestEmail: "a@x.com", RoomID: room.ID, CheckIn: day("2024-01-05"), CheckOut: day("2024-01-02")},
		"missing name":    {GuestName: "  ", GuestEmail: "a@x.com", RoomID: room.ID, CheckIn: day("2024-01-01"), CheckOut: day("2024-01-02")},
		"bad email":       {GuestName: "A", GuestEmail: "not-an-email", RoomID: room.ID, CheckIn: day("2024-01-01"), CheckOut: day("2024-01-02")},
		"missing room id": {GuestName: "A", GuestEmail: "a@x.com", CheckIn: day("2024-01-01"), CheckOut: day("2024-01-02")},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := bookings.Create(ctx, in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}

	got, _ := rooms.Get(ctx, room.ID)
	if got.Status != models.RoomAvailable {
		t.Errorf("room status = %q after rejected bookings", got.Status)
	}
}

func TestCreateBookingRejectsUnavailableRoom(t *testing.T) {
	ctx := context.Background()
	rooms, bookings, _ := newBookingFixture(t)

	_, err := bookings.Create(ctx, BookingInput{
		GuestName: "A", GuestEmail: "a@x.com", RoomID: 42,
		CheckIn: day("2024-01-01"), CheckOut: day("2024-01-02"),
	})
	var nerr *NotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("missing room: err = %v, want NotFoundError", err)
	}

	maint, err := rooms.Create(ctx, RoomInput{Number: "301", RoomType: "Suite", PricePerNight: 300, Status: models.RoomMaintenance})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	_, err = bookings.Create(ctx, BookingInput{
		GuestName: "A", GuestEmail: "a@x.com", RoomID: maint.ID,
		CheckIn: day("2024-01-01"), CheckOut: day("2024-01-02"),
	})
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("maintenance room: err = %v, want ConflictError", err)
	}
}

func TestConcurrentBookingsHoldRoomOnce(t *testing.T) {
	ctx := context.Background()
	rooms, bookings, _ := newBookingFixture(t)
	room := mustRoom(t, rooms, "101", 100)

	const callers = 4
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := bookings.Create(ctx, BookingInput{
				GuestName: "Guest", GuestEmail: "guest@x.com", RoomID: room.ID,
				CheckIn: day("2024-05-01"), CheckOut: day("2024-05-03"),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		var cerr *ConflictError
		switch {
		case err == nil:
			ok++
		case errors.As(err, &cerr):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("%d bookings succeeded, want exactly 1", ok)
	}
}

func TestListBookingsSearch(t *testing.T) {
	ctx := context.Background()
	rooms, bookings, _ := newBookingFixture(t)
	r1 := mustRoom(t, rooms, "101", 100)
	r2 := mustRoom(t, rooms, "102", 150)

	for _, in := range []BookingInput{
		{GuestName: "Alice", GuestEmail: "alice@x.com", RoomID: r1.ID, CheckIn: day("2024-01-01"), CheckOut: day("2024-01-02")},
		{GuestName: "Bob", GuestEmail: "bob@example.org", RoomID: r2.ID, CheckIn: day("2024-01-01"), CheckOut: day("2024-01-03")},
	} {
		if _, err := bookings.Create(ctx, in); err != nil {
			t.Fatalf("create booking: %v", err)
		}
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Alice", "Bob"}},
		{"Ali", []string{"Alice"}},
		{"ali", []string{"Alice"}}, // matches the email, not the name
		{"ALICE", nil},
		{"example.org", []string{"Bob"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		got, err := bookings.List(ctx, tt.query)
		if err != nil {
			t.Fatalf("list %q: %v", tt.query, err)
		}
		if len(got) != len(tt.want) {
			t.Errorf("list %q returned %d bookings, want %d", tt.query, len(got), len(tt.want))
			continue
		}
		for i, b := range got {
			if b.GuestName != tt.want[i] {
				t.Errorf("list %q [%d] = %q, want %q", tt.query, i, b.GuestName, tt.want[i])
			}
		}
	}
}

func TestNotifierFailureDoesNotFailBooking(t *testing.T) {
	db := newTestDB(t)
	n := newRecordingNotifier()
	n.err = errors.New("smtp down")
	rooms := NewRoomService(db)
	bookings := NewBookingService(db, n)
	room := mustRoom(t, rooms, "101", 100)

	if _, err := bookings.Create(context.Background(), BookingInput{
		GuestName: "A", GuestEmail: "a@x.com", RoomID: room.ID,
		CheckIn: day("2024-01-01"), CheckOut: day("2024-01-02"),
	}); err != nil {
		t.Fatalf("create booking: %v", err)
	}
	bookings.Wait()
	if len(n.events) != 1 {
		t.Errorf("notifier called %d times, want 1", len(n.events))
	}
}

func TestBookingNotFound(t *testing.T) {
	_, bookings, _ := newBookingFixture(t)
	ctx := context.Background()

	var nerr *NotFoundError
	if _, _, err := bookings.CheckIn(ctx, 7); !errors.As(err, &nerr) {
		t.Errorf("check in: err = %v, want NotFoundError", err)
	}
	if _, _, err := bookings.CheckOut(ctx, 7); !errors.As(err, &nerr) {
		t.Errorf("check out: err = %v, want NotFoundError", err)
	}
	if _, err := bookings.Get(ctx, 7); !errors.As(err, &nerr) {
		t.Errorf("get: err = %v, want NotFoundError", err)
	}
}

// blockRoomStatus makes any UPDATE that sets rooms.status to status fail.
func blockRoomStatus(t *testing.T, bookings *BookingService, status models.RoomStatus) {
	t.Helper()
	sql := fmt.Sprintf(`CREATE TRIGGER block_room_%s BEFORE UPDATE ON rooms
WHEN NEW.status = '%s'
BEGIN SELECT RAISE(ABORT, 'room update blocked'); END;`, strings.ToLower(string(status)), status)
	if err := bookings.DB.Exec(sql).Error; err != nil {
		t.Fatalf("install trigger: %v", err)
	}
}

func TestCreateBookingRollsBackWhenRoomUpdateFails(t *testing.T) {
	ctx := context.Background()
	rooms, bookings, _ := newBookingFixture(t)
	room := mustRoom(t, rooms, "101", 100.0)
	blockRoomStatus(t, bookings, models.RoomOccupied)

	if _, err := bookings.Create(ctx, BookingInput{
		GuestName: "Alice", GuestEmail: "alice@x.com", RoomID: room.ID,
		CheckIn: day("2024-01-01"), CheckOut: day("2024-01-04"),
	}); err == nil {
		t.Fatal("create succeeded with the room update blocked")
	}
	bookings.Wait()

	var n int64
	if err := bookings.DB.Model(&models.Booking{}).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("%d bookings persisted, want 0", n)
	}
	got, err := rooms.Get(ctx, room.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.RoomAvailable || got.ActiveBookingID != nil {
		t.Errorf("room = %s / %v, want Available with no booking", got.Status, got.ActiveBookingID)
	}
}

func TestCheckOutRollsBackWhenRoomUpdateFails(t *testing.T) {
	ctx := context.Background()
	rooms, bookings, _ := newBookingFixture(t)
	room := mustRoom(t, rooms, "101", 100.0)

	b, err := bookings.Create(ctx, BookingInput{
		GuestName: "Alice", GuestEmail: "alice@x.com", RoomID: room.ID,
		CheckIn: day("2024-01-01"), CheckOut: day("2024-01-04"),
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	bookings.Wait()
	blockRoomStatus(t, bookings, models.RoomAvailable)

	if _, _, err := bookings.CheckOut(ctx, b.ID); err == nil {
		t.Fatal("check-out succeeded with the room update blocked")
	}

	got, err := bookings.Get(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.BookingBooked {
		t.Errorf("booking status = %q, want Booked", got.Status)
	}
	if got.Room == nil || got.Room.Status != models.RoomOccupied || got.Room.ActiveBookingID == nil {
		t.Errorf("room = %+v, want still Occupied by the booking", got.Room)
	}
}
