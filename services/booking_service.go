// services/booking_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"hotel-manager/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const notifyTimeout = 10 * time.Second

var validate = validator.New()

// BookingService owns the booking lifecycle and keeps the held room in step with it.
type BookingService struct {
	DB       *gorm.DB
	Notifier Notifier

	pending sync.WaitGroup
}

func NewBookingService(db *gorm.DB, notifier Notifier) *BookingService {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &BookingService{DB: db, Notifier: notifier}
}

type BookingInput struct {
	GuestName  string
	GuestEmail string
	RoomID     uint
	CheckIn    time.Time
	CheckOut   time.Time
}

func (in BookingInput) validate() error {
	if strings.TrimSpace(in.GuestName) == "" {
		return invalid("guest_name", "guest name is required")
	}
	if err := validate.Var(strings.TrimSpace(in.GuestEmail), "required,email"); err != nil {
		return invalid("guest_email", "a valid guest email is required")
	}
	if in.RoomID == 0 {
		return invalid("room_id", "room is required")
	}
	if in.CheckIn.IsZero() || in.CheckOut.IsZero() {
		return invalid("check_in", "check-in and check-out dates are required")
	}
	if models.Nights(in.CheckIn, in.CheckOut) <= 0 {
		return invalid("check_out", "check-out must be after check-in")
	}
	return nil
}

// lockRoom loads a room with a row lock where the dialect supports one.
func lockRoom(tx *gorm.DB, room *models.Room, id uint) error {
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(room, id).Error; err != nil {
		return notFoundOr(err, "room", id)
	}
	return nil
}

func lockBooking(tx *gorm.DB, booking *models.Booking, id uint) error {
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(booking, id).Error; err != nil {
		return notFoundOr(err, "booking", id)
	}
	return nil
}

func dateOnly(t time.Time) datatypes.Date {
	return datatypes.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
}

// Create books a guest into an Available room. The booking insert and the
// room status change commit together; the confirmation is sent afterwards.
func (s *BookingService) Create(ctx context.Context, in BookingInput) (*models.Booking, error) {
	in.GuestName = strings.TrimSpace(in.GuestName)
	in.GuestEmail = strings.TrimSpace(in.GuestEmail)
	if err := in.validate(); err != nil {
		return nil, err
	}

	var booking models.Booking
	var room models.Room
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoom(tx, &room, in.RoomID); err != nil {
			return err
		}
		if room.Status != models.RoomAvailable || room.ActiveBookingID != nil {
			return conflict("room %s is not available (status %s)", room.Number, room.Status)
		}

		nights := models.Nights(in.CheckIn, in.CheckOut)
		booking = models.Booking{
			GuestName:   in.GuestName,
			GuestEmail:  in.GuestEmail,
			RoomID:      room.ID,
			CheckIn:     dateOnly(in.CheckIn),
			CheckOut:    dateOnly(in.CheckOut),
			TotalAmount: room.PricePerNight * float64(nights),
			Status:      models.BookingBooked,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		if err := tx.Model(&room).Updates(map[string]interface{}{
			"status":            models.RoomOccupied,
			"active_booking_id": booking.ID,
		}).Error; err != nil {
			return fmt.Errorf("occupy room %d: %w", room.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	room.Status = models.RoomOccupied
	room.ActiveBookingID = &booking.ID
	booking.Room = &room

	s.dispatch(ctx, NewBookingConfirmedEvent(booking, room))
	return &booking, nil
}

// CheckIn moves a Booked booking to Checked In. Any other status is left as is.
func (s *BookingService) CheckIn(ctx context.Context, id uint) (*models.Booking, bool, error) {
	var booking models.Booking
	changed := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBooking(tx, &booking, id); err != nil {
			return err
		}
		if booking.Status != models.BookingBooked {
			return nil
		}
		if err := tx.Model(&booking).Update("status", models.BookingCheckedIn).Error; err != nil {
			return fmt.Errorf("check in booking %d: %w", id, err)
		}
		booking.Status = models.BookingCheckedIn
		changed = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &booking, changed, nil
}

// CheckOut closes an active booking and releases its room in one transaction.
// A booking that is already Checked Out is returned unchanged.
func (s *BookingService) CheckOut(ctx context.Context, id uint) (*models.Booking, bool, error) {
	var booking models.Booking
	changed := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBooking(tx, &booking, id); err != nil {
			return err
		}
		if !booking.Status.Active() {
			return nil
		}
		if err := tx.Model(&booking).Update("status", models.BookingCheckedOut).Error; err != nil {
			return fmt.Errorf("check out booking %d: %w", id, err)
		}
		booking.Status = models.BookingCheckedOut

		res := tx.Model(&models.Room{}).Where("id = ?", booking.RoomID).Updates(map[string]interface{}{
			"status":            models.RoomAvailable,
			"active_booking_id": nil,
		})
		if res.Error != nil {
			return fmt.Errorf("release room %d: %w", booking.RoomID, res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("room", booking.RoomID)
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &booking, changed, nil
}

func (s *BookingService) Get(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.WithContext(ctx).Preload("Room").First(&booking, id).Error; err != nil {
		return nil, notFoundOr(err, "booking", id)
	}
	return &booking, nil
}

// List returns bookings whose guest name or email contains query, case-sensitively.
// The match runs in Go because LIKE folds case under the usual MySQL collations.
func (s *BookingService) List(ctx context.Context, query string) ([]models.Booking, error) {
	var all []models.Booking
	if err := s.DB.WithContext(ctx).Preload("Room").Order("id").Find(&all).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if query == "" {
		return all, nil
	}
	out := make([]models.Booking, 0, len(all))
	for _, b := range all {
		if strings.Contains(b.GuestName, query) || strings.Contains(b.GuestEmail, query) {
			out = append(out, b)
		}
	}
	return out, nil
}

// dispatch hands the confirmation to the notifier without blocking the caller.
// Delivery failures are logged and never affect the booking.
func (s *BookingService) dispatch(ctx context.Context, event BookingConfirmedEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := s.Notifier.Notify(nctx, event); err != nil {
			log.Printf("warning: booking %d confirmation to %s failed: %v", event.BookingID, event.GuestEmail, err)
		}
	}()
}

// Wait blocks until in-flight confirmations have been handed off.
func (s *BookingService) Wait() {
	s.pending.Wait()
}
