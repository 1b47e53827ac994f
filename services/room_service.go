package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"hotel-manager/models"

	"gorm.io/gorm"
)

// maxRoomNumberLen is counted in characters, matching the column size.
const maxRoomNumberLen = 10

type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

type RoomInput struct {
	Number        string
	RoomType      string
	PricePerNight float64
	Status        models.RoomStatus
	ImageFile     string
}

// RoomUpdate carries the fields of an edit; nil fields are left alone.
type RoomUpdate struct {
	Number        *string
	RoomType      *string
	PricePerNight *float64
	Status        *models.RoomStatus
}

func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.WithContext(ctx).Order("id").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func (s *RoomService) ListAvailable(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.WithContext(ctx).
		Where("status = ?", models.RoomAvailable).
		Order("id").
		Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list available rooms: %w", err)
	}
	return rooms, nil
}

func (s *RoomService) Get(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, notFoundOr(err, "room", id)
	}
	return &room, nil
}

func (s *RoomService) Create(ctx context.Context, in RoomInput) (*models.Room, error) {
	number := strings.TrimSpace(in.Number)
	roomType := strings.TrimSpace(in.RoomType)
	if number == "" {
		return nil, invalid("number", "room number is required")
	}
	if utf8.RuneCountInString(number) > maxRoomNumberLen {
		return nil, invalid("number", "room number must be at most 10 characters")
	}
	if roomType == "" {
		return nil, invalid("room_type", "room type is required")
	}
	if in.PricePerNight <= 0 {
		return nil, invalid("price_per_night", "price must be positive")
	}

	status := in.Status
	if status == "" {
		status = models.RoomAvailable
	}
	if !status.Valid() {
		return nil, invalid("status", "unknown room status")
	}
	// Occupied only ever comes from a booking.
	if status == models.RoomOccupied {
		return nil, invalid("status", "a room becomes Occupied only through a booking")
	}

	image := strings.TrimSpace(in.ImageFile)
	if image == "" {
		image = models.DefaultRoomImage
	}

	room := models.Room{
		Number:        number,
		RoomType:      roomType,
		PricePerNight: in.PricePerNight,
		Status:        status,
		ImageFile:     image,
	}
	if err := s.DB.WithContext(ctx).Create(&room).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, conflict("room number '%s' already exists", number)
		}
		return nil, fmt.Errorf("create room: %w", err)
	}
	return &room, nil
}

func (s *RoomService) Update(ctx context.Context, id uint, in RoomUpdate) (*models.Room, error) {
	var room models.Room
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoom(tx, &room, id); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if in.Number != nil {
			number := strings.TrimSpace(*in.Number)
			if number == "" {
				return invalid("number", "room number is required")
			}
			if utf8.RuneCountInString(number) > maxRoomNumberLen {
				return invalid("number", "room number must be at most 10 characters")
			}
			updates["number"] = number
		}
		if in.RoomType != nil {
			roomType := strings.TrimSpace(*in.RoomType)
			if roomType == "" {
				return invalid("room_type", "room type is required")
			}
			updates["room_type"] = roomType
		}
		if in.PricePerNight != nil {
			if *in.PricePerNight <= 0 {
				return invalid("price_per_night", "price must be positive")
			}
			updates["price_per_night"] = *in.PricePerNight
		}
		if in.Status != nil && *in.Status != room.Status {
			status := *in.Status
			if !status.Valid() {
				return invalid("status", "unknown room status")
			}
			if status == models.RoomOccupied {
				return invalid("status", "a room becomes Occupied only through a booking")
			}
			if room.ActiveBookingID != nil {
				return conflict("room %s is held by booking %d; check the guest out first", room.Number, *room.ActiveBookingID)
			}
			updates["status"] = status
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&room).Updates(updates).Error; err != nil {
			if isDuplicateKey(err) {
				return conflict("room number '%s' already exists", updates["number"])
			}
			return fmt.Errorf("update room %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a room. Any booking that references it, in any status, blocks the delete.
func (s *RoomService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := lockRoom(tx, &room, id); err != nil {
			return err
		}

		var refs int64
		if err := tx.Model(&models.Booking{}).Where("room_id = ?", id).Count(&refs).Error; err != nil {
			return fmt.Errorf("count bookings for room %d: %w", id, err)
		}
		if refs > 0 {
			return conflict("room %s has %d booking(s) and cannot be deleted", room.Number, refs)
		}

		if err := tx.Delete(&room).Error; err != nil {
			return fmt.Errorf("delete room %d: %w", id, err)
		}
		return nil
	})
}
