package models

import (
	"time"
)

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "Available"
	RoomOccupied    RoomStatus = "Occupied"
	RoomMaintenance RoomStatus = "Maintenance"
)

const DefaultRoomImage = "default.jpg"

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomMaintenance:
		return true
	}
	return false
}

type Room struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Number        string     `gorm:"column:number;uniqueIndex;size:10;not null" json:"number"`
	RoomType      string     `gorm:"column:room_type;size:50;not null" json:"room_type"`
	PricePerNight float64    `gorm:"column:price_per_night;not null" json:"price_per_night"`
	Status        RoomStatus `gorm:"column:status;size:20;default:Available" json:"status"`
	ImageFile     string     `gorm:"column:image_file;size:100;default:default.jpg" json:"image_file"`

	// ActiveBookingID points at the booking that currently holds the room.
	// Only the booking lifecycle writes it.
	ActiveBookingID *uint `gorm:"column:active_booking_id" json:"active_booking_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
