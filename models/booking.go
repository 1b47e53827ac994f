package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type BookingStatus string

const (
	BookingBooked     BookingStatus = "Booked"
	BookingCheckedIn  BookingStatus = "Checked In"
	BookingCheckedOut BookingStatus = "Checked Out"
)

// Active reports whether the booking still holds its room.
func (s BookingStatus) Active() bool {
	return s == BookingBooked || s == BookingCheckedIn
}

const DateLayout = "2006-01-02"

type Booking struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	GuestName   string         `gorm:"column:guest_name;size:100;not null" json:"guest_name"`
	GuestEmail  string         `gorm:"column:guest_email;size:100;not null" json:"guest_email"`
	RoomID      uint           `gorm:"column:room_id;index;not null" json:"room_id"`
	CheckIn     datatypes.Date `gorm:"column:check_in;not null" json:"-"`
	CheckOut    datatypes.Date `gorm:"column:check_out;not null" json:"-"`
	TotalAmount float64        `gorm:"column:total_amount;not null" json:"total_amount"`
	Status      BookingStatus  `gorm:"column:status;size:20;default:Booked" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Room *Room `gorm:"foreignKey:RoomID;references:ID;constraint:OnDelete:RESTRICT" json:"room,omitempty"`
}

// Nights is the whole-day count between check-in and check-out.
func Nights(checkIn, checkOut time.Time) int {
	ci := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	co := time.Date(checkOut.Year(), checkOut.Month(), checkOut.Day(), 0, 0, 0, 0, time.UTC)
	return int((co.Unix() - ci.Unix()) / 86400)
}

func (b Booking) CheckInString() string {
	return time.Time(b.CheckIn).Format(DateLayout)
}

func (b Booking) CheckOutString() string {
	return time.Time(b.CheckOut).Format(DateLayout)
}

func (b Booking) Nights() int {
	return Nights(time.Time(b.CheckIn), time.Time(b.CheckOut))
}

// MarshalJSON renders the stay dates as plain calendar dates.
func (b Booking) MarshalJSON() ([]byte, error) {
	type alias Booking
	return json.Marshal(struct {
		alias
		CheckIn  string `json:"check_in"`
		CheckOut string `json:"check_out"`
		Nights   int    `json:"nights"`
	}{
		alias:    alias(b),
		CheckIn:  b.CheckInString(),
		CheckOut: b.CheckOutString(),
		Nights:   b.Nights(),
	})
}
