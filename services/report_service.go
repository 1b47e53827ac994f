package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"hotel-manager/models"

	"gorm.io/gorm"
)

// ReportService holds the read-only projections: the dashboard and the CSV export.
type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

type Dashboard struct {
	TotalRooms       int64    `json:"total_rooms"`
	AvailableRooms   int64    `json:"available_rooms"`
	Occupancy        float64  `json:"occupancy"`
	UpcomingCheckIns []string `json:"upcoming_check_ins"`
}

const upcomingCheckInLimit = 7

// Occupancy is the percentage of rooms that are not Available.
func Occupancy(total, available int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(total-available) / float64(total) * 100
}

func (s *ReportService) Dashboard(ctx context.Context) (*Dashboard, error) {
	db := s.DB.WithContext(ctx)
	var d Dashboard
	if err := db.Model(&models.Room{}).Count(&d.TotalRooms).Error; err != nil {
		return nil, fmt.Errorf("count rooms: %w", err)
	}
	if err := db.Model(&models.Room{}).Where("status = ?", models.RoomAvailable).Count(&d.AvailableRooms).Error; err != nil {
		return nil, fmt.Errorf("count available rooms: %w", err)
	}
	d.Occupancy = Occupancy(d.TotalRooms, d.AvailableRooms)

	var booked []models.Booking
	if err := db.Where("status = ?", models.BookingBooked).
		Order("check_in").
		Limit(upcomingCheckInLimit).
		Find(&booked).Error; err != nil {
		return nil, fmt.Errorf("load upcoming check-ins: %w", err)
	}
	d.UpcomingCheckIns = make([]string, 0, len(booked))
	for _, b := range booked {
		d.UpcomingCheckIns = append(d.UpcomingCheckIns, b.CheckInString())
	}
	return &d, nil
}

var ExportHeader = []string{"ID", "Guest", "Email", "Room", "Check-in", "Check-out", "Total", "Status"}

// ExportBookings writes every booking as CSV, header first, in insertion order.
func (s *ReportService) ExportBookings(ctx context.Context, w io.Writer) (int, error) {
	var bookings []models.Booking
	if err := s.DB.WithContext(ctx).Preload("Room").Order("id").Find(&bookings).Error; err != nil {
		return 0, fmt.Errorf("load bookings: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return 0, err
	}
	for _, b := range bookings {
		room := ""
		if b.Room != nil {
			room = b.Room.Number
		}
		if err := cw.Write([]string{
			strconv.FormatUint(uint64(b.ID), 10),
			b.GuestName,
			b.GuestEmail,
			room,
			b.CheckInString(),
			b.CheckOutString(),
			strconv.FormatFloat(b.TotalAmount, 'f', 2, 64),
			string(b.Status),
		}); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	return len(bookings), cw.Error()
}
