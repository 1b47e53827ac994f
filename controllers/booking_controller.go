package controllers

import (
	"fmt"
	"net/http"
	"time"

	"hotel-manager/models"
	"hotel-manager/services"
	"hotel-manager/utils"

	"github.com/gin-gonic/gin"
)

type createBookingPayload struct {
	GuestName  string `json:"guest_name" binding:"required,max=100"`
	GuestEmail string `json:"guest_email" binding:"required,email,max=100"`
	RoomID     uint   `json:"room_id" binding:"required"`
	CheckIn    string `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut   string `json:"check_out" binding:"required,datetime=2006-01-02"`
}

// stay parses the check-in and check-out dates.
func (p createBookingPayload) stay() (time.Time, time.Time, error) {
	checkIn, err := time.Parse(models.DateLayout, p.CheckIn)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("check_in: %w", err)
	}
	checkOut, err := time.Parse(models.DateLayout, p.CheckOut)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("check_out: %w", err)
	}
	return checkIn, checkOut, nil
}

type BookingController struct {
	Bookings *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{Bookings: svc}
}

// GET /api/bookings?search=
func (ctrl *BookingController) GetBookings(c *gin.Context) {
	list, err := ctrl.Bookings.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (ctrl *BookingController) GetBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b, err := ctrl.Bookings.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var p createBookingPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		respondBindError(c, err)
		return
	}
	checkIn, checkOut, err := p.stay()
	if err != nil {
		respondBindError(c, err)
		return
	}

	b, err := ctrl.Bookings.Create(c.Request.Context(), services.BookingInput{
		GuestName:  p.GuestName,
		GuestEmail: p.GuestEmail,
		RoomID:     p.RoomID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusCreated, "Booked! Email sent.", b)
}

// POST /api/bookings/:id/checkin (no-op unless the booking is Booked)
func (ctrl *BookingController) CheckIn(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b, changed, err := ctrl.Bookings.CheckIn(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	msg := "Checked in!"
	if !changed {
		msg = fmt.Sprintf("Booking is %s; nothing to do.", b.Status)
	}
	utils.JSONMessage(c, http.StatusOK, msg, b)
}

// POST /api/bookings/:id/checkout releases the room. No-op once Checked Out.
func (ctrl *BookingController) CheckOut(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b, changed, err := ctrl.Bookings.CheckOut(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	msg := fmt.Sprintf("Checked out! Total: $%.2f", b.TotalAmount)
	if !changed {
		msg = fmt.Sprintf("Booking is %s; nothing to do.", b.Status)
	}
	utils.JSONMessage(c, http.StatusOK, msg, b)
}
