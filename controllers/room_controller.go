package controllers

import (
	"fmt"
	"net/http"

	"hotel-manager/models"
	"hotel-manager/services"
	"hotel-manager/utils"

	"github.com/gin-gonic/gin"
)

type createRoomPayload struct {
	Number        string  `json:"number" binding:"required,max=10"`
	RoomType      string  `json:"room_type" binding:"required,max=50"`
	PricePerNight float64 `json:"price_per_night" binding:"required,gt=0"`
	Status        string  `json:"status" binding:"omitempty,roomstatus"`
	ImageFile     string  `json:"image_file" binding:"omitempty,max=100"`
}

type updateRoomPayload struct {
	Number        *string  `json:"number" binding:"omitempty,max=10"`
	RoomType      *string  `json:"room_type" binding:"omitempty,max=50"`
	PricePerNight *float64 `json:"price_per_night" binding:"omitempty,gt=0"`
	Status        *string  `json:"status" binding:"omitempty,roomstatus"`
}

type RoomController struct {
	Rooms *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{Rooms: svc}
}

// GET /api/rooms (?available=true limits the list to bookable rooms)
func (ctrl *RoomController) GetRooms(c *gin.Context) {
	var (
		rooms []models.Room
		err   error
	)
	if c.Query("available") == "true" {
		rooms, err = ctrl.Rooms.ListAvailable(c.Request.Context())
	} else {
		rooms, err = ctrl.Rooms.List(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (ctrl *RoomController) GetRoom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	room, err := ctrl.Rooms.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var p createRoomPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		respondBindError(c, err)
		return
	}
	room, err := ctrl.Rooms.Create(c.Request.Context(), services.RoomInput{
		Number:        p.Number,
		RoomType:      p.RoomType,
		PricePerNight: p.PricePerNight,
		Status:        models.RoomStatus(p.Status),
		ImageFile:     p.ImageFile,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusCreated, "Room added!", room)
}

func (ctrl *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var p updateRoomPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		respondBindError(c, err)
		return
	}

	in := services.RoomUpdate{
		Number:        p.Number,
		RoomType:      p.RoomType,
		PricePerNight: p.PricePerNight,
	}
	if p.Status != nil {
		st := models.RoomStatus(*p.Status)
		in.Status = &st
	}

	room, err := ctrl.Rooms.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Updated!", room)
}

func (ctrl *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctrl.Rooms.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, fmt.Sprintf("Room %d deleted.", id), nil)
}
