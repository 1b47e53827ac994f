package config

import (
	"fmt"
	"log"

	"hotel-manager/models"
	"hotel-manager/utils"

	"gorm.io/gorm"
)

var defaultRooms = []models.Room{
	{Number: "101", RoomType: "Single", PricePerNight: 100.0},
	{Number: "102", RoomType: "Double", PricePerNight: 150.0},
	{Number: "201", RoomType: "Suite", PricePerNight: 250.0},
}

// SeedDatabase creates the admin account and the default rooms when they are missing.
// Running it again changes nothing.
func SeedDatabase(db *gorm.DB, cfg Config) error {
	// ---------------- Admin ----------------
	var adminCount int64
	if err := db.Model(&models.User{}).Where("username = ?", cfg.AdminUsername).Count(&adminCount).Error; err != nil {
		return fmt.Errorf("count admin: %w", err)
	}
	if adminCount == 0 {
		hash, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
		if err != nil {
			return fmt.Errorf("hash default admin password: %w", err)
		}
		admin := models.User{
			Username:     cfg.AdminUsername,
			Email:        cfg.AdminEmail,
			PasswordHash: hash,
			IsAdmin:      true,
		}
		if err := db.Create(&admin).Error; err != nil {
			return fmt.Errorf("create default admin: %w", err)
		}
		log.Println("Default admin seeded")
	}

	// ---------------- Rooms ----------------
	var roomCount int64
	if err := db.Model(&models.Room{}).Count(&roomCount).Error; err != nil {
		return fmt.Errorf("count rooms: %w", err)
	}
	if roomCount == 0 {
		if cfg.UploadDir != "" {
			if _, err := utils.EnsureDefaultImage(cfg.UploadDir, models.DefaultRoomImage); err != nil {
				log.Printf("warning: default room image: %v", err)
			}
		}

		rooms := make([]models.Room, len(defaultRooms))
		for i, r := range defaultRooms {
			r.Status = models.RoomAvailable
			r.ImageFile = models.DefaultRoomImage
			rooms[i] = r
		}
		if err := db.Create(&rooms).Error; err != nil {
			return fmt.Errorf("seed rooms: %w", err)
		}
		log.Println("Rooms seeded")
	}
	return nil
}
