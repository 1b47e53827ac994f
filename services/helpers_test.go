package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"hotel-manager/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:services%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&models.User{}, &models.Room{}, &models.Booking{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustRoom(t *testing.T, rooms *RoomService, number string, price float64) *models.Room {
	t.Helper()
	r, err := rooms.Create(context.Background(), RoomInput{Number: number, RoomType: "Single", PricePerNight: price})
	if err != nil {
		t.Fatalf("create room %s: %v", number, err)
	}
	return r
}

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// recordingNotifier captures every confirmation it is handed.
type recordingNotifier struct {
	events chan BookingConfirmedEvent
	err    error
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{events: make(chan BookingConfirmedEvent, 16)}
}

func (n *recordingNotifier) Notify(_ context.Context, e BookingConfirmedEvent) error {
	n.events <- e
	return n.err
}
