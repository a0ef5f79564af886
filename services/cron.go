package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"rentora-server/models"
	"rentora-server/storage"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartScheduler runs the recurring maintenance jobs: hourly reminders for
// booking requests hosts have left pending, and a daily purge of stale read
// notifications. The returned cron is already started.
func StartScheduler(db *gorm.DB, notifications *NotificationService) *cron.Cron {
	c := cron.New()

	c.AddFunc("@hourly", func() {
		if err := remindPendingBookings(db, notifications); err != nil {
			log.Println("cron: pending booking reminders:", err)
		}
	})

	c.AddFunc("@daily", func() {
		if err := purgeReadNotifications(db); err != nil {
			log.Println("cron: purge notifications:", err)
		}
	})

	c.Start()
	return c
}

// remindPendingBookings nudges hosts about requests that sat PENDING for more
// than 12 hours. A redis SETNX key per booking keeps each reminder to one
// delivery even across restarts.
func remindPendingBookings(db *gorm.DB, notifications *NotificationService) error {
	cutoff := time.Now().Add(-12 * time.Hour)

	var bookings []models.Booking
	if err := db.Preload("Property").
		Where("status = ? AND created_at < ?", models.BookingStatusPending, cutoff).
		Find(&bookings).Error; err != nil {
		return err
	}

	ctx := context.Background()
	for _, booking := range bookings {
		key := fmt.Sprintf("reminder:booking:%d", booking.ID)
		set, err := storage.Redis.SetNX(ctx, key, "1", 7*24*time.Hour).Result()
		if err != nil {
			return err
		}
		if !set {
			continue
		}

		title := "booking"
		if booking.Property != nil {
			title = booking.Property.Title
		}
		notifications.jobs.EnqueueNotification(NotificationPayload{
			UserID:  booking.HostID,
			Type:    "booking_request",
			Title:   "Booking request awaiting response",
			Message: fmt.Sprintf("A request for %s has been waiting since %s", title, booking.CreatedAt.Format("Jan 2")),
			Data:    map[string]any{"bookingId": booking.ID},
		})
	}
	return nil
}

// purgeReadNotifications deletes read notifications older than 90 days.
func purgeReadNotifications(db *gorm.DB) error {
	cutoff := time.Now().AddDate(0, 0, -90)
	return db.Unscoped().
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{}).Error
}
