package routes

import (
	"time"

	"rentora-server/models"
	"rentora-server/storage"
	"rentora-server/utils"

	"github.com/kataras/iris/v12"
)

// UserDashboard summarizes the caller's activity across the platform.
func UserDashboard(ctx iris.Context) {
	actor := utils.ActorFromContext(ctx)

	var bookingCount, favoriteCount, reviewCount, marketplaceCount int64
	storage.DB.Model(&models.Booking{}).Where("guest_id = ?", actor.ID).Count(&bookingCount)
	storage.DB.Model(&models.FavoriteProperty{}).Where("user_id = ?", actor.ID).Count(&favoriteCount)
	storage.DB.Model(&models.Review{}).Where("reviewer_id = ?", actor.ID).Count(&reviewCount)
	storage.DB.Model(&models.MarketplaceItem{}).
		Where("seller_id = ? AND status <> ?", actor.ID, models.MarketplaceStatusDeleted).
		Count(&marketplaceCount)

	var upcoming []models.Booking
	storage.DB.Preload("Property").
		Where("guest_id = ? AND status IN ? AND check_in > ?",
			actor.ID,
			[]string{models.BookingStatusPending, models.BookingStatusConfirmed},
			time.Now()).
		Order("check_in ASC").
		Limit(5).
		Find(&upcoming)

	utils.JSONSuccess(ctx, iris.Map{
		"bookings":         bookingCount,
		"favorites":        favoriteCount,
		"reviews":          reviewCount,
		"marketplaceItems": marketplaceCount,
		"upcomingBookings": upcoming,
	})
}

// HostDashboard summarizes the caller's hosting side: listings, requests,
// earnings from completed stays, and a naive occupancy figure.
func HostDashboard(ctx iris.Context) {
	actor := utils.ActorFromContext(ctx)

	var listingCount, liveCount, pendingRequests int64
	storage.DB.Model(&models.Property{}).Where("owner_id = ?", actor.ID).Count(&listingCount)
	storage.DB.Model(&models.Property{}).
		Where("owner_id = ? AND status = ?", actor.ID, models.PropertyStatusAvailable).
		Count(&liveCount)
	storage.DB.Model(&models.Booking{}).
		Where("host_id = ? AND status = ?", actor.ID, models.BookingStatusPending).
		Count(&pendingRequests)

	// Earnings count only stays that actually happened.
	var earnings struct {
		Total float64
	}
	storage.DB.Model(&models.Booking{}).
		Select("COALESCE(SUM(total_price), 0) AS total").
		Where("host_id = ? AND status = ?", actor.ID, models.BookingStatusCheckedOut).
		Scan(&earnings)

	since30 := time.Now().AddDate(0, 0, -30)
	var recentStays []models.Booking
	storage.DB.Select("check_in, check_out").
		Where("host_id = ? AND status IN ? AND check_out >= ?",
			actor.ID,
			[]string{models.BookingStatusConfirmed, models.BookingStatusCheckedIn, models.BookingStatusCheckedOut},
			since30).
		Find(&recentStays)

	bookedNights := 0.0
	for _, stay := range recentStays {
		bookedNights += stay.CheckOut.Sub(stay.CheckIn).Hours() / 24
	}

	occupancy := 0.0
	if liveCount > 0 {
		occupancy = bookedNights / (float64(liveCount) * 30)
		if occupancy > 1 {
			occupancy = 1
		}
	}

	var recentListings []models.Property
	storage.DB.Preload("Images").
		Where("owner_id = ?", actor.ID).
		Order("created_at DESC").
		Limit(5).
		Find(&recentListings)

	utils.JSONSuccess(ctx, iris.Map{
		"listings":        listingCount,
		"liveListings":    liveCount,
		"pendingRequests": pendingRequests,
		"totalEarnings":   earnings.Total,
		"occupancy30d":    occupancy,
		"recentListings":  recentListings,
	})
}
