package routes

import (
	"rentora-server/services"
	"rentora-server/storage"
)

// Package-level service handles, wired once at startup after the database and
// redis connections exist.
var (
	bookingSvc *services.BookingService
	reviewSvc  *services.ReviewService
	searchSvc  *services.SearchService
	jobClient  *services.JobClient
	notifySvc  *services.NotificationService
)

// InitServices builds the service layer the handlers dispatch to.
func InitServices() {
	bookingSvc = services.NewBookingService(storage.DB)
	reviewSvc = services.NewReviewService(storage.DB)
	searchSvc = services.NewSearchService()
	jobClient = services.NewJobClient()
	notifySvc = services.NewNotificationService(jobClient)
}

// Jobs exposes the queue client so main can hand it to the worker and close it
// on shutdown.
func Jobs() *services.JobClient { return jobClient }

// Search exposes the search client for collection bootstrap and the worker.
func Search() *services.SearchService { return searchSvc }
