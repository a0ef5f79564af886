package services

import (
	"fmt"

	"rentora-server/models"
)

// NotificationService turns domain events into queued notifications and
// emails. Everything here is fire-and-forget; the worker persists the
// in-app notification rows.
type NotificationService struct {
	jobs *JobClient
}

func NewNotificationService(jobs *JobClient) *NotificationService {
	return &NotificationService{jobs: jobs}
}

func (ns *NotificationService) NotifyBookingRequested(booking *models.Booking, guestName, propertyTitle string) {
	ns.jobs.EnqueueNotification(NotificationPayload{
		UserID:  booking.HostID,
		Type:    "booking_request",
		Title:   "New booking request",
		Message: fmt.Sprintf("%s requested to book %s", guestName, propertyTitle),
		Data: map[string]any{
			"bookingId":  booking.ID,
			"propertyId": booking.PropertyID,
			"guestId":    booking.GuestID,
		},
	})
}

func (ns *NotificationService) NotifyBookingStatus(booking *models.Booking, propertyTitle string) {
	var title, message string
	switch booking.Status {
	case models.BookingStatusConfirmed:
		title = "Booking confirmed"
		message = fmt.Sprintf("Your booking for %s has been confirmed", propertyTitle)
	case models.BookingStatusCancelled:
		title = "Booking cancelled"
		message = fmt.Sprintf("Your booking for %s was cancelled", propertyTitle)
	case models.BookingStatusRefunded:
		title = "Booking refunded"
		message = fmt.Sprintf("Your booking for %s has been refunded", propertyTitle)
	default:
		title = "Booking updated"
		message = fmt.Sprintf("Your booking for %s is now %s", propertyTitle, booking.Status)
	}

	ns.jobs.EnqueueNotification(NotificationPayload{
		UserID:  booking.GuestID,
		Type:    "booking_status",
		Title:   title,
		Message: message,
		Data: map[string]any{
			"bookingId":  booking.ID,
			"propertyId": booking.PropertyID,
			"status":     booking.Status,
		},
	})
}

func (ns *NotificationService) NotifyBookingConfirmedEmail(guest *models.User, propertyTitle string) {
	ns.jobs.EnqueueEmail(EmailPayload{
		To:      guest.Email,
		ToName:  guest.FirstName,
		Subject: "Your booking is confirmed",
		Text:    fmt.Sprintf("Hi %s,\n\nYour booking for %s has been confirmed by the host.", guest.FirstName, propertyTitle),
		HTML:    fmt.Sprintf("<p>Hi %s,</p><p>Your booking for <strong>%s</strong> has been confirmed by the host.</p>", guest.FirstName, propertyTitle),
	})
}

func (ns *NotificationService) NotifyNewReview(revieweeID uint, reviewerName string, rating int, propertyTitle string) {
	ns.jobs.EnqueueNotification(NotificationPayload{
		UserID:  revieweeID,
		Type:    "review",
		Title:   "New review",
		Message: fmt.Sprintf("%s left a %d-star review on %s", reviewerName, rating, propertyTitle),
		Data:    map[string]any{"rating": rating},
	})
}

func (ns *NotificationService) NotifyNewMessage(recipientID uint, senderName string, conversationID uint) {
	ns.jobs.EnqueueNotification(NotificationPayload{
		UserID:  recipientID,
		Type:    "message",
		Title:   "New message",
		Message: fmt.Sprintf("%s sent you a message", senderName),
		Data:    map[string]any{"conversationId": conversationID},
	})
}

func (ns *NotificationService) NotifyPropertyVerified(property *models.Property, approved bool, reason string) {
	title := "Listing approved"
	message := fmt.Sprintf("Your listing %q is now live", property.Title)
	if !approved {
		title = "Listing rejected"
		message = fmt.Sprintf("Your listing %q was rejected: %s", property.Title, reason)
	}
	ns.jobs.EnqueueNotification(NotificationPayload{
		UserID:  property.OwnerID,
		Type:    "system",
		Title:   title,
		Message: message,
		Data:    map[string]any{"propertyId": property.ID},
	})
}

func (ns *NotificationService) NotifyServiceBooking(providerUserID uint, customerName, serviceName string, bookingID uint) {
	ns.jobs.EnqueueNotification(NotificationPayload{
		UserID:  providerUserID,
		Type:    "booking_request",
		Title:   "New service booking",
		Message: fmt.Sprintf("%s booked your service %s", customerName, serviceName),
		Data:    map[string]any{"serviceBookingId": bookingID},
	})
}

func (ns *NotificationService) SendWelcomeEmail(user *models.User) {
	ns.jobs.EnqueueEmail(EmailPayload{
		To:      user.Email,
		ToName:  user.FirstName,
		Subject: "Welcome to Rentora",
		Text:    fmt.Sprintf("Hi %s,\n\nWelcome to Rentora! Browse properties, book stays and find local services all in one place.", user.FirstName),
		HTML:    fmt.Sprintf("<p>Hi %s,</p><p>Welcome to Rentora! Browse properties, book stays and find local services all in one place.</p>", user.FirstName),
	})
}

func (ns *NotificationService) SendPasswordResetEmail(user *models.User, token string) {
	ns.jobs.EnqueueEmail(EmailPayload{
		To:      user.Email,
		ToName:  user.FirstName,
		Subject: "Reset your Rentora password",
		Text:    fmt.Sprintf("Hi %s,\n\nUse this token to reset your password: %s\n\nIt expires in 10 minutes.", user.FirstName, token),
		HTML:    fmt.Sprintf("<p>Hi %s,</p><p>Use this token to reset your password: <strong>%s</strong></p><p>It expires in 10 minutes.</p>", user.FirstName, token),
	})
}
