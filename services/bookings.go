package services

import (
	"errors"
	"fmt"
	"time"

	"rentora-server/models"
	"rentora-server/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Domain precondition failures of the booking lifecycle. Routes map these to
// stable error codes; none of them leaves a partial write behind.
var (
	ErrInvalidDates     = errors.New("check-out must be after check-in")
	ErrSelfBooking      = errors.New("cannot book your own property")
	ErrNotAvailable     = errors.New("property not available for selected dates")
	ErrInvalidStatus    = errors.New("booking status does not allow this transition")
	ErrForbidden        = errors.New("actor not authorized for this booking")
	ErrPropertyNotFound = errors.New("property not found")
	ErrBookingNotFound  = errors.New("booking not found")
)

// MinStayError reports the violated minimum so the client can show it.
type MinStayError struct {
	Required int
}

func (e *MinStayError) Error() string {
	return fmt.Sprintf("minimum stay is %d days", e.Required)
}

// MaxStayError reports the violated maximum stay length.
type MaxStayError struct {
	Limit int
}

func (e *MaxStayError) Error() string {
	return fmt.Sprintf("maximum stay is %d days", e.Limit)
}

// BookingService orchestrates booking validation, pricing and state
// transitions. Every multi-step mutation runs in a single transaction.
type BookingService struct {
	DB *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

type CreateBookingInput struct {
	PropertyID      uint
	CheckIn         time.Time
	CheckOut        time.Time
	GuestsCount     int
	SpecialRequests string
}

// HasBookingConflict reports whether any blocking booking on the property
// intersects the half-open interval [start, end). Two half-open intervals
// [a,b) and [c,d) overlap iff a < d and c < b.
func HasBookingConflict(tx *gorm.DB, propertyID uint, start, end time.Time) (bool, error) {
	var count int64
	err := tx.Model(&models.Booking{}).
		Where("property_id = ?", propertyID).
		Where("status IN ?", models.BlockingBookingStatuses).
		Where("check_in < ? AND check_out > ?", end, start).
		Count(&count).Error
	return count > 0, err
}

// lockForUpdate takes a row-level lock on dialects that support it. The
// property row acts as the mutual-exclusion point for the conflict check and
// the subsequent insert, closing the check-then-insert race.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// Create validates and persists a new PENDING booking. TotalPrice is computed
// exactly once here and never recomputed on later property price changes.
func (s *BookingService) Create(guestID uint, in CreateBookingInput) (*models.Booking, error) {
	if !in.CheckIn.Before(in.CheckOut) {
		return nil, ErrInvalidDates
	}

	var booking models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := lockForUpdate(tx).First(&property, in.PropertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPropertyNotFound
			}
			return err
		}

		if property.OwnerID == guestID {
			return ErrSelfBooking
		}

		conflict, err := HasBookingConflict(tx, property.ID, in.CheckIn, in.CheckOut)
		if err != nil {
			return err
		}
		if conflict {
			return ErrNotAvailable
		}

		days := StayLengthDays(in.CheckIn, in.CheckOut)
		if days < property.MinStayDays {
			return &MinStayError{Required: property.MinStayDays}
		}
		if property.MaxStayDays != nil && days > *property.MaxStayDays {
			return &MaxStayError{Limit: *property.MaxStayDays}
		}

		booking = models.Booking{
			PropertyID:      property.ID,
			GuestID:         guestID,
			HostID:          property.OwnerID,
			CheckIn:         in.CheckIn,
			CheckOut:        in.CheckOut,
			GuestsCount:     in.GuestsCount,
			SpecialRequests: in.SpecialRequests,
			TotalPrice:      ComputeTotalPrice(property.Price, property.PriceUnit, days),
			Status:          models.BookingStatusPending,
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Confirm moves a PENDING booking to CONFIRMED. Host or admin only.
func (s *BookingService) Confirm(actor utils.Actor, bookingID uint) (*models.Booking, error) {
	return s.transition(actor, bookingID, utils.ActionConfirm,
		[]string{models.BookingStatusPending},
		func(b *models.Booking) map[string]interface{} {
			now := time.Now()
			b.Status = models.BookingStatusConfirmed
			b.ConfirmedAt = &now
			return map[string]interface{}{"status": b.Status, "confirmed_at": now}
		})
}

// Cancel moves a PENDING or CONFIRMED booking to CANCELLED and records the
// reason. Guest, host or admin.
func (s *BookingService) Cancel(actor utils.Actor, bookingID uint, reason string) (*models.Booking, error) {
	return s.transition(actor, bookingID, utils.ActionCancel,
		[]string{models.BookingStatusPending, models.BookingStatusConfirmed},
		func(b *models.Booking) map[string]interface{} {
			now := time.Now()
			b.Status = models.BookingStatusCancelled
			b.CancelledAt = &now
			b.CancellationReason = reason
			return map[string]interface{}{
				"status":              b.Status,
				"cancelled_at":        now,
				"cancellation_reason": reason,
			}
		})
}

// CheckIn moves a CONFIRMED booking to CHECKED_IN. Host or admin.
func (s *BookingService) CheckIn(actor utils.Actor, bookingID uint) (*models.Booking, error) {
	return s.transition(actor, bookingID, utils.ActionCheckIn,
		[]string{models.BookingStatusConfirmed},
		func(b *models.Booking) map[string]interface{} {
			b.Status = models.BookingStatusCheckedIn
			return map[string]interface{}{"status": b.Status}
		})
}

// CheckOut moves a CHECKED_IN booking to CHECKED_OUT, which makes the guest
// eligible to review the property.
func (s *BookingService) CheckOut(actor utils.Actor, bookingID uint) (*models.Booking, error) {
	return s.transition(actor, bookingID, utils.ActionCheckOut,
		[]string{models.BookingStatusCheckedIn},
		func(b *models.Booking) map[string]interface{} {
			b.Status = models.BookingStatusCheckedOut
			return map[string]interface{}{"status": b.Status}
		})
}

// Refund moves a CONFIRMED or CHECKED_IN booking to REFUNDED. Admin only;
// terminal states stay terminal.
func (s *BookingService) Refund(actor utils.Actor, bookingID uint) (*models.Booking, error) {
	return s.transition(actor, bookingID, utils.ActionRefund,
		[]string{models.BookingStatusConfirmed, models.BookingStatusCheckedIn},
		func(b *models.Booking) map[string]interface{} {
			b.Status = models.BookingStatusRefunded
			return map[string]interface{}{"status": b.Status}
		})
}

// transition applies a guarded status change. The UPDATE carries the expected
// source statuses in its WHERE clause, so a concurrent transition loses
// cleanly with ErrInvalidStatus instead of clobbering state.
func (s *BookingService) transition(actor utils.Actor, bookingID uint, action utils.Action, fromStatuses []string, apply func(*models.Booking) map[string]interface{}) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if !utils.Can(actor, action, &booking) {
			return ErrForbidden
		}

		allowed := false
		for _, st := range fromStatuses {
			if booking.Status == st {
				allowed = true
				break
			}
		}
		if !allowed {
			return ErrInvalidStatus
		}

		updates := apply(&booking)
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status IN ?", bookingID, fromStatuses).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidStatus
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
