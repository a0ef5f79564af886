package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingStatusPending    = "PENDING"
	BookingStatusConfirmed  = "CONFIRMED"
	BookingStatusCancelled  = "CANCELLED"
	BookingStatusCheckedIn  = "CHECKED_IN"
	BookingStatusCheckedOut = "CHECKED_OUT"
	BookingStatusRefunded   = "REFUNDED"
)

// BlockingBookingStatuses are the statuses that keep a property's dates
// occupied. CANCELLED and REFUNDED bookings release their interval.
var BlockingBookingStatuses = []string{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCheckedIn,
	BookingStatusCheckedOut,
}

// Booking holds a [CheckIn, CheckOut) stay on a property. HostID is a copy of
// the property owner at creation time and TotalPrice is computed once; neither
// changes afterwards.
type Booking struct {
	gorm.Model
	PropertyID      uint      `json:"propertyID" gorm:"not null;index"`
	GuestID         uint      `json:"guestID" gorm:"not null;index"`
	HostID          uint      `json:"hostID" gorm:"not null;index"`
	CheckIn         time.Time `json:"checkIn" gorm:"not null;index"`
	CheckOut        time.Time `json:"checkOut" gorm:"not null"`
	GuestsCount     int       `json:"guestsCount" gorm:"default:1"`
	SpecialRequests string    `json:"specialRequests"`
	TotalPrice      float64   `json:"totalPrice" gorm:"not null"`
	Status          string    `json:"status" gorm:"type:varchar(15);default:PENDING;index"`

	CancellationReason string     `json:"cancellationReason"`
	ConfirmedAt        *time.Time `json:"confirmedAt"`
	CancelledAt        *time.Time `json:"cancelledAt"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Guest    *User     `json:"guest,omitempty" gorm:"foreignKey:GuestID"`
	Host     *User     `json:"host,omitempty" gorm:"foreignKey:HostID"`
	Payments []Payment `json:"payments,omitempty" gorm:"foreignKey:BookingID"`
}

// Terminal reports whether the booking reached a state that admits no further
// transition.
func (b *Booking) Terminal() bool {
	switch b.Status {
	case BookingStatusCancelled, BookingStatusCheckedOut, BookingStatusRefunded:
		return true
	}
	return false
}
