package services

import (
	"math"
	"time"

	"rentora-server/models"
)

// StayLengthDays returns the whole number of days covered by the half-open
// interval [checkIn, checkOut), rounding fractional days up: a 25 hour stay
// counts as 2 days.
func StayLengthDays(checkIn, checkOut time.Time) int {
	if !checkIn.Before(checkOut) {
		return 0
	}
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// ComputeTotalPrice prices a stay from the property's base price, its billing
// unit and the stay length in days. Deterministic, no I/O.
//
// YEARLY listings are charged the flat base price per stay regardless of
// length; long-term rentals collect rent outside the booking itself.
func ComputeTotalPrice(basePrice float64, priceUnit string, stayLengthDays int) float64 {
	switch priceUnit {
	case models.PriceUnitDaily:
		return basePrice * float64(stayLengthDays)
	case models.PriceUnitWeekly:
		return basePrice * math.Ceil(float64(stayLengthDays)/7)
	case models.PriceUnitMonthly:
		return basePrice * math.Ceil(float64(stayLengthDays)/30)
	default:
		return basePrice
	}
}
