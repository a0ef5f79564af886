package services

import (
	"testing"
	"time"

	"rentora-server/models"

	"github.com/stretchr/testify/assert"
)

func day(n int) time.Time {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestStayLengthDays(t *testing.T) {
	assert.Equal(t, 1, StayLengthDays(day(0), day(1)))
	assert.Equal(t, 7, StayLengthDays(day(0), day(7)))

	// Fractional days round up: 25 hours is 2 days.
	assert.Equal(t, 2, StayLengthDays(day(0), day(0).Add(25*time.Hour)))

	// Degenerate intervals are zero length.
	assert.Equal(t, 0, StayLengthDays(day(1), day(1)))
	assert.Equal(t, 0, StayLengthDays(day(2), day(1)))
}

func TestComputeTotalPriceDaily(t *testing.T) {
	assert.Equal(t, 3000.0, ComputeTotalPrice(1000, models.PriceUnitDaily, 3))
	assert.Equal(t, 1000.0, ComputeTotalPrice(1000, models.PriceUnitDaily, 1))
}

func TestComputeTotalPriceWeekly(t *testing.T) {
	// Partial weeks are charged in full.
	assert.Equal(t, 500.0, ComputeTotalPrice(500, models.PriceUnitWeekly, 7))
	assert.Equal(t, 1000.0, ComputeTotalPrice(500, models.PriceUnitWeekly, 8))
	assert.Equal(t, 500.0, ComputeTotalPrice(500, models.PriceUnitWeekly, 1))
}

func TestComputeTotalPriceMonthly(t *testing.T) {
	assert.Equal(t, 2000.0, ComputeTotalPrice(2000, models.PriceUnitMonthly, 30))
	assert.Equal(t, 4000.0, ComputeTotalPrice(2000, models.PriceUnitMonthly, 31))
	assert.Equal(t, 2000.0, ComputeTotalPrice(2000, models.PriceUnitMonthly, 5))
}

func TestComputeTotalPriceYearlyIsFlat(t *testing.T) {
	// YEARLY listings charge the base price per stay regardless of length.
	assert.Equal(t, 90000.0, ComputeTotalPrice(90000, models.PriceUnitYearly, 3))
	assert.Equal(t, 90000.0, ComputeTotalPrice(90000, models.PriceUnitYearly, 400))
}
