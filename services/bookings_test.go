package services

import (
	"testing"

	"rentora-server/models"
	"rentora-server/utils"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Booking{},
		&models.Review{},
		&models.ServiceCategory{},
		&models.Service{},
		&models.ServiceProvider{},
		&models.ServiceBooking{},
	))
	return db
}

func seedProperty(t *testing.T, db *gorm.DB, ownerID uint, price float64, unit string, minStay int) *models.Property {
	t.Helper()
	property := &models.Property{
		OwnerID:     ownerID,
		Title:       "Lakeside flat",
		Type:        "APARTMENT",
		Price:       price,
		PriceUnit:   unit,
		City:        "Pokhara",
		MinStayDays: minStay,
		Status:      models.PropertyStatusAvailable,
	}
	require.NoError(t, db.Create(property).Error)
	return property
}

func guest(id uint) utils.Actor { return utils.Actor{ID: id, Role: models.RoleUser} }
func host(id uint) utils.Actor  { return utils.Actor{ID: id, Role: models.RoleHost} }
func admin() utils.Actor        { return utils.Actor{ID: 999, Role: models.RoleAdmin} }

func TestCreateBookingComputesPrice(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	property := seedProperty(t, db, 1, 1000, models.PriceUnitDaily, 3)

	booking, err := svc.Create(2, CreateBookingInput{
		PropertyID: property.ID,
		CheckIn:    day(0),
		CheckOut:   day(3),
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, 3000.0, booking.TotalPrice)
	assert.Equal(t, property.OwnerID, booking.HostID)
}

func TestCreateBookingRejectsInvalidDates(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	property := seedProperty(t, db, 1, 1000, models.PriceUnitDaily, 1)

	// Zero-length stay.
	_, err := svc.Create(2, CreateBookingInput{
		PropertyID: property.ID,
		CheckIn:    day(1),
		CheckOut:   day(1),
	})
	assert.ErrorIs(t, err, ErrInvalidDates)

	// Inverted interval.
	_, err = svc.Create(2, CreateBookingInput{
		PropertyID: property.ID,
		CheckIn:    day(2),
		CheckOut:   day(1),
	})
	assert.ErrorIs(t, err, ErrInvalidDates)
}

func TestCreateBookingRejectsSelfBooking(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	property := seedProperty(t, db, 7, 1000, models.PriceUnitDaily, 1)

	_, err := svc.Create(7, CreateBookingInput{
		PropertyID: property.ID,
		CheckIn:    day(0),
		CheckOut:   day(2),
	})
	assert.ErrorIs(t, err, ErrSelfBooking)
}

func TestCreateBookingOverlap(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	property := seedProperty(t, db, 1, 1000, models.PriceUnitDaily, 1)

	_, err := svc.Create(2, CreateBookingInput{
		PropertyID: property.ID,
		CheckIn:    day(5),
		CheckOut:   day(10),
	})
	require.NoError(t, err)

	// [8, 12) intersects [5, 10).
	_, err = svc.Create(3, CreateBookingInput{
		PropertyID: property.ID,
		CheckIn:    day(8),
		CheckOut:   day(12),
	})
	assert.ErrorIs(t, err, ErrNotAvailable)

	// [10, 12) starts exactly at the previous check-out; half-open intervals
	// make this a clean back-to-back stay.
	_, err = svc.Create(3, CreateBookingInput{
		PropertyID: property.ID,
		CheckIn:    day(10),
		CheckOut:   day(12),
	})
	assert.NoError(t, err)
}

func TestBookingConflictBlockingStatuses(t *testing.T) {
	db := newTestDB(t)
	property := seedProperty(t, db, 1, 1000, models.PriceUnitDaily, 1)

	blocking := map[string]bool{
		models.BookingStatusPending:    true,
		models.BookingStatusConfirmed:  true,
		models.BookingStatusCheckedIn:  true,
		models.BookingStatusCheckedOut: true,
		models.BookingStatusCancelled:  false,
		models.BookingStatusRefunded:   false,
	}
	for status, wantConflict := range blocking {
		require.NoError(t, db.Create(&models.Booking{
			PropertyID: property.ID,
			GuestID:    2,
			HostID:     1,
			CheckIn:    day(0),
			CheckOut:   day(3),
			TotalPrice: 3000,
			Status:     status,
		}).Error)

		conflict, err := HasBookingConflict(db, property.ID, day(1), day(2))
		require.NoError(t, err)
		assert.Equal(t, wantConflict, conflict, "status %s", status)

		require.NoError(t, db.Unscoped().Where("property_id = ?", property.ID).Delete(&models.Booking{}).Error)
	}
}

func TestCancelledBookingReleasesDates(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	property := seedProperty(t, db, 1, 1000, models.PriceUnitDaily, 1)

	booking, err := svc.Create(2, CreateBookingInput{
		PropertyID: property.ID,
		CheckIn:    day(5),
		CheckOut:   day(10),
	})
	require.NoError(t, err)

	_, err = svc.Cancel(guest(2), booking.ID, "change of plans")
	require.NoError(t, err)

	_, err = svc.Create(3, CreateBookingInput{
		PropertyID: property.ID,
		CheckIn:    day(5),
		CheckOut:   day(10),
	})
	assert.NoError(t, err)
}

func TestCreateBookingMinStay(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	property := seedProperty(t, db, 1, 1000, models.PriceUnitDaily, 3)

	_, err := svc.Create(2, CreateBookingInput{
		PropertyID: property.ID,
		CheckIn:    day(0),
		CheckOut:   day(2),
	})
	var minStay *MinStayError
	require.ErrorAs(t, err, &minStay)
	assert.Equal(t, 3, minStay.Required)
}

func TestCreateBookingMaxStay(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	property := seedProperty(t, db, 1, 1000, models.PriceUnitDaily, 1)
	maxStay := 5
	require.NoError(t, db.Model(property).Update("max_stay_days", maxStay).Error)

	_, err := svc.Create(2, CreateBookingInput{
		PropertyID: property.ID,
		CheckIn:    day(0),
		CheckOut:   day(10),
	})
	var maxErr *MaxStayError
	require.ErrorAs(t, err, &maxErr)
	assert.Equal(t, 5, maxErr.Limit)
}

func TestBookingLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	property := seedProperty(t, db, 1, 1000, models.PriceUnitDaily, 1)

	booking, err := svc.Create(2, CreateBookingInput{
		PropertyID: property.ID,
		CheckIn:    day(0),
		CheckOut:   day(2),
	})
	require.NoError(t, err)

	// Guest cannot confirm their own request.
	_, err = svc.Confirm(guest(2), booking.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	booking, err = svc.Confirm(host(1), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.NotNil(t, booking.ConfirmedAt)

	booking, err = svc.CheckIn(host(1), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCheckedIn, booking.Status)

	// CHECKED_IN no longer allows cancellation.
	_, err = svc.Cancel(guest(2), booking.ID, "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	booking, err = svc.CheckOut(host(1), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCheckedOut, booking.Status)
	assert.True(t, booking.Terminal())
}

func TestCancelTwiceRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	property := seedProperty(t, db, 1, 1000, models.PriceUnitDaily, 1)

	booking, err := svc.Create(2, CreateBookingInput{
		PropertyID: property.ID,
		CheckIn:    day(0),
		CheckOut:   day(2),
	})
	require.NoError(t, err)

	_, err = svc.Cancel(guest(2), booking.ID, "first")
	require.NoError(t, err)

	_, err = svc.Cancel(guest(2), booking.ID, "second")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestRefundIsAdminOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	property := seedProperty(t, db, 1, 1000, models.PriceUnitDaily, 1)

	booking, err := svc.Create(2, CreateBookingInput{
		PropertyID: property.ID,
		CheckIn:    day(0),
		CheckOut:   day(2),
	})
	require.NoError(t, err)
	_, err = svc.Confirm(host(1), booking.ID)
	require.NoError(t, err)

	_, err = svc.Refund(host(1), booking.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Refund(guest(2), booking.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	booking, err = svc.Refund(admin(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusRefunded, booking.Status)

	// Refunded dates are free again.
	_, err = svc.Create(3, CreateBookingInput{
		PropertyID: property.ID,
		CheckIn:    day(0),
		CheckOut:   day(2),
	})
	assert.NoError(t, err)
}

func TestBookingUnknownProperty(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)

	_, err := svc.Create(2, CreateBookingInput{
		PropertyID: 12345,
		CheckIn:    day(0),
		CheckOut:   day(2),
	})
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}
