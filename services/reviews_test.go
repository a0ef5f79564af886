package services

import (
	"testing"

	"rentora-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func uintPtr(v uint) *uint { return &v }

func seedCheckedOutStay(t *testing.T, db *gorm.DB, propertyID, guestID, hostID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.Booking{
		PropertyID: propertyID,
		GuestID:    guestID,
		HostID:     hostID,
		CheckIn:    day(0),
		CheckOut:   day(2),
		TotalPrice: 2000,
		Status:     models.BookingStatusCheckedOut,
	}).Error)
}

func TestCreateReviewRequiresCompletedStay(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	property := seedProperty(t, db, 1, 1000, models.PriceUnitDaily, 1)

	_, err := svc.Create(guest(2), CreateReviewInput{
		Rating:     5,
		PropertyID: uintPtr(property.ID),
	})
	assert.ErrorIs(t, err, ErrNotEligible)

	// Admins bypass eligibility.
	review, err := svc.Create(admin(), CreateReviewInput{
		Rating:     4,
		PropertyID: uintPtr(property.ID),
	})
	require.NoError(t, err)
	assert.False(t, review.IsVerified)
}

func TestCreateReviewUpdatesAggregate(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	property := seedProperty(t, db, 1, 1000, models.PriceUnitDaily, 1)
	seedCheckedOutStay(t, db, property.ID, 2, 1)
	seedCheckedOutStay(t, db, property.ID, 3, 1)

	review, err := svc.Create(guest(2), CreateReviewInput{
		Rating:     5,
		Comment:    "great stay",
		PropertyID: uintPtr(property.ID),
	})
	require.NoError(t, err)
	assert.True(t, review.IsVerified)
	assert.Equal(t, property.OwnerID, review.RevieweeID)

	_, err = svc.Create(guest(3), CreateReviewInput{
		Rating:     2,
		PropertyID: uintPtr(property.ID),
	})
	require.NoError(t, err)

	var got models.Property
	require.NoError(t, db.First(&got, property.ID).Error)
	assert.InDelta(t, 3.5, got.Rating, 0.001)
	assert.Equal(t, 2, got.ReviewCount)
}

func TestCreateReviewDuplicateRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	property := seedProperty(t, db, 1, 1000, models.PriceUnitDaily, 1)
	seedCheckedOutStay(t, db, property.ID, 2, 1)

	_, err := svc.Create(guest(2), CreateReviewInput{Rating: 5, PropertyID: uintPtr(property.ID)})
	require.NoError(t, err)

	_, err = svc.Create(guest(2), CreateReviewInput{Rating: 1, PropertyID: uintPtr(property.ID)})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestCreateReviewExactlyOneTarget(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	_, err := svc.Create(guest(2), CreateReviewInput{Rating: 5})
	assert.ErrorIs(t, err, ErrReviewTarget)

	_, err = svc.Create(guest(2), CreateReviewInput{
		Rating:           5,
		PropertyID:       uintPtr(1),
		ServiceBookingID: uintPtr(1),
	})
	assert.ErrorIs(t, err, ErrReviewTarget)
}

func TestUpdateReviewRecomputesAggregate(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	property := seedProperty(t, db, 1, 1000, models.PriceUnitDaily, 1)
	seedCheckedOutStay(t, db, property.ID, 2, 1)

	review, err := svc.Create(guest(2), CreateReviewInput{Rating: 5, PropertyID: uintPtr(property.ID)})
	require.NoError(t, err)

	// Only the reviewer may edit.
	newRating := 3
	_, err = svc.Update(guest(9), review.ID, UpdateReviewInput{Rating: &newRating})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(guest(2), review.ID, UpdateReviewInput{Rating: &newRating})
	require.NoError(t, err)

	var got models.Property
	require.NoError(t, db.First(&got, property.ID).Error)
	assert.InDelta(t, 3.0, got.Rating, 0.001)
	assert.Equal(t, 1, got.ReviewCount)
}

func TestDeleteLastReviewResetsAggregate(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	property := seedProperty(t, db, 1, 1000, models.PriceUnitDaily, 1)
	seedCheckedOutStay(t, db, property.ID, 2, 1)

	review, err := svc.Create(guest(2), CreateReviewInput{Rating: 4, PropertyID: uintPtr(property.ID)})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(guest(2), review.ID))

	var got models.Property
	require.NoError(t, db.First(&got, property.ID).Error)
	assert.Equal(t, 0.0, got.Rating)
	assert.Equal(t, 0, got.ReviewCount)
}

func TestReviewEditsLockPropertyRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	property := seedProperty(t, db, 1, 1000, models.PriceUnitDaily, 1)
	seedCheckedOutStay(t, db, property.ID, 2, 1)

	review, err := svc.Create(guest(2), CreateReviewInput{Rating: 5, PropertyID: uintPtr(property.ID)})
	require.NoError(t, err)

	// Update and Delete acquire the property row before touching the review,
	// so a vanished listing surfaces as not-found and the review is untouched.
	require.NoError(t, db.Delete(&models.Property{}, property.ID).Error)

	newRating := 3
	_, err = svc.Update(guest(2), review.ID, UpdateReviewInput{Rating: &newRating})
	assert.ErrorIs(t, err, ErrPropertyNotFound)

	err = svc.Delete(guest(2), review.ID)
	assert.ErrorIs(t, err, ErrPropertyNotFound)

	var got models.Review
	require.NoError(t, db.First(&got, review.ID).Error)
	assert.Equal(t, 5, got.Rating)
}

func TestServiceReviewUpdatesProviderAggregate(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	category := models.ServiceCategory{Name: "Cleaning", IsActive: true}
	require.NoError(t, db.Create(&category).Error)
	service := models.Service{CategoryID: category.ID, Name: "Deep clean", IsActive: true}
	require.NoError(t, db.Create(&service).Error)
	provider := models.ServiceProvider{ServiceID: service.ID, UserID: 50, Name: "Sparkle Co", IsActive: true}
	require.NoError(t, db.Create(&provider).Error)

	booking := models.ServiceBooking{
		ServiceID:     service.ID,
		ProviderID:    provider.ID,
		UserID:        2,
		ScheduledDate: day(1),
		Status:        models.ServiceBookingStatusCompleted,
	}
	require.NoError(t, db.Create(&booking).Error)

	review, err := svc.Create(guest(2), CreateReviewInput{
		Rating:           4,
		ServiceBookingID: uintPtr(booking.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, provider.UserID, review.RevieweeID)

	var got models.ServiceProvider
	require.NoError(t, db.First(&got, provider.ID).Error)
	assert.InDelta(t, 4.0, got.Rating, 0.001)
	assert.Equal(t, 1, got.ReviewCount)
}

func TestServiceReviewRequiresCompletedBooking(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	booking := models.ServiceBooking{
		ServiceID:     1,
		ProviderID:    1,
		UserID:        2,
		ScheduledDate: day(1),
		Status:        models.ServiceBookingStatusPending,
	}
	require.NoError(t, db.Create(&booking).Error)

	_, err := svc.Create(guest(2), CreateReviewInput{
		Rating:           5,
		ServiceBookingID: uintPtr(booking.ID),
	})
	assert.ErrorIs(t, err, ErrServiceNotCompleted)

	// Someone else's booking reads as not found.
	booking.Status = models.ServiceBookingStatusCompleted
	require.NoError(t, db.Save(&booking).Error)
	_, err = svc.Create(guest(9), CreateReviewInput{
		Rating:           5,
		ServiceBookingID: uintPtr(booking.ID),
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
