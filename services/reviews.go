package services

import (
	"errors"

	"rentora-server/models"
	"rentora-server/utils"

	"gorm.io/gorm"
)

var (
	ErrReviewTarget        = errors.New("exactly one of propertyId or serviceBookingId must be set")
	ErrNotEligible         = errors.New("no completed stay on this property")
	ErrAlreadyReviewed     = errors.New("property already reviewed by this user")
	ErrReviewNotFound      = errors.New("review not found")
	ErrServiceNotCompleted = errors.New("service booking is not completed")
)

// ReviewService creates, updates and deletes reviews and keeps the derived
// rating aggregates on properties and providers in step. Each mutation and
// its recompute share one transaction.
type ReviewService struct {
	DB *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{DB: db}
}

type CreateReviewInput struct {
	Rating           int
	Comment          string
	PropertyID       *uint
	ServiceBookingID *uint
}

func (s *ReviewService) Create(actor utils.Actor, in CreateReviewInput) (*models.Review, error) {
	if (in.PropertyID == nil) == (in.ServiceBookingID == nil) {
		return nil, ErrReviewTarget
	}
	if in.PropertyID != nil {
		return s.createPropertyReview(actor, in)
	}
	return s.createServiceReview(actor, in)
}

func (s *ReviewService) createPropertyReview(actor utils.Actor, in CreateReviewInput) (*models.Review, error) {
	var review models.Review
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := lockForUpdate(tx).First(&property, *in.PropertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPropertyNotFound
			}
			return err
		}

		// Eligibility: a completed stay on the property. Admins are exempt.
		var completed int64
		if err := tx.Model(&models.Booking{}).
			Where("property_id = ? AND guest_id = ? AND status = ?",
				property.ID, actor.ID, models.BookingStatusCheckedOut).
			Count(&completed).Error; err != nil {
			return err
		}
		if completed == 0 && !actor.Admin() {
			return ErrNotEligible
		}

		var existing int64
		if err := tx.Model(&models.Review{}).
			Where("property_id = ? AND reviewer_id = ?", property.ID, actor.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyReviewed
		}

		review = models.Review{
			ReviewerID: actor.ID,
			RevieweeID: property.OwnerID,
			PropertyID: in.PropertyID,
			Rating:     in.Rating,
			Comment:    in.Comment,
			IsVerified: completed > 0,
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		return recomputePropertyRating(tx, property.ID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewService) createServiceReview(actor utils.Actor, in CreateReviewInput) (*models.Review, error) {
	var review models.Review
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.ServiceBooking
		if err := tx.First(&booking, *in.ServiceBookingID).Error; err != nil || booking.UserID != actor.ID {
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return ErrBookingNotFound
		}
		if booking.Status != models.ServiceBookingStatusCompleted {
			return ErrServiceNotCompleted
		}

		var provider models.ServiceProvider
		if err := tx.First(&provider, booking.ProviderID).Error; err != nil {
			return err
		}

		review = models.Review{
			ReviewerID:       actor.ID,
			RevieweeID:       provider.UserID,
			ServiceBookingID: in.ServiceBookingID,
			Rating:           in.Rating,
			Comment:          in.Comment,
			IsVerified:       true,
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		return recomputeProviderRating(tx, provider.ID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

type UpdateReviewInput struct {
	Rating  *int
	Comment *string
}

func (s *ReviewService) Update(actor utils.Actor, reviewID uint, in UpdateReviewInput) (*models.Review, error) {
	var review models.Review
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&review, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return err
		}
		if !utils.Can(actor, utils.ActionUpdate, &review) {
			return ErrForbidden
		}
		if review.PropertyID != nil {
			if err := lockReviewedProperty(tx, *review.PropertyID); err != nil {
				return err
			}
		}

		updates := map[string]interface{}{}
		if in.Rating != nil {
			review.Rating = *in.Rating
			updates["rating"] = *in.Rating
		}
		if in.Comment != nil {
			review.Comment = *in.Comment
			updates["comment"] = *in.Comment
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.Review{}).Where("id = ?", review.ID).Updates(updates).Error; err != nil {
			return err
		}

		if review.PropertyID != nil {
			return recomputePropertyRating(tx, *review.PropertyID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewService) Delete(actor utils.Actor, reviewID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return err
		}
		if !utils.Can(actor, utils.ActionDelete, &review) {
			return ErrForbidden
		}
		if review.PropertyID != nil {
			if err := lockReviewedProperty(tx, *review.PropertyID); err != nil {
				return err
			}
		}

		if err := tx.Unscoped().Delete(&review).Error; err != nil {
			return err
		}

		if review.PropertyID != nil {
			return recomputePropertyRating(tx, *review.PropertyID)
		}
		return nil
	})
}

// lockReviewedProperty takes the property row lock every review mutation must
// hold before it recomputes the aggregate. Update and Delete go through here;
// Create locks the row itself while loading the owner. Without the lock two
// concurrent edits each average their own snapshot and the later commit wins
// with a stale value.
func lockReviewedProperty(tx *gorm.DB, propertyID uint) error {
	var property models.Property
	if err := lockForUpdate(tx).First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPropertyNotFound
		}
		return err
	}
	return nil
}

// recomputePropertyRating rewrites the property's mean rating and review
// count from the full current review set. Never incremental: every caller
// holds the property row lock via lockReviewedProperty, so concurrent review
// mutations serialize here instead of losing updates. Zero reviews reset the
// aggregate to (0, 0).
func recomputePropertyRating(tx *gorm.DB, propertyID uint) error {
	var agg struct {
		Avg   float64
		Count int64
	}
	if err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("property_id = ?", propertyID).
		Scan(&agg).Error; err != nil {
		return err
	}

	return tx.Model(&models.Property{}).
		Where("id = ?", propertyID).
		Updates(map[string]interface{}{"rating": agg.Avg, "review_count": agg.Count}).Error
}

// recomputeProviderRating does the same for a service provider, whose reviews
// hang off its service bookings.
func recomputeProviderRating(tx *gorm.DB, providerID uint) error {
	var agg struct {
		Avg   float64
		Count int64
	}
	if err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(reviews.rating), 0) AS avg, COUNT(*) AS count").
		Joins("JOIN service_bookings sb ON sb.id = reviews.service_booking_id").
		Where("sb.provider_id = ?", providerID).
		Scan(&agg).Error; err != nil {
		return err
	}

	return tx.Model(&models.ServiceProvider{}).
		Where("id = ?", providerID).
		Updates(map[string]interface{}{"rating": agg.Avg, "review_count": agg.Count}).Error
}
