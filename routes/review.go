package routes

import (
	"errors"

	"rentora-server/models"
	"rentora-server/services"
	"rentora-server/storage"
	"rentora-server/utils"

	"github.com/kataras/iris/v12"
)

// PropertyReviews lists a property's reviews, newest first.
func PropertyReviews(ctx iris.Context) {
	propertyID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	page := ctx.URLParamIntDefault("page", 1)
	limit := ctx.URLParamIntDefault("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := storage.DB.Model(&models.Review{}).Where("property_id = ?", propertyID)

	var total int64
	if dbErr := query.Count(&total).Error; dbErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var reviews []models.Review
	dbErr := query.Preload("Reviewer").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&reviews).Error
	if dbErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, reviews, page, limit, total)
}

func CreateReview(ctx iris.Context) {
	var input CreateReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)

	review, err := reviewSvc.Create(actor, services.CreateReviewInput{
		Rating:           input.Rating,
		Comment:          input.Comment,
		PropertyID:       input.PropertyID,
		ServiceBookingID: input.ServiceBookingID,
	})
	if err != nil {
		writeReviewError(ctx, err)
		return
	}

	if review.PropertyID != nil {
		var reviewer models.User
		var property models.Property
		storage.DB.First(&reviewer, review.ReviewerID)
		storage.DB.First(&property, *review.PropertyID)
		notifySvc.NotifyNewReview(review.RevieweeID, reviewer.FirstName, review.Rating, property.Title)
	}

	utils.JSONCreated(ctx, review)
}

func UpdateReview(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input UpdateReviewInput
	if readErr := ctx.ReadJSON(&input); readErr != nil {
		utils.HandleValidationErrors(readErr, ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)

	review, svcErr := reviewSvc.Update(actor, id, services.UpdateReviewInput{
		Rating:  input.Rating,
		Comment: input.Comment,
	})
	if svcErr != nil {
		writeReviewError(ctx, svcErr)
		return
	}

	utils.JSONSuccess(ctx, review)
}

func DeleteReview(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)

	if svcErr := reviewSvc.Delete(actor, id); svcErr != nil {
		writeReviewError(ctx, svcErr)
		return
	}

	utils.JSONSuccess(ctx, iris.Map{"message": "Review deleted"})
}

func writeReviewError(ctx iris.Context, err error) {
	switch {
	case errors.Is(err, services.ErrReviewTarget):
		utils.JSONError(ctx, iris.StatusBadRequest, utils.CodeInvalidRequest, "Exactly one of propertyId or serviceBookingId must be set")
	case errors.Is(err, services.ErrNotEligible):
		utils.JSONError(ctx, iris.StatusForbidden, utils.CodeNotEligible, "Only guests with a completed stay can review this property")
	case errors.Is(err, services.ErrAlreadyReviewed):
		utils.JSONError(ctx, iris.StatusConflict, utils.CodeAlreadyReviewed, "You have already reviewed this property")
	case errors.Is(err, services.ErrServiceNotCompleted):
		utils.JSONError(ctx, iris.StatusBadRequest, utils.CodeNotEligible, "Service booking is not completed")
	case errors.Is(err, services.ErrForbidden):
		utils.CreateForbidden(ctx)
	case errors.Is(err, services.ErrReviewNotFound),
		errors.Is(err, services.ErrPropertyNotFound),
		errors.Is(err, services.ErrBookingNotFound):
		utils.CreateNotFound(ctx)
	default:
		utils.CreateInternalServerError(ctx)
	}
}

type CreateReviewInput struct {
	Rating           int    `json:"rating" validate:"required,min=1,max=5"`
	Comment          string `json:"comment" validate:"max=5000"`
	PropertyID       *uint  `json:"propertyId"`
	ServiceBookingID *uint  `json:"serviceBookingId"`
}

type UpdateReviewInput struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=5000"`
}
