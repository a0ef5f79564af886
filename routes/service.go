package routes

import (
	"time"

	"rentora-server/models"
	"rentora-server/storage"
	"rentora-server/utils"

	"github.com/kataras/iris/v12"
)

func ListServiceCategories(ctx iris.Context) {
	var categories []models.ServiceCategory
	err := storage.DB.Where("is_active = ?", true).
		Order("\"order\" ASC, name ASC").
		Find(&categories).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.JSONSuccess(ctx, categories)
}

func ServicesByCategory(ctx iris.Context) {
	categoryID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var services []models.Service
	dbErr := storage.DB.Where("category_id = ? AND is_active = ?", categoryID, true).
		Order("name ASC").
		Find(&services).Error
	if dbErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.JSONSuccess(ctx, services)
}

func GetService(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var service models.Service
	dbErr := storage.DB.Preload("Category").
		Preload("Providers", "is_active = ?", true).
		First(&service, id).Error
	if dbErr != nil {
		utils.CreateNotFound(ctx)
		return
	}
	utils.JSONSuccess(ctx, service)
}

func ListProviders(ctx iris.Context) {
	serviceID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	query := storage.DB.Where("service_id = ? AND is_active = ?", serviceID, true)
	if city := ctx.URLParam("city"); city != "" {
		query = query.Where("city = ?", city)
	}

	var providers []models.ServiceProvider
	if dbErr := query.Order("rating DESC").Find(&providers).Error; dbErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.JSONSuccess(ctx, providers)
}

func CreateServiceBooking(ctx iris.Context) {
	var input CreateServiceBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	scheduledDate, err := time.Parse(time.RFC3339, input.ScheduledDate)
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, utils.CodeInvalidDates, "scheduledDate must be an RFC 3339 timestamp")
		return
	}

	actor := utils.ActorFromContext(ctx)

	var provider models.ServiceProvider
	if dbErr := storage.DB.First(&provider, input.ProviderID).Error; dbErr != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if provider.ServiceID != input.ServiceID || !provider.IsActive {
		utils.JSONError(ctx, iris.StatusBadRequest, utils.CodeInvalidRequest, "Provider does not offer this service")
		return
	}

	booking := models.ServiceBooking{
		ServiceID:     input.ServiceID,
		ProviderID:    input.ProviderID,
		UserID:        actor.ID,
		ScheduledDate: scheduledDate,
		ScheduledTime: input.ScheduledTime,
		Address:       input.Address,
		City:          input.City,
		Notes:         input.Notes,
		Status:        models.ServiceBookingStatusPending,
	}
	if dbErr := storage.DB.Create(&booking).Error; dbErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var customer models.User
	var service models.Service
	storage.DB.First(&customer, actor.ID)
	storage.DB.First(&service, input.ServiceID)
	notifySvc.NotifyServiceBooking(provider.UserID, customer.FirstName, service.Name, booking.ID)

	utils.JSONCreated(ctx, booking)
}

func MyServiceBookings(ctx iris.Context) {
	actor := utils.ActorFromContext(ctx)

	var bookings []models.ServiceBooking
	err := storage.DB.Preload("Service").Preload("Provider").
		Where("user_id = ?", actor.ID).
		Order("scheduled_date DESC").
		Find(&bookings).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.JSONSuccess(ctx, bookings)
}

// CancelServiceBooking cancels a PENDING or CONFIRMED service booking.
func CancelServiceBooking(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input CancelServiceBookingInput
	_ = ctx.ReadJSON(&input)

	actor := utils.ActorFromContext(ctx)

	var booking models.ServiceBooking
	if dbErr := storage.DB.First(&booking, id).Error; dbErr != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if !utils.Can(actor, utils.ActionCancel, &booking) {
		utils.CreateForbidden(ctx)
		return
	}

	now := time.Now()
	result := storage.DB.Model(&models.ServiceBooking{}).
		Where("id = ? AND status IN ?", id,
			[]string{models.ServiceBookingStatusPending, models.ServiceBookingStatusConfirmed}).
		Updates(map[string]interface{}{
			"status":              models.ServiceBookingStatusCancelled,
			"cancelled_at":        now,
			"cancellation_reason": input.Reason,
		})
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, utils.CodeInvalidStatus, "Booking status does not allow cancellation")
		return
	}

	booking.Status = models.ServiceBookingStatusCancelled
	booking.CancelledAt = &now
	booking.CancellationReason = input.Reason
	utils.JSONSuccess(ctx, booking)
}

// CompleteServiceBooking marks a booking COMPLETED, which opens it up for a
// provider review. Admin only.
func CompleteServiceBooking(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	now := time.Now()
	result := storage.DB.Model(&models.ServiceBooking{}).
		Where("id = ? AND status IN ?", id,
			[]string{models.ServiceBookingStatusConfirmed, models.ServiceBookingStatusInProgress}).
		Updates(map[string]interface{}{
			"status":       models.ServiceBookingStatusCompleted,
			"completed_at": now,
		})
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, utils.CodeInvalidStatus, "Booking status does not allow completion")
		return
	}

	utils.JSONSuccess(ctx, iris.Map{"message": "Booking completed"})
}

// AdminCreateService registers a new service under a category.
func AdminCreateService(ctx iris.Context) {
	var input CreateServiceInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var category models.ServiceCategory
	if dbErr := storage.DB.First(&category, input.CategoryID).Error; dbErr != nil {
		utils.CreateNotFound(ctx)
		return
	}

	service := models.Service{
		CategoryID:    input.CategoryID,
		Name:          input.Name,
		Description:   input.Description,
		PriceRangeMin: input.PriceRangeMin,
		PriceRangeMax: input.PriceRangeMax,
		PriceUnit:     input.PriceUnit,
		IsActive:      true,
	}
	if dbErr := storage.DB.Create(&service).Error; dbErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.JSONCreated(ctx, service)
}

// AdminCreateProvider registers a provider for a service.
func AdminCreateProvider(ctx iris.Context) {
	var input CreateProviderInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var service models.Service
	if dbErr := storage.DB.First(&service, input.ServiceID).Error; dbErr != nil {
		utils.CreateNotFound(ctx)
		return
	}
	var user models.User
	if dbErr := storage.DB.First(&user, input.UserID).Error; dbErr != nil {
		utils.CreateNotFound(ctx)
		return
	}

	provider := models.ServiceProvider{
		ServiceID:       input.ServiceID,
		UserID:          input.UserID,
		Name:            input.Name,
		Email:           input.Email,
		Phone:           input.Phone,
		City:            input.City,
		YearsExperience: input.YearsExperience,
		IsActive:        true,
	}
	if dbErr := storage.DB.Create(&provider).Error; dbErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.JSONCreated(ctx, provider)
}

type CreateServiceBookingInput struct {
	ServiceID     uint   `json:"serviceId" validate:"required"`
	ProviderID    uint   `json:"providerId" validate:"required"`
	ScheduledDate string `json:"scheduledDate" validate:"required"`
	ScheduledTime string `json:"scheduledTime" validate:"max=20"`
	Address       string `json:"address" validate:"required,max=512"`
	City          string `json:"city" validate:"max=128"`
	Notes         string `json:"notes" validate:"max=2000"`
}

type CancelServiceBookingInput struct {
	Reason string `json:"reason" validate:"max=1000"`
}

type CreateServiceInput struct {
	CategoryID    uint     `json:"categoryId" validate:"required"`
	Name          string   `json:"name" validate:"required,max=256"`
	Description   string   `json:"description" validate:"max=5000"`
	PriceRangeMin *float64 `json:"priceRangeMin" validate:"omitempty,gte=0"`
	PriceRangeMax *float64 `json:"priceRangeMax" validate:"omitempty,gte=0"`
	PriceUnit     string   `json:"priceUnit" validate:"omitempty,oneof=per_hour per_visit per_job"`
}

type CreateProviderInput struct {
	ServiceID       uint   `json:"serviceId" validate:"required"`
	UserID          uint   `json:"userId" validate:"required"`
	Name            string `json:"name" validate:"required,max=256"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone" validate:"max=20"`
	City            string `json:"city" validate:"max=128"`
	YearsExperience int    `json:"yearsExperience" validate:"min=0,max=80"`
}
