package routes

import (
	"encoding/json"
	"time"

	"rentora-server/models"
	"rentora-server/storage"
	"rentora-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

var propertySortColumns = map[string]string{
	"newest":     "created_at DESC",
	"oldest":     "created_at ASC",
	"price_asc":  "price ASC",
	"price_desc": "price DESC",
	"rating":     "rating DESC",
	"popular":    "view_count DESC",
}

// ListProperties returns published listings with filters, sort and pagination.
func ListProperties(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	limit := ctx.URLParamIntDefault("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := storage.DB.Model(&models.Property{}).
		Where("status = ?", models.PropertyStatusAvailable)

	if city := ctx.URLParam("city"); city != "" {
		query = query.Where("city = ?", city)
	}
	if propertyType := ctx.URLParam("type"); propertyType != "" {
		query = query.Where("type = ?", propertyType)
	}
	if minPrice, err := ctx.URLParamFloat64("minPrice"); err == nil {
		query = query.Where("price >= ?", minPrice)
	}
	if maxPrice, err := ctx.URLParamFloat64("maxPrice"); err == nil {
		query = query.Where("price <= ?", maxPrice)
	}
	if bedrooms, err := ctx.URLParamInt("bedrooms"); err == nil {
		query = query.Where("bedrooms >= ?", bedrooms)
	}
	if ctx.URLParam("furnished") == "true" {
		query = query.Where("furnished = ?", true)
	}

	order, ok := propertySortColumns[ctx.URLParamDefault("sort", "newest")]
	if !ok {
		order = propertySortColumns["newest"]
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var properties []models.Property
	err := query.Preload("Images").
		Order(order).
		Offset((page - 1) * limit).Limit(limit).
		Find(&properties).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, properties, page, limit, total)
}

// GetProperty returns one listing and bumps its view counter.
func GetProperty(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var property models.Property
	dbErr := storage.DB.Preload("Images").Preload("Owner").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Limit(10)
		}).
		First(&property, id).Error
	if dbErr != nil {
		utils.CreateNotFound(ctx)
		return
	}

	storage.DB.Model(&property).UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	property.ViewCount++

	utils.JSONSuccess(ctx, property)
}

// CreateProperty makes a new listing in PENDING_VERIFICATION. Hosts and admins
// only; the guard sits on the route.
func CreateProperty(ctx iris.Context) {
	var input CreatePropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)

	property := models.Property{
		OwnerID:     actor.ID,
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Price:       input.Price,
		PriceUnit:   input.PriceUnit,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		AreaSqFt:    input.AreaSqFt,
		Furnished:   input.Furnished,
		Address:     input.Address,
		City:        input.City,
		State:       input.State,
		ZipCode:     input.ZipCode,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		MinStayDays: 1,
		Status:      models.PropertyStatusPending,
	}
	if input.MinStayDays != nil && *input.MinStayDays > 0 {
		property.MinStayDays = *input.MinStayDays
	}
	property.MaxStayDays = input.MaxStayDays

	if len(input.Amenities) > 0 {
		if raw, err := json.Marshal(input.Amenities); err == nil {
			property.Amenities = raw
		}
	}
	if len(input.Rules) > 0 {
		if raw, err := json.Marshal(input.Rules); err == nil {
			property.Rules = raw
		}
	}
	for i, img := range input.Images {
		property.Images = append(property.Images, models.PropertyImage{
			URL:       img.URL,
			Caption:   img.Caption,
			IsPrimary: i == 0,
			Order:     i,
		})
	}

	if err := storage.DB.Create(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONCreated(ctx, property)
}

func UpdateProperty(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input UpdatePropertyInput
	if readErr := ctx.ReadJSON(&input); readErr != nil {
		utils.HandleValidationErrors(readErr, ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)

	var property models.Property
	if dbErr := storage.DB.First(&property, id).Error; dbErr != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if !utils.Can(actor, utils.ActionUpdate, &property) {
		utils.CreateForbidden(ctx)
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.PriceUnit != nil {
		updates["price_unit"] = *input.PriceUnit
	}
	if input.Status != nil {
		// Owners toggle between AVAILABLE and UNAVAILABLE; verification is
		// the admin queue's job.
		if *input.Status != models.PropertyStatusAvailable && *input.Status != models.PropertyStatusUnavailable {
			utils.JSONError(ctx, iris.StatusBadRequest, utils.CodeInvalidRequest, "Status must be AVAILABLE or UNAVAILABLE")
			return
		}
		if property.Status == models.PropertyStatusPending && !actor.Admin() {
			utils.JSONError(ctx, iris.StatusBadRequest, utils.CodeInvalidStatus, "Listing is awaiting verification")
			return
		}
		updates["status"] = *input.Status
	}
	if input.MinStayDays != nil {
		updates["min_stay_days"] = *input.MinStayDays
	}
	if input.MaxStayDays != nil {
		updates["max_stay_days"] = *input.MaxStayDays
	}
	if input.Furnished != nil {
		updates["furnished"] = *input.Furnished
	}
	if input.Amenities != nil {
		if raw, marshalErr := json.Marshal(input.Amenities); marshalErr == nil {
			updates["amenities"] = raw
		}
	}

	if len(updates) > 0 {
		if dbErr := storage.DB.Model(&property).Updates(updates).Error; dbErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	jobClient.EnqueueSearchIndex(property.ID, false)

	utils.JSONSuccess(ctx, property)
}

func DeleteProperty(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)

	var property models.Property
	if dbErr := storage.DB.First(&property, id).Error; dbErr != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if !utils.Can(actor, utils.ActionDelete, &property) {
		utils.CreateForbidden(ctx)
		return
	}

	// Listings with live bookings cannot disappear from under their guests.
	conflict, err2 := activeBookingCount(property.ID)
	if err2 != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if conflict > 0 {
		utils.JSONError(ctx, iris.StatusConflict, utils.CodeInvalidStatus, "Listing has active bookings")
		return
	}

	if dbErr := storage.DB.Delete(&property).Error; dbErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	jobClient.EnqueueSearchIndex(property.ID, true)

	utils.JSONSuccess(ctx, iris.Map{"message": "Listing deleted"})
}

func activeBookingCount(propertyID uint) (int64, error) {
	var count int64
	err := storage.DB.Model(&models.Booking{}).
		Where("property_id = ? AND status IN ? AND check_out > ?",
			propertyID,
			[]string{models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusCheckedIn},
			time.Now()).
		Count(&count).Error
	return count, err
}

func FeaturedProperties(ctx iris.Context) {
	var properties []models.Property
	err := storage.DB.Preload("Images").
		Where("status = ? AND is_featured = ?", models.PropertyStatusAvailable, true).
		Order("rating DESC").
		Limit(12).
		Find(&properties).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.JSONSuccess(ctx, properties)
}

// MyProperties lists the authenticated host's own listings, all statuses.
func MyProperties(ctx iris.Context) {
	actor := utils.ActorFromContext(ctx)

	var properties []models.Property
	err := storage.DB.Preload("Images").
		Where("owner_id = ?", actor.ID).
		Order("created_at DESC").
		Find(&properties).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.JSONSuccess(ctx, properties)
}

// PropertyMeta returns the distinct cities and types used by live listings,
// for the client's filter dropdowns.
func PropertyMeta(ctx iris.Context) {
	var cities []string
	storage.DB.Model(&models.Property{}).
		Where("status = ? AND city <> ''", models.PropertyStatusAvailable).
		Distinct().Order("city").Pluck("city", &cities)

	var types []string
	storage.DB.Model(&models.Property{}).
		Where("status = ? AND type <> ''", models.PropertyStatusAvailable).
		Distinct().Order("type").Pluck("type", &types)

	utils.JSONSuccess(ctx, iris.Map{"cities": cities, "types": types})
}

type PropertyImageInput struct {
	URL     string `json:"url" validate:"required,max=2048"`
	Caption string `json:"caption" validate:"max=256"`
}

type CreatePropertyInput struct {
	Title       string   `json:"title" validate:"required,max=256"`
	Description string   `json:"description" validate:"max=10000"`
	Type        string   `json:"type" validate:"required,oneof=ROOM APARTMENT HOUSE VILLA OFFICE SHOP LAND HOSTEL HOTEL"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	PriceUnit   string   `json:"priceUnit" validate:"required,oneof=DAILY WEEKLY MONTHLY YEARLY"`
	Bedrooms    *int     `json:"bedrooms" validate:"omitempty,min=0"`
	Bathrooms   *int     `json:"bathrooms" validate:"omitempty,min=0"`
	AreaSqFt    *int     `json:"areaSqFt" validate:"omitempty,min=0"`
	Furnished   bool     `json:"furnished"`
	Address     string   `json:"address" validate:"max=512"`
	City        string   `json:"city" validate:"required,max=128"`
	State       string   `json:"state" validate:"max=128"`
	ZipCode     string   `json:"zipCode" validate:"max=20"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
	MinStayDays *int     `json:"minStayDays" validate:"omitempty,min=1"`
	MaxStayDays *int     `json:"maxStayDays" validate:"omitempty,min=1"`

	Amenities []string             `json:"amenities"`
	Rules     []string             `json:"rules"`
	Images    []PropertyImageInput `json:"images" validate:"dive"`
}

type UpdatePropertyInput struct {
	Title       *string  `json:"title" validate:"omitempty,max=256"`
	Description *string  `json:"description" validate:"omitempty,max=10000"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	PriceUnit   *string  `json:"priceUnit" validate:"omitempty,oneof=DAILY WEEKLY MONTHLY YEARLY"`
	Status      *string  `json:"status"`
	MinStayDays *int     `json:"minStayDays" validate:"omitempty,min=1"`
	MaxStayDays *int     `json:"maxStayDays" validate:"omitempty,min=1"`
	Furnished   *bool    `json:"furnished"`
	Amenities   []string `json:"amenities"`
}
