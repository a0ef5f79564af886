package routes

import (
	"time"

	"rentora-server/models"
	"rentora-server/storage"
	"rentora-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

func ListMarketplaceCategories(ctx iris.Context) {
	var categories []models.MarketplaceCategory
	err := storage.DB.Where("is_active = ?", true).Order("name ASC").Find(&categories).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.JSONSuccess(ctx, categories)
}

func ListMarketplaceItems(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	limit := ctx.URLParamIntDefault("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := storage.DB.Model(&models.MarketplaceItem{}).
		Where("status = ?", models.MarketplaceStatusActive)

	if categoryID, err := ctx.URLParamInt("categoryId"); err == nil {
		query = query.Where("category_id = ?", categoryID)
	}
	if city := ctx.URLParam("city"); city != "" {
		query = query.Where("city = ?", city)
	}
	if condition := ctx.URLParam("condition"); condition != "" {
		query = query.Where("condition = ?", condition)
	}
	if minPrice, err := ctx.URLParamFloat64("minPrice"); err == nil {
		query = query.Where("price >= ?", minPrice)
	}
	if maxPrice, err := ctx.URLParamFloat64("maxPrice"); err == nil {
		query = query.Where("price <= ?", maxPrice)
	}
	if q := ctx.URLParam("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("lower(title) LIKE lower(?) OR lower(description) LIKE lower(?)", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var items []models.MarketplaceItem
	err := query.Preload("Images").Preload("Category").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&items).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, items, page, limit, total)
}

func GetMarketplaceItem(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var item models.MarketplaceItem
	dbErr := storage.DB.Preload("Images").Preload("Category").Preload("Seller").
		First(&item, id).Error
	if dbErr != nil || item.Status == models.MarketplaceStatusDeleted {
		utils.CreateNotFound(ctx)
		return
	}

	storage.DB.Model(&item).UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	item.ViewCount++

	utils.JSONSuccess(ctx, item)
}

func CreateMarketplaceItem(ctx iris.Context) {
	var input CreateMarketplaceItemInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)

	var category models.MarketplaceCategory
	if dbErr := storage.DB.First(&category, input.CategoryID).Error; dbErr != nil {
		utils.CreateNotFound(ctx)
		return
	}

	item := models.MarketplaceItem{
		SellerID:      actor.ID,
		CategoryID:    input.CategoryID,
		Title:         input.Title,
		Description:   input.Description,
		Condition:     input.Condition,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		IsNegotiable:  input.IsNegotiable,
		City:          input.City,
		Address:       input.Address,
		Status:        models.MarketplaceStatusActive,
	}
	for i, img := range input.Images {
		item.Images = append(item.Images, models.MarketplaceImage{
			URL:       img.URL,
			Caption:   img.Caption,
			IsPrimary: i == 0,
			Order:     i,
		})
	}

	if dbErr := storage.DB.Create(&item).Error; dbErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	jobClient.EnqueueMarketplaceIndex(item.ID, false)

	utils.JSONCreated(ctx, item)
}

func UpdateMarketplaceItem(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input UpdateMarketplaceItemInput
	if readErr := ctx.ReadJSON(&input); readErr != nil {
		utils.HandleValidationErrors(readErr, ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)

	var item models.MarketplaceItem
	if dbErr := storage.DB.First(&item, id).Error; dbErr != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if !utils.Can(actor, utils.ActionUpdate, &item) {
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
	if input.Condition != nil {
		updates["condition"] = *input.Condition
	}
	if input.IsNegotiable != nil {
		updates["is_negotiable"] = *input.IsNegotiable
	}
	if input.City != nil {
		updates["city"] = *input.City
	}

	if len(updates) > 0 {
		if dbErr := storage.DB.Model(&item).Updates(updates).Error; dbErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		jobClient.EnqueueMarketplaceIndex(item.ID, false)
	}

	utils.JSONSuccess(ctx, item)
}

func DeleteMarketplaceItem(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)

	var item models.MarketplaceItem
	if dbErr := storage.DB.First(&item, id).Error; dbErr != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if !utils.Can(actor, utils.ActionDelete, &item) {
		utils.CreateForbidden(ctx)
		return
	}

	if dbErr := storage.DB.Model(&item).Update("status", models.MarketplaceStatusDeleted).Error; dbErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	jobClient.EnqueueMarketplaceIndex(item.ID, true)

	utils.JSONSuccess(ctx, iris.Map{"message": "Listing deleted"})
}

// MarkItemSold flips an ACTIVE or RESERVED item to SOLD.
func MarkItemSold(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)

	var item models.MarketplaceItem
	if dbErr := storage.DB.First(&item, id).Error; dbErr != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if !utils.Can(actor, utils.ActionUpdate, &item) {
		utils.CreateForbidden(ctx)
		return
	}

	now := time.Now()
	result := storage.DB.Model(&models.MarketplaceItem{}).
		Where("id = ? AND status IN ?", id,
			[]string{models.MarketplaceStatusActive, models.MarketplaceStatusReserved}).
		Updates(map[string]interface{}{"status": models.MarketplaceStatusSold, "sold_at": now})
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, utils.CodeInvalidStatus, "Item cannot be marked sold")
		return
	}

	item.Status = models.MarketplaceStatusSold
	item.SoldAt = &now

	// Sold listings leave the index; the handler sees the non-ACTIVE status.
	jobClient.EnqueueMarketplaceIndex(item.ID, false)

	utils.JSONSuccess(ctx, item)
}

func MyMarketplaceItems(ctx iris.Context) {
	actor := utils.ActorFromContext(ctx)

	var items []models.MarketplaceItem
	err := storage.DB.Preload("Images").
		Where("seller_id = ? AND status <> ?", actor.ID, models.MarketplaceStatusDeleted).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.JSONSuccess(ctx, items)
}

func MarketplaceMeta(ctx iris.Context) {
	var cities []string
	storage.DB.Model(&models.MarketplaceItem{}).
		Where("status = ? AND city <> ''", models.MarketplaceStatusActive).
		Distinct().Order("city").Pluck("city", &cities)

	utils.JSONSuccess(ctx, iris.Map{"cities": cities})
}

type MarketplaceImageInput struct {
	URL     string `json:"url" validate:"required,max=2048"`
	Caption string `json:"caption" validate:"max=256"`
}

type CreateMarketplaceItemInput struct {
	CategoryID    uint     `json:"categoryId" validate:"required"`
	Title         string   `json:"title" validate:"required,max=256"`
	Description   string   `json:"description" validate:"max=10000"`
	Condition     string   `json:"condition" validate:"required,oneof=NEW LIKE_NEW EXCELLENT GOOD FAIR POOR"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	OriginalPrice *float64 `json:"originalPrice" validate:"omitempty,gt=0"`
	IsNegotiable  bool     `json:"isNegotiable"`
	City          string   `json:"city" validate:"required,max=128"`
	Address       string   `json:"address" validate:"max=512"`

	Images []MarketplaceImageInput `json:"images" validate:"dive"`
}

type UpdateMarketplaceItemInput struct {
	Title        *string  `json:"title" validate:"omitempty,max=256"`
	Description  *string  `json:"description" validate:"omitempty,max=10000"`
	Price        *float64 `json:"price" validate:"omitempty,gt=0"`
	Condition    *string  `json:"condition" validate:"omitempty,oneof=NEW LIKE_NEW EXCELLENT GOOD FAIR POOR"`
	IsNegotiable *bool    `json:"isNegotiable"`
	City         *string  `json:"city" validate:"omitempty,max=128"`
}
