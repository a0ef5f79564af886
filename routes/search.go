package routes

import (
	"rentora-server/models"
	"rentora-server/services"
	"rentora-server/storage"
	"rentora-server/utils"

	"github.com/kataras/iris/v12"
)

// SearchProperties runs a full-text query against the search index and hydrates
// the hits from the database. Falls back to a plain LIKE query when the index
// is not configured.
func SearchProperties(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	limit := ctx.URLParamIntDefault("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	input := services.SearchPropertiesInput{
		Query: ctx.URLParam("q"),
		City:  ctx.URLParam("city"),
		Type:  ctx.URLParam("type"),
		Page:  page,
		Limit: limit,
	}
	if minPrice, err := ctx.URLParamFloat64("minPrice"); err == nil {
		input.MinPrice = &minPrice
	}
	if maxPrice, err := ctx.URLParamFloat64("maxPrice"); err == nil {
		input.MaxPrice = &maxPrice
	}

	if !searchSvc.Enabled() {
		fallbackSearch(ctx, input)
		return
	}

	ids, total, err := searchSvc.Search(ctx.Request().Context(), input)
	if err != nil {
		fallbackSearch(ctx, input)
		return
	}

	var properties []models.Property
	if len(ids) > 0 {
		if dbErr := storage.DB.Preload("Images").Where("id IN ?", ids).Find(&properties).Error; dbErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		// Restore the index's relevance ordering.
		byID := make(map[uint]models.Property, len(properties))
		for _, p := range properties {
			byID[p.ID] = p
		}
		ordered := make([]models.Property, 0, len(ids))
		for _, id := range ids {
			if p, ok := byID[id]; ok {
				ordered = append(ordered, p)
			}
		}
		properties = ordered
	}

	utils.JSONPage(ctx, properties, page, limit, int64(total))
}

// SearchMarketplace mirrors SearchProperties for marketplace items.
func SearchMarketplace(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	limit := ctx.URLParamIntDefault("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	input := services.SearchMarketplaceInput{
		Query:     ctx.URLParam("q"),
		City:      ctx.URLParam("city"),
		Category:  ctx.URLParam("category"),
		Condition: ctx.URLParam("condition"),
		Page:      page,
		Limit:     limit,
	}
	if minPrice, err := ctx.URLParamFloat64("minPrice"); err == nil {
		input.MinPrice = &minPrice
	}
	if maxPrice, err := ctx.URLParamFloat64("maxPrice"); err == nil {
		input.MaxPrice = &maxPrice
	}

	if !searchSvc.Enabled() {
		fallbackMarketplaceSearch(ctx, input)
		return
	}

	ids, total, err := searchSvc.SearchMarketplace(ctx.Request().Context(), input)
	if err != nil {
		fallbackMarketplaceSearch(ctx, input)
		return
	}

	var items []models.MarketplaceItem
	if len(ids) > 0 {
		if dbErr := storage.DB.Preload("Images").Where("id IN ?", ids).Find(&items).Error; dbErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		byID := make(map[uint]models.MarketplaceItem, len(items))
		for _, item := range items {
			byID[item.ID] = item
		}
		ordered := make([]models.MarketplaceItem, 0, len(ids))
		for _, id := range ids {
			if item, ok := byID[id]; ok {
				ordered = append(ordered, item)
			}
		}
		items = ordered
	}

	utils.JSONPage(ctx, items, page, limit, int64(total))
}

func fallbackMarketplaceSearch(ctx iris.Context, in services.SearchMarketplaceInput) {
	query := storage.DB.Model(&models.MarketplaceItem{}).
		Where("status = ?", models.MarketplaceStatusActive)

	if in.Query != "" {
		like := "%" + in.Query + "%"
		query = query.Where("lower(title) LIKE lower(?) OR lower(description) LIKE lower(?)", like, like)
	}
	if in.City != "" {
		query = query.Where("city = ?", in.City)
	}
	if in.Category != "" {
		query = query.Joins("JOIN marketplace_categories mc ON mc.id = marketplace_items.category_id").
			Where("mc.name = ?", in.Category)
	}
	if in.Condition != "" {
		query = query.Where("condition = ?", in.Condition)
	}
	if in.MinPrice != nil {
		query = query.Where("price >= ?", *in.MinPrice)
	}
	if in.MaxPrice != nil {
		query = query.Where("price <= ?", *in.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var items []models.MarketplaceItem
	err := query.Preload("Images").
		Order("created_at DESC").
		Offset((in.Page - 1) * in.Limit).Limit(in.Limit).
		Find(&items).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, items, in.Page, in.Limit, total)
}

func fallbackSearch(ctx iris.Context, in services.SearchPropertiesInput) {
	query := storage.DB.Model(&models.Property{}).
		Where("status = ?", models.PropertyStatusAvailable)

	if in.Query != "" {
		like := "%" + in.Query + "%"
		query = query.Where("lower(title) LIKE lower(?) OR lower(description) LIKE lower(?) OR lower(city) LIKE lower(?)", like, like, like)
	}
	if in.City != "" {
		query = query.Where("city = ?", in.City)
	}
	if in.Type != "" {
		query = query.Where("type = ?", in.Type)
	}
	if in.MinPrice != nil {
		query = query.Where("price >= ?", *in.MinPrice)
	}
	if in.MaxPrice != nil {
		query = query.Where("price <= ?", *in.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var properties []models.Property
	err := query.Preload("Images").
		Order("rating DESC, created_at DESC").
		Offset((in.Page - 1) * in.Limit).Limit(in.Limit).
		Find(&properties).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, properties, in.Page, in.Limit, total)
}
