package routes

import (
	"rentora-server/models"
	"rentora-server/storage"
	"rentora-server/utils"

	"github.com/kataras/iris/v12"
)

func ListPages(ctx iris.Context) {
	var pages []models.Page
	err := storage.DB.Select("id, slug, title").
		Where("is_published = ?", true).
		Order("title ASC").
		Find(&pages).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.JSONSuccess(ctx, pages)
}

func GetPageBySlug(ctx iris.Context) {
	slug := ctx.Params().Get("slug")

	var page models.Page
	err := storage.DB.Where("slug = ? AND is_published = ?", slug, true).First(&page).Error
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	utils.JSONSuccess(ctx, page)
}

// AdminUpsertPage creates or updates a CMS page by slug.
func AdminUpsertPage(ctx iris.Context) {
	var input UpsertPageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var page models.Page
	err := storage.DB.Where("slug = ?", input.Slug).First(&page).Error
	if err == nil {
		updates := map[string]interface{}{
			"title":        input.Title,
			"content":      input.Content,
			"is_published": input.IsPublished,
		}
		if dbErr := storage.DB.Model(&page).Updates(updates).Error; dbErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		utils.JSONSuccess(ctx, page)
		return
	}

	page = models.Page{
		Slug:        input.Slug,
		Title:       input.Title,
		Content:     input.Content,
		IsPublished: input.IsPublished,
	}
	if dbErr := storage.DB.Create(&page).Error; dbErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.JSONCreated(ctx, page)
}

type UpsertPageInput struct {
	Slug        string `json:"slug" validate:"required,max=128"`
	Title       string `json:"title" validate:"required,max=256"`
	Content     string `json:"content" validate:"max=100000"`
	IsPublished bool   `json:"isPublished"`
}
