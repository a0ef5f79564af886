package routes

import (
	"time"

	"rentora-server/models"
	"rentora-server/storage"
	"rentora-server/utils"

	"github.com/kataras/iris/v12"
)

func ListNotifications(ctx iris.Context) {
	actor := utils.ActorFromContext(ctx)

	page := ctx.URLParamIntDefault("page", 1)
	limit := ctx.URLParamIntDefault("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := storage.DB.Model(&models.Notification{}).Where("user_id = ?", actor.ID)
	if ctx.URLParam("unread") == "true" {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var unread int64
	storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", actor.ID, false).
		Count(&unread)

	var notifications []models.Notification
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&notifications).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	ctx.JSON(iris.Map{
		"success": true,
		"data":    notifications,
		"meta": iris.Map{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"totalPages":  totalPages,
			"hasMore":     int64(page*limit) < total,
			"unreadCount": unread,
		},
	})
}

func MarkNotificationRead(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)

	now := time.Now()
	result := storage.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, actor.ID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.Map{"message": "Notification marked read"})
}

func MarkAllNotificationsRead(ctx iris.Context) {
	actor := utils.ActorFromContext(ctx)

	now := time.Now()
	err := storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", actor.ID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.Map{"message": "All notifications marked read"})
}

func DeleteNotification(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)

	result := storage.DB.Unscoped().
		Where("id = ? AND user_id = ?", id, actor.ID).
		Delete(&models.Notification{})
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.Map{"message": "Notification deleted"})
}
