package routes

import (
	"errors"

	"rentora-server/models"
	"rentora-server/storage"
	"rentora-server/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func GetProfile(ctx iris.Context) {
	actor := utils.ActorFromContext(ctx)

	var user models.User
	if err := storage.DB.First(&user, actor.ID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	utils.JSONSuccess(ctx, user)
}

func UpdateProfile(ctx iris.Context) {
	var input UpdateProfileInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)

	var user models.User
	if err := storage.DB.First(&user, actor.ID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	updates := map[string]interface{}{}
	if input.FirstName != nil {
		updates["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		updates["last_name"] = *input.LastName
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Avatar != nil {
		updates["avatar"] = *input.Avatar
	}
	if len(updates) > 0 {
		if err := storage.DB.Model(&user).Updates(updates).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	utils.JSONSuccess(ctx, user)
}

func ChangePassword(ctx iris.Context) {
	var input ChangePasswordInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)

	var user models.User
	if err := storage.DB.First(&user, actor.ID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)) != nil {
		utils.JSONError(ctx, iris.StatusUnauthorized, utils.CodeInvalidCredentials, "Current password is incorrect")
		return
	}

	hashed, hashErr := hashAndSaltPassword(input.NewPassword)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := storage.DB.Model(&user).Update("password", hashed).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.Map{"message": "Password changed"})
}

func AddFavorite(ctx iris.Context) {
	actor := utils.ActorFromContext(ctx)
	propertyID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var property models.Property
	if dbErr := storage.DB.First(&property, propertyID).Error; dbErr != nil {
		utils.CreateNotFound(ctx)
		return
	}

	favorite := models.FavoriteProperty{UserID: actor.ID, PropertyID: propertyID}
	if dbErr := storage.DB.Create(&favorite).Error; dbErr != nil {
		// The composite unique index makes a second add a no-op.
		var existing models.FavoriteProperty
		if storage.DB.Where("user_id = ? AND property_id = ?", actor.ID, propertyID).First(&existing).Error == nil {
			utils.JSONSuccess(ctx, existing)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONCreated(ctx, favorite)
}

func RemoveFavorite(ctx iris.Context) {
	actor := utils.ActorFromContext(ctx)
	propertyID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	result := storage.DB.Unscoped().
		Where("user_id = ? AND property_id = ?", actor.ID, propertyID).
		Delete(&models.FavoriteProperty{})
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.Map{"message": "Removed from favorites"})
}

func ListFavorites(ctx iris.Context) {
	actor := utils.ActorFromContext(ctx)

	var favorites []models.FavoriteProperty
	err := storage.DB.Preload("Property").Preload("Property.Images").
		Where("user_id = ?", actor.ID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, favorites)
}

type UpdateProfileInput struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=256"`
	LastName  *string `json:"lastName" validate:"omitempty,max=256"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
	Avatar    *string `json:"avatar" validate:"omitempty,max=2048"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=256"`
}
