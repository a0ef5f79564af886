package routes

import (
	"errors"
	"strings"
	"time"

	"rentora-server/models"
	"rentora-server/storage"
	"rentora-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Register(ctx iris.Context) {
	var input RegisterInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	email := strings.ToLower(input.Email)

	var existing models.User
	err := storage.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		utils.JSONError(ctx, iris.StatusConflict, utils.CodeEmailExists, "Email is already registered")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.CreateInternalServerError(ctx)
		return
	}

	hashed, hashErr := hashAndSaltPassword(input.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	user := models.User{
		Email:     email,
		Password:  hashed,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Role:      models.RoleUser,
	}
	if err := storage.DB.Create(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	notifySvc.SendWelcomeEmail(&user)

	returnAuthenticatedUser(ctx, &user, iris.StatusCreated)
}

func Login(ctx iris.Context) {
	var input LoginInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	err := storage.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(ctx, iris.StatusUnauthorized, utils.CodeInvalidCredentials, "Invalid email or password")
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if user.IsActive != nil && !*user.IsActive {
		utils.JSONError(ctx, iris.StatusForbidden, utils.CodeForbidden, "Account is deactivated")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		utils.JSONError(ctx, iris.StatusUnauthorized, utils.CodeInvalidCredentials, "Invalid email or password")
		return
	}

	now := time.Now()
	storage.DB.Model(&user).Update("last_login_at", now)

	returnAuthenticatedUser(ctx, &user, iris.StatusOK)
}

// Logout revokes the presented access token for its remaining lifetime.
func Logout(ctx iris.Context) {
	raw := strings.TrimPrefix(ctx.GetHeader("Authorization"), "Bearer ")
	if raw != "" {
		utils.BlacklistAccessToken(raw)
	}
	utils.JSONSuccess(ctx, iris.Map{"message": "Logged out"})
}

// ForgotPassword always answers success so the endpoint cannot be used to
// enumerate registered emails.
func ForgotPassword(ctx iris.Context) {
	var input ForgotPasswordInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	err := storage.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).Error
	if err == nil {
		token, tokenErr := utils.CreateForgotPasswordToken(user.ID, user.Email)
		if tokenErr == nil {
			notifySvc.SendPasswordResetEmail(&user, token)
		}
	}

	utils.JSONSuccess(ctx, iris.Map{"message": "If that email exists, a reset link has been sent"})
}

func ResetPassword(ctx iris.Context) {
	var input ResetPasswordInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.ForgotPasswordToken)

	hashed, hashErr := hashAndSaltPassword(input.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	result := storage.DB.Model(&models.User{}).
		Where("id = ? AND email = ?", claims.ID, claims.Email).
		Update("password", hashed)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.Map{"message": "Password updated"})
}

func hashAndSaltPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func returnAuthenticatedUser(ctx iris.Context, user *models.User, status int) {
	tokenPair, err := utils.CreateTokenPair(user.ID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(status)
	ctx.JSON(iris.Map{
		"success": true,
		"data": iris.Map{
			"user":         user,
			"accessToken":  string(tokenPair.AccessToken),
			"refreshToken": string(tokenPair.RefreshToken),
		},
	})
}

type RegisterInput struct {
	FirstName string `json:"firstName" validate:"required,max=256"`
	LastName  string `json:"lastName" validate:"required,max=256"`
	Email     string `json:"email" validate:"required,max=256,email"`
	Password  string `json:"password" validate:"required,min=8,max=256"`
	Phone     string `json:"phone" validate:"max=20"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Password string `json:"password" validate:"required,min=8,max=256"`
}
