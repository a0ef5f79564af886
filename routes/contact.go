package routes

import (
	"rentora-server/models"
	"rentora-server/storage"
	"rentora-server/utils"

	"github.com/kataras/iris/v12"
)

// SubmitContact persists a public contact-form submission. No auth.
func SubmitContact(ctx iris.Context) {
	var input ContactInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	submission := models.ContactSubmission{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Subject: input.Subject,
		Message: input.Message,
	}
	if err := storage.DB.Create(&submission).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONCreated(ctx, iris.Map{"message": "Thanks, we will get back to you soon"})
}

type ContactInput struct {
	Name    string `json:"name" validate:"required,max=256"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=20"`
	Subject string `json:"subject" validate:"max=256"`
	Message string `json:"message" validate:"required,max=10000"`
}
