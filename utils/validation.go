package utils

import (
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

type validationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Value string `json:"value,omitempty"`
}

// HandleValidationErrors converts ReadJSON/validator failures into the error
// envelope. Anything that is not a validator error counts as a malformed body.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := make([]validationError, 0, len(errs))
		for _, e := range errs {
			details = append(details, validationError{
				Field: e.Field(),
				Tag:   e.Tag(),
				Value: e.Param(),
			})
		}
		JSONErrorDetails(ctx, iris.StatusBadRequest, CodeValidation, "Validation failed", details)
		return
	}

	JSONError(ctx, iris.StatusBadRequest, CodeValidation, "Invalid request body")
}
