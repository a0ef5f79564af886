package utils

import (
	"github.com/kataras/iris/v12"
)

// Stable machine-readable error codes returned inside the response envelope.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidBooking     = "INVALID_BOOKING"
	CodeInvalidDates       = "INVALID_DATES"
	CodeMinStay            = "MIN_STAY"
	CodeMaxStay            = "MAX_STAY"
	CodeNotAvailable       = "NOT_AVAILABLE"
	CodeInvalidStatus      = "INVALID_STATUS"
	CodeNotEligible        = "NOT_ELIGIBLE"
	CodeAlreadyReviewed    = "ALREADY_REVIEWED"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeDuplicateEntry     = "DUPLICATE_ENTRY"
	CodeInternal           = "INTERNAL_ERROR"
)

type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

// JSONSuccess writes the standard success envelope.
func JSONSuccess(ctx iris.Context, data interface{}) {
	ctx.JSON(iris.Map{"success": true, "data": data})
}

// JSONCreated writes a 201 success envelope.
func JSONCreated(ctx iris.Context, data interface{}) {
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": data})
}

// JSONPage writes a success envelope with pagination meta.
func JSONPage(ctx iris.Context, data interface{}, page, limit int, total int64) {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	ctx.JSON(iris.Map{
		"success": true,
		"data":    data,
		"meta": PageMeta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasMore:    int64(page*limit) < total,
		},
	})
}

// JSONError writes the standard error envelope with the given status.
func JSONError(ctx iris.Context, status int, code, message string) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{
		"success": false,
		"error":   iris.Map{"code": code, "message": message},
	})
}

// JSONErrorDetails writes the error envelope with per-field details.
func JSONErrorDetails(ctx iris.Context, status int, code, message string, details interface{}) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{
		"success": false,
		"error":   iris.Map{"code": code, "message": message, "details": details},
	})
}

func CreateNotFound(ctx iris.Context) {
	JSONError(ctx, iris.StatusNotFound, CodeNotFound, "Resource not found")
}

func CreateForbidden(ctx iris.Context) {
	JSONError(ctx, iris.StatusForbidden, CodeForbidden, "Not authorized")
}

// CreateInternalServerError masks the failure detail; internals go to the log,
// never to the client.
func CreateInternalServerError(ctx iris.Context) {
	JSONError(ctx, iris.StatusInternalServerError, CodeInternal, "Internal server error")
}
