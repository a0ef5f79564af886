package routes

import (
	"errors"
	"fmt"
	"time"

	"rentora-server/models"
	"rentora-server/services"
	"rentora-server/storage"
	"rentora-server/utils"

	"github.com/kataras/iris/v12"
)

func CreateBooking(ctx iris.Context) {
	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	checkIn, err := time.Parse(time.RFC3339, input.CheckIn)
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, utils.CodeInvalidDates, "checkIn must be an RFC 3339 timestamp")
		return
	}
	checkOut, err := time.Parse(time.RFC3339, input.CheckOut)
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, utils.CodeInvalidDates, "checkOut must be an RFC 3339 timestamp")
		return
	}

	actor := utils.ActorFromContext(ctx)

	booking, svcErr := bookingSvc.Create(actor.ID, services.CreateBookingInput{
		PropertyID:      input.PropertyID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		GuestsCount:     input.GuestsCount,
		SpecialRequests: input.SpecialRequests,
	})
	if svcErr != nil {
		writeBookingError(ctx, svcErr)
		return
	}

	var guest models.User
	var property models.Property
	storage.DB.First(&guest, booking.GuestID)
	storage.DB.First(&property, booking.PropertyID)
	notifySvc.NotifyBookingRequested(booking, guest.FirstName, property.Title)

	utils.JSONCreated(ctx, booking)
}

// MyBookings lists the caller's bookings as guest.
func MyBookings(ctx iris.Context) {
	actor := utils.ActorFromContext(ctx)

	query := storage.DB.Preload("Property").Preload("Property.Images").
		Where("guest_id = ?", actor.ID)
	if status := ctx.URLParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Order("created_at DESC").Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.JSONSuccess(ctx, bookings)
}

// HostBookings lists bookings on the caller's properties.
func HostBookings(ctx iris.Context) {
	actor := utils.ActorFromContext(ctx)

	query := storage.DB.Preload("Property").Preload("Guest").
		Where("host_id = ?", actor.ID)
	if status := ctx.URLParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Order("created_at DESC").Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.JSONSuccess(ctx, bookings)
}

func GetBooking(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var booking models.Booking
	dbErr := storage.DB.Preload("Property").Preload("Property.Images").
		Preload("Guest").Preload("Payments").
		First(&booking, id).Error
	if dbErr != nil {
		utils.CreateNotFound(ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)
	if !utils.Can(actor, utils.ActionView, &booking) {
		utils.CreateForbidden(ctx)
		return
	}

	utils.JSONSuccess(ctx, booking)
}

func ConfirmBooking(ctx iris.Context) {
	transitionBooking(ctx, func(actor utils.Actor, id uint) (*models.Booking, error) {
		booking, err := bookingSvc.Confirm(actor, id)
		if err != nil {
			return nil, err
		}

		var property models.Property
		var guest models.User
		storage.DB.First(&property, booking.PropertyID)
		storage.DB.First(&guest, booking.GuestID)
		notifySvc.NotifyBookingStatus(booking, property.Title)
		notifySvc.NotifyBookingConfirmedEmail(&guest, property.Title)
		return booking, nil
	})
}

func CancelBooking(ctx iris.Context) {
	// The body is optional; an absent or malformed one just means no reason.
	var input CancelBookingInput
	_ = ctx.ReadJSON(&input)

	transitionBooking(ctx, func(actor utils.Actor, id uint) (*models.Booking, error) {
		booking, err := bookingSvc.Cancel(actor, id, input.Reason)
		if err != nil {
			return nil, err
		}

		var property models.Property
		storage.DB.First(&property, booking.PropertyID)
		notifySvc.NotifyBookingStatus(booking, property.Title)
		return booking, nil
	})
}

func CheckInBooking(ctx iris.Context) {
	transitionBooking(ctx, bookingSvc.CheckIn)
}

func CheckOutBooking(ctx iris.Context) {
	transitionBooking(ctx, bookingSvc.CheckOut)
}

func RefundBooking(ctx iris.Context) {
	transitionBooking(ctx, func(actor utils.Actor, id uint) (*models.Booking, error) {
		booking, err := bookingSvc.Refund(actor, id)
		if err != nil {
			return nil, err
		}

		var property models.Property
		storage.DB.First(&property, booking.PropertyID)
		notifySvc.NotifyBookingStatus(booking, property.Title)
		return booking, nil
	})
}

func transitionBooking(ctx iris.Context, apply func(utils.Actor, uint) (*models.Booking, error)) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)
	booking, svcErr := apply(actor, id)
	if svcErr != nil {
		writeBookingError(ctx, svcErr)
		return
	}
	utils.JSONSuccess(ctx, booking)
}

// writeBookingError maps service errors to the envelope's stable codes.
func writeBookingError(ctx iris.Context, err error) {
	var minStay *services.MinStayError
	var maxStay *services.MaxStayError

	switch {
	case errors.Is(err, services.ErrInvalidDates):
		utils.JSONError(ctx, iris.StatusBadRequest, utils.CodeInvalidDates, "Check-out must be after check-in")
	case errors.Is(err, services.ErrSelfBooking):
		utils.JSONError(ctx, iris.StatusBadRequest, utils.CodeInvalidBooking, "You cannot book your own property")
	case errors.Is(err, services.ErrNotAvailable):
		utils.JSONError(ctx, iris.StatusConflict, utils.CodeNotAvailable, "Property is not available for the selected dates")
	case errors.As(err, &minStay):
		utils.JSONError(ctx, iris.StatusBadRequest, utils.CodeMinStay,
			fmt.Sprintf("Minimum stay is %d days", minStay.Required))
	case errors.As(err, &maxStay):
		utils.JSONError(ctx, iris.StatusBadRequest, utils.CodeMaxStay,
			fmt.Sprintf("Maximum stay is %d days", maxStay.Limit))
	case errors.Is(err, services.ErrInvalidStatus):
		utils.JSONError(ctx, iris.StatusBadRequest, utils.CodeInvalidStatus, "Booking status does not allow this transition")
	case errors.Is(err, services.ErrForbidden):
		utils.CreateForbidden(ctx)
	case errors.Is(err, services.ErrPropertyNotFound), errors.Is(err, services.ErrBookingNotFound):
		utils.CreateNotFound(ctx)
	default:
		utils.CreateInternalServerError(ctx)
	}
}

type CreateBookingInput struct {
	PropertyID      uint   `json:"propertyId" validate:"required"`
	CheckIn         string `json:"checkIn" validate:"required"`
	CheckOut        string `json:"checkOut" validate:"required"`
	GuestsCount     int    `json:"guestsCount" validate:"omitempty,min=1,max=50"`
	SpecialRequests string `json:"specialRequests" validate:"max=2000"`
}

type CancelBookingInput struct {
	Reason string `json:"reason" validate:"max=1000"`
}
