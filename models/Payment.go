package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusRefunded  = "REFUNDED"
)

type Payment struct {
	gorm.Model
	BookingID uint    `json:"bookingID" gorm:"not null;index"`
	UserID    uint    `json:"userID" gorm:"not null;index"`
	Amount    float64 `json:"amount" gorm:"not null"`
	Currency  string  `json:"currency" gorm:"type:varchar(5);default:NPR"`
	Status    string  `json:"status" gorm:"type:varchar(10);default:PENDING;index"`
	Method    string  `json:"method"`    // esewa, khalti, bank_transfer, cash
	Reference string  `json:"reference"` // provider transaction reference

	PaidAt     *time.Time `json:"paidAt"`
	RefundedAt *time.Time `json:"refundedAt"`
}
