package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Notification struct {
	gorm.Model
	UserID  uint           `json:"userID" gorm:"not null;index"`
	Type    string         `json:"type"` // booking_request, booking_status, review, message, system
	Title   string         `json:"title"`
	Message string         `json:"message" gorm:"type:text"`
	Data    datatypes.JSON `json:"data" gorm:"type:jsonb"`
	IsRead  bool           `json:"isRead" gorm:"default:false;index"`
	ReadAt  *time.Time     `json:"readAt"`
}
