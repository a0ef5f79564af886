package models

import (
	"time"

	"gorm.io/gorm"
)

type ContactSubmission struct {
	gorm.Model
	Name       string     `json:"name" gorm:"not null"`
	Email      string     `json:"email" gorm:"not null"`
	Phone      string     `json:"phone"`
	Subject    string     `json:"subject"`
	Message    string     `json:"message" gorm:"type:text"`
	IsResolved bool       `json:"isResolved" gorm:"default:false;index"`
	ResolvedAt *time.Time `json:"resolvedAt"`
}
