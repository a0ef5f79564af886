package models

import "gorm.io/gorm"

// Review targets exactly one of PropertyID or ServiceBookingID. A reviewer may
// review a given property at most once.
type Review struct {
	gorm.Model
	ReviewerID       uint   `json:"reviewerID" gorm:"not null;index:idx_review_reviewer_property,unique"`
	RevieweeID       uint   `json:"revieweeID" gorm:"not null;index"` // property owner or service provider user
	PropertyID       *uint  `json:"propertyID" gorm:"index:idx_review_reviewer_property,unique"`
	ServiceBookingID *uint  `json:"serviceBookingID" gorm:"index"`
	Rating           int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment          string `json:"comment" gorm:"type:text"`
	IsVerified       bool   `json:"isVerified" gorm:"default:false"` // linked to a completed stay or service

	Reviewer       *User           `json:"reviewer,omitempty" gorm:"foreignKey:ReviewerID"`
	Property       *Property       `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	ServiceBooking *ServiceBooking `json:"serviceBooking,omitempty" gorm:"foreignKey:ServiceBookingID"`
}
