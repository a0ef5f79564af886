package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ServiceBookingStatusPending    = "PENDING"
	ServiceBookingStatusConfirmed  = "CONFIRMED"
	ServiceBookingStatusInProgress = "IN_PROGRESS"
	ServiceBookingStatusCompleted  = "COMPLETED"
	ServiceBookingStatusCancelled  = "CANCELLED"
)

type ServiceCategory struct {
	gorm.Model
	Name        string `json:"name" gorm:"not null;uniqueIndex"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Order       int    `json:"order" gorm:"default:0"`
	IsActive    bool   `json:"isActive" gorm:"default:true"`

	Services []Service `json:"services,omitempty" gorm:"foreignKey:CategoryID"`
}

type Service struct {
	gorm.Model
	CategoryID    uint     `json:"categoryID" gorm:"not null;index"`
	Name          string   `json:"name" gorm:"not null"`
	Description   string   `json:"description" gorm:"type:text"`
	PriceRangeMin *float64 `json:"priceRangeMin"`
	PriceRangeMax *float64 `json:"priceRangeMax"`
	PriceUnit     string   `json:"priceUnit"` // per_hour, per_visit, per_job
	IsActive      bool     `json:"isActive" gorm:"default:true"`

	Category  *ServiceCategory  `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Providers []ServiceProvider `json:"providers,omitempty" gorm:"foreignKey:ServiceID"`
}

type ServiceProvider struct {
	gorm.Model
	ServiceID       uint   `json:"serviceID" gorm:"not null;index"`
	UserID          uint   `json:"userID" gorm:"not null;index"`
	Name            string `json:"name" gorm:"not null"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	City            string `json:"city" gorm:"index"`
	YearsExperience int    `json:"yearsExperience" gorm:"default:0"`
	IsVerified      bool   `json:"isVerified" gorm:"default:false"`
	IsActive        bool   `json:"isActive" gorm:"default:true"`

	// Derived from service-booking reviews.
	Rating      float64 `json:"rating" gorm:"default:0"`
	ReviewCount int     `json:"reviewCount" gorm:"default:0"`

	Service *Service `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
}

type ServiceBooking struct {
	gorm.Model
	ServiceID     uint      `json:"serviceID" gorm:"not null;index"`
	ProviderID    uint      `json:"providerID" gorm:"not null;index"`
	UserID        uint      `json:"userID" gorm:"not null;index"`
	ScheduledDate time.Time `json:"scheduledDate" gorm:"not null"`
	ScheduledTime string    `json:"scheduledTime"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	Notes         string    `json:"notes"`
	Status        string    `json:"status" gorm:"type:varchar(15);default:PENDING;index"`

	CancellationReason string     `json:"cancellationReason"`
	CancelledAt        *time.Time `json:"cancelledAt"`
	CompletedAt        *time.Time `json:"completedAt"`

	Service  *Service         `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	Provider *ServiceProvider `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	User     *User            `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
