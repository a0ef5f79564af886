package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PriceUnitDaily   = "DAILY"
	PriceUnitWeekly  = "WEEKLY"
	PriceUnitMonthly = "MONTHLY"
	PriceUnitYearly  = "YEARLY"
)

const (
	PropertyStatusPending     = "PENDING_VERIFICATION"
	PropertyStatusAvailable   = "AVAILABLE"
	PropertyStatusUnavailable = "UNAVAILABLE"
	PropertyStatusRented      = "RENTED"
)

type Property struct {
	gorm.Model
	OwnerID     uint    `json:"ownerID" gorm:"not null;index"`
	Title       string  `json:"title" gorm:"not null"`
	Description string  `json:"description" gorm:"type:text"`
	Type        string  `json:"type" gorm:"type:varchar(20);index"` // ROOM, APARTMENT, HOUSE, VILLA, OFFICE, SHOP, LAND, HOSTEL, HOTEL
	Price       float64 `json:"price" gorm:"not null"`
	PriceUnit   string  `json:"priceUnit" gorm:"type:varchar(10);default:MONTHLY"` // DAILY, WEEKLY, MONTHLY, YEARLY
	Bedrooms    *int    `json:"bedrooms"`
	Bathrooms   *int    `json:"bathrooms"`
	AreaSqFt    *int    `json:"areaSqFt"`
	Furnished   bool    `json:"furnished" gorm:"default:false"`

	Address   string   `json:"address"`
	City      string   `json:"city" gorm:"index"`
	State     string   `json:"state"`
	ZipCode   string   `json:"zipCode"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	Amenities datatypes.JSON `json:"amenities" gorm:"type:jsonb"`
	Rules     datatypes.JSON `json:"rules" gorm:"type:jsonb"`

	AvailableFrom *time.Time `json:"availableFrom"`
	AvailableTo   *time.Time `json:"availableTo"`
	MinStayDays   int        `json:"minStayDays" gorm:"default:1"`
	MaxStayDays   *int       `json:"maxStayDays"`

	Status     string `json:"status" gorm:"type:varchar(25);default:PENDING_VERIFICATION;index"`
	IsFeatured bool   `json:"isFeatured" gorm:"default:false"`
	IsVerified bool   `json:"isVerified" gorm:"default:false"`
	ViewCount  int    `json:"viewCount" gorm:"default:0"`

	// Derived from reviews, never written by clients.
	Rating      float64 `json:"rating" gorm:"default:0"`
	ReviewCount int     `json:"reviewCount" gorm:"default:0"`

	Images   []PropertyImage `json:"images,omitempty" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Owner    *User           `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Bookings []Booking       `json:"bookings,omitempty" gorm:"foreignKey:PropertyID"`
	Reviews  []Review        `json:"reviews,omitempty" gorm:"foreignKey:PropertyID"`
}

type PropertyImage struct {
	gorm.Model
	PropertyID uint   `json:"propertyID" gorm:"not null;index"`
	URL        string `json:"url" gorm:"not null"`
	Caption    string `json:"caption"`
	IsPrimary  bool   `json:"isPrimary" gorm:"default:false"`
	Order      int    `json:"order" gorm:"default:0"`
}

// AmenityList decodes the jsonb amenities column; nil decodes to an empty slice.
func (p *Property) AmenityList() []string {
	var amenities []string
	if p.Amenities != nil {
		json.Unmarshal(p.Amenities, &amenities)
	}
	if amenities == nil {
		amenities = []string{}
	}
	return amenities
}

type FavoriteProperty struct {
	gorm.Model
	UserID     uint      `json:"userID" gorm:"not null;index:idx_favorite_user_property,unique"`
	PropertyID uint      `json:"propertyID" gorm:"not null;index:idx_favorite_user_property,unique"`
	Property   *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}
