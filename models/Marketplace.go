package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MarketplaceStatusActive   = "ACTIVE"
	MarketplaceStatusSold     = "SOLD"
	MarketplaceStatusReserved = "RESERVED"
	MarketplaceStatusDeleted  = "DELETED"
)

type MarketplaceCategory struct {
	gorm.Model
	Name        string `json:"name" gorm:"not null;uniqueIndex"`
	Description string `json:"description"`
	Slug        string `json:"slug" gorm:"uniqueIndex"`
	IsActive    bool   `json:"isActive" gorm:"default:true"`
}

type MarketplaceItem struct {
	gorm.Model
	SellerID      uint     `json:"sellerID" gorm:"not null;index"`
	CategoryID    uint     `json:"categoryID" gorm:"not null;index"`
	Title         string   `json:"title" gorm:"not null"`
	Description   string   `json:"description" gorm:"type:text"`
	Condition     string   `json:"condition" gorm:"type:varchar(15)"` // NEW, LIKE_NEW, EXCELLENT, GOOD, FAIR, POOR
	Price         float64  `json:"price" gorm:"not null"`
	OriginalPrice *float64 `json:"originalPrice"`
	IsNegotiable  bool     `json:"isNegotiable" gorm:"default:false"`
	City          string   `json:"city" gorm:"index"`
	Address       string   `json:"address"`
	Status        string   `json:"status" gorm:"type:varchar(10);default:ACTIVE;index"`
	ViewCount     int      `json:"viewCount" gorm:"default:0"`

	SoldAt *time.Time `json:"soldAt"`

	Category *MarketplaceCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Seller   *User                `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Images   []MarketplaceImage   `json:"images,omitempty" gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
}

type MarketplaceImage struct {
	gorm.Model
	ItemID    uint   `json:"itemID" gorm:"not null;index"`
	URL       string `json:"url" gorm:"not null"`
	Caption   string `json:"caption"`
	IsPrimary bool   `json:"isPrimary" gorm:"default:false"`
	Order     int    `json:"order" gorm:"default:0"`
}
