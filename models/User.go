package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser       = "USER"
	RoleHost       = "HOST"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

type User struct {
	gorm.Model
	Email         string     `json:"email" gorm:"uniqueIndex;not null"`
	Password      string     `json:"-" gorm:"not null"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Phone         string     `json:"phone"`
	Avatar        string     `json:"avatar"`
	Role          string     `json:"role" gorm:"type:varchar(20);default:USER;index"` // USER, HOST, ADMIN, SUPER_ADMIN
	EmailVerified bool       `json:"emailVerified" gorm:"default:false"`
	PhoneVerified bool       `json:"phoneVerified" gorm:"default:false"`
	IsActive      *bool      `json:"isActive" gorm:"default:true"`
	LastLoginAt   *time.Time `json:"lastLoginAt"`

	Properties []Property `json:"properties,omitempty" gorm:"foreignKey:OwnerID"`
}

// IsAdmin reports whether the user holds a back-office role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}
