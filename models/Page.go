package models

import "gorm.io/gorm"

type Page struct {
	gorm.Model
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	Title       string `json:"title" gorm:"not null"`
	Content     string `json:"content" gorm:"type:text"`
	IsPublished bool   `json:"isPublished" gorm:"default:false"`
}
