package entity

import (
	"gorm.io/gorm"
)

type ReviewPhoto struct {
	gorm.Model
	URL       string `gorm:"not null" json:"url"`
	SortOrder int    `gorm:"default:0" json:"sortOrder"`

	ReviewID uint   `gorm:"not null;index" json:"reviewId"`
	Review   Review `json:"-"`
}
