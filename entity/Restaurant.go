package entity

import (
	"gorm.io/gorm"
)

type Restaurant struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	City        string `json:"city"`
	CuisineType string `json:"cuisineType"`
	ImageURL    string `json:"imageUrl"`
	IsActive    bool   `gorm:"default:true" json:"isActive"`
	IsVerified  bool   `gorm:"default:false" json:"isVerified"`

	// Derived from menu item aggregates, never written by handlers directly.
	// Null AvgRating means no item has any visible review yet.
	AvgRating    *float64 `json:"avgRating"`
	TotalReviews int      `gorm:"default:0" json:"totalReviews"`

	OwnerID uint `json:"ownerId"`
	Owner   User `json:"-"`

	Categories []MenuCategory `json:"-"`
}
