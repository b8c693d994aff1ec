package entity

import (
	"gorm.io/gorm"
)

type MenuItem struct {
	gorm.Model
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	ImageURL    string  `json:"imageUrl"`
	IsAvailable bool    `gorm:"default:true" json:"isAvailable"`
	IsPopular   bool    `gorm:"default:false" json:"isPopular"`

	// Derived aggregates, maintained by services.RatingService only.
	// A nil average means no visible review supplies that value.
	AvgRating             *float64 `json:"avgRating"`
	AvgTasteRating        *float64 `json:"avgTasteRating"`
	AvgQualityRating      *float64 `json:"avgQualityRating"`
	AvgValueRating        *float64 `json:"avgValueRating"`
	AvgPresentationRating *float64 `json:"avgPresentationRating"`
	TotalReviews          int      `gorm:"default:0" json:"totalReviews"`

	MenuCategoryID uint         `gorm:"not null;index" json:"menuCategoryId"`
	MenuCategory   MenuCategory `json:"-"`

	Reviews []Review `json:"-"`
}
