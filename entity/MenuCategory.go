package entity

import (
	"gorm.io/gorm"
)

type MenuCategory struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	SortOrder   int    `gorm:"default:0" json:"sortOrder"`

	RestaurantID uint       `gorm:"not null;index" json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	MenuItems []MenuItem `json:"-"`
}
