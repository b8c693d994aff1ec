package entity

import (
	"time"

	"gorm.io/gorm"
)

// Review rates a single dish. One review per user per menu item.
// Sub-ratings are optional; a review missing one still counts toward
// the item's overall average and TotalReviews.
type Review struct {
	gorm.Model
	Rating             float64  `gorm:"not null" json:"rating"` // 1.0 - 5.0
	TasteRating        *float64 `json:"tasteRating"`
	QualityRating      *float64 `json:"qualityRating"`
	ValueRating        *float64 `json:"valueRating"`
	PresentationRating *float64 `json:"presentationRating"`
	Title              string   `json:"title"`
	Content            string   `json:"content"`

	// Moderation. Hidden reviews stay stored but are excluded from
	// every aggregate.
	IsVisible bool `gorm:"default:true" json:"isVisible"`
	IsFlagged bool `gorm:"default:false" json:"isFlagged"`

	HelpfulCount int `gorm:"default:0" json:"helpfulCount"`

	// Set per request for the authenticated viewer; never stored.
	HasVotedHelpful bool `gorm:"-" json:"hasVotedHelpful"`

	OwnerResponse   *string    `json:"ownerResponse,omitempty"`
	OwnerResponseAt *time.Time `json:"ownerResponseAt,omitempty"`

	UserID     uint     `gorm:"not null;uniqueIndex:idx_user_menu_item" json:"userId"`
	User       User     `json:"user"`
	MenuItemID uint     `gorm:"not null;uniqueIndex:idx_user_menu_item" json:"menuItemId"`
	MenuItem   MenuItem `json:"-"`

	Photos       []ReviewPhoto `json:"photos"`
	HelpfulVotes []HelpfulVote `json:"-"`
}
