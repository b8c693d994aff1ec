package entity

import (
	"gorm.io/gorm"
)

// HelpfulVote is one vote per user per review. Votes only move
// Review.HelpfulCount, they never touch rating aggregates.
type HelpfulVote struct {
	gorm.Model
	UserID   uint   `gorm:"not null;uniqueIndex:idx_user_review_vote" json:"userId"`
	User     User   `json:"-"`
	ReviewID uint   `gorm:"not null;uniqueIndex:idx_user_review_vote" json:"reviewId"`
	Review   Review `json:"-"`
}
