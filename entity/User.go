package entity

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `json:"-"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	Bio       string `json:"bio"`
	Role      string `gorm:"not null;default:user" json:"role"` // user | owner | admin

	// Relations, preload only when needed
	RestaurantsOwned []Restaurant  `gorm:"foreignKey:OwnerID" json:"-"`
	Reviews          []Review      `json:"-"`
	HelpfulVotes     []HelpfulVote `json:"-"`
}
