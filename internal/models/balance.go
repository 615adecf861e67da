package models

import (
	"time"

	"gorm.io/gorm"
)

// Balance holds a user's two fungible point balances. Both columns are
// clamped at zero by the ledger; no code path writes them directly.
type Balance struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	GamePoints int64          `gorm:"not null;default:0" json:"game_points"`
	XP         int64          `gorm:"column:xp;not null;default:0" json:"xp"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Balance) TableName() string {
	return "balances"
}
