package models

import (
	"time"

	"gorm.io/gorm"
)

// AuctionItem is the thing being sold. Box kinds carry a prize table;
// plain items award a flat XP bonus on claim.
type AuctionItem struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"size:128;not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	StartingPrice int64          `gorm:"not null" json:"starting_price"`
	Kind          string         `gorm:"size:20;not null;index" json:"kind"` // PLAIN | MYSTERY_BOX | POWER_BOX
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	PrizeOptions []PrizeOption `gorm:"foreignKey:ItemID" json:"prize_options,omitempty"`
}

func (AuctionItem) TableName() string {
	return "auction_items"
}

// PrizeOption is one entry in a box's prize table. Weight is ignored
// for mystery boxes, which draw uniformly over exactly three options.
type PrizeOption struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ItemID      uint   `gorm:"not null;index" json:"item_id"`
	Kind        string `gorm:"size:20;not null" json:"kind"` // GP | XP | POWER_UP | NOTHING
	Amount      int64  `gorm:"not null;default:0" json:"amount"`
	PowerType   string `gorm:"size:30" json:"power_type,omitempty"`
	EffectValue int64  `gorm:"not null;default:0" json:"effect_value,omitempty"`
	Uses        int    `gorm:"not null;default:1" json:"uses,omitempty"`
	Weight      int64  `gorm:"not null;default:1" json:"weight"`
}

func (PrizeOption) TableName() string {
	return "prize_options"
}
