package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Auction is a time-boxed sale of one item to the highest bidder.
// CurrentPrice and CurrentHighestBidderID only move through the bid
// ledger's compare-and-set; Status only moves through the sweeper,
// claim, or an admin cancel.
type Auction struct {
	ID                     uint           `gorm:"primaryKey" json:"id"`
	ItemID                 uint           `gorm:"not null;index" json:"item_id"`
	StartTime              time.Time      `gorm:"not null;index" json:"start_time"`
	EndTime                time.Time      `gorm:"not null;index" json:"end_time"`
	CurrentPrice           int64          `gorm:"not null" json:"current_price"`
	CurrentHighestBidderID *uint          `gorm:"index" json:"current_highest_bidder_id"`
	Status                 string         `gorm:"size:20;not null;index" json:"status"` // SCHEDULED | ACTIVE | ENDED | CANCELLED
	IsClaimed              bool           `gorm:"not null;default:false" json:"is_claimed"`
	ClaimedPrize           datatypes.JSON `json:"claimed_prize,omitempty"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`

	Item AuctionItem `gorm:"foreignKey:ItemID" json:"item"`
}

func (Auction) TableName() string {
	return "auctions"
}

// Bid is an append-only log row. Bids are never updated or deleted,
// so there is no UpdatedAt / DeletedAt.
type Bid struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuctionID uint      `gorm:"not null;index" json:"auction_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Amount    int64     `gorm:"not null" json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

func (Bid) TableName() string {
	return "bids"
}
