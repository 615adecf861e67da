package models

import (
	"time"

	"breakroom/internal/domain"

	"gorm.io/gorm"
)

// PowerUp is an inventory row: a boost or a consumable. Boosts carry no
// expiry until activated; activation stamps ExpiresAt.
type PowerUp struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OwnerID     uint           `gorm:"not null;index" json:"owner_id"`
	PowerType   string         `gorm:"size:30;not null;index" json:"power_type"`
	EffectValue int64          `gorm:"not null;default:0" json:"effect_value"`
	UsesLeft    int            `gorm:"not null;default:1" json:"uses_left"`
	ExpiresAt   *time.Time     `gorm:"index" json:"expires_at"`
	IsUsed      bool           `gorm:"not null;default:false;index" json:"is_used"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (PowerUp) TableName() string {
	return "power_ups"
}

func (p *PowerUp) IsBoost() bool {
	return p.PowerType == domain.PowerTypeBoost2x || p.PowerType == domain.PowerTypeBoost4x
}

// IsActiveBoost reports whether this row currently multiplies prize
// amounts: an unconsumed boost whose activation window covers now.
func (p *PowerUp) IsActiveBoost(now time.Time) bool {
	return p.IsBoost() && !p.IsUsed && p.ExpiresAt != nil && p.ExpiresAt.After(now)
}
