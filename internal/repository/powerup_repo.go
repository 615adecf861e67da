package repository

import (
	"errors"
	"time"

	"breakroom/internal/domain"
	"breakroom/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPowerUpConsumed = errors.New("power-up already used")
	ErrNotABoost       = errors.New("power-up is not a boost")
	ErrAlreadyActive   = errors.New("boost already activated")
)

type PowerUpRepository struct {
	db *gorm.DB
}

func NewPowerUpRepository(db *gorm.DB) *PowerUpRepository {
	return &PowerUpRepository{db: db}
}

func (r *PowerUpRepository) WithTx(tx *gorm.DB) *PowerUpRepository {
	return &PowerUpRepository{db: tx}
}

func (r *PowerUpRepository) Create(p *models.PowerUp) error {
	return r.db.Create(p).Error
}

func (r *PowerUpRepository) GetOwned(id, ownerID uint) (*models.PowerUp, error) {
	var p models.PowerUp
	if err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PowerUpRepository) ListByOwner(ownerID uint) ([]models.PowerUp, error) {
	var list []models.PowerUp
	err := r.db.Where("owner_id = ? AND is_used = ?", ownerID, false).
		Order("created_at DESC").Find(&list).Error
	return list, err
}

// ActiveBoostTypes returns the boost power types currently running for
// a user, for multiplier resolution.
func (r *PowerUpRepository) ActiveBoostTypes(userID uint, now time.Time) ([]string, error) {
	var types []string
	err := r.db.Model(&models.PowerUp{}).
		Where("owner_id = ? AND is_used = ? AND power_type IN ? AND expires_at IS NOT NULL AND expires_at > ?",
			userID, false, []string{domain.PowerTypeBoost2x, domain.PowerTypeBoost4x}, now).
		Pluck("power_type", &types).Error
	return types, err
}

// Activate opens a boost: stamps the expiry window, once. The guard is
// a conditional UPDATE so a double activation cannot extend the window.
func (r *PowerUpRepository) Activate(id, ownerID uint, expiresAt time.Time) error {
	p, err := r.GetOwned(id, ownerID)
	if err != nil {
		return err
	}
	if !p.IsBoost() {
		return ErrNotABoost
	}
	if p.IsUsed {
		return ErrPowerUpConsumed
	}
	res := r.db.Model(&models.PowerUp{}).
		Where("id = ? AND owner_id = ? AND is_used = ? AND expires_at IS NULL", id, ownerID, false).
		Update("expires_at", expiresAt)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyActive
	}
	return nil
}

// Reassign moves an unused power-up to a new owner (gifting). The
// ownership check rides in the UPDATE predicate.
func (r *PowerUpRepository) Reassign(id, fromID, toID uint) error {
	res := r.db.Model(&models.PowerUp{}).
		Where("id = ? AND owner_id = ? AND is_used = ?", id, fromID, false).
		Update("owner_id", toID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ConsumeUse decrements uses_left and marks the row used when it hits
// zero, in one UPDATE.
func (r *PowerUpRepository) ConsumeUse(id, ownerID uint) error {
	res := r.db.Model(&models.PowerUp{}).
		Where("id = ? AND owner_id = ? AND is_used = ? AND uses_left > 0", id, ownerID, false).
		Updates(map[string]interface{}{
			"uses_left": gorm.Expr("uses_left - 1"),
			"is_used":   gorm.Expr("CASE WHEN uses_left - 1 <= 0 THEN ? ELSE is_used END", true),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPowerUpConsumed
	}
	return nil
}
