package service

import (
	"time"

	"breakroom/internal/domain"
	"breakroom/internal/repository"

	"gorm.io/gorm"
)

// BoostService resolves the current prize multiplier for a user.
// Multipliers never stack: an active 4x wins outright over an active
// 2x, so the result is always 1, 2 or 4.
type BoostService struct {
	powerUps *repository.PowerUpRepository
}

func NewBoostService(powerUps *repository.PowerUpRepository) *BoostService {
	return &BoostService{powerUps: powerUps}
}

func (s *BoostService) Multiplier(userID uint, now time.Time) (int, error) {
	return s.multiplier(s.powerUps, userID, now)
}

// MultiplierTx resolves against an open transaction so prize
// application sees a consistent snapshot.
func (s *BoostService) MultiplierTx(tx *gorm.DB, userID uint, now time.Time) (int, error) {
	return s.multiplier(s.powerUps.WithTx(tx), userID, now)
}

func (s *BoostService) multiplier(repo *repository.PowerUpRepository, userID uint, now time.Time) (int, error) {
	types, err := repo.ActiveBoostTypes(userID, now)
	if err != nil {
		return 1, err
	}
	mult := 1
	for _, t := range types {
		switch t {
		case domain.PowerTypeBoost4x:
			return 4, nil
		case domain.PowerTypeBoost2x:
			mult = 2
		}
	}
	return mult, nil
}
