package service

import (
	"errors"
	"time"

	"breakroom/internal/clock"
	"breakroom/internal/domain"
	"breakroom/internal/models"
	"breakroom/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrUnknownPowerType = errors.New("unknown power type")
	ErrSelfGift         = errors.New("cannot gift to yourself")
	ErrBadAmount        = errors.New("amount must be positive")
)

// CatalogEntry is a purchasable power-up.
type CatalogEntry struct {
	PowerType   string `json:"power_type"`
	PriceGP     int64  `json:"price_gp"`
	EffectValue int64  `json:"effect_value,omitempty"`
	Uses        int    `json:"uses"`
}

// Catalog is the fixed shop inventory, priced in game points.
var Catalog = []CatalogEntry{
	{PowerType: domain.PowerTypeBoost2x, PriceGP: 200, Uses: 1},
	{PowerType: domain.PowerTypeBoost4x, PriceGP: 500, Uses: 1},
	{PowerType: domain.PowerTypeShield, PriceGP: 150, Uses: 1},
	{PowerType: domain.PowerTypeSiphon, PriceGP: 300, EffectValue: 25, Uses: 1},
}

// StoreService covers the non-auction flows that mutate the ledger:
// purchases and gifts. They ride the same atomic delta operations as
// settlement, so they interleave safely with it.
type StoreService struct {
	db       *gorm.DB
	clk      clock.Clock
	balances *repository.BalanceRepository
	powerUps *repository.PowerUpRepository
}

func NewStoreService(db *gorm.DB, clk clock.Clock, balances *repository.BalanceRepository, powerUps *repository.PowerUpRepository) *StoreService {
	return &StoreService{db: db, clk: clk, balances: balances, powerUps: powerUps}
}

func catalogEntry(powerType string) (*CatalogEntry, bool) {
	for i := range Catalog {
		if Catalog[i].PowerType == powerType {
			return &Catalog[i], true
		}
	}
	return nil, false
}

// Purchase debits the price and grants the power-up in one
// transaction. Boosts land unactivated; Activate starts the window.
func (s *StoreService) Purchase(userID uint, powerType string) (*models.PowerUp, error) {
	entry, ok := catalogEntry(powerType)
	if !ok {
		return nil, ErrUnknownPowerType
	}
	var p *models.PowerUp
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.balances.WithTx(tx).TryDebitGamePoints(userID, entry.PriceGP); err != nil {
			return err
		}
		p = &models.PowerUp{
			OwnerID:     userID,
			PowerType:   entry.PowerType,
			EffectValue: entry.EffectValue,
			UsesLeft:    entry.Uses,
		}
		return s.powerUps.WithTx(tx).Create(p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ActivateBoost opens a boost's 24h window. One policy for every
// boost, purchased or box-drawn: expiry is stamped here, never at
// grant time.
func (s *StoreService) ActivateBoost(powerUpID, userID uint) (*models.PowerUp, error) {
	expires := s.clk.Now().Add(time.Duration(domain.BoostDurationHours) * time.Hour)
	if err := s.powerUps.Activate(powerUpID, userID, expires); err != nil {
		return nil, err
	}
	return s.powerUps.GetOwned(powerUpID, userID)
}

// GiftPoints moves game points between users: a conditional debit then
// a clamped credit, in one transaction.
func (s *StoreService) GiftPoints(fromID, toID uint, amount int64) error {
	if fromID == toID {
		return ErrSelfGift
	}
	if amount <= 0 {
		return ErrBadAmount
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		balances := s.balances.WithTx(tx)
		if err := balances.TryDebitGamePoints(fromID, amount); err != nil {
			return err
		}
		_, err := balances.ApplyDelta(toID, domain.BalanceFieldGamePoints, amount)
		return err
	})
}

// GiftPowerUp hands an unused power-up to another user.
func (s *StoreService) GiftPowerUp(powerUpID, fromID, toID uint) error {
	if fromID == toID {
		return ErrSelfGift
	}
	return s.powerUps.Reassign(powerUpID, fromID, toID)
}
