package service

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"breakroom/internal/domain"
	"breakroom/internal/models"
	"breakroom/internal/repository"
	"breakroom/pkg/draw"

	"gorm.io/gorm"
)

var ErrNoPrizeTable = errors.New("item has no prize table")

// DrawnPrize is the outcome of one box draw: the option that came up,
// the boost multiplier in force, and the amount actually credited
// (zero for power-up and nothing prizes).
type DrawnPrize struct {
	Option     models.PrizeOption `json:"option"`
	Multiplier int                `json:"multiplier"`
	Applied    int64              `json:"applied"`
}

// PrizeService draws one prize from a box and converts it into ledger
// mutations or an inventory grant, inside the caller's transaction.
type PrizeService struct {
	balances *repository.BalanceRepository
	powerUps *repository.PowerUpRepository
	boosts   *BoostService

	mu  sync.Mutex
	rng *rand.Rand
}

func NewPrizeService(balances *repository.BalanceRepository, powerUps *repository.PowerUpRepository, boosts *BoostService) *PrizeService {
	return NewPrizeServiceWithRand(balances, powerUps, boosts, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewPrizeServiceWithRand injects the random source; tests seed it.
func NewPrizeServiceWithRand(balances *repository.BalanceRepository, powerUps *repository.PowerUpRepository, boosts *BoostService, rng *rand.Rand) *PrizeService {
	return &PrizeService{balances: balances, powerUps: powerUps, boosts: boosts, rng: rng}
}

// Draw selects one option from the item's prize table and applies it
// for userID. Mystery boxes draw uniformly; power boxes draw by
// weight. Boost multipliers apply to GP/XP prizes only.
func (s *PrizeService) Draw(tx *gorm.DB, item *models.AuctionItem, userID uint, now time.Time) (*DrawnPrize, error) {
	opts := item.PrizeOptions
	if len(opts) == 0 {
		return nil, ErrNoPrizeTable
	}

	var idx int
	var err error
	s.mu.Lock()
	switch item.Kind {
	case domain.ItemKindMysteryBox:
		idx, err = draw.Uniform(s.rng, len(opts))
	default:
		weights := make([]int64, len(opts))
		for i, o := range opts {
			weights[i] = o.Weight
		}
		idx, err = draw.Weighted(s.rng, weights)
	}
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	opt := opts[idx]
	out := &DrawnPrize{Option: opt, Multiplier: 1}

	switch opt.Kind {
	case domain.PrizeKindGamePoints, domain.PrizeKindXP:
		mult, err := s.boosts.MultiplierTx(tx, userID, now)
		if err != nil {
			return nil, err
		}
		out.Multiplier = mult
		out.Applied = opt.Amount * int64(mult)
		field := domain.BalanceFieldGamePoints
		if opt.Kind == domain.PrizeKindXP {
			field = domain.BalanceFieldXP
		}
		if _, err := s.balances.WithTx(tx).ApplyDelta(userID, field, out.Applied); err != nil {
			return nil, err
		}
	case domain.PrizeKindPowerUp:
		uses := opt.Uses
		if uses < 1 {
			uses = 1
		}
		// Boosts drawn from boxes follow the same lazy-activation
		// policy as purchased ones: no expiry until activated.
		p := &models.PowerUp{
			OwnerID:     userID,
			PowerType:   opt.PowerType,
			EffectValue: opt.EffectValue,
			UsesLeft:    uses,
		}
		if err := s.powerUps.WithTx(tx).Create(p); err != nil {
			return nil, err
		}
	case domain.PrizeKindNothing:
		// No mutation.
	}
	return out, nil
}
