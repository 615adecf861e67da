package repository

import (
	"errors"
	"fmt"

	"breakroom/internal/domain"
	"breakroom/internal/models"

	"gorm.io/gorm"
)

var ErrInsufficientFunds = errors.New("insufficient game points")

// BalanceRepository is the single write path for game points and XP.
// Every mutation is a delta applied in one atomic UPDATE so unrelated
// flows (settlement, prizes, purchases, gifts) can never clobber each
// other with stale reads.
type BalanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *BalanceRepository) WithTx(tx *gorm.DB) *BalanceRepository {
	return &BalanceRepository{db: tx}
}

func (r *BalanceRepository) GetByUserID(userID uint) (*models.Balance, error) {
	var b models.Balance
	if err := r.db.Where("user_id = ?", userID).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BalanceRepository) GetOrCreate(userID uint) (*models.Balance, error) {
	b, err := r.GetByUserID(userID)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	b = &models.Balance{UserID: userID}
	if err := r.db.Create(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}

// ApplyDelta adds delta to one balance column, clamped at zero, and
// returns the new value. The clamp and the add happen in a single
// UPDATE; callers never read-modify-write.
func (r *BalanceRepository) ApplyDelta(userID uint, field string, delta int64) (int64, error) {
	if field != domain.BalanceFieldGamePoints && field != domain.BalanceFieldXP {
		return 0, fmt.Errorf("unknown balance field %q", field)
	}
	if _, err := r.GetOrCreate(userID); err != nil {
		return 0, err
	}
	expr := fmt.Sprintf("CASE WHEN %s + ? < 0 THEN 0 ELSE %s + ? END", field, field)
	res := r.db.Model(&models.Balance{}).
		Where("user_id = ?", userID).
		UpdateColumn(field, gorm.Expr(expr, delta, delta))
	if res.Error != nil {
		return 0, res.Error
	}
	b, err := r.GetByUserID(userID)
	if err != nil {
		return 0, err
	}
	if field == domain.BalanceFieldXP {
		return b.XP, nil
	}
	return b.GamePoints, nil
}

// TryDebitGamePoints deducts amount only if the balance covers it.
// The check and the deduction are one conditional UPDATE, so two
// concurrent debits can never both succeed against the same points.
func (r *BalanceRepository) TryDebitGamePoints(userID uint, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("negative debit %d", amount)
	}
	if _, err := r.GetOrCreate(userID); err != nil {
		return err
	}
	res := r.db.Model(&models.Balance{}).
		Where("user_id = ? AND game_points >= ?", userID, amount).
		UpdateColumn("game_points", gorm.Expr("game_points - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientFunds
	}
	return nil
}
