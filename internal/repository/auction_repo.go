package repository

import (
	"errors"
	"time"

	"breakroom/internal/domain"
	"breakroom/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Bid/claim errors surfaced to callers. All are recoverable; the
// client decides whether to retry.
var (
	ErrInvalidState   = errors.New("auction is not in a state that allows this action")
	ErrBidTooLow      = errors.New("bid must exceed the current price")
	ErrSelfOutbid     = errors.New("already the highest bidder")
	ErrPriceChanged   = errors.New("price changed while placing bid")
	ErrNotWinner      = errors.New("not the winning bidder")
	ErrAlreadyClaimed = errors.New("prize already claimed")
)

// AuctionRepository owns auction rows and the bid log. Price, status
// and claim moves are compare-and-set UPDATEs whose RowsAffected tells
// the caller whether it won the transition.
type AuctionRepository struct {
	db *gorm.DB
}

func NewAuctionRepository(db *gorm.DB) *AuctionRepository {
	return &AuctionRepository{db: db}
}

func (r *AuctionRepository) WithTx(tx *gorm.DB) *AuctionRepository {
	return &AuctionRepository{db: tx}
}

func (r *AuctionRepository) Create(a *models.Auction) error {
	return r.db.Create(a).Error
}

func (r *AuctionRepository) GetByID(id uint) (*models.Auction, error) {
	var a models.Auction
	if err := r.db.Preload("Item").Preload("Item.PrizeOptions").First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AuctionRepository) ListByStatus(status string) ([]models.Auction, error) {
	var list []models.Auction
	err := r.db.Preload("Item").Where("status = ?", status).Order("end_time").Find(&list).Error
	return list, err
}

func (r *AuctionRepository) ListBids(auctionID uint) ([]models.Bid, error) {
	var bids []models.Bid
	err := r.db.Where("auction_id = ?", auctionID).Order("created_at").Find(&bids).Error
	return bids, err
}

// CreateBid appends to the bid log. Rows are immutable once written.
func (r *AuctionRepository) CreateBid(b *models.Bid) error {
	return r.db.Create(b).Error
}

// CompareAndSetPrice moves the price to amount for bidderID only if the
// auction is still active and the price has not moved since prevPrice
// was read. Returns false when another bid won the race.
func (r *AuctionRepository) CompareAndSetPrice(auctionID uint, prevPrice, amount int64, bidderID uint) (bool, error) {
	res := r.db.Model(&models.Auction{}).
		Where("id = ? AND status = ? AND current_price = ?", auctionID, domain.AuctionActive, prevPrice).
		Updates(map[string]interface{}{
			"current_price":             amount,
			"current_highest_bidder_id": bidderID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ActivateDue flips every scheduled auction whose start time has
// passed. Pure status flip, no side effects.
func (r *AuctionRepository) ActivateDue(now time.Time) (int64, error) {
	res := r.db.Model(&models.Auction{}).
		Where("status = ? AND start_time <= ?", domain.AuctionScheduled, now).
		Update("status", domain.AuctionActive)
	return res.RowsAffected, res.Error
}

// DueForSettlement lists active auctions past their end time.
func (r *AuctionRepository) DueForSettlement(now time.Time) ([]models.Auction, error) {
	var list []models.Auction
	err := r.db.Where("status = ? AND end_time <= ?", domain.AuctionActive, now).
		Order("end_time").Find(&list).Error
	return list, err
}

// EndDueActive is the settlement idempotency guard: only the caller
// that wins this flip may charge the winner. Overlapping sweeps see
// zero rows and skip.
func (r *AuctionRepository) EndDueActive(auctionID uint, now time.Time) (bool, error) {
	res := r.db.Model(&models.Auction{}).
		Where("id = ? AND status = ? AND end_time <= ?", auctionID, domain.AuctionActive, now).
		Update("status", domain.AuctionEnded)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ClearHighestBidder drops the winner after a failed settlement debit.
// The bid log is deliberately not consulted for a runner-up.
func (r *AuctionRepository) ClearHighestBidder(auctionID uint) error {
	return r.db.Model(&models.Auction{}).
		Where("id = ?", auctionID).
		Update("current_highest_bidder_id", nil).Error
}

// Cancel terminates a scheduled or active auction with no settlement.
func (r *AuctionRepository) Cancel(auctionID uint) error {
	res := r.db.Model(&models.Auction{}).
		Where("id = ? AND status IN ?", auctionID, []string{domain.AuctionScheduled, domain.AuctionActive}).
		Update("status", domain.AuctionCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidState
	}
	return nil
}

// MarkClaimed wins or loses the exactly-once claim race.
func (r *AuctionRepository) MarkClaimed(auctionID uint) (bool, error) {
	res := r.db.Model(&models.Auction{}).
		Where("id = ? AND status = ? AND is_claimed = ?", auctionID, domain.AuctionEnded, false).
		Update("is_claimed", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *AuctionRepository) SetClaimedPrize(auctionID uint, prize datatypes.JSON) error {
	return r.db.Model(&models.Auction{}).
		Where("id = ?", auctionID).
		Update("claimed_prize", prize).Error
}
