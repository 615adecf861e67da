package service

import (
	"encoding/json"
	"errors"
	"time"

	"breakroom/internal/clock"
	"breakroom/internal/domain"
	"breakroom/internal/models"
	"breakroom/internal/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrBadSchedule = errors.New("end time must be after start time")

// AuctionService owns the auction lifecycle: bidding, the time-driven
// transitions, settlement and claim. Every multi-write path runs in
// one transaction and is guarded by a compare-and-set, so overlapping
// requests and sweeps cannot double-apply.
type AuctionService struct {
	db       *gorm.DB
	clk      clock.Clock
	auctions *repository.AuctionRepository
	items    *repository.ItemRepository
	balances *repository.BalanceRepository
	prizes   *PrizeService
}

func NewAuctionService(db *gorm.DB, clk clock.Clock, auctions *repository.AuctionRepository, items *repository.ItemRepository, balances *repository.BalanceRepository, prizes *PrizeService) *AuctionService {
	return &AuctionService{db: db, clk: clk, auctions: auctions, items: items, balances: balances, prizes: prizes}
}

// CreateAuction schedules an auction for an item. It opens immediately
// when the start time has already passed.
func (s *AuctionService) CreateAuction(itemID uint, startTime, endTime time.Time) (*models.Auction, error) {
	item, err := s.items.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if !endTime.After(startTime) {
		return nil, ErrBadSchedule
	}
	status := domain.AuctionScheduled
	if !startTime.After(s.clk.Now()) {
		status = domain.AuctionActive
	}
	a := &models.Auction{
		ItemID:       item.ID,
		StartTime:    startTime,
		EndTime:      endTime,
		CurrentPrice: item.StartingPrice,
		Status:       status,
	}
	if err := s.auctions.Create(a); err != nil {
		return nil, err
	}
	a.Item = *item
	return a, nil
}

// BidResult reports an accepted bid plus the bidder it displaced, so
// the caller can fire an outbid notification.
type BidResult struct {
	Auction      *models.Auction
	OutbidUserID *uint
}

// PlaceBid validates and applies a bid. The price move is conditioned
// on the price being unchanged since read; a lost race surfaces as
// ErrPriceChanged and the bid log row is never written.
func (s *AuctionService) PlaceBid(auctionID, userID uint, amount int64) (*BidResult, error) {
	now := s.clk.Now()
	var result BidResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		auctions := s.auctions.WithTx(tx)
		a, err := auctions.GetByID(auctionID)
		if err != nil {
			return err
		}
		// The end-time check lives here, not only in the sweeper:
		// status lags until the next sweep pass.
		if a.Status != domain.AuctionActive || !now.Before(a.EndTime) {
			return repository.ErrInvalidState
		}
		if amount <= a.CurrentPrice {
			return repository.ErrBidTooLow
		}
		if a.CurrentHighestBidderID != nil && *a.CurrentHighestBidderID == userID {
			return repository.ErrSelfOutbid
		}
		ok, err := auctions.CompareAndSetPrice(a.ID, a.CurrentPrice, amount, userID)
		if err != nil {
			return err
		}
		if !ok {
			return repository.ErrPriceChanged
		}
		if err := auctions.CreateBid(&models.Bid{AuctionID: a.ID, UserID: userID, Amount: amount}); err != nil {
			return err
		}
		result.OutbidUserID = a.CurrentHighestBidderID
		a.CurrentPrice = amount
		a.CurrentHighestBidderID = &userID
		result.Auction = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SettlementResult describes what one settlement pass did.
type SettlementResult struct {
	Settled       bool  // this caller won the ACTIVE→ENDED flip
	WinnerID      *uint // charged winner, nil if none survived
	AmountCharged int64
	WinnerDropped bool // winner could not cover the price and was cleared
}

// Settle finalizes one due auction: flips it ENDED, charges the winner
// if funds cover the price, or clears the winner if they do not (the
// sale is dropped; the bid log is not consulted for a runner-up). The
// flip and the charge commit or roll back together, so a storage error
// leaves the auction ACTIVE for the next sweep.
func (s *AuctionService) Settle(auctionID uint) (*SettlementResult, error) {
	now := s.clk.Now()
	var result SettlementResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		auctions := s.auctions.WithTx(tx)
		ended, err := auctions.EndDueActive(auctionID, now)
		if err != nil {
			return err
		}
		if !ended {
			// Not active anymore, or not due: another sweep already
			// handled it. Nothing to do.
			return nil
		}
		result.Settled = true
		// Re-read inside the transaction: after the status flip no
		// concurrent bid can move price or bidder.
		a, err := auctions.GetByID(auctionID)
		if err != nil {
			return err
		}
		if a.CurrentHighestBidderID == nil {
			return nil
		}
		winnerID := *a.CurrentHighestBidderID
		err = s.balances.WithTx(tx).TryDebitGamePoints(winnerID, a.CurrentPrice)
		if errors.Is(err, repository.ErrInsufficientFunds) {
			// Funds were spent elsewhere between bid and settlement.
			// Policy: the item goes unsold, no fallback bidder.
			result.WinnerDropped = true
			return auctions.ClearHighestBidder(a.ID)
		}
		if err != nil {
			return err
		}
		result.WinnerID = &winnerID
		result.AmountCharged = a.CurrentPrice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ActivateDue opens every scheduled auction whose start time passed.
func (s *AuctionService) ActivateDue() (int64, error) {
	return s.auctions.ActivateDue(s.clk.Now())
}

// DueForSettlement lists auctions the sweeper should settle now.
func (s *AuctionService) DueForSettlement() ([]models.Auction, error) {
	return s.auctions.DueForSettlement(s.clk.Now())
}

// ClaimResult is what the winner takes home.
type ClaimResult struct {
	Message string      `json:"message"`
	Prize   *DrawnPrize `json:"prize,omitempty"`
	XPBonus int64       `json:"xp_bonus,omitempty"`
}

// Claim materializes the winner's prize, exactly once. The draw and
// all of its mutations are gated by the is_claimed flip inside one
// transaction: a lost race or a crash can never award twice.
func (s *AuctionService) Claim(auctionID, userID uint) (*ClaimResult, error) {
	now := s.clk.Now()
	a, err := s.auctions.GetByID(auctionID)
	if err != nil {
		return nil, err
	}
	if a.Status != domain.AuctionEnded {
		return nil, repository.ErrInvalidState
	}
	if a.CurrentHighestBidderID == nil || *a.CurrentHighestBidderID != userID {
		return nil, repository.ErrNotWinner
	}
	if a.IsClaimed {
		return nil, repository.ErrAlreadyClaimed
	}

	var result ClaimResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		auctions := s.auctions.WithTx(tx)
		won, err := auctions.MarkClaimed(a.ID)
		if err != nil {
			return err
		}
		if !won {
			return repository.ErrAlreadyClaimed
		}
		if a.Item.Kind == domain.ItemKindPlain {
			result.XPBonus = domain.PlainClaimXPBonus
			result.Message = "item claimed"
			_, err := s.balances.WithTx(tx).ApplyDelta(userID, domain.BalanceFieldXP, domain.PlainClaimXPBonus)
			return err
		}
		prize, err := s.prizes.Draw(tx, &a.Item, userID, now)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(prize)
		if err != nil {
			return err
		}
		if err := auctions.SetClaimedPrize(a.ID, datatypes.JSON(payload)); err != nil {
			return err
		}
		result.Prize = prize
		result.Message = "prize claimed"
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Cancel terminates a scheduled or active auction with no settlement.
func (s *AuctionService) Cancel(auctionID uint) error {
	return s.auctions.Cancel(auctionID)
}
