package sweeper

import (
	"context"
	"time"

	"breakroom/internal/models"
	"breakroom/internal/service"
	"breakroom/internal/ws"

	"github.com/sirupsen/logrus"
)

// Sweeper drives the time-based auction transitions: a recurring
// background pass that opens due auctions and settles expired ones.
// Passes are re-entrant and may overlap; every transition is guarded
// by a status compare-and-set, so running twice is harmless.
type Sweeper struct {
	auctions *service.AuctionService
	notifs   *service.NotificationService
	hub      *ws.Hub
	interval time.Duration
	log      *logrus.Entry
}

func New(auctions *service.AuctionService, notifs *service.NotificationService, hub *ws.Hub, interval time.Duration) *Sweeper {
	return &Sweeper{
		auctions: auctions,
		notifs:   notifs,
		hub:      hub,
		interval: interval,
		log:      logrus.WithField("component", "sweeper"),
	}
}

// Start runs recurring passes until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		s.RunOnce()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce()
			}
		}
	}()
}

// Stats reports what one pass did.
type Stats struct {
	Activated int64 `json:"activated"`
	Settled   int   `json:"settled"`
	Skipped   int   `json:"skipped"`
	Errors    int   `json:"errors"`
}

// RunOnce performs a single sweep. A failure on one auction is logged
// and left for the next pass; it never aborts the batch. The recover
// keeps a panicking pass from killing the ticker goroutine.
func (s *Sweeper) RunOnce() (stats Stats) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Error("sweep pass panicked")
			stats.Errors++
		}
	}()

	activated, err := s.auctions.ActivateDue()
	if err != nil {
		s.log.WithError(err).Error("activate due auctions")
		stats.Errors++
	}
	stats.Activated = activated
	if activated > 0 && s.hub != nil {
		s.hub.Broadcast(ws.AuctionEvent{Type: "auction_started"})
	}

	due, err := s.auctions.DueForSettlement()
	if err != nil {
		s.log.WithError(err).Error("list due auctions")
		stats.Errors++
		return stats
	}
	for i := range due {
		s.settleOne(&due[i], &stats)
	}
	if stats.Activated > 0 || stats.Settled > 0 {
		s.log.WithFields(logrus.Fields{
			"activated": stats.Activated,
			"settled":   stats.Settled,
			"skipped":   stats.Skipped,
			"errors":    stats.Errors,
		}).Info("sweep complete")
	}
	return stats
}

func (s *Sweeper) settleOne(a *models.Auction, stats *Stats) {
	res, err := s.auctions.Settle(a.ID)
	if err != nil {
		s.log.WithError(err).WithField("auction_id", a.ID).Error("settle auction")
		stats.Errors++
		return
	}
	if !res.Settled {
		stats.Skipped++
		return
	}
	stats.Settled++
	if s.hub != nil {
		s.hub.Broadcast(ws.AuctionEvent{Type: "auction_ended", AuctionID: a.ID, Status: "ENDED"})
	}
	if s.notifs == nil {
		return
	}
	switch {
	case res.WinnerID != nil:
		s.notifs.NotifyAuctionWon(*res.WinnerID, a.ID, res.AmountCharged)
	case res.WinnerDropped && a.CurrentHighestBidderID != nil:
		// The would-be winner's funds evaporated; they see the auction
		// end unclaimed, not an error.
		s.notifs.NotifyAuctionEnded(*a.CurrentHighestBidderID, a.ID)
	}
}
