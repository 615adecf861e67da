package handler

import (
	"errors"
	"net/http"
	"strconv"

	"breakroom/internal/domain"
	"breakroom/internal/middleware"
	"breakroom/internal/repository"
	"breakroom/internal/service"
	"breakroom/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuctionHandler struct {
	svc      *service.AuctionService
	auctions *repository.AuctionRepository
	notifs   *service.NotificationService
	hub      *ws.Hub
}

func NewAuctionHandler(svc *service.AuctionService, auctions *repository.AuctionRepository, notifs *service.NotificationService, hub *ws.Hub) *AuctionHandler {
	return &AuctionHandler{svc: svc, auctions: auctions, notifs: notifs, hub: hub}
}

// List returns active auctions with their items.
func (h *AuctionHandler) List(c *gin.Context) {
	list, err := h.auctions.ListByStatus(domain.AuctionActive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"auctions": list})
}

// Get returns one auction with its item and bid history.
func (h *AuctionHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	a, err := h.auctions.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "auction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	bids, err := h.auctions.ListBids(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"auction": a, "bids": bids})
}

type PlaceBidRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

func (h *AuctionHandler) PlaceBid(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.svc.PlaceBid(id, userID, req.Amount)
	if err != nil {
		h.renderBidError(c, err)
		return
	}
	if res.OutbidUserID != nil && h.notifs != nil {
		h.notifs.NotifyOutbid(*res.OutbidUserID, id, req.Amount)
	}
	if h.hub != nil {
		h.hub.Broadcast(ws.AuctionEvent{Type: "bid_accepted", AuctionID: id, CurrentPrice: req.Amount})
	}
	c.JSON(http.StatusOK, gin.H{
		"current_price":  res.Auction.CurrentPrice,
		"highest_bidder": res.Auction.CurrentHighestBidderID,
	})
}

func (h *AuctionHandler) renderBidError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "auction not found"})
	case errors.Is(err, repository.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": "auction is not open for bidding"})
	case errors.Is(err, repository.ErrBidTooLow):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrSelfOutbid):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrPriceChanged):
		c.JSON(http.StatusConflict, gin.H{"error": "price changed, retry with a higher bid"})
	default:
		logrus.WithError(err).Error("place bid")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "bid failed"})
	}
}

func (h *AuctionHandler) Claim(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	res, err := h.svc.Claim(id, userID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "auction not found"})
		case errors.Is(err, repository.ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": "auction has not ended"})
		case errors.Is(err, repository.ErrNotWinner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrAlreadyClaimed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logrus.WithError(err).WithField("auction_id", id).Error("claim")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "claim failed"})
		}
		return
	}
	c.JSON(http.StatusOK, res)
}

func parseID(c *gin.Context, param string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, err
	}
	return uint(v), nil
}
