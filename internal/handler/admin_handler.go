package handler

import (
	"errors"
	"net/http"
	"time"

	"breakroom/internal/models"
	"breakroom/internal/repository"
	"breakroom/internal/service"
	"breakroom/internal/sweeper"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AdminHandler covers item/auction management and the cron-facing
// sweep trigger. API only; there is no admin UI here.
type AdminHandler struct {
	items   *repository.ItemRepository
	svc     *service.AuctionService
	sweeper *sweeper.Sweeper
}

func NewAdminHandler(items *repository.ItemRepository, svc *service.AuctionService, sw *sweeper.Sweeper) *AdminHandler {
	return &AdminHandler{items: items, svc: svc, sweeper: sw}
}

type PrizeOptionRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=GP XP POWER_UP NOTHING"`
	Amount      int64  `json:"amount"`
	PowerType   string `json:"power_type"`
	EffectValue int64  `json:"effect_value"`
	Uses        int    `json:"uses"`
	Weight      int64  `json:"weight"`
}

type CreateItemRequest struct {
	Name          string               `json:"name" binding:"required"`
	Description   string               `json:"description"`
	StartingPrice int64                `json:"starting_price" binding:"required,gt=0"`
	Kind          string               `json:"kind" binding:"required,oneof=PLAIN MYSTERY_BOX POWER_BOX"`
	PrizeOptions  []PrizeOptionRequest `json:"prize_options"`
}

func (h *AdminHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item := &models.AuctionItem{
		Name:          req.Name,
		Description:   req.Description,
		StartingPrice: req.StartingPrice,
		Kind:          req.Kind,
	}
	for _, o := range req.PrizeOptions {
		item.PrizeOptions = append(item.PrizeOptions, models.PrizeOption{
			Kind:        o.Kind,
			Amount:      o.Amount,
			PowerType:   o.PowerType,
			EffectValue: o.EffectValue,
			Uses:        o.Uses,
			Weight:      o.Weight,
		})
	}
	if err := h.items.Create(item); err != nil {
		if errors.Is(err, repository.ErrBadPrizeTable) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logrus.WithError(err).Error("create item")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *AdminHandler) ListItems(c *gin.Context) {
	items, err := h.items.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type CreateAuctionRequest struct {
	ItemID    uint      `json:"item_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

func (h *AdminHandler) CreateAuction(c *gin.Context) {
	var req CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := h.svc.CreateAuction(req.ItemID, req.StartTime, req.EndTime)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		case errors.Is(err, service.ErrBadSchedule):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logrus.WithError(err).Error("create auction")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *AdminHandler) CancelAuction(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	if err := h.svc.Cancel(id); err != nil {
		if errors.Is(err, repository.ErrInvalidState) {
			c.JSON(http.StatusConflict, gin.H{"error": "auction cannot be cancelled"})
			return
		}
		logrus.WithError(err).Error("cancel auction")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cancel failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cancelled"})
}

// RunSweep lets an external cron drive the sweeper through the
// authenticated admin API.
func (h *AdminHandler) RunSweep(c *gin.Context) {
	stats := h.sweeper.RunOnce()
	c.JSON(http.StatusOK, stats)
}
