package handler

import (
	"errors"
	"net/http"

	"breakroom/internal/middleware"
	"breakroom/internal/repository"
	"breakroom/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type StoreHandler struct {
	svc    *service.StoreService
	notifs *service.NotificationService
}

func NewStoreHandler(svc *service.StoreService, notifs *service.NotificationService) *StoreHandler {
	return &StoreHandler{svc: svc, notifs: notifs}
}

func (h *StoreHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"catalog": service.Catalog})
}

type PurchaseRequest struct {
	PowerType string `json:"power_type" binding:"required"`
}

func (h *StoreHandler) Purchase(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Purchase(userID, req.PowerType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownPowerType):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrInsufficientFunds):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
		default:
			logrus.WithError(err).Error("purchase power-up")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "purchase failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *StoreHandler) ActivateBoost(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	p, err := h.svc.ActivateBoost(id, userID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "power-up not found"})
		case errors.Is(err, repository.ErrNotABoost), errors.Is(err, repository.ErrPowerUpConsumed), errors.Is(err, repository.ErrAlreadyActive):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logrus.WithError(err).Error("activate boost")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "activation failed"})
		}
		return
	}
	c.JSON(http.StatusOK, p)
}

type GiftPointsRequest struct {
	ToUserID uint  `json:"to_user_id" binding:"required"`
	Amount   int64 `json:"amount" binding:"required,gt=0"`
}

func (h *StoreHandler) GiftPoints(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req GiftPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.svc.GiftPoints(userID, req.ToUserID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfGift), errors.Is(err, service.ErrBadAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrInsufficientFunds):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
		default:
			logrus.WithError(err).Error("gift points")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "gift failed"})
		}
		return
	}
	if h.notifs != nil {
		h.notifs.NotifyGiftReceived(req.ToUserID, userID, "game points")
	}
	c.JSON(http.StatusOK, gin.H{"message": "gift sent"})
}

type GiftPowerUpRequest struct {
	ToUserID uint `json:"to_user_id" binding:"required"`
}

func (h *StoreHandler) GiftPowerUp(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req GiftPowerUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.GiftPowerUp(id, userID, req.ToUserID); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfGift):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "power-up not found"})
		default:
			logrus.WithError(err).Error("gift power-up")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "gift failed"})
		}
		return
	}
	if h.notifs != nil {
		h.notifs.NotifyGiftReceived(req.ToUserID, userID, "a power-up")
	}
	c.JSON(http.StatusOK, gin.H{"message": "gift sent"})
}
