package handler

import (
	"net/http"
	"strconv"
	"time"

	"breakroom/internal/middleware"
	"breakroom/internal/repository"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	balances *repository.BalanceRepository
	powerUps *repository.PowerUpRepository
	notifs   *repository.NotificationRepository
}

func NewMeHandler(balances *repository.BalanceRepository, powerUps *repository.PowerUpRepository, notifs *repository.NotificationRepository) *MeHandler {
	return &MeHandler{balances: balances, powerUps: powerUps, notifs: notifs}
}

func (h *MeHandler) GetBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	b, err := h.balances.GetOrCreate(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "balance error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"game_points": b.GamePoints, "xp": b.XP})
}

func (h *MeHandler) ListPowerUps(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, err := h.powerUps.ListByOwner(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "inventory error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"power_ups": list})
}

func (h *MeHandler) ListNotifications(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.notifs.ListByUserID(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "notifications error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (h *MeHandler) MarkNotificationRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	if err := h.notifs.MarkRead(id, userID, time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "read"})
}
