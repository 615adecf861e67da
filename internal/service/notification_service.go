package service

import (
	"encoding/json"
	"fmt"

	"breakroom/internal/domain"
	"breakroom/internal/models"
	"breakroom/internal/repository"
	"breakroom/internal/ws"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// NotificationService persists a notification row and pushes it over
// the user's live connections. Delivery is fire-and-forget: a failure
// here never fails the flow that triggered it.
type NotificationService struct {
	repo *repository.NotificationRepository
	hub  *ws.Hub
	log  *logrus.Entry
}

func NewNotificationService(repo *repository.NotificationRepository, hub *ws.Hub) *NotificationService {
	return &NotificationService{repo: repo, hub: hub, log: logrus.WithField("component", "notifications")}
}

func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) {
	var payload datatypes.JSON
	if data != nil {
		b, _ := json.Marshal(data)
		payload = datatypes.JSON(b)
	}
	n := &models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   payload,
	}
	if err := s.repo.Create(n); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("store notification")
		return
	}
	if s.hub != nil {
		s.hub.SendToUser(userID, n)
	}
}

func (s *NotificationService) NotifyOutbid(userID, auctionID uint, newPrice int64) {
	s.Notify(userID, domain.NotificationOutbid, "You were outbid",
		fmt.Sprintf("Someone raised the price to %d GP", newPrice),
		map[string]interface{}{"auction_id": auctionID, "current_price": newPrice})
}

func (s *NotificationService) NotifyAuctionWon(userID, auctionID uint, price int64) {
	s.Notify(userID, domain.NotificationAuctionWon, "Auction won",
		fmt.Sprintf("You won for %d GP. Claim your prize!", price),
		map[string]interface{}{"auction_id": auctionID, "price": price})
}

func (s *NotificationService) NotifyAuctionEnded(userID, auctionID uint) {
	s.Notify(userID, domain.NotificationAuctionEnded, "Auction ended",
		"The auction closed without a sale",
		map[string]interface{}{"auction_id": auctionID})
}

func (s *NotificationService) NotifyGiftReceived(userID, fromID uint, what string) {
	s.Notify(userID, domain.NotificationGiftReceived, "Gift received",
		"A teammate sent you "+what,
		map[string]interface{}{"from_user_id": fromID})
}
