package repository

import (
	"errors"
	"fmt"

	"breakroom/internal/domain"
	"breakroom/internal/models"

	"gorm.io/gorm"
)

var ErrBadPrizeTable = errors.New("invalid prize table for item kind")

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create validates the prize table against the item kind and inserts
// the item with its options in one go.
func (r *ItemRepository) Create(item *models.AuctionItem) error {
	switch item.Kind {
	case domain.ItemKindPlain:
		if len(item.PrizeOptions) != 0 {
			return fmt.Errorf("%w: plain items carry no prize table", ErrBadPrizeTable)
		}
	case domain.ItemKindMysteryBox:
		if len(item.PrizeOptions) != domain.MysteryBoxOptionCount {
			return fmt.Errorf("%w: mystery boxes need exactly %d options", ErrBadPrizeTable, domain.MysteryBoxOptionCount)
		}
	case domain.ItemKindPowerBox:
		var total int64
		for _, o := range item.PrizeOptions {
			if o.Weight > 0 {
				total += o.Weight
			}
		}
		if total <= 0 {
			return fmt.Errorf("%w: power boxes need positive total weight", ErrBadPrizeTable)
		}
	default:
		return fmt.Errorf("unknown item kind %q", item.Kind)
	}
	return r.db.Create(item).Error
}

func (r *ItemRepository) GetByID(id uint) (*models.AuctionItem, error) {
	var item models.AuctionItem
	if err := r.db.Preload("PrizeOptions").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) List() ([]models.AuctionItem, error) {
	var items []models.AuctionItem
	err := r.db.Preload("PrizeOptions").Order("id").Find(&items).Error
	return items, err
}
