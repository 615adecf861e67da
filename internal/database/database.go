package database

import (
	"breakroom/config"
	"breakroom/internal/domain"
	"breakroom/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Balance{},
		&models.AuctionItem{},
		&models.PrizeOption{},
		&models.Auction{},
		&models.Bid{},
		&models.PowerUp{},
		&models.Notification{},
	)
}

// SeedAdmin creates the bootstrap admin account if missing.
func SeedAdmin(db *gorm.DB) {
	var count int64
	db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("change-me-admin"), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("seed admin: hash password")
		return
	}
	admin := &models.User{
		Username:     "admin",
		Email:        "admin@breakroom.local",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		logrus.WithError(err).Error("seed admin")
		return
	}
	db.Create(&models.Balance{UserID: admin.ID})
	logrus.WithField("email", admin.Email).Info("seeded admin account")
}
