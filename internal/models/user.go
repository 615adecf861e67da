package models

import (
	"time"

	"breakroom/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // MEMBER | ADMIN
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Balance *Balance `gorm:"foreignKey:UserID" json:"balance,omitempty"`
}

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }

func (User) TableName() string {
	return "users"
}
