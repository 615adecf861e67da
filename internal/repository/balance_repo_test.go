package repository

import (
	"errors"
	"testing"

	"breakroom/internal/database"
	"breakroom/internal/domain"
	"breakroom/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@breakroom.local", Role: domain.RoleMember}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestApplyDeltaCreditAndDebit(t *testing.T) {
	db := openTestDB(t)
	repo := NewBalanceRepository(db)
	u := createUser(t, db, "alice")

	got, err := repo.ApplyDelta(u.ID, domain.BalanceFieldGamePoints, 100)
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if got != 100 {
		t.Fatalf("balance after credit = %d, want 100", got)
	}

	got, err = repo.ApplyDelta(u.ID, domain.BalanceFieldGamePoints, -40)
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if got != 60 {
		t.Fatalf("balance after debit = %d, want 60", got)
	}
}

func TestApplyDeltaClampsAtZero(t *testing.T) {
	db := openTestDB(t)
	repo := NewBalanceRepository(db)
	u := createUser(t, db, "bob")

	if _, err := repo.ApplyDelta(u.ID, domain.BalanceFieldXP, 30); err != nil {
		t.Fatalf("credit: %v", err)
	}
	got, err := repo.ApplyDelta(u.ID, domain.BalanceFieldXP, -500)
	if err != nil {
		t.Fatalf("oversized debit: %v", err)
	}
	if got != 0 {
		t.Fatalf("balance = %d, want clamp at 0", got)
	}
}

func TestApplyDeltaRejectsUnknownField(t *testing.T) {
	db := openTestDB(t)
	repo := NewBalanceRepository(db)
	u := createUser(t, db, "carol")

	if _, err := repo.ApplyDelta(u.ID, "password_hash", 1); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestTryDebitGamePoints(t *testing.T) {
	db := openTestDB(t)
	repo := NewBalanceRepository(db)
	u := createUser(t, db, "dave")

	if _, err := repo.ApplyDelta(u.ID, domain.BalanceFieldGamePoints, 100); err != nil {
		t.Fatalf("credit: %v", err)
	}

	if err := repo.TryDebitGamePoints(u.ID, 150); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	b, err := repo.GetByUserID(u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b.GamePoints != 100 {
		t.Fatalf("failed debit mutated balance: %d", b.GamePoints)
	}

	if err := repo.TryDebitGamePoints(u.ID, 100); err != nil {
		t.Fatalf("exact debit: %v", err)
	}
	b, _ = repo.GetByUserID(u.ID)
	if b.GamePoints != 0 {
		t.Fatalf("balance = %d, want 0", b.GamePoints)
	}

	if err := repo.TryDebitGamePoints(u.ID, 1); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds on empty balance, got %v", err)
	}
}

func TestTryDebitCreatesMissingBalanceRow(t *testing.T) {
	db := openTestDB(t)
	repo := NewBalanceRepository(db)
	u := createUser(t, db, "erin")

	if err := repo.TryDebitGamePoints(u.ID, 10); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if _, err := repo.GetByUserID(u.ID); err != nil {
		t.Fatalf("balance row should exist after first touch: %v", err)
	}
}
