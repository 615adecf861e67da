package service

import (
	"errors"
	"testing"
	"time"

	"breakroom/internal/domain"
	"breakroom/internal/repository"
)

func TestPurchaseDebitsAndGrants(t *testing.T) {
	f := newFixture(t, 1)
	u := f.user(t, "alice", 250)

	p, err := f.store.Purchase(u.ID, domain.PowerTypeBoost2x)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if p.ExpiresAt != nil {
		t.Fatalf("purchased boost came pre-activated")
	}
	if b := f.balanceOf(t, u.ID); b.GamePoints != 50 {
		t.Fatalf("game points = %d, want 50", b.GamePoints)
	}
}

func TestPurchaseInsufficientFundsGrantsNothing(t *testing.T) {
	f := newFixture(t, 1)
	u := f.user(t, "alice", 100)

	_, err := f.store.Purchase(u.ID, domain.PowerTypeBoost2x)
	if !errors.Is(err, repository.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if b := f.balanceOf(t, u.ID); b.GamePoints != 100 {
		t.Fatalf("balance moved on failed purchase: %d", b.GamePoints)
	}
	if owned, _ := f.powerUps.ListByOwner(u.ID); len(owned) != 0 {
		t.Fatalf("inventory grew on failed purchase")
	}
}

func TestPurchaseUnknownType(t *testing.T) {
	f := newFixture(t, 1)
	u := f.user(t, "alice", 1000)
	if _, err := f.store.Purchase(u.ID, "time_machine"); !errors.Is(err, ErrUnknownPowerType) {
		t.Fatalf("err = %v, want ErrUnknownPowerType", err)
	}
}

func TestActivateBoostStampsWindowOnce(t *testing.T) {
	f := newFixture(t, 1)
	u := f.user(t, "alice", 250)
	p, err := f.store.Purchase(u.ID, domain.PowerTypeBoost2x)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}

	activated, err := f.store.ActivateBoost(p.ID, u.ID)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	want := f.clk.Now().Add(24 * time.Hour)
	if activated.ExpiresAt == nil || !activated.ExpiresAt.Equal(want) {
		t.Fatalf("expires = %v, want %v", activated.ExpiresAt, want)
	}
	if mult, _ := f.boosts.Multiplier(u.ID, f.clk.Now()); mult != 2 {
		t.Fatalf("multiplier = %d, want 2", mult)
	}

	// A second activation must not extend the window.
	f.clk.Advance(time.Hour)
	if _, err := f.store.ActivateBoost(p.ID, u.ID); !errors.Is(err, repository.ErrAlreadyActive) {
		t.Fatalf("err = %v, want ErrAlreadyActive", err)
	}

	f.clk.Advance(24 * time.Hour)
	if mult, _ := f.boosts.Multiplier(u.ID, f.clk.Now()); mult != 1 {
		t.Fatalf("boost survived its window: multiplier = %d", mult)
	}
}

func TestActivateNonBoost(t *testing.T) {
	f := newFixture(t, 1)
	u := f.user(t, "alice", 200)
	p, err := f.store.Purchase(u.ID, domain.PowerTypeShield)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if _, err := f.store.ActivateBoost(p.ID, u.ID); !errors.Is(err, repository.ErrNotABoost) {
		t.Fatalf("err = %v, want ErrNotABoost", err)
	}
}

func TestGiftPoints(t *testing.T) {
	f := newFixture(t, 1)
	alice := f.user(t, "alice", 300)
	bob := f.user(t, "bob", 0)

	if err := f.store.GiftPoints(alice.ID, bob.ID, 120); err != nil {
		t.Fatalf("gift: %v", err)
	}
	if b := f.balanceOf(t, alice.ID); b.GamePoints != 180 {
		t.Fatalf("sender balance = %d, want 180", b.GamePoints)
	}
	if b := f.balanceOf(t, bob.ID); b.GamePoints != 120 {
		t.Fatalf("recipient balance = %d, want 120", b.GamePoints)
	}
}

func TestGiftPointsRejections(t *testing.T) {
	f := newFixture(t, 1)
	alice := f.user(t, "alice", 100)
	bob := f.user(t, "bob", 0)

	if err := f.store.GiftPoints(alice.ID, alice.ID, 50); !errors.Is(err, ErrSelfGift) {
		t.Fatalf("self gift: err = %v", err)
	}
	if err := f.store.GiftPoints(alice.ID, bob.ID, 0); !errors.Is(err, ErrBadAmount) {
		t.Fatalf("zero amount: err = %v", err)
	}
	if err := f.store.GiftPoints(alice.ID, bob.ID, 150); !errors.Is(err, repository.ErrInsufficientFunds) {
		t.Fatalf("overdraft gift: err = %v", err)
	}
	if b := f.balanceOf(t, alice.ID); b.GamePoints != 100 {
		t.Fatalf("sender balance moved: %d", b.GamePoints)
	}
}

func TestGiftPowerUpTransfersOwnership(t *testing.T) {
	f := newFixture(t, 1)
	alice := f.user(t, "alice", 200)
	bob := f.user(t, "bob", 0)
	p, err := f.store.Purchase(alice.ID, domain.PowerTypeBoost2x)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}

	if err := f.store.GiftPowerUp(p.ID, alice.ID, bob.ID); err != nil {
		t.Fatalf("gift: %v", err)
	}
	if owned, _ := f.powerUps.ListByOwner(alice.ID); len(owned) != 0 {
		t.Fatalf("sender kept the power-up")
	}
	owned, _ := f.powerUps.ListByOwner(bob.ID)
	if len(owned) != 1 || owned[0].ID != p.ID {
		t.Fatalf("recipient inventory: %+v", owned)
	}

	// Gifting something you no longer own fails.
	if err := f.store.GiftPowerUp(p.ID, alice.ID, bob.ID); err == nil {
		t.Fatalf("expected error gifting a transferred power-up")
	}
}
