package service

import (
	"errors"
	"testing"
	"time"

	"breakroom/internal/domain"
	"breakroom/internal/models"
)

func (f *fixture) balanceOf(t *testing.T, userID uint) *models.Balance {
	t.Helper()
	b, err := f.balances.GetOrCreate(userID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	return b
}

func TestDrawGamePointsPrize(t *testing.T) {
	f := newFixture(t, 7)
	u := f.user(t, "alice", 0)
	box := f.powerBox(t, 100, []models.PrizeOption{
		{Kind: domain.PrizeKindGamePoints, Amount: 120, Weight: 100},
	})

	got, err := f.prizes.Draw(f.db, box, u.ID, f.clk.Now())
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if got.Multiplier != 1 || got.Applied != 120 {
		t.Fatalf("got multiplier=%d applied=%d, want 1/120", got.Multiplier, got.Applied)
	}
	if b := f.balanceOf(t, u.ID); b.GamePoints != 120 {
		t.Fatalf("game points = %d, want 120", b.GamePoints)
	}
}

func TestDrawXPPrizeCreditsXPColumn(t *testing.T) {
	f := newFixture(t, 7)
	u := f.user(t, "alice", 0)
	box := f.powerBox(t, 100, []models.PrizeOption{
		{Kind: domain.PrizeKindXP, Amount: 80, Weight: 100},
	})

	if _, err := f.prizes.Draw(f.db, box, u.ID, f.clk.Now()); err != nil {
		t.Fatalf("draw: %v", err)
	}
	b := f.balanceOf(t, u.ID)
	if b.XP != 80 {
		t.Fatalf("xp = %d, want 80", b.XP)
	}
	if b.GamePoints != 0 {
		t.Fatalf("game points = %d, want 0", b.GamePoints)
	}
}

func TestDrawAppliesActiveBoostMultiplier(t *testing.T) {
	f := newFixture(t, 7)
	u := f.user(t, "alice", 0)
	soon := f.clk.Now().Add(time.Hour)
	f.grantBoost(t, u.ID, domain.PowerTypeBoost4x, &soon, false)
	box := f.powerBox(t, 100, []models.PrizeOption{
		{Kind: domain.PrizeKindGamePoints, Amount: 100, Weight: 100},
	})

	got, err := f.prizes.Draw(f.db, box, u.ID, f.clk.Now())
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if got.Multiplier != 4 || got.Applied != 400 {
		t.Fatalf("got multiplier=%d applied=%d, want 4/400", got.Multiplier, got.Applied)
	}
	if b := f.balanceOf(t, u.ID); b.GamePoints != 400 {
		t.Fatalf("game points = %d, want 400", b.GamePoints)
	}
}

func TestDrawPowerUpLandsUnactivated(t *testing.T) {
	f := newFixture(t, 7)
	u := f.user(t, "alice", 0)
	box := f.powerBox(t, 100, []models.PrizeOption{
		{Kind: domain.PrizeKindPowerUp, PowerType: domain.PowerTypeBoost2x, Weight: 100},
	})

	got, err := f.prizes.Draw(f.db, box, u.ID, f.clk.Now())
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if got.Applied != 0 {
		t.Fatalf("applied = %d, want 0 for a power-up prize", got.Applied)
	}

	owned, err := f.powerUps.ListByOwner(u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(owned) != 1 {
		t.Fatalf("inventory size = %d, want 1", len(owned))
	}
	p := owned[0]
	if p.PowerType != domain.PowerTypeBoost2x || p.UsesLeft != 1 || p.IsUsed {
		t.Fatalf("unexpected power-up row: %+v", p)
	}
	// A drawn boost sits dormant until the owner activates it.
	if p.ExpiresAt != nil {
		t.Fatalf("drawn boost came pre-activated, expires %v", p.ExpiresAt)
	}
	if mult, _ := f.boosts.Multiplier(u.ID, f.clk.Now()); mult != 1 {
		t.Fatalf("dormant boost multiplied: %d", mult)
	}
}

func TestDrawNothingMutatesNothing(t *testing.T) {
	f := newFixture(t, 7)
	u := f.user(t, "alice", 50)
	box := f.powerBox(t, 100, []models.PrizeOption{
		{Kind: domain.PrizeKindNothing, Weight: 100},
	})

	got, err := f.prizes.Draw(f.db, box, u.ID, f.clk.Now())
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if got.Option.Kind != domain.PrizeKindNothing || got.Applied != 0 {
		t.Fatalf("got %+v", got)
	}
	if b := f.balanceOf(t, u.ID); b.GamePoints != 50 || b.XP != 0 {
		t.Fatalf("balance moved: gp=%d xp=%d", b.GamePoints, b.XP)
	}
	if owned, _ := f.powerUps.ListByOwner(u.ID); len(owned) != 0 {
		t.Fatalf("inventory grew: %d rows", len(owned))
	}
}

func TestDrawMysteryBoxIgnoresWeights(t *testing.T) {
	f := newFixture(t, 7)
	u := f.user(t, "alice", 0)
	// Zero weights would break a weighted draw; mystery boxes pick
	// uniformly so they must still resolve.
	box := &models.AuctionItem{Name: "mystery box", StartingPrice: 100, Kind: domain.ItemKindMysteryBox, PrizeOptions: []models.PrizeOption{
		{Kind: domain.PrizeKindGamePoints, Amount: 10},
		{Kind: domain.PrizeKindGamePoints, Amount: 20},
		{Kind: domain.PrizeKindGamePoints, Amount: 30},
	}}
	if err := f.items.Create(box); err != nil {
		t.Fatalf("create box: %v", err)
	}

	got, err := f.prizes.Draw(f.db, box, u.ID, f.clk.Now())
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	switch got.Applied {
	case 10, 20, 30:
	default:
		t.Fatalf("applied = %d, want one of the table amounts", got.Applied)
	}
	if b := f.balanceOf(t, u.ID); b.GamePoints != got.Applied {
		t.Fatalf("game points = %d, want %d", b.GamePoints, got.Applied)
	}
}

func TestDrawEmptyTableFails(t *testing.T) {
	f := newFixture(t, 7)
	u := f.user(t, "alice", 0)
	item := f.plainItem(t, 100)

	_, err := f.prizes.Draw(f.db, item, u.ID, f.clk.Now())
	if !errors.Is(err, ErrNoPrizeTable) {
		t.Fatalf("err = %v, want ErrNoPrizeTable", err)
	}
}
