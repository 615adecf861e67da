package service

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"breakroom/internal/database"
	"breakroom/internal/domain"
	"breakroom/internal/models"
	"breakroom/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testClock is a settable clock so tests can drive the time-based
// transitions.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock(t time.Time) *testClock { return &testClock{t: t} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	db       *gorm.DB
	clk      *testClock
	users    *repository.UserRepository
	balances *repository.BalanceRepository
	powerUps *repository.PowerUpRepository
	items    *repository.ItemRepository
	boosts   *BoostService
	prizes   *PrizeService
	auctions *AuctionService
	store    *StoreService
}

func newFixture(t *testing.T, seed int64) *fixture {
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
	clk := newTestClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	balances := repository.NewBalanceRepository(db)
	powerUps := repository.NewPowerUpRepository(db)
	items := repository.NewItemRepository(db)
	auctionRepo := repository.NewAuctionRepository(db)
	boosts := NewBoostService(powerUps)
	prizes := NewPrizeServiceWithRand(balances, powerUps, boosts, rand.New(rand.NewSource(seed)))
	return &fixture{
		db:       db,
		clk:      clk,
		users:    repository.NewUserRepository(db),
		balances: balances,
		powerUps: powerUps,
		items:    items,
		boosts:   boosts,
		prizes:   prizes,
		auctions: NewAuctionService(db, clk, auctionRepo, items, balances, prizes),
		store:    NewStoreService(db, clk, balances, powerUps),
	}
}

func (f *fixture) user(t *testing.T, username string, gamePoints int64) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@breakroom.local", Role: domain.RoleMember}
	if err := f.users.Create(u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if gamePoints > 0 {
		if _, err := f.balances.ApplyDelta(u.ID, domain.BalanceFieldGamePoints, gamePoints); err != nil {
			t.Fatalf("fund user: %v", err)
		}
	}
	return u
}

func (f *fixture) plainItem(t *testing.T, startingPrice int64) *models.AuctionItem {
	t.Helper()
	item := &models.AuctionItem{Name: "coffee mug", StartingPrice: startingPrice, Kind: domain.ItemKindPlain}
	if err := f.items.Create(item); err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item
}

func (f *fixture) powerBox(t *testing.T, startingPrice int64, opts []models.PrizeOption) *models.AuctionItem {
	t.Helper()
	item := &models.AuctionItem{Name: "power box", StartingPrice: startingPrice, Kind: domain.ItemKindPowerBox, PrizeOptions: opts}
	if err := f.items.Create(item); err != nil {
		t.Fatalf("create box: %v", err)
	}
	return item
}

// activeAuction opens an auction that started a minute ago and runs
// for the given duration from the fixture clock's now.
func (f *fixture) activeAuction(t *testing.T, item *models.AuctionItem, d time.Duration) *models.Auction {
	t.Helper()
	a, err := f.auctions.CreateAuction(item.ID, f.clk.Now().Add(-time.Minute), f.clk.Now().Add(d))
	if err != nil {
		t.Fatalf("create auction: %v", err)
	}
	if a.Status != domain.AuctionActive {
		t.Fatalf("auction status = %s, want ACTIVE", a.Status)
	}
	return a
}
