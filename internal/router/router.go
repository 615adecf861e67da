package router

import (
	"time"

	"breakroom/config"
	"breakroom/internal/clock"
	"breakroom/internal/handler"
	"breakroom/internal/middleware"
	"breakroom/internal/repository"
	"breakroom/internal/service"
	"breakroom/internal/sweeper"
	"breakroom/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers and returns the
// engine plus the sweeper so main can start the background job.
func Setup(cfg *config.Config, db *gorm.DB, clk clock.Clock) (*gin.Engine, *sweeper.Sweeper) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	balanceRepo := repository.NewBalanceRepository(db)
	itemRepo := repository.NewItemRepository(db)
	auctionRepo := repository.NewAuctionRepository(db)
	powerUpRepo := repository.NewPowerUpRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	hub := ws.NewHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	boostSvc := service.NewBoostService(powerUpRepo)
	prizeSvc := service.NewPrizeService(balanceRepo, powerUpRepo, boostSvc)
	auctionSvc := service.NewAuctionService(db, clk, auctionRepo, itemRepo, balanceRepo, prizeSvc)
	storeSvc := service.NewStoreService(db, clk, balanceRepo, powerUpRepo)
	notifSvc := service.NewNotificationService(notificationRepo, hub)

	sw := sweeper.New(auctionSvc, notifSvc, hub, cfg.Sweep.Interval)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	auctionHandler := handler.NewAuctionHandler(auctionSvc, auctionRepo, notifSvc, hub)
	storeHandler := handler.NewStoreHandler(storeSvc, notifSvc)
	meHandler := handler.NewMeHandler(balanceRepo, powerUpRepo, notificationRepo)
	adminHandler := handler.NewAdminHandler(itemRepo, auctionSvc, sw)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		auctions := api.Group("/auctions")
		auctions.Use(authMw)
		{
			auctions.GET("", auctionHandler.List)
			auctions.GET("/:id", auctionHandler.Get)
			auctions.POST("/:id/bids", auctionHandler.PlaceBid)
			auctions.POST("/:id/claim", auctionHandler.Claim)
		}

		store := api.Group("/store")
		store.Use(authMw)
		{
			store.GET("/catalog", storeHandler.Catalog)
			store.POST("/powerups", storeHandler.Purchase)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/balance", meHandler.GetBalance)
			me.GET("/powerups", meHandler.ListPowerUps)
			me.POST("/powerups/:id/activate", storeHandler.ActivateBoost)
			me.GET("/notifications", meHandler.ListNotifications)
			me.PUT("/notifications/:id/read", meHandler.MarkNotificationRead)
		}

		gifts := api.Group("/gifts")
		gifts.Use(authMw)
		{
			gifts.POST("/points", storeHandler.GiftPoints)
			gifts.POST("/powerups/:id", storeHandler.GiftPowerUp)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminOnly())
		{
			admin.POST("/items", adminHandler.CreateItem)
			admin.GET("/items", adminHandler.ListItems)
			admin.POST("/auctions", adminHandler.CreateAuction)
			admin.POST("/auctions/:id/cancel", adminHandler.CancelAuction)
			admin.POST("/sweep", adminHandler.RunSweep)
		}
	}

	r.GET("/ws/auctions", ws.Upgrade(&cfg.JWT, hub))

	return r, sw
}
