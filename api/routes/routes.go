package routes

import (
	"github.com/birdieplay/birdieplay-backend/internal/config"
	"github.com/birdieplay/birdieplay-backend/internal/handlers"
	"github.com/birdieplay/birdieplay-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies bundles the handlers wired up in main
type HandlerDependencies struct {
	AuthHandler         *handlers.AuthHandler
	UserHandler         *handlers.UserHandler
	DrawHandler         *handlers.DrawHandler
	SettlementHandler   *handlers.SettlementHandler
	SubscriptionHandler *handlers.SubscriptionHandler
	CharityHandler      *handlers.CharityHandler
	SettingsHandler     *handlers.SettingsHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
		}

		public.GET("/charities", deps.CharityHandler.List)
		public.GET("/charities/:id", deps.CharityHandler.GetByID)
	}

	// Authenticated routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		users := protected.Group("/users")
		{
			users.GET("/me", deps.UserHandler.GetMe)
			users.PUT("/me/donation-preferences", deps.UserHandler.SetDonationPreferences)
		}

		protected.POST("/scores", deps.UserHandler.SubmitScore)
		protected.POST("/donations", deps.SettlementHandler.Donate)

		subscriptions := protected.Group("/subscriptions")
		{
			subscriptions.POST("", deps.SubscriptionHandler.Create)
			subscriptions.GET("/me", deps.SubscriptionHandler.GetMine)
		}

		draws := protected.Group("/draws")
		{
			draws.GET("", deps.DrawHandler.GetDraws)
			draws.GET("/current", deps.DrawHandler.GetCurrentDraw)
			draws.GET("/:id", deps.DrawHandler.GetDrawByID)
		}
	}

	// Admin routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg), middleware.AdminRequired())
	{
		admin.GET("/users", deps.UserHandler.GetUsers)

		draws := admin.Group("/draws")
		{
			draws.POST("", deps.DrawHandler.CreateDraw)
			draws.GET("/frequencies", deps.DrawHandler.GetFrequencies)
			draws.GET("/:id/entries", deps.DrawHandler.GetEntries)
			draws.GET("/:id/eligible", deps.DrawHandler.GetEligible)
			draws.POST("/:id/simulate", deps.DrawHandler.SimulateDraw)
			draws.POST("/:id/run", deps.DrawHandler.RunDraw)
			draws.POST("/:id/publish", deps.DrawHandler.PublishDraw)
			draws.POST("/:id/reset", deps.DrawHandler.ResetDraw)
		}

		settlement := admin.Group("/settlement")
		{
			settlement.GET("/winners", deps.SettlementHandler.ListPayableWinners)
			settlement.POST("/winners/:id/pay", deps.SettlementHandler.PayWinner)
			settlement.POST("/entries/:id/verify", deps.SettlementHandler.VerifyEntry)
			settlement.POST("/charities/:id/payout", deps.SettlementHandler.CreateCharityPayout)
			settlement.POST("/payouts/:id/pay", deps.SettlementHandler.PayCharityPayout)
			settlement.POST("/payouts/:id/rollback", deps.SettlementHandler.RollbackCharityPayout)
		}

		subscriptions := admin.Group("/subscriptions")
		{
			subscriptions.POST("/:id/assign", deps.SubscriptionHandler.Assign)
			subscriptions.POST("/backfill", deps.SubscriptionHandler.Backfill)
		}

		charities := admin.Group("/charities")
		{
			charities.POST("", deps.CharityHandler.Create)
			charities.PUT("/:id", deps.CharityHandler.Update)
			charities.DELETE("/:id", deps.CharityHandler.Delete)
		}

		settings := admin.Group("/settings")
		{
			settings.GET("/draw", deps.SettingsHandler.GetSettings)
			settings.PUT("/draw", deps.SettingsHandler.UpdateSettings)
			settings.GET("/audit", deps.SettingsHandler.GetAuditLog)
		}
	}

	return router
}
