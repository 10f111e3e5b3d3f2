package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/crossfun/backend/internal/config"
	"github.com/crossfun/backend/internal/database"
	"github.com/crossfun/backend/internal/handlers"
	"github.com/crossfun/backend/internal/middleware"
	"github.com/crossfun/backend/internal/models"
	"github.com/crossfun/backend/pkg/auth"
)

func registerRoutes(
	r *gin.Engine,
	cfg *config.Config,
	jwtMgr *auth.JWTManager,
	blacklist middleware.TokenBlacklist,
	db *database.Database,
	authH *handlers.AuthHandler,
	tokenH *handlers.TokenHandler,
	txH *handlers.TransactionHandler,
	chatH *handlers.ChatHandler,
	userH *handlers.UserHandler,
	analyticsH *handlers.AnalyticsHandler,
	uploadH *handlers.UploadHandler,
	streamH *handlers.StreamHandler,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authn := middleware.Authenticate(jwtMgr, blacklist, db)
	optional := middleware.OptionalAuth(jwtMgr, blacklist, db)

	api := r.Group("/api")
	api.Use(middleware.RateLimit(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst))

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authH.Register)
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/wallet-login", authH.WalletLogin)
		authGroup.POST("/logout", authH.Logout)

		authGroup.GET("/profile", authn, authH.Profile)
		authGroup.PUT("/profile", authn, authH.UpdateProfile)
		authGroup.POST("/change-password", authn, authH.ChangePassword)
		authGroup.POST("/refresh", authn, authH.Refresh)
		authGroup.POST("/verify-wallet", authn, authH.VerifyWallet)
		authGroup.POST("/add-wallet", authn, authH.AddWallet)
		authGroup.POST("/remove-wallet", authn, authH.RemoveWallet)
	}

	tokens := api.Group("/tokens")
	{
		tokens.GET("", optional, tokenH.List)
		tokens.GET("/trending", tokenH.Trending)
		tokens.GET("/recent", tokenH.Recent)
		tokens.GET("/search", tokenH.Search)
		tokens.GET("/count", tokenH.Count)
		tokens.GET("/with-liquidity", tokenH.WithLiquidity)
		tokens.GET("/without-liquidity", tokenH.WithoutLiquidity)
		tokens.GET("/creator/:creatorAddress", tokenH.ByCreator)
		tokens.GET("/:address", optional, tokenH.Get)
		tokens.GET("/:address/holders", tokenH.Holders)

		tokens.POST("", authn, middleware.RequireWalletOwnership("creatorAddress"), tokenH.Create)
		tokens.PUT("/:address", authn, ownTokenOrAdmin(db), tokenH.Update)
	}

	txs := api.Group("/transactions")
	{
		txs.GET("", txH.List)
		txs.GET("/recent", txH.Recent)
		txs.GET("/stats", txH.Stats)
		txs.GET("/volume", txH.VolumeRange)
		txs.GET("/token/:tokenAddress", txH.ByToken)
		txs.GET("/address/:address", txH.ByAddress)
		txs.GET("/:txHash", txH.ByHash)

		txs.POST("", authn, txH.Create)
		txs.POST("/liquidity", authn, txH.CreateLiquidityEvent)
		txs.GET("/liquidity/token/:tokenAddress", txH.LiquidityByToken)
	}

	chat := api.Group("/chat")
	{
		chat.GET("/stream", optional, streamH.Stream)
		chat.GET("/token/:tokenAddress", optional, chatH.Messages)
		chat.GET("/user/:address", chatH.ByUser)

		chat.POST("/messages", authn, chatH.Post)
		chat.PUT("/messages/:id", authn, chatH.Edit)
		chat.DELETE("/messages/:id", authn, chatH.Delete)
		chat.POST("/messages/:id/like", authn, chatH.Like)
		chat.POST("/messages/:id/dislike", authn, chatH.Dislike)
		chat.DELETE("/messages/:id/reaction", authn, chatH.RemoveReaction)
		chat.POST("/messages/:id/moderate", authn, middleware.RequireModerator(), chatH.Moderate)
	}

	users := api.Group("/users")
	{
		users.GET("/top-creators", userH.TopCreators)
		users.GET("/wallet/:address", userH.ByWallet)

		users.GET("", authn, middleware.RequireAdmin(), userH.List)
		users.GET("/:id", authn, middleware.RequireSelfOrAdmin("id"), userH.Get)
		users.PUT("/:id", authn, middleware.RequireSelfOrAdmin("id"), userH.Update)
		users.DELETE("/:id", authn, middleware.RequireAdmin(), userH.Deactivate)
		users.POST("/:id/ban", authn, middleware.RequireModerator(), userH.Ban)
		users.POST("/:id/unban", authn, middleware.RequireModerator(), userH.Unban)
		users.GET("/:id/tokens", userH.Tokens)
		users.GET("/:id/stats", userH.Stats)
	}

	analytics := api.Group("/analytics")
	{
		analytics.GET("/overview", analyticsH.Overview)
		analytics.GET("/chains", analyticsH.Chains)
		analytics.GET("/daily", analyticsH.Daily)
		analytics.GET("/trends", analyticsH.Trends)
	}

	upload := api.Group("/upload")
	{
		upload.POST("/:kind", authn, uploadH.PresignPut)
		upload.GET("/url", authn, uploadH.PresignGet)
	}
}

// ownTokenOrAdmin resolves the token's creator address and defers to the
// wallet ownership check, so updates are limited to the creator or admins.
func ownTokenOrAdmin(db *database.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
			c.Abort()
			return
		}
		if user.Role.AtLeast(models.RoleAdmin) {
			c.Next()
			return
		}

		addr, err := models.ParseAddress(c.Param("address"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		token, err := db.GetTokenByAddress(addr)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "token not found"})
			c.Abort()
			return
		}
		if !user.HasWallet(token.CreatorAddress.String()) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not the token creator"})
			c.Abort()
			return
		}
		c.Next()
	}
}
