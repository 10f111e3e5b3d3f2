package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gorm.io/gorm"

	"github.com/crossfun/backend/internal/database"
	"github.com/crossfun/backend/internal/handlers/dto"
	"github.com/crossfun/backend/internal/logger"
	"github.com/crossfun/backend/internal/middleware"
	"github.com/crossfun/backend/internal/models"
)

type TokenHandler struct {
	db  *database.Database
	log *logger.Logger
}

func NewTokenHandler(db *database.Database, log *logger.Logger) *TokenHandler {
	return &TokenHandler{db: db, log: log}
}

func boolQuery(c *gin.Context, name string) *bool {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

// List returns a filtered, sorted page of tokens.
func (h *TokenHandler) List(c *gin.Context) {
	p := parsePageParams(c, "createdAt")

	filter := database.TokenFilter{
		Verified: boolQuery(c, "verified"),
		Active:   boolQuery(c, "active"),
		Search:   c.Query("search"),
	}
	if v := c.Query("chainId"); v != "" {
		filter.ChainID, _ = strconv.Atoi(v)
	}

	tokens, total, err := h.db.ListTokens(filter, p.SortBy, p.SortOrder, p.Offset(), p.PageSize)
	if err != nil {
		h.log.Error().Err(err).Msg("list tokens")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens, "pagination": pagination(p, total)})
}

func (h *TokenHandler) Trending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > maxPageSize {
		limit = 10
	}
	tokens, err := h.db.TrendingTokens(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("trending tokens")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tokens"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

func (h *TokenHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > maxPageSize {
		limit = 10
	}
	tokens, err := h.db.RecentTokens(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("recent tokens")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tokens"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Get returns one token with its top holders.
func (h *TokenHandler) Get(c *gin.Context) {
	addr, err := models.ParseAddress(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.db.GetTokenByAddress(addr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "token not found"})
			return
		}
		h.log.Error().Err(err).Msg("get token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load token"})
		return
	}

	holders, err := h.db.TopHolders(addr, 10)
	if err != nil {
		h.log.Error().Err(err).Msg("get token: holders")
		holders = nil
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "topHolders": holders})
}

func (h *TokenHandler) ByCreator(c *gin.Context) {
	addr, err := models.ParseAddress(c.Param("creatorAddress"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := parsePageParams(c, "createdAt")
	tokens, total, err := h.db.TokensByCreator(addr, p.Offset(), p.PageSize)
	if err != nil {
		h.log.Error().Err(err).Msg("tokens by creator")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens, "pagination": pagination(p, total)})
}

func (h *TokenHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}

	p := parsePageParams(c, "marketCapUSD")
	tokens, total, err := h.db.SearchTokens(q, p.Offset(), p.PageSize)
	if err != nil {
		h.log.Error().Err(err).Msg("search tokens")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens, "pagination": pagination(p, total)})
}

func (h *TokenHandler) WithLiquidity(c *gin.Context) {
	minLiquidity, _ := strconv.ParseFloat(c.DefaultQuery("minLiquidity", "0"), 64)
	p := parsePageParams(c, "totalLiquidityUSD")

	tokens, total, err := h.db.TokensWithLiquidity(minLiquidity, p.Offset(), p.PageSize)
	if err != nil {
		h.log.Error().Err(err).Msg("tokens with liquidity")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens, "pagination": pagination(p, total)})
}

func (h *TokenHandler) WithoutLiquidity(c *gin.Context) {
	p := parsePageParams(c, "createdAt")

	tokens, total, err := h.db.TokensWithoutLiquidity(p.Offset(), p.PageSize)
	if err != nil {
		h.log.Error().Err(err).Msg("tokens without liquidity")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens, "pagination": pagination(p, total)})
}

func (h *TokenHandler) Count(c *gin.Context) {
	n, err := h.db.CountActiveTokens()
	if err != nil {
		h.log.Error().Err(err).Msg("count tokens")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count tokens"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// Create registers a launched token. The creator address must belong to
// the caller (enforced by the ownership guard on the route).
func (h *TokenHandler) Create(c *gin.Context) {
	// bound with BodyWith because the ownership guard already read the body
	var req dto.CreateTokenRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	addr, err := models.ParseAddress(req.Address)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token address"})
		return
	}
	creator, err := models.ParseAddress(req.CreatorAddress)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid creator address"})
		return
	}

	chainID := req.ChainID
	if chainID == 0 {
		chainID = 1
	}

	token := &models.Token{
		Name:             req.Name,
		Symbol:           req.Symbol,
		Address:          addr,
		ChainID:          chainID,
		CreatorAddress:   creator,
		Description:      req.Description,
		Website:          req.Website,
		Youtube:          req.Youtube,
		Discord:          req.Discord,
		Twitter:          req.Twitter,
		Telegram:         req.Telegram,
		Tags:             req.Tags,
		TotalSupply:      req.TotalSupply,
		DeploymentTxHash: req.DeploymentTxHash,
		DeploymentBlock:  req.DeploymentBlock,
		IsActive:         true,
	}
	if req.Logo != "" {
		token.Logo = req.Logo
	}
	if token.TotalSupply == "" {
		token.TotalSupply = "0"
	}

	if err := h.db.CreateToken(token); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "token address already registered"})
			return
		}
		h.log.Error().Err(err).Msg("create token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "token created", "token": token})
}

// Update patches mutable token fields. Verification and activity flags are
// only honored for moderators and admins.
func (h *TokenHandler) Update(c *gin.Context) {
	addr, err := models.ParseAddress(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req dto.UpdateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]interface{}{}
	setStr := func(col string, v *string) {
		if v != nil {
			fields[col] = *v
		}
	}
	setStr("name", req.Name)
	setStr("description", req.Description)
	setStr("logo", req.Logo)
	setStr("website", req.Website)
	setStr("youtube", req.Youtube)
	setStr("discord", req.Discord)
	setStr("twitter", req.Twitter)
	setStr("telegram", req.Telegram)
	setStr("current_price", req.CurrentPrice)
	setStr("current_price_usd", req.CurrentPriceUSD)
	setStr("market_cap", req.MarketCap)
	setStr("market_cap_usd", req.MarketCapUSD)
	setStr("volume24h", req.Volume24h)
	setStr("volume24h_usd", req.Volume24hUSD)
	setStr("price_change24h", req.PriceChange24h)
	setStr("price_change24h_percent", req.PriceChange24hPercent)
	setStr("total_liquidity", req.TotalLiquidity)
	setStr("total_liquidity_usd", req.TotalLiquidityUSD)

	user, _ := middleware.CurrentUser(c)
	if user != nil && user.Role.AtLeast(models.RoleModerator) {
		if req.IsActive != nil {
			fields["is_active"] = *req.IsActive
		}
		if req.IsVerified != nil {
			fields["is_verified"] = *req.IsVerified
		}
		if req.RiskLevel != nil {
			fields["risk_level"] = *req.RiskLevel
		}
	}
	if req.Tags != nil {
		fields["tags"] = req.Tags
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	token, err := h.db.UpdateTokenFields(addr, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "token not found"})
			return
		}
		h.log.Error().Err(err).Msg("update token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "token updated", "token": token})
}

// Holders returns the top holder list for a token.
func (h *TokenHandler) Holders(c *gin.Context) {
	addr, err := models.ParseAddress(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > maxPageSize {
		limit = 50
	}

	holders, err := h.db.TopHolders(addr, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("token holders")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list holders"})
		return
	}
	count, err := h.db.CountHolders(addr)
	if err != nil {
		h.log.Error().Err(err).Msg("token holders: count")
	}

	c.JSON(http.StatusOK, gin.H{"holders": holders, "holderCount": count})
}
