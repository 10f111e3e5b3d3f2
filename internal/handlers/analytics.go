package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/crossfun/backend/internal/database"
	"github.com/crossfun/backend/internal/logger"
)

type AnalyticsHandler struct {
	db  *database.Database
	log *logger.Logger
}

func NewAnalyticsHandler(db *database.Database, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{db: db, log: log}
}

// Overview returns the platform-wide headline numbers.
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, err := h.db.Overview()
	if err != nil {
		h.log.Error().Err(err).Msg("analytics overview")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate overview"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"overview": overview})
}

// Chains breaks tokens and volume down per chain.
func (h *AnalyticsHandler) Chains(c *gin.Context) {
	stats, err := h.db.StatsByChain()
	if err != nil {
		h.log.Error().Err(err).Msg("analytics by chain")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate chains"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chains": stats})
}

// Daily returns day-by-day platform activity over the requested period.
func (h *AnalyticsHandler) Daily(c *gin.Context) {
	from, to := periodRange(c)
	stats, err := h.db.DailyStats(from, to)
	if err != nil {
		h.log.Error().Err(err).Msg("analytics daily")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate daily stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"daily": stats, "from": from, "to": to})
}

// Trends returns trending tokens plus recent launches in one response for
// the dashboard.
func (h *AnalyticsHandler) Trends(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > maxPageSize {
		limit = 10
	}

	trending, err := h.db.TrendingTokens(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("analytics trends: trending")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate trends"})
		return
	}
	recent, err := h.db.RecentTokens(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("analytics trends: recent")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate trends"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trending": trending, "recent": recent})
}
