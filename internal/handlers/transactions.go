package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/crossfun/backend/internal/database"
	"github.com/crossfun/backend/internal/handlers/dto"
	"github.com/crossfun/backend/internal/logger"
	"github.com/crossfun/backend/internal/models"
)

type TransactionHandler struct {
	db  *database.Database
	log *logger.Logger
}

func NewTransactionHandler(db *database.Database, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{db: db, log: log}
}

func timeQuery(c *gin.Context, name string) *time.Time {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}

func (h *TransactionHandler) filterFromQuery(c *gin.Context) (database.TransactionFilter, error) {
	var f database.TransactionFilter
	if v := c.Query("tokenAddress"); v != "" {
		addr, err := models.ParseAddress(v)
		if err != nil {
			return f, err
		}
		f.TokenAddress = addr
	}
	if v := c.Query("address"); v != "" {
		addr, err := models.ParseAddress(v)
		if err != nil {
			return f, err
		}
		f.Address = addr
	}
	if v := c.Query("type"); v != "" {
		f.Type = models.TxType(v)
	}
	if v := c.Query("chainId"); v != "" {
		f.ChainID, _ = strconv.Atoi(v)
	}
	if v := c.Query("status"); v != "" {
		f.Status = models.TxStatus(v)
	}
	f.From = timeQuery(c, "from")
	f.To = timeQuery(c, "to")
	return f, nil
}

// List returns a filtered page of transactions, newest first.
func (h *TransactionHandler) List(c *gin.Context) {
	filter, err := h.filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := parsePageParams(c, "blockTimestamp")
	txs, total, err := h.db.ListTransactions(filter, p.Offset(), p.PageSize)
	if err != nil {
		h.log.Error().Err(err).Msg("list transactions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txs, "pagination": pagination(p, total)})
}

func (h *TransactionHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > maxPageSize {
		limit = 20
	}
	txs, err := h.db.RecentTransactions(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("recent transactions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list transactions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

func (h *TransactionHandler) ByToken(c *gin.Context) {
	addr, err := models.ParseAddress(c.Param("tokenAddress"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := parsePageParams(c, "blockTimestamp")
	txs, total, err := h.db.ListTransactions(database.TransactionFilter{TokenAddress: addr}, p.Offset(), p.PageSize)
	if err != nil {
		h.log.Error().Err(err).Msg("transactions by token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txs, "pagination": pagination(p, total)})
}

// ByAddress lists transactions where the address is sender or recipient.
func (h *TransactionHandler) ByAddress(c *gin.Context) {
	addr, err := models.ParseAddress(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := parsePageParams(c, "blockTimestamp")
	txs, total, err := h.db.ListTransactions(database.TransactionFilter{Address: addr}, p.Offset(), p.PageSize)
	if err != nil {
		h.log.Error().Err(err).Msg("transactions by address")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txs, "pagination": pagination(p, total)})
}

func (h *TransactionHandler) ByHash(c *gin.Context) {
	hash, err := models.ParseTxHash(c.Param("txHash"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.db.GetTransactionByHash(hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
			return
		}
		h.log.Error().Err(err).Msg("transaction by hash")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// Create records an ingested transaction and bumps the token's last
// activity timestamp. A duplicate hash answers 409.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := models.ParseTxHash(req.TxHash)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tokenAddr, err := models.ParseAddress(req.TokenAddress)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token address"})
		return
	}
	sender, err := models.ParseAddress(req.SenderAddress)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sender address"})
		return
	}
	recipient, err := models.ParseAddress(req.RecipientAddress)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipient address"})
		return
	}

	txType := models.TxType(req.Type)
	if !txType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction type"})
		return
	}

	token, err := h.db.GetTokenByAddress(tokenAddr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "token not found"})
			return
		}
		h.log.Error().Err(err).Msg("create transaction: load token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record transaction"})
		return
	}

	status := models.TxStatus(req.Status)
	if status == "" {
		status = models.TxConfirmed
	}
	blockTime := time.Now()
	if req.BlockTimestamp != nil {
		blockTime = *req.BlockTimestamp
	}
	chainID := req.ChainID
	if chainID == 0 {
		chainID = token.ChainID
	}

	tx := &models.Transaction{
		TxHash:           hash,
		TokenID:          token.ID,
		TokenAddress:     tokenAddr,
		Type:             txType,
		SenderAddress:    sender,
		RecipientAddress: recipient,
		EthAmount:        orZero(req.EthAmount),
		TokenAmount:      orZero(req.TokenAmount),
		TokenPrice:       orZero(req.TokenPrice),
		TokenPriceUSD:    orZero(req.TokenPriceUSD),
		GasUsed:          orZero(req.GasUsed),
		GasPrice:         orZero(req.GasPrice),
		BlockNumber:      req.BlockNumber,
		BlockTimestamp:   blockTime,
		ChainID:          chainID,
		Status:           status,
		MethodName:       req.MethodName,
	}

	if err := h.db.SaveTransaction(tx); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "transaction already recorded"})
			return
		}
		h.log.Error().Err(err).Msg("create transaction")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record transaction"})
		return
	}

	if err := h.db.TouchTokenActivity(tokenAddr); err != nil {
		h.log.Error().Err(err).Msg("create transaction: touch token")
	}

	c.JSON(http.StatusCreated, gin.H{"message": "transaction recorded", "transaction": tx})
}

// CreateLiquidityEvent records an add/remove liquidity event.
func (h *TransactionHandler) CreateLiquidityEvent(c *gin.Context) {
	var req dto.CreateLiquidityEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := models.ParseTxHash(req.TxHash)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tokenAddr, err := models.ParseAddress(req.TokenAddress)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token address"})
		return
	}
	provider, err := models.ParseAddress(req.ProviderAddress)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider address"})
		return
	}

	evType := models.LiquidityEventType(req.Type)
	if evType != models.LiquidityAdd && evType != models.LiquidityRemove {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid liquidity event type"})
		return
	}

	token, err := h.db.GetTokenByAddress(tokenAddr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "token not found"})
			return
		}
		h.log.Error().Err(err).Msg("liquidity event: load token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record liquidity event"})
		return
	}

	chainID := req.ChainID
	if chainID == 0 {
		chainID = token.ChainID
	}

	ev := &models.LiquidityEvent{
		TokenID:         token.ID,
		TokenAddress:    tokenAddr,
		Type:            evType,
		TxHash:          hash,
		ProviderAddress: provider,
		EthAmount:       orZero(req.EthAmount),
		TokenAmount:     orZero(req.TokenAmount),
		LiquidityValue:  orZero(req.LiquidityValue),
		BlockNumber:     req.BlockNumber,
		BlockTimestamp:  time.Now(),
		ChainID:         chainID,
		Status:          models.TxConfirmed,
	}

	if err := h.db.SaveLiquidityEvent(ev); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "liquidity event already recorded"})
			return
		}
		h.log.Error().Err(err).Msg("create liquidity event")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record liquidity event"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "liquidity event recorded", "event": ev})
}

func (h *TransactionHandler) LiquidityByToken(c *gin.Context) {
	addr, err := models.ParseAddress(c.Param("tokenAddress"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > maxPageSize {
		limit = 50
	}

	events, err := h.db.LiquidityEventsByToken(addr, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("liquidity events by token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list liquidity events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Stats aggregates counts and volume per transaction type over a period.
func (h *TransactionHandler) Stats(c *gin.Context) {
	from, to := periodRange(c)
	stats, err := h.db.TransactionStats(from, to)
	if err != nil {
		h.log.Error().Err(err).Msg("transaction stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate transactions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats, "from": from, "to": to})
}

// VolumeRange returns daily volume buckets, optionally for one token.
func (h *TransactionHandler) VolumeRange(c *gin.Context) {
	var tokenAddr models.Address
	if v := c.Query("tokenAddress"); v != "" {
		addr, err := models.ParseAddress(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		tokenAddr = addr
	}

	from, to := periodRange(c)
	buckets, err := h.db.VolumeRange(tokenAddr, from, to)
	if err != nil {
		h.log.Error().Err(err).Msg("volume range")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate volume"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"volume": buckets, "from": from, "to": to})
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// periodRange resolves the period query parameter (24h|7d|30d|90d, default
// 7d) into a [from, to] window ending now.
func periodRange(c *gin.Context) (time.Time, time.Time) {
	to := time.Now()
	var span time.Duration
	switch c.DefaultQuery("period", "7d") {
	case "24h":
		span = 24 * time.Hour
	case "30d":
		span = 30 * 24 * time.Hour
	case "90d":
		span = 90 * 24 * time.Hour
	default:
		span = 7 * 24 * time.Hour
	}
	return to.Add(-span), to
}
