package database

import (
	"time"

	"github.com/crossfun/backend/internal/models"
)

type TransactionFilter struct {
	TokenAddress models.Address
	Address      models.Address // matches sender or recipient
	Type         models.TxType
	ChainID      int
	Status       models.TxStatus
	From, To     *time.Time
}

func (d *Database) SaveTransaction(tx *models.Transaction) error {
	return d.db.Create(tx).Error
}

func (d *Database) GetTransactionByHash(hash models.TxHash) (*models.Transaction, error) {
	var tx models.Transaction
	if err := d.db.Where("tx_hash = ?", hash).First(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (d *Database) ListTransactions(f TransactionFilter, offset, limit int) ([]models.Transaction, int64, error) {
	query := d.db.Model(&models.Transaction{})
	if f.TokenAddress != "" {
		query = query.Where("token_address = ?", f.TokenAddress)
	}
	if f.Address != "" {
		query = query.Where("sender_address = ? OR recipient_address = ?", f.Address, f.Address)
	}
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if f.ChainID > 0 {
		query = query.Where("chain_id = ?", f.ChainID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.From != nil {
		query = query.Where("block_timestamp >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("block_timestamp <= ?", *f.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txs []models.Transaction
	err := query.Order("block_timestamp DESC").Offset(offset).Limit(limit).Find(&txs).Error
	return txs, total, err
}

func (d *Database) RecentTransactions(limit int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := d.db.Where("status = ?", models.TxConfirmed).
		Order("block_timestamp DESC").
		Limit(limit).
		Find(&txs).Error
	return txs, err
}

// TxTypeStat is one row of the per-type aggregate.
type TxTypeStat struct {
	Type      models.TxType `json:"type"`
	Count     int64         `json:"count"`
	VolumeETH float64       `json:"volumeEth"`
	VolumeUSD float64       `json:"volumeUsd"`
}

func (d *Database) TransactionStats(from, to time.Time) ([]TxTypeStat, error) {
	var stats []TxTypeStat
	err := d.db.Model(&models.Transaction{}).
		Select(`type,
			COUNT(*) AS count,
			COALESCE(SUM(CAST(eth_amount AS numeric)), 0) AS volume_eth,
			COALESCE(SUM(CAST(token_price_usd AS numeric) * CAST(token_amount AS numeric)), 0) AS volume_usd`).
		Where("status = ? AND block_timestamp BETWEEN ? AND ?", models.TxConfirmed, from, to).
		Group("type").
		Scan(&stats).Error
	return stats, err
}

// VolumeBucket is a daily volume aggregate for charting.
type VolumeBucket struct {
	Day       time.Time `json:"day"`
	Count     int64     `json:"count"`
	VolumeUSD float64   `json:"volumeUsd"`
}

func (d *Database) VolumeRange(tokenAddress models.Address, from, to time.Time) ([]VolumeBucket, error) {
	query := d.db.Model(&models.Transaction{}).
		Select(`DATE_TRUNC('day', block_timestamp) AS day,
			COUNT(*) AS count,
			COALESCE(SUM(CAST(token_price_usd AS numeric) * CAST(token_amount AS numeric)), 0) AS volume_usd`).
		Where("status = ? AND block_timestamp BETWEEN ? AND ?", models.TxConfirmed, from, to)
	if tokenAddress != "" {
		query = query.Where("token_address = ?", tokenAddress)
	}

	var buckets []VolumeBucket
	err := query.Group("day").Order("day ASC").Scan(&buckets).Error
	return buckets, err
}

func (d *Database) SaveLiquidityEvent(ev *models.LiquidityEvent) error {
	return d.db.Create(ev).Error
}

func (d *Database) LiquidityEventsByToken(addr models.Address, limit int) ([]models.LiquidityEvent, error) {
	var events []models.LiquidityEvent
	err := d.db.Where("token_address = ?", addr).
		Order("block_timestamp DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
