package database

import (
	"github.com/crossfun/backend/internal/models"
	"gorm.io/gorm/clause"
)

// UpsertHolder inserts or refreshes a holder balance row, keyed by
// (token, holder address).
func (d *Database) UpsertHolder(h *models.TokenHolder) error {
	return d.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "token_id"}, {Name: "holder_address"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"balance", "balance_usd", "share_percent", "last_seen_at", "updated_at",
		}),
	}).Create(h).Error
}

func (d *Database) TopHolders(addr models.Address, limit int) ([]models.TokenHolder, error) {
	var holders []models.TokenHolder
	err := d.db.Where("token_address = ?", addr).
		Order("CAST(balance AS numeric) DESC").
		Limit(limit).
		Find(&holders).Error
	return holders, err
}

func (d *Database) CountHolders(addr models.Address) (int64, error) {
	var n int64
	err := d.db.Model(&models.TokenHolder{}).Where("token_address = ?", addr).Count(&n).Error
	return n, err
}
