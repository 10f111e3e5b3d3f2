package models

import (
	"time"

	"github.com/google/uuid"
)

// TokenHolder is the cached balance of one address in one token,
// refreshed by the chain ingestion job.
type TokenHolder struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TokenID       uuid.UUID `gorm:"type:uuid;index:idx_holder_token_addr,unique;not null" json:"tokenId"`
	TokenAddress  Address   `gorm:"type:varchar(42);index;not null" json:"tokenAddress"`
	HolderAddress Address   `gorm:"type:varchar(42);index:idx_holder_token_addr,unique;not null" json:"holderAddress"`

	Balance      string  `gorm:"default:'0'" json:"balance"`
	BalanceUSD   string  `gorm:"default:'0'" json:"balanceUSD"`
	SharePercent float64 `json:"sharePercent"`

	FirstSeenAt time.Time `json:"firstSeenAt"`
	LastSeenAt  time.Time `json:"lastSeenAt"`
	ChainID     int       `gorm:"default:1" json:"chainId"`

	IsContract bool `json:"isContract"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
