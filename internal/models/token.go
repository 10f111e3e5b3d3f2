package models

import (
	"time"

	"github.com/google/uuid"
)

type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskExtreme RiskLevel = "extreme"
)

// Token is a launched token. Price/volume fields are numeric strings
// overwritten by the chain ingestion job, not computed here.
type Token struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Symbol         string    `gorm:"not null" json:"symbol"`
	Address        Address   `gorm:"type:varchar(42);uniqueIndex;not null" json:"address"`
	ChainID        int       `gorm:"index;default:1" json:"chainId"`
	CreatorAddress Address   `gorm:"type:varchar(42);index;not null" json:"creatorAddress"`

	Logo        string `gorm:"default:'/chats/noimg.svg'" json:"logo"`
	Description string `json:"description"`

	Website  string `json:"website"`
	Youtube  string `json:"youtube"`
	Discord  string `json:"discord"`
	Twitter  string `json:"twitter"`
	Telegram string `json:"telegram"`

	TotalSupply       string `gorm:"default:'0'" json:"totalSupply"`
	CirculatingSupply string `gorm:"default:'0'" json:"circulatingSupply"`

	CurrentPrice    string `gorm:"default:'0'" json:"currentPrice"`
	CurrentPriceUSD string `gorm:"default:'0'" json:"currentPriceUSD"`
	MarketCap       string `gorm:"default:'0'" json:"marketCap"`
	MarketCapUSD    string `gorm:"default:'0'" json:"marketCapUSD"`

	TotalLiquidity    string `gorm:"default:'0'" json:"totalLiquidity"`
	TotalLiquidityUSD string `gorm:"default:'0'" json:"totalLiquidityUSD"`

	Volume24h             string `gorm:"default:'0'" json:"volume24h"`
	Volume24hUSD          string `gorm:"default:'0'" json:"volume24hUSD"`
	PriceChange24h        string `gorm:"default:'0'" json:"priceChange24h"`
	PriceChange24hPercent string `gorm:"default:'0'" json:"priceChange24hPercent"`

	IsVerified bool `json:"isVerified"`
	IsActive   bool `gorm:"default:true" json:"isActive"`
	IsHoneypot bool `json:"isHoneypot"`

	DeploymentTxHash string `json:"deploymentTxHash"`
	DeploymentBlock  int64  `json:"deploymentBlock"`

	Tags []string `gorm:"serializer:json" json:"tags"`

	AuditScore int       `json:"auditScore"`
	RiskLevel  RiskLevel `gorm:"type:varchar(8);default:'medium'" json:"riskLevel"`

	LatestTransactionTimestamp time.Time `json:"latestTransactionTimestamp"`
	CreatedAt                  time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt                  time.Time `json:"updatedAt"`
}
