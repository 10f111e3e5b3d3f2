package models

import (
	"time"

	"github.com/google/uuid"
)

type TxType string

const (
	TxBuy             TxType = "buy"
	TxSell            TxType = "sell"
	TxAddLiquidity    TxType = "add_liquidity"
	TxRemoveLiquidity TxType = "remove_liquidity"
	TxTransfer        TxType = "transfer"
	TxMint            TxType = "mint"
	TxBurn            TxType = "burn"
)

func (t TxType) Valid() bool {
	switch t {
	case TxBuy, TxSell, TxAddLiquidity, TxRemoveLiquidity, TxTransfer, TxMint, TxBurn:
		return true
	}
	return false
}

type TxStatus string

const (
	TxPending   TxStatus = "pending"
	TxConfirmed TxStatus = "confirmed"
	TxFailed    TxStatus = "failed"
)

// Transaction is an ingested on-chain trade, keyed by tx hash.
type Transaction struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TxHash       TxHash    `gorm:"type:varchar(66);uniqueIndex;not null" json:"txHash"`
	TokenID      uuid.UUID `gorm:"type:uuid;index;not null" json:"tokenId"`
	TokenAddress Address   `gorm:"type:varchar(42);index;not null" json:"tokenAddress"`

	Type TxType `gorm:"type:varchar(20);index;default:'buy'" json:"type"`

	SenderAddress    Address `gorm:"type:varchar(42);index;not null" json:"senderAddress"`
	RecipientAddress Address `gorm:"type:varchar(42);index;not null" json:"recipientAddress"`

	EthAmount   string `gorm:"default:'0'" json:"ethAmount"`
	TokenAmount string `gorm:"default:'0'" json:"tokenAmount"`

	TokenPrice    string `gorm:"default:'0'" json:"tokenPrice"`
	TokenPriceUSD string `gorm:"default:'0'" json:"tokenPriceUSD"`

	GasUsed    string `gorm:"default:'0'" json:"gasUsed"`
	GasPrice   string `gorm:"default:'0'" json:"gasPrice"`
	GasCost    string `gorm:"default:'0'" json:"gasCost"`
	GasCostUSD string `gorm:"default:'0'" json:"gasCostUSD"`

	BlockNumber    int64     `gorm:"index;not null" json:"blockNumber"`
	BlockTimestamp time.Time `gorm:"index;not null" json:"blockTimestamp"`
	ChainID        int       `gorm:"index;default:1" json:"chainId"`

	Status TxStatus `gorm:"type:varchar(10);default:'confirmed'" json:"status"`

	MethodName string `json:"methodName"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Token Token `gorm:"foreignKey:TokenID" json:"-"`
}

type LiquidityEventType string

const (
	LiquidityAdd    LiquidityEventType = "add"
	LiquidityRemove LiquidityEventType = "remove"
)

// LiquidityEvent records an add/remove against a token's bonding curve pool.
type LiquidityEvent struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TokenID      uuid.UUID `gorm:"type:uuid;index;not null" json:"tokenId"`
	TokenAddress Address   `gorm:"type:varchar(42);index;not null" json:"tokenAddress"`

	Type            LiquidityEventType `gorm:"type:varchar(8);index;not null" json:"type"`
	TxHash          TxHash             `gorm:"type:varchar(66);uniqueIndex;not null" json:"txHash"`
	ProviderAddress Address            `gorm:"type:varchar(42);index;not null" json:"providerAddress"`

	EthAmount      string `gorm:"default:'0'" json:"ethAmount"`
	TokenAmount    string `gorm:"default:'0'" json:"tokenAmount"`
	LiquidityValue string `gorm:"default:'0'" json:"liquidityValue"`

	BlockNumber    int64     `gorm:"index;not null" json:"blockNumber"`
	BlockTimestamp time.Time `gorm:"index;not null" json:"blockTimestamp"`
	ChainID        int       `gorm:"default:1" json:"chainId"`

	Status TxStatus `gorm:"type:varchar(10);default:'confirmed'" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
