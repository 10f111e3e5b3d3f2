package dto

type CreateTokenRequest struct {
	Address        string   `json:"address" binding:"required"`
	Name           string   `json:"name" binding:"required,min=1,max=100"`
	Symbol         string   `json:"symbol" binding:"required,min=1,max=20"`
	Description    string   `json:"description" binding:"max=2000"`
	CreatorAddress string   `json:"creatorAddress" binding:"required"`
	ChainID        int      `json:"chainId"`
	TotalSupply    string   `json:"totalSupply"`
	Logo           string   `json:"logo"`
	Website        string   `json:"website"`
	Youtube        string   `json:"youtube"`
	Discord        string   `json:"discord"`
	Twitter        string   `json:"twitter"`
	Telegram       string   `json:"telegram"`
	Tags           []string `json:"tags"`

	DeploymentTxHash string `json:"deploymentTxHash"`
	DeploymentBlock  int64  `json:"deploymentBlock"`
}

// UpdateTokenRequest carries mutable token fields. Address, creator and
// supply are immutable after creation.
type UpdateTokenRequest struct {
	Name                  *string  `json:"name"`
	Description           *string  `json:"description"`
	Logo                  *string  `json:"logo"`
	Website               *string  `json:"website"`
	Youtube               *string  `json:"youtube"`
	Discord               *string  `json:"discord"`
	Twitter               *string  `json:"twitter"`
	Telegram              *string  `json:"telegram"`
	Tags                  []string `json:"tags"`
	CurrentPrice          *string  `json:"currentPrice"`
	CurrentPriceUSD       *string  `json:"currentPriceUSD"`
	MarketCap             *string  `json:"marketCap"`
	MarketCapUSD          *string  `json:"marketCapUSD"`
	Volume24h             *string  `json:"volume24h"`
	Volume24hUSD          *string  `json:"volume24hUSD"`
	PriceChange24h        *string  `json:"priceChange24h"`
	PriceChange24hPercent *string  `json:"priceChange24hPercent"`
	TotalLiquidity        *string  `json:"totalLiquidity"`
	TotalLiquidityUSD     *string  `json:"totalLiquidityUSD"`
	IsActive              *bool    `json:"isActive"`
	IsVerified            *bool    `json:"isVerified"`
	RiskLevel             *string  `json:"riskLevel"`
}
