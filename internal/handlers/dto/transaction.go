package dto

import "time"

type CreateTransactionRequest struct {
	TxHash           string     `json:"txHash" binding:"required"`
	TokenAddress     string     `json:"tokenAddress" binding:"required"`
	Type             string     `json:"type" binding:"required"`
	SenderAddress    string     `json:"senderAddress" binding:"required"`
	RecipientAddress string     `json:"recipientAddress" binding:"required"`
	EthAmount        string     `json:"ethAmount"`
	TokenAmount      string     `json:"tokenAmount"`
	TokenPrice       string     `json:"tokenPrice"`
	TokenPriceUSD    string     `json:"tokenPriceUSD"`
	GasUsed          string     `json:"gasUsed"`
	GasPrice         string     `json:"gasPrice"`
	ChainID          int        `json:"chainId"`
	BlockNumber      int64      `json:"blockNumber" binding:"required"`
	BlockTimestamp   *time.Time `json:"blockTimestamp"`
	Status           string     `json:"status"`
	MethodName       string     `json:"methodName"`
}

type CreateLiquidityEventRequest struct {
	TxHash          string `json:"txHash" binding:"required"`
	TokenAddress    string `json:"tokenAddress" binding:"required"`
	Type            string `json:"type" binding:"required"`
	ProviderAddress string `json:"providerAddress" binding:"required"`
	EthAmount       string `json:"ethAmount"`
	TokenAmount     string `json:"tokenAmount"`
	LiquidityValue  string `json:"liquidityValue"`
	ChainID         int    `json:"chainId"`
	BlockNumber     int64  `json:"blockNumber" binding:"required"`
}
