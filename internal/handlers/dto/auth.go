package dto

type RegisterRequest struct {
	Username      string `json:"username" binding:"required,min=3,max=30"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8,max=72"`
	WalletAddress string `json:"walletAddress"`
	ChainID       int    `json:"chainId"`
}

type LoginRequest struct {
	// Identifier is a username or an email.
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type WalletLoginRequest struct {
	WalletAddress string `json:"walletAddress" binding:"required"`
	Signature     string `json:"signature" binding:"required"`
}

type VerifyWalletRequest struct {
	WalletAddress string `json:"walletAddress" binding:"required"`
	Signature     string `json:"signature" binding:"required"`
}

type AddWalletRequest struct {
	WalletAddress string `json:"walletAddress" binding:"required"`
	ChainID       int    `json:"chainId"`
}

type RemoveWalletRequest struct {
	WalletAddress string `json:"walletAddress" binding:"required"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Avatar   *string `json:"avatar"`
	Bio      *string `json:"bio"`
	Website  *string `json:"website"`
	Twitter  *string `json:"twitter"`
	Telegram *string `json:"telegram"`
	Discord  *string `json:"discord"`
	Github   *string `json:"github"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=72"`
}
