package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

var roleLevels = map[Role]int{
	RoleUser:      0,
	RoleModerator: 1,
	RoleAdmin:     2,
}

// AtLeast reports whether r grants the privileges of min.
func (r Role) AtLeast(min Role) bool {
	return roleLevels[r] >= roleLevels[min]
}

func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

const (
	// MaxLoginAttempts failed logins lock the account for LockDuration.
	MaxLoginAttempts = 5
	LockDuration     = 15 * time.Minute
)

var (
	ErrWalletExists   = errors.New("wallet address already exists")
	ErrWalletNotFound = errors.New("wallet address not found")
	ErrLastWallet     = errors.New("cannot remove the only wallet address")
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`

	Wallets []Wallet `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"walletAddresses"`

	Avatar   string `gorm:"default:'/chats/noimg.svg'" json:"avatar"`
	Bio      string `json:"bio"`
	Website  string `json:"website"`
	Twitter  string `json:"twitter"`
	Telegram string `json:"telegram"`
	Discord  string `json:"discord"`
	Github   string `json:"github"`

	TokensCreated  int    `json:"tokensCreated"`
	TotalVolumeUSD string `gorm:"default:'0'" json:"totalVolumeUSD"`

	IsVerified bool `json:"isVerified"`
	IsActive   bool `gorm:"default:true" json:"isActive"`
	IsBanned   bool `json:"isBanned"`

	TwoFactorEnabled bool   `json:"twoFactorEnabled"`
	TwoFactorSecret  string `json:"-"`

	Role Role `gorm:"type:varchar(16);default:'user'" json:"role"`

	LastLoginAt   *time.Time `json:"lastLoginAt"`
	LoginAttempts int        `json:"-"`
	LockUntil     *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Wallet is one EVM address linked to an account. Addresses are stored
// lowercased and are unique across all accounts.
type Wallet struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	UserID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"-"`
	Address    Address    `gorm:"type:varchar(42);uniqueIndex;not null" json:"address"`
	ChainID    int        `gorm:"default:1" json:"chainId"`
	IsPrimary  bool       `json:"isPrimary"`
	VerifiedAt *time.Time `json:"verifiedAt"`
}

// HasWallet reports whether addr (any case) belongs to the user.
func (u *User) HasWallet(addr string) bool {
	for _, w := range u.Wallets {
		if w.Address.Equals(addr) {
			return true
		}
	}
	return false
}

// PrimaryWallet returns the primary wallet, or the first one if none is
// flagged, or nil when the user has no wallets.
func (u *User) PrimaryWallet() *Wallet {
	for i := range u.Wallets {
		if u.Wallets[i].IsPrimary {
			return &u.Wallets[i]
		}
	}
	if len(u.Wallets) > 0 {
		return &u.Wallets[0]
	}
	return nil
}

// AddWallet appends a wallet. The first wallet becomes primary.
// The caller persists the user afterwards.
func (u *User) AddWallet(addr Address, chainID int) error {
	if u.HasWallet(addr.String()) {
		return ErrWalletExists
	}
	u.Wallets = append(u.Wallets, Wallet{
		UserID:    u.ID,
		Address:   addr,
		ChainID:   chainID,
		IsPrimary: len(u.Wallets) == 0,
	})
	return nil
}

// RemoveWallet drops a wallet, refusing to remove the last one. If the
// removed wallet was primary, the first remaining wallet becomes primary.
func (u *User) RemoveWallet(addr string) error {
	if len(u.Wallets) <= 1 {
		return ErrLastWallet
	}
	kept := u.Wallets[:0]
	removed := false
	for _, w := range u.Wallets {
		if w.Address.Equals(addr) {
			removed = true
			continue
		}
		kept = append(kept, w)
	}
	if !removed {
		return ErrWalletNotFound
	}
	u.Wallets = kept

	hasPrimary := false
	for _, w := range u.Wallets {
		if w.IsPrimary {
			hasPrimary = true
			break
		}
	}
	if !hasPrimary && len(u.Wallets) > 0 {
		u.Wallets[0].IsPrimary = true
	}
	return nil
}

// SetPrimaryWallet marks addr primary and clears the flag on all others.
func (u *User) SetPrimaryWallet(addr string) error {
	if !u.HasWallet(addr) {
		return ErrWalletNotFound
	}
	for i := range u.Wallets {
		u.Wallets[i].IsPrimary = u.Wallets[i].Address.Equals(addr)
	}
	return nil
}

// VerifyWallet stamps the wallet's verification time.
func (u *User) VerifyWallet(addr string, at time.Time) error {
	for i := range u.Wallets {
		if u.Wallets[i].Address.Equals(addr) {
			u.Wallets[i].VerifiedAt = &at
			return nil
		}
	}
	return ErrWalletNotFound
}

// IsLocked reports whether the account is under a login lockout at now.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}

// RecordFailedLogin increments the failure counter and starts a lockout
// once MaxLoginAttempts is reached. The caller persists the user.
func (u *User) RecordFailedLogin(now time.Time) {
	u.LoginAttempts++
	if u.LoginAttempts >= MaxLoginAttempts {
		until := now.Add(LockDuration)
		u.LockUntil = &until
	}
}

// RecordSuccessfulLogin clears lockout state and stamps the login time.
func (u *User) RecordSuccessfulLogin(now time.Time) {
	u.LoginAttempts = 0
	u.LockUntil = nil
	u.LastLoginAt = &now
}
