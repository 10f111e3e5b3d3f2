package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAddr(t *testing.T, s string) Address {
	t.Helper()
	addr, err := ParseAddress(s)
	require.NoError(t, err)
	return addr
}

const (
	addrA = "0x1111111111111111111111111111111111111111"
	addrB = "0x2222222222222222222222222222222222222222"
)

func TestAddWallet(t *testing.T) {
	u := &User{}

	require.NoError(t, u.AddWallet(mustAddr(t, addrA), 1))
	require.Len(t, u.Wallets, 1)
	assert.True(t, u.Wallets[0].IsPrimary, "first wallet becomes primary")

	require.NoError(t, u.AddWallet(mustAddr(t, addrB), 1))
	require.Len(t, u.Wallets, 2)
	assert.False(t, u.Wallets[1].IsPrimary)

	err := u.AddWallet(mustAddr(t, addrA), 1)
	assert.ErrorIs(t, err, ErrWalletExists)
}

func TestHasWalletCaseInsensitive(t *testing.T) {
	u := &User{}
	require.NoError(t, u.AddWallet(mustAddr(t, "0xABC0000000000000000000000000000000000Def"), 1))

	assert.True(t, u.HasWallet("0xabc0000000000000000000000000000000000def"))
	assert.True(t, u.HasWallet("0xABC0000000000000000000000000000000000DEF"))
	assert.False(t, u.HasWallet(addrB))
}

func TestRemoveWallet(t *testing.T) {
	u := &User{}
	require.NoError(t, u.AddWallet(mustAddr(t, addrA), 1))

	err := u.RemoveWallet(addrA)
	assert.ErrorIs(t, err, ErrLastWallet)

	require.NoError(t, u.AddWallet(mustAddr(t, addrB), 1))
	require.NoError(t, u.RemoveWallet(addrA))
	require.Len(t, u.Wallets, 1)
	assert.True(t, u.Wallets[0].IsPrimary, "primary reassigned to the remaining wallet")

	err = u.RemoveWallet(addrA)
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestSetPrimaryWallet(t *testing.T) {
	u := &User{}
	require.NoError(t, u.AddWallet(mustAddr(t, addrA), 1))
	require.NoError(t, u.AddWallet(mustAddr(t, addrB), 1))

	require.NoError(t, u.SetPrimaryWallet(addrB))
	assert.False(t, u.Wallets[0].IsPrimary)
	assert.True(t, u.Wallets[1].IsPrimary)

	primary := u.PrimaryWallet()
	require.NotNil(t, primary)
	assert.Equal(t, Address(addrB), primary.Address)

	err := u.SetPrimaryWallet("0x3333333333333333333333333333333333333333")
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestLockoutStateMachine(t *testing.T) {
	u := &User{}
	now := time.Now()

	for i := 0; i < MaxLoginAttempts-1; i++ {
		u.RecordFailedLogin(now)
		assert.False(t, u.IsLocked(now), "not locked before the threshold")
	}

	u.RecordFailedLogin(now)
	assert.Equal(t, MaxLoginAttempts, u.LoginAttempts)
	require.NotNil(t, u.LockUntil)
	assert.True(t, u.IsLocked(now))
	assert.True(t, u.LockUntil.After(now))

	// lock expires after the duration
	assert.False(t, u.IsLocked(now.Add(LockDuration+time.Second)))

	u.RecordSuccessfulLogin(now)
	assert.Zero(t, u.LoginAttempts)
	assert.Nil(t, u.LockUntil)
	require.NotNil(t, u.LastLoginAt)
	assert.False(t, u.IsLocked(now))
}

func TestRoleOrdering(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleModerator))
	assert.True(t, RoleAdmin.AtLeast(RoleUser))
	assert.True(t, RoleModerator.AtLeast(RoleUser))
	assert.False(t, RoleModerator.AtLeast(RoleAdmin))
	assert.False(t, RoleUser.AtLeast(RoleModerator))
	assert.True(t, RoleUser.AtLeast(RoleUser))

	assert.True(t, RoleModerator.Valid())
	assert.False(t, Role("root").Valid())
}
