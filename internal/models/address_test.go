package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0xAbCdEf1234567890aBcDeF1234567890ABCDEF12")
	require.NoError(t, err)
	assert.Equal(t, "0xabcdef1234567890abcdef1234567890abcdef12", addr.String())

	_, err = ParseAddress("0x123")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = ParseAddress("abcdef1234567890abcdef1234567890abcdef12")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = ParseAddress("0x" + strings.Repeat("g", 40))
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestAddressEqualsCaseInsensitive(t *testing.T) {
	addr, err := ParseAddress("0x1111111111111111111111111111111111111111")
	require.NoError(t, err)

	assert.True(t, addr.Equals("0x1111111111111111111111111111111111111111"))
	assert.True(t, addr.Equals("0X1111111111111111111111111111111111111111"))
	assert.True(t, addr.Equals("  0x1111111111111111111111111111111111111111 "))
	assert.False(t, addr.Equals("0x2222222222222222222222222222222222222222"))
}

func TestParseTxHash(t *testing.T) {
	hash, err := ParseTxHash("0x" + strings.Repeat("AB", 32))
	require.NoError(t, err)
	assert.Equal(t, "0x"+strings.Repeat("ab", 32), hash.String())

	_, err = ParseTxHash("0x" + strings.Repeat("ab", 20))
	assert.ErrorIs(t, err, ErrInvalidTxHash)
}
