package models

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidAddress = errors.New("invalid wallet address")
	ErrInvalidTxHash  = errors.New("invalid transaction hash")
)

var (
	addressRe = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
	txHashRe  = regexp.MustCompile(`^0x[a-fA-F0-9]{64}$`)
)

// Address is a lowercased EVM address. The zero value is invalid;
// construct through ParseAddress so an Address is always well-formed.
type Address string

func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if !addressRe.MatchString(s) {
		return "", ErrInvalidAddress
	}
	return Address(strings.ToLower(s)), nil
}

func (a Address) String() string { return string(a) }

// Equals compares case-insensitively so raw mixed-case input can be
// matched against stored addresses.
func (a Address) Equals(other string) bool {
	return string(a) == strings.ToLower(strings.TrimSpace(other))
}

// TxHash is a lowercased 32-byte transaction hash.
type TxHash string

func ParseTxHash(s string) (TxHash, error) {
	s = strings.TrimSpace(s)
	if !txHashRe.MatchString(s) {
		return "", ErrInvalidTxHash
	}
	return TxHash(strings.ToLower(s)), nil
}

func (h TxHash) String() string { return string(h) }
