// Package contract builds unsigned transaction envelopes addressed to the
// DeFi hub contract. Method names and argument order are part of the wire
// contract and must match the deployed contract exactly.
package contract

import (
	"fmt"
	"math/big"
	"strings"
)

// Kind identifies a logical hub operation.
type Kind string

const (
	KindStake    Kind = "stake"
	KindUnstake  Kind = "unstake"
	KindSwap     Kind = "swap"
	KindSupply   Kind = "supply"
	KindWithdraw Kind = "withdraw"
	KindBorrow   Kind = "borrow"

	// Read-only queries
	KindUserPosition Kind = "user_position"
	KindHealthStatus Kind = "health_status"
)

// ArgType is the coarse wire type of an invocation argument.
type ArgType string

const (
	ArgAddress ArgType = "address"
	ArgU128    ArgType = "u128"
	ArgU64     ArgType = "u64"
	ArgBool    ArgType = "bool"
)

// Arg is one typed invocation argument.
type Arg struct {
	Type ArgType  `json:"type"`
	Addr string   `json:"addr,omitempty"`
	Num  *big.Int `json:"num,omitempty"`
	Flag bool     `json:"flag,omitempty"`
}

// Address builds an address argument
func Address(addr string) Arg { return Arg{Type: ArgAddress, Addr: addr} }

// U128 builds a u128 amount argument
func U128(n *big.Int) Arg { return Arg{Type: ArgU128, Num: n} }

// U64 builds a u64 argument
func U64(n uint64) Arg { return Arg{Type: ArgU64, Num: new(big.Int).SetUint64(n)} }

// Bool builds a bool argument
func Bool(b bool) Arg { return Arg{Type: ArgBool, Flag: b} }

// OperationRequest is a logical operation plus its ordered arguments.
// Construct via the request helpers below so argument order always matches
// the contract ABI.
type OperationRequest struct {
	Kind Kind
	Args []Arg
}

// StakeRequest stakes the reward token.
func StakeRequest(user string, amount *big.Int) OperationRequest {
	return OperationRequest{Kind: KindStake, Args: []Arg{Address(user), U128(amount)}}
}

// UnstakeRequest unstakes the reward token.
func UnstakeRequest(user string, amount *big.Int) OperationRequest {
	return OperationRequest{Kind: KindUnstake, Args: []Arg{Address(user), U128(amount)}}
}

// SwapRequest swaps tokenIn for tokenOut.
func SwapRequest(user, tokenIn, tokenOut string, amountIn, minAmountOut *big.Int, deadline uint64) OperationRequest {
	return OperationRequest{Kind: KindSwap, Args: []Arg{
		Address(user), Address(tokenIn), Address(tokenOut),
		U128(amountIn), U128(minAmountOut), U64(deadline),
	}}
}

// SupplyRequest supplies an asset, optionally as collateral.
func SupplyRequest(user, asset string, amount *big.Int, asCollateral bool) OperationRequest {
	return OperationRequest{Kind: KindSupply, Args: []Arg{
		Address(user), Address(asset), U128(amount), Bool(asCollateral),
	}}
}

// WithdrawRequest withdraws a supplied asset.
func WithdrawRequest(user, asset string, amount *big.Int) OperationRequest {
	return OperationRequest{Kind: KindWithdraw, Args: []Arg{
		Address(user), Address(asset), U128(amount),
	}}
}

// BorrowRequest borrows an asset against supplied collateral.
func BorrowRequest(user, asset string, amount *big.Int) OperationRequest {
	return OperationRequest{Kind: KindBorrow, Args: []Arg{
		Address(user), Address(asset), U128(amount),
	}}
}

// UserPositionRequest is the read-only position query.
func UserPositionRequest(user string) OperationRequest {
	return OperationRequest{Kind: KindUserPosition, Args: []Arg{Address(user)}}
}

// HealthStatusRequest is the read-only health query.
func HealthStatusRequest(user string) OperationRequest {
	return OperationRequest{Kind: KindHealthStatus, Args: []Arg{Address(user)}}
}

// validateArg checks one argument against its expected coarse type.
func validateArg(arg Arg, want ArgType, position int) error {
	if arg.Type != want {
		return fmt.Errorf("argument %d: expected %s, got %s", position, want, arg.Type)
	}
	switch want {
	case ArgAddress:
		if !isAddressShaped(arg.Addr) {
			return fmt.Errorf("argument %d: not address-shaped: %q", position, arg.Addr)
		}
	case ArgU128, ArgU64:
		if arg.Num == nil || arg.Num.Sign() < 0 {
			return fmt.Errorf("argument %d: %s must be a non-negative integer", position, want)
		}
	}
	return nil
}

// isAddressShaped accepts Stellar account IDs (G...), contract IDs (C...)
// and the native asset marker. Full strkey checksum validation belongs to
// the wallet and the chain, not to the builder.
func isAddressShaped(addr string) bool {
	if addr == "native" {
		return true
	}
	if len(addr) != 56 {
		return false
	}
	if addr[0] != 'G' && addr[0] != 'C' {
		return false
	}
	const base32Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"
	for _, r := range addr {
		if !strings.ContainsRune(base32Alphabet, r) {
			return false
		}
	}
	return true
}
