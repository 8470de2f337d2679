// ==============================================
// File: internal/pumpfun/bonding_curve.go
// ==============================================

// Package pumpfun decodes Pump.fun bonding-curve accounts and derives curve
// economics from them. The account layout is a wire contract: fixed
// little-endian offsets behind an 8-byte Anchor discriminator.
package pumpfun

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/curvelab/internal/layout"
)

// ProgramID is the Pump.fun bonding-curve program.
var ProgramID = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")

// Standard decimals for SOL and Pump.fun tokens.
const (
	SolDecimals   = 9
	TokenDecimals = 6
)

// Bonding-curve account offsets. The first 8 bytes are the account
// discriminator.
const (
	offVirtualTokenReserves = 8
	offVirtualSolReserves   = 16
	offRealTokenReserves    = 24
	offRealSolReserves      = 32
	offTokenTotalSupply     = 40
	offComplete             = 48

	// MinAccountLen is the smallest buffer that covers every field.
	MinAccountLen = 49
)

// BondingCurveState is the decoded state of one bonding-curve account.
// Values are raw integer units and immutable once decoded: if the on-chain
// account changes, decode a fresh snapshot instead of mutating this one.
type BondingCurveState struct {
	VirtualTokenReserves uint64
	VirtualSolReserves   uint64
	RealTokenReserves    uint64
	RealSolReserves      uint64
	TokenTotalSupply     uint64
	Complete             bool
}

// DecodeBondingCurve parses a raw bonding-curve account buffer. Ownership of
// the buffer must already have been verified against ProgramID by the caller.
func DecodeBondingCurve(data []byte) (*BondingCurveState, error) {
	r := layout.NewReader(data)
	state := &BondingCurveState{}

	var err error
	if state.VirtualTokenReserves, err = r.U64("virtual_token_reserves", offVirtualTokenReserves); err != nil {
		return nil, err
	}
	if state.VirtualSolReserves, err = r.U64("virtual_sol_reserves", offVirtualSolReserves); err != nil {
		return nil, err
	}
	if state.RealTokenReserves, err = r.U64("real_token_reserves", offRealTokenReserves); err != nil {
		return nil, err
	}
	if state.RealSolReserves, err = r.U64("real_sol_reserves", offRealSolReserves); err != nil {
		return nil, err
	}
	if state.TokenTotalSupply, err = r.U64("token_total_supply", offTokenTotalSupply); err != nil {
		return nil, err
	}
	if state.Complete, err = r.Bool("complete", offComplete); err != nil {
		return nil, err
	}

	if state.VirtualTokenReserves < state.RealTokenReserves {
		return nil, fmt.Errorf("invalid bonding curve state: virtual token reserves %d below real token reserves %d",
			state.VirtualTokenReserves, state.RealTokenReserves)
	}

	return state, nil
}
