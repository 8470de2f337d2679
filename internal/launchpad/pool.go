// ==================================
// File: internal/launchpad/pool.go
// ==================================

// Package launchpad decodes launchpad pool and curve-config accounts and
// derives per-variant curve economics. Both layouts are wire contracts:
// fixed little-endian offsets behind an 8-byte discriminator.
package launchpad

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/curvelab/internal/layout"
	"github.com/rovshanmuradov/curvelab/internal/quote"
)

// ProgramID is the launchpad program that owns both pool and config accounts.
var ProgramID = solana.MustPublicKeyFromBase58("LanMV9sAd7wArD4vJFi2qDdfnVhFxYSUg6eADduJ3uj")

// Pool account offsets.
const (
	offPoolEpoch       = 8
	offAuthBump        = 16
	offStatus          = 17
	offBaseDecimals    = 18
	offQuoteDecimals   = 19
	offMigrateType     = 20
	offSupply          = 21
	offTotalBaseSell   = 29
	offVirtualBase     = 37
	offVirtualQuote    = 45
	offRealBase        = 53
	offRealQuote       = 61
	offTotalFundRaise  = 69
	offProtocolFee     = 77
	offPlatformFee     = 85
	offMigrateFee      = 93
	offVestingLocked   = 101
	offVestingClaimed  = 109
	offVestingStart    = 117
	offVestingEnd      = 125
	offVestingShare    = 133
	offGlobalConfig    = 141
	offPlatformConfig  = 173
	offBaseMint        = 205
	offQuoteMint       = 237
	offBaseVault       = 269
	offQuoteVault      = 301
	offCreator         = 333

	// MinPoolAccountLen covers through the creator identifier.
	MinPoolAccountLen = 365
)

// VestingSchedule is the token-lock block embedded in the pool account.
type VestingSchedule struct {
	TotalLockedAmount    uint64
	CumulativeClaimed    uint64
	StartTime            uint64
	EndTime              uint64
	AllocatedShareAmount uint64
}

// PoolState is the decoded state of one launchpad pool account. The curve
// variant lives in a separate config account referenced by GlobalConfig.
// Values are immutable once decoded; a changed account needs a fresh decode.
type PoolState struct {
	Epoch         uint64
	AuthBump      uint8
	Status        uint8
	BaseDecimals  uint8
	QuoteDecimals uint8
	MigrateType   uint8

	Supply                uint64
	TotalBaseSell         uint64
	VirtualBase           uint64
	VirtualQuote          uint64
	RealBase              uint64
	RealQuote             uint64
	TotalQuoteFundRaising uint64
	QuoteProtocolFee      uint64
	PlatformFee           uint64
	MigrateFee            uint64

	Vesting VestingSchedule

	GlobalConfig   solana.PublicKey
	PlatformConfig solana.PublicKey
	BaseMint       solana.PublicKey
	QuoteMint      solana.PublicKey
	BaseVault      solana.PublicKey
	QuoteVault     solana.PublicKey
	Creator        solana.PublicKey
}

// DecodePool parses a raw launchpad pool account buffer. Ownership must
// already have been verified by the caller.
func DecodePool(data []byte) (*PoolState, error) {
	r := layout.NewReader(data)
	p := &PoolState{}

	var err error
	if p.Epoch, err = r.U64("epoch", offPoolEpoch); err != nil {
		return nil, err
	}
	if p.AuthBump, err = r.U8("auth_bump", offAuthBump); err != nil {
		return nil, err
	}
	if p.Status, err = r.U8("status", offStatus); err != nil {
		return nil, err
	}
	if p.BaseDecimals, err = r.U8("base_decimals", offBaseDecimals); err != nil {
		return nil, err
	}
	if p.QuoteDecimals, err = r.U8("quote_decimals", offQuoteDecimals); err != nil {
		return nil, err
	}
	if p.MigrateType, err = r.U8("migrate_type", offMigrateType); err != nil {
		return nil, err
	}

	u64Fields := []struct {
		name   string
		offset int
		dst    *uint64
	}{
		{"supply", offSupply, &p.Supply},
		{"total_base_sell", offTotalBaseSell, &p.TotalBaseSell},
		{"virtual_base", offVirtualBase, &p.VirtualBase},
		{"virtual_quote", offVirtualQuote, &p.VirtualQuote},
		{"real_base", offRealBase, &p.RealBase},
		{"real_quote", offRealQuote, &p.RealQuote},
		{"total_quote_fund_raising", offTotalFundRaise, &p.TotalQuoteFundRaising},
		{"quote_protocol_fee", offProtocolFee, &p.QuoteProtocolFee},
		{"platform_fee", offPlatformFee, &p.PlatformFee},
		{"migrate_fee", offMigrateFee, &p.MigrateFee},
		{"vesting_total_locked", offVestingLocked, &p.Vesting.TotalLockedAmount},
		{"vesting_cumulative_claimed", offVestingClaimed, &p.Vesting.CumulativeClaimed},
		{"vesting_start_time", offVestingStart, &p.Vesting.StartTime},
		{"vesting_end_time", offVestingEnd, &p.Vesting.EndTime},
		{"vesting_allocated_share", offVestingShare, &p.Vesting.AllocatedShareAmount},
	}
	for _, f := range u64Fields {
		if *f.dst, err = r.U64(f.name, f.offset); err != nil {
			return nil, err
		}
	}

	keyFields := []struct {
		name   string
		offset int
		dst    *solana.PublicKey
	}{
		{"global_config", offGlobalConfig, &p.GlobalConfig},
		{"platform_config", offPlatformConfig, &p.PlatformConfig},
		{"base_mint", offBaseMint, &p.BaseMint},
		{"quote_mint", offQuoteMint, &p.QuoteMint},
		{"base_vault", offBaseVault, &p.BaseVault},
		{"quote_vault", offQuoteVault, &p.QuoteVault},
		{"creator", offCreator, &p.Creator},
	}
	for _, f := range keyFields {
		if *f.dst, err = r.PublicKey(f.name, f.offset); err != nil {
			return nil, err
		}
	}

	if p.VirtualBase < p.RealBase {
		return nil, fmt.Errorf("invalid pool state: virtual base %d below real base %d",
			p.VirtualBase, p.RealBase)
	}

	return p, nil
}

// ReserveState assembles the constant-product reserve snapshot the quote
// engine consumes: effective base is virtual minus sold, effective quote is
// virtual plus raised, fee rates come from the curve config.
func (p *PoolState) ReserveState(cfg *CurveConfig) (*quote.ReserveState, error) {
	quoteReserve := p.VirtualQuote + p.RealQuote
	if quoteReserve < p.VirtualQuote {
		return nil, fmt.Errorf("quote reserve overflow: virtual %d + real %d", p.VirtualQuote, p.RealQuote)
	}

	state := &quote.ReserveState{
		BaseReserve:     p.VirtualBase - p.RealBase,
		QuoteReserve:    quoteReserve,
		BaseDecimals:    p.BaseDecimals,
		QuoteDecimals:   p.QuoteDecimals,
		FeeRate:         cfg.TradeFeeRate,
		ProtocolFeeRate: cfg.ProtocolFeeRate,
		FundFeeRate:     cfg.FundFeeRate,
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}
	return state, nil
}
