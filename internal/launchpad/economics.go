// =====================================
// File: internal/launchpad/economics.go
// =====================================
package launchpad

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/curvelab/internal/quote"
)

// PoolInfo is a derived snapshot of launchpad curve economics, recomputed on
// every call.
type PoolInfo struct {
	Variant             CurveVariant
	BondingPercentage   decimal.Decimal
	CurrentPrice        decimal.Decimal // quote per base, human units
	GraduationPrice     decimal.Decimal
	GraduationMarketCap decimal.Decimal // quote units
	FundraisingTarget   decimal.Decimal // quote units, human
	RaisedSoFar         decimal.Decimal
	RemainingToRaise    decimal.Decimal
	BaseReserve         decimal.Decimal // human units, effective tradable base
	QuoteReserve        decimal.Decimal // human units, effective quote
	Complete            bool
}

// ratioPrice converts a raw quote/base ratio to a human-unit price using the
// pool's decimal counts. A non-positive base reports zero: the curve is not
// seeded, which is not an error.
func (p *PoolState) ratioPrice(quoteRaw, baseRaw *big.Int) decimal.Decimal {
	if baseRaw.Sign() <= 0 {
		return decimal.Zero
	}
	ratio := decimal.NewFromBigInt(quoteRaw, 0).Div(decimal.NewFromBigInt(baseRaw, 0))
	return ratio.Shift(int32(p.BaseDecimals) - int32(p.QuoteDecimals))
}

// CurrentPrice is the price at the pool's current reserve point. All three
// variants report the same effective reserve ratio here: for fixed- and
// linear-price curves this is a documented approximation of the true curve,
// not a distinct formula.
func (p *PoolState) CurrentPrice() decimal.Decimal {
	quoteRaw := new(big.Int).Add(
		new(big.Int).SetUint64(p.VirtualQuote),
		new(big.Int).SetUint64(p.RealQuote),
	)
	baseRaw := new(big.Int).Sub(
		new(big.Int).SetUint64(p.VirtualBase),
		new(big.Int).SetUint64(p.RealBase),
	)
	return p.ratioPrice(quoteRaw, baseRaw)
}

// GraduationPrice is the price the curve reaches exactly when fundraising
// completes, dispatched on the curve variant.
//
//   - ConstantProduct and LinearPrice evaluate the reserve ratio at the
//     terminal state: virtual quote plus the full fundraising target over
//     virtual base minus the full sell allocation. (Linear reuses the
//     constant-product terminal computation; documented approximation.)
//   - FixedPrice is invariant along the whole curve, so the configured
//     virtual-reserve ratio is already the graduation price.
func (p *PoolState) GraduationPrice(variant CurveVariant) decimal.Decimal {
	switch variant {
	case FixedPrice:
		return p.ratioPrice(
			new(big.Int).SetUint64(p.VirtualQuote),
			new(big.Int).SetUint64(p.VirtualBase),
		)
	case ConstantProduct, LinearPrice:
		terminalQuote := new(big.Int).Add(
			new(big.Int).SetUint64(p.VirtualQuote),
			new(big.Int).SetUint64(p.TotalQuoteFundRaising),
		)
		terminalBase := new(big.Int).Sub(
			new(big.Int).SetUint64(p.VirtualBase),
			new(big.Int).SetUint64(p.TotalBaseSell),
		)
		return p.ratioPrice(terminalQuote, terminalBase)
	default:
		// Unknown variants never survive DecodeConfig.
		return decimal.Zero
	}
}

// BondingPercentage reports fundraising progress. A zero target counts as
// fully raised by convention.
func (p *PoolState) BondingPercentage() decimal.Decimal {
	if p.TotalQuoteFundRaising == 0 {
		return decimal.NewFromInt(100)
	}
	raised := decimal.NewFromBigInt(new(big.Int).SetUint64(p.RealQuote), 0)
	target := decimal.NewFromBigInt(new(big.Int).SetUint64(p.TotalQuoteFundRaising), 0)
	return raised.Div(target).Mul(decimal.NewFromInt(100))
}

// Complete reports whether the pool has raised its full target.
func (p *PoolState) Complete() bool {
	return p.TotalQuoteFundRaising > 0 && p.RealQuote >= p.TotalQuoteFundRaising
}

// ComputePoolInfo derives the full economics snapshot for one decoded pool
// against its curve config.
func ComputePoolInfo(pool *PoolState, cfg *CurveConfig) *PoolInfo {
	gradPrice := pool.GraduationPrice(cfg.CurveType)
	supply := quote.FromRaw(new(big.Int).SetUint64(pool.Supply), pool.BaseDecimals)

	raised := quote.FromRaw(new(big.Int).SetUint64(pool.RealQuote), pool.QuoteDecimals)
	target := quote.FromRaw(new(big.Int).SetUint64(pool.TotalQuoteFundRaising), pool.QuoteDecimals)
	remaining := target.Sub(raised)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	baseReserve := new(big.Int).Sub(
		new(big.Int).SetUint64(pool.VirtualBase),
		new(big.Int).SetUint64(pool.RealBase),
	)
	quoteReserve := new(big.Int).Add(
		new(big.Int).SetUint64(pool.VirtualQuote),
		new(big.Int).SetUint64(pool.RealQuote),
	)

	return &PoolInfo{
		Variant:             cfg.CurveType,
		BondingPercentage:   pool.BondingPercentage(),
		CurrentPrice:        pool.CurrentPrice(),
		GraduationPrice:     gradPrice,
		GraduationMarketCap: gradPrice.Mul(supply),
		FundraisingTarget:   target,
		RaisedSoFar:         raised,
		RemainingToRaise:    remaining,
		BaseReserve:         quote.FromRaw(baseReserve, pool.BaseDecimals),
		QuoteReserve:        quote.FromRaw(quoteReserve, pool.QuoteDecimals),
		Complete:            pool.Complete(),
	}
}
