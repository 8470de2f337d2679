// =========================================
// File: internal/pumpfun/economics.go
// =========================================
package pumpfun

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/curvelab/internal/quote"
)

// DefaultFundraisingTarget is the canonical Pump.fun graduation threshold,
// 85 SOL in lamports.
const DefaultFundraisingTarget uint64 = 85_000_000_000

// CurveInfo is a derived snapshot of curve economics. It is recomputed on
// every call and never cached here.
type CurveInfo struct {
	BondingPercentage   decimal.Decimal
	CurrentPrice        decimal.Decimal // SOL per token
	GraduationPrice     decimal.Decimal // SOL per token at completion
	GraduationMarketCap decimal.Decimal // SOL
	FundraisingTarget   decimal.Decimal // SOL
	RaisedSoFar         decimal.Decimal // SOL
	RemainingToRaise    decimal.Decimal // SOL
	TokenReserves       decimal.Decimal // human units, real reserves
	SolReserves         decimal.Decimal // SOL, real reserves
	Complete            bool
}

func decFromU64(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}

// LamportsToSOL converts a raw lamport amount to SOL.
func LamportsToSOL(lamports uint64) decimal.Decimal {
	return quote.FromRaw(new(big.Int).SetUint64(lamports), SolDecimals)
}

// SOLToLamports converts a SOL amount to lamports, truncating toward zero.
func SOLToLamports(amount decimal.Decimal) uint64 {
	raw := quote.ToRaw(amount, SolDecimals)
	if raw.Sign() < 0 || !raw.IsUint64() {
		return 0
	}
	return raw.Uint64()
}

// TokensToDecimal converts a raw token amount to human units.
func TokensToDecimal(raw uint64) decimal.Decimal {
	return quote.FromRaw(new(big.Int).SetUint64(raw), TokenDecimals)
}

// priceFromRawRatio converts a raw quote/base reserve ratio into a
// human-unit price, SOL per token.
func priceFromRawRatio(quoteRaw, baseRaw *big.Int) decimal.Decimal {
	if baseRaw.Sign() <= 0 {
		// Curve not yet seeded: report zero rather than fail.
		return decimal.Zero
	}
	ratio := decimal.NewFromBigInt(quoteRaw, 0).Div(decimal.NewFromBigInt(baseRaw, 0))
	return ratio.Shift(TokenDecimals - SolDecimals)
}

// BondingPercentage reports fundraising progress as a percentage of the
// target. A zero target counts as fully raised by convention, never a
// division fault.
func (s *BondingCurveState) BondingPercentage(targetLamports uint64) decimal.Decimal {
	if targetLamports == 0 {
		return decimal.NewFromInt(100)
	}
	return decFromU64(s.RealSolReserves).
		Div(decFromU64(targetLamports)).
		Mul(decimal.NewFromInt(100))
}

// CurrentPrice is the spot price implied by the effective reserve ratio,
// (virtualSol + realSol) / (virtualToken - realToken), decimal adjusted.
func (s *BondingCurveState) CurrentPrice() decimal.Decimal {
	quoteRaw := new(big.Int).Add(
		new(big.Int).SetUint64(s.VirtualSolReserves),
		new(big.Int).SetUint64(s.RealSolReserves),
	)
	baseRaw := new(big.Int).Sub(
		new(big.Int).SetUint64(s.VirtualTokenReserves),
		new(big.Int).SetUint64(s.RealTokenReserves),
	)
	return priceFromRawRatio(quoteRaw, baseRaw)
}

// GraduationPrice is the price the curve reaches exactly when the full
// fundraising target has been raised. The constant product
// k = (virtualSol+realSol) * (virtualToken-realToken) is held invariant and
// solved at the terminal quote reserve, virtualSol + target.
func (s *BondingCurveState) GraduationPrice(targetLamports uint64) decimal.Decimal {
	quoteRaw := new(big.Int).Add(
		new(big.Int).SetUint64(s.VirtualSolReserves),
		new(big.Int).SetUint64(s.RealSolReserves),
	)
	baseRaw := new(big.Int).Sub(
		new(big.Int).SetUint64(s.VirtualTokenReserves),
		new(big.Int).SetUint64(s.RealTokenReserves),
	)
	if baseRaw.Sign() <= 0 {
		return decimal.Zero
	}

	k := new(big.Int).Mul(quoteRaw, baseRaw)
	terminalQuote := new(big.Int).Add(
		new(big.Int).SetUint64(s.VirtualSolReserves),
		new(big.Int).SetUint64(targetLamports),
	)
	if terminalQuote.Sign() == 0 {
		return decimal.Zero
	}
	terminalBase := new(big.Int).Div(k, terminalQuote)
	return priceFromRawRatio(terminalQuote, terminalBase)
}

// ComputeCurveInfo derives the full economics snapshot for one decoded curve
// state against a fundraising target in lamports.
func ComputeCurveInfo(state *BondingCurveState, targetLamports uint64) *CurveInfo {
	gradPrice := state.GraduationPrice(targetLamports)
	supply := TokensToDecimal(state.TokenTotalSupply)

	raised := LamportsToSOL(state.RealSolReserves)
	target := LamportsToSOL(targetLamports)
	remaining := target.Sub(raised)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return &CurveInfo{
		BondingPercentage:   state.BondingPercentage(targetLamports),
		CurrentPrice:        state.CurrentPrice(),
		GraduationPrice:     gradPrice,
		GraduationMarketCap: gradPrice.Mul(supply),
		FundraisingTarget:   target,
		RaisedSoFar:         raised,
		RemainingToRaise:    remaining,
		TokenReserves:       TokensToDecimal(state.RealTokenReserves),
		SolReserves:         raised,
		Complete:            state.Complete,
	}
}
