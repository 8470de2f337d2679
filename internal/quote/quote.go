// =============================
// File: internal/quote/quote.go
// =============================

// Package quote implements constant-product swap quoting over decoded pool
// reserve state. All raw-unit arithmetic is done in math/big integers with an
// explicit rounding mode at every division; prices and human-readable amounts
// use shopspring decimals. Nothing here performs I/O or mutates pool state:
// a quote is a pure function of one reserve snapshot.
package quote

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// FeeDenominator is the parts-per-million base for all fee rates.
const FeeDenominator = 1_000_000

// Direction identifies which side of the pool the input amount is on.
type Direction uint8

const (
	BaseToQuote Direction = iota
	QuoteToBase
)

func (d Direction) String() string {
	if d == BaseToQuote {
		return "base_to_quote"
	}
	return "quote_to_base"
}

// ReserveState is the decoded, validated state of a constant-product pool
// at a single point in time. Reserves are raw integer units.
type ReserveState struct {
	BaseReserve   uint64
	QuoteReserve  uint64
	BaseDecimals  uint8
	QuoteDecimals uint8

	// Fee rates in parts per million. Only FeeRate enters the quote math;
	// protocol and fund rates are carried for callers that split fees.
	FeeRate         uint64
	ProtocolFeeRate uint64
	FundFeeRate     uint64
}

// Validate checks the reserve-state invariants before any quoting.
func (s *ReserveState) Validate() error {
	if s.FeeRate >= FeeDenominator {
		return fmt.Errorf("fee rate %d must be below denominator %d", s.FeeRate, FeeDenominator)
	}
	if s.ProtocolFeeRate >= FeeDenominator {
		return fmt.Errorf("protocol fee rate %d must be below denominator %d", s.ProtocolFeeRate, FeeDenominator)
	}
	if s.FundFeeRate >= FeeDenominator {
		return fmt.Errorf("fund fee rate %d must be below denominator %d", s.FundFeeRate, FeeDenominator)
	}
	if s.BaseReserve == 0 || s.QuoteReserve == 0 {
		return fmt.Errorf("reserves cannot be zero")
	}
	return nil
}

// InsufficientReserveError is returned by exact-output quoting when the
// requested output would drain the pool. A constant-product pool can never
// be emptied by a swap.
type InsufficientReserveError struct {
	Requested *big.Int
	Available uint64
}

func (e *InsufficientReserveError) Error() string {
	return fmt.Sprintf("requested output %s meets or exceeds available reserve %d",
		e.Requested.String(), e.Available)
}

// Result is an immutable quote. Raw amounts are big integers; prices and
// impact are decimals. For exact-input quotes MaxAmountIn equals AmountIn;
// for exact-output quotes MinAmountOut equals AmountOut.
type Result struct {
	Direction    Direction
	AmountIn     *big.Int
	AmountOut    *big.Int
	MinAmountOut *big.Int
	MaxAmountIn  *big.Int
	Fee          *big.Int

	CurrentPrice   decimal.Decimal // spot, pre-trade, quote per base
	ExecutionPrice decimal.Decimal
	PriceImpact    decimal.Decimal // fractional, e.g. 0.05 = 5%
}

var (
	feeDenom = big.NewInt(FeeDenominator)
	ppmDenom = big.NewInt(1_000_000)
)

// ToRaw converts a human-readable amount to raw integer units, truncating
// toward zero. Rounding up here would overstate what actually transfers.
func ToRaw(amount decimal.Decimal, decimals uint8) *big.Int {
	return amount.Shift(int32(decimals)).Truncate(0).BigInt()
}

// FromRaw converts raw integer units to a human-readable decimal amount.
func FromRaw(raw *big.Int, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(raw, -int32(decimals))
}

// slippagePPM converts a fractional tolerance to parts per million, floored
// to an integer before use.
func slippagePPM(slippage decimal.Decimal) *big.Int {
	return slippage.Mul(decimal.NewFromInt(1_000_000)).Truncate(0).BigInt()
}

// ceilDiv divides a by b rounding up. b must be positive.
func ceilDiv(a, b *big.Int) *big.Int {
	num := new(big.Int).Add(a, new(big.Int).Sub(b, big.NewInt(1)))
	return num.Div(num, b)
}

func (s *ReserveState) reservesFor(dir Direction) (in, out *big.Int, decIn, decOut uint8, outRaw uint64) {
	if dir == BaseToQuote {
		return new(big.Int).SetUint64(s.BaseReserve), new(big.Int).SetUint64(s.QuoteReserve),
			s.BaseDecimals, s.QuoteDecimals, s.QuoteReserve
	}
	return new(big.Int).SetUint64(s.QuoteReserve), new(big.Int).SetUint64(s.BaseReserve),
		s.QuoteDecimals, s.BaseDecimals, s.BaseReserve
}

// SpotPrice returns the pre-trade pool price as quote per base, adjusted for
// the decimal difference between the two mints.
func (s *ReserveState) SpotPrice() decimal.Decimal {
	if s.BaseReserve == 0 {
		return decimal.Zero
	}
	base := decimal.NewFromBigInt(new(big.Int).SetUint64(s.BaseReserve), -int32(s.BaseDecimals))
	quoteRes := decimal.NewFromBigInt(new(big.Int).SetUint64(s.QuoteReserve), -int32(s.QuoteDecimals))
	return quoteRes.Div(base)
}

// ExactInput quotes a swap for a fixed human-readable input amount.
//
// Rounding contract: the input conversion truncates toward zero, the fee is
// floored, and the constant-product output is floored, so the quoted output
// never exceeds what on-chain execution would deliver.
func (s *ReserveState) ExactInput(dir Direction, amountIn, slippage decimal.Decimal) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if slippage.IsNegative() {
		return nil, fmt.Errorf("slippage cannot be negative")
	}

	reserveIn, reserveOut, decIn, decOut, _ := s.reservesFor(dir)

	rawIn := ToRaw(amountIn, decIn)
	if rawIn.Sign() <= 0 {
		return nil, fmt.Errorf("input amount must be positive")
	}

	// fee = floor(rawIn * feeRate / denominator)
	fee := new(big.Int).Mul(rawIn, new(big.Int).SetUint64(s.FeeRate))
	fee.Div(fee, feeDenom)
	afterFee := new(big.Int).Sub(rawIn, fee)

	// out = floor(afterFee * reserveOut / (reserveIn + afterFee))
	out := new(big.Int).Mul(afterFee, reserveOut)
	out.Div(out, new(big.Int).Add(reserveIn, afterFee))

	// minOut = out - floor(out * slippagePPM / 1e6)
	slip := slippagePPM(slippage)
	cut := new(big.Int).Mul(out, slip)
	cut.Div(cut, ppmDenom)
	minOut := new(big.Int).Sub(out, cut)

	spot := s.SpotPrice()
	exec := executionPrice(dir, rawIn, out, decIn, decOut)

	return &Result{
		Direction:      dir,
		AmountIn:       rawIn,
		AmountOut:      out,
		MinAmountOut:   minOut,
		MaxAmountIn:    new(big.Int).Set(rawIn),
		Fee:            fee,
		CurrentPrice:   spot,
		ExecutionPrice: exec,
		PriceImpact:    priceImpact(spot, exec),
	}, nil
}

// ExactOutput quotes a swap for a fixed human-readable output amount.
//
// Rounding contract: the required pre-fee input and the fee back-out both use
// ceiling division, so the fee-inclusive input is never underestimated; an
// understated input would produce a trade that fails on execution.
func (s *ReserveState) ExactOutput(dir Direction, amountOut, slippage decimal.Decimal) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if slippage.IsNegative() {
		return nil, fmt.Errorf("slippage cannot be negative")
	}

	reserveIn, reserveOut, decIn, decOut, outReserveRaw := s.reservesFor(dir)

	rawOut := ToRaw(amountOut, decOut)
	if rawOut.Sign() <= 0 {
		return nil, fmt.Errorf("output amount must be positive")
	}
	if rawOut.Cmp(reserveOut) >= 0 {
		return nil, &InsufficientReserveError{Requested: rawOut, Available: outReserveRaw}
	}

	// amountInBeforeFee = ceil(reserveIn * rawOut / (reserveOut - rawOut))
	num := new(big.Int).Mul(reserveIn, rawOut)
	inBeforeFee := ceilDiv(num, new(big.Int).Sub(reserveOut, rawOut))

	// rawIn = ceil(inBeforeFee * denominator / (denominator - feeRate))
	num = new(big.Int).Mul(inBeforeFee, feeDenom)
	rawIn := ceilDiv(num, new(big.Int).SetUint64(FeeDenominator-s.FeeRate))
	fee := new(big.Int).Sub(rawIn, inBeforeFee)

	// maxIn = rawIn + ceil(rawIn * slippagePPM / 1e6)
	slip := slippagePPM(slippage)
	pad := new(big.Int).Mul(rawIn, slip)
	maxIn := new(big.Int).Add(rawIn, ceilDiv(pad, ppmDenom))

	spot := s.SpotPrice()
	exec := executionPrice(dir, rawIn, rawOut, decIn, decOut)

	return &Result{
		Direction:      dir,
		AmountIn:       rawIn,
		AmountOut:      rawOut,
		MinAmountOut:   new(big.Int).Set(rawOut),
		MaxAmountIn:    maxIn,
		Fee:            fee,
		CurrentPrice:   spot,
		ExecutionPrice: exec,
		PriceImpact:    priceImpact(spot, exec),
	}, nil
}

// ExactInputBatch quotes each amount independently against the same reserve
// snapshot. This is quoting, not simulated sequential execution: earlier
// amounts do not shift the pool for later ones.
func (s *ReserveState) ExactInputBatch(dir Direction, amounts []decimal.Decimal, slippage decimal.Decimal) ([]*Result, error) {
	results := make([]*Result, 0, len(amounts))
	for i, amount := range amounts {
		res, err := s.ExactInput(dir, amount, slippage)
		if err != nil {
			return nil, fmt.Errorf("quote %d of %d: %w", i+1, len(amounts), err)
		}
		results = append(results, res)
	}
	return results, nil
}

// ExactOutputBatch is the exact-output counterpart of ExactInputBatch.
func (s *ReserveState) ExactOutputBatch(dir Direction, amounts []decimal.Decimal, slippage decimal.Decimal) ([]*Result, error) {
	results := make([]*Result, 0, len(amounts))
	for i, amount := range amounts {
		res, err := s.ExactOutput(dir, amount, slippage)
		if err != nil {
			return nil, fmt.Errorf("quote %d of %d: %w", i+1, len(amounts), err)
		}
		results = append(results, res)
	}
	return results, nil
}

// executionPrice is the realized trade price in human units, expressed as
// quote per base in either direction so it is comparable with SpotPrice.
func executionPrice(dir Direction, rawIn, rawOut *big.Int, decIn, decOut uint8) decimal.Decimal {
	humanIn := FromRaw(rawIn, decIn)
	humanOut := FromRaw(rawOut, decOut)
	if dir == BaseToQuote {
		if humanIn.IsZero() {
			return decimal.Zero
		}
		return humanOut.Div(humanIn)
	}
	if humanOut.IsZero() {
		return decimal.Zero
	}
	return humanIn.Div(humanOut)
}

func priceImpact(spot, exec decimal.Decimal) decimal.Decimal {
	if spot.IsZero() {
		return decimal.Zero
	}
	return exec.Sub(spot).Abs().Div(spot)
}
