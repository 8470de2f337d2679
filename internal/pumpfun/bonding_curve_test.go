package pumpfun

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/curvelab/internal/accounts"
	"github.com/rovshanmuradov/curvelab/internal/layout"
)

// curveAccount builds a raw account buffer the way the chain lays it out:
// 8-byte discriminator, five u64 fields, one bool, trailing padding.
func curveAccount(virtualToken, virtualSol, realToken, realSol, supply uint64, complete bool) []byte {
	data := make([]byte, 57)
	binary.LittleEndian.PutUint64(data[8:], virtualToken)
	binary.LittleEndian.PutUint64(data[16:], virtualSol)
	binary.LittleEndian.PutUint64(data[24:], realToken)
	binary.LittleEndian.PutUint64(data[32:], realSol)
	binary.LittleEndian.PutUint64(data[40:], supply)
	if complete {
		data[48] = 1
	}
	return data
}

func midStageState() *BondingCurveState {
	state, err := DecodeBondingCurve(curveAccount(
		1_000_000_000_000,
		30_000_000_000,
		500_000_000_000,
		42_500_000_000,
		1_000_000_000_000,
		false,
	))
	if err != nil {
		panic(err)
	}
	return state
}

func TestDecodeBondingCurve(t *testing.T) {
	state, err := DecodeBondingCurve(curveAccount(1_000, 2_000, 300, 400, 5_000, true))
	require.NoError(t, err)

	assert.Equal(t, uint64(1_000), state.VirtualTokenReserves)
	assert.Equal(t, uint64(2_000), state.VirtualSolReserves)
	assert.Equal(t, uint64(300), state.RealTokenReserves)
	assert.Equal(t, uint64(400), state.RealSolReserves)
	assert.Equal(t, uint64(5_000), state.TokenTotalSupply)
	assert.True(t, state.Complete)
}

func TestDecodeBondingCurve_ShortBuffer(t *testing.T) {
	for _, n := range []int{0, 8, 16, 48, MinAccountLen - 1} {
		_, err := DecodeBondingCurve(make([]byte, n))
		var short *layout.BufferTooShortError
		require.ErrorAs(t, err, &short, "length %d", n)
	}

	_, err := DecodeBondingCurve(make([]byte, MinAccountLen))
	assert.NoError(t, err)
}

func TestDecodeBondingCurve_ReserveInvariant(t *testing.T) {
	_, err := DecodeBondingCurve(curveAccount(100, 0, 101, 0, 0, false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "virtual token reserves")
}

func TestCurveInfo_MidStage(t *testing.T) {
	info := ComputeCurveInfo(midStageState(), 85_000_000_000)

	assert.True(t, info.BondingPercentage.Equal(decimal.NewFromInt(50)), "percentage %s", info.BondingPercentage)
	assert.True(t, info.RaisedSoFar.Equal(decimal.RequireFromString("42.5")), "raised %s", info.RaisedSoFar)
	assert.True(t, info.RemainingToRaise.Equal(decimal.RequireFromString("42.5")), "remaining %s", info.RemainingToRaise)
	assert.True(t, info.FundraisingTarget.Equal(decimal.NewFromInt(85)))
	assert.False(t, info.Complete)

	assert.True(t, info.CurrentPrice.IsPositive())
	assert.True(t, info.GraduationPrice.GreaterThan(info.CurrentPrice),
		"graduation price %s must exceed current %s", info.GraduationPrice, info.CurrentPrice)
	assert.True(t, info.GraduationMarketCap.Equal(info.GraduationPrice.Mul(decimal.NewFromInt(1_000_000))),
		"market cap %s", info.GraduationMarketCap)
}

func TestCurveInfo_Completed(t *testing.T) {
	state, err := DecodeBondingCurve(curveAccount(
		1_000_000_000_000,
		30_000_000_000,
		500_000_000_000,
		85_000_000_000,
		1_000_000_000_000,
		true,
	))
	require.NoError(t, err)

	info := ComputeCurveInfo(state, 85_000_000_000)
	assert.True(t, info.BondingPercentage.Equal(decimal.NewFromInt(100)))
	assert.True(t, info.RemainingToRaise.IsZero())
	assert.True(t, info.Complete)
}

func TestBondingPercentage(t *testing.T) {
	tests := []struct {
		name     string
		realSol  uint64
		target   uint64
		expected string
	}{
		{"zero raised", 0, 85_000_000_000, "0"},
		{"half raised", 42_500_000_000, 85_000_000_000, "50"},
		{"fully raised", 85_000_000_000, 85_000_000_000, "100"},
		{"quarter raised", 25, 100, "25"},
		{"zero target counts as raised", 0, 0, "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &BondingCurveState{
				VirtualTokenReserves: 1_000,
				VirtualSolReserves:   1_000,
				RealSolReserves:      tt.realSol,
			}
			got := state.BondingPercentage(tt.target)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)), "got %s", got)
		})
	}
}

func TestCurrentPrice_UnseededCurveIsZero(t *testing.T) {
	state := &BondingCurveState{
		VirtualTokenReserves: 500,
		RealTokenReserves:    500,
		VirtualSolReserves:   1_000,
	}
	assert.True(t, state.CurrentPrice().IsZero())
	assert.True(t, state.GraduationPrice(85_000_000_000).IsZero())
}

func TestConversionHelpers(t *testing.T) {
	assert.True(t, LamportsToSOL(42_500_000_000).Equal(decimal.RequireFromString("42.5")))
	assert.Equal(t, uint64(1), SOLToLamports(decimal.RequireFromString("0.000000001")))
	// Sub-lamport precision truncates toward zero.
	assert.Equal(t, uint64(1), SOLToLamports(decimal.RequireFromString("0.0000000019")))
	assert.Equal(t, uint64(0), SOLToLamports(decimal.NewFromInt(-1)))
	assert.True(t, TokensToDecimal(1_500_000).Equal(decimal.RequireFromString("1.5")))
}

type stubSource struct {
	acc *accounts.Account
	err error
}

func (s *stubSource) Fetch(context.Context, solana.PublicKey) (*accounts.Account, error) {
	return s.acc, s.err
}

func TestService_OwnershipCheckedBeforeDecode(t *testing.T) {
	// The stub returns a buffer far too short to decode. If ownership were
	// checked after decoding, this would fail with a layout error instead.
	wrongOwner := solana.NewWallet().PublicKey()
	svc := NewService(&stubSource{acc: &accounts.Account{Owner: wrongOwner, Data: []byte{1}}}, zap.NewNop())

	_, err := svc.FetchState(context.Background(), solana.NewWallet().PublicKey())
	var mismatch *accounts.OwnershipMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, ProgramID, mismatch.Expected)
}

func TestService_NotFound(t *testing.T) {
	svc := NewService(&stubSource{err: accounts.ErrAccountNotFound}, zap.NewNop())

	_, err := svc.FetchState(context.Background(), solana.NewWallet().PublicKey())
	assert.ErrorIs(t, err, accounts.ErrAccountNotFound)
}

func TestService_CurveInfoDefaultTarget(t *testing.T) {
	acc := &accounts.Account{
		Owner: ProgramID,
		Data: curveAccount(
			1_000_000_000_000,
			30_000_000_000,
			500_000_000_000,
			42_500_000_000,
			1_000_000_000_000,
			false,
		),
	}
	svc := NewService(&stubSource{acc: acc}, zap.NewNop())

	info, err := svc.CurveInfo(context.Background(), solana.NewWallet().PublicKey(), 0)
	require.NoError(t, err)
	assert.True(t, info.FundraisingTarget.Equal(decimal.NewFromInt(85)))
	assert.True(t, info.BondingPercentage.Equal(decimal.NewFromInt(50)))
}
