package launchpad

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/curvelab/internal/accounts"
)

// mapSource serves accounts by address so a pool and its config account can
// live side by side in one test.
type mapSource map[solana.PublicKey]*accounts.Account

func (m mapSource) Fetch(_ context.Context, address solana.PublicKey) (*accounts.Account, error) {
	acc, ok := m[address]
	if !ok {
		return nil, accounts.ErrAccountNotFound
	}
	return acc, nil
}

func seededService(t *testing.T, multi MultiFetcher) (*Service, solana.PublicKey, poolFixture) {
	t.Helper()

	f := midPool()
	poolAddr := solana.NewWallet().PublicKey()
	src := mapSource{
		poolAddr:       {Owner: ProgramID, Data: f.encode()},
		f.globalConfig: {Owner: ProgramID, Data: configAccount(uint8(ConstantProduct), 25_000, 10_000, 5_000)},
	}
	return NewService(src, multi, zap.NewNop()), poolAddr, f
}

func TestService_PoolInfo(t *testing.T) {
	svc, poolAddr, _ := seededService(t, nil)

	info, err := svc.PoolInfo(context.Background(), poolAddr)
	require.NoError(t, err)
	assert.Equal(t, ConstantProduct, info.Variant)
	assert.True(t, info.BondingPercentage.Equal(decimal.NewFromInt(25)))
	assert.True(t, info.CurrentPrice.Equal(decimal.RequireFromString("0.00005")))
}

func TestService_ReserveState(t *testing.T) {
	svc, poolAddr, _ := seededService(t, nil)

	state, err := svc.ReserveState(context.Background(), poolAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(800_000_000_000), state.BaseReserve)
	assert.Equal(t, uint64(40_000_000_000), state.QuoteReserve)
	assert.Equal(t, uint64(25_000), state.FeeRate)
}

func TestService_PoolOwnershipCheckedBeforeDecode(t *testing.T) {
	poolAddr := solana.NewWallet().PublicKey()
	src := mapSource{
		poolAddr: {Owner: solana.NewWallet().PublicKey(), Data: []byte{1}},
	}
	svc := NewService(src, nil, zap.NewNop())

	_, err := svc.FetchPool(context.Background(), poolAddr)
	var mismatch *accounts.OwnershipMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, ProgramID, mismatch.Expected)
}

func TestService_ConfigOwnershipChecked(t *testing.T) {
	f := midPool()
	poolAddr := solana.NewWallet().PublicKey()
	src := mapSource{
		poolAddr:       {Owner: ProgramID, Data: f.encode()},
		f.globalConfig: {Owner: solana.NewWallet().PublicKey(), Data: configAccount(0, 0, 0, 0)},
	}
	svc := NewService(src, nil, zap.NewNop())

	_, err := svc.PoolInfo(context.Background(), poolAddr)
	var mismatch *accounts.OwnershipMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestService_PoolNotFound(t *testing.T) {
	svc := NewService(mapSource{}, nil, zap.NewNop())
	_, err := svc.FetchPool(context.Background(), solana.NewWallet().PublicKey())
	assert.ErrorIs(t, err, accounts.ErrAccountNotFound)
}

// tokenAccountData builds the fixed SPL token account layout with the given
// raw balance at its amount slot.
func tokenAccountData(amount uint64) []byte {
	data := make([]byte, 165)
	binary.LittleEndian.PutUint64(data[64:], amount)
	return data
}

type fakeMulti struct {
	res *rpc.GetMultipleAccountsResult
	err error
}

func (f *fakeMulti) GetMultipleAccounts(context.Context, ...solana.PublicKey) (*rpc.GetMultipleAccountsResult, error) {
	return f.res, f.err
}

func TestService_VaultBalances(t *testing.T) {
	baseData := rpc.DataBytesOrJSONFromBytes(tokenAccountData(800_000_000_000))
	quoteData := rpc.DataBytesOrJSONFromBytes(tokenAccountData(10_000_000_000))
	multi := &fakeMulti{res: &rpc.GetMultipleAccountsResult{
		Value: []*rpc.Account{
			{Data: baseData},
			{Data: quoteData},
		},
	}}
	svc, poolAddr, _ := seededService(t, multi)

	pool, err := svc.FetchPool(context.Background(), poolAddr)
	require.NoError(t, err)

	base, quoteBal, err := svc.VaultBalances(context.Background(), pool)
	require.NoError(t, err)
	assert.Equal(t, uint64(800_000_000_000), base)
	assert.Equal(t, uint64(10_000_000_000), quoteBal)
}

func TestService_VaultBalances_MissingVault(t *testing.T) {
	multi := &fakeMulti{res: &rpc.GetMultipleAccountsResult{
		Value: []*rpc.Account{nil, nil},
	}}
	svc, poolAddr, _ := seededService(t, multi)

	pool, err := svc.FetchPool(context.Background(), poolAddr)
	require.NoError(t, err)

	_, _, err = svc.VaultBalances(context.Background(), pool)
	assert.ErrorIs(t, err, accounts.ErrAccountNotFound)
}

func TestService_VaultBalances_NoFetcher(t *testing.T) {
	svc, poolAddr, _ := seededService(t, nil)
	pool, err := svc.FetchPool(context.Background(), poolAddr)
	require.NoError(t, err)

	_, _, err = svc.VaultBalances(context.Background(), pool)
	assert.Error(t, err)
}
