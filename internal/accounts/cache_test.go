package accounts

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingSource struct {
	mu      sync.Mutex
	fetches int32
	byAddr  map[solana.PublicKey]*Account
	err     error
}

func (s *countingSource) Fetch(_ context.Context, address solana.PublicKey) (*Account, error) {
	atomic.AddInt32(&s.fetches, 1)
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.byAddr[address]; ok {
		return acc, nil
	}
	return nil, ErrAccountNotFound
}

func testAccount(owner solana.PublicKey, data []byte) *Account {
	return &Account{Owner: owner, Data: data, Lamports: 1}
}

func TestCachedSource_HitWithinTTL(t *testing.T) {
	addr := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()
	inner := &countingSource{byAddr: map[solana.PublicKey]*Account{
		addr: testAccount(owner, []byte{1, 2, 3}),
	}}

	cache := NewCachedSource(inner, time.Minute, zap.NewNop())

	first, err := cache.Fetch(context.Background(), addr)
	require.NoError(t, err)
	second, err := cache.Fetch(context.Background(), addr)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&inner.fetches))
}

func TestCachedSource_ExpiredEntryIsMiss(t *testing.T) {
	addr := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()
	inner := &countingSource{byAddr: map[solana.PublicKey]*Account{
		addr: testAccount(owner, []byte{1}),
	}}

	cache := NewCachedSource(inner, time.Second, zap.NewNop())

	current := time.Unix(1000, 0)
	cache.now = func() time.Time { return current }

	_, err := cache.Fetch(context.Background(), addr)
	require.NoError(t, err)

	current = current.Add(2 * time.Second)
	_, err = cache.Fetch(context.Background(), addr)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&inner.fetches))
}

func TestCachedSource_ErrorsAreNotCached(t *testing.T) {
	addr := solana.NewWallet().PublicKey()
	inner := &countingSource{byAddr: map[solana.PublicKey]*Account{}}

	cache := NewCachedSource(inner, time.Minute, zap.NewNop())

	_, err := cache.Fetch(context.Background(), addr)
	require.ErrorIs(t, err, ErrAccountNotFound)
	assert.Equal(t, 0, cache.Len())

	// The account appears later; the next fetch must go through.
	owner := solana.NewWallet().PublicKey()
	inner.mu.Lock()
	inner.byAddr[addr] = testAccount(owner, []byte{9})
	inner.mu.Unlock()

	acc, err := cache.Fetch(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, []byte{9}, acc.Data)
}

func TestCachedSource_Invalidate(t *testing.T) {
	addr := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()
	inner := &countingSource{byAddr: map[solana.PublicKey]*Account{
		addr: testAccount(owner, []byte{1}),
	}}

	cache := NewCachedSource(inner, time.Minute, zap.NewNop())

	_, err := cache.Fetch(context.Background(), addr)
	require.NoError(t, err)
	cache.Invalidate(addr)
	_, err = cache.Fetch(context.Background(), addr)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&inner.fetches))

	cache.InvalidateAll()
	assert.Equal(t, 0, cache.Len())
}

func TestCachedSource_ConcurrentReadersDoNotInterfere(t *testing.T) {
	addrA := solana.NewWallet().PublicKey()
	addrB := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()
	inner := &countingSource{byAddr: map[solana.PublicKey]*Account{
		addrA: testAccount(owner, []byte{1}),
		addrB: testAccount(owner, []byte{2}),
	}}

	cache := NewCachedSource(inner, time.Minute, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		addr := addrA
		if i%2 == 1 {
			addr = addrB
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			acc, err := cache.Fetch(context.Background(), addr)
			assert.NoError(t, err)
			assert.NotNil(t, acc)
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, cache.Len())
}

func TestVerifyOwner(t *testing.T) {
	addr := solana.NewWallet().PublicKey()
	program := solana.NewWallet().PublicKey()
	other := solana.NewWallet().PublicKey()

	acc := testAccount(program, nil)
	require.NoError(t, VerifyOwner(acc, addr, program))

	err := VerifyOwner(acc, addr, other)
	var mismatch *OwnershipMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, program, mismatch.Owner)
	assert.Equal(t, other, mismatch.Expected)
}
