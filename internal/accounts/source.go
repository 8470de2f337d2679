// ================================
// File: internal/accounts/source.go
// ================================

// Package accounts supplies raw account bytes to the decoders. A Source is
// the only place the system touches the network; everything downstream is a
// pure function of the bytes it returns.
package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/curvelab/internal/blockchain/solbc"
)

// ErrAccountNotFound is returned when the data source has no account at the
// requested address.
var ErrAccountNotFound = errors.New("account not found")

// OwnershipMismatchError is returned when a fetched account is not owned by
// the expected program. Decoding never proceeds past this check.
type OwnershipMismatchError struct {
	Address  solana.PublicKey
	Owner    solana.PublicKey
	Expected solana.PublicKey
}

func (e *OwnershipMismatchError) Error() string {
	return fmt.Sprintf("account %s owned by %s, expected program %s",
		e.Address, e.Owner, e.Expected)
}

// Account is one immutable snapshot of on-chain account state.
type Account struct {
	Owner    solana.PublicKey
	Data     []byte
	Lamports uint64
}

// Source fetches account snapshots by address.
type Source interface {
	Fetch(ctx context.Context, address solana.PublicKey) (*Account, error)
}

// VerifyOwner checks a snapshot against the expected owning program.
// Callers must do this before handing bytes to a decoder.
func VerifyOwner(acc *Account, address, expected solana.PublicKey) error {
	if !acc.Owner.Equals(expected) {
		return &OwnershipMismatchError{Address: address, Owner: acc.Owner, Expected: expected}
	}
	return nil
}

// RPCSource fetches accounts over a solbc client.
type RPCSource struct {
	client *solbc.Client
	logger *zap.Logger
}

func NewRPCSource(client *solbc.Client, logger *zap.Logger) *RPCSource {
	return &RPCSource{
		client: client,
		logger: logger.Named("account-source"),
	}
}

func (s *RPCSource) Fetch(ctx context.Context, address solana.PublicKey) (*Account, error) {
	info, err := s.client.GetAccountInfo(ctx, address)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
		}
		return nil, fmt.Errorf("failed to get account %s: %w", address, err)
	}
	if info == nil || info.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
	}

	acc := &Account{
		Owner:    info.Value.Owner,
		Data:     info.Value.Data.GetBinary(),
		Lamports: info.Value.Lamports,
	}

	s.logger.Debug("account fetched",
		zap.String("address", address.String()),
		zap.String("owner", acc.Owner.String()),
		zap.Int("data_len", len(acc.Data)))

	return acc, nil
}
