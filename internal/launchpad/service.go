// ===================================
// File: internal/launchpad/service.go
// ===================================
package launchpad

import (
	"context"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/curvelab/internal/accounts"
	"github.com/rovshanmuradov/curvelab/internal/quote"
)

// MultiFetcher reads several accounts in one round trip; satisfied by the
// solbc client.
type MultiFetcher interface {
	GetMultipleAccounts(ctx context.Context, pubkeys ...solana.PublicKey) (*rpc.GetMultipleAccountsResult, error)
}

// Service fetches, verifies and decodes launchpad pool and config accounts.
type Service struct {
	source accounts.Source
	multi  MultiFetcher
	logger *zap.Logger
}

// NewService wires a service. multi may be nil when vault balances are not
// needed.
func NewService(source accounts.Source, multi MultiFetcher, logger *zap.Logger) *Service {
	return &Service{
		source: source,
		multi:  multi,
		logger: logger.Named("launchpad"),
	}
}

// FetchPool loads and decodes one pool account, checking ownership first.
func (s *Service) FetchPool(ctx context.Context, pool solana.PublicKey) (*PoolState, error) {
	acc, err := s.source.Fetch(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pool %s: %w", pool, err)
	}
	if err := accounts.VerifyOwner(acc, pool, ProgramID); err != nil {
		return nil, err
	}

	state, err := DecodePool(acc.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode pool %s: %w", pool, err)
	}

	s.logger.Debug("pool decoded",
		zap.String("pool", pool.String()),
		zap.String("global_config", state.GlobalConfig.String()),
		zap.Uint64("virtual_base", state.VirtualBase),
		zap.Uint64("virtual_quote", state.VirtualQuote))

	return state, nil
}

// FetchConfig loads and decodes one curve-config account. Config accounts
// are owned by the same launchpad program as the pools.
func (s *Service) FetchConfig(ctx context.Context, config solana.PublicKey) (*CurveConfig, error) {
	acc, err := s.source.Fetch(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch curve config %s: %w", config, err)
	}
	if err := accounts.VerifyOwner(acc, config, ProgramID); err != nil {
		return nil, err
	}

	cfg, err := DecodeConfig(acc.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode curve config %s: %w", config, err)
	}

	s.logger.Debug("curve config decoded",
		zap.String("config", config.String()),
		zap.String("curve_type", cfg.CurveType.String()),
		zap.Uint64("trade_fee_rate", cfg.TradeFeeRate))

	return cfg, nil
}

// PoolInfo fetches a pool and its config account and derives the economics
// snapshot.
func (s *Service) PoolInfo(ctx context.Context, pool solana.PublicKey) (*PoolInfo, error) {
	state, err := s.FetchPool(ctx, pool)
	if err != nil {
		return nil, err
	}
	cfg, err := s.FetchConfig(ctx, state.GlobalConfig)
	if err != nil {
		return nil, err
	}
	return ComputePoolInfo(state, cfg), nil
}

// ReserveState fetches a pool and its config and assembles the quote-engine
// snapshot.
func (s *Service) ReserveState(ctx context.Context, pool solana.PublicKey) (*quote.ReserveState, error) {
	state, err := s.FetchPool(ctx, pool)
	if err != nil {
		return nil, err
	}
	cfg, err := s.FetchConfig(ctx, state.GlobalConfig)
	if err != nil {
		return nil, err
	}
	return state.ReserveState(cfg)
}

// VaultBalances reads the pool's two SPL token vaults in one request and
// returns their raw balances. These track real token movement and are useful
// for cross-checking the decoded real reserves.
func (s *Service) VaultBalances(ctx context.Context, state *PoolState) (base, quoteBal uint64, err error) {
	if s.multi == nil {
		return 0, 0, fmt.Errorf("no multi-account fetcher configured")
	}

	res, err := s.multi.GetMultipleAccounts(ctx, state.BaseVault, state.QuoteVault)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch vaults: %w", err)
	}
	if res == nil || len(res.Value) < 2 {
		return 0, 0, fmt.Errorf("%w: pool vaults", accounts.ErrAccountNotFound)
	}

	decode := func(info *rpc.Account, name string) (uint64, error) {
		if info == nil || info.Data == nil {
			return 0, fmt.Errorf("%w: %s", accounts.ErrAccountNotFound, name)
		}
		var acc token.Account
		if err := bin.NewBinDecoder(info.Data.GetBinary()).Decode(&acc); err != nil {
			return 0, fmt.Errorf("failed to decode %s token account: %w", name, err)
		}
		return acc.Amount, nil
	}

	if base, err = decode(res.Value[0], "base vault"); err != nil {
		return 0, 0, err
	}
	if quoteBal, err = decode(res.Value[1], "quote vault"); err != nil {
		return 0, 0, err
	}
	return base, quoteBal, nil
}
