// =======================================
// File: internal/pumpfun/service.go
// =======================================
package pumpfun

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/curvelab/internal/accounts"
)

// Service fetches, verifies and decodes bonding-curve accounts. The decode
// and economics paths stay pure; this is the only stateful seam.
type Service struct {
	source accounts.Source
	logger *zap.Logger
}

func NewService(source accounts.Source, logger *zap.Logger) *Service {
	return &Service{
		source: source,
		logger: logger.Named("pumpfun"),
	}
}

// FetchState loads and decodes one bonding-curve account. The owner check
// runs before any byte of the account body is read.
func (s *Service) FetchState(ctx context.Context, curve solana.PublicKey) (*BondingCurveState, error) {
	acc, err := s.source.Fetch(ctx, curve)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bonding curve %s: %w", curve, err)
	}
	if err := accounts.VerifyOwner(acc, curve, ProgramID); err != nil {
		return nil, err
	}

	state, err := DecodeBondingCurve(acc.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode bonding curve %s: %w", curve, err)
	}

	s.logger.Debug("bonding curve decoded",
		zap.String("curve", curve.String()),
		zap.Uint64("virtual_token_reserves", state.VirtualTokenReserves),
		zap.Uint64("virtual_sol_reserves", state.VirtualSolReserves),
		zap.Bool("complete", state.Complete))

	return state, nil
}

// CurveInfo fetches the account and computes the economics snapshot against
// the given fundraising target; zero targetLamports selects the default.
func (s *Service) CurveInfo(ctx context.Context, curve solana.PublicKey, targetLamports uint64) (*CurveInfo, error) {
	if targetLamports == 0 {
		targetLamports = DefaultFundraisingTarget
	}
	state, err := s.FetchState(ctx, curve)
	if err != nil {
		return nil, err
	}
	return ComputeCurveInfo(state, targetLamports), nil
}

// IsGraduated reports whether the curve has completed and moved on.
func (s *Service) IsGraduated(ctx context.Context, curve solana.PublicKey) (bool, error) {
	state, err := s.FetchState(ctx, curve)
	if err != nil {
		return false, err
	}
	return state.Complete, nil
}
