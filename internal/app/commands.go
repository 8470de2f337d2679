// internal/app/commands.go
package app

import (
	"context"
	"flag"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/curvelab/internal/launchpad"
	"github.com/rovshanmuradov/curvelab/internal/pumpfun"
	"github.com/rovshanmuradov/curvelab/internal/quote"
)

func parseAddress(fs *flag.FlagSet) (solana.PublicKey, error) {
	if fs.NArg() != 1 {
		return solana.PublicKey{}, fmt.Errorf("expected exactly one account address, got %d", fs.NArg())
	}
	addr, err := solana.PublicKeyFromBase58(fs.Arg(0))
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid account address %q: %w", fs.Arg(0), err)
	}
	return addr, nil
}

// runCurve prints the bonding-curve economics for one pumpfun curve account,
// optionally polling until the curve completes.
func (r *Runner) runCurve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("curve", flag.ContinueOnError)
	targetStr := fs.String("target", "0", "fundraising target in SOL (0 selects the default)")
	watchMode := fs.Bool("watch", false, "poll until the curve completes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	addr, err := parseAddress(fs)
	if err != nil {
		return err
	}
	targetSOL, err := decimal.NewFromString(*targetStr)
	if err != nil || targetSOL.IsNegative() {
		return fmt.Errorf("invalid -target %q", *targetStr)
	}
	target := pumpfun.SOLToLamports(targetSOL)
	if target == 0 {
		// Config-level override; the service falls back to the canonical
		// graduation threshold when this is zero too.
		target = r.config.FundraisingTarget
	}

	show := func(ctx context.Context) (bool, error) {
		info, err := r.pumpfun.CurveInfo(ctx, addr, target)
		if err != nil {
			return false, err
		}
		printCurveInfo(addr, info)
		return info.Complete, nil
	}

	if *watchMode {
		r.logger.Info("👀 Watching bonding curve",
			zap.String("curve", addr.String()),
			zap.Int("interval_ms", r.config.WatchIntervalMs))
		return r.watch(ctx, show)
	}
	_, err = show(ctx)
	return err
}

// runPool prints the launchpad pool economics, optionally polling until the
// raise completes.
func (r *Runner) runPool(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pool", flag.ContinueOnError)
	watchMode := fs.Bool("watch", false, "poll until fundraising completes")
	vaults := fs.Bool("vaults", false, "also read the pool token vault balances")
	if err := fs.Parse(args); err != nil {
		return err
	}
	addr, err := parseAddress(fs)
	if err != nil {
		return err
	}

	show := func(ctx context.Context) (bool, error) {
		info, err := r.launchpad.PoolInfo(ctx, addr)
		if err != nil {
			return false, err
		}
		printPoolInfo(addr, info)

		if *vaults {
			pool, err := r.launchpad.FetchPool(ctx, addr)
			if err != nil {
				return false, err
			}
			base, quoteBal, err := r.launchpad.VaultBalances(ctx, pool)
			if err != nil {
				return false, err
			}
			fmt.Printf("  base vault:   %d\n  quote vault:  %d\n", base, quoteBal)
		}
		return info.Complete, nil
	}

	if *watchMode {
		r.logger.Info("👀 Watching launchpad pool",
			zap.String("pool", addr.String()),
			zap.Int("interval_ms", r.config.WatchIntervalMs))
		return r.watch(ctx, show)
	}
	_, err = show(ctx)
	return err
}

// runQuote quotes a swap against a launchpad pool's current reserves.
func (r *Runner) runQuote(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("quote", flag.ContinueOnError)
	amountStr := fs.String("amount", "", "human-readable input amount (output amount with -exact-out)")
	side := fs.String("side", "buy", "buy (quote in, base out) or sell (base in, quote out)")
	exactOut := fs.Bool("exact-out", false, "treat -amount as the desired output")
	slippageStr := fs.String("slippage", "0.01", "fractional slippage tolerance, e.g. 0.01 for 1%")
	if err := fs.Parse(args); err != nil {
		return err
	}
	addr, err := parseAddress(fs)
	if err != nil {
		return err
	}

	if *amountStr == "" {
		return fmt.Errorf("missing -amount")
	}
	amount, err := decimal.NewFromString(*amountStr)
	if err != nil {
		return fmt.Errorf("invalid -amount %q: %w", *amountStr, err)
	}
	slippage, err := decimal.NewFromString(*slippageStr)
	if err != nil {
		return fmt.Errorf("invalid -slippage %q: %w", *slippageStr, err)
	}

	var direction quote.Direction
	switch *side {
	case "buy":
		direction = quote.QuoteToBase
	case "sell":
		direction = quote.BaseToQuote
	default:
		return fmt.Errorf("unknown -side %q, want buy or sell", *side)
	}

	state, err := r.launchpad.ReserveState(ctx, addr)
	if err != nil {
		return err
	}

	var result *quote.Result
	if *exactOut {
		result, err = state.ExactOutput(direction, amount, slippage)
	} else {
		result, err = state.ExactInput(direction, amount, slippage)
	}
	if err != nil {
		return err
	}

	printQuote(addr, state, result)
	return nil
}

func printCurveInfo(addr solana.PublicKey, info *pumpfun.CurveInfo) {
	fmt.Printf("bonding curve %s\n", addr)
	fmt.Printf("  progress:        %s%%\n", info.BondingPercentage.StringFixed(2))
	fmt.Printf("  raised:          %s SOL of %s SOL (remaining %s)\n",
		info.RaisedSoFar, info.FundraisingTarget, info.RemainingToRaise)
	fmt.Printf("  current price:   %s SOL\n", info.CurrentPrice)
	fmt.Printf("  grad price:      %s SOL\n", info.GraduationPrice)
	fmt.Printf("  grad market cap: %s SOL\n", info.GraduationMarketCap)
	fmt.Printf("  complete:        %t\n", info.Complete)
}

func printPoolInfo(addr solana.PublicKey, info *launchpad.PoolInfo) {
	fmt.Printf("launchpad pool %s (%s)\n", addr, info.Variant)
	fmt.Printf("  progress:        %s%%\n", info.BondingPercentage.StringFixed(2))
	fmt.Printf("  raised:          %s of %s (remaining %s)\n",
		info.RaisedSoFar, info.FundraisingTarget, info.RemainingToRaise)
	fmt.Printf("  current price:   %s\n", info.CurrentPrice)
	fmt.Printf("  grad price:      %s\n", info.GraduationPrice)
	fmt.Printf("  grad market cap: %s\n", info.GraduationMarketCap)
	fmt.Printf("  reserves:        %s base / %s quote\n", info.BaseReserve, info.QuoteReserve)
	fmt.Printf("  complete:        %t\n", info.Complete)
}

func printQuote(addr solana.PublicKey, state *quote.ReserveState, result *quote.Result) {
	inDec, outDec := state.BaseDecimals, state.QuoteDecimals
	if result.Direction == quote.QuoteToBase {
		inDec, outDec = state.QuoteDecimals, state.BaseDecimals
	}

	fmt.Printf("quote against pool %s (%s)\n", addr, result.Direction)
	fmt.Printf("  amount in:       %s\n", quote.FromRaw(result.AmountIn, inDec))
	fmt.Printf("  amount out:      %s\n", quote.FromRaw(result.AmountOut, outDec))
	fmt.Printf("  min out:         %s\n", quote.FromRaw(result.MinAmountOut, outDec))
	fmt.Printf("  max in:          %s\n", quote.FromRaw(result.MaxAmountIn, inDec))
	fmt.Printf("  fee:             %s\n", quote.FromRaw(result.Fee, inDec))
	fmt.Printf("  spot price:      %s\n", result.CurrentPrice)
	fmt.Printf("  execution price: %s\n", result.ExecutionPrice)
	fmt.Printf("  price impact:    %s%%\n", result.PriceImpact.Mul(decimal.NewFromInt(100)).StringFixed(4))
}
