// internal/app/runner.go
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go/rpc"

	"github.com/rovshanmuradov/curvelab/internal/accounts"
	"github.com/rovshanmuradov/curvelab/internal/blockchain/solbc"
	"github.com/rovshanmuradov/curvelab/internal/config"
	"github.com/rovshanmuradov/curvelab/internal/launchpad"
	"github.com/rovshanmuradov/curvelab/internal/logger"
	"github.com/rovshanmuradov/curvelab/internal/pumpfun"
)

// Runner wires the RPC client, cached account source and both curve services
// behind the command surface.
type Runner struct {
	logger     *logger.Logger
	config     *config.Config
	solClient  *solbc.Client
	source     *accounts.CachedSource
	pumpfun    *pumpfun.Service
	launchpad  *launchpad.Service
	shutdownCh chan os.Signal
}

func NewRunner(cfg *config.Config, log *logger.Logger) *Runner {
	client := solbc.NewClient(cfg.RPCList, log.Logger,
		solbc.WithCommitment(commitmentFromString(cfg.Commitment)),
		solbc.WithMaxRetries(uint(cfg.Retries)))

	source := accounts.NewCachedSource(
		accounts.NewRPCSource(client, log.Logger),
		time.Duration(cfg.CacheTTLMs)*time.Millisecond,
		log.Logger)

	return &Runner{
		logger:     log,
		config:     cfg,
		solClient:  client,
		source:     source,
		pumpfun:    pumpfun.NewService(source, log.Logger),
		launchpad:  launchpad.NewService(source, client, log.Logger),
		shutdownCh: make(chan os.Signal, 1),
	}
}

// Run dispatches one subcommand, cancelling on SIGINT/SIGTERM so watch loops
// exit cleanly.
func (r *Runner) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: curvelab <curve|pool|quote> [flags]")
	}

	signal.Notify(r.shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sig := <-r.shutdownCh
		r.logger.Info("📡 Signal received: " + sig.String())
		cancel()
	}()

	switch args[0] {
	case "curve":
		return r.runCurve(runCtx, args[1:])
	case "pool":
		return r.runPool(runCtx, args[1:])
	case "quote":
		return r.runQuote(runCtx, args[1:])
	default:
		return fmt.Errorf("unknown command %q, want curve, pool or quote", args[0])
	}
}

func (r *Runner) Shutdown() {
	if err := r.logger.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to sync logger during shutdown: %v\n", err)
	}
}

// watch re-runs fn at the configured interval until the context ends or fn
// reports it is done. The cache is dropped before each pass so every tick
// sees fresh chain state.
func (r *Runner) watch(ctx context.Context, fn func(context.Context) (done bool, err error)) error {
	ticker := time.NewTicker(time.Duration(r.config.WatchIntervalMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		r.source.InvalidateAll()
		done, err := fn(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func commitmentFromString(s string) rpc.CommitmentType {
	switch s {
	case "processed":
		return rpc.CommitmentProcessed
	case "finalized":
		return rpc.CommitmentFinalized
	default:
		return rpc.CommitmentConfirmed
	}
}
