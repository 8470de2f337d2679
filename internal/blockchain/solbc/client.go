// internal/blockchain/solbc/client.go
package solbc

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// Client is a thin adapter over the solana-go RPC client, rotating reads
// across the configured endpoints. It only covers account reads; transaction
// construction and signing are out of scope.
type Client struct {
	pool       *rpcPool
	logger     *zap.Logger
	commitment rpc.CommitmentType
	maxRetries uint
	retryDelay time.Duration
}

// Option adjusts a Client at construction time.
type Option func(*Client)

// WithCommitment overrides the confirmation level used for account reads.
func WithCommitment(commitment rpc.CommitmentType) Option {
	return func(c *Client) { c.commitment = commitment }
}

// WithMaxRetries overrides how many attempts a read gets before giving up.
func WithMaxRetries(n uint) Option {
	return func(c *Client) { c.maxRetries = n }
}

// NewClient builds a client over one or more RPC endpoints. The logger is
// injected, never created here.
func NewClient(rpcURLs []string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		pool:       newRPCPool(rpcURLs),
		logger:     logger.Named("solbc-client"),
		commitment: rpc.CommitmentConfirmed,
		maxRetries: 3,
		retryDelay: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetAccountInfo fetches a single account, retrying transient RPC failures
// with exponential backoff. Context cancellation stops the retry loop.
func (c *Client) GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryDelay

	notify := func(err error, d time.Duration) {
		c.logger.Debug("GetAccountInfo retry",
			zap.String("pubkey", pubkey.String()),
			zap.Duration("backoff", d),
			zap.Error(err))
	}

	operation := func() (*rpc.GetAccountInfoResult, error) {
		result, err := c.pool.next().GetAccountInfoWithOpts(ctx, pubkey, &rpc.GetAccountInfoOpts{
			Encoding:   solana.EncodingBase64,
			Commitment: c.commitment,
		})
		if err == rpc.ErrNotFound {
			// A missing account is a firm answer, not a transient fault.
			return nil, backoff.Permanent(err)
		}
		return result, err
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(c.maxRetries),
		backoff.WithNotify(notify))
}

// GetMultipleAccounts fetches several accounts in one request.
func (c *Client) GetMultipleAccounts(ctx context.Context, pubkeys ...solana.PublicKey) (*rpc.GetMultipleAccountsResult, error) {
	if len(pubkeys) == 0 {
		return &rpc.GetMultipleAccountsResult{}, nil
	}

	opts := rpc.GetMultipleAccountsOpts{
		Commitment: c.commitment,
		Encoding:   solana.EncodingBase64,
	}

	res, err := c.pool.next().GetMultipleAccountsWithOpts(ctx, pubkeys, &opts)
	if err != nil {
		c.logger.Debug("GetMultipleAccounts error", zap.Error(err))
		return nil, err
	}
	return res, nil
}
