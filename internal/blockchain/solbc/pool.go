// internal/blockchain/solbc/pool.go
package solbc

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// rpcPool rotates reads across several RPC endpoints round-robin. A pool of
// one degenerates to a plain client.
type rpcPool struct {
	mu      sync.Mutex
	clients []*rpc.Client
	urls    []string
	index   int
}

func newRPCPool(rpcURLs []string) *rpcPool {
	clients := make([]*rpc.Client, 0, len(rpcURLs))
	for _, url := range rpcURLs {
		clients = append(clients, rpc.New(url))
	}
	return &rpcPool{clients: clients, urls: rpcURLs}
}

func (p *rpcPool) next() *rpc.Client {
	p.mu.Lock()
	defer p.mu.Unlock()

	client := p.clients[p.index]
	p.index = (p.index + 1) % len(p.clients)
	return client
}

func (p *rpcPool) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clients)
}

// HealthCheck probes every endpoint and drops the ones that fail, keeping at
// least one client so reads can still be attempted.
func (c *Client) HealthCheck(ctx context.Context) {
	p := c.pool
	p.mu.Lock()
	defer p.mu.Unlock()

	healthy := p.clients[:0]
	healthyURLs := p.urls[:0]
	for i, client := range p.clients {
		probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		_, err := client.GetHealth(probeCtx)
		cancel()

		if err != nil {
			c.logger.Warn("dropping unhealthy RPC endpoint",
				zap.String("url", p.urls[i]),
				zap.Error(err))
			continue
		}
		healthy = append(healthy, client)
		healthyURLs = append(healthyURLs, p.urls[i])
	}

	if len(healthy) > 0 {
		p.clients = healthy
		p.urls = healthyURLs
		p.index = 0
	}
}
