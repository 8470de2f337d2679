// internal/blockchain/solbc/pool_test.go
package solbc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRPCPoolRoundRobin(t *testing.T) {
	p := newRPCPool([]string{"http://rpc-one.example.com", "http://rpc-two.example.com"})
	assert.Equal(t, 2, p.size())

	first := p.next()
	second := p.next()
	assert.NotSame(t, first, second)
	assert.Same(t, first, p.next())
	assert.Same(t, second, p.next())
}

func TestRPCPoolSingleEndpoint(t *testing.T) {
	p := newRPCPool([]string{"http://rpc-one.example.com"})
	assert.Same(t, p.next(), p.next())
}
