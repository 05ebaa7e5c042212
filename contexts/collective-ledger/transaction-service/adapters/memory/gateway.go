package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"commonfund/contexts/collective-ledger/transaction-service/ports"
)

var errGatewayUnavailable = errors.New("gateway unavailable")
var errUnknownPayKey = errors.New("unknown pay key")

// Gateway is a fake payment provider. FailNext forces the next call to fail
// once, to exercise retry and error paths upstream.
type Gateway struct {
	mu       sync.Mutex
	minted   map[string]ports.PayRequest
	FailNext bool

	// MintCalls counts MintPayKey invocations, including failed ones.
	MintCalls int
}

func NewGateway() *Gateway {
	return &Gateway{minted: make(map[string]ports.PayRequest)}
}

func (g *Gateway) MintPayKey(_ context.Context, req ports.PayRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.MintCalls++
	if g.FailNext {
		g.FailNext = false
		return "", errGatewayUnavailable
	}
	key := "AP-" + uuid.NewString()
	g.minted[key] = req
	return key, nil
}

func (g *Gateway) ConfirmPay(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.FailNext {
		g.FailNext = false
		return errGatewayUnavailable
	}
	if _, exists := g.minted[key]; !exists {
		return errUnknownPayKey
	}
	return nil
}
