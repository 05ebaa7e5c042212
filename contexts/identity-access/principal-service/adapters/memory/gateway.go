package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Gateway is an in-memory preapproval gateway for development and tests.
// FailNext forces the next call to fail, to exercise upstream error paths.
type Gateway struct {
	mu       sync.Mutex
	issued   map[string]int64
	FailNext bool
}

func NewGateway() *Gateway {
	return &Gateway{issued: make(map[string]int64)}
}

func (g *Gateway) RequestPreapproval(_ context.Context, payerUserID int64) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.FailNext {
		g.FailNext = false
		return "", fmt.Errorf("preapproval gateway unavailable")
	}
	key := "PA-" + uuid.NewString()
	g.issued[key] = payerUserID
	return key, nil
}

func (g *Gateway) ConfirmPreapproval(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.FailNext {
		g.FailNext = false
		return fmt.Errorf("preapproval gateway unavailable")
	}
	if _, exists := g.issued[key]; !exists {
		return fmt.Errorf("unknown preapproval key")
	}
	return nil
}
