// Package gateway provides payment backends.
package gateway

import (
	"context"
	"fmt"
	"time"

	"county-revenue/internal/domain"
	"county-revenue/internal/ports"
	"github.com/google/uuid"
)

// Simulated accepts every payment after a fixed latency.
type Simulated struct {
	latency time.Duration
}

func NewSimulated(latency time.Duration) *Simulated {
	return &Simulated{latency: latency}
}

func (g *Simulated) Submit(ctx context.Context, req ports.PaymentRequest) (ports.PaymentReceipt, error) {
	if req.Amount <= 0 {
		return ports.PaymentReceipt{}, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}
	if g.latency > 0 {
		timer := time.NewTimer(g.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ports.PaymentReceipt{}, ctx.Err()
		case <-timer.C:
		}
	}
	return ports.PaymentReceipt{
		Reference: "TXN-" + uuid.NewString()[:8],
		Status:    domain.PaymentCompleted,
	}, nil
}
