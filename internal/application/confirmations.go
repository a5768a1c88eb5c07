package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"county-revenue/internal/domain"
	"github.com/google/uuid"
)

// Confirmation is a pending destructive action awaiting a yes or no.
type Confirmation struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	ExpiresAt time.Time `json:"expires_at"`
}

type pendingAction struct {
	Confirmation
	owner string
	run   func(ctx context.Context) error
}

// Confirmations holds proposed actions until their owner answers. Each
// proposal can be answered once.
type Confirmations struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	pending map[string]pendingAction
}

func NewConfirmations(ttl time.Duration) *Confirmations {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Confirmations{ttl: ttl, now: time.Now, pending: make(map[string]pendingAction)}
}

func (c *Confirmations) Propose(user domain.User, prompt string, run func(ctx context.Context) error) Confirmation {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweep()
	conf := Confirmation{ID: uuid.NewString(), Prompt: prompt, ExpiresAt: c.now().Add(c.ttl)}
	c.pending[conf.ID] = pendingAction{Confirmation: conf, owner: user.Username, run: run}
	return conf
}

// Resolve answers a proposal. Declining returns domain.ErrDeclined; unknown,
// expired or foreign proposals are not found.
func (c *Confirmations) Resolve(ctx context.Context, user domain.User, id string, confirm bool) error {
	c.mu.Lock()
	c.sweep()
	p, ok := c.pending[id]
	if ok && p.owner != user.Username {
		ok = false
	}
	if ok {
		delete(c.pending, id)
	}
	c.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: confirmation %s", domain.ErrNotFound, id)
	}
	if !confirm {
		return domain.ErrDeclined
	}
	return p.run(ctx)
}

// sweep drops expired proposals. Callers hold mu.
func (c *Confirmations) sweep() {
	now := c.now()
	for id, p := range c.pending {
		if !now.Before(p.ExpiresAt) {
			delete(c.pending, id)
		}
	}
}
