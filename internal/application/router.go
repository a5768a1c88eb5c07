package application

import (
	"context"
	"fmt"

	"county-revenue/internal/domain"
	"county-revenue/internal/filter"
	"county-revenue/internal/ports"
)

// ViewHandler produces the model for one view.
type ViewHandler interface {
	Load(ctx context.Context, user domain.User, q filter.Query) (any, error)
}

type ViewHandlerFunc func(ctx context.Context, user domain.User, q filter.Query) (any, error)

func (f ViewHandlerFunc) Load(ctx context.Context, user domain.User, q filter.Query) (any, error) {
	return f(ctx, user, q)
}

// ViewFactory builds the handler for a view.
type ViewFactory func() ViewHandler

// ViewHandle is the outcome of resolving a view for a role.
type ViewHandle struct {
	ID         domain.ViewID `json:"id"`
	Label      string        `json:"label"`
	Actions    []string      `json:"actions"`
	Redirected bool          `json:"redirected"`
	Requested  string        `json:"requested,omitempty"`
	Handler    ViewHandler   `json:"-"`
}

// ViewRouter maps view ids to their handler factories.
type ViewRouter struct {
	registry  *Registry
	factories map[domain.ViewID]ViewFactory
	metrics   ports.Metrics
}

// NewViewRouter fails unless every registry view has a factory and every
// factory belongs to a registry view.
func NewViewRouter(registry *Registry, factories map[domain.ViewID]ViewFactory, metrics ports.Metrics) (*ViewRouter, error) {
	for _, v := range registry.Views() {
		if factories[v.ID] == nil {
			return nil, fmt.Errorf("%w: view %q has no handler", ErrRegistryConfig, v.ID)
		}
	}
	for id := range factories {
		if _, ok := registry.View(id); !ok {
			return nil, fmt.Errorf("%w: handler for undeclared view %q", ErrRegistryConfig, id)
		}
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &ViewRouter{registry: registry, factories: factories, metrics: metrics}, nil
}

// Resolve selects the view for role. Unknown or disallowed ids fall back to
// the dashboard and are flagged as redirected.
func (r *ViewRouter) Resolve(viewID string, role domain.Role) (ViewHandle, error) {
	if !role.Valid() {
		return ViewHandle{}, fmt.Errorf("%w: %q", domain.ErrUnknownRole, role)
	}
	id := domain.ViewID(viewID)
	handle := ViewHandle{}
	if !r.registry.CanView(role, id) {
		handle.Redirected = true
		handle.Requested = viewID
		id = domain.ViewDashboard
	}
	desc, _ := r.registry.View(id)
	handle.ID = desc.ID
	handle.Label = desc.Label
	handle.Actions = r.registry.Actions(role, id)
	handle.Handler = r.factories[id]()
	r.metrics.ViewResolved(string(id), handle.Redirected)
	return handle, nil
}
