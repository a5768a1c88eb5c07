package application

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"county-revenue/internal/domain"
	"county-revenue/internal/filter"
	"gopkg.in/yaml.v3"
)

//go:embed registry.yaml
var defaultRegistry []byte

// ErrRegistryConfig marks a malformed registry configuration.
var ErrRegistryConfig = errors.New("invalid registry configuration")

type registryFile struct {
	Views []struct {
		ID        string              `yaml:"id"`
		Label     string              `yaml:"label"`
		Navigable bool                `yaml:"navigable"`
		Roles     []string            `yaml:"roles"`
		Actions   map[string][]string `yaml:"actions"`
	} `yaml:"views"`
}

// Registry is the static role → view → action table.
type Registry struct {
	views []domain.ViewDescriptor
	index map[domain.ViewID]int
}

// LoadRegistry parses and validates a registry document.
func LoadRegistry(data []byte) (*Registry, error) {
	var raw registryFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistryConfig, err)
	}
	r := &Registry{index: make(map[domain.ViewID]int, len(raw.Views))}
	for _, v := range raw.Views {
		if v.ID == "" {
			return nil, fmt.Errorf("%w: view without id", ErrRegistryConfig)
		}
		id := domain.ViewID(v.ID)
		if _, dup := r.index[id]; dup {
			return nil, fmt.Errorf("%w: duplicate view %q", ErrRegistryConfig, v.ID)
		}
		roles, err := parseRoles(v.Roles)
		if err != nil {
			return nil, fmt.Errorf("view %q: %w", v.ID, err)
		}
		if len(roles) == 0 {
			return nil, fmt.Errorf("%w: view %q has no roles", ErrRegistryConfig, v.ID)
		}
		desc := domain.ViewDescriptor{ID: id, Label: v.Label, Roles: roles, Navigable: v.Navigable, Actions: map[string][]domain.Role{}}
		for action, names := range v.Actions {
			actionRoles, err := parseRoles(names)
			if err != nil {
				return nil, fmt.Errorf("view %q action %q: %w", v.ID, action, err)
			}
			for _, role := range actionRoles {
				if !desc.Allows(role) {
					return nil, fmt.Errorf("%w: action %s.%s grants %s which cannot open the view", ErrRegistryConfig, v.ID, action, role)
				}
			}
			desc.Actions[action] = actionRoles
		}
		r.index[id] = len(r.views)
		r.views = append(r.views, desc)
	}
	if err := r.checkFrame(); err != nil {
		return nil, err
	}
	return r, nil
}

// MustLoadRegistry loads the embedded registry and panics if it is invalid.
func MustLoadRegistry() *Registry {
	r, err := LoadRegistry(defaultRegistry)
	if err != nil {
		panic(err)
	}
	return r
}

func parseRoles(names []string) ([]domain.Role, error) {
	roles := make([]domain.Role, 0, len(names))
	for _, name := range names {
		role, err := domain.ParseRole(name)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func (r *Registry) checkFrame() error {
	if len(r.views) == 0 {
		return fmt.Errorf("%w: no views", ErrRegistryConfig)
	}
	if r.views[0].ID != domain.ViewDashboard {
		return fmt.Errorf("%w: dashboard must be the first view", ErrRegistryConfig)
	}
	if r.views[len(r.views)-1].ID != domain.ViewSettings {
		return fmt.Errorf("%w: settings must be the last view", ErrRegistryConfig)
	}
	for _, id := range []domain.ViewID{domain.ViewDashboard, domain.ViewSettings} {
		desc := r.views[r.index[id]]
		if !desc.Navigable {
			return fmt.Errorf("%w: %s must be navigable", ErrRegistryConfig, id)
		}
		for _, role := range domain.Roles {
			if !desc.Allows(role) {
				return fmt.Errorf("%w: %s must be open to %s", ErrRegistryConfig, id, role)
			}
		}
	}
	return nil
}

// Views returns every descriptor in canonical order.
func (r *Registry) Views() []domain.ViewDescriptor {
	return append([]domain.ViewDescriptor(nil), r.views...)
}

func (r *Registry) View(id domain.ViewID) (domain.ViewDescriptor, bool) {
	i, ok := r.index[id]
	if !ok {
		return domain.ViewDescriptor{}, false
	}
	return r.views[i], true
}

// Navigation returns the navigable views open to role, in canonical order.
func (r *Registry) Navigation(role domain.Role) ([]domain.ViewDescriptor, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownRole, role)
	}
	out := make([]domain.ViewDescriptor, 0, len(r.views))
	for _, v := range r.views {
		if v.Navigable && v.Allows(role) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *Registry) CanView(role domain.Role, view domain.ViewID) bool {
	desc, ok := r.View(view)
	return ok && desc.Allows(role)
}

// Allowed reports whether role may perform action inside view.
func (r *Registry) Allowed(role domain.Role, view domain.ViewID, action string) (bool, error) {
	if !role.Valid() {
		return false, fmt.Errorf("%w: %q", domain.ErrUnknownRole, role)
	}
	desc, ok := r.View(view)
	if !ok {
		return false, fmt.Errorf("%w: view %q", domain.ErrNotFound, view)
	}
	return desc.Allows(role) && desc.Permits(role, action), nil
}

// Actions lists the actions role may perform inside view, sorted by name.
func (r *Registry) Actions(role domain.Role, view domain.ViewID) []string {
	desc, ok := r.View(view)
	if !ok || !desc.Allows(role) {
		return nil
	}
	var out []string
	for action := range desc.Actions {
		if desc.Permits(role, action) {
			out = append(out, action)
		}
	}
	slices.Sort(out)
	return out
}

// Scope derives the ownership restriction for user inside view: roles
// granted view_all see everything, everyone else sees their own records.
func (r *Registry) Scope(user domain.User, view domain.ViewID) filter.OwnerScope {
	if ok, _ := r.Allowed(user.Role, view, domain.ActionViewAll); ok {
		return filter.Unscoped()
	}
	return filter.OwnedBy(user.Name)
}

// Require returns ErrPermissionDeny unless user may open view and, when
// action is non-empty, perform it.
func (r *Registry) Require(user domain.User, view domain.ViewID, action string) error {
	if !user.Role.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownRole, user.Role)
	}
	if !r.CanView(user.Role, view) {
		return fmt.Errorf("%w: %s cannot open %s", domain.ErrPermissionDeny, user.Role, view)
	}
	if action == "" {
		return nil
	}
	ok, err := r.Allowed(user.Role, view, action)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s cannot %s in %s", domain.ErrPermissionDeny, user.Role, action, view)
	}
	return nil
}
