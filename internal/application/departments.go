package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"county-revenue/internal/domain"
	"county-revenue/internal/ports"
	"county-revenue/internal/records"
)

type DepartmentService struct {
	registry      *Registry
	store         ports.DepartmentStore
	confirmations *Confirmations
	metrics       ports.Metrics
	logger        ports.Logger
}

func NewDepartmentService(registry *Registry, store ports.DepartmentStore, confirmations *Confirmations, metrics ports.Metrics, logger ports.Logger) *DepartmentService {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &DepartmentService{registry: registry, store: store, confirmations: confirmations, metrics: metrics, logger: logger}
}

// DepartmentView is a department with its collection progress.
type DepartmentView struct {
	domain.Department
	Progress float64 `json:"progress"`
}

func (s *DepartmentService) List(ctx context.Context, user domain.User) ([]DepartmentView, error) {
	if err := s.registry.Require(user, domain.ViewDepartments, ""); err != nil {
		return nil, err
	}
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DepartmentView, 0, len(all))
	for _, d := range all {
		out = append(out, DepartmentView{Department: d, Progress: d.Progress()})
	}
	s.metrics.ListResult("departments", len(out))
	return out, nil
}

type CreateDepartmentInput struct {
	Name   string  `json:"name" validate:"required"`
	Target float64 `json:"target" validate:"gte=0"`
	Icon   string  `json:"icon"`
}

// Create adds a department with nothing collected yet.
func (s *DepartmentService) Create(ctx context.Context, user domain.User, in CreateDepartmentInput) (domain.Department, error) {
	if err := s.registry.Require(user, domain.ViewDepartments, domain.ActionCreate); err != nil {
		return domain.Department{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Target < 0 {
		return domain.Department{}, fmt.Errorf("%w: name is required and target must not be negative", domain.ErrInvalidInput)
	}
	dept, err := s.store.Create(ctx, domain.Department{Name: name, Target: in.Target, Icon: in.Icon})
	if err != nil {
		return domain.Department{}, err
	}
	s.metrics.Mutation("departments", "create")
	s.logger.Info(ctx, "department created", "id", dept.ID, "name", dept.Name)
	return dept, nil
}

// Delete removes a department once confirmer agrees. Nothing is asked for
// an id that does not exist.
func (s *DepartmentService) Delete(ctx context.Context, user domain.User, id string, confirmer records.Confirmer) error {
	if err := s.registry.Require(user, domain.ViewDepartments, domain.ActionDelete); err != nil {
		return err
	}
	all, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	dept, _ := lookup(all, id)
	if _, err := records.ConfirmDelete(ctx, all, id, confirmer, deletePrompt(dept)); err != nil {
		if errors.Is(err, domain.ErrDeclined) {
			s.logger.Info(ctx, "department delete declined", "id", id)
		}
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.Mutation("departments", "delete")
	s.logger.Info(ctx, "department deleted", "id", id, "by", user.Username)
	return nil
}

// ProposeDelete parks a delete until the same user confirms or declines it
// through the confirmations service.
func (s *DepartmentService) ProposeDelete(ctx context.Context, user domain.User, id string) (Confirmation, error) {
	if err := s.registry.Require(user, domain.ViewDepartments, domain.ActionDelete); err != nil {
		return Confirmation{}, err
	}
	dept, err := s.find(ctx, id)
	if err != nil {
		return Confirmation{}, err
	}
	return s.confirmations.Propose(user, deletePrompt(dept), func(ctx context.Context) error {
		return s.Delete(ctx, user, id, records.ConfirmFunc(func(context.Context, string) (bool, error) {
			return true, nil
		}))
	}), nil
}

func (s *DepartmentService) find(ctx context.Context, id string) (domain.Department, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return domain.Department{}, err
	}
	if d, ok := lookup(all, id); ok {
		return d, nil
	}
	return domain.Department{}, fmt.Errorf("%w: department %s", domain.ErrNotFound, id)
}

func lookup(all []domain.Department, id string) (domain.Department, bool) {
	for _, d := range all {
		if d.ID == id {
			return d, true
		}
	}
	return domain.Department{}, false
}

func deletePrompt(d domain.Department) string {
	return fmt.Sprintf("Delete department %q?", d.Name)
}
