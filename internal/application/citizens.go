package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"county-revenue/internal/domain"
	"county-revenue/internal/filter"
	"county-revenue/internal/ports"
)

type CitizenService struct {
	registry *Registry
	store    ports.CitizenStore
	metrics  ports.Metrics
	logger   ports.Logger
	now      func() time.Time
}

func NewCitizenService(registry *Registry, store ports.CitizenStore, metrics ports.Metrics, logger ports.Logger) *CitizenService {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &CitizenService{registry: registry, store: store, metrics: metrics, logger: logger, now: time.Now}
}

func (s *CitizenService) List(ctx context.Context, user domain.User, q filter.Query) (filter.Result[domain.Citizen], error) {
	if err := s.registry.Require(user, domain.ViewCitizens, ""); err != nil {
		return filter.Result[domain.Citizen]{}, err
	}
	if err := filter.Citizens.Validate(q); err != nil {
		return filter.Result[domain.Citizen]{}, err
	}
	all, err := s.store.List(ctx)
	if err != nil {
		return filter.Result[domain.Citizen]{}, err
	}
	res := filter.Summarize(all, filter.Citizens, filter.Unscoped(), q)
	s.metrics.ListResult("citizens", len(res.Items))
	return res, nil
}

type RegisterCitizenInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	IDNumber string `json:"id_number"`
}

func (s *CitizenService) Register(ctx context.Context, user domain.User, in RegisterCitizenInput) (domain.Citizen, error) {
	if err := s.registry.Require(user, domain.ViewCitizens, domain.ActionRegister); err != nil {
		return domain.Citizen{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Phone) == "" {
		return domain.Citizen{}, fmt.Errorf("%w: name, email and phone are required", domain.ErrInvalidInput)
	}
	citizen, err := s.store.Create(ctx, domain.Citizen{
		Name:       name,
		IDNumber:   strings.TrimSpace(in.IDNumber),
		Phone:      strings.TrimSpace(in.Phone),
		Email:      strings.TrimSpace(in.Email),
		Registered: s.now().Format(time.DateOnly),
		Status:     domain.CitizenActive,
	})
	if err != nil {
		return domain.Citizen{}, err
	}
	s.metrics.Mutation("citizens", "create")
	s.logger.Info(ctx, "citizen registered", "id", citizen.ID)
	return citizen, nil
}
