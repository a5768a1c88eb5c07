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

type LicenseService struct {
	registry *Registry
	store    ports.LicenseStore
	metrics  ports.Metrics
	logger   ports.Logger
	now      func() time.Time
}

func NewLicenseService(registry *Registry, store ports.LicenseStore, metrics ports.Metrics, logger ports.Logger) *LicenseService {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &LicenseService{registry: registry, store: store, metrics: metrics, logger: logger, now: time.Now}
}

type LicenseCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

type LicenseList struct {
	filter.Result[domain.License]
	Counts LicenseCounts `json:"counts"`
}

func countLicenses(licenses []domain.License) LicenseCounts {
	var c LicenseCounts
	for _, l := range licenses {
		switch l.Status {
		case domain.LicensePending:
			c.Pending++
		case domain.LicenseApproved:
			c.Approved++
		case domain.LicenseRejected:
			c.Rejected++
		}
	}
	return c
}

// List returns the visible licenses matching q with status counts over the
// displayed set.
func (s *LicenseService) List(ctx context.Context, user domain.User, q filter.Query) (LicenseList, error) {
	if err := s.registry.Require(user, domain.ViewLicenses, ""); err != nil {
		return LicenseList{}, err
	}
	if err := filter.Licenses.Validate(q); err != nil {
		return LicenseList{}, err
	}
	all, err := s.store.List(ctx)
	if err != nil {
		return LicenseList{}, err
	}
	res := filter.Summarize(all, filter.Licenses, s.registry.Scope(user, domain.ViewLicenses), q)
	s.metrics.ListResult("licenses", len(res.Items))
	return LicenseList{Result: res, Counts: countLicenses(res.Items)}, nil
}

type ApplyLicenseInput struct {
	Type      string `json:"type" validate:"required"`
	Applicant string `json:"applicant"`
}

// Apply files a new application. It always starts Pending; citizens apply
// in their own name.
func (s *LicenseService) Apply(ctx context.Context, user domain.User, in ApplyLicenseInput) (domain.License, error) {
	if err := s.registry.Require(user, domain.ViewLicenses, domain.ActionApply); err != nil {
		return domain.License{}, err
	}
	applicant := strings.TrimSpace(in.Applicant)
	if user.Role == domain.RoleCitizen {
		applicant = user.Name
	}
	if applicant == "" || strings.TrimSpace(in.Type) == "" {
		return domain.License{}, fmt.Errorf("%w: applicant and type are required", domain.ErrInvalidInput)
	}
	license, err := s.store.Create(ctx, domain.License{
		Type:      strings.TrimSpace(in.Type),
		Applicant: applicant,
		Status:    domain.LicensePending,
		Date:      s.now().Format(time.DateOnly),
	})
	if err != nil {
		return domain.License{}, err
	}
	s.metrics.Mutation("licenses", "create")
	s.logger.Info(ctx, "license application filed", "id", license.ID, "applicant", applicant)
	return license, nil
}

type ReviewLicenseInput struct {
	Status   domain.LicenseStatus `json:"status" validate:"required"`
	Feedback string               `json:"feedback"`
}

// Review sets the status and feedback of a license. Any status may follow
// any other.
func (s *LicenseService) Review(ctx context.Context, user domain.User, id string, in ReviewLicenseInput) (domain.License, error) {
	if err := s.registry.Require(user, domain.ViewLicenses, domain.ActionReview); err != nil {
		return domain.License{}, err
	}
	if id == "" || !in.Status.Valid() {
		return domain.License{}, fmt.Errorf("%w: unknown license status %q", domain.ErrInvalidInput, in.Status)
	}
	license, err := s.store.Update(ctx, id, func(l domain.License) domain.License {
		l.Status = in.Status
		l.Feedback = in.Feedback
		return l
	})
	if err != nil {
		return domain.License{}, err
	}
	s.metrics.Mutation("licenses", "review")
	s.logger.Info(ctx, "license reviewed", "id", id, "status", string(in.Status), "reviewer", user.Username)
	return license, nil
}
