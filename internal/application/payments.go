package application

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"county-revenue/internal/domain"
	"county-revenue/internal/filter"
	"county-revenue/internal/ports"
)

type PaymentService struct {
	registry *Registry
	store    ports.PaymentStore
	gateway  ports.PaymentGateway
	metrics  ports.Metrics
	logger   ports.Logger
	now      func() time.Time
}

func NewPaymentService(registry *Registry, store ports.PaymentStore, gateway ports.PaymentGateway, metrics ports.Metrics, logger ports.Logger) *PaymentService {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &PaymentService{registry: registry, store: store, gateway: gateway, metrics: metrics, logger: logger, now: time.Now}
}

// List returns the payments visible to user that match q.
func (s *PaymentService) List(ctx context.Context, user domain.User, q filter.Query) (filter.Result[domain.Payment], error) {
	if err := s.registry.Require(user, domain.ViewPayments, ""); err != nil {
		return filter.Result[domain.Payment]{}, err
	}
	if err := filter.Payments.Validate(q); err != nil {
		return filter.Result[domain.Payment]{}, err
	}
	all, err := s.store.List(ctx)
	if err != nil {
		return filter.Result[domain.Payment]{}, err
	}
	res := filter.Summarize(all, filter.Payments, s.registry.Scope(user, domain.ViewPayments), q)
	s.metrics.ListResult("payments", len(res.Items))
	return res, nil
}

type MakePaymentInput struct {
	Payer      string  `json:"payer"`
	Amount     float64 `json:"amount" validate:"gt=0"`
	Department string  `json:"department" validate:"required"`
	Type       string  `json:"type" validate:"required"`
}

// Make submits a payment to the gateway and records the outcome. Citizens
// always pay in their own name.
func (s *PaymentService) Make(ctx context.Context, user domain.User, in MakePaymentInput) (domain.Payment, error) {
	if err := s.registry.Require(user, domain.ViewPayments, domain.ActionMakePayment); err != nil {
		return domain.Payment{}, err
	}
	payer := strings.TrimSpace(in.Payer)
	if user.Role == domain.RoleCitizen {
		payer = user.Name
	}
	if payer == "" {
		return domain.Payment{}, fmt.Errorf("%w: payer is required", domain.ErrInvalidInput)
	}
	if in.Amount <= 0 {
		return domain.Payment{}, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}
	if in.Department == "" || in.Type == "" {
		return domain.Payment{}, fmt.Errorf("%w: department and type are required", domain.ErrInvalidInput)
	}
	return s.record(ctx, ports.PaymentRequest{Payer: payer, Amount: in.Amount, Department: in.Department, Type: in.Type})
}

func (s *PaymentService) record(ctx context.Context, req ports.PaymentRequest) (domain.Payment, error) {
	receipt, err := s.gateway.Submit(ctx, req)
	if err != nil {
		s.logger.Error(ctx, "payment gateway failed", "payer", req.Payer, "error", err)
		return domain.Payment{}, fmt.Errorf("submit payment: %w", err)
	}
	payment, err := s.store.Create(ctx, domain.Payment{
		Citizen:    req.Payer,
		Amount:     req.Amount,
		Date:       s.now().Format(time.DateOnly),
		Department: req.Department,
		Type:       req.Type,
		Status:     receipt.Status,
		Reference:  receipt.Reference,
	})
	if err != nil {
		return domain.Payment{}, err
	}
	s.metrics.Mutation("payments", "create")
	s.logger.Info(ctx, "payment recorded", "id", payment.ID, "status", string(payment.Status))
	return payment, nil
}

// ExportCSV writes the filtered payment list as CSV.
func (s *PaymentService) ExportCSV(ctx context.Context, user domain.User, q filter.Query, w io.Writer) error {
	if err := s.registry.Require(user, domain.ViewPayments, domain.ActionExportCSV); err != nil {
		return err
	}
	res, err := s.List(ctx, user, q)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(res.Items))
	for _, p := range res.Items {
		rows = append(rows, []string{p.ID, p.Citizen, formatAmount(p.Amount), p.Date, p.Department, string(p.Status)})
	}
	return writeCSV(w, []string{"id", "citizen", "amount", "date", "department", "status"}, rows)
}
