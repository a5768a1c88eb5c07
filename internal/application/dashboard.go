package application

import (
	"context"

	"county-revenue/internal/domain"
	"county-revenue/internal/filter"
	"county-revenue/internal/ports"
)

const recentPaymentLimit = 5

type PaymentSummary struct {
	TotalCollected float64          `json:"total_collected"`
	Transactions   int              `json:"transactions"`
	Pending        int              `json:"pending"`
	Failed         int              `json:"failed"`
	Recent         []domain.Payment `json:"recent"`
}

// Dashboard is the landing view. Sections the role cannot see are nil.
type Dashboard struct {
	Title         string          `json:"title"`
	Subtitle      string          `json:"subtitle"`
	PaymentAction string          `json:"payment_action,omitempty"`
	CanExport     bool            `json:"can_export"`
	Payments      *PaymentSummary `json:"payments,omitempty"`
	Licenses      *LicenseCounts  `json:"licenses,omitempty"`
	Unread        int             `json:"unread_notifications"`
}

type DashboardService struct {
	registry      *Registry
	payments      ports.PaymentStore
	licenses      ports.LicenseStore
	notifications ports.NotificationStore
}

func NewDashboardService(registry *Registry, payments ports.PaymentStore, licenses ports.LicenseStore, notifications ports.NotificationStore) *DashboardService {
	return &DashboardService{registry: registry, payments: payments, licenses: licenses, notifications: notifications}
}

func (s *DashboardService) Summary(ctx context.Context, user domain.User) (Dashboard, error) {
	if err := s.registry.Require(user, domain.ViewDashboard, ""); err != nil {
		return Dashboard{}, err
	}
	d := Dashboard{Title: "Overview Dashboard", Subtitle: "Overview of county revenue collection."}
	switch user.Role {
	case domain.RoleCitizen:
		d.Title = "My Dashboard"
		d.Subtitle = "View your recent payments and active licenses."
	case domain.RoleRevenueCollector:
		d.Title = "Field Dashboard"
	}

	if s.registry.CanView(user.Role, domain.ViewPayments) {
		all, err := s.payments.List(ctx)
		if err != nil {
			return Dashboard{}, err
		}
		visible := filter.Scope(all, filter.Payments, s.registry.Scope(user, domain.ViewPayments))
		d.Payments = summarizePayments(visible)
		d.CanExport, _ = s.registry.Allowed(user.Role, domain.ViewPayments, domain.ActionExportCSV)
		if ok, _ := s.registry.Allowed(user.Role, domain.ViewPayments, domain.ActionMakePayment); ok {
			d.PaymentAction = "New Payment"
			if user.Role == domain.RoleCitizen {
				d.PaymentAction = "Pay Now"
			}
		}
	}

	if s.registry.CanView(user.Role, domain.ViewLicenses) {
		all, err := s.licenses.List(ctx)
		if err != nil {
			return Dashboard{}, err
		}
		counts := countLicenses(filter.Scope(all, filter.Licenses, s.registry.Scope(user, domain.ViewLicenses)))
		d.Licenses = &counts
	}

	notes, err := s.notifications.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	d.Unread = countUnread(notes)
	return d, nil
}

func summarizePayments(payments []domain.Payment) *PaymentSummary {
	sum := &PaymentSummary{Transactions: len(payments), Recent: []domain.Payment{}}
	for _, p := range payments {
		switch p.Status {
		case domain.PaymentCompleted:
			sum.TotalCollected += p.Amount
		case domain.PaymentPending:
			sum.Pending++
		case domain.PaymentFailed:
			sum.Failed++
		}
	}
	sum.Recent = append(sum.Recent, payments[:min(recentPaymentLimit, len(payments))]...)
	return sum
}
