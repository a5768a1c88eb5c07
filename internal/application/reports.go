package application

import (
	"cmp"
	"context"
	"io"
	"slices"
	"strconv"

	"county-revenue/internal/domain"
	"county-revenue/internal/ports"
)

type RevenueLine struct {
	Key          string  `json:"key"`
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
}

type RevenueReport struct {
	Total        float64       `json:"total"`
	ByDepartment []RevenueLine `json:"by_department"`
	ByDate       []RevenueLine `json:"by_date"`
}

// ReportService derives revenue reports from completed payments.
type ReportService struct {
	registry *Registry
	payments ports.PaymentStore
	logger   ports.Logger
}

func NewReportService(registry *Registry, payments ports.PaymentStore, logger ports.Logger) *ReportService {
	return &ReportService{registry: registry, payments: payments, logger: logger}
}

func (s *ReportService) Revenue(ctx context.Context, user domain.User) (RevenueReport, error) {
	if err := s.registry.Require(user, domain.ViewReports, ""); err != nil {
		return RevenueReport{}, err
	}
	all, err := s.payments.List(ctx)
	if err != nil {
		return RevenueReport{}, err
	}
	return buildRevenueReport(all), nil
}

// ExportCSV writes the per-department breakdown.
func (s *ReportService) ExportCSV(ctx context.Context, user domain.User, w io.Writer) error {
	if err := s.registry.Require(user, domain.ViewReports, domain.ActionExport); err != nil {
		return err
	}
	report, err := s.Revenue(ctx, user)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(report.ByDepartment))
	for _, line := range report.ByDepartment {
		rows = append(rows, []string{line.Key, formatAmount(line.Revenue), strconv.Itoa(line.Transactions)})
	}
	s.logger.Info(ctx, "revenue report exported", "by", user.Username, "rows", len(rows))
	return writeCSV(w, []string{"department", "revenue", "transactions"}, rows)
}

func buildRevenueReport(payments []domain.Payment) RevenueReport {
	report := RevenueReport{ByDepartment: []RevenueLine{}, ByDate: []RevenueLine{}}
	byDept := map[string]*RevenueLine{}
	byDate := map[string]*RevenueLine{}
	for _, p := range payments {
		if p.Status != domain.PaymentCompleted {
			continue
		}
		report.Total += p.Amount
		addRevenue(byDept, p.Department, p.Amount)
		addRevenue(byDate, p.Date, p.Amount)
	}
	for _, line := range byDept {
		report.ByDepartment = append(report.ByDepartment, *line)
	}
	for _, line := range byDate {
		report.ByDate = append(report.ByDate, *line)
	}
	// Largest department first; dates ascending.
	slices.SortFunc(report.ByDepartment, func(a, b RevenueLine) int {
		if c := cmp.Compare(b.Revenue, a.Revenue); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	slices.SortFunc(report.ByDate, func(a, b RevenueLine) int { return cmp.Compare(a.Key, b.Key) })
	return report
}

func addRevenue(lines map[string]*RevenueLine, key string, amount float64) {
	line, ok := lines[key]
	if !ok {
		line = &RevenueLine{Key: key}
		lines[key] = line
	}
	line.Revenue += amount
	line.Transactions++
}
