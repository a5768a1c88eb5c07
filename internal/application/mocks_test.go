package application

import (
	"context"
	"time"

	"county-revenue/internal/domain"
	"county-revenue/internal/ports"
	"github.com/stretchr/testify/mock"
)

type storeMock[T any] struct{ mock.Mock }

func (m *storeMock[T]) List(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	return args.Get(0).([]T), args.Error(1)
}

func (m *storeMock[T]) Create(ctx context.Context, record T) (T, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(T), args.Error(1)
}

// Update returns the stored record with patch applied.
func (m *storeMock[T]) Update(ctx context.Context, id string, patch func(T) T) (T, error) {
	args := m.Called(ctx, id)
	if err := args.Error(1); err != nil {
		var zero T
		return zero, err
	}
	return patch(args.Get(0).(T)), nil
}

func (m *storeMock[T]) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type idpMock struct{ mock.Mock }

func (m *idpMock) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(domain.User), args.Error(1)
}

type sessionStoreMock struct{ mock.Mock }

func (m *sessionStoreMock) Save(ctx context.Context, tokenID string, user domain.User, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, user, ttl)
	return args.Error(0)
}

func (m *sessionStoreMock) Load(ctx context.Context, tokenID string) (domain.User, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *sessionStoreMock) Delete(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

type tokenIssuerMock struct{ mock.Mock }

func (m *tokenIssuerMock) Issue(claims ports.TokenClaims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}

func (m *tokenIssuerMock) Parse(token string) (ports.TokenClaims, error) {
	args := m.Called(token)
	return args.Get(0).(ports.TokenClaims), args.Error(1)
}

type gatewayMock struct{ mock.Mock }

func (m *gatewayMock) Submit(ctx context.Context, req ports.PaymentRequest) (ports.PaymentReceipt, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.PaymentReceipt), args.Error(1)
}

type metricsMock struct{ mock.Mock }

func (m *metricsMock) Login(result string)                       { m.Called(result) }
func (m *metricsMock) Mutation(collection, op string)            { m.Called(collection, op) }
func (m *metricsMock) ViewResolved(view string, redirected bool) { m.Called(view, redirected) }
func (m *metricsMock) ListResult(collection string, size int)    { m.Called(collection, size) }

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Debug(context.Context, string, ...any) {}

var (
	admin     = domain.User{Username: "admin", Name: "System Admin", Role: domain.RoleSuperAdmin}
	manager   = domain.User{Username: "manager", Name: "Revenue Manager", Role: domain.RoleRevenueManager}
	collector = domain.User{Username: "collector", Name: "Field Officer", Role: domain.RoleRevenueCollector}
	licensing = domain.User{Username: "licensing", Name: "Licensing Officer", Role: domain.RoleLicensingOfficer}
	auditor   = domain.User{Username: "auditor", Name: "Compliance Officer", Role: domain.RoleAuditor}
	citizen   = domain.User{Username: "citizen", Name: "John Doe", Role: domain.RoleCitizen}
)

func fixedClock() time.Time {
	return time.Date(2023, 10, 26, 9, 30, 0, 0, time.UTC)
}

func samplePayments() []domain.Payment {
	return []domain.Payment{
		{ID: "PAY-1029", Citizen: "John Doe", Amount: 150, Date: "2023-10-25", Department: "Lands", Status: domain.PaymentCompleted},
		{ID: "PAY-1030", Citizen: "Jane Smith", Amount: 45.5, Date: "2023-10-25", Department: "Markets", Status: domain.PaymentPending},
		{ID: "PAY-1031", Citizen: "Acme Corp", Amount: 1250, Date: "2023-10-24", Department: "Trade", Status: domain.PaymentCompleted},
		{ID: "PAY-1032", Citizen: "Michael Johnson", Amount: 25, Date: "2023-10-24", Department: "Transport", Status: domain.PaymentFailed, Reference: "KDA 123X"},
		{ID: "PAY-1033", Citizen: "John Doe", Amount: 300, Date: "2023-10-23", Department: "Lands", Status: domain.PaymentCompleted},
	}
}

func sampleLicenses() []domain.License {
	return []domain.License{
		{ID: "LIC-2023-001", Type: "Single Business Permit", Applicant: "Acme Corp", Status: domain.LicenseApproved},
		{ID: "LIC-2023-002", Type: "Liquor License", Applicant: "The Local Pub", Status: domain.LicensePending},
		{ID: "LIC-2023-003", Type: "Health Certificate", Applicant: "Fresh Foods Ltd", Status: domain.LicenseRejected, Feedback: "Missing certificates."},
		{ID: "LIC-2023-005", Type: "Building Permit", Applicant: "John Doe", Status: domain.LicenseApproved},
		{ID: "LIC-2023-006", Type: "Market Stall Allocation", Applicant: "John Doe", Status: domain.LicensePending},
	}
}

func sampleNotifications() []domain.Notification {
	return []domain.Notification{
		{ID: "1", Title: "Payment Received", Message: "Payment of Ksh 150.00 processed.", Type: domain.NotificationSuccess},
		{ID: "2", Title: "License Approved", Message: "Your permit was approved.", Type: domain.NotificationSuccess},
		{ID: "3", Title: "System Maintenance", Message: "Scheduled maintenance tonight.", Type: domain.NotificationInfo, Read: true},
		{ID: "4", Title: "Payment Failed", Message: "Parking Fee payment failed.", Type: domain.NotificationError, Read: true},
	}
}
