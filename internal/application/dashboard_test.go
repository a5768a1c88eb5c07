package application

import (
	"context"
	"testing"

	"county-revenue/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDashboardService() *DashboardService {
	payments := new(storeMock[domain.Payment])
	payments.On("List", mock.Anything).Return(samplePayments(), nil)
	licenses := new(storeMock[domain.License])
	licenses.On("List", mock.Anything).Return(sampleLicenses(), nil)
	notes := new(storeMock[domain.Notification])
	notes.On("List", mock.Anything).Return(sampleNotifications(), nil)
	return NewDashboardService(MustLoadRegistry(), payments, licenses, notes)
}

func TestDashboard_CitizenSeesOwnFigures(t *testing.T) {
	d, err := newDashboardService().Summary(context.Background(), citizen)
	require.NoError(t, err)
	assert.Equal(t, "My Dashboard", d.Title)
	assert.Equal(t, "Pay Now", d.PaymentAction)
	assert.False(t, d.CanExport)
	require.NotNil(t, d.Payments)
	assert.Equal(t, 450.0, d.Payments.TotalCollected)
	assert.Equal(t, 2, d.Payments.Transactions)
	require.NotNil(t, d.Licenses)
	assert.Equal(t, LicenseCounts{Pending: 1, Approved: 1}, *d.Licenses)
	assert.Equal(t, 2, d.Unread)
}

func TestDashboard_AdminOverview(t *testing.T) {
	d, err := newDashboardService().Summary(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, "Overview Dashboard", d.Title)
	assert.Equal(t, "New Payment", d.PaymentAction)
	assert.True(t, d.CanExport)
	assert.Equal(t, 1700.0, d.Payments.TotalCollected)
	assert.Equal(t, 1, d.Payments.Pending)
	assert.Equal(t, 1, d.Payments.Failed)
	assert.Len(t, d.Payments.Recent, 5)
}

func TestDashboard_CollectorHasNoPaymentSection(t *testing.T) {
	d, err := newDashboardService().Summary(context.Background(), collector)
	require.NoError(t, err)
	assert.Equal(t, "Field Dashboard", d.Title)
	assert.Nil(t, d.Payments)
	assert.Nil(t, d.Licenses)
	assert.Empty(t, d.PaymentAction)
}

func TestDashboard_AuditorCannotPay(t *testing.T) {
	d, err := newDashboardService().Summary(context.Background(), auditor)
	require.NoError(t, err)
	assert.NotNil(t, d.Payments)
	assert.Empty(t, d.PaymentAction)
	assert.True(t, d.CanExport)
}
