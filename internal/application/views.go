package application

import (
	"context"

	"county-revenue/internal/domain"
	"county-revenue/internal/filter"
)

// Services bundles the view backends.
type Services struct {
	Sessions      *SessionService
	Payments      *PaymentService
	Licenses      *LicenseService
	Citizens      *CitizenService
	Departments   *DepartmentService
	Notifications *NotificationService
	Dashboard     *DashboardService
	Reports       *ReportService
	GIS           *GISService
	Channels      *ChannelService
	Collection    *CollectionService
	Profile       *ProfileService
	Confirmations *Confirmations
}

// ViewFactories returns one handler factory per registered view.
func (s *Services) ViewFactories() map[domain.ViewID]ViewFactory {
	handler := func(load ViewHandlerFunc) ViewFactory {
		return func() ViewHandler { return load }
	}
	return map[domain.ViewID]ViewFactory{
		domain.ViewDashboard: handler(func(ctx context.Context, user domain.User, _ filter.Query) (any, error) {
			return s.Dashboard.Summary(ctx, user)
		}),
		domain.ViewPayments: handler(func(ctx context.Context, user domain.User, q filter.Query) (any, error) {
			return s.Payments.List(ctx, user, q)
		}),
		domain.ViewCollection: handler(func(_ context.Context, user domain.User, _ filter.Query) (any, error) {
			return s.Collection.Overview(user)
		}),
		domain.ViewLicenses: handler(func(ctx context.Context, user domain.User, q filter.Query) (any, error) {
			return s.Licenses.List(ctx, user, q)
		}),
		domain.ViewReports: handler(func(ctx context.Context, user domain.User, _ filter.Query) (any, error) {
			return s.Reports.Revenue(ctx, user)
		}),
		domain.ViewCitizens: handler(func(ctx context.Context, user domain.User, q filter.Query) (any, error) {
			return s.Citizens.List(ctx, user, q)
		}),
		domain.ViewDepartments: handler(func(ctx context.Context, user domain.User, _ filter.Query) (any, error) {
			return s.Departments.List(ctx, user)
		}),
		domain.ViewGIS: handler(func(ctx context.Context, user domain.User, q filter.Query) (any, error) {
			return s.GIS.Markers(ctx, user, q)
		}),
		domain.ViewChannels: handler(func(_ context.Context, user domain.User, _ filter.Query) (any, error) {
			return s.Channels.List(user)
		}),
		domain.ViewNotifications: handler(func(ctx context.Context, user domain.User, q filter.Query) (any, error) {
			return s.Notifications.List(ctx, user, q)
		}),
		domain.ViewSettings: handler(func(_ context.Context, user domain.User, _ filter.Query) (any, error) {
			return s.Profile.Get(user)
		}),
	}
}
