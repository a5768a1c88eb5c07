package http

import (
	"county-revenue/internal/domain"
	"county-revenue/internal/ports"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type Middleware struct {
	Auth          echo.MiddlewareFunc
	XRay          echo.MiddlewareFunc
	RequestLogger echo.MiddlewareFunc
	// ForView guards a route group by view visibility. Optional.
	ForView func(view domain.ViewID) echo.MiddlewareFunc
}

// Handlers groups every HTTP handler. The /auth routes are only mounted
// when the auth handler issues its own sessions.
type Handlers struct {
	Auth          *AuthHandler
	Views         *ViewsHandler
	Payments      *PaymentsHandler
	Licenses      *LicensesHandler
	Citizens      *CitizensHandler
	Departments   *DepartmentsHandler
	Confirmations *ConfirmationsHandler
	Notifications *NotificationsHandler
	Reports       *ReportsHandler
	Field         *FieldHandler
	Settings      *SettingsHandler
	Health        *HealthHandler
}

// Metrics wires Prometheus HTTP instrumentation and the /metrics endpoint.
type Metrics struct {
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

func newEcho(m Middleware, metrics *Metrics, logger ports.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(logger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if m.XRay != nil {
		e.Use(m.XRay)
	}
	if metrics != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "erevenue",
			Registerer: metrics.Registerer,
		}))
	}
	if m.RequestLogger != nil {
		e.Use(m.RequestLogger)
	}
	return e
}

func NewMainRouter(h Handlers, m Middleware, metrics *Metrics, logger ports.Logger) *echo.Echo {
	e := newEcho(m, metrics, logger)

	if h.Health != nil {
		e.GET("/health", h.Health.Live)
		e.GET("/health/ready", h.Health.Ready)
	}
	if metrics != nil {
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: metrics.Gatherer}))
	}
	if h.Auth.LoginEnabled() {
		e.POST("/auth/login", h.Auth.Login)
		e.POST("/auth/logout", h.Auth.Logout)
	}

	api := e.Group("")
	if m.Auth != nil {
		api.Use(m.Auth)
	}
	guard := func(view domain.ViewID) []echo.MiddlewareFunc {
		if m.ForView == nil {
			return nil
		}
		return []echo.MiddlewareFunc{m.ForView(view)}
	}

	api.GET("/me", h.Auth.Me)
	api.GET("/navigation", h.Auth.Navigation)
	api.GET("/views/:id", h.Views.Get)

	payments := api.Group("/payments", guard(domain.ViewPayments)...)
	payments.GET("", h.Payments.List)
	payments.POST("", h.Payments.Create)
	payments.GET("/export", h.Payments.Export)

	licenses := api.Group("/licenses", guard(domain.ViewLicenses)...)
	licenses.GET("", h.Licenses.List)
	licenses.POST("", h.Licenses.Apply)
	licenses.PUT("/:id/review", h.Licenses.Review)

	citizens := api.Group("/citizens", guard(domain.ViewCitizens)...)
	citizens.GET("", h.Citizens.List)
	citizens.POST("", h.Citizens.Register)

	departments := api.Group("/departments", guard(domain.ViewDepartments)...)
	departments.GET("", h.Departments.List)
	departments.POST("", h.Departments.Create)
	departments.POST("/:id/delete", h.Departments.Delete)

	api.POST("/confirmations/:id", h.Confirmations.Resolve)

	notifications := api.Group("/notifications", guard(domain.ViewNotifications)...)
	notifications.GET("", h.Notifications.List)
	notifications.GET("/unread", h.Notifications.Unread)
	notifications.POST("/read-all", h.Notifications.MarkAllRead)
	notifications.POST("/:id/read", h.Notifications.MarkRead)

	reports := api.Group("/reports", guard(domain.ViewReports)...)
	reports.GET("", h.Reports.Revenue)
	reports.GET("/export", h.Reports.Export)

	api.GET("/gis", h.Field.Map, guard(domain.ViewGIS)...)
	api.GET("/channels", h.Field.Channels, guard(domain.ViewChannels)...)

	collection := api.Group("/collection", guard(domain.ViewCollection)...)
	collection.GET("", h.Field.Collection)
	collection.GET("/lookup", h.Field.Lookup)
	collection.POST("/collect", h.Field.Collect)

	settings := api.Group("/settings", guard(domain.ViewSettings)...)
	settings.GET("", h.Settings.Get)
	settings.PUT("/preferences", h.Settings.UpdatePreferences)

	return e
}
