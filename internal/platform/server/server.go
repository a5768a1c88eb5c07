// Package server assembles the HTTP application from configuration. Both
// the container entrypoint and the Lambda entrypoint start from Build.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	adaptermiddleware "county-revenue/internal/adapters/http/middleware"
	"county-revenue/internal/application"
	"county-revenue/internal/domain"
	"county-revenue/internal/infrastructure/auth"
	"county-revenue/internal/infrastructure/config"
	"county-revenue/internal/infrastructure/dynamodb"
	"county-revenue/internal/infrastructure/gateway"
	"county-revenue/internal/infrastructure/memory"
	"county-revenue/internal/infrastructure/metrics"
	infraredis "county-revenue/internal/infrastructure/redis"
	httpiface "county-revenue/internal/interfaces/http"
	"county-revenue/internal/ports"
	"county-revenue/internal/records"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	Echo    *echo.Echo
	closers []func() error
}

// Close releases external connections opened by Build.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

type stores struct {
	payments      ports.PaymentStore
	licenses      ports.LicenseStore
	citizens      ports.CitizenStore
	departments   ports.DepartmentStore
	notifications ports.NotificationStore
	businesses    ports.BusinessStore
}

// Replaced in tests.
var (
	connectRedis    = infraredis.Connect
	newDynamoClient = dynamodb.NewClient
)

// Build wires every component selected by cfg. Connections opened before a
// failure are closed again.
func Build(ctx context.Context, cfg *config.Config, logger ports.Logger) (*App, error) {
	app := &App{}
	built := false
	defer func() {
		if !built {
			_ = app.Close()
		}
	}()
	checks := map[string]httpiface.Check{}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	registry := application.MustLoadRegistry()

	st, err := buildStores(ctx, cfg, checks, logger)
	if err != nil {
		return nil, err
	}

	var sessionStore ports.SessionStore = memory.NewSessionStore()
	if cfg.UsesRedis() {
		client, err := connectRedis(ctx, infraredis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, client.Close)
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		sessionStore = infraredis.NewSessionStore(client)
	}

	var (
		sessions *application.SessionService
		resolver adaptermiddleware.SessionResolver
	)
	mode, err := adaptermiddleware.ParseAuthMode(cfg.Auth.Mode)
	if err != nil {
		return nil, err
	}
	switch mode {
	case adaptermiddleware.ModeCognito:
		resolver = adaptermiddleware.CognitoSessions{Verifier: auth.NewCognitoVerifier(cfg.Auth.CognitoUserPoolID, cfg.Store.Region)}
	default:
		idp, err := auth.NewStaticIdentityProvider(auth.DefaultAccounts(), 0)
		if err != nil {
			return nil, fmt.Errorf("identity provider: %w", err)
		}
		issuer, err := auth.NewJWTIssuer(cfg.Auth.JWTSecret)
		if err != nil {
			return nil, err
		}
		sessions = application.NewSessionService(idp, issuer, sessionStore, cfg.Session.TTL, m, logger)
		resolver = sessions
	}

	confirmations := application.NewConfirmations(cfg.Payments.ConfirmationTTL)
	payments := application.NewPaymentService(registry, st.payments, gateway.NewSimulated(cfg.Payments.GatewayLatency), m, logger)
	services := &application.Services{
		Sessions:      sessions,
		Payments:      payments,
		Licenses:      application.NewLicenseService(registry, st.licenses, m, logger),
		Citizens:      application.NewCitizenService(registry, st.citizens, m, logger),
		Departments:   application.NewDepartmentService(registry, st.departments, confirmations, m, logger),
		Notifications: application.NewNotificationService(registry, st.notifications, m, logger),
		Dashboard:     application.NewDashboardService(registry, st.payments, st.licenses, st.notifications),
		Reports:       application.NewReportService(registry, st.payments, logger),
		GIS:           application.NewGISService(registry, st.businesses),
		Channels:      application.NewChannelService(registry),
		Collection:    application.NewCollectionService(registry, payments, st.payments),
		Profile:       application.NewProfileService(registry),
		Confirmations: confirmations,
	}
	router, err := application.NewViewRouter(registry, services.ViewFactories(), m)
	if err != nil {
		return nil, err
	}

	authMiddleware, err := adaptermiddleware.AuthMiddleware(resolver)
	if err != nil {
		return nil, err
	}

	app.Echo = httpiface.NewMainRouter(httpiface.Handlers{
		Auth:          httpiface.NewAuthHandler(sessions, resolver, registry, logger),
		Views:         httpiface.NewViewsHandler(router, logger),
		Payments:      httpiface.NewPaymentsHandler(services.Payments, logger),
		Licenses:      httpiface.NewLicensesHandler(services.Licenses, logger),
		Citizens:      httpiface.NewCitizensHandler(services.Citizens, logger),
		Departments:   httpiface.NewDepartmentsHandler(services.Departments, logger),
		Confirmations: httpiface.NewConfirmationsHandler(confirmations, logger),
		Notifications: httpiface.NewNotificationsHandler(services.Notifications, logger),
		Reports:       httpiface.NewReportsHandler(services.Reports, logger),
		Field:         httpiface.NewFieldHandler(services.GIS, services.Channels, services.Collection, logger),
		Settings:      httpiface.NewSettingsHandler(services.Profile, logger),
		Health:        httpiface.NewHealthHandler(checks),
	}, httpiface.Middleware{
		Auth:          authMiddleware,
		XRay:          adaptermiddleware.XRayMiddleware("county-revenue"),
		RequestLogger: adaptermiddleware.RequestLogger(logger),
		ForView: func(view domain.ViewID) echo.MiddlewareFunc {
			return adaptermiddleware.RequireView(registry, view)
		},
	}, &httpiface.Metrics{Registerer: reg, Gatherer: reg}, logger)

	logger.Info(ctx, "application wired",
		"auth_mode", string(mode),
		"store_backend", cfg.Store.Backend,
		"session_backend", cfg.Session.Backend,
	)
	built = true
	return app, nil
}

func buildStores(ctx context.Context, cfg *config.Config, checks map[string]httpiface.Check, logger ports.Logger) (stores, error) {
	if cfg.Store.Backend != config.BackendDynamoDB {
		mem := memory.NewSeededStores(time.Now())
		return stores{
			payments:      mem.Payments,
			licenses:      mem.Licenses,
			citizens:      mem.Citizens,
			departments:   mem.Departments,
			notifications: mem.Notifications,
			businesses:    mem.Businesses,
		}, nil
	}

	client, err := newDynamoClient(ctx, cfg.Store.Region, cfg.Store.TableName)
	if err != nil {
		return stores{}, fmt.Errorf("dynamodb client: %w", err)
	}
	checks["dynamodb"] = client.Ping
	return seededDynamoStores(ctx, client, time.Now(), logger)
}

func seededDynamoStores(ctx context.Context, client *dynamodb.Client, now time.Time, logger ports.Logger) (stores, error) {
	payments := dynamodb.NewRecordRepository[domain.Payment](client, "payments", records.NewTimestampIDs("PAY-"))
	licenses := dynamodb.NewRecordRepository[domain.License](client, "licenses", records.NewTimestampIDs("LIC-"))
	citizens := dynamodb.NewRecordRepository[domain.Citizen](client, "citizens", records.NewTimestampIDs("CIT-"))
	departments := dynamodb.NewRecordRepository[domain.Department](client, "departments", records.NewTimestampIDs("dept-"))
	notifications := dynamodb.NewRecordRepository[domain.Notification](client, "notifications", records.NewTimestampIDs("NTF-"))
	businesses := dynamodb.NewRecordRepository[domain.Business](client, "businesses", records.NewTimestampIDs("BIZ-"))

	err := errors.Join(
		seedIfEmpty(ctx, logger, "payments", payments, memory.SeedPayments()),
		seedIfEmpty(ctx, logger, "licenses", licenses, memory.SeedLicenses()),
		seedIfEmpty(ctx, logger, "citizens", citizens, memory.SeedCitizens()),
		seedIfEmpty(ctx, logger, "departments", departments, memory.SeedDepartments()),
		seedIfEmpty(ctx, logger, "notifications", notifications, memory.SeedNotifications(now)),
		seedIfEmpty(ctx, logger, "businesses", businesses, memory.SeedBusinesses()),
	)
	if err != nil {
		return stores{}, err
	}
	return stores{
		payments:      payments,
		licenses:      licenses,
		citizens:      citizens,
		departments:   departments,
		notifications: notifications,
		businesses:    businesses,
	}, nil
}

type seedable[T any] interface {
	List(ctx context.Context) ([]T, error)
	Insert(ctx context.Context, rec T) error
}

// seedIfEmpty loads the demo records into a collection that has none.
func seedIfEmpty[T any](ctx context.Context, logger ports.Logger, collection string, repo seedable[T], seed []T) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("seed %s: %w", collection, err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, rec := range seed {
		if err := repo.Insert(ctx, rec); err != nil && !errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("seed %s: %w", collection, err)
		}
	}
	logger.Info(ctx, "seeded collection", "collection", collection, "records", len(seed))
	return nil
}
