package http

import (
	"bytes"
	"errors"
	stdhttp "net/http"
	"strings"

	"county-revenue/internal/adapters/http/middleware"
	"county-revenue/internal/application"
	"county-revenue/internal/domain"
	"county-revenue/internal/filter"
	"county-revenue/internal/ports"
	"github.com/labstack/echo/v4"
)

func invalidPayload(c echo.Context) error {
	return c.JSON(stdhttp.StatusBadRequest, errorBody{Error: "invalid payload"})
}

// currentUser is only reached behind the auth middleware.
func currentUser(c echo.Context) (domain.User, error) {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return domain.User{}, domain.ErrUnauthenticated
	}
	return user, nil
}

// queryFor reads the search text and the categorical selections a schema
// defines. Other query parameters are ignored.
func queryFor[T any](c echo.Context, schema filter.Schema[T]) filter.Query {
	q := filter.Query{Search: c.QueryParam("search")}
	for _, name := range schema.CategoryNames() {
		if v := c.QueryParam(name); v != "" {
			if q.Categories == nil {
				q.Categories = map[string]string{}
			}
			q.Categories[name] = v
		}
	}
	return q
}

func viewQuery(c echo.Context, view domain.ViewID) filter.Query {
	switch view {
	case domain.ViewPayments:
		return queryFor(c, filter.Payments)
	case domain.ViewLicenses:
		return queryFor(c, filter.Licenses)
	case domain.ViewCitizens:
		return queryFor(c, filter.Citizens)
	case domain.ViewNotifications:
		return queryFor(c, filter.Notifications)
	case domain.ViewGIS:
		return queryFor(c, filter.Businesses)
	default:
		return filter.Query{Search: c.QueryParam("search")}
	}
}

func sendCSV(c echo.Context, filename string, buf *bytes.Buffer) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(stdhttp.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

type AuthHandler struct {
	sessions *application.SessionService
	resolver middleware.SessionResolver
	registry *application.Registry
	logger   ports.Logger
}

func NewAuthHandler(sessions *application.SessionService, resolver middleware.SessionResolver, registry *application.Registry, logger ports.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, resolver: resolver, registry: registry, logger: logger}
}

// LoginEnabled is false when tokens come from an external identity
// provider.
func (h *AuthHandler) LoginEnabled() bool { return h.sessions != nil }

type loginResponse struct {
	Token      string                  `json:"token"`
	User       domain.User             `json:"user"`
	Navigation []domain.ViewDescriptor `json:"navigation"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var creds domain.Credentials
	if err := c.Bind(&creds); err != nil {
		return invalidPayload(c)
	}
	token, session, err := h.sessions.Login(c.Request().Context(), creds)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	user, _ := session.CurrentUser()
	nav, err := h.registry.Navigation(user.Role)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, loginResponse{Token: token, User: user, Navigation: nav})
}

// Logout revokes the presented token. Missing, unknown or already revoked
// tokens still get 204.
func (h *AuthHandler) Logout(c echo.Context) error {
	token, ok := middleware.BearerToken(c)
	if !ok {
		return c.NoContent(stdhttp.StatusNoContent)
	}
	session, err := h.resolver.Restore(c.Request().Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return c.NoContent(stdhttp.StatusNoContent)
		}
		return handleError(c, h.logger, err)
	}
	if err := h.sessions.Logout(c.Request().Context(), session); err != nil {
		return handleError(c, h.logger, err)
	}
	return c.NoContent(stdhttp.StatusNoContent)
}

func (h *AuthHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, user)
}

func (h *AuthHandler) Navigation(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	nav, err := h.registry.Navigation(user.Role)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, nav)
}

type ViewsHandler struct {
	router *application.ViewRouter
	logger ports.Logger
}

func NewViewsHandler(router *application.ViewRouter, logger ports.Logger) *ViewsHandler {
	return &ViewsHandler{router: router, logger: logger}
}

type viewResponse struct {
	View  application.ViewHandle `json:"view"`
	Model any                    `json:"model"`
}

// Get resolves a view for the session role. Disallowed or unknown views
// render the dashboard instead of failing.
func (h *ViewsHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	handle, err := h.router.Resolve(c.Param("id"), user.Role)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	q := filter.Query{}
	if !handle.Redirected {
		q = viewQuery(c, handle.ID)
	}
	model, err := handle.Handler.Load(c.Request().Context(), user, q)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	if handle.Redirected {
		h.logger.Info(c.Request().Context(), "view redirected to dashboard", "requested", handle.Requested)
	}
	return c.JSON(stdhttp.StatusOK, viewResponse{View: handle, Model: model})
}

type PaymentsHandler struct {
	service *application.PaymentService
	logger  ports.Logger
}

func NewPaymentsHandler(service *application.PaymentService, logger ports.Logger) *PaymentsHandler {
	return &PaymentsHandler{service: service, logger: logger}
}

func (h *PaymentsHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	res, err := h.service.List(c.Request().Context(), user, queryFor(c, filter.Payments))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, res)
}

func (h *PaymentsHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	var req application.MakePaymentInput
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	if err := c.Validate(&req); err != nil {
		return handleError(c, h.logger, err)
	}
	payment, err := h.service.Make(c.Request().Context(), user, req)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusCreated, payment)
}

func (h *PaymentsHandler) Export(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	var buf bytes.Buffer
	if err := h.service.ExportCSV(c.Request().Context(), user, queryFor(c, filter.Payments), &buf); err != nil {
		return handleError(c, h.logger, err)
	}
	return sendCSV(c, "payments.csv", &buf)
}

type LicensesHandler struct {
	service *application.LicenseService
	logger  ports.Logger
}

func NewLicensesHandler(service *application.LicenseService, logger ports.Logger) *LicensesHandler {
	return &LicensesHandler{service: service, logger: logger}
}

func (h *LicensesHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	res, err := h.service.List(c.Request().Context(), user, queryFor(c, filter.Licenses))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, res)
}

func (h *LicensesHandler) Apply(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	var req application.ApplyLicenseInput
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	if err := c.Validate(&req); err != nil {
		return handleError(c, h.logger, err)
	}
	license, err := h.service.Apply(c.Request().Context(), user, req)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusCreated, license)
}

func (h *LicensesHandler) Review(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	var req application.ReviewLicenseInput
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	if err := c.Validate(&req); err != nil {
		return handleError(c, h.logger, err)
	}
	license, err := h.service.Review(c.Request().Context(), user, c.Param("id"), req)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, license)
}

type CitizensHandler struct {
	service *application.CitizenService
	logger  ports.Logger
}

func NewCitizensHandler(service *application.CitizenService, logger ports.Logger) *CitizensHandler {
	return &CitizensHandler{service: service, logger: logger}
}

func (h *CitizensHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	res, err := h.service.List(c.Request().Context(), user, queryFor(c, filter.Citizens))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, res)
}

func (h *CitizensHandler) Register(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	var req application.RegisterCitizenInput
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	if err := c.Validate(&req); err != nil {
		return handleError(c, h.logger, err)
	}
	citizen, err := h.service.Register(c.Request().Context(), user, req)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusCreated, citizen)
}

type DepartmentsHandler struct {
	service *application.DepartmentService
	logger  ports.Logger
}

func NewDepartmentsHandler(service *application.DepartmentService, logger ports.Logger) *DepartmentsHandler {
	return &DepartmentsHandler{service: service, logger: logger}
}

func (h *DepartmentsHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	depts, err := h.service.List(c.Request().Context(), user)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, depts)
}

func (h *DepartmentsHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	var req application.CreateDepartmentInput
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	if err := c.Validate(&req); err != nil {
		return handleError(c, h.logger, err)
	}
	dept, err := h.service.Create(c.Request().Context(), user, req)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusCreated, dept)
}

// Delete only proposes the removal; the client settles it through
// POST /confirmations/:id.
func (h *DepartmentsHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	confirmation, err := h.service.ProposeDelete(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusAccepted, confirmation)
}

type ConfirmationsHandler struct {
	confirmations *application.Confirmations
	logger        ports.Logger
}

func NewConfirmationsHandler(confirmations *application.Confirmations, logger ports.Logger) *ConfirmationsHandler {
	return &ConfirmationsHandler{confirmations: confirmations, logger: logger}
}

type confirmRequest struct {
	Confirm *bool `json:"confirm"`
}

func (h *ConfirmationsHandler) Resolve(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	var req confirmRequest
	if err := c.Bind(&req); err != nil || req.Confirm == nil {
		return invalidPayload(c)
	}
	err = h.confirmations.Resolve(c.Request().Context(), user, c.Param("id"), *req.Confirm)
	switch {
	case errors.Is(err, domain.ErrDeclined):
		return c.JSON(stdhttp.StatusOK, map[string]bool{"confirmed": false})
	case err != nil:
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, map[string]bool{"confirmed": true})
}

type NotificationsHandler struct {
	service *application.NotificationService
	logger  ports.Logger
}

func NewNotificationsHandler(service *application.NotificationService, logger ports.Logger) *NotificationsHandler {
	return &NotificationsHandler{service: service, logger: logger}
}

func (h *NotificationsHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	res, err := h.service.List(c.Request().Context(), user, queryFor(c, filter.Notifications))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, res)
}

func (h *NotificationsHandler) Unread(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	n, err := h.service.Unread(c.Request().Context(), user)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, map[string]int{"unread": n})
}

func (h *NotificationsHandler) MarkRead(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	n, err := h.service.MarkRead(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, n)
}

func (h *NotificationsHandler) MarkAllRead(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	n, err := h.service.MarkAllRead(c.Request().Context(), user)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, map[string]int{"updated": n})
}

type ReportsHandler struct {
	service *application.ReportService
	logger  ports.Logger
}

func NewReportsHandler(service *application.ReportService, logger ports.Logger) *ReportsHandler {
	return &ReportsHandler{service: service, logger: logger}
}

func (h *ReportsHandler) Revenue(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	report, err := h.service.Revenue(c.Request().Context(), user)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, report)
}

func (h *ReportsHandler) Export(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	var buf bytes.Buffer
	if err := h.service.ExportCSV(c.Request().Context(), user, &buf); err != nil {
		return handleError(c, h.logger, err)
	}
	return sendCSV(c, "revenue.csv", &buf)
}

// FieldHandler serves the GIS map, payment channels and field collection.
type FieldHandler struct {
	gis        *application.GISService
	channels   *application.ChannelService
	collection *application.CollectionService
	logger     ports.Logger
}

func NewFieldHandler(gis *application.GISService, channels *application.ChannelService, collection *application.CollectionService, logger ports.Logger) *FieldHandler {
	return &FieldHandler{gis: gis, channels: channels, collection: collection, logger: logger}
}

func (h *FieldHandler) Map(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	res, err := h.gis.Markers(c.Request().Context(), user, queryFor(c, filter.Businesses))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, res)
}

func (h *FieldHandler) Channels(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	channels, err := h.channels.List(user)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, channels)
}

func (h *FieldHandler) Collection(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	overview, err := h.collection.Overview(user)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, overview)
}

func (h *FieldHandler) Lookup(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	res, err := h.collection.Lookup(c.Request().Context(), user, strings.TrimSpace(c.QueryParam("reference")))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, res)
}

func (h *FieldHandler) Collect(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	var req application.CollectInput
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	if err := c.Validate(&req); err != nil {
		return handleError(c, h.logger, err)
	}
	payment, err := h.collection.Collect(c.Request().Context(), user, req)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusCreated, payment)
}

type SettingsHandler struct {
	service *application.ProfileService
	logger  ports.Logger
}

func NewSettingsHandler(service *application.ProfileService, logger ports.Logger) *SettingsHandler {
	return &SettingsHandler{service: service, logger: logger}
}

func (h *SettingsHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	profile, err := h.service.Get(user)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, profile)
}

func (h *SettingsHandler) UpdatePreferences(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	var prefs application.Preferences
	if err := c.Bind(&prefs); err != nil {
		return invalidPayload(c)
	}
	profile, err := h.service.UpdatePreferences(user, prefs)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, profile)
}
