package domain

import "fmt"

type Role string

const (
	RoleSuperAdmin       Role = "super_admin"
	RoleRevenueManager   Role = "revenue_manager"
	RoleRevenueCollector Role = "revenue_collector"
	RoleLicensingOfficer Role = "licensing_officer"
	RoleAuditor          Role = "auditor"
	RoleCitizen          Role = "citizen"
)

// Roles lists every role in declaration order.
var Roles = []Role{
	RoleSuperAdmin,
	RoleRevenueManager,
	RoleRevenueCollector,
	RoleLicensingOfficer,
	RoleAuditor,
	RoleCitizen,
}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole maps a raw role name onto the closed role set.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
	return role, nil
}

// User is the authenticated principal of a session. Name is the display
// name that owner-scoped records are matched against.
type User struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
}

type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ViewID string

const (
	ViewDashboard     ViewID = "dashboard"
	ViewPayments      ViewID = "payments"
	ViewCollection    ViewID = "collection"
	ViewLicenses      ViewID = "licenses"
	ViewReports       ViewID = "reports"
	ViewCitizens      ViewID = "citizens"
	ViewDepartments   ViewID = "departments"
	ViewGIS           ViewID = "gis"
	ViewChannels      ViewID = "channels"
	ViewNotifications ViewID = "notifications"
	ViewSettings      ViewID = "settings"
)

// Actions within views.
const (
	ActionViewAll       = "view_all"
	ActionExportCSV     = "export_csv"
	ActionMakePayment   = "make_payment"
	ActionApply         = "apply"
	ActionReview        = "review"
	ActionDownload      = "download"
	ActionRegister      = "register"
	ActionCreate        = "create"
	ActionDelete        = "delete"
	ActionMarkRead      = "mark_read"
	ActionCollect       = "collect"
	ActionExport        = "export"
	ActionUpdateProfile = "update_profile"
)

// ViewDescriptor pairs a view with the roles allowed to reach it and the
// roles allowed to perform each action inside it.
type ViewDescriptor struct {
	ID        ViewID            `json:"id"`
	Label     string            `json:"label"`
	Roles     []Role            `json:"roles"`
	Navigable bool              `json:"navigable"`
	Actions   map[string][]Role `json:"actions,omitempty"`
}

func (v ViewDescriptor) Allows(role Role) bool {
	for _, r := range v.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (v ViewDescriptor) Permits(role Role, action string) bool {
	for _, r := range v.Actions[action] {
		if r == role {
			return true
		}
	}
	return false
}
