package filter

import "county-revenue/internal/domain"

var Payments = Schema[domain.Payment]{
	Owner: func(p domain.Payment) string { return p.Citizen },
	SearchFields: []func(domain.Payment) string{
		func(p domain.Payment) string { return p.ID },
		func(p domain.Payment) string { return p.Citizen },
		func(p domain.Payment) string { return p.Department },
	},
	Categories: map[string]func(domain.Payment) string{
		"status":     func(p domain.Payment) string { return string(p.Status) },
		"department": func(p domain.Payment) string { return p.Department },
	},
}

var Licenses = Schema[domain.License]{
	Owner: func(l domain.License) string { return l.Applicant },
	SearchFields: []func(domain.License) string{
		func(l domain.License) string { return l.ID },
		func(l domain.License) string { return l.Applicant },
		func(l domain.License) string { return l.Type },
	},
	Categories: map[string]func(domain.License) string{
		"status": func(l domain.License) string { return string(l.Status) },
	},
}

var Citizens = Schema[domain.Citizen]{
	SearchFields: []func(domain.Citizen) string{
		func(c domain.Citizen) string { return c.Name },
		func(c domain.Citizen) string { return c.IDNumber },
		func(c domain.Citizen) string { return c.Phone },
	},
	Categories: map[string]func(domain.Citizen) string{
		"status": func(c domain.Citizen) string { return string(c.Status) },
	},
}

var Notifications = Schema[domain.Notification]{
	SearchFields: []func(domain.Notification) string{
		func(n domain.Notification) string { return n.Title },
		func(n domain.Notification) string { return n.Message },
	},
	Categories: map[string]func(domain.Notification) string{
		"type": func(n domain.Notification) string { return string(n.Type) },
	},
}

var Businesses = Schema[domain.Business]{
	SearchFields: []func(domain.Business) string{
		func(b domain.Business) string { return b.Name },
		func(b domain.Business) string { return b.Type },
	},
	Categories: map[string]func(domain.Business) string{
		"status": func(b domain.Business) string { return string(b.Status) },
	},
}
