package domain

import "time"

type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "Completed"
	PaymentPending   PaymentStatus = "Pending"
	PaymentFailed    PaymentStatus = "Failed"
)

type Payment struct {
	ID         string        `json:"id" dynamodbav:"ID"`
	Citizen    string        `json:"citizen" dynamodbav:"Citizen"`
	Amount     float64       `json:"amount" dynamodbav:"Amount"`
	Date       string        `json:"date" dynamodbav:"Date"`
	Department string        `json:"department" dynamodbav:"Department"`
	Type       string        `json:"type,omitempty" dynamodbav:"Type"`
	Status     PaymentStatus `json:"status" dynamodbav:"Status"`
	Reference  string        `json:"reference,omitempty" dynamodbav:"Reference"`
}

func (p Payment) RecordID() string { return p.ID }

func (p Payment) WithID(id string) Payment {
	p.ID = id
	return p
}

type LicenseStatus string

const (
	LicensePending  LicenseStatus = "Pending"
	LicenseApproved LicenseStatus = "Approved"
	LicenseRejected LicenseStatus = "Rejected"
)

func (s LicenseStatus) Valid() bool {
	switch s {
	case LicensePending, LicenseApproved, LicenseRejected:
		return true
	}
	return false
}

type License struct {
	ID        string        `json:"id" dynamodbav:"ID"`
	Type      string        `json:"type" dynamodbav:"Type"`
	Applicant string        `json:"applicant" dynamodbav:"Applicant"`
	Status    LicenseStatus `json:"status" dynamodbav:"Status"`
	Date      string        `json:"date" dynamodbav:"Date"`
	Feedback  string        `json:"feedback" dynamodbav:"Feedback"`
}

func (l License) RecordID() string { return l.ID }

func (l License) WithID(id string) License {
	l.ID = id
	return l
}

type CitizenStatus string

const (
	CitizenActive   CitizenStatus = "Active"
	CitizenInactive CitizenStatus = "Inactive"
)

type Citizen struct {
	ID         string        `json:"id" dynamodbav:"ID"`
	Name       string        `json:"name" dynamodbav:"Name"`
	IDNumber   string        `json:"id_number" dynamodbav:"IDNumber"`
	Phone      string        `json:"phone" dynamodbav:"Phone"`
	Email      string        `json:"email,omitempty" dynamodbav:"Email"`
	Registered string        `json:"registered" dynamodbav:"Registered"`
	Status     CitizenStatus `json:"status" dynamodbav:"Status"`
}

func (c Citizen) RecordID() string { return c.ID }

func (c Citizen) WithID(id string) Citizen {
	c.ID = id
	return c
}

type Department struct {
	ID           string  `json:"id" dynamodbav:"ID"`
	Name         string  `json:"name" dynamodbav:"Name"`
	Target       float64 `json:"target" dynamodbav:"Target"`
	Collected    float64 `json:"collected" dynamodbav:"Collected"`
	Transactions int     `json:"transactions" dynamodbav:"Transactions"`
	Icon         string  `json:"icon" dynamodbav:"Icon"`
}

func (d Department) RecordID() string { return d.ID }

func (d Department) WithID(id string) Department {
	d.ID = id
	return d
}

// Progress is the collected share of the target as a percentage, capped at
// 100. A zero target counts as one.
func (d Department) Progress() float64 {
	target := d.Target
	if target == 0 {
		target = 1
	}
	return min(100, d.Collected/target*100)
}

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

type Notification struct {
	ID        string           `json:"id" dynamodbav:"ID"`
	Title     string           `json:"title" dynamodbav:"Title"`
	Message   string           `json:"message" dynamodbav:"Message"`
	CreatedAt time.Time        `json:"created_at" dynamodbav:"CreatedAt"`
	Read      bool             `json:"read" dynamodbav:"Read"`
	Type      NotificationType `json:"type" dynamodbav:"Type"`
}

func (n Notification) RecordID() string { return n.ID }

func (n Notification) WithID(id string) Notification {
	n.ID = id
	return n
}

type ComplianceStatus string

const (
	Compliant ComplianceStatus = "compliant"
	Pending   ComplianceStatus = "pending"
	Defaulter ComplianceStatus = "defaulter"
)

// Business is a mapped trading premise shown on the GIS view.
type Business struct {
	ID        string           `json:"id" dynamodbav:"ID"`
	Name      string           `json:"name" dynamodbav:"Name"`
	Type      string           `json:"type" dynamodbav:"Type"`
	Status    ComplianceStatus `json:"status" dynamodbav:"Status"`
	Latitude  float64          `json:"latitude" dynamodbav:"Latitude"`
	Longitude float64          `json:"longitude" dynamodbav:"Longitude"`
	Revenue   float64          `json:"revenue" dynamodbav:"Revenue"`
}

func (b Business) RecordID() string { return b.ID }

func (b Business) WithID(id string) Business {
	b.ID = id
	return b
}

// PaymentChannel is a static description of a way citizens can pay.
type PaymentChannel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Uptime      string `json:"uptime,omitempty"`
	DailyVolume int    `json:"daily_volume,omitempty"`
}
