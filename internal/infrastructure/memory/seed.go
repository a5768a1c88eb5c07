package memory

import (
	"time"

	"county-revenue/internal/domain"
	"county-revenue/internal/records"
)

// Stores is one Store per collection.
type Stores struct {
	Payments      *Store[domain.Payment]
	Licenses      *Store[domain.License]
	Citizens      *Store[domain.Citizen]
	Departments   *Store[domain.Department]
	Notifications *Store[domain.Notification]
	Businesses    *Store[domain.Business]
}

// NewSeededStores returns stores preloaded with the demo county data.
// Notification times are relative to now.
func NewSeededStores(now time.Time) *Stores {
	return &Stores{
		Payments:      NewStore(records.NewTimestampIDs("PAY-"), SeedPayments()...),
		Licenses:      NewStore(records.NewTimestampIDs("LIC-"), SeedLicenses()...),
		Citizens:      NewStore(records.NewTimestampIDs("CIT-"), SeedCitizens()...),
		Departments:   NewStore(records.NewTimestampIDs("dept-"), SeedDepartments()...),
		Notifications: NewStore(records.NewTimestampIDs("NTF-"), SeedNotifications(now)...),
		Businesses:    NewStore(records.NewTimestampIDs("BIZ-"), SeedBusinesses()...),
	}
}

func SeedPayments() []domain.Payment {
	return []domain.Payment{
		{ID: "PAY-1029", Citizen: "John Doe", Amount: 150.00, Date: "2023-10-25", Department: "Lands", Type: "Land Rates", Status: domain.PaymentCompleted},
		{ID: "PAY-1030", Citizen: "Jane Smith", Amount: 45.50, Date: "2023-10-25", Department: "Markets", Type: "Market Fee", Status: domain.PaymentPending},
		{ID: "PAY-1031", Citizen: "Acme Corp", Amount: 1250.00, Date: "2023-10-24", Department: "Trade", Type: "Business Permit", Status: domain.PaymentCompleted},
		{ID: "PAY-1032", Citizen: "Michael Johnson", Amount: 25.00, Date: "2023-10-24", Department: "Transport", Type: "Parking Fee", Status: domain.PaymentFailed},
		{ID: "PAY-1033", Citizen: "Sarah Williams", Amount: 300.00, Date: "2023-10-23", Department: "Lands", Type: "Property Tax", Status: domain.PaymentCompleted},
		{ID: "PAY-1034", Citizen: "David Brown", Amount: 15.00, Date: "2023-10-23", Department: "Transport", Type: "Parking Fee", Status: domain.PaymentCompleted},
		{ID: "PAY-1035", Citizen: "Tech Solutions Ltd", Amount: 550.00, Date: "2023-10-22", Department: "Trade", Type: "Business Permit", Status: domain.PaymentCompleted},
		{ID: "PAY-1036", Citizen: "Mary Davis", Amount: 120.00, Date: "2023-10-22", Department: "Health", Type: "Health Certificate", Status: domain.PaymentPending},
		{ID: "PAY-1037", Citizen: "Robert Wilson", Amount: 75.00, Date: "2023-10-21", Department: "Markets", Type: "Market Fee", Status: domain.PaymentCompleted},
		{ID: "PAY-1038", Citizen: "Global Logistics", Amount: 890.00, Date: "2023-10-21", Department: "Transport", Type: "Cess / Barrier", Status: domain.PaymentCompleted},
	}
}

func SeedCitizens() []domain.Citizen {
	return []domain.Citizen{
		{ID: "CIT-001", Name: "John Doe", IDNumber: "12345678", Phone: "+254 712 345678", Registered: "2023-01-15", Status: domain.CitizenActive},
		{ID: "CIT-002", Name: "Jane Smith", IDNumber: "23456789", Phone: "+254 723 456789", Registered: "2023-02-20", Status: domain.CitizenActive},
		{ID: "CIT-003", Name: "Michael Johnson", IDNumber: "34567890", Phone: "+254 734 567890", Registered: "2023-03-10", Status: domain.CitizenInactive},
		{ID: "CIT-004", Name: "Sarah Williams", IDNumber: "45678901", Phone: "+254 745 678901", Registered: "2023-04-05", Status: domain.CitizenActive},
		{ID: "CIT-005", Name: "David Brown", IDNumber: "56789012", Phone: "+254 756 789012", Registered: "2023-05-12", Status: domain.CitizenActive},
		{ID: "CIT-006", Name: "Mary Davis", IDNumber: "67890123", Phone: "+254 767 890123", Registered: "2023-06-18", Status: domain.CitizenActive},
		{ID: "CIT-007", Name: "Robert Wilson", IDNumber: "78901234", Phone: "+254 778 901234", Registered: "2023-07-22", Status: domain.CitizenActive},
	}
}

func SeedDepartments() []domain.Department {
	return []domain.Department{
		{ID: "DEP-01", Name: "Lands & Physical Planning", Target: 500000, Collected: 425000, Transactions: 1250, Icon: "Map"},
		{ID: "DEP-02", Name: "Trade & Enterprise", Target: 750000, Collected: 680000, Transactions: 3420, Icon: "Briefcase"},
		{ID: "DEP-03", Name: "Transport & Infrastructure", Target: 300000, Collected: 150000, Transactions: 890, Icon: "Bus"},
		{ID: "DEP-04", Name: "Health Services", Target: 200000, Collected: 195000, Transactions: 5600, Icon: "HeartPulse"},
		{ID: "DEP-05", Name: "Agriculture & Markets", Target: 150000, Collected: 120000, Transactions: 430, Icon: "Wheat"},
	}
}

func SeedLicenses() []domain.License {
	return []domain.License{
		{ID: "LIC-2023-001", Type: "Single Business Permit", Applicant: "Acme Corp", Status: domain.LicenseApproved, Date: "2023-10-25", Feedback: "All documents verified."},
		{ID: "LIC-2023-002", Type: "Liquor License", Applicant: "The Local Pub", Status: domain.LicensePending, Date: "2023-10-24"},
		{ID: "LIC-2023-003", Type: "Health Certificate", Applicant: "Fresh Foods Ltd", Status: domain.LicenseRejected, Date: "2023-10-23", Feedback: "Missing valid food handling certificates for staff."},
		{ID: "LIC-2023-004", Type: "Fire Clearance", Applicant: "Tech Hub", Status: domain.LicenseApproved, Date: "2023-10-22"},
		{ID: "LIC-2023-005", Type: "Building Permit", Applicant: "John Doe", Status: domain.LicenseApproved, Date: "2023-10-20"},
		{ID: "LIC-2023-006", Type: "Market Stall Allocation", Applicant: "John Doe", Status: domain.LicensePending, Date: "2023-10-26"},
	}
}

func SeedNotifications(now time.Time) []domain.Notification {
	day := 24 * time.Hour
	return []domain.Notification{
		{ID: "1", Title: "Payment Received", Message: "Payment of Ksh 150.00 for Land Rates has been successfully processed.", CreatedAt: now.Add(-2 * time.Minute), Type: domain.NotificationSuccess},
		{ID: "2", Title: "License Approved", Message: "Your Single Business Permit application has been approved.", CreatedAt: now.Add(-time.Hour), Type: domain.NotificationSuccess},
		{ID: "3", Title: "System Maintenance", Message: "Scheduled maintenance will occur tonight from 2:00 AM to 4:00 AM.", CreatedAt: now.Add(-5 * time.Hour), Read: true, Type: domain.NotificationInfo},
		{ID: "4", Title: "Payment Failed", Message: "Your recent payment attempt for Parking Fee failed. Please try again.", CreatedAt: now.Add(-day), Read: true, Type: domain.NotificationError},
		{ID: "5", Title: "New Document Uploaded", Message: "A new document has been uploaded to your profile.", CreatedAt: now.Add(-2 * day), Read: true, Type: domain.NotificationInfo},
		{ID: "6", Title: "Account Verification", Message: "Your account has been successfully verified.", CreatedAt: now.Add(-3 * day), Read: true, Type: domain.NotificationSuccess},
		{ID: "7", Title: "Pending Action", Message: "Please review and sign the updated terms of service.", CreatedAt: now.Add(-4 * day), Read: true, Type: domain.NotificationWarning},
	}
}

func SeedBusinesses() []domain.Business {
	return []domain.Business{
		{ID: "BIZ-1", Name: "Wote Supermarket", Type: "Retail", Status: domain.Compliant, Latitude: -1.7820, Longitude: 37.6250, Revenue: 1200},
		{ID: "BIZ-2", Name: "Makueni Hardware", Type: "Hardware", Status: domain.Pending, Latitude: -1.7850, Longitude: 37.6280, Revenue: 850},
		{ID: "BIZ-3", Name: "Kibwezi Auto Spares", Type: "Automotive", Status: domain.Defaulter, Latitude: -2.4167, Longitude: 37.9667, Revenue: 400},
		{ID: "BIZ-4", Name: "Mtito Andei Lodge", Type: "Hospitality", Status: domain.Compliant, Latitude: -2.6833, Longitude: 38.1667, Revenue: 2500},
		{ID: "BIZ-5", Name: "Emali Agrovet", Type: "Agriculture", Status: domain.Compliant, Latitude: -2.0333, Longitude: 37.4500, Revenue: 600},
		{ID: "BIZ-6", Name: "Sultan Hamud Traders", Type: "Retail", Status: domain.Pending, Latitude: -2.0167, Longitude: 37.3833, Revenue: 950},
		{ID: "BIZ-7", Name: "Wote Central Pharmacy", Type: "Healthcare", Status: domain.Compliant, Latitude: -1.7800, Longitude: 37.6220, Revenue: 1100},
		{ID: "BIZ-8", Name: "Makindu Electronics", Type: "Retail", Status: domain.Defaulter, Latitude: -2.2833, Longitude: 37.8167, Revenue: 300},
	}
}
