package ports

import (
	"context"
	"time"

	"county-revenue/internal/domain"
)

// RecordStore is the record-store collaborator for one domain collection.
// Create assigns the identifier; Update and Delete return domain.ErrNotFound
// for unknown identifiers.
type RecordStore[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, id string, patch func(T) T) (T, error)
	Delete(ctx context.Context, id string) error
}

type (
	PaymentStore      = RecordStore[domain.Payment]
	LicenseStore      = RecordStore[domain.License]
	CitizenStore      = RecordStore[domain.Citizen]
	DepartmentStore   = RecordStore[domain.Department]
	NotificationStore = RecordStore[domain.Notification]
	BusinessStore     = RecordStore[domain.Business]
)

// IdentityProvider authenticates credentials and returns the user record.
type IdentityProvider interface {
	Authenticate(ctx context.Context, username, password string) (domain.User, error)
}

// SessionStore tracks live session token ids so that logout can revoke them.
type SessionStore interface {
	Save(ctx context.Context, tokenID string, user domain.User, ttl time.Duration) error
	Load(ctx context.Context, tokenID string) (domain.User, error)
	Delete(ctx context.Context, tokenID string) error
}

type PaymentRequest struct {
	Payer      string
	Amount     float64
	Department string
	Type       string
}

type PaymentReceipt struct {
	Reference string
	Status    domain.PaymentStatus
}

// PaymentGateway is the payments backend.
type PaymentGateway interface {
	Submit(ctx context.Context, req PaymentRequest) (PaymentReceipt, error)
}
