package ports

import (
	"time"

	"county-revenue/internal/domain"
)

type TokenClaims struct {
	ID        string
	User      domain.User
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Issue(claims TokenClaims) (string, error)
	Parse(token string) (TokenClaims, error)
}
