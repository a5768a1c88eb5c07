package auth

import (
	"context"
	"fmt"

	"county-revenue/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Account is a fixed login known to the static identity provider.
type Account struct {
	Username string
	Password string
	Name     string
	Role     domain.Role
}

// DefaultAccounts are the demo logins, one per role.
func DefaultAccounts() []Account {
	return []Account{
		{Username: "admin", Password: "admins", Name: "System Admin", Role: domain.RoleSuperAdmin},
		{Username: "manager", Password: "managers", Name: "Revenue Manager", Role: domain.RoleRevenueManager},
		{Username: "collector", Password: "collectors", Name: "Field Officer", Role: domain.RoleRevenueCollector},
		{Username: "licensing", Password: "licensing", Name: "Licensing Officer", Role: domain.RoleLicensingOfficer},
		{Username: "auditor", Password: "auditors", Name: "Compliance Officer", Role: domain.RoleAuditor},
		{Username: "citizen", Password: "citizens", Name: "John Doe", Role: domain.RoleCitizen},
	}
}

type storedAccount struct {
	user domain.User
	hash []byte
}

// StaticIdentityProvider checks credentials against a fixed account table.
// Passwords are only kept as bcrypt hashes.
type StaticIdentityProvider struct {
	accounts map[string]storedAccount
}

func NewStaticIdentityProvider(accounts []Account, cost int) (*StaticIdentityProvider, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	p := &StaticIdentityProvider{accounts: make(map[string]storedAccount, len(accounts))}
	for _, a := range accounts {
		if !a.Role.Valid() {
			return nil, fmt.Errorf("account %q: %w: %q", a.Username, domain.ErrUnknownRole, a.Role)
		}
		if _, dup := p.accounts[a.Username]; dup {
			return nil, fmt.Errorf("account %q: %w", a.Username, domain.ErrConflict)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %q: %w", a.Username, err)
		}
		p.accounts[a.Username] = storedAccount{
			user: domain.User{Username: a.Username, Name: a.Name, Role: a.Role},
			hash: hash,
		}
	}
	return p, nil
}

func (p *StaticIdentityProvider) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	acct, ok := p.accounts[username]
	if !ok {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(acct.hash, []byte(password)) != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return acct.user, nil
}
