package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"county-revenue/internal/domain"
	"county-revenue/internal/ports"
	"github.com/google/uuid"
)

// Session holds the authenticated user for one client session. The zero
// user means nobody is signed in.
type Session struct {
	idp     ports.IdentityProvider
	metrics ports.Metrics

	mu      sync.RWMutex
	user    *domain.User
	tokenID string
}

func NewSession(idp ports.IdentityProvider, metrics ports.Metrics) *Session {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Session{idp: idp, metrics: metrics}
}

// RestoredSession wraps an already authenticated user, e.g. one recovered
// from a verified token.
func RestoredSession(user domain.User, tokenID string) *Session {
	return &Session{metrics: ports.NopMetrics{}, user: &user, tokenID: tokenID}
}

func (s *Session) CurrentUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

// TokenID is the id of the token backing this session, if any.
func (s *Session) TokenID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokenID
}

// Login authenticates creds and, on success, makes the returned user the
// current one. A failed login leaves the session untouched.
func (s *Session) Login(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	if s.idp == nil {
		return domain.User{}, errors.New("session has no identity provider")
	}
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		s.metrics.Login("invalid")
		return domain.User{}, domain.ErrInvalidCredentials
	}
	user, err := s.idp.Authenticate(ctx, creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.metrics.Login("invalid")
		} else {
			s.metrics.Login("error")
		}
		return domain.User{}, err
	}
	if !user.Role.Valid() {
		s.metrics.Login("error")
		return domain.User{}, fmt.Errorf("identity provider returned %w: %q", domain.ErrUnknownRole, user.Role)
	}
	s.mu.Lock()
	s.user = &user
	s.tokenID = ""
	s.mu.Unlock()
	s.metrics.Login("success")
	return user, nil
}

// Logout clears the session. Calling it on an empty session is a no-op.
func (s *Session) Logout() {
	s.mu.Lock()
	s.user = nil
	s.tokenID = ""
	s.mu.Unlock()
}

func (s *Session) bindToken(id string) {
	s.mu.Lock()
	s.tokenID = id
	s.mu.Unlock()
}

// SessionService issues, restores and revokes token-backed sessions for
// the HTTP surface.
type SessionService struct {
	idp     ports.IdentityProvider
	tokens  ports.TokenIssuer
	store   ports.SessionStore
	ttl     time.Duration
	metrics ports.Metrics
	logger  ports.Logger
	now     func() time.Time
}

func NewSessionService(idp ports.IdentityProvider, tokens ports.TokenIssuer, store ports.SessionStore, ttl time.Duration, metrics ports.Metrics, logger ports.Logger) *SessionService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &SessionService{idp: idp, tokens: tokens, store: store, ttl: ttl, metrics: metrics, logger: logger, now: time.Now}
}

// Login authenticates and returns a signed token for the new session.
func (s *SessionService) Login(ctx context.Context, creds domain.Credentials) (string, *Session, error) {
	session := NewSession(s.idp, s.metrics)
	user, err := session.Login(ctx, creds)
	if err != nil {
		s.logger.Warn(ctx, "login failed", "username", creds.Username, "error", err)
		return "", nil, err
	}
	id := uuid.NewString()
	token, err := s.tokens.Issue(ports.TokenClaims{ID: id, User: user, ExpiresAt: s.now().Add(s.ttl)})
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	if err := s.store.Save(ctx, id, user, s.ttl); err != nil {
		return "", nil, fmt.Errorf("save session: %w", err)
	}
	session.bindToken(id)
	s.logger.Info(ctx, "login succeeded", "username", user.Username, "role", string(user.Role))
	return token, session, nil
}

// Restore verifies token and returns its session if it has not been
// revoked.
func (s *SessionService) Restore(ctx context.Context, token string) (*Session, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	user, err := s.store.Load(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: session revoked", domain.ErrUnauthenticated)
		}
		return nil, err
	}
	return RestoredSession(user, claims.ID), nil
}

// Logout revokes the token behind session and clears it. Idempotent.
func (s *SessionService) Logout(ctx context.Context, session *Session) error {
	if session == nil {
		return nil
	}
	id := session.TokenID()
	session.Logout()
	if id == "" {
		return nil
	}
	if err := s.store.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
