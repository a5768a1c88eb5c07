package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"county-revenue/internal/adapters/logger"
	"county-revenue/internal/application"
	"county-revenue/internal/domain"
	"github.com/labstack/echo/v4"
)

// Mode selects how bearer tokens become sessions.
type Mode string

const (
	ModeSession Mode = "session"
	ModeCognito Mode = "cognito"
)

func ParseAuthMode(raw string) (Mode, error) {
	switch mode := Mode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case "", ModeSession:
		return ModeSession, nil
	case ModeCognito:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid auth mode %q", raw)
	}
}

// SessionResolver turns a bearer token into a live session.
type SessionResolver interface {
	Restore(ctx context.Context, token string) (*application.Session, error)
}

// TokenVerifier validates an externally issued identity token.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (domain.User, error)
}

// CognitoSessions resolves sessions straight from verified Cognito id
// tokens. There is no server-side revocation in this mode.
type CognitoSessions struct {
	Verifier TokenVerifier
}

func (c CognitoSessions) Restore(ctx context.Context, token string) (*application.Session, error) {
	user, err := c.Verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	return application.RestoredSession(user, ""), nil
}

const sessionKey = "session"

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// AuthMiddleware requires a bearer token and stores the restored session on
// the echo context.
func AuthMiddleware(resolver SessionResolver) (echo.MiddlewareFunc, error) {
	if resolver == nil {
		return nil, errors.New("auth middleware requires a session resolver")
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := BearerToken(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			session, err := resolver.Restore(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
				}
				return err
			}
			user, ok := session.CurrentUser()
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "session has no user")
			}
			c.Set(sessionKey, session)
			c.SetRequest(c.Request().WithContext(logger.WithUser(c.Request().Context(), user)))
			return next(c)
		}
	}, nil
}

func SessionFrom(c echo.Context) (*application.Session, bool) {
	session, ok := c.Get(sessionKey).(*application.Session)
	return session, ok && session != nil
}

// UserFrom returns the signed-in user for the request.
func UserFrom(c echo.Context) (domain.User, bool) {
	session, ok := SessionFrom(c)
	if !ok {
		return domain.User{}, false
	}
	return session.CurrentUser()
}

// RequireView rejects requests from roles that cannot open view.
func RequireView(registry *application.Registry, view domain.ViewID) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := UserFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
			}
			if !registry.CanView(user.Role, view) {
				return echo.NewHTTPError(http.StatusForbidden, fmt.Sprintf("role %s cannot open %s", user.Role, view))
			}
			return next(c)
		}
	}
}
