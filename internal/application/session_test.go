package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"county-revenue/internal/domain"
	"county-revenue/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSession_LoginSetsCurrentUser(t *testing.T) {
	idp := new(idpMock)
	idp.On("Authenticate", mock.Anything, "admin", "admins").Return(admin, nil)
	metrics := new(metricsMock)
	metrics.On("Login", "success").Once()

	s := NewSession(idp, metrics)
	_, ok := s.CurrentUser()
	require.False(t, ok)

	user, err := s.Login(context.Background(), domain.Credentials{Username: "admin", Password: "admins"})
	require.NoError(t, err)
	assert.Equal(t, admin, user)

	current, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, admin, current)
	metrics.AssertExpectations(t)
}

func TestSession_FailedLoginLeavesStateUnchanged(t *testing.T) {
	idp := new(idpMock)
	idp.On("Authenticate", mock.Anything, "citizen", "citizens").Return(citizen, nil)
	idp.On("Authenticate", mock.Anything, "admin", "wrong").Return(domain.User{}, domain.ErrInvalidCredentials)

	s := NewSession(idp, nil)
	_, err := s.Login(context.Background(), domain.Credentials{Username: "citizen", Password: "citizens"})
	require.NoError(t, err)

	_, err = s.Login(context.Background(), domain.Credentials{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	current, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, citizen, current)
}

func TestSession_BlankCredentialsNeverReachProvider(t *testing.T) {
	idp := new(idpMock)
	s := NewSession(idp, nil)

	for _, creds := range []domain.Credentials{{}, {Username: "admin"}, {Password: "admins"}, {Username: "   ", Password: "x"}} {
		_, err := s.Login(context.Background(), creds)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}
	idp.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
	_, ok := s.CurrentUser()
	assert.False(t, ok)
}

func TestSession_ProviderReturningUnknownRole(t *testing.T) {
	idp := new(idpMock)
	idp.On("Authenticate", mock.Anything, "ghost", "pw").Return(domain.User{Username: "ghost", Role: "mayor"}, nil)

	s := NewSession(idp, nil)
	_, err := s.Login(context.Background(), domain.Credentials{Username: "ghost", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrUnknownRole)
	_, ok := s.CurrentUser()
	assert.False(t, ok)
}

func TestSession_LogoutIsIdempotent(t *testing.T) {
	s := RestoredSession(manager, "tok-1")
	s.Logout()
	s.Logout()
	_, ok := s.CurrentUser()
	assert.False(t, ok)
	assert.Empty(t, s.TokenID())
}

func newSessionService(idp *idpMock, tokens *tokenIssuerMock, store *sessionStoreMock) *SessionService {
	svc := NewSessionService(idp, tokens, store, time.Hour, nil, nopLogger{})
	svc.now = fixedClock
	return svc
}

func TestSessionService_LoginIssuesAndStoresToken(t *testing.T) {
	idp := new(idpMock)
	tokens := new(tokenIssuerMock)
	store := new(sessionStoreMock)
	idp.On("Authenticate", mock.Anything, "auditor", "auditors").Return(auditor, nil)

	var issuedID string
	tokens.On("Issue", mock.MatchedBy(func(c ports.TokenClaims) bool {
		issuedID = c.ID
		return c.ID != "" && c.User == auditor && c.ExpiresAt.Equal(fixedClock().Add(time.Hour))
	})).Return("signed", nil)
	store.On("Save", mock.Anything, mock.AnythingOfType("string"), auditor, time.Hour).Return(nil)

	token, session, err := newSessionService(idp, tokens, store).Login(context.Background(), domain.Credentials{Username: "auditor", Password: "auditors"})
	require.NoError(t, err)
	assert.Equal(t, "signed", token)
	assert.Equal(t, issuedID, session.TokenID())
	user, ok := session.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, auditor, user)
	store.AssertExpectations(t)
}

func TestSessionService_LoginFailureIssuesNothing(t *testing.T) {
	idp := new(idpMock)
	tokens := new(tokenIssuerMock)
	store := new(sessionStoreMock)
	idp.On("Authenticate", mock.Anything, "admin", "nope").Return(domain.User{}, domain.ErrInvalidCredentials)

	_, _, err := newSessionService(idp, tokens, store).Login(context.Background(), domain.Credentials{Username: "admin", Password: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	tokens.AssertNotCalled(t, "Issue", mock.Anything)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionService_Restore(t *testing.T) {
	tokens := new(tokenIssuerMock)
	store := new(sessionStoreMock)
	tokens.On("Parse", "good").Return(ports.TokenClaims{ID: "jti-1", User: manager}, nil)
	tokens.On("Parse", "revoked").Return(ports.TokenClaims{ID: "jti-2", User: manager}, nil)
	tokens.On("Parse", "garbage").Return(ports.TokenClaims{}, errors.New("bad signature"))
	store.On("Load", mock.Anything, "jti-1").Return(manager, nil)
	store.On("Load", mock.Anything, "jti-2").Return(domain.User{}, domain.ErrNotFound)

	svc := newSessionService(new(idpMock), tokens, store)

	session, err := svc.Restore(context.Background(), "good")
	require.NoError(t, err)
	user, _ := session.CurrentUser()
	assert.Equal(t, manager, user)
	assert.Equal(t, "jti-1", session.TokenID())

	_, err = svc.Restore(context.Background(), "revoked")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.Restore(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestSessionService_LogoutRevokes(t *testing.T) {
	store := new(sessionStoreMock)
	store.On("Delete", mock.Anything, "jti-1").Return(nil).Once()
	store.On("Delete", mock.Anything, "jti-gone").Return(domain.ErrNotFound).Once()
	svc := newSessionService(new(idpMock), new(tokenIssuerMock), store)

	session := RestoredSession(citizen, "jti-1")
	require.NoError(t, svc.Logout(context.Background(), session))
	_, ok := session.CurrentUser()
	assert.False(t, ok)
	require.NoError(t, svc.Logout(context.Background(), session))

	require.NoError(t, svc.Logout(context.Background(), RestoredSession(citizen, "jti-gone")))
	require.NoError(t, svc.Logout(context.Background(), nil))
	store.AssertExpectations(t)
}
