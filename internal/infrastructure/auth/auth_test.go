package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"county-revenue/internal/domain"
	"county-revenue/internal/ports"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestStaticIdentityProvider_DefaultAccounts(t *testing.T) {
	p, err := NewStaticIdentityProvider(DefaultAccounts(), bcrypt.MinCost)
	require.NoError(t, err)

	cases := []struct {
		username, password string
		want               domain.User
	}{
		{"admin", "admins", domain.User{Username: "admin", Name: "System Admin", Role: domain.RoleSuperAdmin}},
		{"manager", "managers", domain.User{Username: "manager", Name: "Revenue Manager", Role: domain.RoleRevenueManager}},
		{"collector", "collectors", domain.User{Username: "collector", Name: "Field Officer", Role: domain.RoleRevenueCollector}},
		{"licensing", "licensing", domain.User{Username: "licensing", Name: "Licensing Officer", Role: domain.RoleLicensingOfficer}},
		{"auditor", "auditors", domain.User{Username: "auditor", Name: "Compliance Officer", Role: domain.RoleAuditor}},
		{"citizen", "citizens", domain.User{Username: "citizen", Name: "John Doe", Role: domain.RoleCitizen}},
	}
	for _, tc := range cases {
		got, err := p.Authenticate(context.Background(), tc.username, tc.password)
		require.NoError(t, err, tc.username)
		assert.Equal(t, tc.want, got)
	}
}

func TestStaticIdentityProvider_Rejects(t *testing.T) {
	p, err := NewStaticIdentityProvider(DefaultAccounts(), bcrypt.MinCost)
	require.NoError(t, err)

	for _, creds := range [][2]string{{"admin", "admin"}, {"Admin", "admins"}, {"nobody", "x"}, {"citizen", ""}} {
		_, err := p.Authenticate(context.Background(), creds[0], creds[1])
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials, creds[0])
	}
}

func TestStaticIdentityProvider_BadAccounts(t *testing.T) {
	_, err := NewStaticIdentityProvider([]Account{{Username: "x", Password: "y", Role: "mayor"}}, bcrypt.MinCost)
	assert.ErrorIs(t, err, domain.ErrUnknownRole)

	dup := []Account{{Username: "x", Password: "y", Role: domain.RoleCitizen}, {Username: "x", Password: "z", Role: domain.RoleCitizen}}
	_, err = NewStaticIdentityProvider(dup, bcrypt.MinCost)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestJWTIssuer_RoundTrip(t *testing.T) {
	issuer, err := NewJWTIssuer("secret")
	require.NoError(t, err)
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	user := domain.User{Username: "auditor", Name: "Compliance Officer", Role: domain.RoleAuditor}

	token, err := issuer.Issue(ports.TokenClaims{ID: "jti-1", User: user, ExpiresAt: exp})
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "jti-1", claims.ID)
	assert.Equal(t, user, claims.User)
	assert.True(t, exp.Equal(claims.ExpiresAt))
}

func TestJWTIssuer_RejectsBadTokens(t *testing.T) {
	issuer, err := NewJWTIssuer("secret")
	require.NoError(t, err)
	other, err := NewJWTIssuer("other")
	require.NoError(t, err)
	user := domain.User{Username: "citizen", Name: "John Doe", Role: domain.RoleCitizen}

	expired, err := issuer.Issue(ports.TokenClaims{ID: "a", User: user, ExpiresAt: time.Now().Add(-time.Minute)})
	require.NoError(t, err)
	_, err = issuer.Parse(expired)
	assert.Error(t, err)

	foreign, err := other.Issue(ports.TokenClaims{ID: "b", User: user, ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	_, err = issuer.Parse(foreign)
	assert.Error(t, err)

	badRole, err := issuer.Issue(ports.TokenClaims{ID: "c", User: domain.User{Username: "x", Role: "mayor"}, ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	_, err = issuer.Parse(badRole)
	assert.ErrorIs(t, err, domain.ErrUnknownRole)

	_, err = issuer.Parse("not-a-token")
	assert.Error(t, err)

	_, err = NewJWTIssuer("")
	assert.Error(t, err)
}

func jwksServer(t *testing.T, key *rsa.PrivateKey, kid string) *httptest.Server {
	t.Helper()
	e := big.NewInt(int64(key.PublicKey.E)).Bytes()
	body, err := json.Marshal(jwksResponse{Keys: []jwk{{
		Kty: "RSA", Kid: kid, Use: "sig", Alg: "RS256",
		N: base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
		E: base64.RawURLEncoding.EncodeToString(e),
	}}})
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func signCognito(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	s, err := tok.SignedString(key)
	require.NoError(t, err)
	return s
}

func TestCognitoVerifier(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	srv := jwksServer(t, key, "k1")
	const iss = "https://cognito-idp.us-east-1.amazonaws.com/pool"
	v := newCognitoVerifier(iss, srv.URL)
	exp := time.Now().Add(time.Hour).Unix()

	good := signCognito(t, key, "k1", jwt.MapClaims{
		"iss": iss, "exp": exp, "token_use": "id", "sub": "abc",
		"cognito:username": "manager", "name": "Revenue Manager", "custom:role": "revenue_manager",
	})
	user, err := v.Verify(context.Background(), good)
	require.NoError(t, err)
	assert.Equal(t, domain.User{Username: "manager", Name: "Revenue Manager", Role: domain.RoleRevenueManager}, user)

	access := signCognito(t, key, "k1", jwt.MapClaims{"iss": iss, "exp": exp, "token_use": "access", "sub": "abc", "custom:role": "auditor"})
	_, err = v.Verify(context.Background(), access)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	noRole := signCognito(t, key, "k1", jwt.MapClaims{"iss": iss, "exp": exp, "sub": "abc"})
	_, err = v.Verify(context.Background(), noRole)
	assert.ErrorIs(t, err, domain.ErrUnknownRole)

	wrongIssuer := signCognito(t, key, "k1", jwt.MapClaims{"iss": "https://evil", "exp": exp, "sub": "abc", "custom:role": "auditor"})
	_, err = v.Verify(context.Background(), wrongIssuer)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	unknownKid := signCognito(t, key, "k2", jwt.MapClaims{"iss": iss, "exp": exp, "sub": "abc", "custom:role": "auditor"})
	_, err = v.Verify(context.Background(), unknownKid)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestRSAFromJWK(t *testing.T) {
	_, err := rsaFromJWK("!!", "AQAB")
	assert.Error(t, err)
	_, err = rsaFromJWK("AQAB", "AA")
	assert.Error(t, err)
	k, err := rsaFromJWK("AQAB", "AQAB")
	require.NoError(t, err)
	assert.Equal(t, 65537, k.E)
}
