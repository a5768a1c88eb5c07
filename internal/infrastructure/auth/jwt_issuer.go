package auth

import (
	"errors"
	"fmt"
	"time"

	"county-revenue/internal/domain"
	"county-revenue/internal/ports"
	"github.com/golang-jwt/jwt/v5"
)

const sessionIssuer = "county-revenue"

type sessionClaims struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTIssuer signs session tokens with HS256.
type JWTIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewJWTIssuer(secret string) (*JWTIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &JWTIssuer{secret: []byte(secret), now: time.Now}, nil
}

func (i *JWTIssuer) Issue(claims ports.TokenClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Username: claims.User.Username,
		Name:     claims.User.Name,
		Role:     string(claims.User.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        claims.ID,
			Subject:   claims.User.Username,
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(i.now()),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	})
	return t.SignedString(i.secret)
}

func (i *JWTIssuer) Parse(token string) (ports.TokenClaims, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return ports.TokenClaims{}, err
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return ports.TokenClaims{}, err
	}
	if claims.ID == "" {
		return ports.TokenClaims{}, fmt.Errorf("%w: token has no id", domain.ErrUnauthenticated)
	}
	return ports.TokenClaims{
		ID:        claims.ID,
		User:      domain.User{Username: claims.Username, Name: claims.Name, Role: role},
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
