package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/polkiloo/dispatch/internal/domain/model"
)

const jwtIssuer = "dispatch"

type jwtClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTStrategy issues HS256 signed JWTs carrying the user id as subject.
type JWTStrategy struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTStrategy builds JWTStrategy with provided secret and options.
func NewJWTStrategy(secret string, opts Options) *JWTStrategy {
	return &JWTStrategy{secret: []byte(secret), ttl: opts.ttl()}
}

func (s *JWTStrategy) IssueToken(principal model.Principal) (string, error) {
	if !validPrincipal(principal) {
		return "", fmt.Errorf("issue token: %w", ErrInvalidToken)
	}
	now := time.Now()
	claims := &jwtClaims{
		Role: string(principal.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.UserID,
			Issuer:    jwtIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *JWTStrategy) ParseToken(token string) (model.Principal, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(jwtIssuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return model.Principal{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok {
		return model.Principal{}, ErrInvalidToken
	}
	principal := model.Principal{UserID: claims.Subject, Role: model.Role(claims.Role)}
	if !validPrincipal(principal) {
		return model.Principal{}, ErrInvalidToken
	}
	return principal, nil
}

func (s *JWTStrategy) Name() string {
	return "jwt"
}
