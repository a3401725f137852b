package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/bdotrack/bdo-api/internal/domains/users/ports"
)

// DefaultAccessTTL is used when no token duration is configured.
const DefaultAccessTTL = 60 * time.Minute

// Issuer signs HS256 access tokens carrying the username as subject.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Issuer)

func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

func NewIssuer(secret string, ttl time.Duration, opts ...Option) (*Issuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	issuer := &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(issuer)
	}
	return issuer, nil
}

func (i *Issuer) Issue(username string) (string, time.Time, error) {
	issuedAt := i.now()
	expiresAt := issuedAt.Add(i.ttl)
	claims := jwtlib.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwtlib.NewNumericDate(issuedAt),
		ExpiresAt: jwtlib.NewNumericDate(expiresAt),
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (i *Issuer) Verify(token string) (string, error) {
	claims := &jwtlib.RegisteredClaims{}
	parsed, err := jwtlib.ParseWithClaims(token, claims, func(*jwtlib.Token) (any, error) {
		return i.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(i.now),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ports.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", ports.ErrInvalidToken
	}
	return claims.Subject, nil
}

var _ ports.TokenIssuer = (*Issuer)(nil)
