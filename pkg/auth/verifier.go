package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Config configures access token verification. The defaults match the
// tokens issued by a Supabase-style auth provider.
type Config struct {
	JWTSecret   string `env:"AUTH_JWT_SECRET,required"`
	JWTIssuer   string `env:"AUTH_JWT_ISSUER"`
	JWTAudience string `env:"AUTH_JWT_AUDIENCE" envDefault:"authenticated"`
}

// Verifier validates HS256 access tokens and turns them into principals.
type Verifier struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithIssuer requires the iss claim to equal iss.
func WithIssuer(iss string) VerifierOption {
	return func(v *Verifier) { v.issuer = strings.TrimSpace(iss) }
}

// WithAudience requires aud to contain aud.
func WithAudience(aud string) VerifierOption {
	return func(v *Verifier) { v.audience = strings.TrimSpace(aud) }
}

// WithClock overrides the time source used for exp/nbf validation.
func WithClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) {
		if now != nil {
			v.now = now
		}
	}
}

// NewVerifier returns an HS256 verifier for secret.
func NewVerifier(secret string, opts ...VerifierOption) (*Verifier, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	v := &Verifier{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// NewVerifierFromConfig builds a Verifier from env configuration.
func NewVerifierFromConfig(cfg Config, opts ...VerifierOption) (*Verifier, error) {
	return NewVerifier(cfg.JWTSecret, append([]VerifierOption{
		WithIssuer(cfg.JWTIssuer),
		WithAudience(cfg.JWTAudience),
	}, opts...)...)
}

// Verify parses raw and returns the principal named by its "sub" claim.
func (v *Verifier) Verify(raw string) (Principal, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(v.audience))
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, parserOpts...)
	if err != nil || !token.Valid {
		return Principal{}, errors.Join(ErrInvalidToken, err)
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return Principal{}, errors.Join(ErrInvalidToken, err)
	}
	userID, err := uuid.Parse(sub)
	if err != nil || userID == uuid.Nil {
		return Principal{}, errors.Join(ErrInvalidToken, fmt.Errorf("subject %q is not a user id", sub))
	}

	return Principal{
		UserID: userID,
		Email:  claimString(claims, "email"),
		Role:   claimString(claims, "role"),
		Claims: claims,
	}, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return strings.TrimSpace(s)
}
