package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	uuid "github.com/google/uuid"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/infra/config"
)

var (
	// ErrInvalidToken indicates a bearer token failed signature or claim checks.
	ErrInvalidToken = errors.New("jwt: invalid token")
	// ErrExpiredToken indicates a bearer token is past its expiry.
	ErrExpiredToken = errors.New("jwt: token expired")
	// ErrSecretMissing indicates no verification secret is configured.
	ErrSecretMissing = errors.New("jwt: secret not configured")
)

// IdentityClaims are the claims the identity provider places in access tokens.
type IdentityClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// IdentityVerifier validates HS256 bearer tokens and turns them into actors.
type IdentityVerifier struct {
	secret   []byte
	issuer   string
	audience string
	leeway   time.Duration
	now      func() time.Time
}

// NewIdentityVerifier builds a verifier from the auth settings.
func NewIdentityVerifier(cfg config.AuthSettings) (*IdentityVerifier, error) {
	secret := strings.TrimSpace(cfg.JWTSecret)
	if secret == "" {
		return nil, ErrSecretMissing
	}

	return &IdentityVerifier{
		secret:   []byte(secret),
		issuer:   strings.TrimSpace(cfg.Issuer),
		audience: strings.TrimSpace(cfg.Audience),
		leeway:   cfg.Leeway,
		now:      time.Now,
	}, nil
}

// WithClock overrides the time source used for expiry checks.
func (v *IdentityVerifier) WithClock(now func() time.Time) *IdentityVerifier {
	if now != nil {
		v.now = now
	}
	return v
}

// Verify parses the raw token and returns the actor it identifies.
func (v *IdentityVerifier) Verify(raw string) (domain.Actor, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Actor{}, ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.leeway),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &IdentityClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Actor{}, ErrExpiredToken
		}
		return domain.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return domain.Actor{}, fmt.Errorf("%w: subject claim missing", ErrInvalidToken)
	}

	return domain.Actor{UserID: subject, Email: strings.TrimSpace(claims.Email)}, nil
}

// IdentityTokenOptions configures SignIdentityToken.
type IdentityTokenOptions struct {
	UserID   string
	Email    string
	Issuer   string
	Audience string
	TTL      time.Duration
	IssuedAt time.Time
}

const defaultIdentityTokenTTL = 15 * time.Minute

// SignIdentityToken mints an HS256 token in the identity provider's format.
// Used by local tooling and tests.
func SignIdentityToken(secret string, opts IdentityTokenOptions) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", ErrSecretMissing
	}
	userID := strings.TrimSpace(opts.UserID)
	if userID == "" {
		return "", fmt.Errorf("jwt: user id is required")
	}

	now := opts.IssuedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultIdentityTokenTTL
	}

	claims := IdentityClaims{
		Email: strings.TrimSpace(opts.Email),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    strings.TrimSpace(opts.Issuer),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	if aud := strings.TrimSpace(opts.Audience); aud != "" {
		claims.Audience = jwt.ClaimStrings{aud}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}
