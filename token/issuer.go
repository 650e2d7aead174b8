package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Verification failure kinds. The issuer itself only produces the first
// two; ErrRevokedToken is composed by the request gate, which cross-checks
// the revocation registry after a successful Verify.
var (
	ErrExpiredToken   = errors.New("token has expired")
	ErrMalformedToken = errors.New("invalid token")
	ErrRevokedToken   = errors.New("token has been revoked")
)

const defaultLifetime = 24 * time.Hour

// Claims is the identity an issued token carries.
type Claims struct {
	SubjectID string // Account id
	Role      string
}

// Issuer mints and verifies HS256 bearer tokens. The signing secret is
// process-wide configuration loaded once at startup; rotating it
// invalidates every outstanding token, which short lifetimes make
// acceptable.
type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	lifetime time.Duration
	nowFunc  func() time.Time
}

type IssuerOption func(*Issuer)

// WithLifetime overrides the default 24h token lifetime.
func WithLifetime(lifetime time.Duration) IssuerOption {
	return func(i *Issuer) {
		i.lifetime = lifetime
	}
}

func WithIssuer(issuer string) IssuerOption {
	return func(i *Issuer) {
		i.issuer = issuer
	}
}

func WithAudience(audience string) IssuerOption {
	return func(i *Issuer) {
		i.audience = audience
	}
}

// WithNowFunc sets the clock (primarily for testing).
func WithNowFunc(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowFunc = now
	}
}

func NewIssuer(secret string, options ...IssuerOption) *Issuer {
	i := &Issuer{
		secret:   []byte(secret),
		lifetime: defaultLifetime,
		nowFunc:  time.Now,
	}
	for _, opt := range options {
		opt(i)
	}
	return i
}

// Issue creates a signed token carrying the subject and role claims.
func (i *Issuer) Issue(subjectID, role string) (string, error) {
	now := i.nowFunc()
	claims := jwt.MapClaims{
		"sub":  subjectID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(i.lifetime).Unix(),
		"jti":  uuid.New().String(),
	}
	if i.issuer != "" {
		claims["iss"] = i.issuer
	}
	if i.audience != "" {
		claims["aud"] = i.audience
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", errors.Wrap(err, "Issuer.Issue SignedString")
	}
	return signed, nil
}

// Verify parses and validates a token. It fails with ErrExpiredToken when
// the token is past expiry and ErrMalformedToken for every other defect
// (bad signature, wrong algorithm, garbage input, issuer/audience
// mismatch).
func (i *Issuer) Verify(raw string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithTimeFunc(i.nowFunc),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)

	parsed, err := parser.Parse(raw, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, ErrMalformedToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrMalformedToken
	}

	sub, _ := mapClaims["sub"].(string)
	role, _ := mapClaims["role"].(string)
	if sub == "" {
		return Claims{}, ErrMalformedToken
	}

	if i.issuer != "" {
		if iss, _ := mapClaims["iss"].(string); iss != i.issuer {
			return Claims{}, ErrMalformedToken
		}
	}
	if i.audience != "" {
		aud, _ := mapClaims.GetAudience()
		if !containsAudience(aud, i.audience) {
			return Claims{}, ErrMalformedToken
		}
	}

	return Claims{SubjectID: sub, Role: role}, nil
}

func containsAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}
