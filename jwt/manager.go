package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Typed parse failures. Engine callers collapse all of them into a single
// unauthorized result; the distinction survives only in audit metadata.
var (
	ErrTokenExpired   = errors.New("jwt: token expired")
	ErrTokenSignature = errors.New("jwt: token signature invalid")
	ErrTokenMalformed = errors.New("jwt: token malformed")
	ErrNoBearer       = errors.New("jwt: authorization header missing bearer token")
)

// tokenUseRefresh is the value of the "type" claim that marks a refresh
// token. Access tokens omit the claim entirely.
const tokenUseRefresh = "refresh"

// Claims is the payload carried by every authcore token.
type Claims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	TokenUse string `json:"type,omitempty"`
	jwtlib.RegisteredClaims
}

// IsRefresh reports whether the claims belong to a refresh token.
func (c *Claims) IsRefresh() bool {
	return c.TokenUse == tokenUseRefresh
}

// Config controls the Manager. RefreshMultiplier scales AccessTTL to the
// refresh token lifetime (the default, 24, gives day-long refresh tokens
// for hour-long access tokens).
type Config struct {
	Secret            []byte
	AccessTTL         time.Duration
	RefreshMultiplier int
	Issuer            string
	Leeway            time.Duration
}

// Manager issues and parses tokens. Safe for concurrent use.
type Manager struct {
	config Config
}

// NewManager validates cfg and returns a Manager. The secret must be
// non-empty and the access TTL positive.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("jwt: secret must not be empty")
	}
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("jwt: access ttl must be positive")
	}
	if cfg.RefreshMultiplier < 1 {
		cfg.RefreshMultiplier = 24
	}
	if cfg.Leeway < 0 {
		return nil, errors.New("jwt: leeway must not be negative")
	}
	return &Manager{config: cfg}, nil
}

// AccessTTL returns the configured access token lifetime.
func (m *Manager) AccessTTL() time.Duration {
	return m.config.AccessTTL
}

// RefreshTTL returns the refresh token lifetime.
func (m *Manager) RefreshTTL() time.Duration {
	return m.config.AccessTTL * time.Duration(m.config.RefreshMultiplier)
}

// CreateAccess signs an access token for the given identity.
func (m *Manager) CreateAccess(userID, email, name string) (string, error) {
	return m.create(userID, email, name, "", m.config.AccessTTL)
}

// CreateRefresh signs a refresh token for the given identity. The token
// carries the refresh-use claim and lives RefreshMultiplier times longer
// than an access token.
func (m *Manager) CreateRefresh(userID, email, name string) (string, error) {
	return m.create(userID, email, name, tokenUseRefresh, m.RefreshTTL())
}

func (m *Manager) create(userID, email, name, tokenUse string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Email:    email,
		Name:     name,
		TokenUse: tokenUse,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   userID,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.config.Secret)
	if err != nil {
		return "", fmt.Errorf("jwt: signing token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and registered claims of tokenStr and
// returns its payload. Failures are classified as ErrTokenExpired,
// ErrTokenSignature, or ErrTokenMalformed.
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
	}
	if m.config.Leeway > 0 {
		opts = append(opts, jwtlib.WithLeeway(m.config.Leeway))
	}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (any, error) {
		return m.config.Secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwtlib.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwtlib.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenMalformed
		}
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// ExtractFromHeader pulls the token out of an Authorization header value.
// It fails with ErrNoBearer when the header is empty or the scheme is not
// Bearer.
func ExtractFromHeader(header string) (string, error) {
	const prefix = "Bearer "
	if header == "" || !strings.HasPrefix(header, prefix) {
		return "", ErrNoBearer
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", ErrNoBearer
	}
	return token, nil
}
