package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType separates short-lived API credentials from refresh credentials.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

var (
	ErrTokenInvalid   = errors.New("auth: invalid token")
	ErrTokenWrongType = errors.New("auth: wrong token type")
)

// Claims is the JWT payload. Subject holds the user id in decimal.
type Claims struct {
	Type TokenType `json:"type"`
	jwt.RegisteredClaims
}

// Identity is what a validated token proves about the caller.
type Identity struct {
	UserID    int64
	TokenType TokenType
	TokenID   string
	ExpiresAt time.Time
}

// IssuerConfig configures NewIssuer.
type IssuerConfig struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time // defaults to time.Now
}

// Issuer signs and validates HS256 access and refresh tokens.
type Issuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

func NewIssuer(cfg IssuerConfig) *Issuer {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Issuer{
		secret:     cfg.Secret,
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithIssuedAt(),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(now),
		),
	}
}

// IssueAccess signs a new access token for userID.
func (i *Issuer) IssueAccess(userID int64) (string, error) {
	return i.issue(userID, AccessToken, i.accessTTL)
}

// IssueRefresh signs a new refresh token for userID.
func (i *Issuer) IssueRefresh(userID int64) (string, error) {
	return i.issue(userID, RefreshToken, i.refreshTTL)
}

func (i *Issuer) issue(userID int64, typ TokenType, ttl time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", typ, err)
	}
	return signed, nil
}

// Validate parses raw and checks signature, expiry, issuer and that the
// token is of the wanted type.
func (i *Issuer) Validate(raw string, want TokenType) (*Identity, error) {
	var claims Claims
	if _, err := i.parser.ParseWithClaims(raw, &claims, i.keyFunc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("%w: bad subject %q", ErrTokenInvalid, claims.Subject)
	}
	if claims.Type != want {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrTokenWrongType, claims.Type, want)
	}

	id := &Identity{
		UserID:    userID,
		TokenType: claims.Type,
		TokenID:   claims.ID,
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

func (i *Issuer) keyFunc(*jwt.Token) (interface{}, error) {
	return i.secret, nil
}
