package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const accessTokenType = "access"

// Claims are the access token claims issued by the backend
type Claims struct {
	jwtlib.RegisteredClaims
	UserID int64          `json:"uid,omitempty"`
	Role   users.RoleType `json:"role,omitempty"`
	Type   string         `json:"type"`
}

// Issuer creates access tokens for authenticated users
type Issuer struct {
	signer Signer
	ttl    time.Duration
}

func NewIssuer(signer Signer, ttl time.Duration) *Issuer {
	return &Issuer{signer: signer, ttl: ttl}
}

// CreateAccessToken returns a signed token and its expiry in epoch milliseconds
func (i *Issuer) CreateAccessToken(user *users.Record) (string, int64, error) {
	now := NowTimeFunc()
	exp := now.Add(i.ttl)
	claims := Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(exp),
			ID:        uuid.New().String(),
		},
		UserID: user.ID,
		Role:   user.Role,
		Type:   accessTokenType,
	}
	signed, err := i.signer.Sign(claims)
	if err != nil {
		return "", 0, fmt.Errorf("[jwt CreateAccessToken] %w", err)
	}
	// exp is truncated to whole seconds in the token, report the same instant
	return signed, exp.Truncate(time.Second).UnixMilli(), nil
}

// Verify checks the signature, expiry and type of an access token
func (i *Issuer) Verify(raw string) (*Claims, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, apperrors.ErrInvalidToken
	}
	claims := &Claims{}
	token, err := jwtlib.ParseWithClaims(raw, claims, i.signer.GetVerificationKey,
		jwtlib.WithValidMethods([]string{i.signer.GetSigningMethod().Alg()}),
		jwtlib.WithTimeFunc(NowTimeFunc),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, fmt.Errorf("[jwt Verify] %w", apperrors.ErrTokenExpired)
		}
		return nil, fmt.Errorf("[jwt Verify] %w: %v", apperrors.ErrInvalidToken, err)
	}
	if !token.Valid || claims.Type != accessTokenType {
		return nil, fmt.Errorf("[jwt Verify] %w", apperrors.ErrInvalidToken)
	}
	return claims, nil
}

// ExpiryFromToken reads the exp claim of a JWT without verifying it and
// returns it in epoch milliseconds. Opaque tokens return ErrInvalidToken.
func ExpiryFromToken(raw string) (int64, error) {
	token, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return 0, fmt.Errorf("[jwt ExpiryFromToken] %w: %v", apperrors.ErrInvalidToken, err)
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, fmt.Errorf("[jwt ExpiryFromToken] %w: no exp claim", apperrors.ErrInvalidToken)
	}
	return exp.UnixMilli(), nil
}
