package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	appErrors "github.com/aydinemil/finance-tracker/errors"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
}

type Claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies signed bearer tokens. The subject of
// every token is the user's email; the signing key is process-wide and
// rotating it invalidates all previously issued tokens.
type TokenManager struct {
	config TokenConfig
}

func NewTokenManager(config TokenConfig) *TokenManager {
	return &TokenManager{config: config}
}

func (tm *TokenManager) IssueAccessToken(email string) (string, error) {
	return tm.issue(email, TokenTypeAccess, tm.config.AccessTTL)
}

func (tm *TokenManager) IssueRefreshToken(email string) (string, error) {
	return tm.issue(email, TokenTypeRefresh, tm.config.RefreshTTL)
}

func (tm *TokenManager) issue(email string, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.config.Issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(tm.config.Secret))
	if err != nil {
		return "", appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to issue token, try again later.",
		}
	}
	return signed, nil
}

// parse verifies the signature before trusting any claim and fails closed
// on malformed input, tampering, wrong signing method or expiry.
func (tm *TokenManager) parse(raw string, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrAuth,
				Message: "Invalid token.",
			}
		}
		return []byte(tm.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrAuth,
			Message: "Invalid or expired token, please login again.",
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrAuth,
			Message: "Invalid token.",
		}
	}
	if claims.TokenType != wantType {
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrAuth,
			Message: "Invalid token type.",
		}
	}
	return claims, nil
}

func (tm *TokenManager) ParseAccessToken(raw string) (*Claims, error) {
	return tm.parse(raw, TokenTypeAccess)
}

func (tm *TokenManager) ParseRefreshToken(raw string) (*Claims, error) {
	return tm.parse(raw, TokenTypeRefresh)
}
