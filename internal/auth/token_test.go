package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testTokenManager() *TokenManager {
	return NewTokenManager(TokenConfig{
		Secret:     "unit-test-secret",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		Issuer:     "finance-tracker",
	})
}

func TestAccessTokenRoundtrip(t *testing.T) {
	tm := testTokenManager()

	raw, err := tm.IssueAccessToken("john@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := tm.ParseAccessToken(raw)
	require.NoError(t, err)
	require.Equal(t, "john@example.com", claims.Subject)
	require.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestRefreshTokenRoundtrip(t *testing.T) {
	tm := testTokenManager()

	raw, err := tm.IssueRefreshToken("john@example.com")
	require.NoError(t, err)

	claims, err := tm.ParseRefreshToken(raw)
	require.NoError(t, err)
	require.Equal(t, "john@example.com", claims.Subject)
	require.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestParseRejectsWrongTokenType(t *testing.T) {
	tm := testTokenManager()

	refresh, err := tm.IssueRefreshToken("john@example.com")
	require.NoError(t, err)

	// A refresh token must never pass as an access token.
	_, err = tm.ParseAccessToken(refresh)
	require.Error(t, err)

	access, err := tm.IssueAccessToken("john@example.com")
	require.NoError(t, err)

	_, err = tm.ParseRefreshToken(access)
	require.Error(t, err)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	tm := testTokenManager()

	raw, err := tm.IssueAccessToken("john@example.com")
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + "forged-signature"

	_, err = tm.ParseAccessToken(tampered)
	require.Error(t, err)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tm := testTokenManager()

	raw, err := tm.IssueAccessToken("john@example.com")
	require.NoError(t, err)

	other := NewTokenManager(TokenConfig{
		Secret:     "different-secret",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		Issuer:     "finance-tracker",
	})

	_, err = other.ParseAccessToken(raw)
	require.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager(TokenConfig{
		Secret:     "unit-test-secret",
		AccessTTL:  -1 * time.Minute, // already expired at issue time
		RefreshTTL: 7 * 24 * time.Hour,
		Issuer:     "finance-tracker",
	})

	raw, err := tm.IssueAccessToken("john@example.com")
	require.NoError(t, err)

	_, err = tm.ParseAccessToken(raw)
	require.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	tm := testTokenManager()

	_, err := tm.ParseAccessToken("not-a-jwt")
	require.Error(t, err)
}
