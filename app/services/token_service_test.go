// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestTokenService creates a token service for testing with symmetric key
func createTestTokenService() (TokenService, error) {
	return NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false, // useRSAKeys
		"",    // privateKeyPEM
		"",    // publicKeyPEM
		"test-secret-key-for-jwt-signing-32-chars", // secretKey
	)
}

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name        string
		secretKey   string
		issuer      string
		audience    string
		expectError bool
	}{
		{
			name:        "valid symmetric key configuration",
			secretKey:   "test-secret-key-for-jwt-signing-32-chars",
			issuer:      "test-issuer",
			audience:    "test-audience",
			expectError: false,
		},
		{
			name:        "missing secret key",
			secretKey:   "",
			issuer:      "test-issuer",
			audience:    "test-audience",
			expectError: true,
		},
		{
			name:        "empty issuer and audience",
			secretKey:   "test-secret-key-for-jwt-signing-32-chars",
			issuer:      "",
			audience:    "",
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewTokenService(
				15*time.Minute,
				7*24*time.Hour,
				tt.issuer,
				tt.audience,
				false,
				"",
				"",
				tt.secretKey,
			)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, service)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, service)
			}
		})
	}
}

func TestGenerateTokens(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateTokens(3, "buyer")
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)
}

func TestValidateToken_RoleClaimRoundTrip(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	tests := []struct {
		name   string
		userID uint
		role   string
	}{
		{name: "buyer role", userID: 3, role: "buyer"},
		{name: "reviewer role", userID: 5, role: "reviewer"},
		{name: "coder role", userID: 8, role: "coder"},
		{name: "admin role", userID: 1, role: "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accessToken, _, err := service.GenerateTokens(tt.userID, tt.role)
			require.NoError(t, err)

			claims, err := service.ValidateToken(accessToken)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.role, claims.Role)
			assert.Equal(t, "access", claims.TokenType)
			assert.NotEmpty(t, claims.TokenID)
			assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
		})
	}
}

func TestValidateToken_RefreshTokenType(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	_, refreshToken, err := service.GenerateTokens(3, "buyer")
	require.NoError(t, err)

	claims, err := service.ValidateToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.TokenType)
	assert.Equal(t, "buyer", claims.Role)
}

func TestValidateToken_InvalidToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "not-a-jwt"},
		{name: "truncated token", token: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestValidateToken_WrongSigningKey(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	other, err := NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false,
		"",
		"",
		"another-secret-key-for-jwt-signing-32ch",
	)
	require.NoError(t, err)

	accessToken, _, err := other.GenerateTokens(3, "buyer")
	require.NoError(t, err)

	claims, err := service.ValidateToken(accessToken)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestRefreshToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	_, refreshToken, err := service.GenerateTokens(5, "reviewer")
	require.NoError(t, err)

	newAccess, newRefresh, err := service.RefreshToken(refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEmpty(t, newRefresh)

	// The refreshed pair keeps the user and role
	claims, err := service.ValidateToken(newAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(5), claims.UserID)
	assert.Equal(t, "reviewer", claims.Role)
	assert.Equal(t, "access", claims.TokenType)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, _, err := service.GenerateTokens(5, "reviewer")
	require.NoError(t, err)

	_, _, err = service.RefreshToken(accessToken)
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, _, err := service.GenerateTokens(8, "coder")
	require.NoError(t, err)

	assert.False(t, service.IsTokenRevoked(accessToken))

	err = service.RevokeToken(accessToken)
	require.NoError(t, err)

	assert.True(t, service.IsTokenRevoked(accessToken))

	claims, err := service.ValidateToken(accessToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	assert.Nil(t, claims)
}

func TestRevokeToken_DoesNotAffectOtherTokens(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	first, _, err := service.GenerateTokens(8, "coder")
	require.NoError(t, err)
	second, _, err := service.GenerateTokens(8, "coder")
	require.NoError(t, err)

	require.NoError(t, service.RevokeToken(first))

	assert.True(t, service.IsTokenRevoked(first))
	assert.False(t, service.IsTokenRevoked(second))

	claims, err := service.ValidateToken(second)
	require.NoError(t, err)
	assert.Equal(t, uint(8), claims.UserID)
}

func TestRevokeToken_InvalidToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	err = service.RevokeToken("not-a-jwt")
	assert.Error(t, err)
}
